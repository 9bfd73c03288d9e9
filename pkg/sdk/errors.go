package recommender

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Sentinel errors matched by *APIError through errors.Is.
var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
)

const catalogUnavailableDetail = "Failed to load catalog data"

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("recommender: http %d: %s", e.StatusCode, e.Detail)
}

// Is maps status codes and details onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrCatalogUnavailable:
		return e.StatusCode == http.StatusInternalServerError && e.Detail == catalogUnavailableDetail
	case ErrValidation:
		return e.StatusCode == http.StatusUnprocessableEntity
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// parseAPIError builds an APIError from a response body. The detail is
// either a string or a list of {loc, msg} entries.
func parseAPIError(status int, body []byte) *APIError {
	var raw struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || len(raw.Detail) == 0 {
		return &APIError{StatusCode: status, Detail: strings.TrimSpace(string(body))}
	}

	var s string
	if err := json.Unmarshal(raw.Detail, &s); err == nil {
		return &APIError{StatusCode: status, Detail: s}
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw.Detail, &items); err == nil && len(items) > 0 {
		parts := make([]string, len(items))
		for i, it := range items {
			loc := make([]string, len(it.Loc))
			for j, l := range it.Loc {
				loc[j] = fmt.Sprint(l)
			}
			parts[i] = strings.Join(loc, ".") + ": " + it.Msg
		}
		return &APIError{StatusCode: status, Detail: strings.Join(parts, "; ")}
	}

	return &APIError{StatusCode: status, Detail: string(raw.Detail)}
}
