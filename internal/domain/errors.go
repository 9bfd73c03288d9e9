package domain

import "errors"

var (
	// ErrCatalogIO signals an unreadable catalog file.
	ErrCatalogIO = errors.New("catalog unreadable")
	// ErrCatalogParse signals a malformed catalog file.
	ErrCatalogParse = errors.New("catalog malformed")
	// ErrCatalogUnavailable signals that no catalog records could be loaded.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrExternalService signals an oracle or embedding provider failure.
	ErrExternalService = errors.New("external service error")
	// ErrNumericParse signals a duration without a usable number of minutes.
	ErrNumericParse = errors.New("duration has no numeric value")
	// ErrMalformedSignal signals an oracle signal that cannot be scored.
	ErrMalformedSignal = errors.New("malformed relevance signal")
	// ErrInvalidQuery signals a request the pipeline cannot honor.
	ErrInvalidQuery = errors.New("invalid query")
)

// InvalidQueryError wraps ErrInvalidQuery with a client-facing reason.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string { return e.Reason }

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// NewInvalidQuery creates an invalid query error.
func NewInvalidQuery(reason string) error {
	return &InvalidQueryError{Reason: reason}
}
