package chi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator. Field names in errors use json tags.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateRequest returns nil or the list of field errors for s.
func validateRequest(s any) []fieldError {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}}
	}

	out := make([]fieldError, len(verrs))
	for i, fe := range verrs {
		out[i] = fieldError{
			Loc:  fieldLoc(fe),
			Msg:  translateError(fe),
			Type: errorType(fe.Tag()),
		}
	}
	return out
}

// fieldLoc turns "recommendRequest.test_types[0]" into ["body", "test_types", "0"].
func fieldLoc(fe validator.FieldError) []string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	loc := []string{"body"}
	for _, part := range strings.Split(ns, ".") {
		name, idx, hasIdx := strings.Cut(part, "[")
		loc = append(loc, name)
		if hasIdx {
			loc = append(loc, strings.TrimSuffix(idx, "]"))
		}
	}
	return loc
}

func translateError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func errorType(tag string) string {
	switch tag {
	case "required":
		return "value_error.missing"
	case "gte":
		return "value_error.number.not_ge"
	case "max":
		return "value_error.any_str.max_length"
	default:
		return "value_error"
	}
}
