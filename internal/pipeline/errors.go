package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when a history record does not exist
var ErrNotFound = errors.New("description not found")

// ErrHistoryDisabled is returned by history operations when no store is configured
var ErrHistoryDisabled = errors.New("history storage is not configured")

// ValidationError wraps validator failures for a request
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Fields returns one human-readable message per invalid field, keyed by JSON field name
func (e *ValidationError) Fields() map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(e.Cause, &verrs) {
		return map[string]string{"request": e.Cause.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := jsonFieldNames[fe.Field()]
		if name == "" {
			name = strings.ToLower(fe.Field())
		}
		fields[name] = fieldMessage(name, fe)
	}
	return fields
}

var jsonFieldNames = map[string]string{
	"Title":    "title",
	"Type":     "type",
	"Location": "location",
	"Price":    "price",
	"Features": "features",
	"Tone":     "tone",
}

func fieldMessage(name string, fe validator.FieldError) string {
	label := strings.ReplaceAll(name, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}
