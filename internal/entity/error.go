package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidData           = errors.New("invalid data")
	ErrGatewayUnavailable    = errors.New("gateway unavailable")
	ErrUnknownProfile        = errors.New("unknown gateway profile")
	ErrDuplicateNotification = errors.New("duplicate notification")
	ErrConfigPathNotSet      = errors.New("CONFIG_PATH not set and -config flag not provided")
)

type (
	FieldError struct {
		Field   string `json:"field"`
		Rule    string `json:"rule"`
		Message string `json:"message"`
	}

	ValidationError struct {
		Fields []FieldError
	}
)

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidData
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
