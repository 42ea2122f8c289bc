package config

import (
	"errors"
	"fmt"
)

// ErrMissingField is matched by every MissingFieldError.
var ErrMissingField = errors.New("missing required configuration")

// MissingFieldError reports a required setting that was not provided.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Field)
}

// Is makes errors.Is(err, ErrMissingField) succeed.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
