// Package apperror holds the error kinds the service recovers from at the request boundary.
package apperror

import (
	"errors"
	"sort"
	"strings"

	"github.com/duccv/student-service/internal/model"
)

var (
	// ErrNotFound is returned when no teacher or student exists for the given key.
	ErrNotFound = errors.New("not found")
	// ErrWrongPassword is returned when the supplied password does not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")
	// ErrInvalidToken covers malformed, forged and expired tokens alike.
	ErrInvalidToken = errors.New("invalid token")
	// ErrConflict is returned when a create collides with an existing unique key.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries the field-level messages of a rejected student record.
type ValidationError struct {
	Errors map[model.StudentField]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
