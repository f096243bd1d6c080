// Package service holds the teacher authentication flow and the student record operations.
package service

import (
	"errors"

	"github.com/duccv/student-service/internal/apperror"
	"github.com/duccv/student-service/pkg/metrics"
)

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
}

// PasswordHasher hashes passwords and checks them against stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) (bool, error)
}

// outcome classifies err for the operation counters.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperror.ErrNotFound),
		errors.Is(err, apperror.ErrWrongPassword),
		errors.Is(err, apperror.ErrInvalidToken),
		errors.Is(err, apperror.ErrConflict):
		return metrics.OutcomeRejected
	default:
		if _, ok := apperror.AsValidation(err); ok {
			return metrics.OutcomeRejected
		}
		return metrics.OutcomeError
	}
}
