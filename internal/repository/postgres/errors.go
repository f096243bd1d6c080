package postgres

import (
	"errors"
	"fmt"

	"github.com/duccv/student-service/internal/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// translate maps driver errors onto the apperror kinds and wraps the rest.
func translate(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", apperror.ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
