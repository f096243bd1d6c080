package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/duccv/student-service/internal/apperror"
	"gorm.io/gorm"
)

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, apperror.ErrNotFound) {
		return apperror.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", apperror.ErrConflict, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
