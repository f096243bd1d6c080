package mongo

import (
	"errors"
	"fmt"

	"github.com/duccv/student-service/internal/apperror"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func translate(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", apperror.ErrConflict, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
