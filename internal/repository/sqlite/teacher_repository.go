package sqlite

import (
	"context"

	"github.com/duccv/student-service/internal/model"
	"gorm.io/gorm"
)

type TeacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) Create(ctx context.Context, teacher model.Teacher) error {
	if err := r.db.WithContext(ctx).Create(&teacher).Error; err != nil {
		return translate("create teacher", err)
	}
	return nil
}

func (r *TeacherRepository) FindByUsername(ctx context.Context, username string) (model.Teacher, error) {
	var t model.Teacher
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&t).Error; err != nil {
		return model.Teacher{}, translate("get teacher by username", err)
	}
	return t, nil
}
