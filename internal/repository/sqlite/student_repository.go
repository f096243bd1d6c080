package sqlite

import (
	"context"

	"github.com/duccv/student-service/internal/apperror"
	"github.com/duccv/student-service/internal/model"
	"gorm.io/gorm"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	students := []model.Student{}
	if err := r.db.WithContext(ctx).Order("nim").Find(&students).Error; err != nil {
		return nil, translate("list students", err)
	}
	return students, nil
}

func (r *StudentRepository) Find(ctx context.Context, nim string) (model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("nim = ?", nim).First(&s).Error; err != nil {
		return model.Student{}, translate("get student", err)
	}
	return s, nil
}

func (r *StudentRepository) Create(ctx context.Context, student model.Student) error {
	if err := r.db.WithContext(ctx).Create(&student).Error; err != nil {
		return translate("create student", err)
	}
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, nim string, u model.StudentUpdate) (model.Student, error) {
	var updated model.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Student
		if err := tx.Where("nim = ?", nim).First(&current).Error; err != nil {
			return err
		}
		updated = u.Apply(current)
		return tx.Save(&updated).Error
	})
	if err != nil {
		return model.Student{}, translate("update student", err)
	}
	return updated, nil
}

func (r *StudentRepository) Delete(ctx context.Context, nim string) (model.Student, error) {
	var deleted model.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("nim = ?", nim).First(&deleted).Error; err != nil {
			return err
		}
		res := tx.Where("nim = ?", nim).Delete(&model.Student{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return model.Student{}, translate("delete student", err)
	}
	return deleted, nil
}
