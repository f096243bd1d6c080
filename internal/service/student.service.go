package service

import (
	"context"

	"github.com/duccv/student-service/internal/apperror"
	"github.com/duccv/student-service/internal/model"
	"github.com/duccv/student-service/internal/repository"
	"github.com/duccv/student-service/internal/validation"
	"github.com/duccv/student-service/pkg/logger"
	"github.com/duccv/student-service/pkg/metrics"
	"go.uber.org/zap"
)

type StudentService struct {
	students         repository.StudentRepository
	validateOnUpdate bool
}

// NewStudentService builds the student operations. Updates are stored as sent
// unless validateOnUpdate is set.
func NewStudentService(students repository.StudentRepository, validateOnUpdate bool) *StudentService {
	return &StudentService{students: students, validateOnUpdate: validateOnUpdate}
}

// List returns every student ordered by nim, never nil.
func (s *StudentService) List(ctx context.Context) (students []model.Student, err error) {
	defer func() { metrics.ObserveStudent("list", outcome(err)) }()

	students, err = s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

func (s *StudentService) Get(ctx context.Context, nim string) (student model.Student, err error) {
	defer func() { metrics.ObserveStudent("get", outcome(err)) }()
	return s.students.Find(ctx, nim)
}

// Create validates the record and stores it. Invalid records yield an
// *apperror.ValidationError and never reach the store.
func (s *StudentService) Create(ctx context.Context, student model.Student) (created model.Student, err error) {
	defer func() { metrics.ObserveStudent("create", outcome(err)) }()

	if res := validation.ValidateStudent(student); !res.Valid {
		return model.Student{}, &apperror.ValidationError{Errors: res.Errors}
	}
	if err := s.students.Create(ctx, student); err != nil {
		return model.Student{}, err
	}
	logger.WithOperation(logger.FromContext(ctx), "student.create").
		Info("Student created", zap.String("nim", student.Nim))
	return student, nil
}

func (s *StudentService) Update(
	ctx context.Context,
	nim string,
	update model.StudentUpdate,
) (updated model.Student, err error) {
	defer func() { metrics.ObserveStudent("update", outcome(err)) }()

	if s.validateOnUpdate {
		res := validation.ValidateStudent(update.Apply(model.Student{Nim: nim}))
		// nim comes from the path and is not part of the update
		delete(res.Errors, model.FieldNim)
		if len(res.Errors) > 0 {
			return model.Student{}, &apperror.ValidationError{Errors: res.Errors}
		}
	}
	return s.students.Update(ctx, nim, update)
}

// Delete removes a student and returns the removed record.
func (s *StudentService) Delete(ctx context.Context, nim string) (deleted model.Student, err error) {
	defer func() { metrics.ObserveStudent("delete", outcome(err)) }()

	deleted, err = s.students.Delete(ctx, nim)
	if err != nil {
		return model.Student{}, err
	}
	logger.WithOperation(logger.FromContext(ctx), "student.delete").
		Info("Student deleted", zap.String("nim", nim))
	return deleted, nil
}
