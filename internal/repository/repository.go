// Package repository defines the credential store contracts and builds the
// implementation matching the configured database.
package repository

import (
	"context"
	"fmt"

	"github.com/duccv/student-service/internal/model"
	"github.com/duccv/student-service/internal/repository/mongo"
	"github.com/duccv/student-service/internal/repository/postgres"
	"github.com/duccv/student-service/internal/repository/sqlite"
	"github.com/duccv/student-service/pkg/database"
)

// TeacherRepository stores teacher accounts. Teachers are never updated or deleted.
//
// Create returns apperror.ErrConflict when the username is taken;
// FindByUsername returns apperror.ErrNotFound when it is not.
type TeacherRepository interface {
	Create(ctx context.Context, teacher model.Teacher) error
	FindByUsername(ctx context.Context, username string) (model.Teacher, error)
}

// StudentRepository stores student records keyed by nim.
//
// Find, Update and Delete return apperror.ErrNotFound for an unknown nim;
// Create returns apperror.ErrConflict for a duplicate one.
type StudentRepository interface {
	List(ctx context.Context) ([]model.Student, error)
	Find(ctx context.Context, nim string) (model.Student, error)
	Create(ctx context.Context, student model.Student) error
	Update(ctx context.Context, nim string, update model.StudentUpdate) (model.Student, error)
	Delete(ctx context.Context, nim string) (model.Student, error)
}

// Repositories groups the stores the services depend on.
type Repositories struct {
	Teachers TeacherRepository
	Students StudentRepository
}

// New builds the repositories for a connected database.
func New(db database.Database) (*Repositories, error) {
	switch db.GetType() {
	case database.PostgreSQL:
		read, write, err := database.GetPgxPools(db)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Teachers: postgres.NewTeacherRepository(read, write),
			Students: postgres.NewStudentRepository(read, write),
		}, nil
	case database.MongoDBNoSQL:
		mdb, err := database.GetMongoDB(db)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Teachers: mongo.NewTeacherRepository(mdb.Collection(database.TeachersCollection)),
			Students: mongo.NewStudentRepository(mdb.Collection(database.StudentsCollection)),
		}, nil
	case database.SQLite:
		gdb, err := database.GetGormDB(db)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Teachers: sqlite.NewTeacherRepository(gdb),
			Students: sqlite.NewStudentRepository(gdb),
		}, nil
	default:
		return nil, fmt.Errorf("no repositories for database type %s", db.GetType())
	}
}
