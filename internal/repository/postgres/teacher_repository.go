package postgres

import (
	"context"

	"github.com/duccv/student-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	read  *pgxpool.Pool
	write *pgxpool.Pool
}

func NewTeacherRepository(read, write *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{read: read, write: write}
}

func (r *TeacherRepository) Create(ctx context.Context, teacher model.Teacher) error {
	query := `
		INSERT INTO teachers (username, password)
		VALUES ($1, $2)
	`
	if _, err := r.write.Exec(ctx, query, teacher.Username, teacher.PasswordHash); err != nil {
		return translate("create teacher", err)
	}
	return nil
}

func (r *TeacherRepository) FindByUsername(ctx context.Context, username string) (model.Teacher, error) {
	query := `
		SELECT username, password
		FROM teachers
		WHERE username = $1
	`
	var t model.Teacher
	if err := r.read.QueryRow(ctx, query, username).Scan(&t.Username, &t.PasswordHash); err != nil {
		return model.Teacher{}, translate("get teacher by username", err)
	}
	return t, nil
}
