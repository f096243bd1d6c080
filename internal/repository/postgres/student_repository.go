package postgres

import (
	"context"

	"github.com/duccv/student-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = "nim, nisn, name, email, address, phone"

type StudentRepository struct {
	read  *pgxpool.Pool
	write *pgxpool.Pool
}

func NewStudentRepository(read, write *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{read: read, write: write}
}

func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.read.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY nim`)
	if err != nil {
		return nil, translate("list students", err)
	}
	students, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Student])
	if err != nil {
		return nil, translate("scan students", err)
	}
	return students, nil
}

func (r *StudentRepository) Find(ctx context.Context, nim string) (model.Student, error) {
	rows, err := r.read.Query(ctx, `SELECT `+studentColumns+` FROM students WHERE nim = $1`, nim)
	if err != nil {
		return model.Student{}, translate("get student", err)
	}
	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[model.Student])
	if err != nil {
		return model.Student{}, translate("get student", err)
	}
	return s, nil
}

func (r *StudentRepository) Create(ctx context.Context, s model.Student) error {
	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.write.Exec(ctx, query, s.Nim, s.Nisn, s.Name, s.Email, s.Address, s.Phone); err != nil {
		return translate("create student", err)
	}
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, nim string, u model.StudentUpdate) (model.Student, error) {
	query := `
		UPDATE students
		SET nisn = $2, name = $3, email = $4, address = $5, phone = $6
		WHERE nim = $1
		RETURNING ` + studentColumns
	rows, err := r.write.Query(ctx, query, nim, u.Nisn, u.Name, u.Email, u.Address, u.Phone)
	if err != nil {
		return model.Student{}, translate("update student", err)
	}
	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[model.Student])
	if err != nil {
		return model.Student{}, translate("update student", err)
	}
	return s, nil
}

func (r *StudentRepository) Delete(ctx context.Context, nim string) (model.Student, error) {
	rows, err := r.write.Query(ctx, `DELETE FROM students WHERE nim = $1 RETURNING `+studentColumns, nim)
	if err != nil {
		return model.Student{}, translate("delete student", err)
	}
	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[model.Student])
	if err != nil {
		return model.Student{}, translate("delete student", err)
	}
	return s, nil
}
