package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/duccv/student-service/config"
	"github.com/duccv/student-service/internal/apperror"
	"github.com/duccv/student-service/internal/model"
	"github.com/duccv/student-service/pkg/database"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := database.NewSqliteDB(&config.SqliteConfig{Path: ":memory:"})
	if err := db.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := database.GetGormDB(db)
	if err != nil {
		t.Fatalf("gorm handle: %v", err)
	}
	return gdb
}

func sampleStudent(nim string) model.Student {
	return model.Student{
		Nim:     nim,
		Nisn:    "1234567890",
		Name:    "A",
		Email:   "a@b.co",
		Address: "X",
		Phone:   "081234567890",
	}
}

func TestTeacherRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTeacherRepository(newTestDB(t))

	if _, err := repo.FindByUsername(ctx, "alice"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("FindByUsername on empty store: %v, want ErrNotFound", err)
	}

	alice := model.Teacher{Username: "alice", PasswordHash: "$2a$10$hash"}
	if err := repo.Create(ctx, alice); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, model.Teacher{Username: "alice", PasswordHash: "other"}); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate Create: %v, want ErrConflict", err)
	}

	got, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got != alice {
		t.Errorf("FindByUsername = %+v, want %+v", got, alice)
	}
}

func TestStudentRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(newTestDB(t))

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("List on empty store = %#v, want empty non-nil slice", list)
	}

	b := sampleStudent("22222222222222222222")
	a := sampleStudent("11111111111111111111")
	for _, s := range []model.Student{b, a} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create(%s): %v", s.Nim, err)
		}
	}
	if err := repo.Create(ctx, a); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate Create: %v, want ErrConflict", err)
	}

	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Nim != a.Nim || list[1].Nim != b.Nim {
		t.Errorf("List = %+v, want a then b", list)
	}

	updated, err := repo.Update(ctx, a.Nim, model.StudentUpdate{
		Nisn: "0987654321", Name: "B", Email: "b@c.co", Address: "Y", Phone: "0812345678",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Nim != a.Nim || updated.Name != "B" || updated.Phone != "0812345678" {
		t.Errorf("Update = %+v", updated)
	}
	found, err := repo.Find(ctx, a.Nim)
	if err != nil || found != updated {
		t.Errorf("Find after Update = %+v, %v", found, err)
	}

	deleted, err := repo.Delete(ctx, a.Nim)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != updated {
		t.Errorf("Delete returned %+v, want %+v", deleted, updated)
	}
	if _, err := repo.Find(ctx, a.Nim); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Find after Delete: %v, want ErrNotFound", err)
	}
}

func TestStudentRepository_MissingNim(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(newTestDB(t))
	const nim = "99999999999999999999"

	if _, err := repo.Find(ctx, nim); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Find: %v", err)
	}
	if _, err := repo.Update(ctx, nim, model.StudentUpdate{}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update: %v", err)
	}
	if _, err := repo.Delete(ctx, nim); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete: %v", err)
	}
}
