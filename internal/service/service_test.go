package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/duccv/student-service/config"
	"github.com/duccv/student-service/internal/apperror"
	"github.com/duccv/student-service/internal/model"
	"github.com/duccv/student-service/internal/repository"
	"github.com/duccv/student-service/pkg/database"
	"github.com/duccv/student-service/pkg/password"
	"github.com/duccv/student-service/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db       database.Database
	repos    *repository.Repositories
	auth     *AuthService
	students *StudentService
	tokens   *token.Manager
	now      time.Time
}

func newFixture(t *testing.T, validateOnUpdate bool) *fixture {
	t.Helper()
	return newFixtureWith(t, validateOnUpdate, nil)
}

// newFixtureWith builds the services over an in-memory store. When cacheCfg is
// set, logins go through a CachedTeacherRepository as in the server wiring.
func newFixtureWith(t *testing.T, validateOnUpdate bool, cacheCfg *config.CacheConfig) *fixture {
	t.Helper()

	f := database.NewDatabaseFactory()
	db, err := f.CreateDatabase("test", &config.DatabaseConfig{
		Type:         "sqlite",
		SqliteConfig: config.SqliteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("CreateDatabase: %v", err)
	}
	t.Cleanup(func() { f.CloseAll() })

	repos, err := repository.New(db)
	if err != nil {
		t.Fatalf("repository.New: %v", err)
	}

	fx := &fixture{db: db, repos: repos, now: time.Unix(1_700_000_000, 0)}
	fx.tokens, err = token.NewManager("test-secret", token.WithClock(func() time.Time { return fx.now }))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	hasher := password.NewHasher()
	hasher.SetCost(bcrypt.MinCost)

	var opts []AuthOption
	if cacheCfg != nil {
		cached := repository.NewCachedTeacherRepository(repos.Teachers, *cacheCfg, nil)
		t.Cleanup(cached.Stop)
		opts = append(opts, WithLoginCache(cached))
	}
	fx.auth = NewAuthService(repos.Teachers, fx.tokens, hasher, opts...)
	fx.students = NewStudentService(repos.Students, validateOnUpdate)
	return fx
}

func TestRegister_LogsIn(t *testing.T) {
	fx := newFixture(t, false)
	ctx := context.Background()

	session, err := fx.auth.Register(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.Teacher.Username != "alice" {
		t.Errorf("teacher = %+v", session.Teacher)
	}
	if session.Teacher.PasswordHash == "secret" {
		t.Error("password stored in clear")
	}
	username, err := fx.tokens.Verify(session.Token)
	if err != nil || username != "alice" {
		t.Errorf("Verify(register token) = %q, %v", username, err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	fx := newFixture(t, false)
	ctx := context.Background()

	if _, err := fx.auth.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := fx.auth.Register(ctx, "alice", "other"); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Register: %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	fx := newFixture(t, false)
	ctx := context.Background()
	if _, err := fx.auth.Register(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"correct credentials", "alice", "secret", nil},
		{"wrong password", "alice", "nope", apperror.ErrWrongPassword},
		{"unknown user", "bob", "secret", apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := fx.auth.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && session.Token == "" {
				t.Error("expected a token")
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	fx := newFixture(t, false)
	ctx := context.Background()

	session, err := fx.auth.Register(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	fx.now = fx.now.Add(30 * time.Minute)
	refreshed, err := fx.auth.Refresh(ctx, session.Token)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := fx.tokens.Parse(refreshed.Token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := fx.now.Add(token.TTL); !claims.ExpiresAt.Time.Equal(want) {
		t.Errorf("refreshed expiry = %v, want %v", claims.ExpiresAt.Time, want)
	}

	// the first token is past its expiry, the refreshed one is not
	fx.now = fx.now.Add(31 * time.Minute)
	if _, err := fx.auth.Refresh(ctx, session.Token); !errors.Is(err, apperror.ErrInvalidToken) {
		t.Errorf("Refresh(expired) = %v, want ErrInvalidToken", err)
	}
	if _, err := fx.auth.Refresh(ctx, refreshed.Token); err != nil {
		t.Errorf("Refresh(refreshed) = %v", err)
	}
}

func TestRefresh_TeacherMissing(t *testing.T) {
	fx := newFixture(t, false)

	orphan, err := fx.tokens.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := fx.auth.Refresh(context.Background(), orphan); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Refresh = %v, want ErrNotFound", err)
	}
	if _, err := fx.auth.Me(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Me = %v, want ErrNotFound", err)
	}
}

// removeTeacher deletes the row behind the services' back.
func (fx *fixture) removeTeacher(t *testing.T, username string) {
	t.Helper()
	gormDB, err := database.GetGormDB(fx.db)
	if err != nil {
		t.Fatalf("GetGormDB: %v", err)
	}
	if err := gormDB.Delete(&model.Teacher{Username: username}).Error; err != nil {
		t.Fatalf("delete teacher: %v", err)
	}
}

func TestAuthService_WithLoginCache(t *testing.T) {
	fx := newFixtureWith(t, false, &config.CacheConfig{Enabled: true, Capacity: 1000, DefaultTTL: 300})
	ctx := context.Background()

	session, err := fx.auth.Register(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := fx.auth.Register(ctx, "alice", "other"); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate Register = %v, want ErrConflict", err)
	}
	if _, err := fx.auth.Login(ctx, "alice", "other"); !errors.Is(err, apperror.ErrWrongPassword) {
		t.Fatalf("Login with the rejected password = %v, want ErrWrongPassword", err)
	}
	if _, err := fx.auth.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	fx.removeTeacher(t, "alice")

	if _, err := fx.auth.Refresh(ctx, session.Token); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Refresh for a removed account = %v, want ErrNotFound", err)
	}
	if _, err := fx.auth.Me(ctx, "alice"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Me for a removed account = %v, want ErrNotFound", err)
	}
}

func TestAuthService_RemovedTeacherWithoutCache(t *testing.T) {
	fx := newFixture(t, false)
	ctx := context.Background()

	session, err := fx.auth.Register(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	fx.removeTeacher(t, "alice")

	if _, err := fx.auth.Login(ctx, "alice", "secret"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Login = %v, want ErrNotFound", err)
	}
	if _, err := fx.auth.Refresh(ctx, session.Token); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Refresh = %v, want ErrNotFound", err)
	}
}

func validStudent() model.Student {
	return model.Student{
		Nim:     "12345678901234567890",
		Nisn:    "1234567890",
		Name:    "A",
		Email:   "a@b.co",
		Address: "X",
		Phone:   "081234567890",
	}
}

func TestStudentService_CreateValidates(t *testing.T) {
	fx := newFixture(t, false)
	ctx := context.Background()

	bad := model.Student{Nim: "123", Nisn: "1234567890", Name: "", Email: "bad", Address: "X", Phone: "1"}
	_, err := fx.students.Create(ctx, bad)
	ve, ok := apperror.AsValidation(err)
	if !ok {
		t.Fatalf("Create(bad) = %v, want *ValidationError", err)
	}
	for _, f := range []model.StudentField{model.FieldName, model.FieldEmail, model.FieldNim, model.FieldPhone} {
		if _, ok := ve.Errors[f]; !ok {
			t.Errorf("missing error for %s", f)
		}
	}

	list, err := fx.students.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("invalid record reached the store: %v, %v", list, err)
	}

	if _, err := fx.students.Create(ctx, validStudent()); err != nil {
		t.Fatalf("Create(valid): %v", err)
	}
	if _, err := fx.students.Create(ctx, validStudent()); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate Create = %v, want ErrConflict", err)
	}
}

func TestStudentService_Update(t *testing.T) {
	ctx := context.Background()
	s := validStudent()
	badUpdate := model.StudentUpdate{Nisn: "1", Name: "B", Email: "b@c.co", Address: "Y", Phone: "0812345678"}

	t.Run("stored as sent by default", func(t *testing.T) {
		fx := newFixture(t, false)
		if _, err := fx.students.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := fx.students.Update(ctx, s.Nim, badUpdate)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got.Nisn != "1" || got.Nim != s.Nim {
			t.Errorf("Update = %+v", got)
		}
	})

	t.Run("validated when enabled", func(t *testing.T) {
		fx := newFixture(t, true)
		if _, err := fx.students.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
		_, err := fx.students.Update(ctx, s.Nim, badUpdate)
		ve, ok := apperror.AsValidation(err)
		if !ok {
			t.Fatalf("Update = %v, want *ValidationError", err)
		}
		if len(ve.Errors) != 1 || ve.Errors[model.FieldNisn] == "" {
			t.Errorf("errors = %v, want only nisn", ve.Errors)
		}
	})

	t.Run("unknown nim", func(t *testing.T) {
		fx := newFixture(t, false)
		if _, err := fx.students.Update(ctx, s.Nim, badUpdate); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("Update = %v, want ErrNotFound", err)
		}
		if _, err := fx.students.Delete(ctx, s.Nim); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("Delete = %v, want ErrNotFound", err)
		}
		if _, err := fx.students.Get(ctx, s.Nim); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("Get = %v, want ErrNotFound", err)
		}
	})
}
