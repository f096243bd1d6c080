package service

import (
	"context"
	"fmt"

	"github.com/duccv/student-service/internal/apperror"
	"github.com/duccv/student-service/internal/model"
	"github.com/duccv/student-service/internal/repository"
	"github.com/duccv/student-service/pkg/logger"
	"github.com/duccv/student-service/pkg/metrics"
	"go.uber.org/zap"
)

// Session is a freshly issued token together with the teacher it names.
type Session struct {
	Token   string
	Teacher model.Teacher
}

// AuthService runs the teacher flows. Refresh and Me always read the store;
// only Register and Login may go through a login cache.
type AuthService struct {
	teachers repository.TeacherRepository
	logins   repository.TeacherRepository
	tokens   TokenService
	hasher   PasswordHasher
}

// AuthOption -.
type AuthOption func(*AuthService)

// WithLoginCache serves Login lookups from logins, usually a
// CachedTeacherRepository wrapping the same store. A removed account can
// still log in until its cache entry expires.
func WithLoginCache(logins repository.TeacherRepository) AuthOption {
	return func(s *AuthService) {
		s.logins = logins
	}
}

func NewAuthService(
	teachers repository.TeacherRepository,
	tokens TokenService,
	hasher PasswordHasher,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{teachers: teachers, logins: teachers, tokens: tokens, hasher: hasher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a teacher and logs them in with the same credentials.
// A taken username yields apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, password string) (session Session, err error) {
	defer func() { metrics.ObserveAuth("register", outcome(err)) }()

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Session{}, err
	}
	if err := s.logins.Create(ctx, model.Teacher{Username: username, PasswordHash: hash}); err != nil {
		return Session{}, err
	}
	logger.WithOperation(logger.FromContext(ctx), "register").
		Info("Teacher registered", zap.String("username", username))

	return s.login(ctx, username, password)
}

// Login checks the credentials and issues a token. An unknown username yields
// apperror.ErrNotFound, a bad password apperror.ErrWrongPassword.
func (s *AuthService) Login(ctx context.Context, username, password string) (session Session, err error) {
	defer func() { metrics.ObserveAuth("login", outcome(err)) }()
	return s.login(ctx, username, password)
}

func (s *AuthService) login(ctx context.Context, username, password string) (Session, error) {
	teacher, err := s.logins.FindByUsername(ctx, username)
	if err != nil {
		return Session{}, err
	}

	ok, err := s.hasher.Check(password, teacher.PasswordHash)
	if err != nil {
		return Session{}, fmt.Errorf("check password for %s: %w", username, err)
	}
	if !ok {
		return Session{}, apperror.ErrWrongPassword
	}

	return s.issue(teacher)
}

// Refresh re-verifies token, re-reads its teacher and issues a new token with a
// fresh expiry. The old token stays valid until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, token string) (session Session, err error) {
	defer func() { metrics.ObserveAuth("refresh", outcome(err)) }()

	username, err := s.tokens.Verify(token)
	if err != nil {
		return Session{}, err
	}
	teacher, err := s.teachers.FindByUsername(ctx, username)
	if err != nil {
		return Session{}, err
	}
	return s.issue(teacher)
}

// Me returns the teacher a verified token names.
func (s *AuthService) Me(ctx context.Context, username string) (teacher model.Teacher, err error) {
	defer func() { metrics.ObserveAuth("me", outcome(err)) }()
	return s.teachers.FindByUsername(ctx, username)
}

func (s *AuthService) issue(teacher model.Teacher) (Session, error) {
	token, err := s.tokens.Issue(teacher.Username)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, Teacher: teacher}, nil
}
