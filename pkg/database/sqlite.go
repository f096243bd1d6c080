package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/duccv/student-service/config"
	"github.com/duccv/student-service/internal/model"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"moul.io/zapgorm2"
)

// SqliteDB is a single-file (or in-memory) Database backed by gorm.
type SqliteDB struct {
	config *config.SqliteConfig
	db     *gorm.DB
	logger *zap.Logger
}

func NewSqliteDB(config *config.SqliteConfig) *SqliteDB {
	if config.Path == "" {
		config.Path = ":memory:"
	}
	return &SqliteDB{
		config: config,
		logger: zap.L(),
	}
}

func (s *SqliteDB) Connect() error {
	s.logger.Info("Opening SQLite database", zap.String("path", s.config.Path))

	gormLogger := zapgorm2.New(s.logger)
	gormLogger.LogLevel = logger.Warn
	gormLogger.SlowThreshold = 200 * time.Millisecond
	gormLogger.IgnoreRecordNotFoundError = true

	db, err := gorm.Open(sqlite.Open(s.config.Path), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sqlite handle: %w", err)
	}
	// Every connection to :memory: opens a fresh database.
	if strings.Contains(s.config.Path, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}

	s.db = db
	return s.Ping()
}

// Prepare creates the tables from the model definitions.
func (s *SqliteDB) Prepare() error {
	if s.db == nil {
		return fmt.Errorf("sqlite not connected")
	}
	if err := s.db.AutoMigrate(&model.Teacher{}, &model.Student{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *SqliteDB) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

func (s *SqliteDB) Ping() error {
	if s.db == nil {
		return fmt.Errorf("sqlite not connected")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *SqliteDB) GetReadConnection() any {
	return s.db
}

func (s *SqliteDB) GetWriteConnection() any {
	return s.db
}

func (s *SqliteDB) GetType() DatabaseType {
	return SQLite
}

func (s *SqliteDB) IsConnected() bool {
	return s.db != nil
}

func (s *SqliteDB) HealthCheck() map[string]error {
	return map[string]error{"sqlite": s.Ping()}
}

// GetGormDB returns the *gorm.DB behind a SQLite Database.
func GetGormDB(db Database) (*gorm.DB, error) {
	if db.GetType() != SQLite {
		return nil, fmt.Errorf("database is not SQLite")
	}
	conn, ok := db.GetWriteConnection().(*gorm.DB)
	if !ok || conn == nil {
		return nil, fmt.Errorf("failed to cast to *gorm.DB")
	}
	return conn, nil
}
