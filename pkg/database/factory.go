package database

import (
	"fmt"

	"github.com/duccv/student-service/config"
	"go.uber.org/zap"
)

type DatabaseType string

const (
	PostgreSQL   DatabaseType = "postgres"
	MongoDBNoSQL DatabaseType = "mongodb"
	SQLite       DatabaseType = "sqlite"
)

type Database interface {
	Connect() error
	Close() error
	Ping() error
	// Prepare creates or upgrades the schema the repositories rely on.
	Prepare() error
	GetReadConnection() any
	GetWriteConnection() any
	GetType() DatabaseType
	IsConnected() bool
	HealthCheck() map[string]error
}

// DatabaseFactory creates and tracks named database instances.
type DatabaseFactory struct {
	databases map[string]Database
}

func NewDatabaseFactory() *DatabaseFactory {
	return &DatabaseFactory{
		databases: make(map[string]Database),
	}
}

// New returns an unconnected Database for the configured type.
func New(cfg *config.DatabaseConfig) (Database, error) {
	switch DatabaseType(cfg.Type) {
	case PostgreSQL:
		return NewPostgresDB(&cfg.PostgresConfig), nil
	case MongoDBNoSQL:
		return NewMongoDB(&cfg.MongoConfig), nil
	case SQLite:
		return NewSqliteDB(&cfg.SqliteConfig), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// CreateDatabase connects a database instance for the config and prepares its schema.
func (f *DatabaseFactory) CreateDatabase(name string, cfg *config.DatabaseConfig) (Database, error) {
	db, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}
	if err := db.Prepare(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare %s schema: %w", cfg.Type, err)
	}

	f.databases[name] = db
	return db, nil
}

// GetDatabase returns a database instance by name.
func (f *DatabaseFactory) GetDatabase(name string) (Database, error) {
	db, exists := f.databases[name]
	if !exists {
		return nil, fmt.Errorf("database '%s' not found", name)
	}
	return db, nil
}

// CloseAll closes every tracked connection.
func (f *DatabaseFactory) CloseAll() error {
	for name, db := range f.databases {
		if err := db.Close(); err != nil {
			zap.L().Error("Error closing database", zap.String("name", name), zap.Error(err))
		}
	}
	f.databases = make(map[string]Database)
	return nil
}

// HealthCheck pings every tracked database.
func (f *DatabaseFactory) HealthCheck() map[string]map[string]error {
	result := make(map[string]map[string]error)
	for name, db := range f.databases {
		result[name] = db.HealthCheck()
	}
	return result
}

// Healthy reports whether every check of every tracked database passed.
func (f *DatabaseFactory) Healthy() bool {
	for _, checks := range f.HealthCheck() {
		for _, err := range checks {
			if err != nil {
				return false
			}
		}
	}
	return true
}
