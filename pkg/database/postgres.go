package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/duccv/student-service/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresDB struct {
	config    *config.PostgresConfig
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
	logger    *zap.Logger
}

func NewPostgresDB(config *config.PostgresConfig) *PostgresDB {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 30
	}
	return &PostgresDB{
		config: config,
		logger: zap.L(),
	}
}

func (p *PostgresDB) Connect() error {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(p.config.ConnectTimeout)*time.Second,
	)
	defer cancel()

	writeDSN := p.writeDSN()
	p.logger.Info("Starting PostgreSQL connection", zap.String("target", redact(writeDSN)))

	var err error
	p.writePool, err = p.newPool(ctx, writeDSN)
	if err != nil {
		return fmt.Errorf("failed to create write pool: %w", err)
	}

	readDSN := p.readDSN()
	if readDSN == writeDSN {
		p.readPool = p.writePool
	} else {
		p.readPool, err = p.newPool(ctx, readDSN)
		if err != nil {
			p.writePool.Close()
			return fmt.Errorf("failed to create read pool: %w", err)
		}
	}

	if err := p.writePool.Ping(ctx); err != nil {
		p.Close()
		return fmt.Errorf("failed to ping write pool: %w", err)
	}
	if err := p.readPool.Ping(ctx); err != nil {
		p.Close()
		return fmt.Errorf("failed to ping read pool: %w", err)
	}

	p.logger.Info("Successfully connected to PostgreSQL",
		zap.String("write", redact(writeDSN)),
		zap.String("read", redact(readDSN)))
	return nil
}

func (p *PostgresDB) newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	p.configurePool(cfg)
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Prepare applies the embedded schema migrations when auto_migrate is on.
func (p *PostgresDB) Prepare() error {
	if !p.config.AutoMigrate {
		p.logger.Info("Skipping PostgreSQL migrations (auto_migrate disabled)")
		return nil
	}
	return MigrateUp(p.writeDSN())
}

func (p *PostgresDB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.writePool == nil || p.readPool == nil {
		return fmt.Errorf("postgres pools not initialized")
	}
	if err := p.writePool.Ping(ctx); err != nil {
		return fmt.Errorf("write pool ping failed: %w", err)
	}
	if err := p.readPool.Ping(ctx); err != nil {
		return fmt.Errorf("read pool ping failed: %w", err)
	}
	return nil
}

func (p *PostgresDB) GetReadConnection() any {
	return p.readPool
}

func (p *PostgresDB) GetWriteConnection() any {
	return p.writePool
}

func (p *PostgresDB) IsConnected() bool {
	return p.writePool != nil && p.readPool != nil
}

func (p *PostgresDB) HealthCheck() map[string]error {
	result := make(map[string]error)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.writePool != nil {
		result["write_pool"] = p.writePool.Ping(ctx)
	} else {
		result["write_pool"] = fmt.Errorf("write pool not initialized")
	}
	if p.readPool != nil {
		result["read_pool"] = p.readPool.Ping(ctx)
	} else {
		result["read_pool"] = fmt.Errorf("read pool not initialized")
	}

	for name, err := range result {
		if err != nil {
			p.logger.Error("PostgreSQL health check failed", zap.String("pool", name), zap.Error(err))
		}
	}
	return result
}

func (p *PostgresDB) writeDSN() string {
	if p.config.URL != "" {
		return p.config.URL
	}
	host, port := p.config.WriteHost, p.config.WritePort
	if host == "" {
		host, port = p.config.Host, p.config.Port
	}
	return p.buildPgxDSN(host, port)
}

func (p *PostgresDB) readDSN() string {
	if p.config.ReadHost == "" {
		return p.writeDSN()
	}
	return p.buildPgxDSN(p.config.ReadHost, p.config.ReadPort)
}

func (p *PostgresDB) buildPgxDSN(host string, port int) string {
	sslMode := p.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.config.Username, p.config.Password),
		Host:     fmt.Sprintf("%s:%d", host, port),
		Path:     p.config.Database,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

// redact hides the password of a connection string before it is logged.
func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<unparseable dsn>"
	}
	return u.Redacted()
}

func (p *PostgresDB) GetType() DatabaseType {
	return PostgreSQL
}

func (p *PostgresDB) Close() error {
	p.logger.Info("Closing PostgreSQL connections")
	if p.readPool != nil && p.readPool != p.writePool {
		p.readPool.Close()
	}
	if p.writePool != nil {
		p.writePool.Close()
	}
	p.readPool, p.writePool = nil, nil
	return nil
}

func (p *PostgresDB) configurePool(config *pgxpool.Config) {
	if p.config.MaxConns != 0 {
		config.MaxConns = p.config.MaxConns
	}

	if p.config.MinConns != 0 {
		config.MinConns = p.config.MinConns
	}

	if p.config.ConnMaxIdleTime != 0 {
		config.MaxConnIdleTime = time.Duration(p.config.ConnMaxIdleTime) * time.Minute
	}

	if p.config.ConnMaxLifetime != 0 {
		config.MaxConnLifetime = time.Duration(p.config.ConnMaxLifetime) * time.Hour
	}

	if p.config.HealthCheckPeriod != 0 {
		config.HealthCheckPeriod = time.Duration(p.config.HealthCheckPeriod) * time.Minute
	}
}

// GetPgxPools returns the read and write pools behind a PostgreSQL Database.
func GetPgxPools(db Database) (read, write *pgxpool.Pool, err error) {
	if db.GetType() != PostgreSQL {
		return nil, nil, fmt.Errorf("database is not PostgreSQL")
	}
	read, rok := db.GetReadConnection().(*pgxpool.Pool)
	write, wok := db.GetWriteConnection().(*pgxpool.Pool)
	if !rok || !wok || read == nil || write == nil {
		return nil, nil, fmt.Errorf("failed to cast to *pgxpool.Pool")
	}
	return read, write, nil
}
