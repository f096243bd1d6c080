package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duccv/student-service/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names shared with the repositories.
const (
	TeachersCollection = "teachers"
	StudentsCollection = "students"
)

// codeNamespaceExists is returned by createCollection when the collection is already there.
const codeNamespaceExists = 48

// MongoDB is a single-client Database. Username and nim are stored as _id,
// so uniqueness comes from the primary index.
type MongoDB struct {
	config *config.MongoConfig
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

func NewMongoDB(config *config.MongoConfig) *MongoDB {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 30
	}
	if config.Database == "" {
		config.Database = "student_service"
	}
	return &MongoDB{
		config: config,
		logger: zap.L(),
	}
}

func (m *MongoDB) Connect() error {
	if m.config.URI == "" {
		return fmt.Errorf("mongodb uri not configured")
	}
	m.logger.Info("Starting MongoDB connection",
		zap.String("database", m.config.Database),
		zap.Int("connect_timeout_seconds", m.config.ConnectTimeout))

	ctx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(m.config.ConnectTimeout)*time.Second,
	)
	defer cancel()

	clientOptions := options.Client().ApplyURI(m.config.URI)
	m.configureClientOptions(clientOptions)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	m.client = client
	m.db = client.Database(m.config.Database)
	m.logger.Info("Successfully connected to MongoDB", zap.String("database", m.config.Database))
	return nil
}

func (m *MongoDB) configureClientOptions(options *options.ClientOptions) {
	if m.config.MaxPoolSize > 0 {
		options.SetMaxPoolSize(m.config.MaxPoolSize)
	}
	if m.config.MinPoolSize > 0 {
		options.SetMinPoolSize(m.config.MinPoolSize)
	}
	if m.config.MaxConnIdleTime > 0 {
		options.SetMaxConnIdleTime(time.Duration(m.config.MaxConnIdleTime) * time.Second)
	}

	options.SetRetryReads(true)
	options.SetRetryWrites(true)
	options.SetReadPreference(readpref.Primary())

	options.SetConnectTimeout(time.Duration(m.config.ConnectTimeout) * time.Second)
	options.SetServerSelectionTimeout(5 * time.Second)
}

// Prepare makes sure both collections exist.
func (m *MongoDB) Prepare() error {
	if m.db == nil {
		return fmt.Errorf("mongodb not connected")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range []string{TeachersCollection, StudentsCollection} {
		err := m.db.CreateCollection(ctx, name)
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists {
			continue
		}
		if err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		m.logger.Info("Created MongoDB collection", zap.String("collection", name))
	}
	return nil
}

func (m *MongoDB) Close() error {
	if m.client == nil {
		return nil
	}
	m.logger.Info("Closing MongoDB connections")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.client.Disconnect(ctx)
	m.client, m.db = nil, nil
	if err != nil {
		m.logger.Error("MongoDB disconnect error", zap.Error(err))
		return fmt.Errorf("disconnect error: %w", err)
	}
	return nil
}

func (m *MongoDB) Ping() error {
	if m.client == nil {
		return fmt.Errorf("mongodb client not initialized")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("client ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) GetReadConnection() any {
	return m.db
}

func (m *MongoDB) GetWriteConnection() any {
	return m.db
}

func (m *MongoDB) GetType() DatabaseType {
	return MongoDBNoSQL
}

func (m *MongoDB) IsConnected() bool {
	return m.client != nil
}

func (m *MongoDB) HealthCheck() map[string]error {
	err := m.Ping()
	if err != nil {
		m.logger.Error("MongoDB health check failed", zap.Error(err))
	}
	return map[string]error{"client": err}
}

// GetMongoDB returns the *mongo.Database behind a MongoDB Database.
func GetMongoDB(db Database) (*mongo.Database, error) {
	if db.GetType() != MongoDBNoSQL {
		return nil, fmt.Errorf("database is not MongoDB")
	}
	conn, ok := db.GetWriteConnection().(*mongo.Database)
	if !ok || conn == nil {
		return nil, fmt.Errorf("failed to cast to *mongo.Database")
	}
	return conn, nil
}
