package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	AppConfig struct {
		Name            string `mapstructure:"name"`
		Version         string `mapstructure:"version"`
		Port            int    `mapstructure:"port"`
		Environment     string `mapstructure:"environment"`
		PathPrefix      string `mapstructure:"path_prefix"` // Optional, base path for the swagger UI
		RequestTimeout  int    `mapstructure:"request_timeout_ms"`
		ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
	}

	LoggerConfig struct {
		Level       string `mapstructure:"level"`
		Format      string `mapstructure:"format"`
		FilePath    string `mapstructure:"filepath"`
		MaxSize     int    `mapstructure:"max_size"`
		MaxAge      int    `mapstructure:"max_age"`
		MaxBackups  int    `mapstructure:"max_backups"`
		Compress    bool   `mapstructure:"compress"`
		LocalTime   bool   `mapstructure:"localTime"`
		Environment string
	}

	JWTConfig struct {
		Secret string `mapstructure:"secret"`
	}

	PostgresConfig struct {
		URL               string `mapstructure:"url"` // Takes precedence over the discrete fields
		Host              string `mapstructure:"host"`
		Port              int    `mapstructure:"port"`
		Username          string `mapstructure:"username"`
		Password          string `mapstructure:"password"`
		Database          string `mapstructure:"database"`
		SSLMode           string `mapstructure:"sslmode"`
		ReadHost          string `mapstructure:"read_host"`
		ReadPort          int    `mapstructure:"read_port"`
		WriteHost         string `mapstructure:"write_host"`
		WritePort         int    `mapstructure:"write_port"`
		ConnectTimeout    int    `mapstructure:"connect_timeout"`
		MaxConns          int32  `mapstructure:"max_conns"`
		MinConns          int32  `mapstructure:"min_conns"`
		ConnMaxLifetime   int    `mapstructure:"conn_max_lifetime"`
		ConnMaxIdleTime   int    `mapstructure:"conn_max_idle_time"`
		HealthCheckPeriod int    `mapstructure:"health_check_period"`
		AutoMigrate       bool   `mapstructure:"auto_migrate"`
	}

	MongoConfig struct {
		URI             string `mapstructure:"uri"`
		Database        string `mapstructure:"database"`
		ConnectTimeout  int    `mapstructure:"connect_timeout"`
		MaxPoolSize     uint64 `mapstructure:"max_pool_size"`
		MinPoolSize     uint64 `mapstructure:"min_pool_size"`
		MaxConnIdleTime int    `mapstructure:"max_conn_idle_time"`
	}

	SqliteConfig struct {
		Path string `mapstructure:"path"`
	}

	DatabaseConfig struct {
		Type           string         `mapstructure:"type"`
		PostgresConfig PostgresConfig `mapstructure:"postgres"`
		MongoConfig    MongoConfig    `mapstructure:"mongo"`
		SqliteConfig   SqliteConfig   `mapstructure:"sqlite"`
	}

	RedisConfig struct {
		Enabled    bool   `mapstructure:"enabled"`
		Type       string `mapstructure:"type"` // NORMAL or SENTINEL
		Addrs      string `mapstructure:"addrs"`
		MasterName string `mapstructure:"master_name"`
		Password   string `mapstructure:"password"`
		DB         int    `mapstructure:"db"`
	}

	// CacheConfig drives the login cache. Logins for a removed teacher keep
	// succeeding until the entry's TTL runs out.
	CacheConfig struct {
		Enabled    bool        `mapstructure:"enabled"`
		Capacity   int         `mapstructure:"capacity"`
		DefaultTTL int         `mapstructure:"default_ttl"` // seconds
		Redis      RedisConfig `mapstructure:"redis"`
	}

	CORSConfig struct {
		Enabled          bool     `mapstructure:"enabled"`
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	}

	MetricsConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	}

	GRPCConfig struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	}

	// CompatConfig holds switches for the legacy response behaviour. The defaults keep it.
	CompatConfig struct {
		ValidationStatus int  `mapstructure:"validation_status"`
		ValidateOnUpdate bool `mapstructure:"validate_on_update"`
	}
)

type Env struct {
	AppConfig      AppConfig      `mapstructure:"app"`
	LoggerConfig   LoggerConfig   `mapstructure:"logging"`
	JWTConfig      JWTConfig      `mapstructure:"jwt"`
	DatabaseConfig DatabaseConfig `mapstructure:"database"`
	CacheConfig    CacheConfig    `mapstructure:"cache"`
	CORSConfig     CORSConfig     `mapstructure:"cors"`
	MetricsConfig  MetricsConfig  `mapstructure:"metrics"`
	GRPCConfig     GRPCConfig     `mapstructure:"grpc"`
	CompatConfig   CompatConfig   `mapstructure:"compat"`
}

var ErrMissingJWTSecret = errors.New("jwt secret is not configured (set JWT_SECRET)")

var env Env
var envLoaded bool

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "student-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.path_prefix", "/api")
	v.SetDefault("app.shutdown_timeout", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.filepath", "./logs/app.log")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.max_backups", 3)

	v.SetDefault("database.type", "postgres")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.postgres.auto_migrate", true)
	v.SetDefault("database.sqlite.path", "student-service.db")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.capacity", 1000)
	v.SetDefault("cache.default_ttl", 300)
	v.SetDefault("cache.redis.type", "NORMAL")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("grpc.port", 9090)

	v.SetDefault("compat.validation_status", 401)
	v.SetDefault("compat.validate_on_update", false)
}

// Load reads ./config/config.yaml (optional) and the process environment into an Env.
func Load(v *viper.Viper) (Env, error) {
	var out Env

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	/*
	   AutomaticEnv checks for an environment variable any time a Get request is made:
	   the key uppercased, prefixed with the EnvPrefix, with "." replaced by "_"
	   (e.g. app.port -> ENV_APP_PORT).
	*/
	v.AutomaticEnv()
	v.SetEnvPrefix("env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return out, fmt.Errorf("read config file: %w", err)
		}
		log.Println("config.yaml not found, using defaults and environment variables only")
	}

	// The names the hosting environment is expected to provide, without prefix.
	v.BindEnv("jwt.secret", "ENV_JWT_SECRET", "JWT_SECRET")
	v.BindEnv("database.postgres.url", "ENV_DATABASE_POSTGRES_URL", "DATABASE_URL")
	v.BindEnv("app.port", "ENV_APP_PORT", "PORT")
	v.BindEnv("app.name", "APP_NAME")

	if err := v.Unmarshal(&out); err != nil {
		return out, fmt.Errorf("decode config: %w", err)
	}
	out.LoggerConfig.Environment = out.AppConfig.Environment
	if out.AppConfig.Environment == "production" {
		out.LoggerConfig.Level = "info" // Default to info level in production
	}

	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

// Validate rejects configurations the service must not start with.
func (e *Env) Validate() error {
	if strings.TrimSpace(e.JWTConfig.Secret) == "" {
		return ErrMissingJWTSecret
	}
	switch e.DatabaseConfig.Type {
	case "postgres", "mongodb", "sqlite":
	default:
		return fmt.Errorf("unsupported database type: %q", e.DatabaseConfig.Type)
	}
	if s := e.CompatConfig.ValidationStatus; s < 400 || s > 499 {
		return fmt.Errorf("compat.validation_status must be a 4xx status, got %d", s)
	}
	return nil
}

// RequestTimeout is zero when no per-request timeout is configured.
func (e *Env) RequestTimeout() time.Duration {
	return time.Duration(e.AppConfig.RequestTimeout) * time.Millisecond
}

// ShutdownTimeout bounds the graceful HTTP shutdown; non-positive values fall back to 5s.
func (e *Env) ShutdownTimeout() time.Duration {
	if e.AppConfig.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(e.AppConfig.ShutdownTimeout) * time.Second
}

func GetEnv() *Env {
	if envLoaded {
		return &env
	}
	loaded, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	env = loaded
	envLoaded = true

	printStartupConfig(&env)
	return &env
}

func printStartupConfig(env *Env) {
	line := strings.Repeat("=", 40)
	fmt.Println(line)
	fmt.Println("🚀 Application Configuration")
	fmt.Println(line)

	fmt.Printf("%-15s: %s\n", "App Name", env.AppConfig.Name)
	fmt.Printf("%-15s: %s\n", "Version", env.AppConfig.Version)
	fmt.Printf("%-15s: %s\n", "Environment", env.AppConfig.Environment)
	fmt.Printf("%-15s: %d\n", "Port", env.AppConfig.Port)
	fmt.Printf("%-15s: %s\n", "Log Level", env.LoggerConfig.Level)
	fmt.Printf("%-15s: %s\n", "Database", env.DatabaseConfig.Type)
	fmt.Printf("%-15s: %t\n", "Cache", env.CacheConfig.Enabled)

	fmt.Println(line)
}
