package server

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/duccv/student-service/config"
	"github.com/duccv/student-service/internal/handler"
	"github.com/duccv/student-service/internal/repository"
	"github.com/duccv/student-service/internal/service"
	"github.com/duccv/student-service/pkg/cache"
	"github.com/duccv/student-service/pkg/database"
	"github.com/duccv/student-service/pkg/password"
	"github.com/duccv/student-service/pkg/token"
	grpc_server "github.com/duccv/student-service/pkg/server/grpc"
	http_server "github.com/duccv/student-service/pkg/server/http"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartServer wires the stores, services and transports, then blocks until a
// termination signal or a server failure, and shuts everything down.
func StartServer(env *config.Env) error {
	tokens, err := token.NewManager(env.JWTConfig.Secret)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	databases := database.NewDatabaseFactory()
	defer databases.CloseAll()

	db, err := databases.CreateDatabase("primary", &env.DatabaseConfig)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	repos, err := repository.New(db)
	if err != nil {
		return fmt.Errorf("repositories: %w", err)
	}

	var authOpts []service.AuthOption
	if env.CacheConfig.Enabled {
		redisClient := newRedisClient(env.CacheConfig.Redis)
		if redisClient != nil {
			defer redisClient.Close()
		}
		cached := repository.NewCachedTeacherRepository(repos.Teachers, env.CacheConfig, redisClient)
		defer cached.Stop()
		authOpts = append(authOpts, service.WithLoginCache(cached))
	}

	h := handler.New(
		service.NewAuthService(repos.Teachers, tokens, password.NewHasher(), authOpts...),
		service.NewStudentService(repos.Students, env.CompatConfig.ValidateOnUpdate),
		tokens,
		env.CompatConfig.ValidationStatus,
	)

	httpServer := http_server.New(env,
		http_server.Port(strconv.Itoa(env.AppConfig.Port)),
		http_server.Timeout(env.RequestTimeout()),
		http_server.ShutdownTimeout(env.ShutdownTimeout()),
		http_server.Routes(h.Register),
		http_server.Health(databases.Healthy),
	)
	httpServer.Start()

	var grpcNotify <-chan error
	var grpcServer *grpc_server.Server
	if env.GRPCConfig.Enabled {
		grpcServer = grpc_server.New(databases.Healthy, grpc_server.Port(strconv.Itoa(env.GRPCConfig.Port)))
		grpcServer.Start()
		grpcNotify = grpcServer.Notify()
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case s := <-interrupt:
		zap.L().Info("Shutting down", zap.String("signal", s.String()))
	case err := <-httpServer.Notify():
		runErr = fmt.Errorf("http server: %w", err)
	case err := <-grpcNotify:
		runErr = fmt.Errorf("grpc server: %w", err)
	}

	if err := httpServer.Shutdown(); err != nil {
		zap.L().Error("HTTP server shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.Shutdown()
	}
	return runErr
}

// newRedisClient returns nil when Redis is disabled or unreachable; the
// teacher cache then runs in memory only.
func newRedisClient(cfg config.RedisConfig) redis.UniversalClient {
	if !cfg.Enabled {
		return nil
	}
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		zap.L().Warn("Redis unavailable, teacher cache is in-memory only", zap.Error(err))
		return nil
	}
	return client
}
