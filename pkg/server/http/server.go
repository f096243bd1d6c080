package http_server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/duccv/student-service/config"
	"github.com/duccv/student-service/internal/constant"
	"github.com/duccv/student-service/internal/middleware"
	"github.com/duccv/student-service/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/duccv/student-service/docs"
)

type Server struct {
	App    *gin.Engine
	server *http.Server
	notify chan error

	address         string
	timeout         time.Duration
	shutdownTimeout time.Duration
	routes          func(gin.IRouter)
	healthy         func() bool
}

// New -.
func New(env *config.Env, opts ...Option) *Server {
	s := &Server{
		notify:          make(chan error, 1),
		address:         _defaultAddr,
		shutdownTimeout: _defaultShutdownTimeout,
		healthy:         func() bool { return true },
	}

	for _, opt := range opts {
		opt(s)
	}

	s.App = s.initGinServer(env)
	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.App,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func timeoutResponse(c *gin.Context) {
	c.String(http.StatusRequestTimeout, "timeout")
}

func timeoutMiddleware(to time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(to),
		timeout.WithResponse(timeoutResponse),
	)
}

func (s *Server) initGinServer(env *config.Env) *gin.Engine {
	pathPrefix := env.AppConfig.PathPrefix
	if pathPrefix == "" {
		pathPrefix = "/api"
	}
	if env.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logging := middleware.NewLoggingMiddleware(middleware.DefaultMiddlewareConfig())

	r := gin.New()
	r.Use(middleware.CorrelationIDMiddleware())
	r.Use(logging.Recovery())
	r.Use(logging.RequestLogger())
	r.Use(logging.ErrorLogger())

	if s.timeout > 0 {
		r.Use(timeoutMiddleware(s.timeout))
	}

	if env.MetricsConfig.Enabled {
		path := env.MetricsConfig.Path
		if path == "" {
			path = "/metrics"
		}
		metrics.GetMonitor(path).Use(r)
	}

	if env.CORSConfig.Enabled {
		allowHeaders := append([]string{constant.AuthHeader, constant.CorrelationID}, env.CORSConfig.AllowedHeaders...)
		corsConfig := cors.Config{
			AllowOrigins:     env.CORSConfig.AllowedOrigins,
			AllowMethods:     env.CORSConfig.AllowedMethods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    append([]string{"ETag", constant.CorrelationID}, env.CORSConfig.ExposedHeaders...),
			AllowCredentials: env.CORSConfig.AllowCredentials,
			MaxAge:           time.Duration(env.CORSConfig.MaxAge) * time.Second,
		}
		if len(corsConfig.AllowOrigins) == 0 {
			corsConfig.AllowAllOrigins = true
		}

		r.Use(cors.New(corsConfig))
	}

	r.GET("/health", s.health)

	// Swagger documentation
	r.GET(pathPrefix+"/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	if s.routes != nil {
		s.routes(r)
	}
	return r
}

// HealthCheck godoc
//
//	@Summary		Health Check
//	@Description	Returns status 200 while the service and its database are reachable
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	map[string]string
//	@Router			/health [get]
func (s *Server) health(c *gin.Context) {
	if !s.healthy() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start -.
func (s *Server) Start() {
	go func() {
		zap.L().Info("HTTP server listening", zap.String("address", s.address))
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.notify <- err
		}
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown drains in-flight requests for up to the shutdown timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
