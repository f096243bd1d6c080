package http_server

import (
	"net"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	_defaultAddr            = ":80"
	_defaultShutdownTimeout = 5 * time.Second
)

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Timeout bounds every request handler. Zero disables the bound.
func Timeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// ShutdownTimeout -.
func ShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// Routes registers the application routes on the engine.
func Routes(register func(gin.IRouter)) Option {
	return func(s *Server) {
		s.routes = register
	}
}

// Health replaces the /health probe, which otherwise always reports ok.
func Health(check func() bool) Option {
	return func(s *Server) {
		s.healthy = check
	}
}
