package grpc_server

import (
	"net"
	"time"
)

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// CheckInterval sets how often the readiness check is re-evaluated.
func CheckInterval(interval time.Duration) Option {
	return func(s *Server) {
		s.interval = interval
	}
}
