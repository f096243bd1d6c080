// Package grpc_server serves the standard gRPC health service so orchestrators
// can probe the process without speaking HTTP.
package grpc_server

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside the overall status.
const ServiceName = "student.v1.StudentService"

type Server struct {
	App    *grpc.Server
	health *health.Server
	notify chan error
	stop   context.CancelFunc

	address  string
	interval time.Duration
	check    func() bool
}

// New builds a gRPC server whose health status follows check.
func New(check func() bool, opts ...Option) *Server {
	s := &Server{
		App:      grpc.NewServer(),
		health:   health.NewServer(),
		notify:   make(chan error, 1),
		address:  ":9090",
		interval: 10 * time.Second,
		check:    check,
	}

	for _, opt := range opts {
		opt(s)
	}

	healthpb.RegisterHealthServer(s.App, s.health)
	s.refresh()
	return s
}

func (s *Server) refresh() {
	status := healthpb.HealthCheckResponse_SERVING
	if !s.check() {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Start -.
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.refresh()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", s.address)
		if err != nil {
			s.notify <- fmt.Errorf("grpc listen %s: %w", s.address, err)
			close(s.notify)
			return
		}
		zap.L().Info("gRPC health server listening", zap.String("address", s.address))
		if err := s.App.Serve(lis); err != nil {
			s.notify <- err
		}
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown reports NOT_SERVING and stops accepting new RPCs.
func (s *Server) Shutdown() error {
	if s.stop != nil {
		s.stop()
	}
	s.health.Shutdown()
	s.App.GracefulStop()
	return nil
}
