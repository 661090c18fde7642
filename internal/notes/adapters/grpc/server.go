// Package grpc содержит gRPC сервер проверки здоровья сервиса заметок.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"sharenote/internal/config"
	"sharenote/pkg/logger"
)

// ServiceName - имя сервиса в протоколе grpc.health.v1.
const ServiceName = "sharenote.notes"

// Константы для логирования.
const (
	LogServerStarted  = "gRPC health server started"
	LogServerStopping = "stopping gRPC health server"
	LogServeFailed    = "failed to serve gRPC"
	LogStatusChanged  = "health status changed"
	LogListenerClose  = "failed to close listener"

	ErrListen = "failed to listen"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server представляет gRPC сервер проверки здоровья.
type Server struct {
	server   *grpc.Server
	health   *health.Server
	address  string
	listener net.Listener
	pinger   Pinger
	interval time.Duration

	mu      sync.Mutex
	serving bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New создает новый экземпляр gRPC сервера.
func New(cfg *config.GRPCConfig, pinger Pinger) *Server {
	s := &Server{
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		address:  cfg.GetAddress(),
		pinger:   pinger,
		interval: cfg.CheckInterval,
		stop:     make(chan struct{}),
	}

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.setStatus(context.Background(), healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Start открывает TCP порт и запускает сервер.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrListen, err)
	}
	s.Serve(ctx, listener)
	return nil
}

// Serve запускает сервер на готовом listener и фоновую проверку зависимостей.
func (s *Server) Serve(ctx context.Context, listener net.Listener) {
	log := logger.Log(ctx)
	s.listener = listener

	s.Check(ctx)

	s.wg.Add(1)
	go s.monitor(ctx)

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log.Error(ctx, LogServeFailed, zap.Error(err))
		}
	}()

	log.Info(ctx, LogServerStarted, zap.String("address", listener.Addr().String()))
}

// Check один раз проверяет зависимости и обновляет статус.
func (s *Server) Check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.pinger != nil {
		checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout())
		defer cancel()
		if err := s.pinger.Ping(checkCtx); err != nil {
			logger.Log(ctx).Warn(ctx, "dependency check failed", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.setStatus(ctx, status)
}

func (s *Server) checkTimeout() time.Duration {
	if s.interval > 0 {
		return s.interval
	}
	return 5 * time.Second
}

func (s *Server) monitor(ctx context.Context) {
	defer s.wg.Done()
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Check(ctx)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) setStatus(ctx context.Context, status healthpb.HealthCheckResponse_ServingStatus) {
	s.mu.Lock()
	serving := status == healthpb.HealthCheckResponse_SERVING
	changed := s.serving != serving
	s.serving = serving
	s.mu.Unlock()

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)

	if changed {
		logger.Log(ctx).Info(ctx, LogStatusChanged, zap.Stringer("status", status))
	}
}

// Stop останавливает gRPC сервер.
func (s *Server) Stop(ctx context.Context) {
	log := logger.Log(ctx)
	log.Info(ctx, LogServerStopping)

	close(s.stop)
	s.wg.Wait()

	s.health.Shutdown()
	s.server.GracefulStop()
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !isClosedErr(err) {
			log.Error(ctx, LogListenerClose, zap.Error(err))
		}
	}
}

func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
