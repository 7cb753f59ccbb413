package grpcserver

import (
	"context"
	"net"
	"sync"

	"github.com/thetanav/trading-system/pkg/grpclib/health"
	"github.com/thetanav/trading-system/pkg/httplib/healthcheck"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceName is the name the engine reports under in the gRPC health service.
const ServiceName = "trading.v1.TradingEngine"

// Server exposes the standard gRPC health service, kept in step with check.
type Server struct {
	Server *grpc.Server
	health *health.Server
	check  healthcheck.Checker
	config config.GRPCConfig
	logger logger.Interface

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates a new gRPC server.
func NewServer(cfg config.GRPCConfig, check healthcheck.Checker, logger logger.Interface) *Server {
	s := &Server{
		health: health.NewServer(),
		check:  check,
		config: cfg,
		logger: logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Server = grpc.NewServer(grpc.ChainUnaryInterceptor(s.logUnary))

	s.health.Register(s.Server)
	reflection.Register(s.Server)

	return s
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}

	s.logger.Info("gRPC server listening", logger.NewField("addr", s.config.Addr))
	return s.Serve(lis)
}

// Serve keeps the health status in step with check and serves lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.mu.Lock()
	if s.check == nil {
		s.health.InitService(ServiceName)
	} else {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.health.Watch(s.ctx, ServiceName, s.config.CheckInterval, s.check)
		}()
	}
	s.mu.Unlock()

	return s.Server.Serve(lis)
}

// Stop reports NOT_SERVING and waits for in-flight calls to finish.
func (s *Server) Stop() {
	s.mu.Lock()
	s.health.Shutdown()
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.Server.GracefulStop()
}

func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	s.logger.DebugContext(ctx, "gRPC call",
		logger.NewField("method", info.FullMethod),
		logger.NewField("code", status.Code(err).String()),
	)
	return resp, err
}
