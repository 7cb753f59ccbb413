package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/thetanav/trading-system/pkg/httplib/healthcheck"
	"github.com/thetanav/trading-system/pkg/logger"
	enginev1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/engine/v1"
	ledgerv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1"
	marketdatav1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
)

const requestTimeout = 5 * time.Second

// Server serves the REST API and the WebSocket feed.
type Server struct {
	engine enginev1.Engine
	ledger ledgerv1.Ledger
	market marketdatav1.Publisher
	hub    *Hub
	health *healthcheck.HealthCheck
	logger logger.Interface
	config config.HTTPConfig

	httpServer *http.Server
}

// NewServer creates a new Server. hub and health may be nil.
func NewServer(
	cfg config.HTTPConfig,
	engine enginev1.Engine,
	ledger ledgerv1.Ledger,
	market marketdatav1.Publisher,
	hub *Hub,
	health *healthcheck.HealthCheck,
	logger logger.Interface,
) *Server {
	if health == nil {
		health = healthcheck.New(cfg.HealthTimeout)
	}
	return &Server{
		engine: engine,
		ledger: ledger,
		market: market,
		hub:    hub,
		health: health,
		logger: logger,
		config: cfg,
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestContext)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)

	if s.hub != nil {
		r.Get("/ws", s.handleWebSocket)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Post("/accounts", s.handleOpenAccount)
		r.Get("/users", s.handleListUsers)
		r.Get("/users/{id}", s.handleGetUser)
		r.Get("/depth", s.handleDepth)
		r.Get("/chart", s.handleChart)

		r.Group(func(r chi.Router) {
			r.Use(requireAccount)

			r.Get("/accounts/me", s.handleGetAccount)
			r.Get("/accounts/me/transactions", s.handleGetTransactions)
			r.Post("/orders", s.handleSubmitOrder)
			r.Post("/orders/cancel", s.handleCancelOrder)
			r.Get("/orders/mine", s.handleGetOrders)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", accountHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
	})

	return c.Handler(s.health.Handler(r))
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	s.logger.Info("HTTP server listening", logger.NewField("addr", s.config.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
