package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	pkgconfig "github.com/thetanav/trading-system/pkg/config"
	"github.com/thetanav/trading-system/pkg/httplib/healthcheck"
	"github.com/thetanav/trading-system/pkg/interval"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/money"
	"github.com/thetanav/trading-system/pkg/postgresql"
	"github.com/thetanav/trading-system/pkg/redis"
	app "github.com/thetanav/trading-system/services/trading-engine/internal/app/engine"
	ledgerv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1"
	marketdatav1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1"
	orderreaderv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/order-reader/v1"
	tradepublisherv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/trade-publisher/v1"
	kafkaorder "github.com/thetanav/trading-system/services/trading-engine/internal/infrastructure/kafka/order"
	kafkatrade "github.com/thetanav/trading-system/services/trading-engine/internal/infrastructure/kafka/trade"
	pgledger "github.com/thetanav/trading-system/services/trading-engine/internal/infrastructure/postgresql/ledger"
	redismarketdata "github.com/thetanav/trading-system/services/trading-engine/internal/infrastructure/redis/marketdata"
	"github.com/thetanav/trading-system/services/trading-engine/internal/rpc/grpcserver"
	"github.com/thetanav/trading-system/services/trading-engine/internal/rpc/rest"
	"github.com/thetanav/trading-system/services/trading-engine/internal/usecase/ledger"
	"github.com/thetanav/trading-system/services/trading-engine/internal/usecase/marketdata"
	"github.com/thetanav/trading-system/services/trading-engine/internal/usecase/orderbook"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)),
		logger.WithOutputPaths(cfg.App.LogOutputs...),
	)
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	seedCash, err := money.Parse(cfg.Engine.SeedCash)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "parse_seed_cash"})
		return
	}

	health := healthcheck.New(cfg.HTTP.HealthTimeout)
	ledgerOpts := []ledger.Option{ledger.WithSeed(ledgerv1.Seed{Cash: seedCash, Inventory: cfg.Engine.SeedInventory})}

	var pgClient *postgresql.Client
	if cfg.Postgres.Enabled {
		pgClient, err = postgresql.NewClient(ctx, cfg.Postgres.Config)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "connect_postgres"})
			return
		}
		defer pgClient.Close()

		ledgerOpts = append(ledgerOpts, ledger.WithRepository(pgledger.NewRepository(pgClient, log)))
		health.Register("postgres", postgresql.Checker(pgClient))
	}

	var rclient redis.Client
	if cfg.Redis.Enabled {
		rclient = redis.NewClient(log, &cfg.Redis.Config)
		if err := rclient.Connect(ctx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
			return
		}
		defer func() {
			if err := rclient.Disconnect(context.Background()); err != nil {
				log.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
			}
		}()
		health.Register("redis", rclient.Ping)
	}

	// Ledger
	accounts := ledger.NewLedger(log, ledgerOpts...)
	if err := accounts.Restore(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "restore_ledger"})
		return
	}

	// Market data
	var eng *app.Engine
	hub := rest.NewHub(func(channel string) (uint64, any, bool) {
		if channel != rest.ChannelOrderbook || eng == nil {
			return 0, nil, false
		}
		version, depth := eng.DepthSnapshot()
		return version, depth, true
	}, cfg.HTTP.AllowedOrigins, log)

	candleInterval, err := interval.GetInterval(cfg.Engine.CandleInterval)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "parse_candle_interval"})
		return
	}

	sinks := []marketdatav1.DepthSink{hub}
	publisherOpts := []marketdata.Option{
		marketdata.WithInterval(candleInterval),
		marketdata.WithRetention(cfg.Engine.CandleRetention),
	}
	if rclient != nil {
		depthCache := redismarketdata.NewDepthCache(rclient, redismarketdata.NewDepthKeys(cfg.Redis.Key), log)
		if err := depthCache.Reset(ctx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "reset_depth_cache"})
			return
		}
		sinks = append(sinks, depthCache)
		publisherOpts = append(publisherOpts,
			marketdata.WithCandleStore(redismarketdata.NewCandleStore(rclient, cfg.Redis.Key("chart:"+candleInterval.Name), log)),
		)
	}
	publisherOpts = append(publisherOpts, marketdata.WithDepthSinks(sinks...))

	publisher := marketdata.NewPublisher(log, publisherOpts...)
	if err := publisher.Restore(ctx); err != nil {
		log.Warn("Starting with an empty chart", logger.Field{Key: "error", Value: err.Error()})
	}

	// Streams
	var (
		tradePublisher tradepublisherv1.TradePublisher
		orderReader    orderreaderv1.OrderReader
	)
	if cfg.Kafka.Enabled {
		tradePublisher = kafkatrade.NewPublisher(cfg.Kafka, log)
		orderReader = kafkaorder.NewReader(cfg.Kafka, log)
	}

	// Engine
	options := app.DefaultEngineOptions()
	options.SampleInterval = cfg.Engine.SampleInterval
	options.ReadBackoff = cfg.Engine.ReadBackoff
	eng = app.NewEngineWithOptions(orderbook.NewOrderbook(), accounts, publisher, tradePublisher, orderReader, log, options)
	health.Register("engine", func(context.Context) error { return eng.Halted() })

	if err := eng.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_engine"})
		return
	}

	server := rest.NewServer(cfg.HTTP, eng, accounts, publisher, hub, health, log)
	serverErr := make(chan error, 2)
	go func() {
		serverErr <- server.Start()
	}()

	var grpcServer *grpcserver.Server
	if cfg.GRPC.Enabled {
		grpcServer = grpcserver.NewServer(cfg.GRPC, health.Check, log)
		go func() {
			if err := grpcServer.Start(); err != nil {
				serverErr <- err
			}
		}()
	}

	log.Info("Trading engine started successfully",
		logger.Field{Key: "app", Value: cfg.App.Name},
		logger.Field{Key: "addr", Value: cfg.HTTP.Addr},
		logger.Field{Key: "postgres", Value: cfg.Postgres.Enabled},
		logger.Field{Key: "redis", Value: cfg.Redis.Enabled},
		logger.Field{Key: "kafka", Value: cfg.Kafka.Enabled},
		logger.Field{Key: "grpc", Value: cfg.GRPC.Enabled},
	)

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})
	case err := <-serverErr:
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "serve"})
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_http"})
	}
	hub.Close()
	if grpcServer != nil {
		grpcServer.Stop()
	}

	if err := eng.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}
	if tradePublisher != nil {
		if err := tradePublisher.Close(); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "close_trade_publisher"})
		}
	}

	log.Info("Trading engine shutdown complete", logger.Field{Key: "trades", Value: eng.TotalTrades()})
}
