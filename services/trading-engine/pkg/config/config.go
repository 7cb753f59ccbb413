package config

import (
	"time"

	"github.com/thetanav/trading-system/pkg/postgresql"
	"github.com/thetanav/trading-system/pkg/redis"
)

// Config holds the configuration for the trading engine service.
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	HTTP     HTTPConfig     `envPrefix:"HTTP_"`
	GRPC     GRPCConfig     `envPrefix:"GRPC_"`
	Engine   EngineConfig   `envPrefix:"ENGINE_"`
	Postgres PostgresConfig `envPrefix:"POSTGRES_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"trading-engine"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogOutputs      []string      `env:"LOG_OUTPUTS" envDefault:"stderr"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// HTTPConfig holds the REST and WebSocket server settings.
type HTTPConfig struct {
	Addr              string        `env:"ADDR" envDefault:":3000"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envDefault:"*"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	HealthTimeout     time.Duration `env:"HEALTH_TIMEOUT" envDefault:"2s"`
}

// GRPCConfig enables the gRPC health service when Enabled is set.
type GRPCConfig struct {
	Enabled       bool          `env:"ENABLED" envDefault:"false"`
	Addr          string        `env:"ADDR" envDefault:":50051"`
	CheckInterval time.Duration `env:"CHECK_INTERVAL" envDefault:"5s"`
}

// EngineConfig holds matching and market data settings.
type EngineConfig struct {
	SampleInterval  time.Duration `env:"SAMPLE_INTERVAL" envDefault:"1s"`
	ReadBackoff     time.Duration `env:"READ_BACKOFF" envDefault:"100ms"`
	CandleInterval  string        `env:"CANDLE_INTERVAL" envDefault:"1m"`
	CandleRetention int           `env:"CANDLE_RETENTION" envDefault:"720"`
	SeedCash        string        `env:"SEED_CASH" envDefault:"1000.00"`
	SeedInventory   int64         `env:"SEED_INVENTORY" envDefault:"5"`
}

// PostgresConfig enables ledger persistence when Enabled is set.
type PostgresConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	postgresql.Config
}

// RedisConfig enables the depth and candle cache when Enabled is set.
type RedisConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	redis.Config
}

// KafkaConfig enables the order intake and trade streams when Enabled is set.
type KafkaConfig struct {
	Enabled    bool     `env:"ENABLED" envDefault:"false"`
	Brokers    []string `env:"BROKERS" envDefault:"localhost:9092"`
	OrderTopic string   `env:"ORDER_TOPIC" envDefault:"orders"`
	TradeTopic string   `env:"TRADE_TOPIC" envDefault:"trades"`
	GroupID    string   `env:"GROUP_ID" envDefault:"trading-engine"`
}
