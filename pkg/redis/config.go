package redis

import "time"

// Mode represents the mode of the Redis client.
type Mode string

const (
	// Standalone Mode is for a single Redis instance.
	Standalone Mode = "standalone"
	// Cluster Mode is for a Redis cluster setup.
	Cluster Mode = "cluster"
)

// Config holds the configuration for the Redis client.
type Config struct {
	Mode     Mode   `env:"MODE" envDefault:"standalone"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`

	Addrs []string `env:"ADDRS" envDefault:"localhost:6379"`

	ConnectTimeout      time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	MaxRetries          int           `env:"MAX_RETRIES" envDefault:"3"`
	MinRetryBackoff     time.Duration `env:"MIN_RETRY_BACKOFF" envDefault:"100ms"`
	MaxRetryBackoff     time.Duration `env:"MAX_RETRY_BACKOFF" envDefault:"2s"`
	PoolSize            int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns        int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	PoolTimeout         time.Duration `env:"POOL_TIMEOUT" envDefault:"4s"`
	PrefixKey           string        `env:"PREFIX_KEY" envDefault:"trading:"`
	ReconnectMaxRetries int           `env:"RECONNECT_MAX_RETRIES" envDefault:"3"`
}

// DefaultConfig returns a default configuration for the Redis client.
func DefaultConfig() *Config {
	return &Config{
		Mode:                Standalone,
		Addrs:               []string{"localhost:6379"},
		ConnectTimeout:      5 * time.Second,
		MaxRetries:          3,
		MinRetryBackoff:     100 * time.Millisecond,
		MaxRetryBackoff:     2 * time.Second,
		PoolSize:            10,
		MinIdleConns:        2,
		PoolTimeout:         4 * time.Second,
		PrefixKey:           "trading:",
		ReconnectMaxRetries: 3,
	}
}

// Key prefixes k with the configured PrefixKey.
func (c *Config) Key(k string) string {
	return c.PrefixKey + k
}

// validate returns a description of the first invalid setting, or an empty string.
func (c *Config) validate() string {
	switch {
	case len(c.Addrs) == 0:
		return "Redis addresses are empty"
	case c.Mode != Standalone && c.Mode != Cluster:
		return "Invalid Redis mode"
	case c.ConnectTimeout <= 0:
		return "Invalid Redis connect timeout"
	case c.PoolSize <= 0:
		return "Invalid Redis pool size"
	case c.PoolTimeout <= 0:
		return "Invalid Redis pool timeout"
	case c.MaxRetries < 0:
		return "Invalid Redis max retries"
	case c.MinRetryBackoff < 0 || c.MaxRetryBackoff < 0:
		return "Invalid Redis retry backoff"
	}
	return ""
}
