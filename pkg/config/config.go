package config

import (
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/thetanav/trading-system/pkg/errors"
)

// MustLoad loads the configuration from environment variables and an optional .env file.
// It panics when a required variable is missing or malformed.
func MustLoad[T any](cfg *T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg *T, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.NewTracer("failed to read env file").Wrap(err)
	}

	if err := env.Parse(cfg); err != nil {
		return errors.NewTracer("failed to parse environment").Wrap(err)
	}

	return nil
}
