package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/thetanav/trading-system/pkg/errors"
)

// HealthCheck represents database health information
type HealthCheck struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
	Version      string        `json:"version,omitempty"`
}

// CheckHealth pings db and reads the server version.
func CheckHealth(ctx context.Context, db PostgreSQLClient) *HealthCheck {
	start := time.Now()
	health := &HealthCheck{Status: "unhealthy"}

	if err := db.Ping(ctx); err != nil {
		health.Error = fmt.Sprintf("ping failed: %v", err)
		health.ResponseTime = time.Since(start)
		return health
	}

	var version string
	if err := db.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		health.Error = fmt.Sprintf("version query failed: %v", err)
		health.ResponseTime = time.Since(start)
		return health
	}

	health.Version = version
	health.Status = "healthy"
	health.ResponseTime = time.Since(start)
	return health
}

// Checker wraps CheckHealth as a check func that fails unless db is healthy.
func Checker(db PostgreSQLClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		health := CheckHealth(ctx, db)
		if health.Status != "healthy" {
			return errors.NewErrorDetails(health.Error, string(errors.GeneralRepositoryError), "postgres")
		}
		return nil
	}
}
