package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/thetanav/trading-system/pkg/errors"
)

// Checker checks one dependency. A nil error means healthy.
type Checker func(ctx context.Context) error

// Report is the body written by GET /health.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheck is the health check handler.
type HealthCheck struct {
	checks  map[string]Checker
	timeout time.Duration
}

// New returns a HealthCheck running every check with the given per-request timeout.
func New(timeout time.Duration) *HealthCheck {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthCheck{
		checks:  make(map[string]Checker),
		timeout: timeout,
	}
}

// Register adds a named check. It is not safe to call once serving.
func (hc *HealthCheck) Register(name string, check Checker) *HealthCheck {
	hc.checks[name] = check
	return hc
}

// Handler is used to control the flow of GET /health endpoint
func (hc *HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if IsHealthCheckRequest(r) {
			hc.ServeHTTP(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// Run executes every registered check.
func (hc *HealthCheck) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	report := Report{Status: "ok"}
	if len(hc.checks) == 0 {
		return report
	}

	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report.Checks = make(map[string]string, len(names))
	for _, name := range names {
		if err := hc.checks[name](ctx); err != nil {
			report.Status = "unavailable"
			report.Checks[name] = err.Error()
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}

// Check runs every registered check and fails naming each unhealthy one.
func (hc *HealthCheck) Check(ctx context.Context) error {
	report := hc.Run(ctx)
	if report.Status == "ok" {
		return nil
	}

	failing := make([]string, 0, len(report.Checks))
	for name, result := range report.Checks {
		if result != "ok" {
			failing = append(failing, name)
		}
	}
	sort.Strings(failing)

	return errors.NewErrorDetails("unhealthy: "+strings.Join(failing, ", "), string(errors.GeneralInternalServerError), "health")
}

// ServeHTTP serve http request for health check
func (hc *HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := hc.Run(r.Context())

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(report)
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/health"
}
