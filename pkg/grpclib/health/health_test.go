package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const service = "trading.v1.TradingEngine"

func statusOf(t *testing.T, h *Server, name string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.server.Check(context.Background(), &healthpb.HealthCheckRequest{Service: name})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestServer_SetServing(t *testing.T) {
	h := NewServer()

	h.InitService(service)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(t, h, service))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(t, h, ""))

	h.SetServing(service, false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, h, service))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, h, ""))
}

func TestServer_ShutdownAndResume(t *testing.T) {
	h := NewServer()
	h.InitService(service)

	h.Shutdown()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, h, service))

	h.SetServing(service, true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, h, service), "shutdown is sticky")

	h.Resume()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(t, h, service))
}

func TestServer_Watch(t *testing.T) {
	h := NewServer()
	ctx, cancel := context.WithCancel(context.Background())

	var failing atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Watch(ctx, service, 5*time.Millisecond, func(context.Context) error {
			if failing.Load() {
				return errors.New("redis down")
			}
			return nil
		})
	}()

	assert.Eventually(t, func() bool {
		return statusOf(t, h, service) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	failing.Store(true)
	assert.Eventually(t, func() bool {
		return statusOf(t, h, service) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
