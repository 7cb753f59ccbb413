package grpcserver_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/services/trading-engine/internal/rpc/grpcserver"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
)

func startServer(t *testing.T, check func(context.Context) error) (*grpcserver.Server, healthpb.HealthClient) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpcserver.NewServer(config.GRPCConfig{CheckInterval: 5 * time.Millisecond}, check, logger.NewNop())

	served := make(chan error, 1)
	go func() { served <- srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
		assert.NoError(t, <-served)
	})

	return srv, healthpb.NewHealthClient(conn)
}

func checkStatus(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestServer_HealthWithoutCheck(t *testing.T) {
	_, client := startServer(t, nil)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: grpcserver.ServiceName})
	require.NoError(t, err)
	assert.True(t, proto.Equal(&healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, resp))
}

func TestServer_HealthFollowsCheck(t *testing.T) {
	var failing atomic.Bool
	_, client := startServer(t, func(context.Context) error {
		if failing.Load() {
			return errors.New("unhealthy: redis")
		}
		return nil
	})

	assert.Eventually(t, func() bool {
		return checkStatus(t, client, grpcserver.ServiceName) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	failing.Store(true)
	assert.Eventually(t, func() bool {
		return checkStatus(t, client, grpcserver.ServiceName) == healthpb.HealthCheckResponse_NOT_SERVING &&
			checkStatus(t, client, "") == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	failing.Store(false)
	assert.Eventually(t, func() bool {
		return checkStatus(t, client, grpcserver.ServiceName) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)
}

func TestServer_UnknownService(t *testing.T) {
	_, client := startServer(t, nil)

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "orders.v1.Unknown"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
