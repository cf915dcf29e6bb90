package health_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/radahn42/chronicles/internal/grpc/health"
	"github.com/radahn42/chronicles/internal/lib/logger/slogdiscard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type pinger struct {
	down  atomic.Bool
	calls atomic.Int32
}

func (p *pinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.down.Load() {
		return errors.New("server selection timeout")
	}
	return nil
}

func check(t *testing.T, srv *grpchealth.Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)

	return resp.GetStatus()
}

func TestProbe(t *testing.T) {
	srv := grpchealth.NewServer()
	p := &pinger{}
	prober := health.NewProber(slogdiscard.NewDiscardLogger(), srv, p, time.Minute, time.Second)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, prober.Probe(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, srv, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, srv, health.Service))

	p.down.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, prober.Probe(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, srv, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, srv, health.Service))
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := grpchealth.NewServer()
	p := &pinger{}
	prober := health.NewProber(slogdiscard.NewDiscardLogger(), srv, p, 10*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		prober.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("prober did not stop")
	}
}
