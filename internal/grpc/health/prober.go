package health

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name the document store health is reported under, next to
// the overall server status ("").
const Service = "chronicles.DocumentStore"

type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober keeps the health server in sync with the document store.
type Prober struct {
	log      *slog.Logger
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
}

func NewProber(log *slog.Logger, server *health.Server, pinger Pinger, interval, timeout time.Duration) *Prober {
	return &Prober{
		log:      log,
		server:   server,
		pinger:   pinger,
		interval: interval,
		timeout:  timeout,
	}
}

// Probe pings the store once and publishes the result.
func (p *Prober) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	const op = "health.Probe"

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := p.pinger.Ping(ctx); err != nil {
		p.log.WarnContext(ctx, "document store is unreachable",
			slog.String("op", op),
			slog.Any("error", err),
		)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	p.server.SetServingStatus("", st)
	p.server.SetServingStatus(Service, st)

	return st
}

// Run probes immediately and then every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Probe(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
