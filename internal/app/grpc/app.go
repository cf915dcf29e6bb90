package grpcapp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	healthsrv "github.com/radahn42/chronicles/internal/grpc/health"
	"github.com/radahn42/chronicles/internal/grpc/interceptor"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type App struct {
	log        *slog.Logger
	gRPCServer *grpc.Server
	health     *health.Server
	prober     *healthsrv.Prober
	probeCtx   context.Context
	stopProbe  context.CancelFunc
	host       string
	port       int
}

// New creates the admin gRPC server exposing grpc.health.v1 for the process
// and the document store.
func New(
	log *slog.Logger,
	store healthsrv.Pinger,
	host string,
	port int,
	probeInterval time.Duration,
	probeTimeout time.Duration,
) *App {
	gRPCServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(interceptor.Recovery(log)),
			logging.UnaryServerInterceptor(interceptor.Logger(log), interceptor.LoggingOptions()...),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(interceptor.Recovery(log)),
			logging.StreamServerInterceptor(interceptor.Logger(log), interceptor.LoggingOptions()...),
		),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(gRPCServer, healthServer)
	reflection.Register(gRPCServer)

	probeCtx, stopProbe := context.WithCancel(context.Background())

	return &App{
		log:        log,
		gRPCServer: gRPCServer,
		health:     healthServer,
		prober:     healthsrv.NewProber(log, healthServer, store, probeInterval, probeTimeout),
		probeCtx:   probeCtx,
		stopProbe:  stopProbe,
		host:       host,
		port:       port,
	}
}

// MustRun runs gRPC server and panics if any error occurs.
func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

// Run listens on the configured address and serves until Stop is called.
func (a *App) Run() error {
	const op = "grpcapp.Run"

	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", a.host, a.port))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return a.Serve(l)
}

// Serve starts the store prober and serves on l.
func (a *App) Serve(l net.Listener) error {
	const op = "grpcapp.Serve"

	log := a.log.With(
		slog.String("op", op),
		slog.Int("port", a.port),
	)

	go a.prober.Run(a.probeCtx)

	log.Info("gRPC server is running", slog.String("addr", l.Addr().String()))

	if err := a.gRPCServer.Serve(l); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Stop marks every service NOT_SERVING and stops gRPC server.
func (a *App) Stop() {
	const op = "grpcapp.Stop"

	a.log.With(slog.String("op", op)).
		Info("stopping gRPC server")

	a.stopProbe()
	a.health.Shutdown()
	a.gRPCServer.GracefulStop()
}
