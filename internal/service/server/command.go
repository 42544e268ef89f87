package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/komga-settings/internal/api/grpc/health"
	"github.com/oshokin/komga-settings/internal/config"
	"github.com/oshokin/komga-settings/internal/endpoint"
	"github.com/oshokin/komga-settings/internal/logger"
	"github.com/oshokin/komga-settings/internal/metrics"
	repo "github.com/oshokin/komga-settings/internal/repository/credentials"
	"github.com/oshokin/komga-settings/internal/service/probe"
	"github.com/oshokin/komga-settings/internal/service/settings"
	"github.com/oshokin/komga-settings/internal/transport"
)

// Options controls the serve process and configuration.
type Options struct {
	// Settings locates the configuration and state files.
	Settings settings.Options
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// MetricsAddress provides an optional /metrics listen address override.
	MetricsAddress string
}

// metricsShutdownTimeout bounds the graceful stop of the metrics listener.
const metricsShutdownTimeout = 5 * time.Second

// Run starts the gRPC health server and blocks until context is canceled or server stops.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "serve")

	// Load configuration first to get server settings.
	cfg, err := settings.LoadConfig(&opts.Settings)
	if err != nil {
		return err
	}

	// Command line addresses override the config.
	if opts.ListenAddress != "" {
		cfg.ListenAddress = opts.ListenAddress
	}

	if opts.MetricsAddress != "" {
		cfg.MetricsAddress = opts.MetricsAddress
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prober := newProber(cfg, metrics.NewRecorder(registry))

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddress, err)
	}

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, health.NewServer(prober))

	logger.InfoKV(ctx, "Health server listening", "listen_address", cfg.ListenAddress, "state_file", cfg.StateFile)

	var metricsServer *http.Server
	if cfg.MetricsAddress != "" {
		metricsServer, err = startMetrics(ctx, cfg.MetricsAddress, registry)
		if err != nil {
			_ = lis.Close()
			return err
		}
	}

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down servers")

		if metricsServer != nil {
			stopMetrics(ctx, metricsServer)
		}

		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Servers stopped")

	return nil
}

// newProber builds a prober over the state file with metrics attached.
func newProber(cfg *config.Config, recorder *metrics.Recorder) *probe.Prober {
	store := repo.NewFileRepository(cfg.StateFile)

	return probe.NewProber(
		endpoint.NewResolver(store),
		transport.New(transport.WithCallTimeout(cfg.Timeout)),
		probe.WithObserver(recorder),
	)
}

// startMetrics exposes the registry on /metrics in the background.
func startMetrics(ctx context.Context, address string, registry *prometheus.Registry) (*http.Server, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: config.DefaultTimeout,
	}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics server failed", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Metrics server listening", "metrics_address", lis.Addr().String())

	return srv, nil
}

// stopMetrics shuts the metrics listener down within metricsShutdownTimeout.
func stopMetrics(ctx context.Context, srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorKV(ctx, "Metrics server shutdown failed", "error", err)
	}
}
