package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/danielpatrickdp/episode-engine/internal/config"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/logging"
	"github.com/danielpatrickdp/episode-engine/internal/rpc"
	"github.com/danielpatrickdp/episode-engine/internal/selector"
	"github.com/danielpatrickdp/episode-engine/internal/state"
)

// #region main
func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		config.Exitf("%v", err)
	}
}

// #endregion main

// #region run
// run serves the daily feed until ctx is cancelled. The store is closed on
// every return path.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	pool, err := cfg.LoadPool()
	if err != nil {
		return fmt.Errorf("load pool: %w", err)
	}
	prof, err := cfg.LoadProfile()
	if err != nil {
		logger.Warn("profile unreadable, using defaults", "path", cfg.Profile, "error", err)
	}

	store, err := state.NewStore(cfg.DBPath, cfg.Namespace)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	src, seed, err := selector.NewSource(cfg.Seed)
	if err != nil {
		return fmt.Errorf("seed selector: %w", err)
	}

	manager := daily.New(store,
		daily.WithLocation(loc),
		daily.WithSource(src),
		daily.WithBaseline(cfg.BaselineStats()),
		daily.WithLogger(logger),
	)

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	gs := grpc.NewServer()
	rpc.RegisterDailyFeedServer(gs, rpc.NewServer(manager, pool, prof, logger))
	hs := health.NewServer()
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			hs.Shutdown()
			gs.GracefulStop()
		case <-done:
		}
	}()

	logger.Info("episoded ready",
		"addr", lis.Addr().String(),
		"db", cfg.DBPath,
		"namespace", cfg.Namespace,
		"pool_size", len(pool),
		"tz", loc.String(),
		"seed", seed,
		"today", manager.Today(),
	)
	if err := gs.Serve(lis); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// #endregion run
