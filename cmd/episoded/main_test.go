package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/episode-engine/internal/config"
	"github.com/danielpatrickdp/episode-engine/internal/logging"
	"github.com/danielpatrickdp/episode-engine/internal/state"
)

func testConfig(t *testing.T, addr string) config.Config {
	t.Helper()
	return config.Config{
		DBPath:    filepath.Join(t.TempDir(), "episodes.db"),
		Namespace: "test",
		Addr:      addr,
		Timezone:  "UTC",
		Seed:      1,
		Baseline:  5,
	}
}

func TestRunClosesStoreWhenListenFails(t *testing.T) {
	cfg := testConfig(t, "127.0.0.1:not-a-port")

	err := run(context.Background(), cfg, logging.Discard())
	if err == nil || !strings.Contains(err.Error(), "listen") {
		t.Fatalf("expected listen error, got %v", err)
	}
	// The last connection to a WAL database removes the -wal file on close.
	if _, err := os.Stat(cfg.DBPath + "-wal"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected store closed (no -wal file left), stat err = %v", err)
	}

	reopened, err := state.NewStore(cfg.DBPath, cfg.Namespace)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened.Close()
}

func TestRunRejectsBadTimezone(t *testing.T) {
	cfg := testConfig(t, "127.0.0.1:0")
	cfg.Timezone = "Nowhere/Special"
	if err := run(context.Background(), cfg, logging.Discard()); err == nil || !strings.Contains(err.Error(), "config") {
		t.Fatalf("expected config error, got %v", err)
	}
	if _, err := os.Stat(cfg.DBPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("store should not be opened before config is valid")
	}
}
