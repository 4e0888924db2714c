package db

import (
	"context"
	"os"
	"testing"

	"github.com/tallman/dashboard-tools/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	old := os.Getenv(config.EnvPORPath)
	os.Setenv(config.EnvPORPath, ":memory:")
	t.Cleanup(func() { os.Setenv(config.EnvPORPath, old) })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	m := NewManager(cfg)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManager_Driver_unknownConnection(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Driver(context.Background(), "nonexistent"); err == nil {
		t.Error("expected error for unknown connection")
	}
}

func TestManager_Driver_cached(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	d1, err := m.Driver(ctx, "por")
	if err != nil {
		t.Fatalf("Driver: %v", err)
	}
	d2, err := m.Driver(ctx, "por")
	if err != nil {
		t.Fatalf("Driver again: %v", err)
	}
	if d1 != d2 {
		t.Error("expected the cached driver on second call")
	}
}

func TestManager_Invalidate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	d1, err := m.Driver(ctx, "por")
	if err != nil {
		t.Fatalf("Driver: %v", err)
	}
	m.Invalidate("por")

	d2, err := m.Driver(ctx, "por")
	if err != nil {
		t.Fatalf("Driver after Invalidate: %v", err)
	}
	if d1 == d2 {
		t.Error("expected a fresh driver after Invalidate")
	}
	if err := d2.Ping(ctx); err != nil {
		t.Errorf("fresh driver ping: %v", err)
	}

	// Invalidating an unknown or already-removed connection is a no-op.
	m.Invalidate("por")
	m.Invalidate("nonexistent")
}

func TestManager_Close_idempotent(t *testing.T) {
	m := newTestManager(t)
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close again: %v", err)
	}
}
