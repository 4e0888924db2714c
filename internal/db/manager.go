package db

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tallman/dashboard-tools/internal/config"
)

// maxPoolConns caps open connections per backend. The dashboard refresh
// fires at most a handful of concurrent queries.
const maxPoolConns = 3

// Connect retry policy for the initial dial. The ERP server drops idle
// sessions overnight, so the first dial after a quiet period often fails
// once before succeeding.
const (
	connectAttempts = 3
	connectBackoff  = 2 * time.Second
)

// Manager holds configuration and caches drivers by connection ID. A
// driver that goes stale is discarded via Invalidate and re-dialed lazily
// on the next use.
type Manager struct {
	cfg     *config.Config
	mu      sync.Mutex
	drivers map[string]Driver
}

// NewManager returns a manager that will create drivers from cfg.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		cfg:     cfg,
		drivers: make(map[string]Driver),
	}
}

// Driver returns a Driver for the given connection ID, creating and caching it if needed.
func (m *Manager) Driver(ctx context.Context, connectionID string) (Driver, error) {
	uri, ok := m.cfg.URI(connectionID)
	if !ok {
		return nil, fmt.Errorf("unknown connection: %q", connectionID)
	}
	typ, _ := m.cfg.Type(connectionID)

	m.mu.Lock()
	d, cached := m.drivers[connectionID]
	m.mu.Unlock()

	if cached {
		return d, nil
	}

	newDriver, err := m.dial(ctx, connectionID, typ, uri)
	if err != nil {
		// Log the full error (may contain the URI) for debugging, but
		// return only a safe message to the caller — tool responses must
		// never expose connection strings or credentials.
		log.Printf("driver %q (%s): %v", connectionID, typ, err)
		return nil, fmt.Errorf("failed to connect to %q (%s); check server logs for details", connectionID, typ)
	}

	m.mu.Lock()
	if existing, ok := m.drivers[connectionID]; ok {
		m.mu.Unlock()
		newDriver.Close()
		return existing, nil
	}
	m.drivers[connectionID] = newDriver
	m.mu.Unlock()

	return newDriver, nil
}

// dial opens a driver for the connection, retrying the initial connect.
func (m *Manager) dial(ctx context.Context, connectionID, typ, uri string) (Driver, error) {
	var d Driver
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		switch typ {
		case "sqlserver":
			d, err = NewSQLServerDriver(ctx, uri)
		case "sqlite":
			d, err = NewSQLiteDriver(ctx, uri)
		case "postgres":
			d, err = NewPostgresDriver(ctx, uri)
		case "mysql":
			d, err = NewMySQLDriver(ctx, uri)
		default:
			return nil, fmt.Errorf("unsupported connection type %q for %q", typ, connectionID)
		}
		if err == nil {
			return d, nil
		}
		if attempt < connectAttempts {
			log.Printf("driver %q (%s): connect attempt %d/%d failed, retrying", connectionID, typ, attempt, connectAttempts)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(connectBackoff):
			}
		}
	}
	return nil, err
}

// Invalidate closes and forgets the cached driver for a connection. The
// next call to Driver dials a fresh one.
func (m *Manager) Invalidate(connectionID string) {
	m.mu.Lock()
	d, ok := m.drivers[connectionID]
	if ok {
		delete(m.drivers, connectionID)
	}
	m.mu.Unlock()
	if ok {
		_ = d.Close()
	}
}

// Close closes all cached drivers. Call when shutting down.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.drivers {
		_ = d.Close()
		delete(m.drivers, id)
	}
	return nil
}
