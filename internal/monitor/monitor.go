// Package monitor polls the blueprint store in the background and publishes
// its reachability and size as gauges.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/arsw/blueprints/internal/blueprint"
)

// Gauges receives the result of each poll.
type Gauges interface {
	SetStoreUp(up bool)
	SetBlueprintsStored(n int)
}

// Store is what the monitor reads from.
type Store interface {
	blueprint.Pinger
	GetAll(ctx context.Context) ([]blueprint.Blueprint, error)
}

// Monitor periodically checks the store.
type Monitor struct {
	store    Store
	gauges   Gauges
	interval time.Duration
	timeout  time.Duration
}

// New creates a new Monitor. Each poll is bounded by timeout.
func New(store Store, gauges Gauges, interval, timeout time.Duration) *Monitor {
	return &Monitor{
		store:    store,
		gauges:   gauges,
		interval: interval,
		timeout:  timeout,
	}
}

// Start polls once immediately, then on every tick. It blocks until ctx is
// cancelled.
func (m *Monitor) Start(ctx context.Context) {
	slog.Info("store monitor started", "interval", m.interval.String())
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("store monitor stopped")
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll runs a single check.
func (m *Monitor) Poll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.store.Ping(ctx); err != nil {
		slog.Warn("monitor: store unreachable", "error", err)
		m.gauges.SetStoreUp(false)
		return
	}
	m.gauges.SetStoreUp(true)

	all, err := m.store.GetAll(ctx)
	if err != nil {
		slog.Error("monitor: failed to count blueprints", "error", err)
		return
	}
	m.gauges.SetBlueprintsStored(len(all))
}
