package sim

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is advanced once per simulation tick.
type Ticker interface {
	Tick(dt time.Duration)
}

// TickManager manages ticks for all registered tickers
type TickManager struct {
	tickers     sync.Map // map[string]Ticker
	interval    time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	tickerCount atomic.Int32
	ticks       atomic.Int64
}

// NewTickManager creates a tick manager with the given interval.
func NewTickManager(interval time.Duration) *TickManager {
	return &TickManager{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Register adds a ticker under name, replacing any previous one.
func (m *TickManager) Register(name string, t Ticker) {
	if _, loaded := m.tickers.Swap(name, t); !loaded {
		m.tickerCount.Add(1)
	}
	slog.Debug("ticker registered", "name", name)
}

// Unregister removes a ticker.
func (m *TickManager) Unregister(name string) {
	if _, ok := m.tickers.LoadAndDelete(name); !ok {
		return
	}
	m.tickerCount.Add(-1)
	slog.Debug("ticker unregistered", "name", name)
}

// Count returns number of registered tickers.
func (m *TickManager) Count() int {
	return int(m.tickerCount.Load())
}

// Ticks returns how many ticks ran since Start.
func (m *TickManager) Ticks() int64 {
	return m.ticks.Load()
}

// Start runs the tick loop (blocks until context is canceled or Stop is called).
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("sim tick manager started", "interval", m.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("sim tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("sim tick manager stopped")
			return nil

		case now := <-ticker.C:
			m.TickAll(now.Sub(last))
			last = now
		}
	}
}

// Stop stops the tick loop.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// TickAll advances every registered ticker by dt.
func (m *TickManager) TickAll(dt time.Duration) {
	count := 0
	m.tickers.Range(func(_, value any) bool {
		value.(Ticker).Tick(dt)
		count++
		return true
	})
	m.ticks.Add(1)

	if count > 0 && slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("sim tick completed", "tickers", count, "dt", dt)
	}
}
