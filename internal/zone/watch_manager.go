package zone

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrWatchManagerStopped is returned by Register after Run has returned.
var ErrWatchManagerStopped = errors.New("watch manager stopped")

type watchHandle struct {
	watch  *Watch
	cancel context.CancelFunc
}

// WatchManager runs registered watches concurrently, one goroutine per watch.
// Watches registered before Run start when Run starts.
type WatchManager struct {
	handles    sync.Map // map[uuid.UUID]*watchHandle
	watchCount atomic.Int32

	sched Scheduler

	mu      sync.Mutex
	g       *errgroup.Group
	ctx     context.Context
	pending []*watchHandle
	stopped bool
}

// NewWatchManager creates a manager. nil sched means DefaultScheduler.
func NewWatchManager(sched Scheduler) *WatchManager {
	if sched == nil {
		sched = DefaultScheduler
	}
	return &WatchManager{sched: sched}
}

// Register adds w and starts it if the manager is running.
func (m *WatchManager) Register(w *Watch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return ErrWatchManagerStopped
	}

	h := &watchHandle{watch: w}
	m.handles.Store(w.ID(), h)
	m.watchCount.Add(1)

	if m.g == nil {
		m.pending = append(m.pending, h)
	} else {
		m.start(h)
	}

	slog.Debug("zone watch registered", "watch", w.ID(), "zone", w.Zone().Name())
	return nil
}

// Unregister stops and removes a watch.
func (m *WatchManager) Unregister(id uuid.UUID) {
	value, ok := m.handles.LoadAndDelete(id)
	if !ok {
		return
	}
	m.watchCount.Add(-1)

	h := value.(*watchHandle)
	m.mu.Lock()
	m.pending = slices.DeleteFunc(m.pending, func(p *watchHandle) bool { return p == h })
	if h.cancel != nil {
		h.cancel()
	}
	m.mu.Unlock()

	slog.Debug("zone watch unregistered", "watch", id)
}

// Count returns number of registered watches.
func (m *WatchManager) Count() int {
	return int(m.watchCount.Load())
}

// Get returns a registered watch.
func (m *WatchManager) Get(id uuid.UUID) (*Watch, bool) {
	value, ok := m.handles.Load(id)
	if !ok {
		return nil, false
	}
	return value.(*watchHandle).watch, true
}

// Run starts all watches and blocks until ctx is canceled.
// Watches that end on their own (zone destroyed) are removed.
func (m *WatchManager) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped || m.g != nil {
		m.mu.Unlock()
		return ErrWatchManagerStopped
	}
	g, gctx := errgroup.WithContext(ctx)
	m.g, m.ctx = g, gctx
	for _, h := range m.pending {
		m.start(h)
	}
	m.pending = nil
	m.mu.Unlock()

	slog.Info("zone watch manager started", "watches", m.Count())

	<-gctx.Done()

	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	err := g.Wait()
	slog.Info("zone watch manager stopped")

	if err != nil {
		return err
	}
	return ctx.Err()
}

// start launches h. Caller holds m.mu.
func (m *WatchManager) start(h *watchHandle) {
	wctx, cancel := context.WithCancel(m.ctx)
	h.cancel = cancel

	m.g.Go(func() error {
		defer cancel()

		err := h.watch.Run(wctx, m.sched)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		if err != nil {
			return err
		}

		if m.handles.CompareAndDelete(h.watch.ID(), h) {
			m.watchCount.Add(-1)
			slog.Debug("zone watch finished", "watch", h.watch.ID(), "zone", h.watch.Zone().Name())
		}
		return nil
	})
}
