package zone

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// DefaultWatchInterval is the delay between two polls of a watch.
const DefaultWatchInterval = 500 * time.Millisecond

// PointFunc returns the current position of a tracked point.
type PointFunc func() mgl64.Vec3

// TransitionFunc is called when the tracked point enters (inside=true) or leaves a zone.
type TransitionFunc func(point mgl64.Vec3, inside bool)

// Watch tracks whether one point stream is inside a zone.
// The initial state is outside, so a point that starts inside fires on the first poll.
type Watch struct {
	id       uuid.UUID
	zone     Zone
	source   PointFunc
	onChange TransitionFunc
	interval time.Duration

	wasInside atomic.Bool
}

// NewWatch creates a watch. interval <= 0 means DefaultWatchInterval.
func NewWatch(z Zone, source PointFunc, onChange TransitionFunc, interval time.Duration) *Watch {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watch{
		id:       uuid.New(),
		zone:     z,
		source:   source,
		onChange: onChange,
		interval: interval,
	}
}

// ID returns the watch identifier.
func (w *Watch) ID() uuid.UUID { return w.id }

// Zone returns the watched zone.
func (w *Watch) Zone() Zone { return w.zone }

// Interval returns the delay between polls.
func (w *Watch) Interval() time.Duration { return w.interval }

// Inside returns the last observed state.
func (w *Watch) Inside() bool { return w.wasInside.Load() }

// Poll runs a single check and reports whether the watch is finished
// because its zone was destroyed. A paused zone is skipped without touching the state.
func (w *Watch) Poll() (done bool) {
	if w.zone.Destroyed() {
		return true
	}
	if w.zone.Paused() {
		return false
	}

	point := w.source()
	inside := w.zone.IsPointInside(point)
	if inside == w.wasInside.Load() {
		return false
	}
	w.wasInside.Store(inside)

	if IsDebugEnabled() {
		slog.Debug("zone transition", "zone", w.zone.Name(), "watch", w.id, "inside", inside)
	}
	if w.onChange != nil {
		w.onChange(point, inside)
	}
	return false
}

// Run polls until the zone is destroyed (returns nil) or ctx ends (returns ctx.Err()).
// Interval is a sleep between polls, not a fixed rate.
func (w *Watch) Run(ctx context.Context, sched Scheduler) error {
	if sched == nil {
		sched = DefaultScheduler
	}

	for {
		if w.Poll() {
			return nil
		}
		if err := sched.Sleep(ctx, w.interval); err != nil {
			return err
		}
	}
}
