package zone

import (
	"context"
	"runtime"
	"time"
)

// Scheduler provides cooperative delays. Sleep with d <= 0 is a plain yield.
// Sleep returns ctx.Err() when ctx ends first.
type Scheduler interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// DefaultScheduler sleeps on real timers.
var DefaultScheduler Scheduler = realScheduler{}

type realScheduler struct{}

func (realScheduler) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		runtime.Gosched()
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
