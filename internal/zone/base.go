package zone

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/polyzone/internal/geom"
)

// base holds zone metadata and lifecycle flags.
// Variants embed base and add their geometry.
type base struct {
	name           string
	bounds         geom.Bounds
	height         geom.HeightBounds
	boundingRadius float64
	data           any

	debugPoly bool
	debugGrid bool
	colors    DebugColors

	paused    atomic.Bool
	destroyed atomic.Bool
}

func (b *base) init(opts Options) {
	b.name = opts.Name
	b.height = opts.Height
	b.data = opts.Data
	b.debugPoly = opts.DebugPoly
	b.debugGrid = opts.DebugGrid
	b.colors = opts.colors()
}

// Name returns the zone name.
func (b *base) Name() string { return b.name }

// Bounds returns the axis-aligned footprint.
func (b *base) Bounds() geom.Bounds { return b.bounds }

// HeightBounds returns the vertical extent.
func (b *base) HeightBounds() geom.HeightBounds { return b.height }

// BoundingRadius returns half of the bounding box diagonal.
func (b *base) BoundingRadius() float64 { return b.boundingRadius }

// Data returns the caller-owned payload.
func (b *base) Data() any { return b.data }

// DebugEnabled reports whether the zone asked for debug drawing.
func (b *base) DebugEnabled() bool { return b.debugPoly || b.debugGrid }

// Paused reports whether watch loops should skip this zone.
func (b *base) Paused() bool { return b.paused.Load() }

// SetPaused pauses or resumes watch callbacks. Queries keep working.
func (b *base) SetPaused(paused bool) { b.paused.Store(paused) }

// Destroy marks the zone destroyed.
func (b *base) Destroy() { b.destroyed.Store(true) }

// Destroyed reports whether Destroy was called.
func (b *base) Destroyed() bool { return b.destroyed.Load() }

// alive returns false and logs when the zone is used after Destroy.
func (b *base) alive(op string) bool {
	if !b.destroyed.Load() {
		return true
	}
	slog.Warn("zone used after destroy", "zone", b.name, "op", op)
	return false
}
