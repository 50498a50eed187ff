package zone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/semaphore"

	"github.com/udisondev/polyzone/internal/geom"
	"github.com/udisondev/polyzone/internal/grid"
)

// PolygonZone is a zone with an arbitrary footprint extruded between optional height bounds.
type PolygonZone struct {
	base

	points []mgl64.Vec2
	area   float64

	grid        *grid.Grid // nil when disabled
	cancelBuild context.CancelFunc
}

// NewPolygonZone creates a zone from at least three vertices; Z of the vertices is ignored.
// Self-intersecting outlines are accepted and use the non-zero winding rule.
// With EagerGrid (or DebugGrid) the grid is built in the background until done or Destroy.
func NewPolygonZone(points []mgl64.Vec3, opts Options) (*PolygonZone, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("zone %q: %d points: %w", opts.Name, len(points), ErrTooFewPoints)
	}

	flat := geom.FlatAll(points)
	if err := geom.Validate(flat...); err != nil {
		return nil, fmt.Errorf("zone %q: %w", opts.Name, err)
	}
	if err := validateHeight(opts.Height); err != nil {
		return nil, fmt.Errorf("zone %q: %w", opts.Name, err)
	}

	bounds := geom.BoundsOf(flat)
	if geom.Collinear(flat) || bounds.Size[0] == 0 || bounds.Size[1] == 0 {
		return nil, fmt.Errorf("zone %q: %w", opts.Name, ErrDegeneratePolygon)
	}

	z := &PolygonZone{
		points: flat,
		area:   math.Abs(geom.SignedArea(flat)),
	}
	z.init(opts)
	z.bounds = bounds
	z.boundingRadius = bounds.HalfDiagonal()

	if opts.NoGrid {
		return z, nil
	}

	divisions := opts.GridDivisions
	if divisions == 0 {
		divisions = grid.DefaultDivisions
	}
	eager := opts.EagerGrid || opts.DebugGrid

	g, err := grid.New(flat, bounds, divisions, !eager)
	if err != nil {
		return nil, fmt.Errorf("zone %q: %w", opts.Name, err)
	}
	z.grid = g

	if eager {
		ctx, cancel := context.WithCancel(context.Background())
		z.cancelBuild = cancel
		go z.buildGrid(ctx, opts.scheduler(), opts.BuildLimit)
	}

	return z, nil
}

func (z *PolygonZone) buildGrid(ctx context.Context, sched Scheduler, limit *semaphore.Weighted) {
	if limit != nil {
		if err := limit.Acquire(ctx, 1); err != nil {
			slog.Debug("zone grid build stopped", "zone", z.name)
			return
		}
		defer limit.Release(1)
	}

	err := z.grid.Build(ctx, func(ctx context.Context) error {
		return sched.Sleep(ctx, 0)
	})

	switch {
	case err == nil:
		slog.Debug("zone grid built", "zone", z.name, "coverage", z.grid.Coverage())
	case errors.Is(err, context.Canceled):
		slog.Debug("zone grid build stopped", "zone", z.name)
	default:
		slog.Warn("zone grid build failed", "zone", z.name, "err", err)
	}
}

// IsPointInside checks bounding box, then height, then the grid fast-accept,
// and finally the exact winding-number test.
func (z *PolygonZone) IsPointInside(point mgl64.Vec3) bool {
	if !z.alive("IsPointInside") {
		return false
	}

	p := geom.Flat(point)
	if !z.bounds.Contains(p) {
		return false
	}
	if !z.height.Contains(point[2]) {
		return false
	}
	if z.grid != nil && z.grid.Lookup(p) == grid.DefinitelyInside {
		return true
	}

	return geom.WindingNumber(p, z.points)
}

// Destroy marks the zone destroyed and stops a running grid build.
func (z *PolygonZone) Destroy() {
	z.base.Destroy()
	if z.cancelBuild != nil {
		z.cancelBuild()
	}
}

// Points returns a copy of the footprint vertices.
func (z *PolygonZone) Points() []mgl64.Vec2 { return slices.Clone(z.points) }

// Area returns the magnitude of the shoelace area.
// Lobes of a self-intersecting outline with opposite winding cancel out.
func (z *PolygonZone) Area() float64 { return z.area }

// Grid returns the acceleration grid, or nil when disabled.
func (z *PolygonZone) Grid() *grid.Grid { return z.grid }

// GridCoverage returns the share of the area covered by fast-accept cells.
func (z *PolygonZone) GridCoverage() float64 {
	if z.grid == nil {
		return 0
	}
	return z.grid.Coverage()
}

// Center returns the center of the bounding box.
func (z *PolygonZone) Center() mgl64.Vec2 { return z.bounds.Center() }

// Draw renders walls, outline and, with DebugGrid, the fast-accept cells.
func (z *PolygonZone) Draw(r Renderer, viewer mgl64.Vec3) {
	if !z.alive("Draw") {
		return
	}

	minZ, maxZ := drawHeights(z.height, viewer)
	drawPrism(r, z.points, minZ, maxZ, z.colors)

	if z.debugGrid && z.grid != nil {
		z.drawGrid(r, minZ)
	}
}

func (z *PolygonZone) drawGrid(r Renderer, atZ float64) {
	c := withAlpha(z.colors.Grid, gridAlpha)
	z.grid.ForEachInside(func(x, y int) {
		b := z.grid.CellBounds(x, y)
		corners := [4]mgl64.Vec3{
			{b.Min[0], b.Min[1], atZ},
			{b.Max[0], b.Min[1], atZ},
			{b.Max[0], b.Max[1], atZ},
			{b.Min[0], b.Max[1], atZ},
		}
		for i := range corners {
			r.DrawLine(corners[i], corners[(i+1)%4], c)
		}
	})
}

func validateHeight(h geom.HeightBounds) error {
	if h.HasMin {
		if err := geom.ValidateScalar("minZ", h.Min); err != nil {
			return err
		}
	}
	if h.HasMax {
		if err := geom.ValidateScalar("maxZ", h.Max); err != nil {
			return err
		}
	}
	return nil
}
