package zone

import (
	"context"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/geom"
)

// drawHalfHeight is used for unbounded height sides, relative to the viewer.
const drawHalfHeight = 45.0

const (
	outlineAlpha    = 164
	outlineTopAlpha = 184
	wallAlpha       = 48
	gridAlpha       = 128
)

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// drawHeights resolves the vertical extent to draw.
func drawHeights(h geom.HeightBounds, viewer mgl64.Vec3) (minZ, maxZ float64) {
	minZ, maxZ = viewer[2]-drawHalfHeight, viewer[2]+drawHalfHeight
	if h.HasMin {
		minZ = h.Min
	}
	if h.HasMax {
		maxZ = h.Max
	}
	return minZ, maxZ
}

// drawPrism draws vertical edges, the top outline and walls of an extruded outline.
func drawPrism(r Renderer, outline []mgl64.Vec2, minZ, maxZ float64, colors DebugColors) {
	n := len(outline)
	for i, p := range outline {
		r.DrawLine(mgl64.Vec3{p[0], p[1], minZ}, mgl64.Vec3{p[0], p[1], maxZ}, withAlpha(colors.Outline, outlineAlpha))
		if n < 2 {
			continue
		}

		next := outline[(i+1)%n]
		r.DrawLine(mgl64.Vec3{p[0], p[1], maxZ}, mgl64.Vec3{next[0], next[1], maxZ}, withAlpha(colors.Outline, outlineTopAlpha))
		r.DrawQuad([4]mgl64.Vec3{
			{p[0], p[1], minZ},
			{p[0], p[1], maxZ},
			{next[0], next[1], maxZ},
			{next[0], next[1], minZ},
		}, withAlpha(colors.Walls, wallAlpha))
	}
}

// RunDebugDraw draws z every interval until z is destroyed or ctx ends.
func RunDebugDraw(ctx context.Context, z Zone, r Renderer, viewer PointFunc, sched Scheduler, interval time.Duration) error {
	if sched == nil {
		sched = DefaultScheduler
	}

	for {
		if z.Destroyed() {
			return nil
		}
		z.Draw(r, viewer())

		if err := sched.Sleep(ctx, interval); err != nil {
			return err
		}
	}
}
