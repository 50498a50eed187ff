// Package debugdraw renders zone debug primitives into the structured log.
package debugdraw

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/zone"
)

// LogRenderer writes every primitive as a log record at the configured level.
type LogRenderer struct {
	logger *slog.Logger
	level  slog.Level

	lines   atomic.Int64
	quads   atomic.Int64
	markers atomic.Int64
}

var _ zone.Renderer = (*LogRenderer)(nil)

// NewLogRenderer creates a renderer. nil logger means slog.Default().
func NewLogRenderer(logger *slog.Logger, level slog.Level) *LogRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRenderer{logger: logger, level: level}
}

func (r *LogRenderer) log(msg string, attrs ...slog.Attr) {
	r.logger.LogAttrs(context.Background(), r.level, msg, attrs...)
}

// DrawLine logs a line segment.
func (r *LogRenderer) DrawLine(from, to mgl64.Vec3, c color.RGBA) {
	r.lines.Add(1)
	r.log("draw line",
		slog.String("from", formatVec(from)),
		slog.String("to", formatVec(to)),
		slog.String("color", formatColor(c)))
}

// DrawQuad logs a quad.
func (r *LogRenderer) DrawQuad(corners [4]mgl64.Vec3, c color.RGBA) {
	r.quads.Add(1)
	r.log("draw quad",
		slog.String("a", formatVec(corners[0])),
		slog.String("b", formatVec(corners[1])),
		slog.String("c", formatVec(corners[2])),
		slog.String("d", formatVec(corners[3])),
		slog.String("color", formatColor(c)))
}

// DrawMarker logs a marker.
func (r *LogRenderer) DrawMarker(m zone.Marker) {
	r.markers.Add(1)
	r.log("draw marker",
		slog.String("shape", m.Shape.String()),
		slog.String("center", formatVec(m.Center)),
		slog.String("rotation", formatVec(m.Rotation)),
		slog.String("scale", formatVec(m.Scale)),
		slog.String("color", formatColor(m.Color)))
}

// Stats returns how many primitives were drawn.
func (r *LogRenderer) Stats() (lines, quads, markers int64) {
	return r.lines.Load(), r.quads.Load(), r.markers.Load()
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}

func formatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
