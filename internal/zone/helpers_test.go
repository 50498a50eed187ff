package zone

import (
	"bytes"
	"context"
	"image/color"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeEntity struct {
	mu      sync.Mutex
	exists  bool
	pos     mgl64.Vec3
	heading float64
	dimMin  mgl64.Vec3
	dimMax  mgl64.Vec3
}

func newFakeEntity(pos mgl64.Vec3, heading float64) *fakeEntity {
	return &fakeEntity{
		exists:  true,
		pos:     pos,
		heading: heading,
		dimMin:  mgl64.Vec3{-1, -2, 0},
		dimMax:  mgl64.Vec3{1, 2, 3},
	}
}

func (e *fakeEntity) Exists() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exists
}

func (e *fakeEntity) Position() mgl64.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos
}

func (e *fakeEntity) Heading() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.heading
}

func (e *fakeEntity) Dimensions() (mgl64.Vec3, mgl64.Vec3) {
	return e.dimMin, e.dimMax
}

func (e *fakeEntity) place(pos mgl64.Vec3, heading float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos, e.heading = pos, heading
}

func (e *fakeEntity) despawn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exists = false
}

type line struct {
	from, to mgl64.Vec3
	c        color.RGBA
}

type quad struct {
	corners [4]mgl64.Vec3
	c       color.RGBA
}

// drawRecorder is a Renderer that keeps every primitive.
type drawRecorder struct {
	mu      sync.Mutex
	lines   []line
	quads   []quad
	markers []Marker
}

func (r *drawRecorder) DrawLine(from, to mgl64.Vec3, c color.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line{from, to, c})
}

func (r *drawRecorder) DrawQuad(corners [4]mgl64.Vec3, c color.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quads = append(r.quads, quad{corners, c})
}

func (r *drawRecorder) DrawMarker(m Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = append(r.markers, m)
}

func (r *drawRecorder) counts() (lines, quads, markers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines), len(r.quads), len(r.markers)
}

// countingScheduler yields without waiting and counts calls.
type countingScheduler struct {
	mu     sync.Mutex
	sleeps int
}

func (s *countingScheduler) Sleep(ctx context.Context, _ time.Duration) error {
	s.mu.Lock()
	s.sleeps++
	s.mu.Unlock()
	return ctx.Err()
}

// captureLogs redirects the default slog logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func square(minXY, maxXY float64) []mgl64.Vec3 {
	return []mgl64.Vec3{
		{minXY, minXY, 0},
		{maxXY, minXY, 0},
		{maxXY, maxXY, 0},
		{minXY, maxXY, 0},
	}
}
