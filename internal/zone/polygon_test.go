package zone

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"

	"github.com/udisondev/polyzone/internal/geom"
)

func TestPolygonZoneContains(t *testing.T) {
	z, err := NewPolygonZone(square(0, 10), Options{Name: "square"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  bool
	}{
		{"center inside", mgl64.Vec3{5, 5, 0}, true},
		{"outside right (bbox reject)", mgl64.Vec3{15, 5, 0}, false},
		{"outside left", mgl64.Vec3{-1, 5, 0}, false},
		{"near corner inside", mgl64.Vec3{0.1, 9.9, 0}, true},
		{"any height when unbounded", mgl64.Vec3{5, 5, 1e6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, z.IsPointInside(tt.point), "IsPointInside(%v)", tt.point)
		})
	}
}

func TestPolygonZoneHeight(t *testing.T) {
	tests := []struct {
		name   string
		height geom.HeightBounds
		z      float64
		want   bool
	}{
		{"inside range", geom.Height(-10, 10), 0, true},
		{"at min", geom.Height(-10, 10), -10, true},
		{"below min", geom.Height(-10, 10), -10.5, false},
		{"above max", geom.Height(-10, 10), 11, false},
		{"only min set, high point", geom.HeightBounds{Min: 0, HasMin: true}, 500, true},
		{"only min set, low point", geom.HeightBounds{Min: 0, HasMin: true}, -1, false},
		{"zero max is a real bound", geom.HeightBounds{Max: 0, HasMax: true}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, err := NewPolygonZone(square(0, 10), Options{Name: "h", Height: tt.height})
			require.NoError(t, err)
			assert.Equal(t, tt.want, z.IsPointInside(mgl64.Vec3{5, 5, tt.z}))
		})
	}
}

func TestPolygonZoneConstructionErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []mgl64.Vec3
		height geom.HeightBounds
		want   error
	}{
		{"two points", []mgl64.Vec3{{0, 0, 0}, {1, 1, 0}}, geom.HeightBounds{}, ErrTooFewPoints},
		{"collinear", []mgl64.Vec3{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}}, geom.HeightBounds{}, ErrDegeneratePolygon},
		{"nan vertex", []mgl64.Vec3{{0, 0, 0}, {math.NaN(), 1, 0}, {2, 0, 0}}, geom.HeightBounds{}, geom.ErrInvalidGeometry},
		{"infinite height", square(0, 1), geom.HeightBounds{Max: math.Inf(1), HasMax: true}, geom.ErrInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, err := NewPolygonZone(tt.points, Options{Name: "bad", Height: tt.height})
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, z)
		})
	}
}

func TestPolygonZoneSelfIntersecting(t *testing.T) {
	// Bow-tie: lobes wind in opposite directions so the shoelace area cancels.
	bowtie := []mgl64.Vec3{{0, 0, 0}, {10, 10, 0}, {10, 0, 0}, {0, 10, 0}}

	z, err := NewPolygonZone(bowtie, Options{Name: "bowtie"})
	require.NoError(t, err)

	assert.InDelta(t, 0, z.Area(), 1e-9)
	assert.True(t, z.IsPointInside(mgl64.Vec3{8, 5, 0}), "right lobe")
	assert.True(t, z.IsPointInside(mgl64.Vec3{2, 5, 0}), "left lobe")
	assert.False(t, z.IsPointInside(mgl64.Vec3{5, 2, 0}), "below the crossing")
	assert.False(t, z.IsPointInside(mgl64.Vec3{5, 8, 0}), "above the crossing")
}

func TestPolygonZoneAccessors(t *testing.T) {
	z, err := NewPolygonZone(square(0, 10), Options{Name: "sq", Data: 42})
	require.NoError(t, err)

	assert.Equal(t, "sq", z.Name())
	assert.Equal(t, 42, z.Data())
	assert.InDelta(t, 100, z.Area(), 1e-9)
	assert.Equal(t, mgl64.Vec2{5, 5}, z.Center())
	assert.InDelta(t, math.Sqrt(200)/2, z.BoundingRadius(), 1e-9)
	assert.Equal(t, mgl64.Vec2{10, 10}, z.Bounds().Size)
	assert.Len(t, z.Points(), 4)
	assert.NotNil(t, z.Grid())
	assert.False(t, z.DebugEnabled())

	noGrid, err := NewPolygonZone(square(0, 10), Options{Name: "plain", NoGrid: true})
	require.NoError(t, err)
	assert.Nil(t, noGrid.Grid())
	assert.Zero(t, noGrid.GridCoverage())
	assert.True(t, noGrid.IsPointInside(mgl64.Vec3{5, 5, 0}))
}

func TestPolygonZonePauseKeepsQuerying(t *testing.T) {
	z, err := NewPolygonZone(square(0, 10), Options{Name: "p"})
	require.NoError(t, err)

	z.SetPaused(true)
	assert.True(t, z.Paused())
	assert.True(t, z.IsPointInside(mgl64.Vec3{5, 5, 0}))

	z.SetPaused(false)
	assert.False(t, z.Paused())
}

func TestPolygonZoneDestroyed(t *testing.T) {
	logs := captureLogs(t)

	z, err := NewPolygonZone(square(0, 10), Options{Name: "gone", EagerGrid: true})
	require.NoError(t, err)

	z.Destroy()
	assert.True(t, z.Destroyed())
	assert.False(t, z.IsPointInside(mgl64.Vec3{5, 5, 0}))
	assert.False(t, z.IsPointInside(mgl64.Vec3{5, 5, 0}))
	assert.Contains(t, logs.String(), "zone used after destroy")
	assert.Contains(t, logs.String(), "zone=gone")

	r := &drawRecorder{}
	z.Draw(r, mgl64.Vec3{})
	lines, quads, markers := r.counts()
	assert.Zero(t, lines+quads+markers)
}

func TestPolygonZoneLazyMatchesEager(t *testing.T) {
	// L-shaped footprint
	points := []mgl64.Vec3{{0, 0, 0}, {100, 0, 0}, {100, 40, 0}, {40, 40, 0}, {40, 100, 0}, {0, 100, 0}}

	lazy, err := NewPolygonZone(points, Options{Name: "lazy"})
	require.NoError(t, err)
	eager, err := NewPolygonZone(points, Options{Name: "eager", EagerGrid: true})
	require.NoError(t, err)
	t.Cleanup(eager.Destroy)

	select {
	case <-eager.Grid().Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("eager grid was not built")
	}
	assert.True(t, eager.Grid().Built())
	assert.Greater(t, eager.GridCoverage(), 0.0)
	assert.LessOrEqual(t, eager.GridCoverage(), 1.0)

	for x := -5.0; x <= 105; x += 2.5 {
		for y := -5.0; y <= 105; y += 2.5 {
			p := mgl64.Vec3{x, y, 0}
			first := lazy.IsPointInside(p)
			assert.Equal(t, first, lazy.IsPointInside(p), "lazy not idempotent at %v", p)
			assert.Equal(t, first, eager.IsPointInside(p), "lazy and eager differ at %v", p)
		}
	}
}

func TestPolygonZoneEagerBuildUsesScheduler(t *testing.T) {
	sched := &countingScheduler{}
	z, err := NewPolygonZone(square(0, 10), Options{Name: "sched", EagerGrid: true, GridDivisions: 8, Scheduler: sched})
	require.NoError(t, err)
	t.Cleanup(z.Destroy)

	select {
	case <-z.Grid().Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("eager grid was not built")
	}

	sched.mu.Lock()
	defer sched.mu.Unlock()
	assert.Equal(t, 8, sched.sleeps)
}

func TestPolygonZoneEagerBuildWaitsForLimit(t *testing.T) {
	limit := semaphore.NewWeighted(1)
	require.True(t, limit.TryAcquire(1))

	z, err := NewPolygonZone(square(0, 10), Options{Name: "limited", EagerGrid: true, BuildLimit: limit})
	require.NoError(t, err)
	t.Cleanup(z.Destroy)

	select {
	case <-z.Grid().Ready():
		t.Fatal("grid built while the limit was held")
	case <-time.After(50 * time.Millisecond):
	}
	assert.True(t, z.IsPointInside(mgl64.Vec3{5, 5, 0}), "queries work before the build")

	limit.Release(1)
	select {
	case <-z.Grid().Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("grid was not built after the limit was released")
	}
}
