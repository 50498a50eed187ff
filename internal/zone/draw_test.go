package zone

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/polyzone/internal/geom"
)

func TestDrawUnboundedHeightFollowsViewer(t *testing.T) {
	z, err := NewPolygonZone(square(0, 10), Options{Name: "open", DebugPoly: true})
	require.NoError(t, err)

	r := &drawRecorder{}
	z.Draw(r, mgl64.Vec3{0, 0, 100})

	require.NotEmpty(t, r.quads)
	for _, q := range r.quads {
		assert.Equal(t, 55.0, q.corners[0][2])
		assert.Equal(t, 145.0, q.corners[1][2])
		assert.Equal(t, uint8(48), q.c.A)
	}
}

func TestDrawHalfBoundedHeight(t *testing.T) {
	minZ, maxZ := drawHeights(geom.HeightBounds{Min: 3, HasMin: true}, mgl64.Vec3{0, 0, 10})
	assert.Equal(t, 3.0, minZ)
	assert.Equal(t, 55.0, maxZ)

	minZ, maxZ = drawHeights(geom.HeightBounds{Max: 0, HasMax: true}, mgl64.Vec3{0, 0, 10})
	assert.Equal(t, -35.0, minZ)
	assert.Equal(t, 0.0, maxZ)
}

func TestDrawGridCells(t *testing.T) {
	z, err := NewPolygonZone(square(0, 40), Options{Name: "grid", DebugGrid: true, GridDivisions: 4})
	require.NoError(t, err)
	t.Cleanup(z.Destroy)

	select {
	case <-z.Grid().Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("eager grid was not built")
	}

	r := &drawRecorder{}
	z.Draw(r, mgl64.Vec3{})

	// 8 outline lines plus 4 per inside cell
	var inside int
	z.Grid().ForEachInside(func(int, int) { inside++ })
	require.Positive(t, inside)

	lines, _, _ := r.counts()
	assert.Equal(t, 8+4*inside, lines)
}

func TestRunDebugDraw(t *testing.T) {
	z, err := NewCircleZone(mgl64.Vec3{}, 2, Options{Name: "dbg", DebugPoly: true})
	require.NoError(t, err)

	r := &drawRecorder{}
	sched := &hookScheduler{fn: func(n int) {
		if n == 3 {
			z.Destroy()
		}
	}}

	err = RunDebugDraw(context.Background(), z, r, func() mgl64.Vec3 { return mgl64.Vec3{} }, sched, time.Second)
	require.NoError(t, err)

	_, _, markers := r.counts()
	assert.Equal(t, 3, markers)
}

func TestRunDebugDrawStopsOnContext(t *testing.T) {
	z, err := NewCircleZone(mgl64.Vec3{}, 2, Options{Name: "dbg"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = RunDebugDraw(ctx, z, &drawRecorder{}, func() mgl64.Vec3 { return mgl64.Vec3{} }, nil, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMarkerShapeString(t *testing.T) {
	assert.Equal(t, "sphere", MarkerSphere.String())
	assert.Equal(t, "cylinder", MarkerCylinder.String())
	assert.Equal(t, "unknown", MarkerShape(9).String())
}
