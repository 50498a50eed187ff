package zone

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCandidates(t *testing.T) {
	ix := NewIndex()

	a, err := NewPolygonZone(square(0, 10), Options{Name: "a"})
	require.NoError(t, err)
	b, err := NewBoxZone(mgl64.Vec3{100, 100, 0}, 10, 10, BoxOptions{Options: Options{Name: "b"}})
	require.NoError(t, err)
	c, err := NewCircleZone(mgl64.Vec3{500, 500, 0}, 1, Options{Name: "c"})
	require.NoError(t, err)

	ix.Insert(c)
	ix.Insert(a)
	ix.Insert(b)
	ix.Insert(a)
	assert.Equal(t, 3, ix.Len())

	// moving zones are always candidates
	assert.Equal(t, []Zone{c, a}, ix.Candidates(mgl64.Vec2{5, 5}))
	assert.Equal(t, []Zone{c, b}, ix.Candidates(mgl64.Vec2{100, 100}))
	assert.Equal(t, []Zone{c}, ix.Candidates(mgl64.Vec2{-50, 0}))
	assert.Equal(t, []Zone{c, a}, ix.Candidates(mgl64.Vec2{10, 10}), "bounds edges are candidates")

	assert.True(t, ix.Remove(a))
	assert.False(t, ix.Remove(a))
	assert.True(t, ix.Remove(c))
	assert.Empty(t, ix.Candidates(mgl64.Vec2{5, 5}))
	assert.Equal(t, 1, ix.Len())
}

func TestManagerAddGetRemove(t *testing.T) {
	m := NewManager()

	town, err := NewPolygonZone(square(0, 100), Options{Name: "town"})
	require.NoError(t, err)
	require.NoError(t, m.Add(town))

	dup, err := NewPolygonZone(square(0, 1), Options{Name: "town"})
	require.NoError(t, err)
	require.ErrorIs(t, m.Add(dup), ErrDuplicateZone)

	unnamed, err := NewPolygonZone(square(0, 1), Options{})
	require.NoError(t, err)
	require.ErrorIs(t, m.Add(unnamed), ErrUnnamedZone)
	require.ErrorIs(t, m.Add(nil), ErrNilZone)

	got, ok := m.Get("town")
	require.True(t, ok)
	assert.Same(t, town, got)
	assert.Equal(t, 1, m.Len())

	removed, ok := m.Remove("town")
	require.True(t, ok)
	assert.Same(t, town, removed)
	assert.False(t, town.Destroyed())
	assert.Zero(t, m.Len())

	_, ok = m.Get("town")
	assert.False(t, ok)
	_, ok = m.Remove("town")
	assert.False(t, ok)
}

func TestManagerZonesAt(t *testing.T) {
	m := NewManager()

	outer, err := NewPolygonZone(square(0, 100), Options{Name: "outer"})
	require.NoError(t, err)
	inner, err := NewBoxZone(mgl64.Vec3{50, 50, 0}, 10, 10, BoxOptions{Options: Options{Name: "inner"}})
	require.NoError(t, err)
	far, err := NewCircleZone(mgl64.Vec3{1000, 1000, 0}, 5, Options{Name: "far"})
	require.NoError(t, err)

	for _, z := range []Zone{outer, inner, far} {
		require.NoError(t, m.Add(z))
	}

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  []Zone
	}{
		{"nested", mgl64.Vec3{50, 50, 0}, []Zone{outer, inner}},
		{"outer only", mgl64.Vec3{10, 10, 0}, []Zone{outer}},
		{"far circle", mgl64.Vec3{1001, 1001, 0}, []Zone{far}},
		{"nowhere", mgl64.Vec3{500, 500, 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ZonesAt(tt.point))
		})
	}

	assert.Equal(t, []Zone{outer, inner, far}, m.Zones())
}

func TestManagerDestroyAll(t *testing.T) {
	m := NewManager()

	a, err := NewPolygonZone(square(0, 10), Options{Name: "a"})
	require.NoError(t, err)
	b, err := NewCircleZone(mgl64.Vec3{}, 1, Options{Name: "b"})
	require.NoError(t, err)
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(b))

	m.DestroyAll()

	assert.Zero(t, m.Len())
	assert.True(t, a.Destroyed())
	assert.True(t, b.Destroyed())
	assert.Empty(t, m.ZonesAt(mgl64.Vec3{5, 5, 0}))
}
