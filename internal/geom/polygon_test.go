package geom

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unitSquare = []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

func TestSignedArea(t *testing.T) {
	tests := []struct {
		name string
		poly []mgl64.Vec2
		want float64
	}{
		{"empty", nil, 0},
		{"one vertex", []mgl64.Vec2{{1, 1}}, 0},
		{"two vertices", []mgl64.Vec2{{0, 0}, {5, 5}}, 0},
		{"unit square ccw", unitSquare, 1},
		{"unit square cw", []mgl64.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}, -1},
		{"triangle", []mgl64.Vec2{{0, 0}, {4, 0}, {0, 3}}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SignedArea(tt.poly), 1e-12)
		})
	}
}

func TestSignedAreaMagnitudeIgnoresWinding(t *testing.T) {
	reversed := []mgl64.Vec2{unitSquare[3], unitSquare[2], unitSquare[1], unitSquare[0]}
	assert.InDelta(t, 1.0, math.Abs(SignedArea(unitSquare)), 1e-12)
	assert.InDelta(t, 1.0, math.Abs(SignedArea(reversed)), 1e-12)
}

func TestIsLeft(t *testing.T) {
	p0 := mgl64.Vec2{0, 0}
	p1 := mgl64.Vec2{10, 0}

	assert.Greater(t, IsLeft(p0, p1, mgl64.Vec2{5, 1}), 0.0, "above the x axis is left")
	assert.Less(t, IsLeft(p0, p1, mgl64.Vec2{5, -1}), 0.0, "below the x axis is right")
	assert.Equal(t, 0.0, IsLeft(p0, p1, mgl64.Vec2{20, 0}), "collinear")
}

func TestCollinear(t *testing.T) {
	tests := []struct {
		name string
		poly []mgl64.Vec2
		want bool
	}{
		{"diagonal", []mgl64.Vec2{{0, 0}, {1, 1}, {2, 2}}, true},
		{"coincident start", []mgl64.Vec2{{0, 0}, {0, 0}, {3, 0}, {5, 0}}, true},
		{"single point", []mgl64.Vec2{{1, 1}, {1, 1}, {1, 1}}, true},
		{"triangle", []mgl64.Vec2{{0, 0}, {1, 0}, {0, 1}}, false},
		{"bowtie", []mgl64.Vec2{{0, 0}, {10, 10}, {10, 0}, {0, 10}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collinear(tt.poly))
		})
	}
}

func TestWindingNumberSquare(t *testing.T) {
	square := []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name  string
		point mgl64.Vec2
		want  bool
	}{
		{"center", mgl64.Vec2{5, 5}, true},
		{"near closing edge", mgl64.Vec2{0.5, 5}, true},
		{"outside right", mgl64.Vec2{15, 5}, false},
		{"outside left", mgl64.Vec2{-1, 5}, false},
		{"outside above", mgl64.Vec2{5, 11}, false},
		{"outside below", mgl64.Vec2{5, -0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindingNumber(tt.point, square))
		})
	}
}

func TestWindingNumberConcave(t *testing.T) {
	// U shape opening upwards.
	u := []mgl64.Vec2{{0, 0}, {30, 0}, {30, 30}, {20, 30}, {20, 10}, {10, 10}, {10, 30}, {0, 30}}

	assert.True(t, WindingNumber(mgl64.Vec2{5, 20}, u), "left arm")
	assert.True(t, WindingNumber(mgl64.Vec2{25, 20}, u), "right arm")
	assert.True(t, WindingNumber(mgl64.Vec2{15, 5}, u), "base")
	assert.False(t, WindingNumber(mgl64.Vec2{15, 20}, u), "notch")
}

func TestWindingNumberDegenerate(t *testing.T) {
	assert.False(t, WindingNumber(mgl64.Vec2{0, 0}, nil))
	assert.False(t, WindingNumber(mgl64.Vec2{0, 0}, []mgl64.Vec2{{-1, -1}, {1, 1}}))
}

func TestWindingNumberMatchesRayCasting(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := range 5 {
		poly := randomConvexPolygon(rng, 3+round*3, 50)
		ring := toRing(poly)
		b := BoundsOf(poly)
		center := b.Center()

		for range 10_000 {
			p := mgl64.Vec2{
				center[0] + (rng.Float64()*2-1)*b.Size[0],
				center[1] + (rng.Float64()*2-1)*b.Size[1],
			}
			want := planar.RingContains(ring, orb.Point{p[0], p[1]})
			require.Equal(t, want, WindingNumber(p, poly), "round %d point %v", round, p)
		}
	}
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d mgl64.Vec2
		want       bool
	}{
		{"crossing", mgl64.Vec2{0, 0}, mgl64.Vec2{10, 10}, mgl64.Vec2{0, 10}, mgl64.Vec2{10, 0}, true},
		{"disjoint", mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, mgl64.Vec2{5, 0}, mgl64.Vec2{6, 1}, false},
		{"touching endpoint", mgl64.Vec2{0, 0}, mgl64.Vec2{5, 0}, mgl64.Vec2{5, 0}, mgl64.Vec2{5, 5}, true},
		{"T junction", mgl64.Vec2{0, 0}, mgl64.Vec2{10, 0}, mgl64.Vec2{5, 0}, mgl64.Vec2{5, 5}, true},
		{"would cross if extended", mgl64.Vec2{0, 0}, mgl64.Vec2{4, 4}, mgl64.Vec2{0, 10}, mgl64.Vec2{10, 0}, false},
		{"collinear overlapping", mgl64.Vec2{0, 0}, mgl64.Vec2{10, 0}, mgl64.Vec2{5, 0}, mgl64.Vec2{15, 0}, true},
		{"parallel apart", mgl64.Vec2{0, 0}, mgl64.Vec2{10, 0}, mgl64.Vec2{0, 1}, mgl64.Vec2{10, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentsIntersect(tt.a, tt.b, tt.c, tt.d))
		})
	}
}

// randomConvexPolygon places n points on a circle at sorted random angles.
func randomConvexPolygon(rng *rand.Rand, n int, radius float64) []mgl64.Vec2 {
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	sort.Float64s(angles)

	poly := make([]mgl64.Vec2, n)
	for i, a := range angles {
		poly[i] = mgl64.Vec2{radius * math.Cos(a), radius * math.Sin(a)}
	}
	return poly
}

func toRing(poly []mgl64.Vec2) orb.Ring {
	ring := make(orb.Ring, 0, len(poly)+1)
	for _, p := range poly {
		ring = append(ring, orb.Point{p[0], p[1]})
	}
	return append(ring, ring[0])
}
