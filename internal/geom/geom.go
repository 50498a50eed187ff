// Package geom implements the planar geometry used by zones: polygon area,
// winding-number containment, segment intersection, bounding boxes and
// height bounds. All functions are pure.
package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidGeometry is returned when a coordinate is NaN or infinite.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Bounds is an axis-aligned 2D bounding box.
// Invariant: Min.X <= Max.X, Min.Y <= Max.Y, Size == Max - Min.
type Bounds struct {
	Min  mgl64.Vec2
	Max  mgl64.Vec2
	Size mgl64.Vec2
}

// NewBounds builds Bounds from two corners in any order.
func NewBounds(a, b mgl64.Vec2) Bounds {
	lo := mgl64.Vec2{math.Min(a[0], b[0]), math.Min(a[1], b[1])}
	hi := mgl64.Vec2{math.Max(a[0], b[0]), math.Max(a[1], b[1])}
	return Bounds{Min: lo, Max: hi, Size: hi.Sub(lo)}
}

// BoundsOf returns the bounding box of points. Empty input yields zero Bounds.
func BoundsOf(points []mgl64.Vec2) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo[0] = math.Min(lo[0], p[0])
		lo[1] = math.Min(lo[1], p[1])
		hi[0] = math.Max(hi[0], p[0])
		hi[1] = math.Max(hi[1], p[1])
	}

	return Bounds{Min: lo, Max: hi, Size: hi.Sub(lo)}
}

// Contains reports whether p lies within the box, edges included.
func (b Bounds) Contains(p mgl64.Vec2) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] && p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

// Union returns the smallest box covering both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return NewBounds(
		mgl64.Vec2{math.Min(b.Min[0], o.Min[0]), math.Min(b.Min[1], o.Min[1])},
		mgl64.Vec2{math.Max(b.Max[0], o.Max[0]), math.Max(b.Max[1], o.Max[1])},
	)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl64.Vec2 {
	return b.Min.Add(b.Size.Mul(0.5))
}

// Area returns Size.X * Size.Y.
func (b Bounds) Area() float64 {
	return b.Size[0] * b.Size[1]
}

// HalfDiagonal is the bounding radius of the box: half of its diagonal length.
func (b Bounds) HalfDiagonal() float64 {
	return b.Size.Len() / 2
}

// HeightBounds is an optional vertical extent. A side that is not set is unbounded.
type HeightBounds struct {
	Min    float64
	Max    float64
	HasMin bool
	HasMax bool
}

// Height returns HeightBounds with both sides set.
func Height(minZ, maxZ float64) HeightBounds {
	return HeightBounds{Min: minZ, Max: maxZ, HasMin: true, HasMax: true}
}

// Contains reports whether z is within the set bounds.
func (h HeightBounds) Contains(z float64) bool {
	if h.HasMin && z < h.Min {
		return false
	}
	if h.HasMax && z > h.Max {
		return false
	}
	return true
}

// Bounded reports whether both sides are set.
func (h HeightBounds) Bounded() bool {
	return h.HasMin && h.HasMax
}

// Validate returns ErrInvalidGeometry if any coordinate is NaN or infinite.
func Validate(points ...mgl64.Vec2) error {
	for i, p := range points {
		if !finite(p[0]) || !finite(p[1]) {
			return fmt.Errorf("point %d (%v, %v): %w", i, p[0], p[1], ErrInvalidGeometry)
		}
	}
	return nil
}

// ValidateScalar returns ErrInvalidGeometry if v is NaN or infinite.
func ValidateScalar(name string, v float64) error {
	if !finite(v) {
		return fmt.Errorf("%s = %v: %w", name, v, ErrInvalidGeometry)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Flat drops the Z component.
func Flat(p mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{p[0], p[1]}
}

// FlatAll drops the Z component of every point.
func FlatAll(points []mgl64.Vec3) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(points))
	for i, p := range points {
		out[i] = Flat(p)
	}
	return out
}
