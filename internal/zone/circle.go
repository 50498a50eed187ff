package zone

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/geom"
)

// cylinderDrawHeight is the marker height of a flat circle.
const cylinderDrawHeight = 400.0

// CircleZone is a vertical cylinder of infinite height, or a sphere when UseZ is set.
type CircleZone struct {
	base

	mu       sync.RWMutex
	center   mgl64.Vec3
	radius   float64
	diameter float64
	useZ     bool
	color    color.RGBA
}

// NewCircleZone creates a circle (or sphere with opts.UseZ) around center.
// Height bounds in opts are not used: a circle is unbounded vertically.
func NewCircleZone(center mgl64.Vec3, radius float64, opts Options) (*CircleZone, error) {
	if err := validateCircle(center, radius); err != nil {
		return nil, fmt.Errorf("circle zone %q: %w", opts.Name, err)
	}

	z := &CircleZone{
		center:   center,
		radius:   radius,
		diameter: radius * 2,
		useZ:     opts.UseZ,
		color:    opts.colors().Walls,
	}
	z.init(opts)
	z.height = geom.HeightBounds{}

	return z, nil
}

func validateCircle(center mgl64.Vec3, radius float64) error {
	if err := geom.Validate(geom.Flat(center)); err != nil {
		return err
	}
	if err := geom.ValidateScalar("center z", center[2]); err != nil {
		return err
	}
	if err := geom.ValidateScalar("radius", radius); err != nil {
		return err
	}
	if radius <= 0 {
		return fmt.Errorf("radius %v: %w", radius, ErrInvalidRadius)
	}
	return nil
}

// IsPointInside compares the 3D distance with UseZ, the flat distance otherwise.
// A point exactly on the radius is inside.
func (z *CircleZone) IsPointInside(point mgl64.Vec3) bool {
	if !z.alive("IsPointInside") {
		return false
	}

	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.useZ {
		return point.Sub(z.center).Len() <= z.radius
	}
	return geom.Flat(point).Sub(geom.Flat(z.center)).Len() <= z.radius
}

// Bounds returns the square around the circle.
func (z *CircleZone) Bounds() geom.Bounds {
	z.mu.RLock()
	defer z.mu.RUnlock()

	c := geom.Flat(z.center)
	r := mgl64.Vec2{z.radius, z.radius}
	return geom.NewBounds(c.Sub(r), c.Add(r))
}

// HeightBounds is unbounded for a cylinder and the sphere extent with UseZ.
func (z *CircleZone) HeightBounds() geom.HeightBounds {
	if !z.useZ {
		return geom.HeightBounds{}
	}

	z.mu.RLock()
	defer z.mu.RUnlock()
	return geom.Height(z.center[2]-z.radius, z.center[2]+z.radius)
}

// BoundingRadius returns half of the bounding square diagonal.
func (z *CircleZone) BoundingRadius() float64 {
	return z.Bounds().HalfDiagonal()
}

// Center returns the circle center.
func (z *CircleZone) Center() mgl64.Vec3 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.center
}

// Radius returns the circle radius.
func (z *CircleZone) Radius() float64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.radius
}

// Diameter returns twice the radius.
func (z *CircleZone) Diameter() float64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.diameter
}

// UseZ reports whether the zone is a sphere.
func (z *CircleZone) UseZ() bool { return z.useZ }

// SetRadius changes the radius. Setting the current value is a no-op.
func (z *CircleZone) SetRadius(radius float64) error {
	if err := validateCircle(z.Center(), radius); err != nil {
		return fmt.Errorf("circle zone %q: %w", z.name, err)
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	if z.radius == radius {
		return nil
	}
	z.radius = radius
	z.diameter = radius * 2
	return nil
}

// SetCenter moves the circle. Setting the current value is a no-op.
func (z *CircleZone) SetCenter(center mgl64.Vec3) error {
	if err := validateCircle(center, z.Radius()); err != nil {
		return fmt.Errorf("circle zone %q: %w", z.name, err)
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	if z.center == center {
		return nil
	}
	z.center = center
	return nil
}

// Draw emits a sphere marker with UseZ, a vertical cylinder otherwise.
func (z *CircleZone) Draw(r Renderer, _ mgl64.Vec3) {
	if !z.alive("Draw") {
		return
	}

	z.mu.RLock()
	center, radius, diameter := z.center, z.radius, z.diameter
	z.mu.RUnlock()

	if z.useZ {
		r.DrawMarker(Marker{
			Shape:  MarkerSphere,
			Center: center,
			Scale:  mgl64.Vec3{radius, radius, radius},
			Color:  withAlpha(z.color, 84),
		})
		return
	}

	r.DrawMarker(Marker{
		Shape:  MarkerCylinder,
		Center: mgl64.Vec3{center[0], center[1], 0},
		Scale:  mgl64.Vec3{diameter, diameter, cylinderDrawHeight},
		Color:  withAlpha(z.color, 50),
	})
}
