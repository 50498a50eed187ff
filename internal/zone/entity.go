package zone

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/geom"
)

// entityForwardCorrection aligns the entity heading with the box's Y (length) axis.
const entityForwardCorrection = 90.0

// EntityZone is a box attached to a moving entity. Its placement is derived
// from the entity on every query and never stored.
type EntityZone struct {
	box *BoxZone

	entity Entity
	useZ   bool
	dimMin mgl64.Vec3
	dimMax mgl64.Vec3
}

// NewEntityZone sizes a box from the entity's local bounding box.
// Fails with ErrEntityNotFound when the entity does not exist.
func NewEntityZone(e Entity, opts BoxOptions) (*EntityZone, error) {
	if e == nil || !e.Exists() {
		return nil, fmt.Errorf("entity zone %q: %w", opts.Name, ErrEntityNotFound)
	}

	dimMin, dimMax := e.Dimensions()
	length := dimMax[1] - dimMin[1]
	width := dimMax[0] - dimMin[0]

	box, err := NewBoxZone(e.Position(), length, width, opts)
	if err != nil {
		return nil, fmt.Errorf("entity zone %q: %w", opts.Name, err)
	}

	return &EntityZone{
		box:    box,
		entity: e,
		useZ:   opts.UseZ,
		dimMin: dimMin,
		dimMax: dimMax,
	}, nil
}

// Name returns the zone name.
func (z *EntityZone) Name() string { return z.box.Name() }

// Box returns the box in its construction placement.
func (z *EntityZone) Box() *BoxZone { return z.box }

// BoundingRadius returns half of the box diagonal.
func (z *EntityZone) BoundingRadius() float64 { return z.box.BoundingRadius() }

// DebugEnabled reports whether the zone asked for debug drawing.
func (z *EntityZone) DebugEnabled() bool { return z.box.DebugEnabled() }

// Paused reports whether watch loops should skip this zone.
func (z *EntityZone) Paused() bool { return z.box.Paused() }

// SetPaused pauses or resumes watch callbacks.
func (z *EntityZone) SetPaused(paused bool) { z.box.SetPaused(paused) }

// Destroy marks the zone destroyed.
func (z *EntityZone) Destroy() { z.box.Destroy() }

// Destroyed reports whether Destroy was called.
func (z *EntityZone) Destroyed() bool { return z.box.Destroyed() }

// Data returns the caller-owned payload.
func (z *EntityZone) Data() any { return z.box.Data() }

// Entity returns the followed entity.
func (z *EntityZone) Entity() Entity { return z.entity }

// Dimensions returns the entity's local bounding box captured at construction.
func (z *EntityZone) Dimensions() (min, max mgl64.Vec3) { return z.dimMin, z.dimMax }

// deriveTransform places the box at the entity's current position and heading.
// The placement is read once so a concurrent move cannot tear the transform.
func (z *EntityZone) deriveTransform() boxTransform {
	pos, heading := entityPlacement(z.entity)
	tr := boxTransform{
		offset:   geom.Flat(pos).Sub(z.box.startPos),
		rotation: heading - entityForwardCorrection,
		height:   z.box.height,
	}

	if z.useZ {
		world := entityWorldTransform(z.entity, pos, heading)
		minZ, maxZ := entityHeightRange(world, z.dimMin, z.dimMax)
		tr.height = z.box.scale.applyHeight(geom.Height(minZ, maxZ))
	}

	return tr
}

func entityPlacement(e Entity) (mgl64.Vec3, float64) {
	if p, ok := e.(Placer); ok {
		return p.Placement()
	}
	return e.Position(), e.Heading()
}

// entityHeightRange returns min/max Z of the entity's bounding box corners in world space.
func entityHeightRange(world mgl64.Mat4, dimMin, dimMax mgl64.Vec3) (minZ, maxZ float64) {
	minZ, maxZ = math.Inf(1), math.Inf(-1)
	for i := range 8 {
		corner := mgl64.Vec3{dimMin[0], dimMin[1], dimMin[2]}
		if i&1 != 0 {
			corner[0] = dimMax[0]
		}
		if i&2 != 0 {
			corner[1] = dimMax[1]
		}
		if i&4 != 0 {
			corner[2] = dimMax[2]
		}

		w := mgl64.TransformCoordinate(corner, world)
		minZ = math.Min(minZ, w[2])
		maxZ = math.Max(maxZ, w[2])
	}

	return minZ, maxZ
}

func entityWorldTransform(e Entity, pos mgl64.Vec3, heading float64) mgl64.Mat4 {
	if t, ok := e.(WorldTransformer); ok {
		return t.WorldTransform()
	}
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(heading)))
}

// IsPointInside tests the point against the box at the entity's current placement.
// Returns false once the entity no longer exists.
func (z *EntityZone) IsPointInside(point mgl64.Vec3) bool {
	if !z.box.alive("IsPointInside") {
		return false
	}
	if !z.entity.Exists() {
		return false
	}
	return z.box.containsWith(point, z.deriveTransform())
}

// Bounds returns the footprint at the entity's current placement.
func (z *EntityZone) Bounds() geom.Bounds {
	if !z.entity.Exists() {
		return z.box.bounds
	}
	return geom.BoundsOf(z.box.cornersWith(z.deriveTransform()))
}

// HeightBounds returns the height range at the entity's current placement.
func (z *EntityZone) HeightBounds() geom.HeightBounds {
	if !z.entity.Exists() {
		return z.box.height
	}
	return z.deriveTransform().height
}

// Corners returns the world-space corners at the entity's current placement.
func (z *EntityZone) Corners() []mgl64.Vec2 {
	return z.box.cornersWith(z.deriveTransform())
}

// Draw renders the box at the entity's current placement.
func (z *EntityZone) Draw(r Renderer, viewer mgl64.Vec3) {
	if !z.box.alive("Draw") || !z.entity.Exists() {
		return
	}
	z.box.drawWith(r, viewer, z.deriveTransform())
}
