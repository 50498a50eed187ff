// Package zone implements world zones with geometric bounds, grid
// acceleration and enter/exit tracking: polygon, oriented box, circle,
// entity-attached box and combo (union) zones.
package zone

import (
	"errors"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/semaphore"

	"github.com/udisondev/polyzone/internal/geom"
)

// Construction errors.
var (
	ErrTooFewPoints      = errors.New("polygon zone needs at least 3 points")
	ErrDegeneratePolygon = errors.New("polygon vertices are collinear")
	ErrInvalidDimensions = errors.New("box dimensions must be positive")
	ErrInvalidScale      = errors.New("scale must have 3 or 6 values")
	ErrInvalidOffset     = errors.New("offset must have 3 or 6 values")
	ErrInvalidRadius     = errors.New("radius must be positive")
	ErrEntityNotFound    = errors.New("entity does not exist")
	ErrNilZone           = errors.New("zone is nil")
)

// Zone is a region of space that answers containment queries.
// Implementations: *PolygonZone, *BoxZone, *CircleZone, *EntityZone, *ComboZone.
type Zone interface {
	Name() string
	// IsPointInside reports whether point lies inside the zone.
	// A destroyed zone always answers false.
	IsPointInside(point mgl64.Vec3) bool
	// Bounds is the current world-space axis-aligned footprint.
	Bounds() geom.Bounds
	HeightBounds() geom.HeightBounds
	// BoundingRadius is half of the bounding box diagonal.
	BoundingRadius() float64
	// Draw emits debug geometry. viewer anchors unbounded heights.
	Draw(r Renderer, viewer mgl64.Vec3)
	DebugEnabled() bool

	Paused() bool
	SetPaused(paused bool)
	// Destroy is terminal.
	Destroy()
	Destroyed() bool

	// Data returns the caller-owned payload.
	Data() any
}

// Entity is a live object in the host world that an EntityZone follows.
type Entity interface {
	Exists() bool
	Position() mgl64.Vec3
	// Heading in degrees.
	Heading() float64
	// Dimensions returns the local-frame bounding box corners.
	Dimensions() (min, max mgl64.Vec3)
}

// Placer is implemented by entities that can report position and heading atomically.
// Without it Position and Heading are read separately.
type Placer interface {
	Placement() (pos mgl64.Vec3, heading float64)
}

// WorldTransformer is implemented by entities that expose their full model matrix.
// Without it the transform is built from Position and Heading.
type WorldTransformer interface {
	WorldTransform() mgl64.Mat4
}

// DebugColors holds colors used by Draw.
type DebugColors struct {
	Walls   color.RGBA
	Outline color.RGBA
	Grid    color.RGBA
}

// DefaultDebugColors returns green walls, red outline and black grid.
func DefaultDebugColors() DebugColors {
	return DebugColors{
		Walls:   color.RGBA{R: 0, G: 255, B: 0, A: 255},
		Outline: color.RGBA{R: 255, G: 0, B: 0, A: 255},
		Grid:    color.RGBA{R: 0, G: 0, B: 0, A: 255},
	}
}

// Options are shared by all zone constructors. The zero value is usable.
type Options struct {
	Name   string
	Height geom.HeightBounds

	// GridDivisions defaults to grid.DefaultDivisions.
	GridDivisions int
	// NoGrid disables the grid for polygon zones.
	NoGrid bool
	// EagerGrid builds the whole grid in the background right after construction.
	// DebugGrid implies EagerGrid.
	EagerGrid bool

	// UseZ makes CircleZone spherical and EntityZone follow the entity's height.
	UseZ bool

	DebugPoly   bool
	DebugGrid   bool
	DebugColors *DebugColors

	Data any

	// Scheduler drives cooperative yields of an eager grid build. Defaults to DefaultScheduler.
	Scheduler Scheduler
	// BuildLimit, when set, is acquired for the duration of an eager grid build.
	BuildLimit *semaphore.Weighted
}

func (o Options) colors() DebugColors {
	if o.DebugColors != nil {
		return *o.DebugColors
	}
	return DefaultDebugColors()
}

func (o Options) scheduler() Scheduler {
	if o.Scheduler != nil {
		return o.Scheduler
	}
	return DefaultScheduler
}
