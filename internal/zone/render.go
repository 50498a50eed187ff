package zone

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// MarkerShape selects the primitive drawn by Renderer.DrawMarker.
type MarkerShape int

const (
	MarkerSphere MarkerShape = iota
	MarkerCylinder
)

func (s MarkerShape) String() string {
	switch s {
	case MarkerSphere:
		return "sphere"
	case MarkerCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// Marker is a shaped debug primitive.
type Marker struct {
	Shape    MarkerShape
	Center   mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
	Color    color.RGBA
}

// Renderer receives debug draw primitives. Implemented by the host.
type Renderer interface {
	DrawLine(from, to mgl64.Vec3, c color.RGBA)
	DrawQuad(corners [4]mgl64.Vec3, c color.RGBA)
	DrawMarker(m Marker)
}
