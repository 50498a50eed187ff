package geom

import "github.com/go-gl/mathgl/mgl64"

// Rotate rotates p about origin by degrees (counter-clockwise).
// A zero angle returns p unchanged without touching trig functions.
func Rotate(origin, p mgl64.Vec2, degrees float64) mgl64.Vec2 {
	if degrees == 0 {
		return p
	}

	rot := mgl64.Rotate2D(mgl64.DegToRad(degrees))
	return rot.Mul2x1(p.Sub(origin)).Add(origin)
}
