package geom

import "github.com/go-gl/mathgl/mgl64"

// SignedArea returns the shoelace area of the closed polygon.
// The magnitude is the area; the sign is positive for counter-clockwise winding.
// Fewer than three vertices yield 0.
func SignedArea(poly []mgl64.Vec2) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}

	var sum float64
	for i := range n {
		a := poly[i]
		b := poly[(i+1)%n]
		sum += a[0]*b[1] - b[0]*a[1]
	}

	return sum / 2
}

// IsLeft returns the cross product of (p1-p0) and (p2-p0).
// Positive means p2 lies strictly left of the directed line p0->p1,
// negative means right, zero means collinear.
func IsLeft(p0, p1, p2 mgl64.Vec2) float64 {
	return (p1[0]-p0[0])*(p2[1]-p0[1]) - (p2[0]-p0[0])*(p1[1]-p0[1])
}

// Collinear reports whether every vertex lies on one line.
// Coincident vertices count as collinear.
func Collinear(poly []mgl64.Vec2) bool {
	if len(poly) < 3 {
		return true
	}

	p0 := poly[0]
	var dir mgl64.Vec2
	found := false
	for _, p := range poly[1:] {
		if p != p0 {
			dir, found = p, true
			break
		}
	}
	if !found {
		return true
	}

	for _, p := range poly {
		if IsLeft(p0, dir, p) != 0 {
			return false
		}
	}
	return true
}

// WindingNumber reports whether point is enclosed by poly, using the
// non-zero winding rule. The last vertex is connected back to the first.
func WindingNumber(point mgl64.Vec2, poly []mgl64.Vec2) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	wn := 0
	for i := range n {
		wn = windingStep(poly[i], poly[(i+1)%n], point, wn)
	}

	return wn != 0
}

// windingStep учитывает пересечение ребра p0->p1 горизонтальным лучом из p.
func windingStep(p0, p1, p mgl64.Vec2, wn int) int {
	if p0[1] <= p[1] {
		if p1[1] > p[1] && IsLeft(p0, p1, p) > 0 {
			return wn + 1
		}
		return wn
	}

	if p1[1] <= p[1] && IsLeft(p0, p1, p) < 0 {
		return wn - 1
	}

	return wn
}

// SegmentsIntersect reports whether segment a-b intersects segment c-d.
// Parallel segments count as intersecting only when they are collinear.
func SegmentsIntersect(a, b, c, d mgl64.Vec2) bool {
	axcx := a[0] - c[0]
	aycy := a[1] - c[1]
	bxax := b[0] - a[0]
	byay := b[1] - a[1]
	dxcx := d[0] - c[0]
	dycy := d[1] - c[1]

	denominator := bxax*dycy - byay*dxcx
	numerator1 := aycy*dxcx - axcx*dycy
	numerator2 := aycy*bxax - axcx*byay

	if denominator == 0 {
		return numerator1 == 0 && numerator2 == 0
	}

	r := numerator1 / denominator
	s := numerator2 / denominator

	return r >= 0 && r <= 1 && s >= 0 && s <= 1
}
