package zone

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/geom"
)

// BoxOptions extend Options for BoxZone and EntityZone.
type BoxOptions struct {
	Options

	// Heading rotates the box counter-clockwise about its center, in degrees.
	Heading float64

	// Scale multiplies the half extents of each face. Either three values
	// [length, width, height] or six values [forward, back, left, right, up, down],
	// where forward is +Y, left is -X and up is +Z in the box frame. Empty means 1.
	Scale []float64
	// Offset pushes each face outwards in world units. Same layout as Scale. Empty means 0.
	Offset []float64
}

// boxScale holds per-face scale and offset; min is the negative side of each axis.
type boxScale struct {
	minScale  mgl64.Vec3
	maxScale  mgl64.Vec3
	minOffset mgl64.Vec3
	maxOffset mgl64.Vec3
}

func parseBoxScale(scale, offset []float64) (boxScale, error) {
	s, err := expandFaces(scale, 1, ErrInvalidScale)
	if err != nil {
		return boxScale{}, err
	}
	o, err := expandFaces(offset, 0, ErrInvalidOffset)
	if err != nil {
		return boxScale{}, err
	}

	// faces: 0 forward, 1 back, 2 left, 3 right, 4 up, 5 down
	return boxScale{
		minScale:  mgl64.Vec3{s[2], s[1], s[5]},
		maxScale:  mgl64.Vec3{s[3], s[0], s[4]},
		minOffset: mgl64.Vec3{o[2], o[1], o[5]},
		maxOffset: mgl64.Vec3{o[3], o[0], o[4]},
	}, nil
}

func expandFaces(v []float64, def float64, errInvalid error) ([6]float64, error) {
	var out [6]float64
	switch len(v) {
	case 0:
		for i := range out {
			out[i] = def
		}
	case 3:
		out = [6]float64{v[0], v[0], v[1], v[1], v[2], v[2]}
	case 6:
		copy(out[:], v)
	default:
		return out, fmt.Errorf("got %d values: %w", len(v), errInvalid)
	}

	for i, f := range out {
		if err := geom.ValidateScalar(fmt.Sprintf("face %d", i), f); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s boxScale) identityZ() bool {
	return s.minScale[2] == 1 && s.maxScale[2] == 1 && s.minOffset[2] == 0 && s.maxOffset[2] == 0
}

// applyHeight scales a fully bounded height range around its vertical center.
func (s boxScale) applyHeight(h geom.HeightBounds) geom.HeightBounds {
	half := (h.Max - h.Min) / 2
	center := h.Min + half
	return geom.Height(
		center-half*s.minScale[2]-s.minOffset[2],
		center+half*s.maxScale[2]+s.maxOffset[2],
	)
}

// boxTransform places the un-rotated box in the world for one query.
type boxTransform struct {
	offset   mgl64.Vec2
	rotation float64
	height   geom.HeightBounds
}

// BoxZone is an oriented rectangle extruded between optional height bounds.
// It never uses the grid: containment of a rectangle is closed-form.
type BoxZone struct {
	base

	center   mgl64.Vec3
	length   float64
	width    float64
	startPos mgl64.Vec2
	local    geom.Bounds // un-rotated footprint
	rotation float64
	scale    boxScale

	// rejectRadius is the distance from startPos to the farthest corner.
	rejectRadius float64
}

// NewBoxZone creates a box of length (along Y) and width (along X) centered at center.
func NewBoxZone(center mgl64.Vec3, length, width float64, opts BoxOptions) (*BoxZone, error) {
	if err := validateBoxInput(center, length, width, opts.Heading); err != nil {
		return nil, fmt.Errorf("box zone %q: %w", opts.Name, err)
	}
	if err := validateHeight(opts.Height); err != nil {
		return nil, fmt.Errorf("box zone %q: %w", opts.Name, err)
	}

	sc, err := parseBoxScale(opts.Scale, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("box zone %q: %w", opts.Name, err)
	}

	start := geom.Flat(center)
	halfLength, halfWidth := length/2, width/2
	lo := mgl64.Vec2{-halfWidth*sc.minScale[0] - sc.minOffset[0], -halfLength*sc.minScale[1] - sc.minOffset[1]}
	hi := mgl64.Vec2{halfWidth*sc.maxScale[0] + sc.maxOffset[0], halfLength*sc.maxScale[1] + sc.maxOffset[1]}
	if hi[0] <= lo[0] || hi[1] <= lo[1] {
		return nil, fmt.Errorf("box zone %q: scaled extents collapse: %w", opts.Name, ErrInvalidDimensions)
	}

	z := &BoxZone{
		center:   center,
		length:   length,
		width:    width,
		startPos: start,
		local:    geom.NewBounds(start.Add(lo), start.Add(hi)),
		rotation: opts.Heading,
		scale:    sc,
	}
	z.init(opts.Options)
	z.height = z.scaledHeight(opts.Height)
	z.boundingRadius = z.local.HalfDiagonal()

	for _, c := range z.localCorners() {
		z.rejectRadius = math.Max(z.rejectRadius, c.Sub(start).Len())
	}
	z.bounds = geom.BoundsOf(z.cornersWith(z.staticTransform()))

	return z, nil
}

func validateBoxInput(center mgl64.Vec3, length, width, heading float64) error {
	if err := geom.Validate(geom.Flat(center)); err != nil {
		return err
	}
	for name, v := range map[string]float64{"center z": center[2], "length": length, "width": width, "heading": heading} {
		if err := geom.ValidateScalar(name, v); err != nil {
			return err
		}
	}
	if length <= 0 || width <= 0 {
		return fmt.Errorf("length %v, width %v: %w", length, width, ErrInvalidDimensions)
	}
	return nil
}

// scaledHeight applies Z scale/offset. Scaling needs both bounds; otherwise it is skipped with a warning.
func (z *BoxZone) scaledHeight(h geom.HeightBounds) geom.HeightBounds {
	if z.scale.identityZ() {
		return h
	}
	if !h.Bounded() {
		slog.Warn("box zone height scale ignored: minZ and maxZ must both be set", "zone", z.name)
		return h
	}
	return z.scale.applyHeight(h)
}

func (z *BoxZone) staticTransform() boxTransform {
	return boxTransform{rotation: z.rotation, height: z.height}
}

// IsPointInside rejects by distance first, then tests the point in the box's own frame.
func (z *BoxZone) IsPointInside(point mgl64.Vec3) bool {
	if !z.alive("IsPointInside") {
		return false
	}
	return z.containsWith(point, z.staticTransform())
}

func (z *BoxZone) containsWith(point mgl64.Vec3, tr boxTransform) bool {
	actual := geom.Flat(point).Sub(tr.offset)
	if actual.Sub(z.startPos).Len() > z.rejectRadius {
		return false
	}

	local := geom.Rotate(z.startPos, actual, -tr.rotation)
	if !z.local.Contains(local) {
		return false
	}

	return tr.height.Contains(point[2])
}

func (z *BoxZone) localCorners() []mgl64.Vec2 {
	lo, hi := z.local.Min, z.local.Max
	return []mgl64.Vec2{lo, {hi[0], lo[1]}, hi, {lo[0], hi[1]}}
}

// cornersWith returns the world-space corners in counter-clockwise order.
func (z *BoxZone) cornersWith(tr boxTransform) []mgl64.Vec2 {
	corners := z.localCorners()
	for i, c := range corners {
		corners[i] = geom.Rotate(z.startPos, c, tr.rotation).Add(tr.offset)
	}
	return corners
}

// Draw renders the box walls and outline.
func (z *BoxZone) Draw(r Renderer, viewer mgl64.Vec3) {
	if !z.alive("Draw") {
		return
	}
	z.drawWith(r, viewer, z.staticTransform())
}

func (z *BoxZone) drawWith(r Renderer, viewer mgl64.Vec3, tr boxTransform) {
	minZ, maxZ := drawHeights(tr.height, viewer)
	drawPrism(r, z.cornersWith(tr), minZ, maxZ, z.colors)
}

// Center returns the construction center.
func (z *BoxZone) Center() mgl64.Vec3 { return z.center }

// Length returns the unscaled length (Y extent).
func (z *BoxZone) Length() float64 { return z.length }

// Width returns the unscaled width (X extent).
func (z *BoxZone) Width() float64 { return z.width }

// Heading returns the rotation in degrees.
func (z *BoxZone) Heading() float64 { return z.rotation }

// LocalBounds returns the scaled footprint before rotation.
func (z *BoxZone) LocalBounds() geom.Bounds { return z.local }

// Corners returns the world-space footprint corners.
func (z *BoxZone) Corners() []mgl64.Vec2 { return z.cornersWith(z.staticTransform()) }
