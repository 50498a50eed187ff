package zone

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/geom"
)

// ComboZone is the union of its member zones.
// Members are checked in insertion order and the first match wins.
// Destroying a combo leaves its members alive.
type ComboZone struct {
	base

	mu      sync.RWMutex
	members []Zone
	index   *Index
}

// NewComboZone creates a combo of zones. A nil member fails with ErrNilZone,
// the same zone listed twice with ErrDuplicateZone.
func NewComboZone(zones []Zone, opts Options) (*ComboZone, error) {
	z := &ComboZone{index: NewIndex()}
	z.init(opts)

	for i, m := range zones {
		if m == nil {
			return nil, fmt.Errorf("combo zone %q: member %d: %w", opts.Name, i, ErrNilZone)
		}
		if slices.Contains(z.members, m) {
			return nil, fmt.Errorf("combo zone %q: member %d %q: %w", opts.Name, i, m.Name(), ErrDuplicateZone)
		}
		z.members = append(z.members, m)
		z.index.Insert(m)
	}

	return z, nil
}

// AddZone appends a member. Adding a current member fails with ErrDuplicateZone.
func (z *ComboZone) AddZone(m Zone) error {
	if m == nil {
		return fmt.Errorf("combo zone %q: %w", z.name, ErrNilZone)
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	if slices.Contains(z.members, m) {
		return fmt.Errorf("combo zone %q: member %q: %w", z.name, m.Name(), ErrDuplicateZone)
	}

	z.members = append(z.members, m)
	z.index.Insert(m)
	return nil
}

// RemoveZone removes the first member with the given name and reports whether one was found.
func (z *ComboZone) RemoveZone(name string) bool {
	z.mu.Lock()
	defer z.mu.Unlock()

	i := slices.IndexFunc(z.members, func(m Zone) bool { return m.Name() == name })
	if i < 0 {
		return false
	}

	z.index.Remove(z.members[i])
	z.members = slices.Delete(z.members, i, i+1)
	return true
}

// Members returns a snapshot of the members in insertion order.
func (z *ComboZone) Members() []Zone {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return slices.Clone(z.members)
}

// Len returns the number of members.
func (z *ComboZone) Len() int {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return len(z.members)
}

// IsPointInside reports whether any member contains point.
func (z *ComboZone) IsPointInside(point mgl64.Vec3) bool {
	if !z.alive("IsPointInside") {
		return false
	}
	_, ok := z.ZoneAt(point)
	return ok
}

// ZoneAt returns the first member, in insertion order, containing point.
func (z *ComboZone) ZoneAt(point mgl64.Vec3) (Zone, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	for _, m := range z.index.Candidates(geom.Flat(point)) {
		if m.IsPointInside(point) {
			return m, true
		}
	}
	return nil, false
}

// ZonesAt returns every member containing point, in insertion order.
func (z *ComboZone) ZonesAt(point mgl64.Vec3) []Zone {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var found []Zone
	for _, m := range z.index.Candidates(geom.Flat(point)) {
		if m.IsPointInside(point) {
			found = append(found, m)
		}
	}
	return found
}

// Bounds returns the union of member footprints.
func (z *ComboZone) Bounds() geom.Bounds {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if len(z.members) == 0 {
		return geom.Bounds{}
	}

	b := z.members[0].Bounds()
	for _, m := range z.members[1:] {
		b = b.Union(m.Bounds())
	}
	return b
}

// HeightBounds is unbounded on a side when any member is.
func (z *ComboZone) HeightBounds() geom.HeightBounds {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if len(z.members) == 0 {
		return geom.HeightBounds{}
	}

	h := z.members[0].HeightBounds()
	for _, m := range z.members[1:] {
		mh := m.HeightBounds()
		h.HasMin = h.HasMin && mh.HasMin
		h.HasMax = h.HasMax && mh.HasMax
		h.Min = min(h.Min, mh.Min)
		h.Max = max(h.Max, mh.Max)
	}
	if !h.HasMin {
		h.Min = 0
	}
	if !h.HasMax {
		h.Max = 0
	}
	return h
}

// BoundingRadius returns half of the union footprint diagonal.
func (z *ComboZone) BoundingRadius() float64 {
	return z.Bounds().HalfDiagonal()
}

// DebugEnabled is true when the combo or any member asked for debug drawing.
func (z *ComboZone) DebugEnabled() bool {
	if z.base.DebugEnabled() {
		return true
	}
	return slices.ContainsFunc(z.Members(), Zone.DebugEnabled)
}

// Draw draws every live member.
func (z *ComboZone) Draw(r Renderer, viewer mgl64.Vec3) {
	if !z.alive("Draw") {
		return
	}
	for _, m := range z.Members() {
		if !m.Destroyed() {
			m.Draw(r, viewer)
		}
	}
}
