// Package sim provides simple moving entities for driving zones in a running process.
package sim

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidSpeed      = errors.New("speed must not be negative")
	ErrInvalidDimensions = errors.New("dimensions max must exceed min on X and Y")
)

// Mover is an entity that walks along waypoints at a constant speed.
// Heading follows the direction of travel: 0 faces +X, 90 faces +Y.
type Mover struct {
	name string

	mu        sync.RWMutex
	pos       mgl64.Vec3
	heading   float64
	speed     float64 // units per second
	waypoints []mgl64.Vec3
	next      int
	loop      bool
	exists    bool
	dimMin    mgl64.Vec3
	dimMax    mgl64.Vec3
}

// MoverConfig describes a Mover.
type MoverConfig struct {
	Name      string
	Position  mgl64.Vec3
	Heading   float64
	Speed     float64
	Waypoints []mgl64.Vec3
	// Loop restarts from the first waypoint after the last one.
	Loop   bool
	DimMin mgl64.Vec3
	DimMax mgl64.Vec3
}

// NewMover creates a spawned mover.
func NewMover(cfg MoverConfig) (*Mover, error) {
	if cfg.Speed < 0 || math.IsNaN(cfg.Speed) {
		return nil, fmt.Errorf("mover %q: speed %v: %w", cfg.Name, cfg.Speed, ErrInvalidSpeed)
	}
	if cfg.DimMax[0] <= cfg.DimMin[0] || cfg.DimMax[1] <= cfg.DimMin[1] {
		return nil, fmt.Errorf("mover %q: %w", cfg.Name, ErrInvalidDimensions)
	}

	return &Mover{
		name:      cfg.Name,
		pos:       cfg.Position,
		heading:   cfg.Heading,
		speed:     cfg.Speed,
		waypoints: slices.Clone(cfg.Waypoints),
		loop:      cfg.Loop,
		exists:    true,
		dimMin:    cfg.DimMin,
		dimMax:    cfg.DimMax,
	}, nil
}

// Name returns the mover name.
func (m *Mover) Name() string { return m.name }

// Exists reports whether the mover is still spawned.
func (m *Mover) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exists
}

// Position returns the current world position.
func (m *Mover) Position() mgl64.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pos
}

// Heading returns the current heading in degrees.
func (m *Mover) Heading() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.heading
}

// Placement returns position and heading from the same tick.
func (m *Mover) Placement() (mgl64.Vec3, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pos, m.heading
}

// Dimensions returns the local bounding box.
func (m *Mover) Dimensions() (mgl64.Vec3, mgl64.Vec3) {
	return m.dimMin, m.dimMax
}

// Despawn removes the mover from the world. Zones attached to it stop matching.
func (m *Mover) Despawn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists = false
}

// Teleport moves the mover without walking.
func (m *Mover) Teleport(pos mgl64.Vec3, heading float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos, m.heading = pos, heading
}

// Arrived reports whether the mover has passed its last waypoint.
func (m *Mover) Arrived() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.next >= len(m.waypoints)
}

// Tick advances the mover by dt along its path.
func (m *Mover) Tick(dt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.exists || m.speed == 0 {
		return
	}

	budget := m.speed * dt.Seconds()
	// at most two laps per tick; a looped path of zero length would never use up the budget
	maxReached := 2 * len(m.waypoints)
	for reached := 0; budget > 0 && m.next < len(m.waypoints) && reached < maxReached; {
		target := m.waypoints[m.next]
		delta := target.Sub(m.pos)
		dist := delta.Len()

		if dist > 0 {
			m.heading = mgl64.RadToDeg(math.Atan2(delta[1], delta[0]))
		}

		if dist <= budget {
			m.pos = target
			budget -= dist
			reached++
			m.advance()
			continue
		}

		m.pos = m.pos.Add(delta.Mul(budget / dist))
		budget = 0
	}
}

// advance selects the next waypoint. Caller holds m.mu.
func (m *Mover) advance() {
	m.next++
	if m.next >= len(m.waypoints) && m.loop {
		m.next = 0
	}
}
