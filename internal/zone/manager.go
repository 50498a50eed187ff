package zone

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/geom"
)

// Registry errors.
var (
	ErrDuplicateZone = errors.New("zone already registered")
	ErrUnnamedZone   = errors.New("zone has no name")
)

// Manager manages named zones with spatial indexing for fast lookups.
type Manager struct {
	mu     sync.RWMutex
	zones  []Zone
	byName map[string]Zone
	index  *Index
}

// NewManager creates a new empty Manager.
func NewManager() *Manager {
	return &Manager{
		byName: make(map[string]Zone),
		index:  NewIndex(),
	}
}

// Add registers z under its name.
func (m *Manager) Add(z Zone) error {
	if z == nil {
		return ErrNilZone
	}
	name := z.Name()
	if name == "" {
		return ErrUnnamedZone
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[name]; ok {
		return fmt.Errorf("add zone %q: %w", name, ErrDuplicateZone)
	}

	m.zones = append(m.zones, z)
	m.byName[name] = z
	m.index.Insert(z)

	if IsDebugEnabled() {
		slog.Debug("zone registered", "zone", name, "total", len(m.zones))
	}
	return nil
}

// Remove unregisters the zone with the given name and returns it.
// The zone itself is not destroyed.
func (m *Manager) Remove(name string) (Zone, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	z, ok := m.byName[name]
	if !ok {
		return nil, false
	}

	delete(m.byName, name)
	m.index.Remove(z)
	if i := slices.Index(m.zones, z); i >= 0 {
		m.zones = slices.Delete(m.zones, i, i+1)
	}
	return z, true
}

// Get returns a zone by its name.
func (m *Manager) Get(name string) (Zone, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	z, ok := m.byName[name]
	return z, ok
}

// ZonesAt returns all zones containing point, in registration order.
func (m *Manager) ZonesAt(point mgl64.Vec3) []Zone {
	m.mu.RLock()
	ix := m.index
	m.mu.RUnlock()

	var result []Zone
	for _, z := range ix.Candidates(geom.Flat(point)) {
		if z.IsPointInside(point) {
			result = append(result, z)
		}
	}
	return result
}

// Zones returns a snapshot of all zones in registration order.
func (m *Manager) Zones() []Zone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.zones)
}

// Len returns the number of registered zones.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.zones)
}

// DestroyAll destroys and unregisters every zone.
func (m *Manager) DestroyAll() {
	m.mu.Lock()
	zones := m.zones
	m.zones = nil
	m.byName = make(map[string]Zone)
	m.index = NewIndex()
	m.mu.Unlock()

	for _, z := range zones {
		z.Destroy()
	}

	slog.Info("zones destroyed", "count", len(zones))
}
