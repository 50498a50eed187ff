package sim

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/udisondev/polyzone/internal/zone"
)

// ErrDuplicateMover is returned when a mover name is already taken.
var ErrDuplicateMover = errors.New("mover name already registered")

// World is a registry of movers by name.
type World struct {
	mu     sync.RWMutex
	movers map[string]*Mover
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{movers: make(map[string]*Mover)}
}

// Add registers m.
func (w *World) Add(m *Mover) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.movers[m.Name()]; ok {
		return fmt.Errorf("add mover %q: %w", m.Name(), ErrDuplicateMover)
	}
	w.movers[m.Name()] = m
	return nil
}

// Mover returns a mover by name.
func (w *World) Mover(name string) (*Mover, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.movers[name]
	return m, ok
}

// Entity returns a mover as a zone.Entity.
func (w *World) Entity(name string) (zone.Entity, bool) {
	m, ok := w.Mover(name)
	if !ok {
		return nil, false
	}
	return m, true
}

// Movers returns all movers sorted by name.
func (w *World) Movers() []*Mover {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Mover, 0, len(w.movers))
	for _, m := range w.movers {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Mover) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// Len returns the number of movers.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.movers)
}
