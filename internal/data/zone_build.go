package data

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/semaphore"

	"github.com/udisondev/polyzone/internal/geom"
	"github.com/udisondev/polyzone/internal/sim"
	"github.com/udisondev/polyzone/internal/zone"
)

// EntityLookup resolves entity names used by entity zones and watches.
type EntityLookup interface {
	Entity(name string) (zone.Entity, bool)
}

// BuildOptions are defaults applied to every zone of a document.
type BuildOptions struct {
	GridDivisions int
	EagerGrid     bool
	// MaxConcurrentBuilds bounds eager grid builds; 0 means unbounded.
	MaxConcurrentBuilds int64
	Scheduler           zone.Scheduler
}

// BuildWorld creates a mover for every entity in doc.
func BuildWorld(doc *ZoneDocument) (*sim.World, error) {
	world := sim.NewWorld()
	for _, def := range doc.Entities {
		cfg, err := def.moverConfig()
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", def.Name, err)
		}
		m, err := sim.NewMover(cfg)
		if err != nil {
			return nil, err
		}
		if err := world.Add(m); err != nil {
			return nil, err
		}
	}
	return world, nil
}

func (e EntityDef) moverConfig() (sim.MoverConfig, error) {
	cfg := sim.MoverConfig{
		Name:    e.Name,
		Heading: e.Heading,
		Speed:   e.Speed,
		Loop:    e.Loop,
	}

	var err error
	if cfg.Position, err = optionalVec(e.Position); err != nil {
		return cfg, fmt.Errorf("position: %w", err)
	}
	if cfg.DimMin, err = e.DimMin.Vec3(); err != nil {
		return cfg, fmt.Errorf("dim_min: %w", err)
	}
	if cfg.DimMax, err = e.DimMax.Vec3(); err != nil {
		return cfg, fmt.Errorf("dim_max: %w", err)
	}
	for i, w := range e.Waypoints {
		p, err := w.Vec3()
		if err != nil {
			return cfg, fmt.Errorf("waypoint %d: %w", i, err)
		}
		cfg.Waypoints = append(cfg.Waypoints, p)
	}
	return cfg, nil
}

func optionalVec(v Vec) (mgl64.Vec3, error) {
	if len(v) == 0 {
		return mgl64.Vec3{}, nil
	}
	return v.Vec3()
}

// BuildZones constructs every zone of doc in order and registers it in a new Manager.
// Combo members must be defined before the combo. On error nothing stays alive.
func BuildZones(doc *ZoneDocument, entities EntityLookup, opts BuildOptions) (*zone.Manager, error) {
	mgr := zone.NewManager()

	var limit *semaphore.Weighted
	if opts.MaxConcurrentBuilds > 0 {
		limit = semaphore.NewWeighted(opts.MaxConcurrentBuilds)
	}

	for _, def := range doc.Zones {
		z, err := buildZone(def, mgr, entities, opts, limit)
		if err == nil {
			err = mgr.Add(z)
		}
		if err != nil {
			if z != nil {
				z.Destroy()
			}
			mgr.DestroyAll()
			return nil, fmt.Errorf("building zone %q: %w", def.Name, err)
		}
	}

	slog.Info("zones built", "count", mgr.Len())
	return mgr, nil
}

func buildZone(def ZoneDef, mgr *zone.Manager, entities EntityLookup, opts BuildOptions, limit *semaphore.Weighted) (zone.Zone, error) {
	base := zone.Options{
		Name:          def.Name,
		Height:        def.height(),
		GridDivisions: opts.GridDivisions,
		NoGrid:        def.NoGrid,
		EagerGrid:     opts.EagerGrid,
		UseZ:          def.UseZ,
		DebugPoly:     def.DebugPoly,
		DebugGrid:     def.DebugGrid,
		Scheduler:     opts.Scheduler,
		BuildLimit:    limit,
	}
	if def.GridDivisions > 0 {
		base.GridDivisions = def.GridDivisions
	}
	if def.EagerGrid != nil {
		base.EagerGrid = *def.EagerGrid
	}

	switch def.Shape {
	case ShapePoly:
		points := make([]mgl64.Vec3, 0, len(def.Points))
		for i, p := range def.Points {
			v, err := p.Vec3()
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			points = append(points, v)
		}
		return asZone(zone.NewPolygonZone(points, base))

	case ShapeBox:
		center, err := def.Center.Vec3()
		if err != nil {
			return nil, fmt.Errorf("center: %w", err)
		}
		return asZone(zone.NewBoxZone(center, def.Length, def.Width, def.boxOptions(base)))

	case ShapeCircle:
		center, err := def.Center.Vec3()
		if err != nil {
			return nil, fmt.Errorf("center: %w", err)
		}
		return asZone(zone.NewCircleZone(center, def.Radius, base))

	case ShapeEntity:
		e, ok := entities.Entity(def.Entity)
		if !ok {
			return nil, fmt.Errorf("entity %q: %w", def.Entity, zone.ErrEntityNotFound)
		}
		return asZone(zone.NewEntityZone(e, def.boxOptions(base)))

	case ShapeCombo:
		members := make([]zone.Zone, 0, len(def.Members))
		for _, name := range def.Members {
			m, ok := mgr.Get(name)
			if !ok {
				return nil, fmt.Errorf("member %q: %w", name, ErrUnknownReference)
			}
			members = append(members, m)
		}
		return asZone(zone.NewComboZone(members, base))

	default:
		return nil, fmt.Errorf("shape %q: %w", def.Shape, ErrUnknownShape)
	}
}

// asZone keeps a failed constructor from producing a non-nil interface around a nil pointer.
func asZone[Z zone.Zone](z Z, err error) (zone.Zone, error) {
	if err != nil {
		return nil, err
	}
	return z, nil
}

func (d ZoneDef) height() geom.HeightBounds {
	var h geom.HeightBounds
	if d.MinZ != nil {
		h.Min, h.HasMin = *d.MinZ, true
	}
	if d.MaxZ != nil {
		h.Max, h.HasMax = *d.MaxZ, true
	}
	return h
}

func (d ZoneDef) boxOptions(base zone.Options) zone.BoxOptions {
	return zone.BoxOptions{
		Options: base,
		Heading: d.Heading,
		Scale:   d.Scale,
		Offset:  d.Offset,
	}
}

// ResolveWatches checks watch references against built zones and entities.
func ResolveWatches(doc *ZoneDocument, mgr *zone.Manager, entities EntityLookup) ([]ResolvedWatch, error) {
	out := make([]ResolvedWatch, 0, len(doc.Watches))
	for i, w := range doc.Watches {
		z, ok := mgr.Get(w.Zone)
		if !ok {
			return nil, fmt.Errorf("watch %d: zone %q: %w", i, w.Zone, ErrUnknownReference)
		}
		e, ok := entities.Entity(w.Entity)
		if !ok {
			return nil, fmt.Errorf("watch %d: entity %q: %w", i, w.Entity, ErrUnknownReference)
		}
		out = append(out, ResolvedWatch{Zone: z, EntityName: w.Entity, Entity: e})
	}
	return out, nil
}

// ResolvedWatch pairs a zone with the entity whose position it tracks.
type ResolvedWatch struct {
	Zone       zone.Zone
	EntityName string
	Entity     zone.Entity
}
