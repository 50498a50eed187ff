package data

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Zone shapes in a zone document.
const (
	ShapePoly   = "poly"
	ShapeBox    = "box"
	ShapeCircle = "circle"
	ShapeEntity = "entity"
	ShapeCombo  = "combo"
)

var (
	ErrUnknownShape     = errors.New("unknown zone shape")
	ErrInvalidVector    = errors.New("vector must have 2 or 3 components")
	ErrUnknownReference = errors.New("unknown reference")
	ErrMissingName      = errors.New("missing name")
)

// ZoneDocument is the YAML description of movers, zones and watches.
type ZoneDocument struct {
	Entities []EntityDef `yaml:"entities"`
	Zones    []ZoneDef   `yaml:"zones"`
	Watches  []WatchDef  `yaml:"watches"`
}

// Vec is a 2 or 3 component vector; a missing Z is 0.
type Vec []float64

// Vec3 converts v, failing on a wrong number of components.
func (v Vec) Vec3() (mgl64.Vec3, error) {
	switch len(v) {
	case 2:
		return mgl64.Vec3{v[0], v[1], 0}, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	default:
		return mgl64.Vec3{}, fmt.Errorf("%v: %w", []float64(v), ErrInvalidVector)
	}
}

// EntityDef describes a sim.Mover.
type EntityDef struct {
	Name      string  `yaml:"name"`
	Position  Vec     `yaml:"position"`
	Heading   float64 `yaml:"heading"`
	Speed     float64 `yaml:"speed"`
	Waypoints []Vec   `yaml:"waypoints"`
	Loop      bool    `yaml:"loop"`
	DimMin    Vec     `yaml:"dim_min"`
	DimMax    Vec     `yaml:"dim_max"`
}

// ZoneDef describes one zone. Which fields apply depends on Shape.
type ZoneDef struct {
	Name  string `yaml:"name"`
	Shape string `yaml:"shape"`

	MinZ *float64 `yaml:"min_z"`
	MaxZ *float64 `yaml:"max_z"`

	// poly
	Points        []Vec `yaml:"points"`
	GridDivisions int   `yaml:"grid_divisions"`
	NoGrid        bool  `yaml:"no_grid"`
	EagerGrid     *bool `yaml:"eager_grid"`

	// box, circle
	Center Vec `yaml:"center"`

	// box, entity
	Length  float64   `yaml:"length"`
	Width   float64   `yaml:"width"`
	Heading float64   `yaml:"heading"`
	Scale   []float64 `yaml:"scale"`
	Offset  []float64 `yaml:"offset"`

	// circle
	Radius float64 `yaml:"radius"`

	// circle, entity
	UseZ bool `yaml:"use_z"`

	// entity
	Entity string `yaml:"entity"`

	// combo
	Members []string `yaml:"members"`

	DebugPoly bool `yaml:"debug_poly"`
	DebugGrid bool `yaml:"debug_grid"`
}

// WatchDef arms enter/exit tracking of an entity's position against a zone.
type WatchDef struct {
	Zone   string `yaml:"zone"`
	Entity string `yaml:"entity"`
}

// LoadZones reads a zone document from a YAML file.
func LoadZones(path string) (*ZoneDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading zones %s: %w", path, err)
	}

	doc, err := ParseZones(raw)
	if err != nil {
		return nil, fmt.Errorf("zones %s: %w", path, err)
	}

	slog.Info("loaded zone document",
		"path", path,
		"entities", len(doc.Entities),
		"zones", len(doc.Zones),
		"watches", len(doc.Watches))
	return doc, nil
}

// ParseZones decodes a zone document and checks names and shapes.
func ParseZones(raw []byte) (*ZoneDocument, error) {
	var doc ZoneDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing zone document: %w", err)
	}

	for i, e := range doc.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity %d: %w", i, ErrMissingName)
		}
	}
	for i, z := range doc.Zones {
		if z.Name == "" {
			return nil, fmt.Errorf("zone %d: %w", i, ErrMissingName)
		}
		switch z.Shape {
		case ShapePoly, ShapeBox, ShapeCircle, ShapeEntity, ShapeCombo:
		default:
			return nil, fmt.Errorf("zone %q: shape %q: %w", z.Name, z.Shape, ErrUnknownShape)
		}
	}

	return &doc, nil
}
