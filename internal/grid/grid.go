// Package grid implements the fast-accept acceleration structure for polygon
// zones. The polygon's bounding box is split into divisions x divisions cells;
// a cell marked Inside is provably covered by the polygon, so point queries
// falling into it skip the exact winding-number test.
package grid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/geom"
)

// DefaultDivisions is the cell count per axis used when none is configured.
const DefaultDivisions = 30

// MaxDivisions caps the cell table at MaxDivisions^2 entries.
const MaxDivisions = 1024

var (
	ErrInvalidDivisions = errors.New("grid divisions out of range")
	ErrDegenerate       = errors.New("polygon bounds have zero extent")
)

// CellState is the cached knowledge about one cell.
type CellState uint32

const (
	// Unknown means the cell was not evaluated yet.
	Unknown CellState = iota
	// Inside means the whole cell rectangle lies inside the polygon.
	Inside
	// Outside means the cell is not provably inside; queries fall through to the exact test.
	Outside
)

func (s CellState) String() string {
	switch s {
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	default:
		return "unknown"
	}
}

// Result is the answer of Lookup. The grid never reports "definitely outside".
type Result int

const (
	ResultUnknown Result = iota
	DefinitelyInside
)

// YieldFunc is called between rows of an eager build. Returning an error stops the build.
type YieldFunc func(ctx context.Context) error

// Grid is safe for concurrent Lookup and Build calls.
type Grid struct {
	poly       []mgl64.Vec2
	bounds     geom.Bounds
	divisions  int
	cellWidth  float64
	cellHeight float64
	polyArea   float64
	lazy       bool

	cells       []atomic.Uint32
	insideCells atomic.Int64

	built     atomic.Bool
	readyOnce sync.Once
	ready     chan struct{}
}

// New creates an empty grid over poly. The polygon slice must not be modified afterwards.
// In lazy mode Lookup evaluates and caches cells on first use.
func New(poly []mgl64.Vec2, bounds geom.Bounds, divisions int, lazy bool) (*Grid, error) {
	if divisions <= 0 || divisions > MaxDivisions {
		return nil, fmt.Errorf("divisions %d: %w", divisions, ErrInvalidDivisions)
	}
	if bounds.Size[0] <= 0 || bounds.Size[1] <= 0 {
		return nil, fmt.Errorf("size %v: %w", bounds.Size, ErrDegenerate)
	}

	return &Grid{
		poly:       poly,
		bounds:     bounds,
		divisions:  divisions,
		cellWidth:  bounds.Size[0] / float64(divisions),
		cellHeight: bounds.Size[1] / float64(divisions),
		polyArea:   math.Abs(geom.SignedArea(poly)),
		lazy:       lazy,
		cells:      make([]atomic.Uint32, divisions*divisions),
		ready:      make(chan struct{}),
	}, nil
}

// Divisions returns the number of cells per axis.
func (g *Grid) Divisions() int { return g.divisions }

// CellSize returns cell width and height.
func (g *Grid) CellSize() (w, h float64) { return g.cellWidth, g.cellHeight }

// Lazy reports whether cells are evaluated on demand.
func (g *Grid) Lazy() bool { return g.lazy }

// Cell returns the cached state of a cell. Out of range coordinates report Unknown.
func (g *Grid) Cell(cellX, cellY int) CellState {
	if !g.inRange(cellX, cellY) {
		return Unknown
	}
	return CellState(g.cells[g.index(cellX, cellY)].Load())
}

// CellOf maps a point to its cell coordinates, clamped to [0, divisions).
func (g *Grid) CellOf(p mgl64.Vec2) (cellX, cellY int) {
	cellX = clamp(int(math.Floor((p[0]-g.bounds.Min[0])/g.cellWidth)), g.divisions)
	cellY = clamp(int(math.Floor((p[1]-g.bounds.Min[1])/g.cellHeight)), g.divisions)
	return cellX, cellY
}

// Lookup reports DefinitelyInside when p falls into a cell that is fully
// covered by the polygon. Callers must run the exact test otherwise.
// Points outside the grid bounds always report ResultUnknown.
func (g *Grid) Lookup(p mgl64.Vec2) Result {
	if !g.bounds.Contains(p) {
		return ResultUnknown
	}

	cellX, cellY := g.CellOf(p)
	state := CellState(g.cells[g.index(cellX, cellY)].Load())

	if state == Unknown && g.lazy {
		state = g.evaluate(cellX, cellY)
	}

	if state == Inside {
		return DefinitelyInside
	}
	return ResultUnknown
}

// Build evaluates every cell, calling yield after each row so the caller's
// frame loop keeps running. Cells already evaluated lazily are skipped.
// On cancellation the grid stays usable; unevaluated cells remain Unknown.
func (g *Grid) Build(ctx context.Context, yield YieldFunc) error {
	for y := range g.divisions {
		for x := range g.divisions {
			if CellState(g.cells[g.index(x, y)].Load()) == Unknown {
				g.evaluate(x, y)
			}
		}

		if yield != nil {
			if err := yield(ctx); err != nil {
				return fmt.Errorf("grid build interrupted at row %d: %w", y, err)
			}
		} else if err := ctx.Err(); err != nil {
			return fmt.Errorf("grid build interrupted at row %d: %w", y, err)
		}
	}

	g.built.Store(true)
	g.readyOnce.Do(func() { close(g.ready) })

	slog.Debug("grid built",
		"divisions", g.divisions,
		"inside_cells", g.insideCells.Load(),
		"coverage", g.Coverage())

	return nil
}

// Built reports whether a full Build has completed.
func (g *Grid) Built() bool { return g.built.Load() }

// Ready is closed when a full Build completes.
func (g *Grid) Ready() <-chan struct{} { return g.ready }

// Coverage is the share of the polygon area covered by Inside cells, in [0, 1].
func (g *Grid) Coverage() float64 {
	if g.polyArea == 0 {
		return 0
	}
	covered := float64(g.insideCells.Load()) * g.cellWidth * g.cellHeight
	return math.Min(1, math.Max(0, covered/g.polyArea))
}

// CellBounds returns the rectangle of a cell.
func (g *Grid) CellBounds(cellX, cellY int) geom.Bounds {
	pts := g.cellPoints(cellX, cellY)
	return geom.NewBounds(pts[0], pts[2])
}

// ForEachInside calls fn for every cell currently known to be Inside.
func (g *Grid) ForEachInside(fn func(cellX, cellY int)) {
	for y := range g.divisions {
		for x := range g.divisions {
			if CellState(g.cells[g.index(x, y)].Load()) == Inside {
				fn(x, y)
			}
		}
	}
}

// CellIsFullyInside reports whether the whole cell rectangle lies inside the polygon.
// All five samples of the closed cell outline must be inside, and no cell edge may
// cross a polygon edge: a polygon edge can bisect a cell between its corners.
func (g *Grid) CellIsFullyInside(cellX, cellY int) bool {
	pts := g.cellPoints(cellX, cellY)

	for _, p := range pts {
		if !geom.WindingNumber(p, g.poly) {
			return false
		}
	}

	n := len(g.poly)
	for i := range len(pts) - 1 {
		for j := range n {
			if geom.SegmentsIntersect(pts[i], pts[i+1], g.poly[j], g.poly[(j+1)%n]) {
				return false
			}
		}
	}

	return true
}

// evaluate вычисляет состояние ячейки и публикует его; счётчик увеличивает только победитель CAS.
func (g *Grid) evaluate(cellX, cellY int) CellState {
	state := Outside
	if g.CellIsFullyInside(cellX, cellY) {
		state = Inside
	}

	slot := &g.cells[g.index(cellX, cellY)]
	if slot.CompareAndSwap(uint32(Unknown), uint32(state)) && state == Inside {
		g.insideCells.Add(1)
	}

	return CellState(slot.Load())
}

// cellPoints returns the closed outline of a cell: four corners plus the first one again.
func (g *Grid) cellPoints(cellX, cellY int) [5]mgl64.Vec2 {
	x := float64(cellX)*g.cellWidth + g.bounds.Min[0]
	y := float64(cellY)*g.cellHeight + g.bounds.Min[1]

	return [5]mgl64.Vec2{
		{x, y},
		{x + g.cellWidth, y},
		{x + g.cellWidth, y + g.cellHeight},
		{x, y + g.cellHeight},
		{x, y},
	}
}

func (g *Grid) index(cellX, cellY int) int {
	return cellY*g.divisions + cellX
}

func (g *Grid) inRange(cellX, cellY int) bool {
	return cellX >= 0 && cellX < g.divisions && cellY >= 0 && cellY < g.divisions
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
