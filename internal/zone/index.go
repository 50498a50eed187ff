package zone

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	indexMinChildren = 25
	indexMaxChildren = 50

	// pointTolerance turns a query point into a tiny rectangle for SearchIntersect.
	pointTolerance = 1e-9
)

// indexEntry adapts a zone to rtreego.Spatial. rect is captured on insert
// so Delete finds the same node.
type indexEntry struct {
	zone Zone
	rect rtreego.Rect
	seq  uint64
}

func (e *indexEntry) Bounds() rtreego.Rect { return e.rect }

// Index answers "which zones may contain this point" in insertion order.
// Zones with a fixed footprint live in an R-tree; zones that can move or
// resize (circle, entity, combo) are kept in a list and always returned.
type Index struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	entries map[Zone]*indexEntry
	moving  []*indexEntry
	seq     uint64
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		tree:    rtreego.NewTree(2, indexMinChildren, indexMaxChildren),
		entries: make(map[Zone]*indexEntry),
	}
}

// hasStaticBounds reports whether a zone's footprint never changes after construction.
func hasStaticBounds(z Zone) bool {
	switch z.(type) {
	case *PolygonZone, *BoxZone:
		return true
	default:
		return false
	}
}

func zoneRect(z Zone) (rtreego.Rect, error) {
	b := z.Bounds()
	lengths := []float64{
		max(b.Size[0], pointTolerance),
		max(b.Size[1], pointTolerance),
	}
	return rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, lengths)
}

// Insert adds z. Inserting the same zone twice is a no-op.
func (ix *Index) Insert(z Zone) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.entries[z]; ok {
		return
	}

	ix.seq++
	e := &indexEntry{zone: z, seq: ix.seq}

	if hasStaticBounds(z) {
		if rect, err := zoneRect(z); err == nil {
			e.rect = rect
			ix.tree.Insert(e)
			ix.entries[z] = e
			return
		}
	}

	ix.moving = append(ix.moving, e)
	ix.entries[z] = e
}

// Remove deletes z and reports whether it was present.
func (ix *Index) Remove(z Zone) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	e, ok := ix.entries[z]
	if !ok {
		return false
	}
	delete(ix.entries, z)

	if i := slices.Index(ix.moving, e); i >= 0 {
		ix.moving = slices.Delete(ix.moving, i, i+1)
		return true
	}
	ix.tree.Delete(e)
	return true
}

// Candidates returns zones whose footprint may contain p, in insertion order.
// Callers still run IsPointInside on each candidate.
func (ix *Index) Candidates(p mgl64.Vec2) []Zone {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := ix.tree.SearchIntersect(rtreego.Point{p[0], p[1]}.ToRect(pointTolerance))

	found := make([]*indexEntry, 0, len(hits)+len(ix.moving))
	for _, h := range hits {
		found = append(found, h.(*indexEntry))
	}
	found = append(found, ix.moving...)

	slices.SortFunc(found, func(a, b *indexEntry) int {
		return cmp.Compare(a.seq, b.seq)
	})

	out := make([]Zone, len(found))
	for i, e := range found {
		out[i] = e.zone
	}
	return out
}

// Len returns the number of indexed zones.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}
