// Package grid implements a uniform-cell spatial hash index. Entities are
// registered into every cell their bounding circle overlaps, so proximity
// queries touch a constant number of cells regardless of population.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// DefaultCellSize is used when a grid is built with a non-positive or
// non-finite cell size. Tuned for query radii in the tens of world units.
const DefaultCellSize = 100.0

// ErrNonFinite is returned when an entity carries NaN or infinite geometry.
// Letting a non-finite value into the cell math would silently exclude the
// entity from every future query, which is worse than rejecting it here.
var ErrNonFinite = errors.New("grid: non-finite coordinate")

// Entity is a participant in spatial queries. IDs must be stable and unique
// within one grid while the entity is registered. A radius of zero marks a
// point entity.
type Entity interface {
	GridID() int64
	Position() (x, y float64)
	GridRadius() float64
}

type cellKey struct {
	cx, cy int32
}

// Grid indexes entities of type T by uniform square cells.
// Accessed only from the game loop goroutine; no locking.
type Grid[T Entity] struct {
	cellSize    float64
	invCellSize float64

	cells map[cellKey][]T
	// registered remembers exactly which cells each id occupies so a
	// removal undoes the registration in O(cells touched).
	registered map[int64][]cellKey

	// queryScratch dedups multi-cell entities during a query without a
	// per-query allocation.
	queryScratch map[int64]struct{}
}

// New builds an empty grid. A cellSize that is not a positive finite number
// falls back to DefaultCellSize.
func New[T Entity](cellSize float64) *Grid[T] {
	if math.IsNaN(cellSize) || math.IsInf(cellSize, 0) || cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid[T]{
		cellSize:     cellSize,
		invCellSize:  1 / cellSize,
		cells:        make(map[cellKey][]T),
		registered:   make(map[int64][]cellKey),
		queryScratch: make(map[int64]struct{}),
	}
}

// CellSize reports the resolved cell size.
func (g *Grid[T]) CellSize() float64 { return g.cellSize }

// Len reports how many entities are registered.
func (g *Grid[T]) Len() int { return len(g.registered) }

func (g *Grid[T]) coord(v float64) int32 {
	return int32(math.Floor(v * g.invCellSize))
}

// Insert registers e into every cell its bounding circle overlaps; a point
// entity lands in exactly the cell containing its center. Inserting an id
// that is already registered replaces the prior registration. Non-finite
// geometry is rejected with ErrNonFinite and nothing is inserted.
func (g *Grid[T]) Insert(e T) error {
	x, y := e.Position()
	r := e.GridRadius()
	if !finite(x) || !finite(y) || !finite(r) {
		return fmt.Errorf("%w: id=%d x=%v y=%v r=%v", ErrNonFinite, e.GridID(), x, y, r)
	}
	if _, ok := g.registered[e.GridID()]; ok {
		g.Remove(e.GridID())
	}
	g.insertAt(e, x, y, r)
	return nil
}

// insertAt registers e using the given snapshot of its geometry, not
// whatever e reports at call time.
func (g *Grid[T]) insertAt(e T, x, y, r float64) {
	if r < 0 {
		r = 0
	}
	minCX, maxCX := g.coord(x-r), g.coord(x+r)
	minCY, maxCY := g.coord(y-r), g.coord(y+r)

	id := e.GridID()
	keys := make([]cellKey, 0, (maxCX-minCX+1)*(maxCY-minCY+1))
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			k := cellKey{cx, cy}
			g.cells[k] = append(g.cells[k], e)
			keys = append(keys, k)
		}
	}
	g.registered[id] = keys
}

// Remove unregisters the entity with the given id. Unknown ids are a no-op.
func (g *Grid[T]) Remove(id int64) {
	keys, ok := g.registered[id]
	if !ok {
		return
	}
	for _, k := range keys {
		bucket := g.cells[k]
		for i, e := range bucket {
			if e.GridID() == id {
				last := len(bucket) - 1
				bucket[i] = bucket[last]
				bucket = bucket[:last]
				break
			}
		}
		if len(bucket) == 0 {
			delete(g.cells, k)
		} else {
			g.cells[k] = bucket
		}
	}
	delete(g.registered, id)
}

// Update re-registers e after a move. The geometry is snapshotted before the
// remove-then-insert runs, so a caller mutating the entity mid-update cannot
// desync the registration from the coordinates Update was called with.
// Non-finite geometry is rejected and the prior registration is kept.
func (g *Grid[T]) Update(e T) error {
	x, y := e.Position()
	r := e.GridRadius()
	if !finite(x) || !finite(y) || !finite(r) {
		return fmt.Errorf("%w: id=%d x=%v y=%v r=%v", ErrNonFinite, e.GridID(), x, y, r)
	}
	g.Remove(e.GridID())
	g.insertAt(e, x, y, r)
	return nil
}

// GetNearby returns every entity registered in a cell the query circle's
// bounding box overlaps, deduplicated, with NO distance filtering — callers
// do the exact circle test. Because entities register with their own radius
// and the query contributes its own, any entity within
// entityRadius+queryRadius of the query point is guaranteed present; farther
// entities may appear and must be filtered by the caller.
//
// A point entity occupies only the cell holding its center, so a query
// centered in an adjacent cell finds it only when the query's own overlap
// rectangle reaches that cell. Callers pick the query radius to cover the
// reach they care about.
func (g *Grid[T]) GetNearby(x, y, radius float64) []T {
	return g.GetNearbyBuf(x, y, radius, nil)
}

// GetNearbyBuf is GetNearby appending into buf (reset to length zero first)
// to avoid a per-frame allocation.
func (g *Grid[T]) GetNearbyBuf(x, y, radius float64, buf []T) []T {
	buf = buf[:0]
	if !finite(x) || !finite(y) || !finite(radius) {
		return buf
	}
	if radius < 0 {
		radius = 0
	}
	minCX, maxCX := g.coord(x-radius), g.coord(x+radius)
	minCY, maxCY := g.coord(y-radius), g.coord(y+radius)

	clear(g.queryScratch)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			for _, e := range g.cells[cellKey{cx, cy}] {
				id := e.GridID()
				if _, dup := g.queryScratch[id]; dup {
					continue
				}
				g.queryScratch[id] = struct{}{}
				buf = append(buf, e)
			}
		}
	}
	return buf
}

// Clear drops every cell and registration in one pass. This is O(total
// registrations), a cost paid once per frame by callers that rebuild.
func (g *Grid[T]) Clear() {
	clear(g.cells)
	clear(g.registered)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
