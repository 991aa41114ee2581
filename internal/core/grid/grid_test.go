package grid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blob struct {
	id   int64
	x, y float64
	r    float64
}

func (b *blob) GridID() int64 { return b.id }

func (b *blob) Position() (float64, float64) { return b.x, b.y }

func (b *blob) GridRadius() float64 { return b.r }

func ids(entities []*blob) map[int64]bool {
	out := make(map[int64]bool, len(entities))
	for _, e := range entities {
		out[e.id] = true
	}
	return out
}

func TestLargeEntityFoundFromOverlappingCell(t *testing.T) {
	g := New[*blob](100)
	e := &blob{id: 1, x: 50, y: 50, r: 60}
	require.NoError(t, g.Insert(e))

	// The entity's circle reaches into the (1,1) cell, so a small query
	// there must still see it.
	near := g.GetNearby(140, 140, 10)
	assert.True(t, ids(near)[1], "query overlapping the entity circle must find it")

	// A far-away query must not.
	far := g.GetNearby(500, 500, 10)
	assert.False(t, ids(far)[1])
}

func TestPointEntityOccupiesOneCell(t *testing.T) {
	g := New[*blob](100)
	e := &blob{id: 7, x: 95, y: 5, r: 0}
	require.NoError(t, g.Insert(e))

	// Query centered in the adjacent cell with a radius too small to
	// reach back into the entity's cell: not found. This is the chosen
	// convention, not a defect.
	assert.False(t, ids(g.GetNearby(105, 5, 4))[7])

	// Once the query's own overlap rectangle includes the entity's cell,
	// it is found.
	assert.True(t, ids(g.GetNearby(105, 5, 15))[7])
}

func TestCompletenessRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := New[*blob](80)

	entities := make([]*blob, 0, 200)
	for i := 0; i < 200; i++ {
		e := &blob{
			id: int64(i + 1),
			x:  rng.Float64()*2000 - 1000,
			y:  rng.Float64()*2000 - 1000,
			r:  rng.Float64() * 120,
		}
		entities = append(entities, e)
		require.NoError(t, g.Insert(e))
	}

	for q := 0; q < 100; q++ {
		qx := rng.Float64()*2000 - 1000
		qy := rng.Float64()*2000 - 1000
		qr := rng.Float64() * 150

		found := ids(g.GetNearbyBuf(qx, qy, qr, nil))
		for _, e := range entities {
			dist := math.Hypot(e.x-qx, e.y-qy)
			if dist <= e.r+qr {
				assert.True(t, found[e.id],
					"entity %d at dist %.1f (reach %.1f) missing from query", e.id, dist, e.r+qr)
			}
		}
	}
}

func TestMultiCellEntityDeduplicated(t *testing.T) {
	g := New[*blob](50)
	e := &blob{id: 3, x: 50, y: 50, r: 70} // spans several cells
	require.NoError(t, g.Insert(e))

	got := g.GetNearby(50, 50, 100)
	count := 0
	for _, hit := range got {
		if hit.id == 3 {
			count++
		}
	}
	assert.Equal(t, 1, count, "entity spanning many cells must appear once")
}

func TestClearEmptiesEverything(t *testing.T) {
	g := New[*blob](100)
	for i := int64(1); i <= 20; i++ {
		require.NoError(t, g.Insert(&blob{id: i, x: float64(i) * 30, y: 0, r: 10}))
	}
	require.Equal(t, 20, g.Len())

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.GetNearby(0, 0, 10000))
}

func TestRemove(t *testing.T) {
	g := New[*blob](100)
	e := &blob{id: 5, x: 10, y: 10, r: 60}
	require.NoError(t, g.Insert(e))
	require.True(t, ids(g.GetNearby(10, 10, 5))[5])

	g.Remove(5)
	assert.False(t, ids(g.GetNearby(10, 10, 5))[5])
	assert.Equal(t, 0, g.Len())

	// Unknown id is a no-op.
	g.Remove(999)
	assert.Equal(t, 0, g.Len())
}

func TestUpdateMovesRegistration(t *testing.T) {
	g := New[*blob](100)
	e := &blob{id: 9, x: 10, y: 10, r: 5}
	require.NoError(t, g.Insert(e))

	e.x, e.y = 950, 950
	require.NoError(t, g.Update(e))

	assert.False(t, ids(g.GetNearby(10, 10, 20))[9], "stale registration must be gone")
	assert.True(t, ids(g.GetNearby(950, 950, 20))[9])
	assert.Equal(t, 1, g.Len())
}

func TestInsertExistingIDReplaces(t *testing.T) {
	g := New[*blob](100)
	e := &blob{id: 4, x: 10, y: 10, r: 5}
	require.NoError(t, g.Insert(e))

	e.x = 500
	require.NoError(t, g.Insert(e))

	assert.Equal(t, 1, g.Len())
	assert.False(t, ids(g.GetNearby(10, 10, 20))[4])
	assert.True(t, ids(g.GetNearby(500, 10, 20))[4])
}

func TestNonFiniteGeometryRejected(t *testing.T) {
	g := New[*blob](100)

	err := g.Insert(&blob{id: 1, x: math.NaN(), y: 0})
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.Equal(t, 0, g.Len())

	err = g.Insert(&blob{id: 2, x: 0, y: math.Inf(1)})
	assert.ErrorIs(t, err, ErrNonFinite)

	// A rejected update keeps the prior registration intact.
	e := &blob{id: 3, x: 10, y: 10, r: 5}
	require.NoError(t, g.Insert(e))
	e.x = math.NaN()
	assert.ErrorIs(t, g.Update(e), ErrNonFinite)
	assert.Equal(t, 1, g.Len())
	assert.True(t, ids(g.GetNearby(10, 10, 20))[3])

	// Degenerate queries return nothing rather than poisoning cell math.
	assert.Empty(t, g.GetNearby(math.NaN(), 0, 10))
}

func TestNegativeCoordinates(t *testing.T) {
	g := New[*blob](100)
	e := &blob{id: 1, x: -150, y: -150, r: 10}
	require.NoError(t, g.Insert(e))

	assert.True(t, ids(g.GetNearby(-150, -150, 5))[1])
	assert.False(t, ids(g.GetNearby(150, 150, 5))[1])
}

func TestFallbackCellSize(t *testing.T) {
	assert.Equal(t, DefaultCellSize, New[*blob](0).CellSize())
	assert.Equal(t, DefaultCellSize, New[*blob](-5).CellSize())
	assert.Equal(t, DefaultCellSize, New[*blob](math.NaN()).CellSize())
	assert.Equal(t, 25.0, New[*blob](25).CellSize())
}
