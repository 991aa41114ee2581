package world

import (
	"math/rand"
	"time"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/event"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/grid"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/pool"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"
)

// Viewport is the visible area, centered on the player. The host refreshes
// it every frame; spawn placement reads the current value, never a cached
// one.
type Viewport struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned box in world coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Clamp returns v constrained to the rect. A degenerate rect (no area)
// disables clamping.
func (r Rect) Clamp(v vec.Vec2) vec.Vec2 {
	if r.MaxX <= r.MinX || r.MaxY <= r.MinY {
		return v
	}
	if v.X < r.MinX {
		v.X = r.MinX
	} else if v.X > r.MaxX {
		v.X = r.MaxX
	}
	if v.Y < r.MinY {
		v.Y = r.MinY
	} else if v.Y > r.MaxY {
		v.Y = r.MaxY
	}
	return v
}

// Contains reports whether v lies inside the rect (boundary included).
func (r Rect) Contains(v vec.Vec2) bool {
	return v.X >= r.MinX && v.X <= r.MaxX && v.Y >= r.MinY && v.Y <= r.MaxY
}

// WaveStat records what one wave produced while it was in effect.
type WaveStat struct {
	Wave       int
	ReachedAt  time.Duration
	Spawned    int
	PeakActive int
}

// Stats accumulates run-level counters for diagnostics and the run store.
// Gameplay logic never reads these.
type Stats struct {
	TotalSpawned   int
	TotalReclaimed int
	ElitesSpawned  int
	PeakActive     int
	DamageToPlayer float64
	DamageTicks    int
	Waves          []WaveStat
}

// CurrentWave returns the stat record for the wave most recently started,
// or nil before the first wave.
func (s *Stats) CurrentWave() *WaveStat {
	if len(s.Waves) == 0 {
		return nil
	}
	return &s.Waves[len(s.Waves)-1]
}

// Params configures a new State.
type Params struct {
	PoolSize     int
	GridCellSize float64
	Seed         int64
	Viewport     Viewport
	Arena        Rect
	PlayerRadius float64
	PlayerHealth float64
}

// State is the complete mutable simulation state: the player, the enemy
// pool, the contact grid, and the clocks. Owned by the game loop goroutine
// and mutated in place; no locks, no concurrent writers.
type State struct {
	Player   *Player
	Enemies  *pool.Manager[*Enemy]
	Grid     *grid.Grid[*Enemy]
	Bus      *event.Bus
	Viewport Viewport
	Arena    Rect

	// Elapsed is accumulated tick time, the survival clock every system
	// keys on. Tick counts frames.
	Elapsed time.Duration
	Tick    uint64

	// Rng drives every random draw so a fixed seed reproduces spawn
	// decisions.
	Rng *rand.Rand

	Stats Stats

	nextID int64
}

// NewState builds the state container. Seed is used as given; hosts wanting
// varied runs derive one from the clock first.
func NewState(p Params) *State {
	st := &State{
		Player: &Player{
			HitboxRadius: p.PlayerRadius,
			Health:       p.PlayerHealth,
			MaxHealth:    p.PlayerHealth,
		},
		Bus:      event.NewBus(),
		Viewport: p.Viewport,
		Arena:    p.Arena,
		Rng:      rand.New(rand.NewSource(p.Seed)),
	}
	st.Grid = grid.New[*Enemy](p.GridCellSize)
	st.Enemies = pool.New(p.PoolSize, st.newEnemy, func(e *Enemy) error {
		e.Reset()
		return nil
	})
	return st
}

// newEnemy is the pool factory. IDs are never reused across slots.
func (s *State) newEnemy() *Enemy {
	s.nextID++
	return &Enemy{ID: s.nextID}
}

// BeginTick advances the clocks. The host calls it once per frame, before
// running the systems.
func (s *State) BeginTick(dt time.Duration) {
	s.Tick++
	s.Elapsed += dt
}

// Minute returns the elapsed survival time in whole minutes.
func (s *State) Minute() int {
	return int(s.Elapsed.Minutes())
}

// ActiveEnemies returns a read-only snapshot of the enemies in play. The
// pool may be mutated while ranging over it.
func (s *State) ActiveEnemies() []*Enemy {
	return s.Enemies.Active()
}

// ViewportRect returns the viewport rectangle centered on the player's
// current position.
func (s *State) ViewportRect() Rect {
	halfW := s.Viewport.Width / 2
	halfH := s.Viewport.Height / 2
	return Rect{
		MinX: s.Player.Pos.X - halfW,
		MinY: s.Player.Pos.Y - halfH,
		MaxX: s.Player.Pos.X + halfW,
		MaxY: s.Player.Pos.Y + halfH,
	}
}
