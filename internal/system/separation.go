package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/sim"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

type sepKey struct {
	cx, cy int32
}

// sepNeighbors is the minimal neighbor set that, with intra-cell pairing,
// visits every adjacent-cell pair exactly once. Scanning all eight would
// process each cross-cell pair twice.
var sepNeighbors = [4]sepKey{
	{1, 0},  // right
	{0, 1},  // down
	{1, 1},  // down-right
	{-1, 1}, // down-left
}

// SeparationSystem keeps enemies from stacking by applying a soft mutual
// push to overlapping pairs. It is an approximation, not rigid-body physics:
// each member moves half the overlap, scaled by force and frame time, so
// crowds relax over a few frames instead of popping apart.
type SeparationSystem struct {
	st  *world.State
	log *zap.Logger

	cellSize float64
	force    float64
	buffer   float64
	damping  float64 // velocity scale applied after a push; 0 = off

	buf   []*world.Enemy
	cells map[sepKey][]*world.Enemy
	keys  []sepKey // insertion order, so resolution order is deterministic
}

type SeparationConfig struct {
	CellSize float64
	Force    float64
	Buffer   float64
	Damping  float64
}

func NewSeparationSystem(st *world.State, cfg SeparationConfig, log *zap.Logger) *SeparationSystem {
	cellSize := cfg.CellSize
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = 150
	}
	return &SeparationSystem{
		st:       st,
		log:      log,
		cellSize: cellSize,
		force:    cfg.Force,
		buffer:   cfg.Buffer,
		damping:  cfg.Damping,
		cells:    make(map[sepKey][]*world.Enemy),
	}
}

func (s *SeparationSystem) Phase() sim.Phase { return sim.PhaseSeparation }

func (s *SeparationSystem) Update(dt time.Duration) {
	now := s.st.Elapsed

	// Candidates: active, not dying, not mid-knockback. Knocked-back
	// enemies are already being flung; separating them fights the shove.
	s.buf = s.st.Enemies.ActiveInto(s.buf)
	n := 0
	for _, e := range s.buf {
		if e.Dying || e.KnockedBack(now) {
			continue
		}
		s.buf[n] = e
		n++
	}
	candidates := s.buf[:n]
	if len(candidates) < 2 {
		return
	}

	// Ad hoc partition rebuilt from scratch each frame; coarser cells
	// than the contact grid since only local crowding matters.
	clear(s.cells)
	s.keys = s.keys[:0]
	for _, e := range candidates {
		k := sepKey{
			cx: int32(math.Floor(e.Pos.X / s.cellSize)),
			cy: int32(math.Floor(e.Pos.Y / s.cellSize)),
		}
		if _, ok := s.cells[k]; !ok {
			s.keys = append(s.keys, k)
		}
		s.cells[k] = append(s.cells[k], e)
	}

	step := dt.Seconds()
	for _, k := range s.keys {
		bucket := s.cells[k]
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				s.resolve(bucket[i], bucket[j], step)
			}
		}
		for _, d := range sepNeighbors {
			neighbor := s.cells[sepKey{cx: k.cx + d.cx, cy: k.cy + d.cy}]
			for _, a := range bucket {
				for _, b := range neighbor {
					s.resolve(a, b, step)
				}
			}
		}
	}
}

func (s *SeparationSystem) resolve(a, b *world.Enemy, step float64) {
	delta := b.Pos.Sub(a.Pos)
	dist := delta.Len()
	combined := a.HitboxRadius + b.HitboxRadius + s.buffer
	if dist >= combined {
		return
	}

	var dir vec.Vec2
	if dist > 0 {
		dir = delta.Scale(1 / dist)
	} else {
		dir = vec.New(1, 0) // coincident centers: deterministic axis
	}

	push := (combined - dist) / 2 * s.force * step
	a.Pos = s.st.Arena.Clamp(a.Pos.Sub(dir.Scale(push)))
	b.Pos = s.st.Arena.Clamp(b.Pos.Add(dir.Scale(push)))

	if s.damping > 0 {
		a.Vel = a.Vel.Scale(s.damping)
		b.Vel = b.Vel.Scale(s.damping)
	}
}
