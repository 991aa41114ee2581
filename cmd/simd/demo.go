package main

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/sim"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

// The two systems below stand in for a real game client. pilotSystem
// supplies player motion, autoWeapon supplies damage output, so a headless
// run produces full wave pressure, kills, and reclaims end to end.

const pilotRetargetEvery = 2 * time.Second

// pilotSystem wanders the player around the arena so viewport-relative
// spawn placement gets exercised. Hosts with real input drop it.
type pilotSystem struct {
	st    *world.State
	speed float64

	heading  vec.Vec2
	retarget time.Duration
}

func newPilotSystem(st *world.State, speed float64) *pilotSystem {
	return &pilotSystem{st: st, speed: speed}
}

func (p *pilotSystem) Phase() sim.Phase { return sim.PhaseInput }

func (p *pilotSystem) Update(dt time.Duration) {
	p.retarget -= dt
	if p.retarget <= 0 {
		p.heading = vec.FromAngle(p.st.Rng.Float64() * 2 * math.Pi)
		p.retarget = pilotRetargetEvery
	}
	step := p.heading.Scale(p.speed * dt.Seconds())
	p.st.Player.Pos = p.st.Arena.Clamp(p.st.Player.Pos.Add(step))
}

const (
	weaponKnockbackSpeed = 260.0
	weaponKnockbackTime  = 150 * time.Millisecond
)

type weaponConfig struct {
	Range      float64
	Damage     float64
	Cooldown   time.Duration
	MaxTargets int
}

// autoWeapon swings at the nearest enemies on a cooldown. It reads the grid
// as rebuilt by the previous frame's contact pass, so a candidate can be one
// frame stale; the exact distance check filters those out.
type autoWeapon struct {
	st  *world.State
	cfg weaponConfig
	log *zap.Logger

	lastSwing time.Duration
	buf       []*world.Enemy
}

func newAutoWeapon(st *world.State, cfg weaponConfig, log *zap.Logger) *autoWeapon {
	return &autoWeapon{
		st:        st,
		cfg:       cfg,
		log:       log,
		lastSwing: -cfg.Cooldown,
	}
}

func (w *autoWeapon) Phase() sim.Phase { return sim.PhaseInput }

func (w *autoWeapon) Update(dt time.Duration) {
	if w.st.Elapsed-w.lastSwing < w.cfg.Cooldown {
		return
	}
	player := w.st.Player
	w.buf = w.st.Grid.GetNearbyBuf(player.Pos.X, player.Pos.Y, w.cfg.Range, w.buf[:0])

	n := 0
	for _, e := range w.buf {
		if e.Dying {
			continue
		}
		if e.Pos.Dist(player.Pos) > w.cfg.Range+e.HitboxRadius {
			continue
		}
		w.buf[n] = e
		n++
	}
	hits := w.buf[:n]
	if len(hits) == 0 {
		// Like the contact gate, the cooldown only advances on a real swing.
		return
	}

	sort.Slice(hits, func(i, j int) bool {
		di := hits[i].Pos.DistSq(player.Pos)
		dj := hits[j].Pos.DistSq(player.Pos)
		if di != dj {
			return di < dj
		}
		return hits[i].ID < hits[j].ID
	})
	if w.cfg.MaxTargets > 0 && len(hits) > w.cfg.MaxTargets {
		hits = hits[:w.cfg.MaxTargets]
	}

	for _, e := range hits {
		killed := e.TakeDamage(w.cfg.Damage)
		dir := e.Pos.Sub(player.Pos)
		if dir.LenSq() == 0 {
			dir = vec.New(1, 0)
		}
		e.ApplyKnockback(dir, weaponKnockbackSpeed, w.st.Elapsed+weaponKnockbackTime)
		if killed {
			w.log.Debug("weapon kill",
				zap.Int64("enemy", e.ID),
				zap.String("type", e.TypeID))
		}
	}
	w.lastSwing = w.st.Elapsed
}
