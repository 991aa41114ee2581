package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/event"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/sim"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

// ContactDamageSystem applies player-contact damage from all simultaneously
// touching enemies, once per damage interval, however many are touching.
// Damage is summed first and gated globally — one bursty, readable tick
// instead of N staggered per-enemy cooldowns.
type ContactDamageSystem struct {
	st  *world.State
	log *zap.Logger

	interval time.Duration // gate between damage applications
	margin   float64       // query slack past the radii

	// lastApplied starts one interval in the past so first contact ticks
	// immediately.
	lastApplied time.Duration

	buf  []*world.Enemy
	qbuf []*world.Enemy
}

func NewContactDamageSystem(st *world.State, interval time.Duration, margin float64, log *zap.Logger) *ContactDamageSystem {
	return &ContactDamageSystem{
		st:          st,
		log:         log,
		interval:    interval,
		margin:      margin,
		lastApplied: -interval,
	}
}

func (s *ContactDamageSystem) Phase() sim.Phase { return sim.PhaseCollision }

func (s *ContactDamageSystem) Update(dt time.Duration) {
	g := s.st.Grid

	// Rebuild the grid from this frame's active, non-dying enemies,
	// tracking the largest hitbox seen. Hardcoding an assumed maximum
	// would silently miss a bigger type added later.
	g.Clear()
	maxRadius := 0.0
	s.buf = s.st.Enemies.ActiveInto(s.buf)
	for _, e := range s.buf {
		if e.Dying {
			continue
		}
		if err := g.Insert(e); err != nil {
			s.log.Warn("enemy excluded from contact grid",
				zap.Int64("id", e.ID), zap.Error(err))
			continue
		}
		if e.HitboxRadius > maxRadius {
			maxRadius = e.HitboxRadius
		}
	}

	player := s.st.Player
	s.qbuf = g.GetNearbyBuf(player.Pos.X, player.Pos.Y,
		player.HitboxRadius+maxRadius+s.margin, s.qbuf)

	total := 0.0
	touching := 0
	for _, e := range s.qbuf {
		if e.Dying {
			continue
		}
		if player.Pos.Dist(e.Pos) < player.HitboxRadius+e.HitboxRadius {
			total += e.Damage
			touching++
		}
	}
	if touching == 0 {
		return
	}
	if s.st.Elapsed-s.lastApplied < s.interval {
		return
	}
	s.lastApplied = s.st.Elapsed

	player.ApplyDamage(total)
	s.st.Stats.DamageToPlayer += total
	s.st.Stats.DamageTicks++
	event.Emit(s.st.Bus, event.PlayerDamaged{
		Amount:   total,
		Touching: touching,
		Tick:     s.st.Tick,
	})
	s.log.Debug("contact damage tick",
		zap.Float64("amount", total),
		zap.Int("touching", touching),
		zap.Float64("player_health", player.Health))
}
