package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/sim"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

// knockbackDamping bleeds knockback velocity off per second so a shoved
// enemy glides to a stop instead of coasting forever.
const knockbackDamping = 4.0

// MovementSystem advances enemy positions: homing enemies steer toward the
// player, straight movers hold their spawn heading, knocked-back enemies
// ride their velocity until the knockback window closes.
type MovementSystem struct {
	st  *world.State
	log *zap.Logger
	buf []*world.Enemy
}

func NewMovementSystem(st *world.State, log *zap.Logger) *MovementSystem {
	return &MovementSystem{st: st, log: log}
}

func (s *MovementSystem) Phase() sim.Phase { return sim.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	now := s.st.Elapsed
	step := dt.Seconds()
	player := s.st.Player.Pos

	s.buf = s.st.Enemies.ActiveInto(s.buf)
	for _, e := range s.buf {
		if e.Dying {
			continue
		}
		if e.KnockedBack(now) {
			e.Pos = s.st.Arena.Clamp(e.Pos.Add(e.Vel.Scale(step)))
			e.Vel = e.Vel.Scale(1 - min(knockbackDamping*step, 1))
			continue
		}

		var dir vec.Vec2
		switch e.Movement.Kind {
		case world.MoveHoming:
			dir = player.Sub(e.Pos).Norm()
		case world.MoveStraight:
			dir = vec.FromAngle(e.Movement.Angle)
		}
		e.Pos = s.st.Arena.Clamp(e.Pos.Add(dir.Scale(e.Speed * step)))
	}
}
