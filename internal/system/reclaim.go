package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/event"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/sim"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

// ReclaimSystem returns dying enemies to the pool at the end of the frame.
// It collects first and releases after, so the release never mutates a
// collection another system is still ranging over.
type ReclaimSystem struct {
	st  *world.State
	log *zap.Logger

	doomed []*world.Enemy
	causes []event.ReclaimCause
}

func NewReclaimSystem(st *world.State, log *zap.Logger) *ReclaimSystem {
	return &ReclaimSystem{st: st, log: log}
}

func (s *ReclaimSystem) Phase() sim.Phase { return sim.PhaseCleanup }

func (s *ReclaimSystem) Update(dt time.Duration) {
	s.doomed = s.doomed[:0]
	s.causes = s.causes[:0]

	now := s.st.Elapsed
	for _, e := range s.st.ActiveEnemies() {
		if e.Dying {
			s.doomed = append(s.doomed, e)
			s.causes = append(s.causes, event.CauseKilled)
			continue
		}
		if e.Expired(now) {
			// Flag here so a same-frame damage call cannot queue the
			// enemy a second time.
			e.Dying = true
			s.doomed = append(s.doomed, e)
			s.causes = append(s.causes, event.CauseExpired)
		}
	}

	for i, e := range s.doomed {
		// Release resets the enemy; capture what the event needs first.
		id, typeID := e.ID, e.TypeID
		if err := s.st.Enemies.Release(e); err != nil {
			s.log.Warn("enemy release failed",
				zap.Int64("id", id), zap.Error(err))
			continue
		}
		s.st.Stats.TotalReclaimed++
		event.Emit(s.st.Bus, event.EnemyReclaimed{
			ID:     id,
			TypeID: typeID,
			Cause:  s.causes[i],
			Tick:   s.st.Tick,
		})
	}
}
