package replay

import (
	"go.uber.org/zap"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/event"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

// Tap listens to the simulation's event bus and turns ticks into replay
// frames. The host calls Commit once per tick, after the systems ran and the
// bus flushed.
type Tap struct {
	rec    *Recorder
	log    *zap.Logger
	sample uint64

	spawns   []SpawnRec
	reclaims []int64
	damage   []DamageRec

	// failed latches on the first write error so one bad disk does not
	// log every tick for the rest of the run.
	failed bool
}

// NewTap subscribes to bus. sampleEvery records every Nth tick; events from
// skipped ticks carry over into the next recorded frame.
func NewTap(rec *Recorder, bus *event.Bus, sampleEvery int, log *zap.Logger) *Tap {
	if sampleEvery < 1 {
		sampleEvery = 1
	}
	t := &Tap{rec: rec, log: log, sample: uint64(sampleEvery)}

	event.Subscribe(bus, func(ev event.EnemySpawned) {
		t.spawns = append(t.spawns, SpawnRec{
			ID: ev.ID, TypeID: ev.TypeID, X: ev.X, Y: ev.Y, Elite: ev.Elite,
		})
	})
	event.Subscribe(bus, func(ev event.EnemyReclaimed) {
		t.reclaims = append(t.reclaims, ev.ID)
	})
	event.Subscribe(bus, func(ev event.PlayerDamaged) {
		t.damage = append(t.damage, DamageRec{Amount: ev.Amount, Touching: ev.Touching})
	})
	return t
}

// Commit records the tick if it falls on the sample boundary.
func (t *Tap) Commit(st *world.State) {
	if st.Tick%t.sample != 0 {
		return
	}
	t.write(st)
}

// Final forces a frame out regardless of sampling, for the moment the run
// ends.
func (t *Tap) Final(st *world.State) {
	t.write(st)
}

func (t *Tap) write(st *world.State) {
	if t.failed {
		return
	}
	f := &Frame{
		Tick:      st.Tick,
		ElapsedMS: st.Elapsed.Milliseconds(),
		PlayerX:   st.Player.Pos.X,
		PlayerY:   st.Player.Pos.Y,
		Health:    st.Player.Health,
		Active:    st.Enemies.ActiveCount(),
		Spawns:    t.spawns,
		Reclaims:  t.reclaims,
		Damage:    t.damage,
	}
	if err := t.rec.WriteFrame(f); err != nil {
		t.failed = true
		t.log.Error("replay recording stopped", zap.Error(err))
		return
	}
	t.spawns = nil
	t.reclaims = nil
	t.damage = nil
}
