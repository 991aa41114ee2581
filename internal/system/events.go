package system

import (
	"time"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/event"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/sim"
)

// EventFlushSystem delivers the tick's queued events as the final phase, so
// subscribers observe each frame's events exactly once and in order.
type EventFlushSystem struct {
	bus *event.Bus
}

func NewEventFlushSystem(bus *event.Bus) *EventFlushSystem {
	return &EventFlushSystem{bus: bus}
}

func (s *EventFlushSystem) Phase() sim.Phase { return sim.PhaseOutput }

func (s *EventFlushSystem) Update(dt time.Duration) {
	s.bus.Flush()
}
