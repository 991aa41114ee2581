// Package sim schedules the per-frame systems of the simulation.
package sim

import "time"

// Phase fixes the within-tick execution order. The order is a correctness
// contract: spawning happens before damage is applied, contact damage reads
// positions before separation mutates them, and reclaim runs last so deaths
// flagged anywhere in the frame become pool capacity before the next spawn
// pass.
type Phase int

const (
	// PhaseSpawn creates new active enemies.
	PhaseSpawn Phase = iota
	// PhaseInput is the host's slot: weapon fire, knockback, external damage.
	PhaseInput
	// PhaseUpdate advances positions.
	PhaseUpdate
	// PhaseCollision resolves player contact damage.
	PhaseCollision
	// PhaseSeparation pushes overlapping enemies apart.
	PhaseSeparation
	// PhaseCleanup reclaims dead and expired enemies.
	PhaseCleanup
	// PhaseOutput flushes events to subscribers.
	PhaseOutput
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawn:
		return "spawn"
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhaseCollision:
		return "collision"
	case PhaseSeparation:
		return "separation"
	case PhaseCleanup:
		return "cleanup"
	case PhaseOutput:
		return "output"
	default:
		return "unknown"
	}
}

// System is one per-frame unit of work. Update receives the time elapsed
// since the previous tick; the runner passes it through unclamped — hosts
// needing determinism fix the step before ticking.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
