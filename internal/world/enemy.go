package world

import (
	"time"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/data"
)

// Enemy is one pooled combatant. The instance identity is stable for the
// pool slot's lifetime; Spawn re-initializes every gameplay field when the
// slot re-enters play. Whether the enemy is in play is tracked by the pool,
// not by the enemy itself.
type Enemy struct {
	ID int64 // stable per pool slot

	Pos vec.Vec2
	Vel vec.Vec2 // knockback velocity; zero while steering normally

	Health       float64
	MaxHealth    float64
	Damage       float64
	Speed        float64
	HitboxRadius float64

	Movement Movement
	TypeID   string
	Elite    bool

	SpawnedAt time.Duration // sim time the slot entered play
	Lifetime  time.Duration // straight movers expire after this; 0 = never

	// Dying is set exactly once, the moment health crosses zero or the
	// lifetime expires. It is the single authority the reclaim pass
	// consults, so an enemy can never be released twice.
	Dying bool

	KnockbackUntil time.Duration
}

// Spawn re-initializes the enemy from a type descriptor.
func (e *Enemy) Spawn(tpl *data.EnemyType, pos vec.Vec2, mv Movement, now time.Duration) {
	e.Pos = pos
	e.Vel = vec.Vec2{}
	e.Health = tpl.Health
	e.MaxHealth = tpl.Health
	e.Damage = tpl.Damage
	e.Speed = tpl.Speed
	e.HitboxRadius = tpl.Size
	e.Movement = mv
	e.TypeID = tpl.ID
	e.Elite = false
	e.SpawnedAt = now
	e.Lifetime = time.Duration(tpl.LifetimeSec * float64(time.Second))
	e.Dying = false
	e.KnockbackUntil = 0
}

// TakeDamage subtracts health and reports whether this call killed the
// enemy. Death only flags the enemy; the reclaim pass releases it later.
// Calls on an already-dying enemy change nothing.
func (e *Enemy) TakeDamage(amount float64) bool {
	if e.Dying {
		return false
	}
	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		e.Dying = true
		return true
	}
	return false
}

// Expired reports whether a lifetime-limited enemy has outlived it.
func (e *Enemy) Expired(now time.Duration) bool {
	return e.Lifetime > 0 && now-e.SpawnedAt >= e.Lifetime
}

// ApplyKnockback overrides steering with a velocity until the given sim
// time.
func (e *Enemy) ApplyKnockback(dir vec.Vec2, speed float64, until time.Duration) {
	e.Vel = dir.Norm().Scale(speed)
	e.KnockbackUntil = until
}

// KnockedBack reports whether knockback currently overrides steering.
func (e *Enemy) KnockedBack(now time.Duration) bool {
	return now < e.KnockbackUntil
}

// Reset returns the enemy to the blank pooled state. The ID survives.
func (e *Enemy) Reset() {
	id := e.ID
	*e = Enemy{ID: id}
}

// GridID implements grid.Entity.
func (e *Enemy) GridID() int64 { return e.ID }

// Position implements grid.Entity.
func (e *Enemy) Position() (float64, float64) { return e.Pos.X, e.Pos.Y }

// GridRadius implements grid.Entity.
func (e *Enemy) GridRadius() float64 { return e.HitboxRadius }
