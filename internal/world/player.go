package world

import "github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"

// Player is the single session combatant. Not pooled.
type Player struct {
	Pos          vec.Vec2
	HitboxRadius float64
	Health       float64
	MaxHealth    float64
}

// ApplyDamage subtracts health, flooring at zero.
func (p *Player) ApplyDamage(amount float64) {
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
}

func (p *Player) Alive() bool {
	return p.Health > 0
}
