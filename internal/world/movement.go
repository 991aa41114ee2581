package world

// MoveKind is the closed set of enemy movement behaviors. Keeping it a typed
// enum rather than a string means a switch over it covers every behavior.
type MoveKind uint8

const (
	// MoveHoming steers toward the player every frame.
	MoveHoming MoveKind = iota
	// MoveStraight travels along a fixed angle until the lifetime expires.
	MoveStraight
)

func (k MoveKind) String() string {
	if k == MoveStraight {
		return "straight"
	}
	return "homing"
}

// Movement tags an enemy with its behavior. Angle is meaningful only for
// MoveStraight.
type Movement struct {
	Kind  MoveKind
	Angle float64
}

// Homing returns the pursuit movement tag.
func Homing() Movement {
	return Movement{Kind: MoveHoming}
}

// Straight returns a fixed-heading movement tag.
func Straight(angle float64) Movement {
	return Movement{Kind: MoveStraight, Angle: angle}
}
