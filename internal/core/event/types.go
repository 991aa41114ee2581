package event

// Simulation event types. All carry the tick they were emitted on so
// subscribers can group per frame.

// EnemySpawned fires once per enemy entering play.
type EnemySpawned struct {
	ID     int64
	TypeID string
	X, Y   float64
	Elite  bool
	Tick   uint64
}

// EnemyReclaimed fires when a dead or expired enemy returns to the pool.
type EnemyReclaimed struct {
	ID     int64
	TypeID string
	Cause  ReclaimCause
	Tick   uint64
}

type ReclaimCause uint8

const (
	CauseKilled ReclaimCause = iota
	CauseExpired
)

func (c ReclaimCause) String() string {
	if c == CauseExpired {
		return "expired"
	}
	return "killed"
}

// PlayerDamaged fires on each contact damage tick, after the sum of all
// touching enemies' damage has been applied.
type PlayerDamaged struct {
	Amount   float64
	Touching int
	Tick     uint64
}

// WaveStarted fires when the elapsed-minute lookup moves to a new wave.
type WaveStarted struct {
	Wave       int
	Minute     int
	MinEnemies int
	MaxEnemies int
	Tick       uint64
}

// EliteSpawned fires alongside EnemySpawned for elite-scaled enemies.
type EliteSpawned struct {
	ID     int64
	TypeID string
	Tick   uint64
}
