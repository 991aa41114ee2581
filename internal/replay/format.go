// Package replay records simulation runs as a stream of msgpack frames so
// balance changes can be compared against captured sessions. The file layout
// is a header followed by frames, each block length-prefixed with a
// big-endian uint32.
package replay

// FormatVersion is bumped whenever the header or frame layout changes.
const FormatVersion = 1

// Header opens every replay file.
type Header struct {
	Version   int    `msgpack:"v"`
	Seed      int64  `msgpack:"seed"`
	TickRate  int64  `msgpack:"rate"` // nanoseconds per tick
	StartedAt int64  `msgpack:"at"`   // unix milliseconds
	Notes     string `msgpack:"n,omitempty"`
}

// SpawnRec is one enemy entering play.
type SpawnRec struct {
	ID     int64   `msgpack:"id"`
	TypeID string  `msgpack:"t"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	Elite  bool    `msgpack:"e,omitempty"`
}

// DamageRec is one contact damage application.
type DamageRec struct {
	Amount   float64 `msgpack:"a"`
	Touching int     `msgpack:"n"`
}

// Frame captures one sampled tick. Spawns, reclaims, and damage cover every
// tick since the previous frame, so sampling never drops population changes.
type Frame struct {
	Tick      uint64      `msgpack:"tk"`
	ElapsedMS int64       `msgpack:"el"`
	PlayerX   float64     `msgpack:"px"`
	PlayerY   float64     `msgpack:"py"`
	Health    float64     `msgpack:"hp"`
	Active    int         `msgpack:"ac"`
	Spawns    []SpawnRec  `msgpack:"sp,omitempty"`
	Reclaims  []int64     `msgpack:"rc,omitempty"`
	Damage    []DamageRec `msgpack:"dm,omitempty"`
}
