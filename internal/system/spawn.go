package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/event"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/data"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/scripting"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/sim"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

// SpawnConfig carries the tunables the spawn system needs beyond the wave
// table itself.
type SpawnConfig struct {
	SpawnMargin      float64       // distance past the viewport edge
	EliteInterval    time.Duration // survival time between elite spawns; 0 disables
	EliteHealthScale float64
	EliteDamageScale float64
	EliteSizeScale   float64
}

// SpawnSystem keeps the active-enemy population, composition, and cadence
// aligned with the wave table. It owns spawning; ReclaimSystem owns the
// matching release.
type SpawnSystem struct {
	st       *world.State
	log      *zap.Logger
	enemies  *data.EnemyTable
	waves    *data.WaveTable
	director *scripting.Director // optional; nil = no mods
	cfg      SpawnConfig

	waveIdx    int // -1 until the first lookup
	mods       scripting.WaveMods
	sinceSpawn time.Duration

	// sinceElite advances only with survival time and is clamped at the
	// elite interval, so it stays bounded over arbitrarily long sessions.
	// It resets to zero whenever an elite goes out.
	sinceElite time.Duration

	lastGrown int
}

func NewSpawnSystem(
	st *world.State,
	enemies *data.EnemyTable,
	waves *data.WaveTable,
	director *scripting.Director,
	cfg SpawnConfig,
	log *zap.Logger,
) *SpawnSystem {
	return &SpawnSystem{
		st:       st,
		log:      log,
		enemies:  enemies,
		waves:    waves,
		director: director,
		cfg:      cfg,
		waveIdx:  -1,
	}
}

func (s *SpawnSystem) Phase() sim.Phase { return sim.PhaseSpawn }

func (s *SpawnSystem) Update(dt time.Duration) {
	minute := s.st.Minute()
	idx, wave := s.waves.ForMinute(minute)
	if idx != s.waveIdx {
		s.startWave(idx, wave, minute)
	}

	if s.cfg.EliteInterval > 0 {
		s.sinceElite += dt
		if s.sinceElite > s.cfg.EliteInterval {
			s.sinceElite = s.cfg.EliteInterval
		}
	}

	minEnemies := wave.MinEnemies + s.mods.MinEnemiesBonus
	if minEnemies < 0 {
		minEnemies = 0
	}
	maxEnemies := wave.MaxEnemies + s.mods.MaxEnemiesBonus
	if maxEnemies < minEnemies {
		maxEnemies = minEnemies
	}
	interval := wave.Interval()
	if s.mods.SpawnIntervalScale > 0 {
		interval = time.Duration(float64(interval) * s.mods.SpawnIntervalScale)
	}
	// A script could scale the cadence below one tick; the drain loop
	// below must still terminate.
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	active := s.st.Enemies.ActiveCount()
	want := 0
	if active < minEnemies {
		// Below the floor: refill in one burst.
		want = minEnemies - active
	} else {
		// At or above the floor: opportunistic cadence spawning.
		s.sinceSpawn += dt
		for s.sinceSpawn >= interval {
			s.sinceSpawn -= interval
			want += wave.BatchSize
		}
	}

	// Never exceed the wave ceiling.
	if headroom := maxEnemies - active; want > headroom {
		want = headroom
	}
	if want <= 0 {
		return
	}

	elitePending := wave.Elite && s.cfg.EliteInterval > 0 &&
		s.sinceElite >= s.cfg.EliteInterval

	spawned := 0
	for i := 0; i < want; i++ {
		if s.spawnOne(wave, elitePending && spawned == 0) {
			spawned++
		}
	}
	if elitePending && spawned > 0 {
		s.sinceElite = 0
	}

	s.st.Stats.TotalSpawned += spawned
	if cw := s.st.Stats.CurrentWave(); cw != nil {
		cw.Spawned += spawned
	}
	s.notePopulation()

	if spawned > 0 {
		s.log.Debug("spawn burst",
			zap.Int("count", spawned),
			zap.Int("active", s.st.Enemies.ActiveCount()),
			zap.Int("wave", s.waveIdx))
	}

	if grown := s.st.Enemies.Grown(); grown > s.lastGrown {
		// Exhaustion is handled by construction; the count is for tuning.
		s.log.Debug("enemy pool grew",
			zap.Int("grown", grown-s.lastGrown),
			zap.Int("total", s.st.Enemies.TotalCount()))
		s.lastGrown = grown
	}
}

func (s *SpawnSystem) startWave(idx int, wave *data.Wave, minute int) {
	s.waveIdx = idx
	s.sinceSpawn = 0
	s.mods = scripting.WaveMods{}
	if s.director != nil {
		s.mods = s.director.OnWaveStart(scripting.WaveContext{
			Wave:         idx,
			Minute:       minute,
			Active:       s.st.Enemies.ActiveCount(),
			TotalSpawned: s.st.Stats.TotalSpawned,
		})
	}

	s.st.Stats.Waves = append(s.st.Stats.Waves, world.WaveStat{
		Wave:      idx,
		ReachedAt: s.st.Elapsed,
	})
	event.Emit(s.st.Bus, event.WaveStarted{
		Wave:       idx,
		Minute:     minute,
		MinEnemies: wave.MinEnemies + s.mods.MinEnemiesBonus,
		MaxEnemies: wave.MaxEnemies + s.mods.MaxEnemiesBonus,
		Tick:       s.st.Tick,
	})
	s.log.Info("wave started",
		zap.Int("wave", idx),
		zap.Int("minute", minute),
		zap.Int("min_enemies", wave.MinEnemies+s.mods.MinEnemiesBonus),
		zap.Int("max_enemies", wave.MaxEnemies+s.mods.MaxEnemiesBonus),
		zap.Bool("elite", wave.Elite))
}

func (s *SpawnSystem) spawnOne(wave *data.Wave, elite bool) bool {
	tpl := s.pickType(wave)
	pos, ok := s.spawnPosition()
	if !ok {
		return false
	}

	e := s.st.Enemies.Acquire()
	e.Spawn(tpl, pos, s.movementFor(tpl, pos), s.st.Elapsed)
	if elite {
		s.makeElite(e)
	}

	event.Emit(s.st.Bus, event.EnemySpawned{
		ID:     e.ID,
		TypeID: e.TypeID,
		X:      e.Pos.X,
		Y:      e.Pos.Y,
		Elite:  e.Elite,
		Tick:   s.st.Tick,
	})
	return true
}

// pickType draws from the wave's eligible set, weighted by spawn weight. An
// empty set, unknown ids, or all-zero weights fall back to the basic type
// rather than failing the spawn.
func (s *SpawnSystem) pickType(wave *data.Wave) *data.EnemyType {
	total := 0
	for _, id := range wave.Types {
		if t := s.enemies.Get(id); t != nil {
			total += t.SpawnWeight
		}
	}
	if total <= 0 {
		return s.enemies.Basic()
	}
	roll := s.st.Rng.Intn(total)
	for _, id := range wave.Types {
		t := s.enemies.Get(id)
		if t == nil || t.SpawnWeight <= 0 {
			continue
		}
		roll -= t.SpawnWeight
		if roll < 0 {
			return t
		}
	}
	return s.enemies.Basic()
}

// spawnPosition picks a point strictly outside the viewport: player position
// plus an independently drawn direction times the spawn ring radius. Both
// the player position and the viewport are read fresh for every spawn — a
// ring computed once would drift on-screen as the player moves. A non-finite
// result means the player position or viewport is corrupt; the spawn is
// skipped rather than placed somewhere made up, since NaN reaching movement
// would silently disable every future collision check for that enemy.
func (s *SpawnSystem) spawnPosition() (vec.Vec2, bool) {
	vw := s.st.Viewport.Width
	vh := s.st.Viewport.Height
	ring := math.Max(vw, vh)/2 + s.cfg.SpawnMargin

	// A margin smaller than the viewport's diagonal slack would let
	// diagonal draws land inside the corner region; floor the ring at
	// the corner distance.
	if corner := math.Hypot(vw, vh) / 2; ring <= corner {
		ring = corner + 1
	}

	angle := s.st.Rng.Float64() * 2 * math.Pi
	pos := s.st.Player.Pos.Add(vec.FromAngle(angle).Scale(ring))
	if !pos.IsFinite() {
		s.log.Warn("non-finite spawn position, skipping spawn",
			zap.Float64("angle", angle),
			zap.Float64("ring", ring))
		return vec.Vec2{}, false
	}
	return pos, true
}

// movementFor tags straight movers with a heading toward the player's
// current position so they always cross the play field; everything else
// homes.
func (s *SpawnSystem) movementFor(tpl *data.EnemyType, from vec.Vec2) world.Movement {
	if tpl.Movement == "straight" {
		return world.Straight(s.st.Player.Pos.Sub(from).Angle())
	}
	return world.Homing()
}

func (s *SpawnSystem) makeElite(e *world.Enemy) {
	e.Elite = true
	e.Health *= s.cfg.EliteHealthScale
	e.MaxHealth = e.Health
	e.Damage *= s.cfg.EliteDamageScale
	e.HitboxRadius *= s.cfg.EliteSizeScale

	s.st.Stats.ElitesSpawned++
	event.Emit(s.st.Bus, event.EliteSpawned{
		ID:     e.ID,
		TypeID: e.TypeID,
		Tick:   s.st.Tick,
	})
	s.log.Info("elite spawned",
		zap.Int64("id", e.ID),
		zap.String("type", e.TypeID),
		zap.Float64("health", e.Health))
}

func (s *SpawnSystem) notePopulation() {
	active := s.st.Enemies.ActiveCount()
	if active > s.st.Stats.PeakActive {
		s.st.Stats.PeakActive = active
	}
	if cw := s.st.Stats.CurrentWave(); cw != nil && active > cw.PeakActive {
		cw.PeakActive = active
	}
}
