package system

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/event"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/data"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/scripting"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

var testSpawnCfg = SpawnConfig{
	SpawnMargin:      120,
	EliteInterval:    10 * time.Second,
	EliteHealthScale: 2,
	EliteDamageScale: 1.5,
	EliteSizeScale:   1.3,
}

func TestSpawnRefillsToWaveMinimum(t *testing.T) {
	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 3, MaxEnemies: 6, SpawnInterval: 1, BatchSize: 2,
			Types: []string{"basic"}},
	})

	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	st.BeginTick(50 * time.Millisecond)
	sys.Update(50 * time.Millisecond)

	assert.Equal(t, 3, st.Enemies.ActiveCount())
	assert.Equal(t, 3, st.Stats.TotalSpawned)

	// Population already at the floor: the next frame spawns nothing.
	st.BeginTick(50 * time.Millisecond)
	sys.Update(50 * time.Millisecond)
	assert.Equal(t, 3, st.Enemies.ActiveCount())
}

func TestSpawnCadenceAndCeiling(t *testing.T) {
	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 3, MaxEnemies: 6, SpawnInterval: 1, BatchSize: 2,
			Types: []string{"basic"}},
	})

	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	st.BeginTick(time.Second)
	sys.Update(time.Second) // floor burst: 3
	require.Equal(t, 3, st.Enemies.ActiveCount())

	st.BeginTick(time.Second)
	sys.Update(time.Second) // one interval banked: +2
	assert.Equal(t, 5, st.Enemies.ActiveCount())

	st.BeginTick(time.Second)
	sys.Update(time.Second) // batch of 2 clamped to the 6 ceiling
	assert.Equal(t, 6, st.Enemies.ActiveCount())

	for i := 0; i < 10; i++ {
		st.BeginTick(time.Second)
		sys.Update(time.Second)
		assert.LessOrEqual(t, st.Enemies.ActiveCount(), 6)
	}
}

func TestSpawnPositionsStayOffScreen(t *testing.T) {
	players := []vec.Vec2{
		{X: 0, Y: 0},
		{X: 5000, Y: -3000},
		{X: -12345.5, Y: 777},
	}
	for _, margin := range []float64{120, 0} {
		for seed := int64(1); seed <= 3; seed++ {
			for _, pp := range players {
				st := newTestState(seed)
				st.Player.Pos = pp
				enemies := newTestEnemies(t)
				waves := newTestWaves(t, enemies, []data.Wave{
					{Minute: 0, MinEnemies: 8, MaxEnemies: 50, SpawnInterval: 1,
						BatchSize: 1, Types: []string{"basic", "darter"}},
				})

				cfg := testSpawnCfg
				cfg.SpawnMargin = margin
				sys := NewSpawnSystem(st, enemies, waves, nil, cfg, nop())
				st.BeginTick(50 * time.Millisecond)
				sys.Update(50 * time.Millisecond)

				view := st.ViewportRect()
				for _, e := range st.ActiveEnemies() {
					assert.False(t, view.Contains(e.Pos),
						"enemy at %+v inside viewport %+v (margin %v seed %d)",
						e.Pos, view, margin, seed)
				}
			}
		}
	}
}

func TestCorruptPlayerPositionSkipsSpawns(t *testing.T) {
	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 4, MaxEnemies: 10, SpawnInterval: 1,
			BatchSize: 1, Types: []string{"basic"}},
	})

	st.Player.Pos = vec.New(math.NaN(), 0)
	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	st.BeginTick(50 * time.Millisecond)
	sys.Update(50 * time.Millisecond)

	assert.Zero(t, st.Enemies.ActiveCount())
	assert.Zero(t, st.Stats.TotalSpawned)

	// The skip is per spawn, not a latch: a repaired position spawns again.
	st.Player.Pos = vec.New(0, 0)
	st.BeginTick(50 * time.Millisecond)
	sys.Update(50 * time.Millisecond)
	assert.Equal(t, 4, st.Enemies.ActiveCount())
}

func TestSpawnTypeDrawFallsBackToBasic(t *testing.T) {
	enemies := newTestEnemies(t)

	t.Run("zero weights", func(t *testing.T) {
		st := newTestState(1)
		waves := newTestWaves(t, enemies, []data.Wave{
			{Minute: 0, MinEnemies: 4, MaxEnemies: 10, SpawnInterval: 1,
				BatchSize: 1, Types: []string{"rock"}},
		})
		sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
		st.BeginTick(50 * time.Millisecond)
		sys.Update(50 * time.Millisecond)

		for _, e := range st.ActiveEnemies() {
			assert.Equal(t, "basic", e.TypeID)
		}
	})

	t.Run("empty type list", func(t *testing.T) {
		st := newTestState(1)
		waves := newTestWaves(t, enemies, []data.Wave{
			{Minute: 0, MinEnemies: 4, MaxEnemies: 10, SpawnInterval: 1, BatchSize: 1},
		})
		sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
		st.BeginTick(50 * time.Millisecond)
		sys.Update(50 * time.Millisecond)

		for _, e := range st.ActiveEnemies() {
			assert.Equal(t, "basic", e.TypeID)
		}
	})
}

func TestSpawnWeightedDrawRespectsEligibleSet(t *testing.T) {
	st := newTestState(7)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 40, MaxEnemies: 100, SpawnInterval: 1,
			BatchSize: 1, Types: []string{"basic", "darter"}},
	})

	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	st.BeginTick(50 * time.Millisecond)
	sys.Update(50 * time.Millisecond)

	seen := map[string]int{}
	for _, e := range st.ActiveEnemies() {
		seen[e.TypeID]++
	}
	assert.Zero(t, seen["rock"])
	// 40 draws at weights 10:5 make an all-one-type outcome astronomically
	// unlikely with a fixed seed.
	assert.Positive(t, seen["basic"])
	assert.Positive(t, seen["darter"])
}

func TestStraightMoversAimAtPlayerAtSpawn(t *testing.T) {
	st := newTestState(3)
	st.Player.Pos = vec.New(250, -80)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 20, MaxEnemies: 50, SpawnInterval: 1,
			BatchSize: 1, Types: []string{"darter"}},
	})

	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	st.BeginTick(50 * time.Millisecond)
	sys.Update(50 * time.Millisecond)

	for _, e := range st.ActiveEnemies() {
		require.Equal(t, "darter", e.TypeID)
		want := st.Player.Pos.Sub(e.Pos).Angle()
		assert.InDelta(t, want, e.Movement.Angle, 1e-9)
		assert.Positive(t, e.Lifetime)
	}
}

func TestEliteSpawnsOnIntervalAndResets(t *testing.T) {
	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 2, MaxEnemies: 50, SpawnInterval: 1,
			BatchSize: 1, Types: []string{"basic"}, Elite: true},
	})

	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())

	elites := func() int { return st.Stats.ElitesSpawned }
	for i := 1; i <= 9; i++ {
		st.BeginTick(time.Second)
		sys.Update(time.Second)
		assert.Zero(t, elites(), "tick %d", i)
	}
	st.BeginTick(time.Second) // 10s survived
	sys.Update(time.Second)
	assert.Equal(t, 1, elites())

	// Timer restarted: the next elite needs a full interval again.
	for i := 0; i < 9; i++ {
		st.BeginTick(time.Second)
		sys.Update(time.Second)
		assert.Equal(t, 1, elites())
	}
	st.BeginTick(time.Second) // 20s survived
	sys.Update(time.Second)
	assert.Equal(t, 2, elites())
}

func TestEliteTimerStaysClamped(t *testing.T) {
	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 0, MaxEnemies: 10, SpawnInterval: 60,
			BatchSize: 1, Types: []string{"basic"}},
	})

	// No elite wave, so the timer never resets; the clamp alone bounds it.
	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	for i := 0; i < 40; i++ {
		st.BeginTick(time.Minute)
		sys.Update(time.Minute)
	}
	assert.Equal(t, testSpawnCfg.EliteInterval, sys.sinceElite)
}

func TestEliteScalingApplied(t *testing.T) {
	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 1, MaxEnemies: 50, SpawnInterval: 5,
			BatchSize: 1, Types: []string{"basic"}, Elite: true},
	})

	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	st.BeginTick(11 * time.Second) // timer matured before the first burst
	sys.Update(11 * time.Second)

	var elite *world.Enemy
	for _, e := range st.ActiveEnemies() {
		if e.Elite {
			elite = e
		}
	}
	require.NotNil(t, elite)
	assert.InDelta(t, 20, elite.Health, 1e-9)       // 10 * 2
	assert.InDelta(t, 7.5, elite.Damage, 1e-9)      // 5 * 1.5
	assert.InDelta(t, 13, elite.HitboxRadius, 1e-9) // 10 * 1.3
}

func TestWaveTransitionEmitsEvent(t *testing.T) {
	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 2, MaxEnemies: 10, SpawnInterval: 1,
			BatchSize: 1, Types: []string{"basic"}},
		{Minute: 1, MinEnemies: 5, MaxEnemies: 20, SpawnInterval: 0.5,
			BatchSize: 2, Types: []string{"basic", "darter"}},
	})

	var started []event.WaveStarted
	event.Subscribe(st.Bus, func(ev event.WaveStarted) { started = append(started, ev) })

	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	st.BeginTick(time.Second)
	sys.Update(time.Second)
	st.Bus.Flush()

	require.Len(t, started, 1)
	assert.Equal(t, 0, started[0].Wave)

	st.BeginTick(60 * time.Second) // into minute 1
	sys.Update(60 * time.Second)
	st.Bus.Flush()

	require.Len(t, started, 2)
	assert.Equal(t, 1, started[1].Wave)
	assert.Equal(t, 5, started[1].MinEnemies)
	require.Len(t, st.Stats.Waves, 2)
	assert.Equal(t, 1, st.Stats.Waves[1].Wave)
	assert.GreaterOrEqual(t, st.Enemies.ActiveCount(), 5)
}

func TestWaveTransitionResetsCadence(t *testing.T) {
	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 0, MaxEnemies: 100, SpawnInterval: 10,
			BatchSize: 5, Types: []string{"basic"}},
		{Minute: 1, MinEnemies: 0, MaxEnemies: 100, SpawnInterval: 10,
			BatchSize: 5, Types: []string{"basic"}},
	})

	sys := NewSpawnSystem(st, enemies, waves, nil, testSpawnCfg, nop())
	st.BeginTick(9 * time.Second) // banks 9s against wave 0's cadence
	sys.Update(9 * time.Second)
	require.Zero(t, st.Enemies.ActiveCount())

	// Crossing into wave 1 forfeits the bank: 52s yields 5 batches, not 6.
	st.BeginTick(52 * time.Second)
	sys.Update(52 * time.Second)
	assert.Equal(t, 25, st.Enemies.ActiveCount())
}

func TestDirectorModsShiftWaveBounds(t *testing.T) {
	dir := t.TempDir()
	script := `
function on_wave_start(ctx)
  return { min_enemies_bonus = 3 }
end
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "waves.lua"), []byte(script), 0o644))

	d, err := scripting.NewDirector(dir, nop())
	require.NoError(t, err)
	defer d.Close()

	st := newTestState(1)
	enemies := newTestEnemies(t)
	waves := newTestWaves(t, enemies, []data.Wave{
		{Minute: 0, MinEnemies: 2, MaxEnemies: 10, SpawnInterval: 1,
			BatchSize: 1, Types: []string{"basic"}},
	})

	sys := NewSpawnSystem(st, enemies, waves, d, testSpawnCfg, nop())
	st.BeginTick(50 * time.Millisecond)
	sys.Update(50 * time.Millisecond)

	// Floor lifted from 2 to 5 by the script.
	assert.Equal(t, 5, st.Enemies.ActiveCount())
}
