package system

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/core/vec"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/data"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

func newTestState(seed int64) *world.State {
	return world.NewState(world.Params{
		PoolSize:     8,
		GridCellSize: 100,
		Seed:         seed,
		Viewport:     world.Viewport{Width: 800, Height: 600},
		PlayerRadius: 16,
		PlayerHealth: 100,
	})
}

func newTestEnemies(t *testing.T) *data.EnemyTable {
	t.Helper()
	enemies, err := data.NewEnemyTable([]data.EnemyType{
		{ID: "basic", Health: 10, Damage: 5, Speed: 50, Size: 10, SpawnWeight: 10},
		{ID: "darter", Health: 4, Damage: 3, Speed: 120, Size: 6, SpawnWeight: 5,
			Movement: "straight", LifetimeSec: 12},
		{ID: "rock", Health: 30, Damage: 8, Speed: 20, Size: 14, SpawnWeight: 0},
	})
	require.NoError(t, err)
	return enemies
}

func newTestWaves(t *testing.T, enemies *data.EnemyTable, rows []data.Wave) *data.WaveTable {
	t.Helper()
	waves, err := data.NewWaveTable(rows, enemies)
	require.NoError(t, err)
	return waves
}

// placeEnemy acquires an enemy directly, bypassing the spawn system, for
// tests that need exact positions.
func placeEnemy(st *world.State, tpl *data.EnemyType, pos vec.Vec2) *world.Enemy {
	e := st.Enemies.Acquire()
	e.Spawn(tpl, pos, world.Homing(), st.Elapsed)
	return e
}

func nop() *zap.Logger { return zap.NewNop() }
