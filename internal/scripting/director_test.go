package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDirector(t *testing.T, script string) *Director {
	t.Helper()
	dir := t.TempDir()
	if script != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "waves.lua"), []byte(script), 0o644))
	}
	d, err := NewDirector(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestOnWaveStartAppliesMods(t *testing.T) {
	d := newTestDirector(t, `
function on_wave_start(ctx)
    if ctx.wave >= 2 then
        return {
            spawn_interval_scale = 0.5,
            min_enemies_bonus = 5,
            max_enemies_bonus = ctx.minute * 10,
        }
    end
    return nil
end
`)

	early := d.OnWaveStart(WaveContext{Wave: 1, Minute: 1})
	assert.Equal(t, WaveMods{}, early, "nil return means no mods")

	late := d.OnWaveStart(WaveContext{Wave: 2, Minute: 3, Active: 40, TotalSpawned: 500})
	assert.Equal(t, 0.5, late.SpawnIntervalScale)
	assert.Equal(t, 5, late.MinEnemiesBonus)
	assert.Equal(t, 30, late.MaxEnemiesBonus)
}

func TestMissingHookReturnsZeroMods(t *testing.T) {
	d := newTestDirector(t, `-- no hook defined`)
	assert.Equal(t, WaveMods{}, d.OnWaveStart(WaveContext{Wave: 1}))
}

func TestMissingDirIsFine(t *testing.T) {
	d, err := NewDirector(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, WaveMods{}, d.OnWaveStart(WaveContext{}))
}

func TestScriptErrorsAreContained(t *testing.T) {
	d := newTestDirector(t, `
function on_wave_start(ctx)
    error("balance spreadsheet on fire")
end
`)
	assert.Equal(t, WaveMods{}, d.OnWaveStart(WaveContext{Wave: 1}))
}

func TestNonTableReturnIsContained(t *testing.T) {
	d := newTestDirector(t, `
function on_wave_start(ctx)
    return 42
end
`)
	assert.Equal(t, WaveMods{}, d.OnWaveStart(WaveContext{Wave: 1}))
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644))
	_, err := NewDirector(dir, zap.NewNop())
	assert.Error(t, err)
}
