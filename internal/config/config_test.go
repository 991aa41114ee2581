package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sim]
tick_rate = "33ms"
seed = 1234

[balance]
damage_interval = "250ms"
pool_initial_size = 64

[logging]
level = "debug"
format = "json"

[database]
enabled = true
dsn = "postgres://x:y@db:5432/runs"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 33*time.Millisecond, cfg.Sim.TickRate)
	assert.Equal(t, int64(1234), cfg.Sim.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Balance.DamageInterval)
	assert.Equal(t, 64, cfg.Balance.PoolInitialSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "postgres://x:y@db:5432/runs", cfg.Database.DSN)

	// Untouched sections keep their defaults.
	assert.Equal(t, 1280.0, cfg.Sim.ViewportWidth)
	assert.Equal(t, "data/enemies.yaml", cfg.Data.Enemies)
	assert.Equal(t, 45*time.Second, cfg.Balance.EliteInterval)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
	}{
		{"zero tick rate", "[sim]\ntick_rate = \"0s\"\n"},
		{"zero viewport", "[sim]\nviewport_width = 0.0\n"},
		{"zero damage interval", "[balance]\ndamage_interval = \"0s\"\n"},
		{"negative pool", "[balance]\npool_initial_size = -1\n"},
		{"malformed toml", "[sim\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.validate())
	assert.GreaterOrEqual(t, cfg.Replay.SampleEvery, 1)
}
