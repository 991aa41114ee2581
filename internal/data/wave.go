package data

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Wave describes enemy density, spawn cadence, and composition for one
// elapsed-minute bucket. Records are immutable once loaded.
type Wave struct {
	Minute        int      `yaml:"minute"`
	MinEnemies    int      `yaml:"min_enemies"`
	MaxEnemies    int      `yaml:"max_enemies"`
	SpawnInterval float64  `yaml:"spawn_interval"` // seconds
	BatchSize     int      `yaml:"batch_size"`
	Types         []string `yaml:"types"`
	Elite         bool     `yaml:"elite"`
}

// Interval returns the spawn cadence as a duration.
func (w *Wave) Interval() time.Duration {
	return time.Duration(w.SpawnInterval * float64(time.Second))
}

type waveListFile struct {
	Waves []Wave `yaml:"waves"`
}

// WaveTable holds waves ordered by their minute threshold.
type WaveTable struct {
	waves []Wave
}

// LoadWaveTable loads waves from a YAML file. When enemies is non-nil every
// referenced type must exist in it.
func LoadWaveTable(path string, enemies *EnemyTable) (*WaveTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wave table: %w", err)
	}
	var f waveListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse wave table: %w", err)
	}
	return NewWaveTable(f.Waves, enemies)
}

// NewWaveTable builds a table from already-decoded rows.
func NewWaveTable(rows []Wave, enemies *EnemyTable) (*WaveTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("wave table is empty")
	}
	waves := append([]Wave(nil), rows...)
	sort.SliceStable(waves, func(i, j int) bool { return waves[i].Minute < waves[j].Minute })

	if waves[0].Minute != 0 {
		return nil, fmt.Errorf("first wave must start at minute 0, got %d", waves[0].Minute)
	}
	for i := range waves {
		w := &waves[i]
		if i > 0 && waves[i-1].Minute == w.Minute {
			return nil, fmt.Errorf("wave minute %d: duplicate threshold", w.Minute)
		}
		if w.MaxEnemies <= 0 {
			return nil, fmt.Errorf("wave minute %d: max_enemies must be positive", w.Minute)
		}
		if w.MinEnemies < 0 || w.MinEnemies > w.MaxEnemies {
			return nil, fmt.Errorf("wave minute %d: min_enemies %d outside [0, %d]",
				w.Minute, w.MinEnemies, w.MaxEnemies)
		}
		if w.SpawnInterval <= 0 {
			return nil, fmt.Errorf("wave minute %d: spawn_interval must be positive", w.Minute)
		}
		if w.BatchSize <= 0 {
			w.BatchSize = 1
		}
		if enemies != nil {
			for _, id := range w.Types {
				if enemies.Get(id) == nil {
					return nil, fmt.Errorf("wave minute %d: unknown enemy type %q", w.Minute, id)
				}
			}
		}
	}
	return &WaveTable{waves: waves}, nil
}

// ForMinute returns the wave in effect at the given elapsed minute and its
// index. Minutes past the last threshold clamp to the final wave; negative
// minutes clamp to the first.
func (t *WaveTable) ForMinute(minute int) (int, *Wave) {
	idx := 0
	for i := range t.waves {
		if t.waves[i].Minute > minute {
			break
		}
		idx = i
	}
	return idx, &t.waves[idx]
}

// Len returns the number of waves.
func (t *WaveTable) Len() int {
	return len(t.waves)
}
