package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BasicTypeID is the fallback enemy type used when a wave's eligible set is
// empty or carries no positive weight. Every enemy table must define it.
const BasicTypeID = "basic"

// EnemyType holds static balance data for one enemy kind loaded from YAML.
type EnemyType struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Health      float64 `yaml:"health"`
	Damage      float64 `yaml:"damage"`
	Speed       float64 `yaml:"speed"`
	Size        float64 `yaml:"size"` // hitbox radius in world units
	Shape       string  `yaml:"shape"`
	Color       string  `yaml:"color"`
	SpawnWeight int     `yaml:"spawn_weight"`
	Movement    string  `yaml:"movement"`     // "homing" or "straight"
	LifetimeSec float64 `yaml:"lifetime_sec"` // straight movers expire after this; 0 = never
}

type enemyListFile struct {
	Enemies []EnemyType `yaml:"enemies"`
}

// EnemyTable holds all enemy types indexed by ID.
type EnemyTable struct {
	types map[string]*EnemyType
}

// LoadEnemyTable loads enemy types from a YAML file and validates them.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enemy table: %w", err)
	}
	var f enemyListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enemy table: %w", err)
	}
	return NewEnemyTable(f.Enemies)
}

// NewEnemyTable builds a table from already-decoded rows.
func NewEnemyTable(rows []EnemyType) (*EnemyTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("enemy table is empty")
	}
	t := &EnemyTable{types: make(map[string]*EnemyType, len(rows))}
	for i := range rows {
		e := &rows[i]
		if err := validateEnemyType(e); err != nil {
			return nil, err
		}
		if _, dup := t.types[e.ID]; dup {
			return nil, fmt.Errorf("enemy %q: duplicate id", e.ID)
		}
		t.types[e.ID] = e
	}
	if t.types[BasicTypeID] == nil {
		return nil, fmt.Errorf("enemy table must define the %q fallback type", BasicTypeID)
	}
	return t, nil
}

func validateEnemyType(e *EnemyType) error {
	if e.ID == "" {
		return fmt.Errorf("enemy with empty id")
	}
	if e.Health <= 0 {
		return fmt.Errorf("enemy %q: health must be positive", e.ID)
	}
	if e.Size <= 0 {
		return fmt.Errorf("enemy %q: size must be positive", e.ID)
	}
	if e.Damage < 0 || e.Speed < 0 || e.SpawnWeight < 0 || e.LifetimeSec < 0 {
		return fmt.Errorf("enemy %q: negative stat", e.ID)
	}
	switch e.Movement {
	case "", "homing", "straight":
	default:
		return fmt.Errorf("enemy %q: unknown movement %q", e.ID, e.Movement)
	}
	return nil
}

// Get returns an enemy type by ID, or nil if not found.
func (t *EnemyTable) Get(id string) *EnemyType {
	return t.types[id]
}

// Basic returns the fallback type. Guaranteed non-nil by validation.
func (t *EnemyTable) Basic() *EnemyType {
	return t.types[BasicTypeID]
}

// Count returns the number of loaded types.
func (t *EnemyTable) Count() int {
	return len(t.types)
}
