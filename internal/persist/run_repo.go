package persist

import (
	"context"
	"fmt"
	"time"
)

// RunRow is one finished survival run.
type RunRow struct {
	ID             int64
	Seed           int64
	StartedAt      time.Time
	Survived       time.Duration
	Ticks          uint64
	TotalSpawned   int
	TotalReclaimed int
	ElitesSpawned  int
	PeakActive     int
	DamageTaken    float64
	DamageTicks    int
	PlayerDied     bool
}

// WaveStatRow is one wave's worth of counters inside a run.
type WaveStatRow struct {
	RunID      int64
	Wave       int
	ReachedAt  time.Duration
	Spawned    int
	PeakActive int
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// InsertRun stores a finished run and fills in its assigned ID.
func (r *RunRepo) InsertRun(ctx context.Context, run *RunRow) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO runs (
			seed, started_at, survived_ms, ticks,
			total_spawned, total_reclaimed, elites_spawned, peak_active,
			damage_taken, damage_ticks, player_died
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id`,
		run.Seed, run.StartedAt, run.Survived.Milliseconds(), run.Ticks,
		run.TotalSpawned, run.TotalReclaimed, run.ElitesSpawned, run.PeakActive,
		run.DamageTaken, run.DamageTicks, run.PlayerDied,
	).Scan(&run.ID)
}

// InsertWaveStats writes all of a run's wave rows in one transaction, so a
// run never ends up with half its waves recorded.
func (r *RunRepo) InsertWaveStats(ctx context.Context, stats []WaveStatRow) error {
	if len(stats) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("wave stats begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range stats {
		if _, err := tx.Exec(ctx,
			`INSERT INTO wave_stats (run_id, wave, reached_ms, spawned, peak_active)
			 VALUES ($1, $2, $3, $4, $5)`,
			s.RunID, s.Wave, s.ReachedAt.Milliseconds(), s.Spawned, s.PeakActive,
		); err != nil {
			return fmt.Errorf("wave stats insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// TopRuns returns the longest-surviving runs, most durable first.
func (r *RunRepo) TopRuns(ctx context.Context, limit int) ([]RunRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, seed, started_at, survived_ms, ticks,
		        total_spawned, total_reclaimed, elites_spawned, peak_active,
		        damage_taken, damage_ticks, player_died
		 FROM runs
		 ORDER BY survived_ms DESC, id
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunRow
	for rows.Next() {
		var run RunRow
		var survivedMS int64
		if err := rows.Scan(
			&run.ID, &run.Seed, &run.StartedAt, &survivedMS, &run.Ticks,
			&run.TotalSpawned, &run.TotalReclaimed, &run.ElitesSpawned, &run.PeakActive,
			&run.DamageTaken, &run.DamageTicks, &run.PlayerDied,
		); err != nil {
			return nil, err
		}
		run.Survived = time.Duration(survivedMS) * time.Millisecond
		result = append(result, run)
	}
	return result, rows.Err()
}

// WavesForRun loads the per-wave rows for one run, in wave order.
func (r *RunRepo) WavesForRun(ctx context.Context, runID int64) ([]WaveStatRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT run_id, wave, reached_ms, spawned, peak_active
		 FROM wave_stats
		 WHERE run_id = $1
		 ORDER BY wave`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WaveStatRow
	for rows.Next() {
		var s WaveStatRow
		var reachedMS int64
		if err := rows.Scan(&s.RunID, &s.Wave, &reachedMS, &s.Spawned, &s.PeakActive); err != nil {
			return nil, err
		}
		s.ReachedAt = time.Duration(reachedMS) * time.Millisecond
		result = append(result, s)
	}
	return result, rows.Err()
}
