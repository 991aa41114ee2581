package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/beshoy23/brainrot-survivors-sub001/internal/config"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/data"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/persist"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/replay"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/scripting"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/sim"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/system"
	"github.com/beshoy23/brainrot-survivors-sub001/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        brainrot-survivors  v0.1.0         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       arena survival simulation core      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label, value string) {
	dotsLen := 42 - len(label) - len(value)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func printStatN(label string, count int) {
	printStat(label, fmt.Sprintf("%d", count))
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ──────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/sim.toml"
	if p := os.Getenv("SIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load balance tables
	printSection("Data")

	enemyTable, err := data.LoadEnemyTable(cfg.Data.Enemies)
	if err != nil {
		return fmt.Errorf("load enemy table: %w", err)
	}
	printStatN("Enemy types", enemyTable.Count())

	waveTable, err := data.LoadWaveTable(cfg.Data.Waves, enemyTable)
	if err != nil {
		return fmt.Errorf("load wave table: %w", err)
	}
	printStatN("Waves", waveTable.Len())

	// 4. Lua wave director
	var director *scripting.Director
	if cfg.Scripting.Enabled {
		director, err = scripting.NewDirector(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("wave director: %w", err)
		}
		defer director.Close()
		printOK("Wave director scripts loaded")
	}
	fmt.Println()

	// 5. Optional run store
	var runRepo *persist.RunRepo
	if cfg.Database.Enabled {
		printSection("Database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		cancel()
		printOK("Migrations applied")
		fmt.Println()

		runRepo = persist.NewRunRepo(db)
	}

	// 6. Build the world
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	halfW := cfg.Sim.ArenaWidth / 2
	halfH := cfg.Sim.ArenaHeight / 2
	st := world.NewState(world.Params{
		PoolSize:     cfg.Balance.PoolInitialSize,
		GridCellSize: cfg.Balance.GridCellSize,
		Seed:         seed,
		Viewport:     world.Viewport{Width: cfg.Sim.ViewportWidth, Height: cfg.Sim.ViewportHeight},
		Arena:        world.Rect{MinX: -halfW, MinY: -halfH, MaxX: halfW, MaxY: halfH},
		PlayerRadius: cfg.Sim.PlayerRadius,
		PlayerHealth: cfg.Sim.PlayerHealth,
	})
	startedAt := time.Now()

	// 7. Optional replay recording
	var tap *replay.Tap
	if cfg.Replay.Enabled {
		f, err := os.Create(cfg.Replay.Path)
		if err != nil {
			return fmt.Errorf("replay file: %w", err)
		}
		defer f.Close()

		rec := replay.NewRecorder(f)
		if err := rec.WriteHeader(replay.Header{
			Seed:      seed,
			TickRate:  int64(cfg.Sim.TickRate),
			StartedAt: startedAt.UnixMilli(),
		}); err != nil {
			return fmt.Errorf("replay header: %w", err)
		}
		defer rec.Close()
		tap = replay.NewTap(rec, st.Bus, cfg.Replay.SampleEvery, log)
	}

	// 8. Register systems
	runner := sim.NewRunner()
	runner.Register(system.NewSpawnSystem(st, enemyTable, waveTable, director, system.SpawnConfig{
		SpawnMargin:      cfg.Balance.SpawnMargin,
		EliteInterval:    cfg.Balance.EliteInterval,
		EliteHealthScale: cfg.Balance.EliteHealthScale,
		EliteDamageScale: cfg.Balance.EliteDamageScale,
		EliteSizeScale:   cfg.Balance.EliteSizeScale,
	}, log))
	runner.Register(newPilotSystem(st, cfg.Sim.PlayerSpeed))
	runner.Register(newAutoWeapon(st, weaponConfig{
		Range:      cfg.Balance.WeaponRange,
		Damage:     cfg.Balance.WeaponDamage,
		Cooldown:   cfg.Balance.WeaponCooldown,
		MaxTargets: cfg.Balance.WeaponMaxTargets,
	}, log))
	runner.Register(system.NewMovementSystem(st, log))
	runner.Register(system.NewContactDamageSystem(st, cfg.Balance.DamageInterval, cfg.Balance.CollisionMargin, log))
	runner.Register(system.NewSeparationSystem(st, system.SeparationConfig{
		CellSize: cfg.Balance.SeparationCellSize,
		Force:    cfg.Balance.SeparationForce,
		Buffer:   cfg.Balance.SeparationBuffer,
		Damping:  cfg.Balance.SeparationDamping,
	}, log))
	runner.Register(system.NewReclaimSystem(st, log))
	runner.Register(system.NewEventFlushSystem(st.Bus))

	// 9. Run loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("Simulation ready")
	printReady(fmt.Sprintf("tick %s, seed %d", cfg.Sim.TickRate, seed))
	if cfg.Sim.Duration > 0 {
		printReady(fmt.Sprintf("running for %s", cfg.Sim.Duration))
	} else {
		printReady("running until signal")
	}
	fmt.Println()

	var died bool
loop:
	for {
		select {
		case <-ticker.C:
			st.BeginTick(cfg.Sim.TickRate)
			runner.Tick(cfg.Sim.TickRate)
			if tap != nil {
				tap.Commit(st)
			}
			if !st.Player.Alive() {
				died = true
				log.Info("player died",
					zap.Duration("survived", st.Elapsed),
					zap.Uint64("ticks", st.Tick))
				break loop
			}
			if cfg.Sim.Duration > 0 && st.Elapsed >= cfg.Sim.Duration {
				log.Info("duration reached", zap.Duration("survived", st.Elapsed))
				break loop
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			break loop
		}
	}

	if tap != nil {
		tap.Final(st)
	}

	// 10. Final report
	fmt.Println()
	printSection("Run summary")
	printStat("Survived", st.Elapsed.Truncate(time.Millisecond).String())
	printStatN("Enemies spawned", st.Stats.TotalSpawned)
	printStatN("Enemies reclaimed", st.Stats.TotalReclaimed)
	printStatN("Elites", st.Stats.ElitesSpawned)
	printStatN("Peak active", st.Stats.PeakActive)
	printStat("Damage taken", fmt.Sprintf("%.1f", st.Stats.DamageToPlayer))
	printStatN("Waves reached", len(st.Stats.Waves))
	fmt.Println()

	if runRepo != nil {
		if err := storeRun(runRepo, st, seed, startedAt, died, log); err != nil {
			log.Error("store run", zap.Error(err))
		} else {
			printOK("Run stored")
		}
	}
	return nil
}

// storeRun writes the finished run and its wave stats.
func storeRun(repo *persist.RunRepo, st *world.State, seed int64, startedAt time.Time, died bool, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	row := &persist.RunRow{
		Seed:           seed,
		StartedAt:      startedAt,
		Survived:       st.Elapsed,
		Ticks:          st.Tick,
		TotalSpawned:   st.Stats.TotalSpawned,
		TotalReclaimed: st.Stats.TotalReclaimed,
		ElitesSpawned:  st.Stats.ElitesSpawned,
		PeakActive:     st.Stats.PeakActive,
		DamageTaken:    st.Stats.DamageToPlayer,
		DamageTicks:    st.Stats.DamageTicks,
		PlayerDied:     died,
	}
	if err := repo.InsertRun(ctx, row); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stats := make([]persist.WaveStatRow, len(st.Stats.Waves))
	for i, w := range st.Stats.Waves {
		stats[i] = persist.WaveStatRow{
			RunID:      row.ID,
			Wave:       w.Wave,
			ReachedAt:  w.ReachedAt,
			Spawned:    w.Spawned,
			PeakActive: w.PeakActive,
		}
	}
	if err := repo.InsertWaveStats(ctx, stats); err != nil {
		return fmt.Errorf("insert wave stats: %w", err)
	}
	log.Info("run stored", zap.Int64("run_id", row.ID), zap.Int("waves", len(stats)))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
