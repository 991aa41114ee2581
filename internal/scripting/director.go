// Package scripting hosts the Lua wave director. Balance staff tune wave
// pressure in scripts without a rebuild; the simulation calls a hook on each
// wave transition and applies whatever mods come back.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Director wraps a single gopher-lua VM.
// Single-goroutine access only (game loop).
type Director struct {
	vm  *lua.LState
	log *zap.Logger
}

// WaveContext is the pre-packed state handed to the on_wave_start hook.
type WaveContext struct {
	Wave         int
	Minute       int
	Active       int
	TotalSpawned int
}

// WaveMods is what the hook may return. Zero values leave the wave table's
// numbers untouched.
type WaveMods struct {
	SpawnIntervalScale float64 // multiplies the wave's cadence; 0 = unchanged
	MinEnemiesBonus    int
	MaxEnemiesBonus    int
}

// NewDirector creates a Lua VM and loads every .lua file in dir. A missing
// directory is not an error; the director simply has no hooks.
func NewDirector(dir string, log *zap.Logger) (*Director, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	d := &Director{vm: vm, log: log}
	if err := d.loadDir(dir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load director scripts: %w", err)
	}
	return d, nil
}

func (d *Director) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := d.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		d.log.Debug("loaded director script", zap.String("file", path))
	}
	return nil
}

// Close releases the VM.
func (d *Director) Close() {
	d.vm.Close()
}

// OnWaveStart calls the Lua on_wave_start hook. Any failure — missing
// function, script error, wrong return type — logs and returns zero mods;
// a broken script must never stall the simulation.
func (d *Director) OnWaveStart(ctx WaveContext) WaveMods {
	fn := d.vm.GetGlobal("on_wave_start")
	if fn == lua.LNil {
		return WaveMods{}
	}

	t := d.vm.NewTable()
	t.RawSetString("wave", lua.LNumber(ctx.Wave))
	t.RawSetString("minute", lua.LNumber(ctx.Minute))
	t.RawSetString("active", lua.LNumber(ctx.Active))
	t.RawSetString("total_spawned", lua.LNumber(ctx.TotalSpawned))

	if err := d.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		d.log.Error("lua on_wave_start error", zap.Error(err))
		return WaveMods{}
	}

	result := d.vm.Get(-1)
	d.vm.Pop(1)

	if result == lua.LNil {
		return WaveMods{} // hook may decline to return mods
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		d.log.Error("lua on_wave_start returned non-table")
		return WaveMods{}
	}

	return WaveMods{
		SpawnIntervalScale: float64(lua.LVAsNumber(rt.RawGetString("spawn_interval_scale"))),
		MinEnemiesBonus:    int(lua.LVAsNumber(rt.RawGetString("min_enemies_bonus"))),
		MaxEnemiesBonus:    int(lua.LVAsNumber(rt.RawGetString("max_enemies_bonus"))),
	}
}
