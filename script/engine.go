// Package script evaluates gameplay formulas in Lua
package script

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed default.lua
var defaultScript string

// Engine wraps a single gopher-lua VM
// Single-goroutine access only (game loop)
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine loads the built-in formulas, then every *.lua file in dir
// An empty or missing dir keeps the built-ins
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log.Named("script")}
	if err := vm.DoString(defaultScript); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load default script: %w", err)
	}
	if dir != "" {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// ContactDamageContext is the input of wraith_contact_damage
type ContactDamageContext struct {
	Base         int
	Health       int
	WraithHealth int
}

// WraithContactDamage calls wraith_contact_damage; falls back to Base
func (e *Engine) WraithContactDamage(ctx ContactDamageContext) int {
	t := e.vm.NewTable()
	t.RawSetString("base", lua.LNumber(ctx.Base))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("wraith_health", lua.LNumber(ctx.WraithHealth))

	ret, ok := e.call("wraith_contact_damage", t)
	if !ok {
		return ctx.Base
	}
	n, isNum := ret.(lua.LNumber)
	if !isNum || n < 0 {
		e.log.Error("lua wraith_contact_damage returned invalid value", zap.String("value", ret.String()))
		return ctx.Base
	}
	return int(n)
}

// BulletDamage calls bullet_damage; falls back to base scaled by multiplier
func (e *Engine) BulletDamage(base int, multiplier float64) int {
	fallback := int(float64(base)*multiplier + 0.5)

	t := e.vm.NewTable()
	t.RawSetString("base", lua.LNumber(base))
	t.RawSetString("multiplier", lua.LNumber(multiplier))

	ret, ok := e.call("bullet_damage", t)
	if !ok {
		return fallback
	}
	n, isNum := ret.(lua.LNumber)
	if !isNum || n < 0 {
		e.log.Error("lua bullet_damage returned invalid value", zap.String("value", ret.String()))
		return fallback
	}
	return int(n)
}

// BuffDuration calls buff_duration(kind); nil or failure keeps fallback
func (e *Engine) BuffDuration(kind string, fallback time.Duration) time.Duration {
	ret, ok := e.call("buff_duration", lua.LString(kind))
	if !ok || ret == lua.LNil {
		return fallback
	}
	n, isNum := ret.(lua.LNumber)
	if !isNum || n <= 0 {
		e.log.Error("lua buff_duration returned invalid value",
			zap.String("kind", kind), zap.String("value", ret.String()))
		return fallback
	}
	return time.Duration(float64(n) * float64(time.Second))
}

// call invokes a global function with one argument in protected mode
// ok is false when the function is missing or raised an error
func (e *Engine) call(name string, arg lua.LValue) (lua.LValue, bool) {
	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		e.log.Warn("lua function not found", zap.String("func", name))
		return lua.LNil, false
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
		e.log.Error("lua call failed", zap.String("func", name), zap.Error(err))
		return lua.LNil, false
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, true
}
