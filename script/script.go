// Package script runs particle modifiers written in Lua.
//
// A script defines a global function modify(p, dt). It is called once per
// alive particle with a table holding the particle state:
//
//	x, y, z       position
//	vx, vy, vz    velocity
//	age, life     seconds lived and left
//	ratio         age over lifetime
//	angle, scale, mass, rotation_speed
//
// Writes to position, velocity and the params are copied back. Setting
// p.kill = true removes the particle at the end of the update.
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	lua "github.com/yuin/gopher-lua"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// ErrNoModifyFunc is returned when a script does not define modify.
var ErrNoModifyFunc = errors.New("script defines no modify function")

const modifyFunc = "modify"

// Modifier wraps a single gopher-lua VM. It is driven from the group
// update and must not be shared across goroutines.
type Modifier struct {
	core.ModifierBase
	vm     *lua.LState
	fn     *lua.LFunction
	state  *lua.LTable
	source string
	time   float64
}

// New compiles source and resolves its modify function.
func New(source string) (*Modifier, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	if err := vm.DoString(source); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	fn, ok := vm.GetGlobal(modifyFunc).(*lua.LFunction)
	if !ok {
		vm.Close()
		return nil, ErrNoModifyFunc
	}
	m := &Modifier{
		ModifierBase: core.NewModifierBase(core.PriorityScript),
		vm:           vm,
		fn:           fn,
		state:        vm.NewTable(),
		source:       source,
	}
	return m, nil
}

// Load reads and compiles the script at path.
func Load(path string) (*Modifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	m, err := New(string(data))
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	m.SetName(path)
	return m, nil
}

// TypeName implements core.Object.
func (m *Modifier) TypeName() string { return "ScriptModifier" }

// Source returns the script text.
func (m *Modifier) Source() string { return m.source }

// SetGlobal exposes a number to the script, e.g. a tuning knob.
func (m *Modifier) SetGlobal(name string, v float64) {
	m.vm.SetGlobal(name, lua.LNumber(v))
}

// Modify implements core.Modifier. A runtime error deactivates the
// modifier.
func (m *Modifier) Modify(g *core.Group, d *core.DataSet, dt float64) {
	m.time += dt
	m.vm.SetGlobal("time", lua.LNumber(m.time))
	for p := range g.Particles() {
		m.export(p)
		if err := m.vm.CallByParam(lua.P{
			Fn:      m.fn,
			NRet:    0,
			Protect: true,
		}, m.state, lua.LNumber(dt)); err != nil {
			slog.Error("lua modify error, disabling script", "modifier", m.Name(), "error", err)
			m.SetActive(false)
			return
		}
		m.apply(p)
	}
}

func (m *Modifier) export(p core.Particle) {
	t := m.state
	pos, vel := p.Position(), p.Velocity()
	t.RawSetString("x", lua.LNumber(pos.X))
	t.RawSetString("y", lua.LNumber(pos.Y))
	t.RawSetString("z", lua.LNumber(pos.Z))
	t.RawSetString("vx", lua.LNumber(vel.X))
	t.RawSetString("vy", lua.LNumber(vel.Y))
	t.RawSetString("vz", lua.LNumber(vel.Z))
	t.RawSetString("age", lua.LNumber(p.Age()))
	t.RawSetString("life", lua.LNumber(p.Life()))
	t.RawSetString("ratio", lua.LNumber(p.AgeRatio()))
	t.RawSetString("angle", lua.LNumber(p.Param(core.ParamAngle)))
	t.RawSetString("scale", lua.LNumber(p.Param(core.ParamScale)))
	t.RawSetString("mass", lua.LNumber(p.Param(core.ParamMass)))
	t.RawSetString("rotation_speed", lua.LNumber(p.Param(core.ParamRotationSpeed)))
	t.RawSetString("kill", lua.LFalse)
}

func (m *Modifier) apply(p core.Particle) {
	t := m.state
	num := func(key string) float64 { return float64(lua.LVAsNumber(t.RawGetString(key))) }
	p.SetPosition(r3.Vec{X: num("x"), Y: num("y"), Z: num("z")})
	p.SetVelocity(r3.Vec{X: num("vx"), Y: num("vy"), Z: num("vz")})
	p.SetParam(core.ParamAngle, num("angle"))
	p.SetParam(core.ParamScale, num("scale"))
	p.SetParam(core.ParamMass, num("mass"))
	p.SetParam(core.ParamRotationSpeed, num("rotation_speed"))
	if lua.LVAsBool(t.RawGetString("kill")) {
		p.Kill()
	}
}

// Destroy closes the VM.
func (m *Modifier) Destroy() {
	if m.vm != nil {
		m.vm.Close()
		m.vm = nil
	}
}
