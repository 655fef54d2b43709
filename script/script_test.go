package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

func newGroup(t *testing.T, n int) *core.Group {
	t.Helper()
	g, err := core.NewGroup(core.NewContext(1), 8)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	g.SetImmortal(true)
	for i := 0; i < n; i++ {
		g.AddParticle(r3.Vec{X: float64(i)}, r3.Vec{})
	}
	return g
}

func TestScriptWritesBack(t *testing.T) {
	m, err := New(`
function modify(p, dt)
  p.vy = 4
  p.scale = p.x + 1
  if p.x >= 2 then p.kill = true end
end`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Destroy()

	g := newGroup(t, 3)
	g.AddModifier(m)
	g.Update(0.5)

	if g.NbParticles() != 2 {
		t.Fatalf("particles = %d, want 2", g.NbParticles())
	}
	for i := 0; i < 2; i++ {
		p := g.Particle(i)
		if p.Velocity().Y != 4 {
			t.Errorf("particle %d vy = %v, want 4", i, p.Velocity().Y)
		}
		if p.Position().Y != 2 {
			t.Errorf("particle %d y = %v, want 2 after integration", i, p.Position().Y)
		}
		if want := p.Position().X + 1; p.Param(core.ParamScale) != want {
			t.Errorf("particle %d scale = %v, want %v", i, p.Param(core.ParamScale), want)
		}
	}
}

func TestScriptSeesGlobals(t *testing.T) {
	m, err := New(`
function modify(p, dt)
  p.vx = strength * time
end`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Destroy()
	m.SetGlobal("strength", 3)

	g := newGroup(t, 1)
	g.AddModifier(m)
	g.Update(0.25)
	g.Update(0.25)
	if got := g.Particle(0).Velocity().X; got != 1.5 {
		t.Errorf("vx = %v, want 1.5", got)
	}
}

func TestMissingModifyFunc(t *testing.T) {
	_, err := New(`x = 1`)
	if !errors.Is(err, ErrNoModifyFunc) {
		t.Errorf("err = %v, want ErrNoModifyFunc", err)
	}
}

func TestSyntaxError(t *testing.T) {
	if _, err := New(`function modify(p, dt`); err == nil {
		t.Error("expected a load error")
	}
}

func TestRuntimeErrorDeactivates(t *testing.T) {
	m, err := New(`
function modify(p, dt)
  error("boom")
end`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Destroy()

	g := newGroup(t, 2)
	g.AddModifier(m)
	g.Update(0.1)
	if m.Active() {
		t.Error("modifier still active after a runtime error")
	}
	if g.NbParticles() != 2 {
		t.Errorf("particles = %d, want 2", g.NbParticles())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swirl.lua")
	if err := os.WriteFile(path, []byte("function modify(p, dt) p.vz = 1 end"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer m.Destroy()
	if m.Name() != path {
		t.Errorf("name = %q, want %q", m.Name(), path)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}
