package interpolators

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

func newGroup(t *testing.T, capacity int) *core.Group {
	t.Helper()
	g, err := core.NewGroup(core.NewContext(7), capacity)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	g.SetLifetime(2, 2)
	return g
}

func spawn(t *testing.T, g *core.Group, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if !g.AddParticle(r3.Vec{X: float64(i)}, r3.Vec{}) {
			t.Fatalf("AddParticle %d failed", i)
		}
	}
}

func TestColorSimple(t *testing.T) {
	g := newGroup(t, 4)
	birth := core.Color{}
	death := core.Color{R: 200, G: 100, B: 40, A: 255}
	g.SetColorInterpolator(NewColorSimple(birth, death))
	spawn(t, g, 2)

	if got := g.Particle(0).Color(); got != birth {
		t.Fatalf("birth color = %+v, want %+v", got, birth)
	}
	g.Update(1)
	want := core.Color{R: 100, G: 50, B: 20, A: 128}
	for i := 0; i < g.NbParticles(); i++ {
		if got := g.Particle(i).Color(); got != want {
			t.Errorf("particle %d color = %+v, want %+v", i, got, want)
		}
	}
}

func TestColorRandomBounds(t *testing.T) {
	g := newGroup(t, 64)
	lo := core.Color{R: 10, G: 20, B: 30, A: 40}
	hi := core.Color{R: 20, G: 40, B: 60, A: 80}
	dead := core.Color{A: 0}
	g.SetColorInterpolator(NewColorRandom(lo, hi, dead, dead))
	spawn(t, g, 64)

	in := func(v, a, b uint8) bool { return v >= a && v <= b }
	for i := 0; i < g.NbParticles(); i++ {
		c := g.Particle(i).Color()
		if !in(c.R, lo.R, hi.R) || !in(c.G, lo.G, hi.G) || !in(c.B, lo.B, hi.B) || !in(c.A, lo.A, hi.A) {
			t.Errorf("particle %d color %+v outside [%+v, %+v]", i, c, lo, hi)
		}
	}

	g.Update(2)
	if g.NbParticles() != 0 {
		t.Fatalf("particles = %d after full lifetime, want 0", g.NbParticles())
	}
}

func TestColorRandomFollowsCompaction(t *testing.T) {
	g := newGroup(t, 4)
	g.SetImmortal(true)
	lo := core.Color{R: 0, A: 255}
	hi := core.Color{R: 255, A: 255}
	ci := NewColorRandom(lo, hi, lo, hi)
	g.SetColorInterpolator(ci)
	spawn(t, g, 3)

	last := g.Particle(2).Color()
	g.RemoveParticle(0)
	if got := g.Particle(0).Color(); got != last {
		t.Fatalf("slot 0 color = %+v, want moved %+v", got, last)
	}
	// Immortal particles keep age ratio 0 and therefore their birth color.
	g.Update(0.5)
	if got := g.Particle(0).Color(); got != last {
		t.Errorf("after update slot 0 color = %+v, want %+v", got, last)
	}
}

func TestFloatSimple(t *testing.T) {
	tests := []struct {
		name   string
		dt     float64
		want   float64
		births float64
	}{
		{"quarter", 0.5, 1.75, 2},
		{"half", 1, 1.5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGroup(t, 2)
			g.SetParamInterpolator(core.ParamScale, NewFloatSimple(tt.births, 1))
			spawn(t, g, 1)
			if got := g.Particle(0).Param(core.ParamScale); got != tt.births {
				t.Fatalf("birth scale = %v, want %v", got, tt.births)
			}
			g.Update(tt.dt)
			if got := g.Particle(0).Param(core.ParamScale); got != tt.want {
				t.Errorf("scale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFloatRandomRanges(t *testing.T) {
	g := newGroup(t, 32)
	g.SetParamInterpolator(core.ParamRotationSpeed, NewFloatRandom(1, 2, 4, 4))
	spawn(t, g, 32)
	births := make([]float64, g.NbParticles())
	for i := range births {
		births[i] = g.Particle(i).Param(core.ParamRotationSpeed)
		if births[i] < 1 || births[i] >= 2 {
			t.Errorf("particle %d birth = %v, want [1, 2)", i, births[i])
		}
	}
	g.Update(1)
	for i := 0; i < g.NbParticles(); i++ {
		want := births[i] + (4-births[i])*0.5
		if got := g.Particle(i).Param(core.ParamRotationSpeed); got != want {
			t.Errorf("particle %d speed = %v, want %v", i, got, want)
		}
	}
}

func TestFloatRandomInitializerKeepsExternalWrites(t *testing.T) {
	g := newGroup(t, 8)
	g.SetParamInterpolator(core.ParamAngle, NewFloatRandomInitializer(2, 3))
	spawn(t, g, 8)
	for i := 0; i < g.NbParticles(); i++ {
		p := g.Particle(i)
		if a := p.Param(core.ParamAngle); a < 2 || a >= 3 {
			t.Errorf("particle %d angle = %v, want [2, 3)", i, a)
		}
		p.SetParam(core.ParamAngle, 10)
	}
	g.Update(0.5)
	for i := 0; i < g.NbParticles(); i++ {
		if got := g.Particle(i).Param(core.ParamAngle); got != 10 {
			t.Errorf("particle %d angle = %v, want 10", i, got)
		}
	}
}

func TestFloatDefault(t *testing.T) {
	g := newGroup(t, 2)
	g.SetParamInterpolator(core.ParamMass, NewFloatDefault(3))
	spawn(t, g, 1)
	g.Update(0.5)
	if got := g.Particle(0).Param(core.ParamMass); got != 3 {
		t.Errorf("mass = %v, want 3", got)
	}
	if got := g.Particle(0).Param(core.ParamScale); got != 1 {
		t.Errorf("untouched scale = %v, want default 1", got)
	}
}

func TestAttachInitializesAliveParticles(t *testing.T) {
	g := newGroup(t, 4)
	spawn(t, g, 2)
	g.SetParamInterpolator(core.ParamAngle, NewFloatDefault(0.25))
	for i := 0; i < 2; i++ {
		if got := g.Particle(i).Param(core.ParamAngle); got != 0.25 {
			t.Errorf("particle %d angle = %v, want 0.25", i, got)
		}
	}
}
