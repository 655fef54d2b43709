package render

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

func newGroup(t *testing.T, capacity int, r core.Renderer) *core.Group {
	t.Helper()
	g, err := core.NewGroup(core.NewContext(3), capacity)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	g.SetImmortal(true)
	g.SetRenderer(r)
	return g
}

func frame(c *Recorder, g *core.Group) {
	c.Begin()
	g.Render()
	c.End()
}

func TestPointRenderer(t *testing.T) {
	rec := NewRecorder()
	r := NewPointRenderer(rec, 4)
	g := newGroup(t, 4, r)
	g.AddParticle(r3.Vec{X: 1}, r3.Vec{})
	g.AddParticle(r3.Vec{X: 2}, r3.Vec{})
	g.Particle(1).SetParam(core.ParamScale, 0.5)

	frame(rec, g)
	if rec.Frames != 1 || len(rec.Calls) != 1 {
		t.Fatalf("frames=%d calls=%d, want 1 and 1", rec.Frames, len(rec.Calls))
	}
	call := rec.Calls[0]
	if call.Kind != KindPoints {
		t.Errorf("kind = %v, want points", call.Kind)
	}
	if call.Options.Blend != BlendAlpha {
		t.Errorf("blend = %v, want alpha", call.Options.Blend)
	}
	wantSizes := []float64{4, 2}
	for i, want := range wantSizes {
		if call.Sizes[i] != want {
			t.Errorf("size[%d] = %v, want %v", i, call.Sizes[i], want)
		}
		if call.Vertices[i].X != float64(i+1) {
			t.Errorf("vertex[%d] = %v", i, call.Vertices[i])
		}
	}
}

func TestInactiveRendererSkipsDraw(t *testing.T) {
	rec := NewRecorder()
	r := NewPointRenderer(rec, 1)
	g := newGroup(t, 2, r)
	g.AddParticle(r3.Vec{}, r3.Vec{})
	r.SetActive(false)
	frame(rec, g)
	if len(rec.Calls) != 0 {
		t.Errorf("calls = %d, want 0", len(rec.Calls))
	}
}

func TestLineRendererSegmentsAndAABB(t *testing.T) {
	rec := NewRecorder()
	r := NewLineRenderer(rec, 0.5, 2)
	g := newGroup(t, 2, r)
	g.AddParticle(r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2, Y: -4})
	r.EnableBlending(false)

	frame(rec, g)
	call := rec.Calls[0]
	if call.Kind != KindLines || len(call.Vertices) != 2 {
		t.Fatalf("got %v with %d vertices", call.Kind, len(call.Vertices))
	}
	if want := (r3.Vec{X: 2, Y: -1}); call.Vertices[1] != want {
		t.Errorf("tip = %v, want %v", call.Vertices[1], want)
	}
	if call.Options.Blend != BlendNone || call.Options.Width != 2 {
		t.Errorf("options = %+v", call.Options)
	}

	min, max := r.ComputeAABB(g, nil)
	if min != (r3.Vec{X: 1, Y: -1}) || max != (r3.Vec{X: 2, Y: 1}) {
		t.Errorf("aabb = %v..%v", min, max)
	}
}

func TestLineTrailSamplesShiftAndFade(t *testing.T) {
	rec := NewRecorder()
	r := NewLineTrailRenderer(rec, 3, 1, 1)
	g := newGroup(t, 2, r)
	g.AddParticle(r3.Vec{}, r3.Vec{X: 1})

	g.Update(0.5)
	g.Update(0.25)

	d := g.DataSet(r)
	pos := core.DataAt[*core.ArrayData[r3.Vec]](d, trailPositions).ParticleData(0)
	wantX := []float64{0.75, 0.5, 0}
	for k, x := range wantX {
		if pos[k].X != x {
			t.Errorf("sample %d x = %v, want %v", k, pos[k].X, x)
		}
	}
	col := core.DataAt[*core.ColorArrayData](d, trailColors).ParticleData(0)
	wantA := []uint8{255, 191, 63}
	for k, a := range wantA {
		if col[k].A != a {
			t.Errorf("sample %d alpha = %d, want %d", k, col[k].A, a)
		}
	}

	frame(rec, g)
	if n := len(rec.Calls[0].Vertices); n != 4 {
		t.Errorf("trail vertices = %d, want 4", n)
	}
	min, max := r.ComputeAABB(g, d)
	if min.X != 0 || max.X != 0.75 {
		t.Errorf("aabb x = [%v, %v], want [0, 0.75]", min.X, max.X)
	}
}

func TestLineTrailRebuildsOnSampleChange(t *testing.T) {
	r := NewLineTrailRenderer(nil, 3, 1, 1)
	g := newGroup(t, 2, r)
	g.AddParticle(r3.Vec{Y: 2}, r3.Vec{})

	r.SetNbSamples(5)
	g.Update(0.1)
	ages := core.DataAt[*core.Float64ArrayData](g.DataSet(r), trailAges)
	if ages.SizePerParticle() != 5 {
		t.Fatalf("samples per particle = %d, want 5", ages.SizePerParticle())
	}
	for k, v := range core.DataAt[*core.ArrayData[r3.Vec]](g.DataSet(r), trailPositions).ParticleData(0) {
		if v.Y != 2 {
			t.Errorf("sample %d = %v, want collapsed on particle", k, v)
		}
	}
}

func TestLineTrailKeepsBlending(t *testing.T) {
	r := NewLineTrailRenderer(nil, 2, 1, 1)
	r.EnableBlending(false)
	if !r.BlendingEnabled() {
		t.Error("blending disabled on line trail renderer")
	}
}

func TestLineTrailRejectsShortTrail(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for 1 sample")
		}
	}()
	NewLineTrailRenderer(nil, 1, 1, 1)
}

func TestParseBlendMode(t *testing.T) {
	for _, m := range []BlendMode{BlendNone, BlendAlpha, BlendAdditive} {
		got, ok := ParseBlendMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseBlendMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseBlendMode("screen"); ok {
		t.Error("unknown mode accepted")
	}
}
