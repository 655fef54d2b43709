package render

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

// axisCanvas is a recorder that faces a fixed view.
type axisCanvas struct {
	*Recorder
	right, up r3.Vec
}

func (c axisCanvas) ViewAxes() (right, up r3.Vec) { return c.right, c.up }

func TestQuadRendererCorners(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		scale float64
		want  [4]r3.Vec
	}{
		{"upright", 0, 1, [4]r3.Vec{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}}},
		{"quarter roll", math.Pi / 2, 1, [4]r3.Vec{{X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}, {X: 1, Y: 1}}},
		{"half scale", 0, 0.5, [4]r3.Vec{{X: 1.5, Y: 1.5}, {X: 2.5, Y: 1.5}, {X: 2.5, Y: 2.5}, {X: 1.5, Y: 2.5}}},
	}

	for _, tc := range tests {
		rec := NewRecorder()
		r := NewQuadRenderer(rec, 1, 1)
		g := newGroup(t, 1, r)
		g.SetRadius(1)
		g.AddParticle(r3.Vec{X: 2, Y: 2}, r3.Vec{})
		g.Particle(0).SetParam(core.ParamAngle, tc.angle)
		g.Particle(0).SetParam(core.ParamScale, tc.scale)

		frame(rec, g)
		call := rec.Calls[0]
		if call.Kind != KindQuads || len(call.Vertices) != 4 || len(call.UVs) != 4 {
			t.Fatalf("%s: got %v with %d vertices and %d uvs", tc.name, call.Kind, len(call.Vertices), len(call.UVs))
		}
		for i, want := range tc.want {
			if !near(call.Vertices[i], want) {
				t.Errorf("%s: corner %d = %v, want %v", tc.name, i, call.Vertices[i], want)
			}
		}
	}
}

func TestQuadRendererFacesCanvasView(t *testing.T) {
	c := axisCanvas{Recorder: NewRecorder(), right: r3.Vec{Z: -1}, up: r3.Vec{Y: 1}}
	r := NewQuadRenderer(c, 2, 1)
	g := newGroup(t, 1, r)
	g.SetRadius(0.5)
	g.AddParticle(r3.Vec{}, r3.Vec{})

	c.Begin()
	g.Render()
	c.End()

	want := [4]r3.Vec{{Y: -0.5, Z: 1}, {Y: -0.5, Z: -1}, {Y: 0.5, Z: -1}, {Y: 0.5, Z: 1}}
	for i, v := range c.Calls[0].Vertices {
		if !near(v, want[i]) {
			t.Errorf("corner %d = %v, want %v", i, v, want[i])
		}
		if v.X != 0 {
			t.Errorf("corner %d leaves the view plane: %v", i, v)
		}
	}
}

func TestQuadRendererAtlasCells(t *testing.T) {
	r := NewQuadRenderer(nil, 1, 1)
	r.SetAtlasDimensions(2, 2)

	tests := []struct {
		index float64
		want  Cell
	}{
		{0, Cell{Min: UV{0, 0}, Max: UV{0.5, 0.5}}},
		{1.9, Cell{Min: UV{0.5, 0}, Max: UV{1, 0.5}}},
		{2, Cell{Min: UV{0, 0.5}, Max: UV{0.5, 1}}},
		{3.7, Cell{Min: UV{0.5, 0.5}, Max: UV{1, 1}}},
		{4, Cell{Min: UV{0, 0}, Max: UV{0.5, 0.5}}},
		{-1, Cell{Min: UV{0.5, 0.5}, Max: UV{1, 1}}},
	}
	for _, tc := range tests {
		if got := r.AtlasCell(tc.index); got != tc.want {
			t.Errorf("index %v: cell = %+v, want %+v", tc.index, got, tc.want)
		}
	}

	r.SetAtlasDimensions(0, -3)
	if cols, rows := r.AtlasDimensions(); cols != 1 || rows != 1 {
		t.Errorf("atlas = %dx%d, want 1x1", cols, rows)
	}
}

func TestQuadRendererUVsFollowTextureIndex(t *testing.T) {
	rec := NewRecorder()
	r := NewQuadRenderer(rec, 1, 1)
	r.SetAtlasDimensions(2, 2)
	g := newGroup(t, 2, r)
	g.AddParticle(r3.Vec{}, r3.Vec{})
	g.AddParticle(r3.Vec{X: 5}, r3.Vec{})
	g.Particle(1).SetParam(core.ParamTextureIndex, 3)

	frame(rec, g)
	uvs := rec.Calls[0].UVs
	if len(uvs) != 8 {
		t.Fatalf("uvs = %d, want 8", len(uvs))
	}
	want := []UV{{0, 0.5}, {0.5, 0.5}, {0.5, 0}, {0, 0}, {0.5, 1}, {1, 1}, {1, 0.5}, {0.5, 0.5}}
	for i, uv := range uvs {
		if uv != want[i] {
			t.Errorf("uv[%d] = %v, want %v", i, uv, want[i])
		}
	}
}

func TestQuadRendererAABBCoversRolledQuads(t *testing.T) {
	r := NewQuadRenderer(nil, 1, 2)
	g := newGroup(t, 2, r)
	g.SetRadius(0.5)
	g.AddParticle(r3.Vec{}, r3.Vec{})
	g.AddParticle(r3.Vec{X: 4}, r3.Vec{})
	g.Particle(1).SetParam(core.ParamScale, 2)

	lo, hi := r.ComputeAABB(g, nil)
	e0 := 0.5 * math.Sqrt(5)
	e1 := 2 * e0
	if !near(lo, r3.Vec{X: -e0, Y: -e1, Z: -e1}) || !near(hi, r3.Vec{X: 4 + e1, Y: e1, Z: e1}) {
		t.Errorf("aabb = %v..%v", lo, hi)
	}

	for _, angle := range []float64{0, 0.3, math.Pi / 4, 2} {
		g.Particle(1).SetParam(core.ParamAngle, angle)
		for _, c := range r.corners(g.Particle(1), r3.Vec{X: 1}, r3.Vec{Y: 1}) {
			if c.X < lo.X-1e-9 || c.X > hi.X+1e-9 || c.Y < lo.Y-1e-9 || c.Y > hi.Y+1e-9 {
				t.Errorf("angle %v: corner %v outside %v..%v", angle, c, lo, hi)
			}
		}
	}
}
