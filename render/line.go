package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// LineRenderer draws each particle as a segment from its position along
// its velocity, scaled by length.
type LineRenderer struct {
	RendererBase
	length float64
	width  float64
}

// NewLineRenderer creates a line renderer.
func NewLineRenderer(canvas Canvas, length, width float64) *LineRenderer {
	return &LineRenderer{RendererBase: NewRendererBase(canvas), length: length, width: math.Max(0, width)}
}

// TypeName implements core.Object.
func (r *LineRenderer) TypeName() string { return "LineRenderer" }

// Length returns the velocity scale of each segment.
func (r *LineRenderer) Length() float64 { return r.length }

// SetLength changes the velocity scale.
func (r *LineRenderer) SetLength(length float64) { r.length = length }

// Width returns the line width in pixels.
func (r *LineRenderer) Width() float64 { return r.width }

// SetWidth changes the line width.
func (r *LineRenderer) SetWidth(width float64) { r.width = math.Max(0, width) }

// AttachRenderBuffer implements core.Renderer.
func (r *LineRenderer) AttachRenderBuffer(g *core.Group) any {
	return NewBuffer(2 * g.Capacity())
}

func (r *LineRenderer) tip(p core.Particle) r3.Vec {
	return r3.Add(p.Position(), r3.Scale(r.length, p.Velocity()))
}

// Render implements core.Renderer.
func (r *LineRenderer) Render(g *core.Group, d *core.DataSet, buffer any) {
	if r.canvas == nil {
		return
	}
	b := bufferOf(buffer)
	b.Reset()
	for p := range g.Particles() {
		c := p.Color()
		b.AddSegment(p.Position(), r.tip(p), c, c)
	}
	r.canvas.DrawLines(b, r.options(r.width))
}

// ComputeAABB implements core.Renderer: the box covers both segment ends.
func (r *LineRenderer) ComputeAABB(g *core.Group, d *core.DataSet) (min, max r3.Vec) {
	var box aabb
	for p := range g.Particles() {
		box.add(p.Position())
		box.add(r.tip(p))
	}
	return box.bounds()
}

type aabb struct {
	min, max r3.Vec
	set      bool
}

func (a *aabb) add(v r3.Vec) {
	if !a.set {
		a.min, a.max, a.set = v, v, true
		return
	}
	a.min = r3.Vec{X: math.Min(a.min.X, v.X), Y: math.Min(a.min.Y, v.Y), Z: math.Min(a.min.Z, v.Z)}
	a.max = r3.Vec{X: math.Max(a.max.X, v.X), Y: math.Max(a.max.Y, v.Y), Z: math.Max(a.max.Z, v.Z)}
}

func (a *aabb) bounds() (min, max r3.Vec) { return a.min, a.max }
