package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// PointRenderer draws one screen-space point per particle. The point size
// is scaled by ParamScale.
type PointRenderer struct {
	RendererBase
	size float64
}

// NewPointRenderer creates a point renderer of the given pixel size.
func NewPointRenderer(canvas Canvas, size float64) *PointRenderer {
	return &PointRenderer{RendererBase: NewRendererBase(canvas), size: math.Max(0, size)}
}

// TypeName implements core.Object.
func (r *PointRenderer) TypeName() string { return "PointRenderer" }

// Size returns the base point size.
func (r *PointRenderer) Size() float64 { return r.size }

// SetSize changes the base point size.
func (r *PointRenderer) SetSize(size float64) { r.size = math.Max(0, size) }

// AttachRenderBuffer implements core.Renderer.
func (r *PointRenderer) AttachRenderBuffer(g *core.Group) any {
	return NewBuffer(g.Capacity())
}

// Render implements core.Renderer.
func (r *PointRenderer) Render(g *core.Group, d *core.DataSet, buffer any) {
	if r.canvas == nil {
		return
	}
	b := bufferOf(buffer)
	b.Reset()
	for p := range g.Particles() {
		b.AddPoint(p.Position(), p.Color(), r.size*p.Param(core.ParamScale))
	}
	r.canvas.DrawPoints(b, r.options(0))
}

// ComputeAABB implements core.Renderer.
func (r *PointRenderer) ComputeAABB(g *core.Group, d *core.DataSet) (min, max r3.Vec) {
	return core.PositionsAABB(g)
}
