package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// QuadRenderer draws one camera-facing quad per particle. A quad's half
// extents are the particle radius (which includes ParamScale) times the X
// and Y scales,
// it is rolled by ParamAngle and textured with the atlas cell selected by
// ParamTextureIndex.
type QuadRenderer struct {
	RendererBase
	scaleX, scaleY float64
	cols, rows     int
}

// NewQuadRenderer creates a quad renderer with a single-cell atlas.
func NewQuadRenderer(canvas Canvas, scaleX, scaleY float64) *QuadRenderer {
	r := &QuadRenderer{RendererBase: NewRendererBase(canvas), cols: 1, rows: 1}
	r.SetScale(scaleX, scaleY)
	return r
}

// TypeName implements core.Object.
func (r *QuadRenderer) TypeName() string { return "QuadRenderer" }

// Scale returns the X and Y quad scales.
func (r *QuadRenderer) Scale() (x, y float64) { return r.scaleX, r.scaleY }

// SetScale changes the quad scales. Negative scales become zero.
func (r *QuadRenderer) SetScale(x, y float64) {
	r.scaleX = math.Max(0, x)
	r.scaleY = math.Max(0, y)
}

// AtlasDimensions returns the atlas grid size.
func (r *QuadRenderer) AtlasDimensions() (cols, rows int) { return r.cols, r.rows }

// SetAtlasDimensions splits the texture into a cols by rows grid.
func (r *QuadRenderer) SetAtlasDimensions(cols, rows int) {
	r.cols = max(1, cols)
	r.rows = max(1, rows)
}

// AtlasCell returns the UV rectangle for a texture index. Cells are
// numbered row by row from the top left; the index is truncated and
// wraps around the atlas.
func (r *QuadRenderer) AtlasCell(index float64) Cell {
	n := r.cols * r.rows
	i := int(math.Floor(index)) % n
	if i < 0 {
		i += n
	}
	col, row := i%r.cols, i/r.cols
	w, h := 1/float64(r.cols), 1/float64(r.rows)
	return Cell{
		Min: UV{float64(col) * w, float64(row) * h},
		Max: UV{float64(col+1) * w, float64(row+1) * h},
	}
}

// AttachRenderBuffer implements core.Renderer.
func (r *QuadRenderer) AttachRenderBuffer(g *core.Group) any {
	return NewBuffer(4 * g.Capacity())
}

// Render implements core.Renderer.
func (r *QuadRenderer) Render(g *core.Group, d *core.DataSet, buffer any) {
	if r.canvas == nil {
		return
	}
	b := bufferOf(buffer)
	b.Reset()
	right, up := viewAxes(r.canvas)
	for p := range g.Particles() {
		b.AddQuad(r.corners(p, right, up), p.Color(), r.AtlasCell(p.Param(core.ParamTextureIndex)))
	}
	r.canvas.DrawQuads(b, r.options(0))
}

func (r *QuadRenderer) corners(p core.Particle, right, up r3.Vec) [4]r3.Vec {
	size := p.Radius()
	sin, cos := math.Sincos(p.Param(core.ParamAngle))
	side := r3.Scale(size*r.scaleX, r3.Add(r3.Scale(cos, right), r3.Scale(sin, up)))
	top := r3.Scale(size*r.scaleY, r3.Sub(r3.Scale(cos, up), r3.Scale(sin, right)))

	pos := p.Position()
	return [4]r3.Vec{
		r3.Sub(r3.Sub(pos, side), top),
		r3.Sub(r3.Add(pos, side), top),
		r3.Add(r3.Add(pos, side), top),
		r3.Add(r3.Sub(pos, side), top),
	}
}

// ComputeAABB implements core.Renderer. Each particle is padded by its
// quad's half diagonal so any roll stays inside the box.
func (r *QuadRenderer) ComputeAABB(g *core.Group, d *core.DataSet) (min, max r3.Vec) {
	if g.NbParticles() == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	diagonal := math.Hypot(r.scaleX, r.scaleY)
	min = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for p := range g.Particles() {
		pos := p.Position()
		e := diagonal * p.Radius()
		min = r3.Vec{X: math.Min(min.X, pos.X-e), Y: math.Min(min.Y, pos.Y-e), Z: math.Min(min.Z, pos.Z-e)}
		max = r3.Vec{X: math.Max(max.X, pos.X+e), Y: math.Max(max.Y, pos.Y+e), Z: math.Max(max.Z, pos.Z+e)}
	}
	return min, max
}
