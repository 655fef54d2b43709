package render

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

const (
	trailPositions = iota
	trailColors
	trailAges
	trailAlphas
	trailSlots
)

// LineTrailRenderer draws a fading polyline behind every particle. Each
// particle keeps nbSamples positions in its data set; sample 0 tracks the
// particle and the older samples shift back every duration/(nbSamples-1)
// seconds of particle age. Sample alpha fades to zero over duration.
type LineTrailRenderer struct {
	RendererBase
	nbSamples int
	duration  float64
	width     float64
}

// NewLineTrailRenderer creates a trail renderer. It panics when nbSamples
// is below 2 or duration is not positive.
func NewLineTrailRenderer(canvas Canvas, nbSamples int, duration, width float64) *LineTrailRenderer {
	r := &LineTrailRenderer{RendererBase: NewRendererBase(canvas), width: math.Max(0, width)}
	r.SetNbSamples(nbSamples)
	r.SetDuration(duration)
	return r
}

// TypeName implements core.Object.
func (r *LineTrailRenderer) TypeName() string { return "LineTrailRenderer" }

// NbSamples returns the number of samples per trail.
func (r *LineTrailRenderer) NbSamples() int { return r.nbSamples }

// SetNbSamples changes the trail length. Data sets are rebuilt on the next
// group update.
func (r *LineTrailRenderer) SetNbSamples(n int) {
	if n < 2 {
		panic(fmt.Sprintf("render: line trail needs at least 2 samples, got %d", n))
	}
	r.nbSamples = n
}

// Duration returns the time a sample takes to fade out.
func (r *LineTrailRenderer) Duration() float64 { return r.duration }

// SetDuration changes the fade time.
func (r *LineTrailRenderer) SetDuration(d float64) {
	if d <= 0 {
		panic(fmt.Sprintf("render: line trail duration must be positive, got %v", d))
	}
	r.duration = d
}

// Width returns the line width in pixels.
func (r *LineTrailRenderer) Width() float64 { return r.width }

// SetWidth changes the line width.
func (r *LineTrailRenderer) SetWidth(w float64) { r.width = math.Max(0, w) }

// EnableBlending keeps blending on: trails fade through alpha.
func (r *LineTrailRenderer) EnableBlending(on bool) {
	if !on {
		slog.Warn("blending cannot be disabled for line trails", "renderer", r.Name())
	}
	r.RendererBase.EnableBlending(true)
}

// NeedsDataSet implements core.DataHandler.
func (r *LineTrailRenderer) NeedsDataSet() bool { return true }

// CreateData implements core.DataHandler.
func (r *LineTrailRenderer) CreateData(d *core.DataSet, g *core.Group) {
	n := g.Capacity()
	d.Init(trailSlots)
	d.SetData(trailPositions, core.NewArrayData[r3.Vec](n, r.nbSamples))
	d.SetData(trailColors, core.NewArrayData[core.Color](n, r.nbSamples))
	d.SetData(trailAges, core.NewArrayData[float64](n, r.nbSamples))
	d.SetData(trailAlphas, core.NewArrayData[uint8](n, r.nbSamples))
}

// CheckData implements core.DataHandler: the set is stale once the sample
// count changed.
func (r *LineTrailRenderer) CheckData(d *core.DataSet, g *core.Group) bool {
	return core.DataAt[*core.Float64ArrayData](d, trailAges).SizePerParticle() != r.nbSamples
}

// InitParticle implements core.ParticleInitializer: the whole trail
// collapses onto the spawn position.
func (r *LineTrailRenderer) InitParticle(p core.Particle, d *core.DataSet) {
	i := p.Index()
	c := p.Color()
	core.DataAt[*core.ArrayData[r3.Vec]](d, trailPositions).Fill(i, p.Position())
	core.DataAt[*core.ColorArrayData](d, trailColors).Fill(i, c)
	core.DataAt[*core.Float64ArrayData](d, trailAges).Fill(i, p.Age())
	core.DataAt[*core.ArrayData[uint8]](d, trailAlphas).Fill(i, c.A)
}

// UpdateRender implements core.RenderUpdater.
func (r *LineTrailRenderer) UpdateRender(g *core.Group, d *core.DataSet, dt float64) {
	positions := core.DataAt[*core.ArrayData[r3.Vec]](d, trailPositions)
	colors := core.DataAt[*core.ColorArrayData](d, trailColors)
	ages := core.DataAt[*core.Float64ArrayData](d, trailAges)
	alphas := core.DataAt[*core.ArrayData[uint8]](d, trailAlphas)
	n := ages.SizePerParticle()
	step := r.duration / float64(n-1)

	for p := range g.Particles() {
		i := p.Index()
		pos := positions.ParticleData(i)
		col := colors.ParticleData(i)
		age := ages.ParticleData(i)
		alpha := alphas.ParticleData(i)

		now := p.Age()
		if now-age[1] >= step {
			copy(pos[1:], pos[:n-1])
			copy(col[1:], col[:n-1])
			copy(age[1:], age[:n-1])
			copy(alpha[1:], alpha[:n-1])
		}
		c := p.Color()
		pos[0] = p.Position()
		col[0] = c
		age[0] = now
		alpha[0] = c.A
		for k := 1; k < n; k++ {
			ratio := math.Max(0, 1-(now-age[k])/r.duration)
			col[k].A = uint8(float64(alpha[k]) * ratio)
		}
	}
}

// AttachRenderBuffer implements core.Renderer.
func (r *LineTrailRenderer) AttachRenderBuffer(g *core.Group) any {
	return NewBuffer(2 * (r.nbSamples - 1) * g.Capacity())
}

// Render implements core.Renderer.
func (r *LineTrailRenderer) Render(g *core.Group, d *core.DataSet, buffer any) {
	if r.canvas == nil || d == nil {
		return
	}
	b := bufferOf(buffer)
	b.Reset()
	positions := core.DataAt[*core.ArrayData[r3.Vec]](d, trailPositions)
	colors := core.DataAt[*core.ColorArrayData](d, trailColors)
	for p := range g.Particles() {
		pos := positions.ParticleData(p.Index())
		col := colors.ParticleData(p.Index())
		for k := 0; k+1 < len(pos); k++ {
			b.AddSegment(pos[k], pos[k+1], col[k], col[k+1])
		}
	}
	r.canvas.DrawLines(b, r.options(r.width))
}

// ComputeAABB implements core.Renderer over every trail sample.
func (r *LineTrailRenderer) ComputeAABB(g *core.Group, d *core.DataSet) (min, max r3.Vec) {
	if d == nil {
		return core.PositionsAABB(g)
	}
	positions := core.DataAt[*core.ArrayData[r3.Vec]](d, trailPositions)
	var box aabb
	for p := range g.Particles() {
		for _, v := range positions.ParticleData(p.Index()) {
			box.add(v)
		}
	}
	return box.bounds()
}
