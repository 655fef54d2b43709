package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer draws a group. The group calls AttachRenderBuffer once per
// renderer/capacity pair and hands the returned buffer back to Render.
type Renderer interface {
	Object
	Active() bool
	SetActive(active bool)
	AttachRenderBuffer(g *Group) any
	Render(g *Group, d *DataSet, buffer any)
	ComputeAABB(g *Group, d *DataSet) (min, max r3.Vec)
}

// RenderUpdater is implemented by renderers that sample particle state
// after every group update (trails).
type RenderUpdater interface {
	UpdateRender(g *Group, d *DataSet, dt float64)
}

// PositionsAABB bounds the alive particle positions of g, expanded by each
// particle's radius. An empty group yields a zero box.
func PositionsAABB(g *Group) (min, max r3.Vec) {
	if g.NbParticles() == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for p := range g.Particles() {
		pos := p.Position()
		r := p.Radius()
		min.X = math.Min(min.X, pos.X-r)
		min.Y = math.Min(min.Y, pos.Y-r)
		min.Z = math.Min(min.Z, pos.Z-r)
		max.X = math.Max(max.X, pos.X+r)
		max.Y = math.Max(max.Y, pos.Y+r)
		max.Z = math.Max(max.Z, pos.Z+r)
	}
	if math.IsInf(min.X, 1) {
		return r3.Vec{}, r3.Vec{}
	}
	return min, max
}

// ColorInterpolator drives particle color over its life.
type ColorInterpolator interface {
	Object
	InitColor(p Particle, d *DataSet)
	InterpolateColor(p Particle, d *DataSet)
}

// ParamInterpolator drives one scalar param over a particle's life.
type ParamInterpolator interface {
	Object
	InitParam(p Particle, param Param, d *DataSet)
	InterpolateParam(p Particle, param Param, d *DataSet)
}
