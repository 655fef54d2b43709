package core

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// fixedDirection launches every particle along dir.
type fixedDirection struct {
	dir r3.Vec
}

func (d fixedDirection) Kind() string { return "Fixed" }

func (d fixedDirection) Generate(rng *rand.Rand, e *Emitter, position r3.Vec) r3.Vec {
	return e.WorldTransform().ApplyDir(d.dir)
}

// tagModifier records visits, kills by predicate and keeps a per-particle
// tag (the particle's spawn X coordinate) in a data set of size floats.
type tagModifier struct {
	ModifierBase
	size   int
	inits  int
	visits int
	kill   func(p Particle) bool
	log    *[]string
}

func newTagModifier(name string, priority, size int) *tagModifier {
	m := &tagModifier{ModifierBase: NewModifierBase(priority), size: size}
	m.SetName(name)
	return m
}

func (m *tagModifier) TypeName() string { return "Tag" }

func (m *tagModifier) NeedsDataSet() bool { return m.size > 0 }

func (m *tagModifier) CreateData(d *DataSet, g *Group) {
	d.Init(1)
	d.SetData(0, NewArrayData[float64](g.Capacity(), m.size))
}

func (m *tagModifier) CheckData(d *DataSet, g *Group) bool {
	return DataAt[*Float64ArrayData](d, 0).SizePerParticle() != m.size
}

func (m *tagModifier) InitParticle(p Particle, d *DataSet) {
	m.inits++
	if d != nil {
		DataAt[*Float64ArrayData](d, 0).Fill(p.Index(), p.Position().X)
	}
}

func (m *tagModifier) Modify(g *Group, d *DataSet, dt float64) {
	if m.log != nil {
		*m.log = append(*m.log, m.Name())
	}
	for p := range g.Particles() {
		m.visits++
		if m.kill != nil && m.kill(p) {
			p.Kill()
		}
	}
}

func (m *tagModifier) tag(g *Group, i int) []float64 {
	return DataAt[*Float64ArrayData](g.DataSet(m), 0).ParticleData(i)
}

// newTestGroup creates an immortal group holding n particles at x = 0..n-1.
func newTestGroup(capacity, n int) (*Group, *Context) {
	ctx := NewContext(1)
	g, err := NewGroup(ctx, capacity)
	if err != nil {
		panic(err)
	}
	g.SetImmortal(true)
	for i := 0; i < n; i++ {
		g.AddParticle(r3.Vec{X: float64(i)}, r3.Vec{})
	}
	return g, ctx
}

// funcModifier calls fn once per update.
type funcModifier struct {
	ModifierBase
	fn func(g *Group)
}

func (m *funcModifier) TypeName() string { return "Func" }

func (m *funcModifier) Modify(g *Group, d *DataSet, dt float64) { m.fn(g) }
