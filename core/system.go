package core

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// System is the top-level container of groups. It applies the context's
// step policy to each external delta and updates every group once per
// sub-step.
type System struct {
	Base
	Placement
	ctx    *Context
	groups []*Group

	aabbEnabled bool
	aabbMin     r3.Vec
	aabbMax     r3.Vec

	steps    []float64
	subSteps uint64
}

// NewSystem creates an empty system bound to ctx.
func NewSystem(ctx *Context) *System {
	if ctx == nil {
		panic("core: system requires a context")
	}
	return &System{Placement: NewPlacement(), ctx: ctx}
}

// TypeName implements Object.
func (s *System) TypeName() string { return "System" }

// Context returns the system's context.
func (s *System) Context() *Context { return s.ctx }

// SetStepConfig replaces the context's step policy. An invalid policy is
// rejected and the previous one stays active.
func (s *System) SetStepConfig(cfg StepConfig) error { return s.ctx.SetStepConfig(cfg) }

// CreateGroup creates a group in the system's context and adds it.
func (s *System) CreateGroup(capacity int) (*Group, error) {
	g, err := NewGroup(s.ctx, capacity)
	if err != nil {
		return nil, err
	}
	s.AddGroup(g)
	return g, nil
}

// AddGroup takes a reference on g and indexes it and its children by name.
func (s *System) AddGroup(g *Group) {
	if g == nil || slices.Contains(s.groups, g) {
		return
	}
	if g.system != nil && g.system != s {
		g.system.RemoveGroup(g)
	}
	s.groups = append(s.groups, Retain(g))
	g.system = s
	s.ctx.registry.Register(g)
}

// RemoveGroup detaches g and releases the system's reference.
func (s *System) RemoveGroup(g *Group) bool {
	i := slices.Index(s.groups, g)
	if i < 0 {
		return false
	}
	s.groups = slices.Delete(s.groups, i, i+1)
	s.ctx.registry.Unregister(g)
	g.system = nil
	Drop(g)
	return true
}

// Groups returns the groups in update order.
func (s *System) Groups() []*Group { return s.groups }

// NbParticles returns the alive count over every group.
func (s *System) NbParticles() int {
	n := 0
	for _, g := range s.groups {
		n += g.NbParticles()
	}
	return n
}

// SubSteps returns the number of sub-steps executed so far.
func (s *System) SubSteps() uint64 { return s.subSteps }

// EnableAABBComputation toggles bounding box computation after updates.
func (s *System) EnableAABBComputation(enabled bool) { s.aabbEnabled = enabled }

// AABBComputationEnabled reports whether bounding boxes are computed.
func (s *System) AABBComputationEnabled() bool { return s.aabbEnabled }

// AABB returns the union of the group boxes from the last update.
func (s *System) AABB() (min, max r3.Vec) { return s.aabbMin, s.aabbMax }

// UpdateParticles advances every group by the external delta dt, split
// according to the context's step policy. Transforms are propagated once
// before the first sub-step. It reports whether any group is still alive.
func (s *System) UpdateParticles(dt float64) bool {
	world := s.WorldTransform()
	for _, g := range s.groups {
		g.UpdateTransform(world)
	}

	s.steps = s.ctx.step.AppendSubSteps(s.steps[:0], dt)
	alive := len(s.steps) == 0 && s.alive()
	for _, step := range s.steps {
		alive = false
		for _, g := range s.groups {
			if g.Update(step) {
				alive = true
			}
		}
		s.subSteps++
	}

	if s.aabbEnabled {
		s.computeAABB()
	}
	return alive
}

func (s *System) alive() bool {
	for _, g := range s.groups {
		if g.NbParticles() > 0 || g.hasActiveEmitter() {
			return true
		}
	}
	return false
}

func (s *System) computeAABB() {
	s.aabbMin = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	s.aabbMax = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	found := false
	for _, g := range s.groups {
		if g.NbParticles() == 0 {
			continue
		}
		lo, hi := g.ComputeAABB()
		s.aabbMin = r3.Vec{X: math.Min(s.aabbMin.X, lo.X), Y: math.Min(s.aabbMin.Y, lo.Y), Z: math.Min(s.aabbMin.Z, lo.Z)}
		s.aabbMax = r3.Vec{X: math.Max(s.aabbMax.X, hi.X), Y: math.Max(s.aabbMax.Y, hi.Y), Z: math.Max(s.aabbMax.Z, hi.Z)}
		found = true
	}
	if !found {
		s.aabbMin, s.aabbMax = r3.Vec{}, r3.Vec{}
	}
}

// RenderParticles renders every group in order.
func (s *System) RenderParticles() {
	for _, g := range s.groups {
		g.Render()
	}
}

// FindByName returns the first object registered under name, or nil.
func (s *System) FindByName(name string) Object {
	return s.ctx.registry.FindByName(name)
}

// FindAllByName returns every object registered under name.
func (s *System) FindAllByName(name string) []Object {
	return s.ctx.registry.FindAllByName(name)
}

// Children returns the groups.
func (s *System) Children() []Object {
	out := make([]Object, len(s.groups))
	for i, g := range s.groups {
		out[i] = g
	}
	return out
}

// Destroy removes and releases every group.
func (s *System) Destroy() {
	for len(s.groups) > 0 {
		s.RemoveGroup(s.groups[len(s.groups)-1])
	}
}
