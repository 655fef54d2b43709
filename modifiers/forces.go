// Package modifiers provides the bundled particle modifiers.
package modifiers

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// Gravity applies a constant acceleration, expressed in the modifier's
// local space.
type Gravity struct {
	core.ModifierBase
	gravity r3.Vec
}

// NewGravity creates a gravity modifier.
func NewGravity(gravity r3.Vec) *Gravity {
	return &Gravity{ModifierBase: core.NewModifierBase(core.PriorityForce), gravity: gravity}
}

// TypeName implements core.Object.
func (m *Gravity) TypeName() string { return "Gravity" }

// Value returns the local acceleration.
func (m *Gravity) Value() r3.Vec { return m.gravity }

// SetValue changes the local acceleration.
func (m *Gravity) SetValue(g r3.Vec) { m.gravity = g }

// Modify implements core.Modifier.
func (m *Gravity) Modify(g *core.Group, d *core.DataSet, dt float64) {
	dv := r3.Scale(dt, m.WorldTransform().ApplyDir(m.gravity))
	for p := range g.Particles() {
		p.SetVelocity(r3.Add(p.Velocity(), dv))
	}
}

// Friction damps velocity linearly: v *= 1 - factor*dt, floored at zero.
type Friction struct {
	core.ModifierBase
	factor float64
}

// NewFriction creates a friction modifier.
func NewFriction(factor float64) *Friction {
	return &Friction{ModifierBase: core.NewModifierBase(core.PriorityForce), factor: math.Max(0, factor)}
}

// TypeName implements core.Object.
func (m *Friction) TypeName() string { return "Friction" }

// Value returns the damping factor.
func (m *Friction) Value() float64 { return m.factor }

// SetValue changes the damping factor.
func (m *Friction) SetValue(f float64) { m.factor = math.Max(0, f) }

// Modify implements core.Modifier.
func (m *Friction) Modify(g *core.Group, d *core.DataSet, dt float64) {
	k := math.Max(0, 1-m.factor*dt)
	for p := range g.Particles() {
		p.SetVelocity(r3.Scale(k, p.Velocity()))
	}
}

// Rotator advances ParamAngle by ParamRotationSpeed.
type Rotator struct {
	core.ModifierBase
}

// NewRotator creates a rotator.
func NewRotator() *Rotator {
	return &Rotator{ModifierBase: core.NewModifierBase(core.PriorityRotation)}
}

// TypeName implements core.Object.
func (m *Rotator) TypeName() string { return "Rotator" }

// Modify implements core.Modifier.
func (m *Rotator) Modify(g *core.Group, d *core.DataSet, dt float64) {
	for p := range g.Particles() {
		angle := p.Param(core.ParamAngle) + p.Param(core.ParamRotationSpeed)*dt
		p.SetParam(core.ParamAngle, math.Mod(angle, 2*math.Pi))
	}
}
