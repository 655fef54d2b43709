package core

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Param names one of the fixed scalar attributes every particle carries.
type Param int

const (
	ParamScale Param = iota
	ParamMass
	ParamAngle
	ParamTextureIndex
	ParamRotationSpeed
	NumParams
)

var paramNames = [NumParams]string{"scale", "mass", "angle", "texture_index", "rotation_speed"}

// ParamDefaults are the values a particle starts with before interpolators
// run.
var ParamDefaults = [NumParams]float64{1, 1, 0, 0, 0}

func (p Param) String() string {
	if p < 0 || p >= NumParams {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return paramNames[p]
}

// ParseParam maps a name back to its Param.
func ParseParam(name string) (Param, bool) {
	for i, n := range paramNames {
		if n == name {
			return Param(i), true
		}
	}
	return 0, false
}

// Particle is a view of one slot of a group. It is only valid until the
// group next compacts; do not retain it across updates.
type Particle struct {
	g     *Group
	index int
}

// Group returns the owning group.
func (p Particle) Group() *Group { return p.g }

// Index returns the slot index.
func (p Particle) Index() int { return p.index }

// Position returns the current position.
func (p Particle) Position() r3.Vec { return p.g.position.data[p.index] }

// SetPosition moves the particle.
func (p Particle) SetPosition(v r3.Vec) { p.g.position.data[p.index] = v }

// OldPosition returns the position before the last integration step.
func (p Particle) OldPosition() r3.Vec { return p.g.oldPosition.data[p.index] }

// SetOldPosition overrides the previous position.
func (p Particle) SetOldPosition(v r3.Vec) { p.g.oldPosition.data[p.index] = v }

// Velocity returns the current velocity.
func (p Particle) Velocity() r3.Vec { return p.g.velocity.data[p.index] }

// SetVelocity replaces the velocity.
func (p Particle) SetVelocity(v r3.Vec) { p.g.velocity.data[p.index] = v }

// Age returns the time since birth.
func (p Particle) Age() float64 { return p.g.age.data[p.index] }

// Life returns the remaining lifetime.
func (p Particle) Life() float64 { return p.g.life.data[p.index] }

// Lifetime returns the total lifetime drawn at birth.
func (p Particle) Lifetime() float64 { return p.g.lifetime.data[p.index] }

// AgeRatio returns age/lifetime clamped to [0, 1]; immortal particles
// report 0.
func (p Particle) AgeRatio() float64 {
	lt := p.g.lifetime.data[p.index]
	if p.g.immortal || lt <= 0 {
		return 0
	}
	r := p.g.age.data[p.index] / lt
	if r > 1 {
		return 1
	}
	return r
}

// Color returns the particle color.
func (p Particle) Color() Color { return p.g.color.data[p.index] }

// SetColor replaces the particle color.
func (p Particle) SetColor(c Color) { p.g.color.data[p.index] = c }

// Param returns the value of param.
func (p Particle) Param(param Param) float64 { return p.g.params[param].data[p.index] }

// SetParam replaces the value of param.
func (p Particle) SetParam(param Param, v float64) { p.g.params[param].data[p.index] = v }

// Radius returns the group's physical particle radius scaled by ParamScale.
func (p Particle) Radius() float64 { return p.g.radius * p.Param(ParamScale) }

// Kill marks the particle dead. It stays in place until the group's next
// compaction, and later modifiers in the same pass skip it.
func (p Particle) Kill() { p.g.dead.data[p.index] = true }

// IsAlive reports whether the particle is live and not marked dead.
func (p Particle) IsAlive() bool {
	return p.index < p.g.alive && !p.g.dead.data[p.index]
}
