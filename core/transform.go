package core

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Forward is the local axis that orientations map onto a look direction.
var Forward = r3.Vec{X: 0, Y: 0, Z: 1}

// IdentityRotation is the no-op orientation.
var IdentityRotation = quat.Number{Real: 1}

// Transform is a rigid placement: rotate by Orientation, then translate
// by Position.
type Transform struct {
	Position    r3.Vec
	Orientation quat.Number
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Orientation: IdentityRotation}
}

// Translation returns a transform that only moves by p.
func Translation(p r3.Vec) Transform {
	return Transform{Position: p, Orientation: IdentityRotation}
}

// Apply maps a local point to the parent space.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(Rotate(t.Orientation, p), t.Position)
}

// ApplyDir maps a local direction to the parent space.
func (t Transform) ApplyDir(d r3.Vec) r3.Vec {
	return Rotate(t.Orientation, d)
}

// Compose returns the transform equivalent to applying local then t.
func (t Transform) Compose(local Transform) Transform {
	return Transform{
		Position:    t.Apply(local.Position),
		Orientation: quat.Mul(orientation(t.Orientation), orientation(local.Orientation)),
	}
}

// orientation treats the zero quaternion of a zero Transform as identity.
func orientation(q quat.Number) quat.Number {
	if q == (quat.Number{}) {
		return IdentityRotation
	}
	return q
}

// Rotate applies the unit quaternion q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	if q == (quat.Number{}) {
		return v
	}
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// AxisAngle returns the rotation of angle radians about axis.
func AxisAngle(axis r3.Vec, angle float64) quat.Number {
	n := r3.Norm(axis)
	if n == 0 {
		return IdentityRotation
	}
	s := math.Sin(angle/2) / n
	return quat.Number{Real: math.Cos(angle / 2), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// LookAt returns the shortest-arc rotation taking Forward onto dir.
// A zero dir yields the identity.
func LookAt(dir r3.Vec) quat.Number {
	return ShortestArc(Forward, dir)
}

// ShortestArc returns the rotation taking direction from onto direction to.
func ShortestArc(from, to r3.Vec) quat.Number {
	if r3.Norm2(from) == 0 || r3.Norm2(to) == 0 {
		return IdentityRotation
	}
	a := r3.Unit(from)
	b := r3.Unit(to)
	d := r3.Dot(a, b)
	const eps = 1e-9
	if d > 1-eps {
		return IdentityRotation
	}
	if d < -1+eps {
		axis := r3.Cross(r3.Vec{X: 1}, a)
		if r3.Norm2(axis) < eps {
			axis = r3.Cross(r3.Vec{Y: 1}, a)
		}
		return AxisAngle(axis, math.Pi)
	}
	c := r3.Cross(a, b)
	q := quat.Number{Real: 1 + d, Imag: c.X, Jmag: c.Y, Kmag: c.Z}
	return quat.Scale(1/quat.Abs(q), q)
}

// Transformable is implemented by objects placed in the transform
// hierarchy (emitters, modifiers, zones).
type Transformable interface {
	LocalTransform() Transform
	SetLocalTransform(t Transform)
	WorldTransform() Transform
	// UpdateTransform recomputes the world transform from the parent's and
	// propagates to owned children.
	UpdateTransform(parent Transform)
}

// Placement is the embeddable Transformable implementation.
type Placement struct {
	local Transform
	world Transform
}

// NewPlacement returns an identity placement.
func NewPlacement() Placement {
	return Placement{local: Identity(), world: Identity()}
}

// LocalTransform returns the transform relative to the parent.
func (p *Placement) LocalTransform() Transform { return p.local }

// SetLocalTransform replaces the local transform. The world transform
// follows on the next UpdateTransform.
func (p *Placement) SetLocalTransform(t Transform) { p.local = t }

// SetPosition moves the local origin.
func (p *Placement) SetPosition(pos r3.Vec) { p.local.Position = pos }

// WorldTransform returns the last propagated world transform.
func (p *Placement) WorldTransform() Transform { return p.world }

// UpdateTransform recomputes the world transform.
func (p *Placement) UpdateTransform(parent Transform) {
	p.world = parent.Compose(p.local)
}
