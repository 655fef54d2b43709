package zones

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// Plane splits space in two. The half-space opposite the normal is the
// inside of the zone.
type Plane struct {
	core.ZoneBase
	normal r3.Vec
}

// NewPlane creates a plane through position. A zero normal defaults to +Y.
func NewPlane(position, normal r3.Vec) *Plane {
	p := &Plane{ZoneBase: core.NewZoneBase(position)}
	p.SetNormal(normal)
	return p
}

// TypeName implements core.Object.
func (p *Plane) TypeName() string { return "Plane" }

// SetNormal changes the local normal.
func (p *Plane) SetNormal(n r3.Vec) {
	if r3.Norm2(n) == 0 {
		n = r3.Vec{Y: 1}
	}
	p.normal = r3.Unit(n)
}

// LocalNormal returns the normal before transformation.
func (p *Plane) LocalNormal() r3.Vec { return p.normal }

// Clone implements core.Zone.
func (p *Plane) Clone() core.Zone {
	c := *p
	c.Base = p.Fresh()
	return &c
}

func (p *Plane) worldNormal() r3.Vec {
	return r3.Unit(p.WorldTransform().ApplyDir(p.normal))
}

func (p *Plane) signedDistance(v r3.Vec) float64 {
	return r3.Dot(r3.Sub(v, p.Position()), p.worldNormal())
}

// Contains reports whether v is behind the plane.
func (p *Plane) Contains(v r3.Vec, radius float64) bool {
	return p.signedDistance(v) <= 0
}

// Intersects finds where v0→v1 crosses the plane, offset by radius
// towards v0's side.
func (p *Plane) Intersects(v0, v1 r3.Vec, radius float64) (r3.Vec, r3.Vec, bool) {
	d0 := p.signedDistance(v0)
	d1 := p.signedDistance(v1)
	side := 1.0
	if d0 < 0 {
		side = -1
	}
	f0 := d0 - side*radius
	f1 := d1 - side*radius
	if side > 0 && !(f0 >= 0 && f1 < 0) {
		return r3.Vec{}, r3.Vec{}, false
	}
	if side < 0 && !(f0 <= 0 && f1 > 0) {
		return r3.Vec{}, r3.Vec{}, false
	}
	t := f0 / (f0 - f1)
	hit := r3.Add(v0, r3.Scale(t, r3.Sub(v1, v0)))
	return hit, r3.Scale(side, p.worldNormal()), true
}

// GeneratePosition returns the plane origin: an infinite plane has no
// meaningful uniform distribution.
func (p *Plane) GeneratePosition(rng *rand.Rand, full bool, radius float64) r3.Vec {
	return p.Position()
}

// Normal returns the world normal.
func (p *Plane) Normal(v r3.Vec) r3.Vec { return p.worldNormal() }

// Distance returns the unsigned distance from v to the plane.
func (p *Plane) Distance(v r3.Vec) float64 {
	return math.Abs(p.signedDistance(v))
}
