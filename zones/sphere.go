// Package zones provides the volumetric zones: spheres, planes and
// axis-aligned boxes.
package zones

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// Sphere is a ball of a given radius around its position.
type Sphere struct {
	core.ZoneBase
	radius float64
}

// NewSphere creates a sphere zone.
func NewSphere(center r3.Vec, radius float64) *Sphere {
	return &Sphere{ZoneBase: core.NewZoneBase(center), radius: math.Abs(radius)}
}

// TypeName implements core.Object.
func (s *Sphere) TypeName() string { return "Sphere" }

// Radius returns the sphere radius.
func (s *Sphere) Radius() float64 { return s.radius }

// SetRadius changes the sphere radius.
func (s *Sphere) SetRadius(r float64) { s.radius = math.Abs(r) }

// Clone implements core.Zone.
func (s *Sphere) Clone() core.Zone {
	c := *s
	c.Base = s.Fresh()
	return &c
}

// Contains reports whether v is inside the ball.
func (s *Sphere) Contains(v r3.Vec, radius float64) bool {
	return r3.Norm2(r3.Sub(v, s.Position())) <= s.radius*s.radius
}

// Intersects finds where v0→v1 crosses the sphere surface. The surface is
// pushed out by radius for particles coming from outside and pulled in by
// radius for particles coming from inside.
func (s *Sphere) Intersects(v0, v1 r3.Vec, radius float64) (r3.Vec, r3.Vec, bool) {
	c := s.Position()
	rel := r3.Sub(v0, c)
	outside := r3.Norm2(rel) > s.radius*s.radius
	r := s.radius + radius
	if !outside {
		r = math.Max(s.radius-radius, 0)
	}

	f0 := r3.Norm(rel) - r
	f1 := r3.Norm(r3.Sub(v1, c)) - r
	if outside && !(f0 >= 0 && f1 < 0) {
		return r3.Vec{}, r3.Vec{}, false
	}
	if !outside && !(f0 <= 0 && f1 > 0) {
		return r3.Vec{}, r3.Vec{}, false
	}

	d := r3.Sub(v1, v0)
	a := r3.Dot(d, d)
	b := 2 * r3.Dot(rel, d)
	cc := r3.Dot(rel, rel) - r*r
	disc := b*b - 4*a*cc
	if a == 0 || disc < 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / (2 * a)
	if !outside {
		t = (-b + sq) / (2 * a)
	}
	t = math.Min(math.Max(t, 0), 1)

	hit := r3.Add(v0, r3.Scale(t, d))
	normal := s.Normal(hit)
	if !outside {
		normal = r3.Scale(-1, normal)
	}
	return hit, normal, true
}

// GeneratePosition draws uniformly inside the ball or on its surface.
func (s *Sphere) GeneratePosition(rng *rand.Rand, full bool, radius float64) r3.Vec {
	dir := core.RandomUnit(rng)
	r := s.radius
	if full {
		r *= math.Cbrt(rng.Float64())
	}
	return r3.Add(s.Position(), r3.Scale(r, dir))
}

// Normal points from the center towards v.
func (s *Sphere) Normal(v r3.Vec) r3.Vec {
	d := r3.Sub(v, s.Position())
	if r3.Norm2(d) == 0 {
		return r3.Vec{Y: 1}
	}
	return r3.Unit(d)
}

// Distance returns the distance from v to the surface.
func (s *Sphere) Distance(v r3.Vec) float64 {
	return math.Abs(r3.Norm(r3.Sub(v, s.Position())) - s.radius)
}
