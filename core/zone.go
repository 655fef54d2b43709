package core

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Zone is a spatial region. All queries are answered in world space using
// the zone's propagated world transform.
type Zone interface {
	Object
	Transformable
	// Contains reports whether v lies in the zone.
	Contains(v r3.Vec, radius float64) bool
	// Intersects reports whether the segment v0→v1 crosses the zone's
	// surface, offset by radius on v0's side, returning the crossing point
	// and the surface normal facing v0.
	Intersects(v0, v1 r3.Vec, radius float64) (hit, normal r3.Vec, ok bool)
	// GeneratePosition draws a position inside the zone (full) or on its
	// surface.
	GeneratePosition(rng *rand.Rand, full bool, radius float64) r3.Vec
	// Normal returns the outward surface normal nearest to v.
	Normal(v r3.Vec) r3.Vec
	// Distance returns the distance from v to the zone's surface.
	Distance(v r3.Vec) float64
	// Clone returns an unshared, unreferenced copy.
	Clone() Zone
}

// ZoneBase is embedded by every zone implementation.
type ZoneBase struct {
	Base
	Placement
}

// NewZoneBase returns a base placed at position.
func NewZoneBase(position r3.Vec) ZoneBase {
	zb := ZoneBase{Placement: NewPlacement()}
	zb.SetPosition(position)
	zb.UpdateTransform(Identity())
	return zb
}

// Position returns the world position of the zone origin.
func (z *ZoneBase) Position() r3.Vec {
	return z.WorldTransform().Position
}

// ZoneTest selects the predicate a zoned modifier evaluates per particle.
type ZoneTest int

// The ordering is significant: an unsupported test falls back to the
// lowest supported one.
const (
	ZoneTestInside ZoneTest = iota
	ZoneTestOutside
	ZoneTestIntersect
	ZoneTestEnter
	ZoneTestLeave
	NumZoneTests
)

var zoneTestNames = [NumZoneTests]string{"inside", "outside", "intersect", "enter", "leave"}

func (t ZoneTest) String() string {
	if t < 0 || t >= NumZoneTests {
		return fmt.Sprintf("ZoneTest(%d)", int(t))
	}
	return zoneTestNames[t]
}

// ParseZoneTest maps a name back to its ZoneTest.
func ParseZoneTest(name string) (ZoneTest, bool) {
	for i, n := range zoneTestNames {
		if n == name {
			return ZoneTest(i), true
		}
	}
	return 0, false
}

// ZoneTestFlags is a bitmask of supported zone tests.
type ZoneTestFlags uint8

// Flag returns the bit for t.
func (t ZoneTest) Flag() ZoneTestFlags {
	return 1 << uint(t)
}

// Has reports whether t is in the mask.
func (f ZoneTestFlags) Has(t ZoneTest) bool {
	return f&t.Flag() != 0
}

// Lowest returns the lowest-ordered test in the mask.
func (f ZoneTestFlags) Lowest() (ZoneTest, bool) {
	for t := ZoneTest(0); t < NumZoneTests; t++ {
		if f.Has(t) {
			return t, true
		}
	}
	return 0, false
}

// AllZoneTests is the mask of every test.
const AllZoneTests ZoneTestFlags = 1<<NumZoneTests - 1

// ZoneHit describes a successful zone test. Point and Normal are only
// meaningful for tests that cross the surface.
type ZoneHit struct {
	Point  r3.Vec
	Normal r3.Vec
}

// CheckZone evaluates test against a particle that moved from oldPos to pos.
func CheckZone(z Zone, test ZoneTest, oldPos, pos r3.Vec, radius float64) (ZoneHit, bool) {
	switch test {
	case ZoneTestInside:
		return ZoneHit{Point: pos, Normal: z.Normal(pos)}, z.Contains(pos, radius)
	case ZoneTestOutside:
		return ZoneHit{Point: pos, Normal: z.Normal(pos)}, !z.Contains(pos, radius)
	case ZoneTestIntersect:
		hit, normal, ok := z.Intersects(oldPos, pos, radius)
		return ZoneHit{Point: hit, Normal: normal}, ok
	case ZoneTestEnter:
		if z.Contains(oldPos, radius) || !z.Contains(pos, radius) {
			return ZoneHit{}, false
		}
		if hit, normal, ok := z.Intersects(oldPos, pos, radius); ok {
			return ZoneHit{Point: hit, Normal: normal}, true
		}
		return ZoneHit{Point: pos, Normal: z.Normal(pos)}, true
	case ZoneTestLeave:
		if !z.Contains(oldPos, radius) || z.Contains(pos, radius) {
			return ZoneHit{}, false
		}
		if hit, normal, ok := z.Intersects(oldPos, pos, radius); ok {
			return ZoneHit{Point: hit, Normal: normal}, true
		}
		return ZoneHit{Point: pos, Normal: z.Normal(pos)}, true
	}
	panic(fmt.Sprintf("core: unknown zone test %d", int(test)))
}

// Point is a zero-volume zone at its position. It is the default zone.
type Point struct {
	ZoneBase
}

// NewPoint creates a point zone.
func NewPoint(position r3.Vec) *Point {
	return &Point{ZoneBase: NewZoneBase(position)}
}

// TypeName implements Object.
func (p *Point) TypeName() string { return "Point" }

// Clone implements Zone.
func (p *Point) Clone() Zone {
	c := *p
	c.Base = p.Fresh()
	return &c
}

// Contains is always false: a point has no volume.
func (p *Point) Contains(v r3.Vec, radius float64) bool { return false }

// Intersects is always false.
func (p *Point) Intersects(v0, v1 r3.Vec, radius float64) (r3.Vec, r3.Vec, bool) {
	return r3.Vec{}, r3.Vec{}, false
}

// GeneratePosition returns the point itself.
func (p *Point) GeneratePosition(rng *rand.Rand, full bool, radius float64) r3.Vec {
	return p.Position()
}

// Normal points from the zone towards v.
func (p *Point) Normal(v r3.Vec) r3.Vec {
	d := r3.Sub(v, p.Position())
	if r3.Norm2(d) == 0 {
		return r3.Vec{Y: 1}
	}
	return r3.Unit(d)
}

// Distance is the euclidean distance to the point.
func (p *Point) Distance(v r3.Vec) float64 {
	return r3.Norm(r3.Sub(v, p.Position()))
}

// RandomRange draws uniformly from [lo, hi).
func RandomRange(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// RandomUnit draws an isotropic unit vector.
func RandomUnit(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		if n := r3.Norm2(v); n > 1e-12 {
			return r3.Unit(v)
		}
	}
}
