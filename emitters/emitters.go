// Package emitters provides the launch-direction strategies plugged into
// core.Emitter, with constructors for each emitter kind.
package emitters

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// Spheric launches particles uniformly inside the cone between two angles
// around a base direction. Angles are measured from the direction, in
// radians.
type Spheric struct {
	direction r3.Vec
	angleMin  float64
	angleMax  float64
	frame     quat.Number
}

// NewSpheric builds a spheric direction. The angles are reordered if
// needed and clamped to [0, π].
func NewSpheric(direction r3.Vec, angleA, angleB float64) *Spheric {
	if r3.Norm2(direction) == 0 {
		direction = core.Forward
	}
	clamp := func(a float64) float64 { return math.Min(math.Max(a, 0), math.Pi) }
	angleA, angleB = clamp(angleA), clamp(angleB)
	if angleA > angleB {
		angleA, angleB = angleB, angleA
	}
	d := r3.Unit(direction)
	return &Spheric{direction: d, angleMin: angleA, angleMax: angleB, frame: core.ShortestArc(core.Forward, d)}
}

// NewSphericEmitter creates an emitter with a spheric direction.
func NewSphericEmitter(direction r3.Vec, angleA, angleB float64) *core.Emitter {
	return core.NewEmitter(NewSpheric(direction, angleA, angleB))
}

// Kind implements core.Direction.
func (s *Spheric) Kind() string { return "Spheric" }

// BaseDirection returns the cone axis in emitter space.
func (s *Spheric) BaseDirection() r3.Vec { return s.direction }

// Angles returns the cone bounds.
func (s *Spheric) Angles() (min, max float64) { return s.angleMin, s.angleMax }

// Generate draws cos θ uniformly between the bounds so directions are
// uniform over the spherical band.
func (s *Spheric) Generate(rng *rand.Rand, e *core.Emitter, position r3.Vec) r3.Vec {
	cosLo := math.Cos(s.angleMax)
	cosHi := math.Cos(s.angleMin)
	cosTheta := cosLo + rng.Float64()*(cosHi-cosLo)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := rng.Float64() * 2 * math.Pi
	local := r3.Vec{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
	return e.WorldTransform().ApplyDir(core.Rotate(s.frame, local))
}

// Straight launches every particle along one direction.
type Straight struct {
	direction r3.Vec
}

// NewStraightEmitter creates an emitter launching along direction.
func NewStraightEmitter(direction r3.Vec) *core.Emitter {
	if r3.Norm2(direction) == 0 {
		direction = core.Forward
	}
	return core.NewEmitter(&Straight{direction: r3.Unit(direction)})
}

// Kind implements core.Direction.
func (s *Straight) Kind() string { return "Straight" }

// Direction returns the unit launch direction.
func (s *Straight) Direction() r3.Vec { return s.direction }

// Generate implements core.Direction.
func (s *Straight) Generate(rng *rand.Rand, e *core.Emitter, position r3.Vec) r3.Vec {
	return e.WorldTransform().ApplyDir(s.direction)
}

// Random launches particles in isotropic directions.
type Random struct{}

// NewRandomEmitter creates an isotropic emitter.
func NewRandomEmitter() *core.Emitter {
	return core.NewEmitter(Random{})
}

// Kind implements core.Direction.
func (Random) Kind() string { return "Random" }

// Generate implements core.Direction.
func (Random) Generate(rng *rand.Rand, e *core.Emitter, position r3.Vec) r3.Vec {
	return core.RandomUnit(rng)
}

// Static spawns particles at rest.
type Static struct{}

// NewStaticEmitter creates an emitter whose particles start motionless.
func NewStaticEmitter() *core.Emitter {
	return core.NewEmitter(Static{})
}

// Kind implements core.Direction.
func (Static) Kind() string { return "Static" }

// Generate implements core.Direction.
func (Static) Generate(rng *rand.Rand, e *core.Emitter, position r3.Vec) r3.Vec {
	return r3.Vec{}
}

// Normal launches particles along the emitter zone's normal at the spawn
// position, or against it when inverted.
type Normal struct {
	inverted bool
}

// NewNormalEmitter creates a normal emitter.
func NewNormalEmitter(inverted bool) *core.Emitter {
	return core.NewEmitter(&Normal{inverted: inverted})
}

// Kind implements core.Direction.
func (n *Normal) Kind() string { return "Normal" }

// Inverted reports whether particles go against the normal.
func (n *Normal) Inverted() bool { return n.inverted }

// Generate implements core.Direction. Without an explicit zone the
// direction is isotropic.
func (n *Normal) Generate(rng *rand.Rand, e *core.Emitter, position r3.Vec) r3.Vec {
	z := e.Zone()
	if z == nil {
		return core.RandomUnit(rng)
	}
	d := z.Normal(position)
	if n.inverted {
		d = r3.Scale(-1, d)
	}
	return d
}
