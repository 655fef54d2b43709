package modifiers

import (
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// Axis offsets decorrelate the three noise channels.
const (
	turbulenceOffsetY = 100
	turbulenceOffsetZ = 200
)

// Turbulence pushes particles through a time-varying simplex noise field.
// The field is sampled at the group's elapsed time, so one modifier shared
// by several groups holds no per-frame state.
type Turbulence struct {
	core.ModifierBase
	noise     opensimplex.Noise
	seed      int64
	scale     float64
	strength  float64
	timeScale float64
}

// NewTurbulence creates a turbulence field. scale is the spatial frequency,
// strength the peak acceleration and timeScale how fast the field evolves.
func NewTurbulence(seed int64, scale, strength, timeScale float64) *Turbulence {
	return &Turbulence{
		ModifierBase: core.NewModifierBase(core.PriorityForce),
		noise:        opensimplex.New(seed),
		seed:         seed,
		scale:        scale,
		strength:     strength,
		timeScale:    timeScale,
	}
}

// TypeName implements core.Object.
func (m *Turbulence) TypeName() string { return "Turbulence" }

// Seed returns the noise seed.
func (m *Turbulence) Seed() int64 { return m.seed }

// Scale returns the spatial frequency.
func (m *Turbulence) Scale() float64 { return m.scale }

// Strength returns the peak acceleration.
func (m *Turbulence) Strength() float64 { return m.strength }

// SetStrength changes the peak acceleration.
func (m *Turbulence) SetStrength(s float64) { m.strength = s }

// Sample returns the field acceleration at v and simulated time at.
func (m *Turbulence) Sample(v r3.Vec, at float64) r3.Vec {
	x, y, z := v.X*m.scale, v.Y*m.scale, v.Z*m.scale
	t := at * m.timeScale
	return r3.Scale(m.strength, r3.Vec{
		X: m.noise.Eval4(x, y, z, t),
		Y: m.noise.Eval4(x+turbulenceOffsetY, y+turbulenceOffsetY, z+turbulenceOffsetY, t),
		Z: m.noise.Eval4(x+turbulenceOffsetZ, y+turbulenceOffsetZ, z+turbulenceOffsetZ, t),
	})
}

// Modify implements core.Modifier.
func (m *Turbulence) Modify(g *core.Group, d *core.DataSet, dt float64) {
	at := g.Elapsed()
	for p := range g.Particles() {
		p.SetVelocity(r3.Add(p.Velocity(), r3.Scale(dt, m.Sample(p.Position(), at))))
	}
}
