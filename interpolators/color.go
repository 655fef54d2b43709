// Package interpolators drives particle color and params over their life.
package interpolators

import (
	"math/rand"

	"github.com/pthm-cable/spark/core"
)

// ColorSimple fades every particle from a birth color to a death color.
type ColorSimple struct {
	core.Base
	birth core.Color
	death core.Color
}

// NewColorSimple creates a two-stop color interpolator.
func NewColorSimple(birth, death core.Color) *ColorSimple {
	return &ColorSimple{birth: birth, death: death}
}

// TypeName implements core.Object.
func (c *ColorSimple) TypeName() string { return "ColorSimpleInterpolator" }

// Values returns the birth and death colors.
func (c *ColorSimple) Values() (birth, death core.Color) { return c.birth, c.death }

// SetValues changes the birth and death colors.
func (c *ColorSimple) SetValues(birth, death core.Color) {
	c.birth = birth
	c.death = death
}

// InitColor implements core.ColorInterpolator.
func (c *ColorSimple) InitColor(p core.Particle, d *core.DataSet) {
	p.SetColor(c.birth)
}

// InterpolateColor implements core.ColorInterpolator.
func (c *ColorSimple) InterpolateColor(p core.Particle, d *core.DataSet) {
	p.SetColor(c.birth.Lerp(c.death, p.AgeRatio()))
}

// ColorRandom draws per-particle birth and death colors channel-wise
// between two bounds each, then fades between them.
type ColorRandom struct {
	core.Base
	minBirth, maxBirth core.Color
	minDeath, maxDeath core.Color
}

// NewColorRandom creates a randomized color interpolator.
func NewColorRandom(minBirth, maxBirth, minDeath, maxDeath core.Color) *ColorRandom {
	return &ColorRandom{minBirth: minBirth, maxBirth: maxBirth, minDeath: minDeath, maxDeath: maxDeath}
}

// TypeName implements core.Object.
func (c *ColorRandom) TypeName() string { return "ColorRandomInterpolator" }

// BirthRange returns the birth color bounds.
func (c *ColorRandom) BirthRange() (min, max core.Color) { return c.minBirth, c.maxBirth }

// DeathRange returns the death color bounds.
func (c *ColorRandom) DeathRange() (min, max core.Color) { return c.minDeath, c.maxDeath }

// NeedsDataSet implements core.DataHandler.
func (c *ColorRandom) NeedsDataSet() bool { return true }

// CreateData implements core.DataHandler: one birth and one death color
// per particle.
func (c *ColorRandom) CreateData(d *core.DataSet, g *core.Group) {
	d.Init(1)
	d.SetData(0, core.NewArrayData[core.Color](g.Capacity(), 2))
}

// CheckData implements core.DataHandler.
func (c *ColorRandom) CheckData(d *core.DataSet, g *core.Group) bool { return false }

// InitColor implements core.ColorInterpolator.
func (c *ColorRandom) InitColor(p core.Particle, d *core.DataSet) {
	rng := p.Group().Context().Rand()
	stops := core.DataAt[*core.ColorArrayData](d, 0).ParticleData(p.Index())
	stops[0] = randomColor(rng, c.minBirth, c.maxBirth)
	stops[1] = randomColor(rng, c.minDeath, c.maxDeath)
	p.SetColor(stops[0])
}

// InterpolateColor implements core.ColorInterpolator.
func (c *ColorRandom) InterpolateColor(p core.Particle, d *core.DataSet) {
	stops := core.DataAt[*core.ColorArrayData](d, 0).ParticleData(p.Index())
	p.SetColor(stops[0].Lerp(stops[1], p.AgeRatio()))
}

func randomColor(rng *rand.Rand, lo, hi core.Color) core.Color {
	ch := func(a, b uint8) uint8 {
		if a > b {
			a, b = b, a
		}
		return a + uint8(rng.Intn(int(b-a)+1))
	}
	return core.Color{R: ch(lo.R, hi.R), G: ch(lo.G, hi.G), B: ch(lo.B, hi.B), A: ch(lo.A, hi.A)}
}
