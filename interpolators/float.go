package interpolators

import "github.com/pthm-cable/spark/core"

// FloatDefault sets a param to a constant at birth and leaves it alone.
type FloatDefault struct {
	core.Base
	value float64
}

// NewFloatDefault creates a constant param initializer.
func NewFloatDefault(value float64) *FloatDefault {
	return &FloatDefault{value: value}
}

// TypeName implements core.Object.
func (f *FloatDefault) TypeName() string { return "FloatDefaultInterpolator" }

// Value returns the birth value.
func (f *FloatDefault) Value() float64 { return f.value }

// SetValue changes the birth value.
func (f *FloatDefault) SetValue(v float64) { f.value = v }

// InitParam implements core.ParamInterpolator.
func (f *FloatDefault) InitParam(p core.Particle, param core.Param, d *core.DataSet) {
	p.SetParam(param, f.value)
}

// InterpolateParam implements core.ParamInterpolator.
func (f *FloatDefault) InterpolateParam(p core.Particle, param core.Param, d *core.DataSet) {}

// FloatSimple moves a param linearly from a birth to a death value.
type FloatSimple struct {
	core.Base
	birth, death float64
}

// NewFloatSimple creates a two-stop param interpolator.
func NewFloatSimple(birth, death float64) *FloatSimple {
	return &FloatSimple{birth: birth, death: death}
}

// TypeName implements core.Object.
func (f *FloatSimple) TypeName() string { return "FloatSimpleInterpolator" }

// Values returns the birth and death values.
func (f *FloatSimple) Values() (birth, death float64) { return f.birth, f.death }

// SetValues changes the birth and death values.
func (f *FloatSimple) SetValues(birth, death float64) {
	f.birth = birth
	f.death = death
}

// InitParam implements core.ParamInterpolator.
func (f *FloatSimple) InitParam(p core.Particle, param core.Param, d *core.DataSet) {
	p.SetParam(param, f.birth)
}

// InterpolateParam implements core.ParamInterpolator.
func (f *FloatSimple) InterpolateParam(p core.Particle, param core.Param, d *core.DataSet) {
	p.SetParam(param, lerp(f.birth, f.death, p.AgeRatio()))
}

// FloatRandom draws per-particle birth and death values from two ranges.
type FloatRandom struct {
	core.Base
	minBirth, maxBirth float64
	minDeath, maxDeath float64
	initOnly           bool
}

// NewFloatRandom creates a randomized param interpolator.
func NewFloatRandom(minBirth, maxBirth, minDeath, maxDeath float64) *FloatRandom {
	return &FloatRandom{minBirth: minBirth, maxBirth: maxBirth, minDeath: minDeath, maxDeath: maxDeath}
}

// NewFloatRandomInitializer draws a value in [min, max) at birth and then
// leaves the param alone, so modifiers such as Rotator can drive it.
func NewFloatRandomInitializer(min, max float64) *FloatRandom {
	return &FloatRandom{minBirth: min, maxBirth: max, minDeath: min, maxDeath: max, initOnly: true}
}

// InitOnly reports whether the param is only set at birth.
func (f *FloatRandom) InitOnly() bool { return f.initOnly }

// TypeName implements core.Object.
func (f *FloatRandom) TypeName() string { return "FloatRandomInterpolator" }

// BirthRange returns the birth bounds.
func (f *FloatRandom) BirthRange() (min, max float64) { return f.minBirth, f.maxBirth }

// DeathRange returns the death bounds.
func (f *FloatRandom) DeathRange() (min, max float64) { return f.minDeath, f.maxDeath }

// NeedsDataSet implements core.DataHandler.
func (f *FloatRandom) NeedsDataSet() bool { return true }

// CreateData implements core.DataHandler.
func (f *FloatRandom) CreateData(d *core.DataSet, g *core.Group) {
	d.Init(1)
	d.SetData(0, core.NewArrayData[float64](g.Capacity(), 2))
}

// CheckData implements core.DataHandler.
func (f *FloatRandom) CheckData(d *core.DataSet, g *core.Group) bool { return false }

// InitParam implements core.ParamInterpolator.
func (f *FloatRandom) InitParam(p core.Particle, param core.Param, d *core.DataSet) {
	rng := p.Group().Context().Rand()
	stops := core.DataAt[*core.Float64ArrayData](d, 0).ParticleData(p.Index())
	stops[0] = core.RandomRange(rng, f.minBirth, f.maxBirth)
	if f.initOnly {
		stops[1] = stops[0]
	} else {
		stops[1] = core.RandomRange(rng, f.minDeath, f.maxDeath)
	}
	p.SetParam(param, stops[0])
}

// InterpolateParam implements core.ParamInterpolator.
func (f *FloatRandom) InterpolateParam(p core.Particle, param core.Param, d *core.DataSet) {
	if f.initOnly {
		return
	}
	stops := core.DataAt[*core.Float64ArrayData](d, 0).ParticleData(p.Index())
	p.SetParam(param, lerp(stops[0], stops[1], p.AgeRatio()))
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
