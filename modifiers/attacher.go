package modifiers

import (
	"log/slog"

	"gonum.org/v1/gonum/num/quat"

	"github.com/pthm-cable/spark/core"
)

// emitterData holds one emitter copy per particle of the source group.
// Each copy is retained by its slot until the slot is reused or the set is
// destroyed.
type emitterData struct {
	*core.ArrayData[*core.Emitter]
	base *core.Emitter
}

// set replaces the copy in slot index, dropping the previous one.
func (d *emitterData) set(index int, e *core.Emitter) {
	slot := d.At(index)
	if *slot != nil {
		core.Drop(*slot)
	}
	*slot = e
}

// Destroy implements core.Destructible.
func (d *emitterData) Destroy() {
	for i := range d.Capacity() {
		d.set(i, nil)
	}
}

// EmitterAttacher gives every particle of its group a private copy of a
// base emitter. Each copy follows its particle (optionally oriented along
// the velocity and rolled by ParamAngle) and spawns into the target group.
type EmitterAttacher struct {
	core.ModifierBase
	target      *core.Group
	base        *core.Emitter
	orientation bool
	rotation    bool
	warned      bool
}

// NewEmitterAttacher creates an attacher spawning into target with copies
// of emitter.
func NewEmitterAttacher(target *core.Group, emitter *core.Emitter, orientation, rotation bool) *EmitterAttacher {
	m := &EmitterAttacher{ModifierBase: core.NewModifierBase(core.PriorityAttach)}
	m.SetTarget(target)
	m.SetEmitter(emitter)
	m.orientation = orientation
	m.rotation = rotation
	return m
}

// TypeName implements core.Object.
func (m *EmitterAttacher) TypeName() string { return "EmitterAttacher" }

// Target returns the group receiving the spawned particles.
func (m *EmitterAttacher) Target() *core.Group { return m.target }

// SetTarget changes the receiving group.
func (m *EmitterAttacher) SetTarget(target *core.Group) {
	if target != nil {
		target.Acquire()
	}
	if m.target != nil {
		core.Drop(m.target)
	}
	m.target = target
	m.warned = false
}

// Emitter returns the base emitter copied for each particle.
func (m *EmitterAttacher) Emitter() *core.Emitter { return m.base }

// SetEmitter changes the base emitter. Existing particles receive fresh
// copies on the next update.
func (m *EmitterAttacher) SetEmitter(e *core.Emitter) {
	if e != nil {
		e.Acquire()
	}
	if m.base != nil {
		core.Drop(m.base)
	}
	m.base = e
}

// OrientationEnabled reports whether copies face along the velocity.
func (m *EmitterAttacher) OrientationEnabled() bool { return m.orientation }

// RotationEnabled reports whether copies roll with ParamAngle.
func (m *EmitterAttacher) RotationEnabled() bool { return m.rotation }

// EnableOrientation toggles velocity alignment.
func (m *EmitterAttacher) EnableOrientation(on bool) { m.orientation = on }

// EnableRotation toggles roll.
func (m *EmitterAttacher) EnableRotation(on bool) { m.rotation = on }

// NeedsDataSet implements core.DataHandler.
func (m *EmitterAttacher) NeedsDataSet() bool { return true }

// CreateData implements core.DataHandler. Copies held by a previous
// layout are released by the set.
func (m *EmitterAttacher) CreateData(d *core.DataSet, g *core.Group) {
	d.Init(1)
	d.SetData(0, &emitterData{ArrayData: core.NewArrayData[*core.Emitter](g.Capacity(), 1), base: m.base})
}

// CheckData implements core.DataHandler: copies are stale once the base
// emitter changes.
func (m *EmitterAttacher) CheckData(d *core.DataSet, g *core.Group) bool {
	return core.DataAt[*emitterData](d, 0).base != m.base
}

// InitParticle implements core.ParticleInitializer.
func (m *EmitterAttacher) InitParticle(p core.Particle, d *core.DataSet) {
	var e *core.Emitter
	if m.base != nil {
		e = core.Retain(m.base.Clone())
	}
	core.DataAt[*emitterData](d, 0).set(p.Index(), e)
}

// Modify implements core.Modifier.
func (m *EmitterAttacher) Modify(g *core.Group, d *core.DataSet, dt float64) {
	if m.target == nil || m.base == nil {
		return
	}
	if m.target == g {
		if !m.warned {
			slog.Warn("emitter attacher targets its own group, skipping", "modifier", m.Name(), "group", g.Name())
			m.warned = true
		}
		return
	}
	emitters := core.DataAt[*emitterData](d, 0).Data()
	for p := range g.Particles() {
		e := emitters[p.Index()]
		if e == nil {
			continue
		}
		e.SetLocalTransform(core.Transform{Position: p.Position(), Orientation: m.orient(p)})
		e.UpdateTransform(core.Identity())
		m.target.AddParticles(e.UpdateNumber(dt), e)
	}
}

func (m *EmitterAttacher) orient(p core.Particle) quat.Number {
	q := core.IdentityRotation
	if m.orientation {
		q = core.LookAt(p.Velocity())
	}
	if m.rotation {
		q = quat.Mul(q, core.AxisAngle(core.Forward, p.Param(core.ParamAngle)))
	}
	return q
}

// Children returns the base emitter.
func (m *EmitterAttacher) Children() []core.Object {
	if m.base == nil {
		return nil
	}
	return []core.Object{m.base}
}

// Destroy releases the target and base emitter.
func (m *EmitterAttacher) Destroy() {
	m.SetTarget(nil)
	m.SetEmitter(nil)
}
