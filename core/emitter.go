package core

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Direction draws the launch direction of a new particle. position is the
// world-space spawn position; implementations return a world-space vector,
// normally of unit length.
type Direction interface {
	Kind() string
	Generate(rng *rand.Rand, e *Emitter, position r3.Vec) r3.Vec
}

// InfiniteTank marks an emitter that never runs dry.
const InfiniteTank = -1

// Emitter spawns particles into a group. It produces a rate (flow, in
// particles per second) or a one-shot instant burst, optionally bounded by
// a tank, and places each particle in its zone with a speed drawn from
// [forceMin, forceMax] along its Direction.
type Emitter struct {
	Base
	Placement
	direction Direction
	zone      Zone
	full      bool

	tank     int
	flow     float64
	instant  int
	repeat   bool
	forceMin float64
	forceMax float64
	active   bool
	fraction float64
}

// NewEmitter creates an active emitter with an infinite tank and no flow.
func NewEmitter(direction Direction) *Emitter {
	return &Emitter{
		Placement: NewPlacement(),
		direction: direction,
		full:      true,
		tank:      InfiniteTank,
		active:    true,
	}
}

// TypeName implements Object.
func (e *Emitter) TypeName() string { return e.direction.Kind() + "Emitter" }

// Direction returns the direction generator.
func (e *Emitter) Direction() Direction { return e.direction }

// Zone returns the spawn zone, nil meaning the default zone.
func (e *Emitter) Zone() Zone { return e.zone }

// Full reports whether positions are drawn inside the zone rather than on
// its surface.
func (e *Emitter) Full() bool { return e.full }

// SetZone replaces the spawn zone. nil selects the default zone.
func (e *Emitter) SetZone(z Zone, full bool) {
	if z != nil {
		z.Acquire()
	}
	if e.zone != nil {
		Drop(e.zone)
	}
	e.zone = z
	e.full = full
}

// Tank returns the remaining particle budget, InfiniteTank when unbounded.
func (e *Emitter) Tank() int { return e.tank }

// SetTank sets the remaining budget. A negative value means infinite.
func (e *Emitter) SetTank(n int) {
	if n < 0 {
		n = InfiniteTank
	}
	e.tank = n
	if n != 0 {
		e.active = true
	}
}

// Flow returns the continuous rate in particles per second.
func (e *Emitter) Flow() float64 { return e.flow }

// SetFlow switches to continuous emission at rate particles per second.
func (e *Emitter) SetFlow(rate float64) {
	if rate < 0 {
		rate = 0
	}
	e.flow = rate
	e.instant = 0
	e.repeat = false
}

// Instant returns the burst size and whether it repeats.
func (e *Emitter) Instant() (count int, repeat bool) { return e.instant, e.repeat }

// SetInstant switches to burst emission of count particles on the next
// step. Without repeat the emitter deactivates after firing.
func (e *Emitter) SetInstant(count int, repeat bool) {
	if count < 0 {
		count = 0
	}
	e.instant = count
	e.repeat = repeat
	e.flow = 0
	e.active = true
}

// Force returns the launch speed range.
func (e *Emitter) Force() (min, max float64) { return e.forceMin, e.forceMax }

// SetForce sets the launch speed range. Bounds are swapped if inverted.
func (e *Emitter) SetForce(min, max float64) {
	if min > max {
		min, max = max, min
	}
	e.forceMin, e.forceMax = min, max
}

// Active reports whether the emitter still produces particles.
func (e *Emitter) Active() bool { return e.active }

// SetActive enables or disables the emitter.
func (e *Emitter) SetActive(active bool) { e.active = active }

// Exhausted reports whether the emitter can never emit again.
func (e *Emitter) Exhausted() bool { return !e.active || e.tank == 0 }

// UpdateNumber advances the emitter by dt and returns how many particles
// it requests. Fractional flow carries over between calls.
func (e *Emitter) UpdateNumber(dt float64) int {
	if !e.active || e.tank == 0 {
		return 0
	}
	var n int
	switch {
	case e.instant > 0:
		n = e.instant
		if !e.repeat {
			e.active = false
		}
	case e.flow > 0 && dt > 0:
		e.fraction += e.flow * dt
		n = int(e.fraction)
		e.fraction -= float64(n)
	}
	if e.tank > 0 {
		if n > e.tank {
			n = e.tank
		}
		e.tank -= n
		if e.tank == 0 {
			e.active = false
		}
	}
	return n
}

// Emit places p in the emitter zone and launches it.
func (e *Emitter) Emit(p Particle) {
	g := p.Group()
	rng := g.Context().Rand()
	zone := e.zone
	if zone == nil {
		zone = g.Context().DefaultZone()
	}
	pos := zone.GeneratePosition(rng, e.full, p.Radius())
	p.SetPosition(pos)
	p.SetOldPosition(pos)

	speed := RandomRange(rng, e.forceMin, e.forceMax)
	dir := e.direction.Generate(rng, e, pos)
	mass := p.Param(ParamMass)
	if mass <= 0 {
		mass = 1
	}
	p.SetVelocity(r3.Scale(speed/mass, dir))
}

// UpdateTransform recomputes the world transform and moves an exclusively
// owned zone with the emitter.
func (e *Emitter) UpdateTransform(parent Transform) {
	e.Placement.UpdateTransform(parent)
	if e.zone != nil && !e.zone.Shared() {
		e.zone.UpdateTransform(e.WorldTransform())
	}
}

// Clone returns an independent copy with its own emission state. An
// exclusively owned zone is cloned too; a shared zone is shared.
func (e *Emitter) Clone() *Emitter {
	c := *e
	c.Base = e.Fresh()
	c.zone = nil
	if e.zone != nil {
		z := e.zone
		if !z.Shared() {
			z = z.Clone()
		}
		c.zone = Retain(z)
	}
	return &c
}

// Children returns the zone.
func (e *Emitter) Children() []Object {
	if e.zone == nil {
		return nil
	}
	return []Object{e.zone}
}

// Destroy releases the zone.
func (e *Emitter) Destroy() {
	if e.zone != nil {
		Drop(e.zone)
		e.zone = nil
	}
}
