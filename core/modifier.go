package core

import (
	"fmt"
	"log/slog"
)

// Modifier mutates the particles of a group once per sub-step. Modifiers
// run in ascending Priority order; a particle killed by one modifier is
// skipped by the ones after it.
type Modifier interface {
	Object
	Transformable
	Priority() int
	Active() bool
	SetActive(active bool)
	Modify(g *Group, d *DataSet, dt float64)
}

// Priorities used by the bundled modifiers. Lower runs first.
const (
	PriorityForce     = 10
	PriorityCollision = 20
	PriorityScript    = 25
	PriorityRotation  = 30
	PriorityAttach    = 40
	PriorityDestroy   = 50
)

// ModifierBase is the embeddable part of every modifier.
type ModifierBase struct {
	Base
	Placement
	priority int
	active   bool
}

// NewModifierBase returns an active base with the given priority.
func NewModifierBase(priority int) ModifierBase {
	return ModifierBase{Placement: NewPlacement(), priority: priority, active: true}
}

// Priority returns the ordering key.
func (m *ModifierBase) Priority() int { return m.priority }

// Active reports whether the modifier runs.
func (m *ModifierBase) Active() bool { return m.active }

// SetActive enables or disables the modifier.
func (m *ModifierBase) SetActive(active bool) { m.active = active }

// ZonedModifier is a modifier whose effect is gated by a zone test.
// A nil zone means the context's shared default zone.
type ZonedModifier struct {
	ModifierBase
	zone      Zone
	test      ZoneTest
	supported ZoneTestFlags
}

// NewZonedModifier builds the zoned base. supported must name at least one
// test; test falls back to the lowest supported test when not in the mask.
func NewZonedModifier(priority int, supported ZoneTestFlags, test ZoneTest, zone Zone) ZonedModifier {
	if supported&AllZoneTests == 0 {
		panic("core: zoned modifier supports no zone test")
	}
	m := ZonedModifier{ModifierBase: NewModifierBase(priority), supported: supported & AllZoneTests}
	m.SetZone(zone)
	m.SetZoneTest(test)
	return m
}

// Zone returns the explicit zone, or nil when the default zone is used.
func (m *ZonedModifier) Zone() Zone { return m.zone }

// SetZone replaces the zone. nil selects the shared default zone.
func (m *ZonedModifier) SetZone(z Zone) {
	if z != nil {
		z.Acquire()
	}
	if m.zone != nil {
		Drop(m.zone)
	}
	m.zone = z
}

// ResolveZone returns the zone the modifier tests against within g.
func (m *ZonedModifier) ResolveZone(g *Group) Zone {
	if m.zone != nil {
		return m.zone
	}
	return g.Context().DefaultZone()
}

// SupportedZoneTests returns the mask fixed at construction.
func (m *ZonedModifier) SupportedZoneTests() ZoneTestFlags { return m.supported }

// ZoneTest returns the active test.
func (m *ZonedModifier) ZoneTest() ZoneTest { return m.test }

// SetZoneTest selects the active test. An unsupported test is replaced by
// the lowest supported one and logged.
func (m *ZonedModifier) SetZoneTest(test ZoneTest) {
	if m.supported.Has(test) {
		m.test = test
		return
	}
	fallback, _ := m.supported.Lowest()
	slog.Warn("zone test not supported, falling back",
		"modifier", m.Name(),
		"requested", test.String(),
		"fallback", fallback.String(),
	)
	m.test = fallback
}

// Check evaluates the active zone test for p.
func (m *ZonedModifier) Check(g *Group, p Particle) (ZoneHit, bool) {
	return CheckZone(m.ResolveZone(g), m.test, p.OldPosition(), p.Position(), p.Radius())
}

// UpdateTransform propagates the world transform to an exclusively owned
// zone. Shared zones keep their own placement.
func (m *ZonedModifier) UpdateTransform(parent Transform) {
	m.ModifierBase.UpdateTransform(parent)
	if m.zone != nil && !m.zone.Shared() {
		m.zone.UpdateTransform(m.WorldTransform())
	}
}

// Children returns the explicit zone.
func (m *ZonedModifier) Children() []Object {
	if m.zone == nil {
		return nil
	}
	return []Object{m.zone}
}

// Destroy releases the zone.
func (m *ZonedModifier) Destroy() {
	if m.zone != nil {
		Drop(m.zone)
		m.zone = nil
	}
}

// String is used in log lines.
func (m *ZonedModifier) String() string {
	return fmt.Sprintf("%s(test=%s)", m.Name(), m.test)
}
