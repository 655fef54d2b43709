package modifiers

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// Destroyer kills every particle passing its zone test.
type Destroyer struct {
	core.ZonedModifier
}

// NewDestroyer creates a destroyer. All zone tests are supported.
func NewDestroyer(zone core.Zone, test core.ZoneTest) *Destroyer {
	return &Destroyer{ZonedModifier: core.NewZonedModifier(core.PriorityDestroy, core.AllZoneTests, test, zone)}
}

// TypeName implements core.Object.
func (m *Destroyer) TypeName() string { return "Destroyer" }

// Modify implements core.Modifier.
func (m *Destroyer) Modify(g *core.Group, d *core.DataSet, dt float64) {
	for p := range g.Particles() {
		if _, hit := m.Check(g, p); hit {
			p.Kill()
		}
	}
}

// ObstacleZoneTests are the tests an obstacle can bounce on.
const ObstacleZoneTests = core.ZoneTestFlags(1<<core.ZoneTestIntersect | 1<<core.ZoneTestEnter | 1<<core.ZoneTestLeave)

// Obstacle bounces particles off its zone's surface. The normal component
// of the velocity is reflected and scaled by the bouncing ratio; the
// tangential component is scaled by friction.
type Obstacle struct {
	core.ZonedModifier
	bounce   float64
	friction float64
}

// NewObstacle creates an obstacle using the intersect test.
func NewObstacle(zone core.Zone, bounce, friction float64) *Obstacle {
	return &Obstacle{
		ZonedModifier: core.NewZonedModifier(core.PriorityCollision, ObstacleZoneTests, core.ZoneTestIntersect, zone),
		bounce:        math.Max(0, bounce),
		friction:      math.Max(0, friction),
	}
}

// TypeName implements core.Object.
func (m *Obstacle) TypeName() string { return "Obstacle" }

// BouncingRatio returns the normal restitution.
func (m *Obstacle) BouncingRatio() float64 { return m.bounce }

// SetBouncingRatio changes the normal restitution.
func (m *Obstacle) SetBouncingRatio(b float64) { m.bounce = math.Max(0, b) }

// Friction returns the tangential factor.
func (m *Obstacle) Friction() float64 { return m.friction }

// SetFriction changes the tangential factor.
func (m *Obstacle) SetFriction(f float64) { m.friction = math.Max(0, f) }

// Modify implements core.Modifier.
func (m *Obstacle) Modify(g *core.Group, d *core.DataSet, dt float64) {
	for p := range g.Particles() {
		hit, ok := m.Check(g, p)
		if !ok {
			continue
		}
		v := p.Velocity()
		vn := r3.Scale(r3.Dot(v, hit.Normal), hit.Normal)
		vt := r3.Sub(v, vn)
		if r3.Dot(v, hit.Normal) < 0 {
			v = r3.Sub(r3.Scale(m.friction, vt), r3.Scale(m.bounce, vn))
		}
		p.SetPosition(hit.Point)
		p.SetVelocity(v)
	}
}
