package inspector

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/emitters"
	"github.com/pthm-cable/spark/interpolators"
	"github.com/pthm-cable/spark/modifiers"
	"github.com/pthm-cable/spark/render"
	"github.com/pthm-cable/spark/script"
	"github.com/pthm-cable/spark/zones"
)

var registry = buildRegistry()

func buildRegistry() map[string]*Table {
	tables := []*Table{
		groupTable(),

		emitterTable("SphericEmitter",
			Vec("direction", func(e *core.Emitter) r3.Vec { return spheric(e).BaseDirection() }, nil),
			Float("angle_min", func(e *core.Emitter) float64 { lo, _ := spheric(e).Angles(); return lo }, nil).With("angle"),
			Float("angle_max", func(e *core.Emitter) float64 { _, hi := spheric(e).Angles(); return hi }, nil).With("angle"),
		),
		emitterTable("StraightEmitter",
			Vec("direction", func(e *core.Emitter) r3.Vec { return e.Direction().(*emitters.Straight).Direction() }, nil),
		),
		emitterTable("RandomEmitter"),
		emitterTable("StaticEmitter"),
		emitterTable("NormalEmitter",
			Bool("inverted", func(e *core.Emitter) bool { return e.Direction().(*emitters.Normal).Inverted() }, nil),
		),

		modifierTable[*modifiers.Gravity]("Gravity",
			Vec("value", (*modifiers.Gravity).Value, (*modifiers.Gravity).SetValue),
		),
		modifierTable[*modifiers.Friction]("Friction",
			Float("value", (*modifiers.Friction).Value, (*modifiers.Friction).SetValue).With("bar,max:2"),
		),
		modifierTable[*modifiers.Rotator]("Rotator"),
		modifierTable[*modifiers.Turbulence]("Turbulence",
			Int("seed", func(m *modifiers.Turbulence) int { return int(m.Seed()) }, nil),
			Float("scale", (*modifiers.Turbulence).Scale, nil),
			Float("strength", (*modifiers.Turbulence).Strength, (*modifiers.Turbulence).SetStrength),
		),
		modifierTable[*modifiers.Destroyer]("Destroyer", zonedAttrs[*modifiers.Destroyer]()...),
		modifierTable[*modifiers.Obstacle]("Obstacle", append(zonedAttrs[*modifiers.Obstacle](),
			Float("bounce", (*modifiers.Obstacle).BouncingRatio, (*modifiers.Obstacle).SetBouncingRatio).With("bar,max:1"),
			Float("friction", (*modifiers.Obstacle).Friction, (*modifiers.Obstacle).SetFriction).With("bar,max:1"),
		)...),
		modifierTable[*modifiers.EmitterAttacher]("EmitterAttacher",
			String("target", func(m *modifiers.EmitterAttacher) string { return objectLabel(m.Target()) }, nil),
			String("emitter", func(m *modifiers.EmitterAttacher) string { return objectLabel(m.Emitter()) }, nil),
			Bool("orientation", (*modifiers.EmitterAttacher).OrientationEnabled, (*modifiers.EmitterAttacher).EnableOrientation),
			Bool("rotation", (*modifiers.EmitterAttacher).RotationEnabled, (*modifiers.EmitterAttacher).EnableRotation),
		),
		modifierTable[*script.Modifier]("ScriptModifier",
			Int("source_bytes", func(m *script.Modifier) int { return len(m.Source()) }, nil),
		),

		zoneTable[*core.Point]("Point"),
		zoneTable[*zones.Sphere]("Sphere",
			Float("radius", (*zones.Sphere).Radius, (*zones.Sphere).SetRadius),
		),
		zoneTable[*zones.Plane]("Plane",
			Vec("normal", (*zones.Plane).LocalNormal, (*zones.Plane).SetNormal),
		),
		zoneTable[*zones.AABox]("AABox",
			Vec("dimension", (*zones.AABox).Dimension, (*zones.AABox).SetDimension),
		),

		rendererTable[*render.PointRenderer]("PointRenderer",
			Float("size", (*render.PointRenderer).Size, (*render.PointRenderer).SetSize),
		),
		rendererTable[*render.QuadRenderer]("QuadRenderer",
			Float("scale_x", func(r *render.QuadRenderer) float64 { x, _ := r.Scale(); return x },
				func(r *render.QuadRenderer, v float64) { _, y := r.Scale(); r.SetScale(v, y) }),
			Float("scale_y", func(r *render.QuadRenderer) float64 { _, y := r.Scale(); return y },
				func(r *render.QuadRenderer, v float64) { x, _ := r.Scale(); r.SetScale(x, v) }),
			Int("atlas_cols", func(r *render.QuadRenderer) int { c, _ := r.AtlasDimensions(); return c },
				func(r *render.QuadRenderer, v int) { _, rows := r.AtlasDimensions(); r.SetAtlasDimensions(v, rows) }),
			Int("atlas_rows", func(r *render.QuadRenderer) int { _, rows := r.AtlasDimensions(); return rows },
				func(r *render.QuadRenderer, v int) { c, _ := r.AtlasDimensions(); r.SetAtlasDimensions(c, v) }),
		),
		rendererTable[*render.LineRenderer]("LineRenderer",
			Float("length", (*render.LineRenderer).Length, (*render.LineRenderer).SetLength),
			Float("width", (*render.LineRenderer).Width, (*render.LineRenderer).SetWidth),
		),
		rendererTable[*render.LineTrailRenderer]("LineTrailRenderer",
			Int("samples", (*render.LineTrailRenderer).NbSamples, func(r *render.LineTrailRenderer, n int) { r.SetNbSamples(max(n, 2)) }),
			Float("duration", (*render.LineTrailRenderer).Duration, func(r *render.LineTrailRenderer, d float64) {
				if d > 0 {
					r.SetDuration(d)
				}
			}),
			Float("width", (*render.LineTrailRenderer).Width, (*render.LineTrailRenderer).SetWidth),
		),

		{Type: "ColorSimpleInterpolator", Attributes: []Attribute{
			Color("birth", func(c *interpolators.ColorSimple) core.Color { b, _ := c.Values(); return b },
				func(c *interpolators.ColorSimple, v core.Color) { _, d := c.Values(); c.SetValues(v, d) }),
			Color("death", func(c *interpolators.ColorSimple) core.Color { _, d := c.Values(); return d },
				func(c *interpolators.ColorSimple, v core.Color) { b, _ := c.Values(); c.SetValues(b, v) }),
		}},
		{Type: "ColorRandomInterpolator", Attributes: []Attribute{
			Color("birth_min", func(c *interpolators.ColorRandom) core.Color { lo, _ := c.BirthRange(); return lo }, nil),
			Color("birth_max", func(c *interpolators.ColorRandom) core.Color { _, hi := c.BirthRange(); return hi }, nil),
			Color("death_min", func(c *interpolators.ColorRandom) core.Color { lo, _ := c.DeathRange(); return lo }, nil),
			Color("death_max", func(c *interpolators.ColorRandom) core.Color { _, hi := c.DeathRange(); return hi }, nil),
		}},
		{Type: "FloatDefaultInterpolator", Attributes: []Attribute{
			Float("value", (*interpolators.FloatDefault).Value, (*interpolators.FloatDefault).SetValue),
		}},
		{Type: "FloatSimpleInterpolator", Attributes: []Attribute{
			Float("birth", func(f *interpolators.FloatSimple) float64 { b, _ := f.Values(); return b },
				func(f *interpolators.FloatSimple, v float64) { _, d := f.Values(); f.SetValues(v, d) }),
			Float("death", func(f *interpolators.FloatSimple) float64 { _, d := f.Values(); return d },
				func(f *interpolators.FloatSimple, v float64) { b, _ := f.Values(); f.SetValues(b, v) }),
		}},
		{Type: "FloatRandomInterpolator", Attributes: []Attribute{
			Float("birth_min", func(f *interpolators.FloatRandom) float64 { lo, _ := f.BirthRange(); return lo }, nil),
			Float("birth_max", func(f *interpolators.FloatRandom) float64 { _, hi := f.BirthRange(); return hi }, nil),
			Float("death_min", func(f *interpolators.FloatRandom) float64 { lo, _ := f.DeathRange(); return lo }, nil),
			Float("death_max", func(f *interpolators.FloatRandom) float64 { _, hi := f.DeathRange(); return hi }, nil),
			Bool("init_only", (*interpolators.FloatRandom).InitOnly, nil),
		}},
	}

	m := make(map[string]*Table, len(tables))
	for _, t := range tables {
		if _, dup := m[t.Type]; dup {
			panic("inspector: duplicate table " + t.Type)
		}
		m[t.Type] = t
	}
	return m
}

func objectLabel(o core.Object) string {
	if o == nil {
		return "-"
	}
	if o.Name() != "" {
		return o.Name()
	}
	return o.TypeName()
}

func groupTable() *Table {
	type G = *core.Group
	stat := func(f func(core.GroupStats) uint64) func(G) int {
		return func(g G) int { return int(f(g.Stats())) }
	}
	return &Table{Type: "Group", Attributes: []Attribute{
		Int("capacity", G.Capacity, nil),
		Int("alive", G.NbParticles, nil),
		Float("lifetime_min", func(g G) float64 { lo, _ := g.Lifetime(); return lo },
			func(g G, v float64) { _, hi := g.Lifetime(); g.SetLifetime(v, hi) }),
		Float("lifetime_max", func(g G) float64 { _, hi := g.Lifetime(); return hi },
			func(g G, v float64) { lo, _ := g.Lifetime(); g.SetLifetime(lo, v) }),
		Bool("immortal", G.Immortal, G.SetImmortal),
		Float("radius", G.Radius, G.SetRadius),
		Int("spawned", stat(func(s core.GroupStats) uint64 { return s.Spawned }), nil),
		Int("dropped", stat(func(s core.GroupStats) uint64 { return s.Dropped }), nil),
		Int("killed", stat(func(s core.GroupStats) uint64 { return s.Killed }), nil),
		Int("expired", stat(func(s core.GroupStats) uint64 { return s.Expired }), nil),
		String("renderer", func(g G) string { return objectLabel(rendererObject(g)) }, nil),
	}}
}

// rendererObject avoids wrapping a nil Renderer in a non-nil Object.
func rendererObject(g *core.Group) core.Object {
	if r := g.Renderer(); r != nil {
		return r
	}
	return nil
}

func spheric(e *core.Emitter) *emitters.Spheric {
	return e.Direction().(*emitters.Spheric)
}

func emitterTable(typeName string, extra ...Attribute) *Table {
	type E = *core.Emitter
	attrs := []Attribute{
		Bool("active", E.Active, E.SetActive),
		Float("flow", E.Flow, E.SetFlow),
		Int("instant", func(e E) int { n, _ := e.Instant(); return n }, nil),
		Int("tank", E.Tank, E.SetTank),
		Float("force_min", func(e E) float64 { lo, _ := e.Force(); return lo },
			func(e E, v float64) { _, hi := e.Force(); e.SetForce(v, hi) }),
		Float("force_max", func(e E) float64 { _, hi := e.Force(); return hi },
			func(e E, v float64) { lo, _ := e.Force(); e.SetForce(lo, v) }),
		Bool("full", E.Full, func(e E, full bool) { e.SetZone(e.Zone(), full) }),
		String("zone", func(e E) string { return zoneLabel(e.Zone()) }, nil),
	}
	return &Table{Type: typeName, Attributes: append(attrs, extra...)}
}

func zoneLabel(z core.Zone) string {
	if z == nil {
		return "default"
	}
	return objectLabel(z)
}

func modifierTable[T core.Modifier](typeName string, extra ...Attribute) *Table {
	attrs := []Attribute{
		Bool("active", func(m T) bool { return m.Active() }, func(m T, on bool) { m.SetActive(on) }),
		Int("priority", func(m T) int { return m.Priority() }, nil),
	}
	return &Table{Type: typeName, Attributes: append(attrs, extra...)}
}

type zonedModifier interface {
	core.Modifier
	Zone() core.Zone
	ZoneTest() core.ZoneTest
	SetZoneTest(core.ZoneTest)
}

func zonedAttrs[T zonedModifier]() []Attribute {
	test := String("zone_test", func(m T) string { return m.ZoneTest().String() }, nil)
	test.Set = func(o core.Object, v any) error {
		name, ok := v.(string)
		if !ok {
			return fmt.Errorf("zone_test wants string, got %T: %w", v, ErrType)
		}
		zt, ok := core.ParseZoneTest(name)
		if !ok {
			return fmt.Errorf("zone test %q: %w", name, ErrType)
		}
		o.(T).SetZoneTest(zt)
		return nil
	}
	return []Attribute{
		String("zone", func(m T) string { return zoneLabel(m.Zone()) }, nil),
		test,
	}
}

type placedZone interface {
	core.Zone
	Position() r3.Vec
	SetPosition(r3.Vec)
}

func zoneTable[T placedZone](typeName string, extra ...Attribute) *Table {
	attrs := []Attribute{
		Vec("position", func(z T) r3.Vec { return z.Position() }, func(z T, v r3.Vec) { z.SetPosition(v) }),
	}
	return &Table{Type: typeName, Attributes: append(attrs, extra...)}
}

type blendingRenderer interface {
	core.Renderer
	BlendingEnabled() bool
	EnableBlending(bool)
	BlendMode() render.BlendMode
	SetBlendMode(render.BlendMode)
}

func rendererTable[T blendingRenderer](typeName string, extra ...Attribute) *Table {
	blend := String("blend", func(r T) string { return r.BlendMode().String() }, nil)
	blend.Set = func(o core.Object, v any) error {
		name, ok := v.(string)
		if !ok {
			return fmt.Errorf("blend wants string, got %T: %w", v, ErrType)
		}
		mode, ok := render.ParseBlendMode(name)
		if !ok {
			return fmt.Errorf("blend mode %q: %w", name, ErrType)
		}
		o.(T).SetBlendMode(mode)
		return nil
	}
	attrs := []Attribute{
		Bool("active", func(r T) bool { return r.Active() }, func(r T, on bool) { r.SetActive(on) }),
		Bool("blending", func(r T) bool { return r.BlendingEnabled() }, func(r T, on bool) { r.EnableBlending(on) }),
		blend,
	}
	return &Table{Type: typeName, Attributes: append(attrs, extra...)}
}
