package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/emitters"
	"github.com/pthm-cable/spark/interpolators"
	"github.com/pthm-cable/spark/modifiers"
	"github.com/pthm-cable/spark/render"
	"github.com/pthm-cable/spark/zones"
)

// Water jets up from a nozzle, splashes over a sphere and drains through
// the floor.
func buildFountain(sys *core.System, cfg *config.Config, canvas render.Canvas) error {
	fc := cfg.Scene.Fountain
	rc := cfg.Render

	g, err := newGroup(sys, "water", fc.Capacity)
	if err != nil {
		return err
	}
	g.SetLifetime(2.5, 3.5)
	g.SetRadius(0.02)

	drops := render.NewLineRenderer(canvas, 0.04, rc.LineWidth)
	drops.EnableBlending(true)
	drops.SetBlendMode(blendMode(rc))
	g.SetRenderer(drops)
	g.SetColorInterpolator(interpolators.NewColorRandom(
		core.ColorFromRGBA(0x3060C0FF), core.ColorFromRGBA(0xA0E0FFFF),
		core.ColorFromRGBA(0x10204000), core.ColorFromRGBA(0x40608000),
	))

	nozzle := emitters.NewSphericEmitter(r3.Vec{Y: 1}, 0, math.Pi/10)
	nozzle.SetName("nozzle")
	nozzle.SetZone(core.NewPoint(r3.Vec{Y: -1}), true)
	nozzle.SetFlow(fc.Flow)
	nozzle.SetForce(fc.ForceMin, fc.ForceMax)
	g.AddEmitter(nozzle)

	g.AddModifier(modifiers.NewGravity(r3.Vec{Y: -fc.Gravity}))
	g.AddModifier(modifiers.NewFriction(fc.Friction))

	ball := zones.NewSphere(r3.Vec{Y: 0.2}, fc.SphereRadius)
	ball.SetName("ball")
	g.AddModifier(modifiers.NewObstacle(ball, 0.4, 1))

	floor := zones.NewPlane(r3.Vec{Y: -1.2}, r3.Vec{Y: 1})
	floor.SetName("drain")
	g.AddModifier(modifiers.NewDestroyer(floor, core.ZoneTestInside))
	return nil
}
