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

// Phantoms are launched from the floor, bounce on it and leave a smoke
// trail spawned by an emitter riding each phantom.
func buildPhantoms(sys *core.System, cfg *config.Config, canvas render.Canvas) error {
	pc := cfg.Scene.Phantoms
	rc := cfg.Render

	// The trail destroyer and the phantom obstacle both test the ground.
	ground := zones.NewPlane(r3.Vec{Y: -1}, r3.Vec{Y: 1})
	ground.SetName("ground")
	ground.SetShared(true)

	trails, err := newGroup(sys, "trails", pc.TrailCapacity)
	if err != nil {
		return err
	}
	trails.SetLifetime(0.5, 1)
	trails.SetRadius(0.06)
	smoke := render.NewQuadRenderer(canvas, 1, 1)
	smoke.SetAtlasDimensions(2, 2)
	smoke.SetBlendMode(blendMode(rc))
	trails.SetRenderer(smoke)
	trails.SetColorInterpolator(interpolators.NewColorSimple(
		core.ColorFromRGBA(0xFF802080),
		core.ColorFromRGBA(0xFF000000),
	))
	trails.SetParamInterpolator(core.ParamTextureIndex, interpolators.NewFloatRandomInitializer(0, 4))
	trails.SetParamInterpolator(core.ParamRotationSpeed, interpolators.NewFloatRandomInitializer(-0.1, 1))
	trails.SetParamInterpolator(core.ParamAngle, interpolators.NewFloatRandomInitializer(0, 2*math.Pi))
	trails.AddModifier(modifiers.NewRotator())
	trails.AddModifier(modifiers.NewDestroyer(ground, core.ZoneTestInside))

	phantoms, err := newGroup(sys, "phantoms", pc.PhantomCapacity)
	if err != nil {
		return err
	}
	phantoms.SetLifetime(5, 5)
	phantoms.SetRadius(0.06)
	streak := render.NewLineTrailRenderer(canvas, rc.TrailSamples, rc.TrailDuration, rc.LineWidth)
	streak.SetBlendMode(blendMode(rc))
	phantoms.SetRenderer(streak)
	phantoms.SetColorInterpolator(interpolators.NewColorSimple(core.White, core.ColorFromRGBA(0xFFFFFF00)))

	launcher := emitters.NewSphericEmitter(r3.Vec{Y: 1}, 0, math.Pi/4)
	launcher.SetName("launcher")
	launcher.SetZone(core.NewPoint(r3.Vec{Y: -1}), true)
	launcher.SetFlow(pc.PhantomFlow)
	launcher.SetForce(1.2, 2)
	phantoms.AddEmitter(launcher)

	phantoms.AddModifier(modifiers.NewGravity(r3.Vec{Y: -pc.Gravity}))
	phantoms.AddModifier(modifiers.NewObstacle(ground, pc.Bounce, 1))

	exhaust := emitters.NewSphericEmitter(r3.Vec{Z: -1}, 0, math.Pi/4)
	exhaust.SetName("exhaust")
	exhaust.SetZone(core.NewPoint(r3.Vec{}), true)
	exhaust.SetTank(-1)
	exhaust.SetFlow(pc.TrailFlow)
	exhaust.SetForce(0.2, 0.5)
	phantoms.AddModifier(modifiers.NewEmitterAttacher(trails, exhaust, true, false))
	return nil
}
