package scene

import (
	_ "embed"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/emitters"
	"github.com/pthm-cable/spark/interpolators"
	"github.com/pthm-cable/spark/modifiers"
	"github.com/pthm-cable/spark/render"
	"github.com/pthm-cable/spark/script"
	"github.com/pthm-cable/spark/zones"
)

//go:embed swirl.lua
var swirlScript string

// Dust drifts through a noise field while a Lua script spins it around
// the vertical axis.
func buildVortex(sys *core.System, cfg *config.Config, canvas render.Canvas) error {
	vc := cfg.Scene.Vortex
	rc := cfg.Render

	swirl, err := loadSwirl(vc.Script)
	if err != nil {
		return err
	}
	swirl.SetGlobal("Swirl", vc.Swirl)

	g, err := newGroup(sys, "dust", vc.Capacity)
	if err != nil {
		swirl.Destroy()
		return err
	}
	g.SetLifetime(3, 5)

	motes := render.NewPointRenderer(canvas, rc.PointSize)
	motes.EnableBlending(true)
	motes.SetBlendMode(blendMode(rc))
	g.SetRenderer(motes)
	g.SetColorInterpolator(interpolators.NewColorSimple(
		core.ColorFromRGBA(0xFFC060FF),
		core.ColorFromRGBA(0x6020A000),
	))
	g.SetParamInterpolator(core.ParamScale, interpolators.NewFloatSimple(1, 0.2))

	cloud := zones.NewSphere(r3.Vec{}, 1.5)
	cloud.SetName("cloud")
	source := emitters.NewRandomEmitter()
	source.SetName("source")
	source.SetZone(cloud, true)
	source.SetFlow(vc.Flow)
	source.SetForce(0, 0.3)
	g.AddEmitter(source)

	seed := sys.Context().Rand().Int63()
	g.AddModifier(modifiers.NewTurbulence(seed, vc.NoiseScale, vc.Strength, 0.5))
	g.AddModifier(modifiers.NewFriction(0.5))
	g.AddModifier(swirl)

	bounds := zones.NewAABox(r3.Vec{}, r3.Vec{X: 8, Y: 8, Z: 8})
	bounds.SetName("bounds")
	g.AddModifier(modifiers.NewDestroyer(bounds, core.ZoneTestOutside))
	return nil
}

func loadSwirl(path string) (*script.Modifier, error) {
	if path != "" {
		return script.Load(path)
	}
	m, err := script.New(swirlScript)
	if err != nil {
		return nil, fmt.Errorf("built-in swirl: %w", err)
	}
	m.SetName("swirl")
	return m, nil
}
