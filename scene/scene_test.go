package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/render"
)

func build(t *testing.T, name string, cfg *config.Config, canvas render.Canvas) *core.System {
	t.Helper()
	ctx := core.NewContext(42)
	if err := ctx.SetStepConfig(cfg.StepPolicy()); err != nil {
		t.Fatalf("SetStepConfig: %v", err)
	}
	sys := core.NewSystem(ctx)
	if err := Build(name, sys, cfg, canvas); err != nil {
		t.Fatalf("Build(%s): %v", name, err)
	}
	t.Cleanup(func() {
		sys.Destroy()
		ctx.Close()
	})
	return sys
}

func run(sys *core.System, seconds float64) {
	const dt = 1.0 / 60
	for elapsed := 0.0; elapsed < seconds; elapsed += dt {
		sys.UpdateParticles(dt)
	}
}

func TestNames(t *testing.T) {
	want := []string{"fountain", "phantoms", "vortex"}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestBuildUnknown(t *testing.T) {
	sys := core.NewSystem(core.NewContext(1))
	err := Build("nebula", sys, config.Default(), nil)
	if !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("err = %v, want ErrUnknownScene", err)
	}
	if len(sys.Groups()) != 0 {
		t.Errorf("unknown scene created %d groups", len(sys.Groups()))
	}
}

func TestScenesRunAndRender(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			rec := render.NewRecorder()
			sys := build(t, name, config.Default(), rec)
			if sys.Name() != name {
				t.Errorf("system name = %q, want %q", sys.Name(), name)
			}
			run(sys, 2)
			if sys.NbParticles() == 0 {
				t.Fatal("no particles alive after 2s")
			}
			for _, g := range sys.Groups() {
				if g.NbParticles() > g.Capacity() {
					t.Errorf("group %s holds %d > capacity %d", g.Name(), g.NbParticles(), g.Capacity())
				}
			}

			rec.Begin()
			sys.RenderParticles()
			rec.End()
			if len(rec.Calls) != len(sys.Groups()) {
				t.Errorf("draw calls = %d, want one per group (%d)", len(rec.Calls), len(sys.Groups()))
			}
			if rec.Vertices == 0 {
				t.Error("nothing drawn")
			}
		})
	}
}

func TestPhantomsFeedTrails(t *testing.T) {
	sys := build(t, "phantoms", config.Default(), nil)
	run(sys, 3)

	phantoms, ok := sys.FindByName("phantoms").(*core.Group)
	if !ok {
		t.Fatal("phantoms group not registered")
	}
	trails, ok := sys.FindByName("trails").(*core.Group)
	if !ok {
		t.Fatal("trails group not registered")
	}
	if phantoms.NbParticles() == 0 {
		t.Fatal("no phantoms launched")
	}
	if trails.Stats().Spawned == 0 {
		t.Error("attached emitters spawned no trail particles")
	}
	for p := range phantoms.Particles() {
		if y := p.Position().Y; y < -1.01 {
			t.Errorf("phantom %d below ground: y = %v", p.Index(), y)
		}
	}
	if sys.FindByName("launcher") == nil {
		t.Error("launcher emitter not registered")
	}
}

func TestPhantomTrailsDrawAtlasQuads(t *testing.T) {
	rec := render.NewRecorder()
	sys := build(t, "phantoms", config.Default(), rec)
	run(sys, 2)

	trails := sys.FindByName("trails").(*core.Group)
	quads, ok := trails.Renderer().(*render.QuadRenderer)
	if !ok {
		t.Fatalf("trails renderer = %T, want *render.QuadRenderer", trails.Renderer())
	}
	if cols, rows := quads.AtlasDimensions(); cols != 2 || rows != 2 {
		t.Errorf("atlas = %dx%d, want 2x2", cols, rows)
	}

	rec.Begin()
	sys.RenderParticles()
	rec.End()

	var call *render.Call
	for i := range rec.Calls {
		if rec.Calls[i].Kind == render.KindQuads {
			call = &rec.Calls[i]
		}
	}
	if call == nil {
		t.Fatal("no quad batch drawn")
	}
	if len(call.Vertices) != 4*trails.NbParticles() {
		t.Fatalf("quad vertices = %d, want %d", len(call.Vertices), 4*trails.NbParticles())
	}

	cells := map[render.UV]bool{}
	rolled := false
	for i := 0; i < len(call.Vertices); i += 4 {
		cells[call.UVs[i+3]] = true
		edge := r3.Sub(call.Vertices[i+1], call.Vertices[i])
		if math.Abs(edge.Y) > 1e-6 {
			rolled = true
		}
	}
	if len(cells) < 2 {
		t.Errorf("all %d quads use the same atlas cell", trails.NbParticles())
	}
	if !rolled {
		t.Error("no quad is rolled by its angle")
	}
}

func TestPhantomsShareGround(t *testing.T) {
	sys := build(t, "phantoms", config.Default(), nil)
	owners := 0
	for _, g := range sys.Groups() {
		for _, m := range g.Modifiers() {
			zm, ok := m.(interface{ Zone() core.Zone })
			if !ok || zm.Zone() == nil || zm.Zone().Name() != "ground" {
				continue
			}
			owners++
			if !zm.Zone().Shared() {
				t.Errorf("%s on %s tests an unshared ground", m.TypeName(), g.Name())
			}
		}
	}
	if owners != 2 {
		t.Errorf("ground used by %d modifiers, want 2", owners)
	}
}

func TestPhantomsUseConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Phantoms.PhantomCapacity = 3
	cfg.Scene.Phantoms.PhantomFlow = 50
	sys := build(t, "phantoms", cfg, nil)
	run(sys, 1)

	g := sys.FindByName("phantoms").(*core.Group)
	if g.Capacity() != 3 {
		t.Errorf("capacity = %d, want 3", g.Capacity())
	}
	if g.Stats().Dropped == 0 {
		t.Error("flow above capacity dropped nothing")
	}
}

func TestVortexCustomScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.lua")
	src := "function modify(p, dt)\n  p.vx = 0\n  p.vy = 0\n  p.vz = 0\nend\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Scene.Vortex.Script = path
	sys := build(t, "vortex", cfg, nil)

	if sys.FindByName(path) == nil {
		t.Fatalf("script modifier %s not registered", path)
	}
	run(sys, 0.5)
	g := sys.FindByName("dust").(*core.Group)
	for p := range g.Particles() {
		if v := p.Velocity(); v.X != 0 || v.Y != 0 || v.Z != 0 {
			t.Fatalf("particle %d velocity = %v, want zero after script", p.Index(), v)
		}
	}
}

func TestVortexMissingScript(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Vortex.Script = filepath.Join(t.TempDir(), "missing.lua")
	sys := core.NewSystem(core.NewContext(1))
	if err := Build("vortex", sys, cfg, nil); err == nil {
		t.Fatal("Build with a missing script succeeded")
	}
}
