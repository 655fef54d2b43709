// Package sim drives a particle system: it builds the configured scene,
// steps it with pause and speed control, renders it through a canvas and
// feeds the telemetry pipeline.
package sim

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/render"
	"github.com/pthm-cable/spark/scene"
	"github.com/pthm-cable/spark/telemetry"
)

// Speed limits for SetSpeed.
const (
	MinSpeed = 0.125
	MaxSpeed = 8
)

const bookmarkHistory = 10

// Options configures a Sim beyond the config file.
type Options struct {
	Seed           int64
	Scene          string  // overrides cfg.Scene.Name when set
	LogStats       bool    // log window stats and perf via slog
	StatsWindowSec float64 // 0 = use cfg.Telemetry.StatsWindow
	OutputDir      string  // CSV, config and snapshot output; empty disables
}

// Sim owns the context, the particle system and the telemetry pipeline.
type Sim struct {
	cfg  *config.Config
	opts Options

	ctx   *core.Context
	sys   *core.System
	scene string

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats

	// State
	frames    int
	paused    bool
	speed     float64
	finished  bool
	frameOpen bool
}

// New builds the scene named by opts (or cfg) and prepares telemetry.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	name := opts.Scene
	if name == "" {
		name = cfg.Scene.Name
	}
	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}

	s := &Sim{
		cfg:              cfg,
		opts:             opts,
		scene:            name,
		speed:            cfg.Simulation.Speed,
		collector:        telemetry.NewCollector(window),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(bookmarkHistory),
	}
	if err := s.build(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.teardown()
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		s.teardown()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	s.outputManager = om

	slog.Info("simulation ready",
		"scene", name,
		"seed", opts.Seed,
		"groups", len(s.sys.Groups()),
		"stats_window", window,
		"output_dir", om.Dir(),
	)
	return s, nil
}

// build creates a fresh context and system holding the scene.
func (s *Sim) build() error {
	ctx := core.NewContext(s.opts.Seed)
	if err := ctx.SetStepConfig(s.cfg.StepPolicy()); err != nil {
		ctx.Close()
		return fmt.Errorf("step policy: %w", err)
	}
	sys := core.NewSystem(ctx)
	sys.EnableAABBComputation(s.cfg.Simulation.AABB)
	if err := scene.Build(s.scene, sys, s.cfg, nil); err != nil {
		sys.Destroy()
		ctx.Close()
		return err
	}
	s.ctx, s.sys = ctx, sys
	s.finished = false
	return nil
}

func (s *Sim) teardown() {
	if s.sys != nil {
		s.sys.Destroy()
		s.sys = nil
	}
	if s.ctx != nil {
		s.ctx.Close()
		s.ctx = nil
	}
}

// Restart rebuilds the scene from scratch, keeping the telemetry timeline.
// The step policy currently in effect is kept.
func (s *Sim) Restart() error {
	step := s.ctx.StepConfig()
	s.teardown()
	if err := s.build(); err != nil {
		return err
	}
	if err := s.ctx.SetStepConfig(step); err != nil {
		slog.Warn("keeping configured step policy after restart", "error", err)
	}
	s.collector.Reset(s.sys)
	slog.Info("scene restarted", "scene", s.scene, "sim_time", s.collector.SimTime())
	return nil
}

// Step advances the simulation by dt wall seconds scaled by the speed
// factor. It reports whether the system can still produce or hold
// particles. A paused Sim does not advance.
func (s *Sim) Step(dt float64) bool {
	if s.paused {
		return !s.finished
	}
	if s.frameOpen {
		s.perfCollector.EndFrame()
	}
	s.perfCollector.StartFrame()
	s.frameOpen = true

	s.perfCollector.StartPhase(telemetry.PhaseUpdate)
	scaled := dt * s.speed
	before := s.sys.SubSteps()
	alive := s.sys.UpdateParticles(scaled)
	s.collector.RecordFrame(s.ctx.StepConfig().Clamp(scaled), int(s.sys.SubSteps()-before))
	s.frames++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	if !alive && !s.finished {
		slog.Info("particle system finished", "scene", s.scene, "sim_time", s.collector.SimTime())
	}
	s.finished = !alive
	return alive
}

// Render draws every group through c and closes the frame timing.
// The caller brackets it with c.Begin and c.End.
func (s *Sim) Render(c render.Canvas) {
	if !s.frameOpen {
		s.perfCollector.StartFrame()
		s.frameOpen = true
	}
	s.perfCollector.StartPhase(telemetry.PhaseRender)
	render.BindCanvas(s.sys, c)
	s.sys.RenderParticles()
	s.perfCollector.EndFrame()
	s.frameOpen = false
	s.perfCollector.RecordPresent()
}

// Status is a one-line summary for overlays.
func (s *Sim) Status() string {
	state := ""
	if s.paused {
		state = "  [paused]"
	} else if s.finished {
		state = "  [finished]"
	}
	return fmt.Sprintf("%s  t=%.1fs  particles=%d  x%.3g%s",
		s.scene, s.collector.SimTime(), s.sys.NbParticles(), s.speed, state)
}

// TogglePause pauses or resumes stepping.
func (s *Sim) TogglePause() { s.paused = !s.paused }

// Paused reports whether stepping is suspended.
func (s *Sim) Paused() bool { return s.paused }

// Speed returns the simulation speed multiplier.
func (s *Sim) Speed() float64 { return s.speed }

// SetSpeed changes the speed multiplier, clamped to [MinSpeed, MaxSpeed].
func (s *Sim) SetSpeed(v float64) {
	s.speed = math.Max(MinSpeed, math.Min(MaxSpeed, v))
}

// StepConfig returns the step policy in effect.
func (s *Sim) StepConfig() core.StepConfig { return s.ctx.StepConfig() }

// SetStepConfig swaps the step policy. An invalid policy is rejected and
// the previous one kept.
func (s *Sim) SetStepConfig(cfg core.StepConfig) error {
	return s.ctx.SetStepConfig(cfg)
}

// System returns the simulated particle system.
func (s *Sim) System() *core.System { return s.sys }

// Scene returns the scene name.
func (s *Sim) Scene() string { return s.scene }

// Config returns the configuration the Sim was built with.
func (s *Sim) Config() *config.Config { return s.cfg }

// SimTime returns the simulated seconds so far.
func (s *Sim) SimTime() float64 { return s.collector.SimTime() }

// Frames returns the number of frames stepped.
func (s *Sim) Frames() int { return s.frames }

// Finished reports whether the last step found the system exhausted.
func (s *Sim) Finished() bool { return s.finished }

// LastStats returns the most recently flushed window.
func (s *Sim) LastStats() telemetry.WindowStats { return s.lastStats }

// PerfStats returns the current frame timing summary.
func (s *Sim) PerfStats() telemetry.PerfStats { return s.perfCollector.Stats() }

// SetStatsCallback registers fn to receive every flushed window.
func (s *Sim) SetStatsCallback(fn func(telemetry.WindowStats)) { s.statsCallback = fn }

// Close writes nothing further, closes the output files and releases the
// particle system.
func (s *Sim) Close() error {
	err := s.outputManager.Close()
	s.outputManager = nil
	s.teardown()
	return err
}
