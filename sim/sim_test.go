package sim

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/scene"
	"github.com/pthm-cable/spark/telemetry"
)

const frameDT = 1.0 / 60

func newSim(t *testing.T, opts Options) *Sim {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	s, err := New(config.Default(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewUnknownScene(t *testing.T) {
	_, err := New(config.Default(), Options{Scene: "nebula"})
	if !errors.Is(err, scene.ErrUnknownScene) {
		t.Fatalf("err = %v, want ErrUnknownScene", err)
	}
}

func TestSceneFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Name = "fountain"
	s, err := New(cfg, Options{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	if s.Scene() != "fountain" {
		t.Errorf("scene = %q, want fountain", s.Scene())
	}
}

func TestStepAdvancesTime(t *testing.T) {
	s := newSim(t, Options{})
	for i := 0; i < 60; i++ {
		if !s.Step(frameDT) {
			t.Fatalf("system finished at frame %d", i)
		}
	}
	if s.Frames() != 60 {
		t.Errorf("frames = %d, want 60", s.Frames())
	}
	if math.Abs(s.SimTime()-1) > 1e-9 {
		t.Errorf("sim time = %v, want 1", s.SimTime())
	}
	if s.System().NbParticles() == 0 {
		t.Error("no particles after 1s")
	}
}

func TestPauseFreezesTime(t *testing.T) {
	s := newSim(t, Options{})
	s.Step(frameDT)
	s.TogglePause()
	if !s.Paused() {
		t.Fatal("not paused after toggle")
	}
	before, n := s.SimTime(), s.System().NbParticles()
	for i := 0; i < 10; i++ {
		s.Step(frameDT)
	}
	if s.SimTime() != before || s.System().NbParticles() != n {
		t.Errorf("paused sim moved: time %v -> %v, particles %d -> %d", before, s.SimTime(), n, s.System().NbParticles())
	}
	if !strings.Contains(s.Status(), "[paused]") {
		t.Errorf("status %q does not mention pause", s.Status())
	}
}

func TestSpeed(t *testing.T) {
	s := newSim(t, Options{})
	s.SetSpeed(2)
	s.Step(0.04)
	if math.Abs(s.SimTime()-0.08) > 1e-12 {
		t.Errorf("sim time = %v, want 0.08", s.SimTime())
	}

	s.SetSpeed(100)
	if s.Speed() != MaxSpeed {
		t.Errorf("speed = %v, want clamp to %v", s.Speed(), MaxSpeed)
	}
	s.SetSpeed(0)
	if s.Speed() != MinSpeed {
		t.Errorf("speed = %v, want clamp to %v", s.Speed(), MinSpeed)
	}
}

func TestClampedFrameRecordsClampedTime(t *testing.T) {
	s := newSim(t, Options{})
	s.Step(1)
	if got := s.SimTime(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("sim time = %v, want clamp max 0.1", got)
	}
}

func TestStatsCallback(t *testing.T) {
	s := newSim(t, Options{StatsWindowSec: 0.5})
	var windows []telemetry.WindowStats
	s.SetStatsCallback(func(w telemetry.WindowStats) { windows = append(windows, w) })
	for i := 0; i < 65; i++ {
		s.Step(frameDT)
	}
	if len(windows) < 1 {
		t.Fatal("no window flushed after 1s with a 0.5s window")
	}
	w := windows[0]
	if w.Frames < 30 || w.Frames > 31 {
		t.Errorf("first window frames = %d, want 30 or 31", w.Frames)
	}
	if w.SubSteps < w.Frames {
		t.Errorf("sub steps %d < frames %d", w.SubSteps, w.Frames)
	}
	if w.Spawned == 0 {
		t.Error("first window spawned nothing")
	}
	if s.LastStats().WindowEndSec != windows[len(windows)-1].WindowEndSec {
		t.Error("LastStats does not match the last flushed window")
	}
}

func TestRestartKeepsTimeline(t *testing.T) {
	s := newSim(t, Options{})
	for i := 0; i < 30; i++ {
		s.Step(frameDT)
	}
	old := s.System()
	at := s.SimTime()
	if err := s.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if s.System() == old {
		t.Error("Restart kept the old system")
	}
	if s.System().NbParticles() != 0 {
		t.Errorf("restarted system holds %d particles", s.System().NbParticles())
	}
	if s.SimTime() != at {
		t.Errorf("sim time reset to %v, want %v", s.SimTime(), at)
	}
}

func TestSetStepConfigRejectsInvalid(t *testing.T) {
	s := newSim(t, Options{})
	prev := s.StepConfig()
	bad := core.StepConfig{AdaptiveEnabled: true, MinStep: 0.5, MaxStep: 0.1}
	if err := s.SetStepConfig(bad); !errors.Is(err, core.ErrStepBounds) {
		t.Fatalf("err = %v, want ErrStepBounds", err)
	}
	if s.StepConfig() != prev {
		t.Errorf("step config changed to %+v", s.StepConfig())
	}
}

func TestRunHeadlessWritesOutput(t *testing.T) {
	dir := t.TempDir()
	s, err := New(config.Default(), Options{Seed: 3, StatsWindowSec: 0.5, OutputDir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.RunHeadless(context.Background(), 120); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if s.Frames() != 120 {
		t.Errorf("frames = %d, want 120", s.Frames())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 3 {
		t.Errorf("telemetry.csv has %d lines, want header and at least 2 windows", len(lines))
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	s := newSim(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.RunHeadless(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if s.Frames() != 0 {
		t.Errorf("cancelled run stepped %d frames", s.Frames())
	}
}

func TestSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	s := newSim(t, Options{OutputDir: dir})
	for i := 0; i < 60; i++ {
		s.Step(frameDT)
	}
	path, err := s.SaveSnapshot()
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Scene != "phantoms" || snap.Seed != 7 {
		t.Errorf("snapshot scene %q seed %d", snap.Scene, snap.Seed)
	}
	if snap.NbParticles() != s.System().NbParticles() {
		t.Errorf("snapshot holds %d particles, system %d", snap.NbParticles(), s.System().NbParticles())
	}
}

func TestSaveSnapshotDisabled(t *testing.T) {
	s := newSim(t, Options{})
	path, err := s.SaveSnapshot()
	if err != nil || path != "" {
		t.Errorf("SaveSnapshot without output = %q, %v", path, err)
	}
}

func TestDescribe(t *testing.T) {
	s := newSim(t, Options{})
	var b strings.Builder
	if err := s.Describe(&b); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	out := b.String()
	for _, want := range []string{"System phantoms", "  Group phantoms", "SphericEmitter launcher", "capacity"} {
		if !strings.Contains(out, want) {
			t.Errorf("description lacks %q:\n%s", want, out)
		}
	}
}
