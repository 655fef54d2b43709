package core

import (
	"errors"
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestAppendSubSteps(t *testing.T) {
	tests := []struct {
		name string
		cfg  StepConfig
		dt   float64
		want []float64
	}{
		{"passthrough", StepConfig{}, 0.3, []float64{0.3}},
		{"clamped", StepConfig{ClampEnabled: true, ClampMax: 0.25}, 1, []float64{0.25}},
		{"adaptive split", StepConfig{AdaptiveEnabled: true, MinStep: 0.03125, MaxStep: 0.125}, 0.3125, []float64{0.125, 0.125, 0.0625}},
		{"below min is one step", StepConfig{AdaptiveEnabled: true, MinStep: 0.03125, MaxStep: 0.125}, 0.015625, []float64{0.015625}},
		{"exact multiple", StepConfig{AdaptiveEnabled: true, MinStep: 0.0625, MaxStep: 0.125}, 0.25, []float64{0.125, 0.125}},
		{"clamp then split", StepConfig{ClampEnabled: true, ClampMax: 0.25, AdaptiveEnabled: true, MinStep: 0.0625, MaxStep: 0.125}, 1, []float64{0.125, 0.125}},
		{"zero delta", StepConfig{}, 0, nil},
		{"negative delta", StepConfig{AdaptiveEnabled: true, MinStep: 0.1, MaxStep: 0.2}, -1, nil},
	}

	for _, tc := range tests {
		got := tc.cfg.AppendSubSteps(nil, tc.dt)
		if !slices.Equal(got, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSubStepsSumToClampedDelta(t *testing.T) {
	policies := []StepConfig{
		{ClampEnabled: true, ClampMax: 0.5, AdaptiveEnabled: true, MinStep: 0.015625, MaxStep: 0.0625},
		{ClampEnabled: true, ClampMax: 0.1, AdaptiveEnabled: true, MinStep: 0.001, MaxStep: 0.01},
	}
	deltas := []float64{0.0078125, 0.0625, 0.1875, 0.34375, 0.5, 2, 0.1, 0.033, 1.0 / 60, 0.03, 0.07}
	for _, cfg := range policies {
		for _, dt := range deltas {
			steps := cfg.AppendSubSteps(nil, dt)
			sum := 0.0
			for i, s := range steps {
				sum += s
				if i < len(steps)-1 && (s < cfg.MinStep || s > cfg.MaxStep) {
					t.Errorf("max=%v dt=%v: step %d = %v outside [%v, %v]", cfg.MaxStep, dt, i, s, cfg.MinStep, cfg.MaxStep)
				}
				if s <= cfg.MaxStep*stepEpsilon {
					t.Errorf("max=%v dt=%v: step %d = %v is a rounding sliver", cfg.MaxStep, dt, i, s)
				}
			}
			if want := cfg.Clamp(dt); math.Abs(sum-want) > 1e-12 {
				t.Errorf("max=%v dt=%v: steps sum to %v, want %v", cfg.MaxStep, dt, sum, want)
			}
		}
	}
}

func TestSubStepCountForNonDyadicDeltas(t *testing.T) {
	cfg := StepConfig{ClampEnabled: true, ClampMax: 0.1, AdaptiveEnabled: true, MinStep: 0.001, MaxStep: 0.01}
	tests := []struct {
		dt   float64
		want int
	}{
		{0.1, 10},
		{0.03, 3},
		{0.07, 7},
		{0.033, 4},
		{1.0 / 60, 2},
		{0.5, 10},
	}
	for _, tc := range tests {
		if got := len(cfg.AppendSubSteps(nil, tc.dt)); got != tc.want {
			t.Errorf("dt=%v: expected %d sub-steps, got %d", tc.dt, tc.want, got)
		}
	}
}

func TestBurstCountIndependentOfFrameSplit(t *testing.T) {
	cfg := StepConfig{ClampEnabled: true, ClampMax: 0.1, AdaptiveEnabled: true, MinStep: 0.001, MaxStep: 0.01}
	run := func(frames int, dt float64) int {
		ctx := NewContext(1)
		if err := ctx.SetStepConfig(cfg); err != nil {
			t.Fatal(err)
		}
		sys := NewSystem(ctx)
		g, err := sys.CreateGroup(100)
		if err != nil {
			t.Fatal(err)
		}
		g.SetImmortal(true)
		e := NewEmitter(fixedDirection{dir: r3.Vec{Y: 1}})
		e.SetInstant(1, true)
		g.AddEmitter(e)
		for i := 0; i < frames; i++ {
			sys.UpdateParticles(dt)
		}
		return g.NbParticles()
	}

	one := run(1, 0.1)
	ten := run(10, 0.01)
	if one != 10 || ten != 10 {
		t.Errorf("expected 10 bursts either way, got %d for one 0.1s frame and %d for ten 0.01s frames", one, ten)
	}
}

func TestStepConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   StepConfig
		valid bool
	}{
		{"default", DefaultStepConfig(), true},
		{"reference policy", StepConfig{ClampEnabled: true, ClampMax: 0.1, AdaptiveEnabled: true, MinStep: 0.001, MaxStep: 0.01}, true},
		{"min above clamp", StepConfig{ClampEnabled: true, ClampMax: 0.01, AdaptiveEnabled: true, MinStep: 0.02, MaxStep: 0.05}, false},
		{"min above max", StepConfig{AdaptiveEnabled: true, MinStep: 0.2, MaxStep: 0.1}, false},
		{"zero min", StepConfig{AdaptiveEnabled: true, MinStep: 0, MaxStep: 0.1}, false},
		{"zero clamp", StepConfig{ClampEnabled: true}, false},
	}
	for _, tc := range tests {
		err := tc.cfg.Validate()
		if tc.valid && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.valid && !errors.Is(err, ErrStepBounds) {
			t.Errorf("%s: expected ErrStepBounds, got %v", tc.name, err)
		}
	}
}

func TestContextRejectsInvalidStepConfig(t *testing.T) {
	ctx := NewContext(1)
	good := StepConfig{ClampEnabled: true, ClampMax: 0.1}
	if err := ctx.SetStepConfig(good); err != nil {
		t.Fatal(err)
	}
	bad := StepConfig{ClampEnabled: true, ClampMax: 0.01, AdaptiveEnabled: true, MinStep: 0.02, MaxStep: 0.05}
	if err := ctx.SetStepConfig(bad); err == nil {
		t.Fatal("expected error")
	}
	if ctx.StepConfig() != good {
		t.Errorf("previous policy should stay active, got %+v", ctx.StepConfig())
	}
}

func TestSystemStepConfigAppliesToUpdates(t *testing.T) {
	ctx := NewContext(1)
	sys := NewSystem(ctx)
	if err := sys.SetStepConfig(StepConfig{AdaptiveEnabled: true, MinStep: 0.001, MaxStep: 0.01}); err != nil {
		t.Fatal(err)
	}
	if _, err := sys.CreateGroup(4); err != nil {
		t.Fatal(err)
	}
	sys.UpdateParticles(0.035)
	if got := sys.SubSteps(); got != 4 {
		t.Errorf("expected 4 sub-steps for 0.035s, got %d", got)
	}
}
