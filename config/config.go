// Package config provides configuration loading and validation for the
// particle simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/spark/core"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen" toml:"screen"`
	Camera     CameraConfig     `yaml:"camera" toml:"camera"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
	Step       StepConfig       `yaml:"step" toml:"step"`
	Scene      SceneConfig      `yaml:"scene" toml:"scene"`
	Render     RenderConfig     `yaml:"render" toml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width" toml:"width"`
	Height    int `yaml:"height" toml:"height"`
	TargetFPS int `yaml:"target_fps" toml:"target_fps"`
}

// CameraConfig holds the initial orbit camera.
type CameraConfig struct {
	Target   [3]float64 `yaml:"target" toml:"target"`
	Distance float64    `yaml:"distance" toml:"distance"`
	Yaw      float64    `yaml:"yaw" toml:"yaw"`     // degrees
	Pitch    float64    `yaml:"pitch" toml:"pitch"` // degrees
	FOV      float64    `yaml:"fov" toml:"fov"`     // degrees
}

// SimulationConfig holds driver timing.
type SimulationConfig struct {
	FixedDT float64 `yaml:"fixed_dt" toml:"fixed_dt"` // frame delta in headless mode
	Speed   float64 `yaml:"speed" toml:"speed"`       // wall time multiplier
	AABB    bool    `yaml:"aabb" toml:"aabb"`         // track bounding boxes
}

// StepConfig mirrors core.StepConfig.
type StepConfig struct {
	ClampEnabled    bool    `yaml:"clamp_enabled" toml:"clamp_enabled"`
	ClampMax        float64 `yaml:"clamp_max" toml:"clamp_max"`
	AdaptiveEnabled bool    `yaml:"adaptive_enabled" toml:"adaptive_enabled"`
	MinStep         float64 `yaml:"min_step" toml:"min_step"`
	MaxStep         float64 `yaml:"max_step" toml:"max_step"`
}

// SceneConfig selects a scene and holds per-scene knobs.
type SceneConfig struct {
	Name     string         `yaml:"name" toml:"name"`
	Phantoms PhantomsConfig `yaml:"phantoms" toml:"phantoms"`
	Fountain FountainConfig `yaml:"fountain" toml:"fountain"`
	Vortex   VortexConfig   `yaml:"vortex" toml:"vortex"`
}

// PhantomsConfig tunes the phantom/trail scene.
type PhantomsConfig struct {
	PhantomCapacity int     `yaml:"phantom_capacity" toml:"phantom_capacity"`
	TrailCapacity   int     `yaml:"trail_capacity" toml:"trail_capacity"`
	PhantomFlow     float64 `yaml:"phantom_flow" toml:"phantom_flow"`
	TrailFlow       float64 `yaml:"trail_flow" toml:"trail_flow"`
	Gravity         float64 `yaml:"gravity" toml:"gravity"`
	Bounce          float64 `yaml:"bounce" toml:"bounce"`
}

// FountainConfig tunes the fountain scene.
type FountainConfig struct {
	Capacity     int     `yaml:"capacity" toml:"capacity"`
	Flow         float64 `yaml:"flow" toml:"flow"`
	ForceMin     float64 `yaml:"force_min" toml:"force_min"`
	ForceMax     float64 `yaml:"force_max" toml:"force_max"`
	Gravity      float64 `yaml:"gravity" toml:"gravity"`
	Friction     float64 `yaml:"friction" toml:"friction"`
	SphereRadius float64 `yaml:"sphere_radius" toml:"sphere_radius"`
}

// VortexConfig tunes the turbulence/script scene.
type VortexConfig struct {
	Capacity   int     `yaml:"capacity" toml:"capacity"`
	Flow       float64 `yaml:"flow" toml:"flow"`
	NoiseScale float64 `yaml:"noise_scale" toml:"noise_scale"`
	Strength   float64 `yaml:"strength" toml:"strength"`
	Swirl      float64 `yaml:"swirl" toml:"swirl"`
	Script     string  `yaml:"script" toml:"script"` // Lua file; empty = built-in swirl
}

// RenderConfig holds renderer defaults.
type RenderConfig struct {
	PointSize     float64 `yaml:"point_size" toml:"point_size"`
	LineWidth     float64 `yaml:"line_width" toml:"line_width"`
	TrailSamples  int     `yaml:"trail_samples" toml:"trail_samples"`
	TrailDuration float64 `yaml:"trail_duration" toml:"trail_duration"`
	Blend         string  `yaml:"blend" toml:"blend"` // none, alpha, additive
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window" toml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window" toml:"perf_collector_window"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML or TOML file (by extension),
// merging with embedded defaults. If path is empty, only embedded defaults
// are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StepPolicy converts the step section to the core policy.
func (c *Config) StepPolicy() core.StepConfig {
	return core.StepConfig{
		ClampEnabled:    c.Step.ClampEnabled,
		ClampMax:        c.Step.ClampMax,
		AdaptiveEnabled: c.Step.AdaptiveEnabled,
		MinStep:         c.Step.MinStep,
		MaxStep:         c.Step.MaxStep,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return invalid("screen size %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.TargetFPS <= 0 {
		return invalid("screen.target_fps %d", c.Screen.TargetFPS)
	}
	if c.Camera.Distance <= 0 {
		return invalid("camera.distance %v", c.Camera.Distance)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return invalid("camera.fov %v", c.Camera.FOV)
	}
	if c.Simulation.FixedDT <= 0 {
		return invalid("simulation.fixed_dt %v", c.Simulation.FixedDT)
	}
	if c.Simulation.Speed <= 0 {
		return invalid("simulation.speed %v", c.Simulation.Speed)
	}
	if err := c.StepPolicy().Validate(); err != nil {
		return fmt.Errorf("%w: step: %w", ErrInvalid, err)
	}
	if c.Render.TrailSamples < 2 {
		return invalid("render.trail_samples %d", c.Render.TrailSamples)
	}
	if c.Render.TrailDuration <= 0 {
		return invalid("render.trail_duration %v", c.Render.TrailDuration)
	}
	switch c.Render.Blend {
	case "none", "alpha", "additive":
	default:
		return invalid("render.blend %q", c.Render.Blend)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return invalid("telemetry.stats_window %v", c.Telemetry.StatsWindow)
	}
	capacities := []struct {
		name  string
		value int
	}{
		{"phantoms.phantom_capacity", c.Scene.Phantoms.PhantomCapacity},
		{"phantoms.trail_capacity", c.Scene.Phantoms.TrailCapacity},
		{"fountain.capacity", c.Scene.Fountain.Capacity},
		{"vortex.capacity", c.Scene.Vortex.Capacity},
	}
	for _, cp := range capacities {
		if cp.value <= 0 {
			return invalid("scene.%s %d", cp.name, cp.value)
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
