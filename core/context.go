package core

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Context owns the state that would otherwise be process-global: the
// random source, the shared default zone, the name registry and the step
// policy. The driver creates it and closes it on shutdown.
type Context struct {
	rng         *rand.Rand
	defaultZone *Point
	registry    *Registry
	step        StepConfig
}

// NewContext creates a context seeded with seed.
func NewContext(seed int64) *Context {
	return &Context{
		rng:      rand.New(rand.NewSource(seed)),
		registry: NewRegistry(),
		step:     DefaultStepConfig(),
	}
}

// Rand returns the context random source.
func (c *Context) Rand() *rand.Rand { return c.rng }

// Registry returns the name registry.
func (c *Context) Registry() *Registry { return c.registry }

// DefaultZone returns the shared point zone at the origin, creating it on
// first use.
func (c *Context) DefaultZone() Zone {
	if c.defaultZone == nil {
		p := NewPoint(r3.Vec{})
		p.SetName("default_zone")
		p.SetShared(true)
		c.defaultZone = Retain(p)
	}
	return c.defaultZone
}

// StepConfig returns the active step policy.
func (c *Context) StepConfig() StepConfig { return c.step }

// SetStepConfig validates and installs a step policy. An invalid policy is
// rejected and the previous one stays active.
func (c *Context) SetStepConfig(cfg StepConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.step = cfg
	return nil
}

// Close releases the default zone and empties the registry.
func (c *Context) Close() {
	if c.defaultZone != nil {
		Drop(c.defaultZone)
		c.defaultZone = nil
	}
	c.registry.Clear()
}
