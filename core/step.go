package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrStepBounds reports a time-step policy that cannot produce valid
// sub-steps.
var ErrStepBounds = errors.New("invalid step bounds")

// stepEpsilon is the relative slack below which a remainder is treated
// as rounding error.
const stepEpsilon = 1e-9

// StepConfig is the time-stepping policy applied to every external delta.
// The delta is clamped first; the clamped value is then split into
// sub-steps when adaptive stepping is enabled.
type StepConfig struct {
	ClampEnabled bool
	ClampMax     float64

	AdaptiveEnabled bool
	MinStep         float64
	MaxStep         float64
}

// DefaultStepConfig disables both clamping and sub-stepping.
func DefaultStepConfig() StepConfig {
	return StepConfig{}
}

// Validate rejects policies with no representable sub-step.
func (c StepConfig) Validate() error {
	if c.ClampEnabled && c.ClampMax <= 0 {
		return fmt.Errorf("clamp max %g must be positive: %w", c.ClampMax, ErrStepBounds)
	}
	if !c.AdaptiveEnabled {
		return nil
	}
	if c.MinStep <= 0 || c.MaxStep <= 0 {
		return fmt.Errorf("adaptive steps [%g, %g] must be positive: %w", c.MinStep, c.MaxStep, ErrStepBounds)
	}
	if c.MinStep > c.MaxStep {
		return fmt.Errorf("adaptive min %g exceeds max %g: %w", c.MinStep, c.MaxStep, ErrStepBounds)
	}
	if c.ClampEnabled && c.MinStep > c.ClampMax {
		return fmt.Errorf("adaptive min %g exceeds clamp max %g: %w", c.MinStep, c.ClampMax, ErrStepBounds)
	}
	return nil
}

// Clamp applies the clamp policy to dt. Negative deltas become zero.
func (c StepConfig) Clamp(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if c.ClampEnabled && dt > c.ClampMax {
		return c.ClampMax
	}
	return dt
}

// AppendSubSteps appends the sub-steps for the external delta dt to dst.
// The appended steps sum to Clamp(dt); every step but the last equals
// MaxStep and the last consumes the remainder. A delta that is a whole
// multiple of MaxStep up to rounding produces no trailing sliver.
func (c StepConfig) AppendSubSteps(dst []float64, dt float64) []float64 {
	total := c.Clamp(dt)
	if total == 0 {
		return dst
	}
	if !c.AdaptiveEnabled || total <= c.MaxStep {
		return append(dst, total)
	}
	n := int(math.Ceil(total/c.MaxStep - stepEpsilon))
	for i := 0; i < n-1; i++ {
		dst = append(dst, c.MaxStep)
	}
	return append(dst, total-float64(n-1)*c.MaxStep)
}
