package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartSec float64 `csv:"-"`
	WindowEndSec   float64 `csv:"window_end"`

	// Driver activity during window
	Frames        int     `csv:"frames"`
	SubSteps      int     `csv:"sub_steps"`
	StepsPerFrame float64 `csv:"steps_per_frame"`

	// Population at window end
	Groups int `csv:"groups"`
	Alive  int `csv:"alive"`

	// Lifecycle events during window
	Spawned  int     `csv:"spawned"`
	Dropped  int     `csv:"dropped"`
	Killed   int     `csv:"killed"`
	Expired  int     `csv:"expired"`
	DropRate float64 `csv:"drop_rate"`

	// Age distribution (sampled at window end)
	AgeMean float64 `csv:"age_mean"`
	AgeStd  float64 `csv:"age_std"`
	AgeP10  float64 `csv:"age_p10"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`

	// Per-group breakdown, written to its own CSV
	PerGroup []GroupWindowStats `csv:"-"`
}

// GroupWindowStats is one group's share of a window.
type GroupWindowStats struct {
	WindowEndSec float64 `csv:"window_end"`
	Group        string  `csv:"group"`
	Capacity     int     `csv:"capacity"`
	Alive        int     `csv:"alive"`
	Fill         float64 `csv:"fill"` // alive / capacity
	Spawned      int     `csv:"spawned"`
	Dropped      int     `csv:"dropped"`
	Killed       int     `csv:"killed"`
	Expired      int     `csv:"expired"`
}

// Saturated reports whether the group lost spawn requests in the window.
func (g GroupWindowStats) Saturated() bool { return g.Dropped > 0 }

// ComputeAgeStats calculates mean, std, and percentiles from age values.
func ComputeAgeStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n == 1 {
		mean = sorted[0]
	} else {
		mean, std = stat.MeanStdDev(sorted, nil)
	}
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStartSec),
		slog.Float64("window_end", s.WindowEndSec),
		slog.Int("frames", s.Frames),
		slog.Int("sub_steps", s.SubSteps),
		slog.Float64("steps_per_frame", s.StepsPerFrame),
		slog.Int("groups", s.Groups),
		slog.Int("alive", s.Alive),
		slog.Int("spawned", s.Spawned),
		slog.Int("dropped", s.Dropped),
		slog.Int("killed", s.Killed),
		slog.Int("expired", s.Expired),
		slog.Float64("drop_rate", s.DropRate),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_std", s.AgeStd),
		slog.Float64("age_p10", s.AgeP10),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_p90", s.AgeP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
