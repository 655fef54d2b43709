package telemetry

import (
	"fmt"

	"github.com/pthm-cable/spark/core"
)

// Collector accumulates frame counters within simulation-time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	simTime         float64
	windowStartTime float64
	frames          int
	subSteps        int

	// Cumulative group counters at window start. Groups added during a
	// window have no entry and count from zero.
	base map[*core.Group]core.GroupStats
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		base:              make(map[*core.Group]core.GroupStats),
	}
}

// RecordFrame records one driver frame that advanced the simulation by dt
// in subSteps updates.
func (c *Collector) RecordFrame(dt float64, subSteps int) {
	c.simTime += dt
	c.frames++
	c.subSteps += subSteps
}

// SimTime returns the simulation time recorded so far.
func (c *Collector) SimTime() float64 { return c.simTime }

// ShouldFlush returns true if the current window is complete.
func (c *Collector) ShouldFlush() bool {
	return c.simTime-c.windowStartTime >= c.windowDurationSec
}

// WindowDurationSec returns the window length.
func (c *Collector) WindowDurationSec() float64 { return c.windowDurationSec }

// Reset rebases the counters on the current state of sys, e.g. after the
// scene was rebuilt.
func (c *Collector) Reset(sys *core.System) {
	c.rebase(sys)
	c.windowStartTime = c.simTime
	c.frames = 0
	c.subSteps = 0
}

func (c *Collector) rebase(sys *core.System) {
	clear(c.base)
	for _, g := range sys.Groups() {
		c.base[g] = g.Stats()
	}
}

// groupLabel names g for CSV rows; unnamed groups use their position.
func groupLabel(g *core.Group, i int) string {
	if g.Name() != "" {
		return g.Name()
	}
	return fmt.Sprintf("group%d", i)
}

// Flush produces a WindowStats from the counters accumulated since the
// last flush and the alive particles of sys, then starts a new window.
func (c *Collector) Flush(sys *core.System) WindowStats {
	stats := WindowStats{
		WindowStartSec: c.windowStartTime,
		WindowEndSec:   c.simTime,
		Frames:         c.frames,
		SubSteps:       c.subSteps,
		Groups:         len(sys.Groups()),
		Alive:          sys.NbParticles(),
		PerGroup:       make([]GroupWindowStats, 0, len(sys.Groups())),
	}
	if c.frames > 0 {
		stats.StepsPerFrame = float64(c.subSteps) / float64(c.frames)
	}

	ages := make([]float64, 0, sys.NbParticles())
	for i, g := range sys.Groups() {
		now, was := g.Stats(), c.base[g]
		gs := GroupWindowStats{
			WindowEndSec: c.simTime,
			Group:        groupLabel(g, i),
			Capacity:     g.Capacity(),
			Alive:        g.NbParticles(),
			Fill:         float64(g.NbParticles()) / float64(g.Capacity()),
			Spawned:      int(now.Spawned - was.Spawned),
			Dropped:      int(now.Dropped - was.Dropped),
			Killed:       int(now.Killed - was.Killed),
			Expired:      int(now.Expired - was.Expired),
		}
		stats.PerGroup = append(stats.PerGroup, gs)
		stats.Spawned += gs.Spawned
		stats.Dropped += gs.Dropped
		stats.Killed += gs.Killed
		stats.Expired += gs.Expired

		for p := range g.Particles() {
			ages = append(ages, p.Age())
		}
	}
	stats.AgeMean, stats.AgeStd, stats.AgeP10, stats.AgeP50, stats.AgeP90 = ComputeAgeStats(ages)

	if requested := stats.Spawned + stats.Dropped; requested > 0 {
		stats.DropRate = float64(stats.Dropped) / float64(requested)
	}

	// Reset for next window
	c.rebase(sys)
	c.windowStartTime = c.simTime
	c.frames = 0
	c.subSteps = 0

	return stats
}
