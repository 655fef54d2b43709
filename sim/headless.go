package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pthm-cable/spark/inspector"
	"github.com/pthm-cable/spark/render"
)

// RunHeadless steps at the configured fixed dt until maxFrames frames have
// run (0 = unlimited), the system finishes or ctx is cancelled. Frames are
// drawn into a Recorder so the render phase is timed as in window mode.
func (s *Sim) RunHeadless(ctx context.Context, maxFrames int) error {
	rec := render.NewRecorder()
	dt := s.cfg.Simulation.FixedDT

	slog.Info("starting headless simulation",
		"scene", s.scene,
		"seed", s.opts.Seed,
		"fixed_dt", dt,
		"max_frames", maxFrames,
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		alive := s.Step(dt)
		rec.Begin()
		s.Render(rec)
		rec.End()

		if !alive {
			return nil
		}
		if maxFrames > 0 && s.frames >= maxFrames {
			slog.Info("max frames reached",
				"frames", s.frames,
				"sim_time", s.collector.SimTime(),
				"vertices_drawn", rec.Vertices,
			)
			return nil
		}
	}
}

// Describe writes the object tree with every inspectable attribute.
func (s *Sim) Describe(w io.Writer) error {
	for _, e := range inspector.Walk(s.sys) {
		indent := strings.Repeat("  ", e.Depth)
		label := e.Object.TypeName()
		if name := e.Object.Name(); name != "" {
			label += " " + name
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, label); err != nil {
			return err
		}
		for _, f := range inspector.Describe(e.Object) {
			if f.Name == "type" || f.Name == "name" {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s  %-16s %s\n", indent, f.Name, f.Text()); err != nil {
				return err
			}
		}
	}
	return nil
}
