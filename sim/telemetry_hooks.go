package sim

import (
	"log/slog"

	"github.com/pthm-cable/spark/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Sim) flushTelemetry() {
	if !s.collector.ShouldFlush() {
		return
	}

	stats := s.collector.Flush(s.sys)
	perfStats := s.perfCollector.Stats()
	s.lastStats = stats

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndSec); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.opts.LogStats {
			bm.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		s.saveSnapshot(&bm)
	}
}

// Snapshot captures the alive particles now, tagged with bookmark if set.
func (s *Sim) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snap := telemetry.CaptureSnapshot(s.sys, s.opts.Seed, s.scene, s.collector.SimTime())
	snap.Bookmark = bookmark
	return snap
}

// SaveSnapshot writes a snapshot to the output directory and returns its
// path. It does nothing when output is disabled.
func (s *Sim) SaveSnapshot() (string, error) {
	return s.outputManager.WriteSnapshot(s.Snapshot(nil))
}

func (s *Sim) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := s.outputManager.WriteSnapshot(s.Snapshot(bookmark))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	if path != "" {
		slog.Info("snapshot saved", "path", path, "sim_time", s.collector.SimTime())
	}
}
