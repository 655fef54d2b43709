package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSaturation  BookmarkType = "saturation"
	BookmarkExtinction  BookmarkType = "extinction"
	BookmarkSpawnSurge  BookmarkType = "spawn_surge"
	BookmarkSteadyState BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Time        float64      `csv:"time" json:"time"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"time", b.Time,
		"description", b.Description,
	)
}

const (
	steadyWindows = 5    // consecutive windows required for steady state
	steadyMaxCV   = 0.05 // alive-count coefficient of variation
	surgeFactor   = 2.0
	surgeMin      = 10 // spawned particles below this never count as a surge
)

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	saturated   bool // inside a window run with dropped spawns
	steadyFired bool // steady state already reported for the current run
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < steadyWindows {
		historySize = steadyWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkSaturation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSpawnSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	// Steady state looks at the history including the current window
	if b := bd.checkSteadyState(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) previous() (WindowStats, bool) {
	h := bd.getHistory()
	if len(h) == 0 {
		return WindowStats{}, false
	}
	return h[len(h)-1], true
}

func (bd *BookmarkDetector) checkSaturation(stats WindowStats) *Bookmark {
	if stats.Dropped == 0 {
		bd.saturated = false
		return nil
	}
	if bd.saturated {
		return nil
	}
	bd.saturated = true
	return &Bookmark{
		Type:        BookmarkSaturation,
		Time:        stats.WindowEndSec,
		Description: fmt.Sprintf("%d spawn requests dropped (%.0f%%) with %d alive", stats.Dropped, stats.DropRate*100, stats.Alive),
	}
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	prev, ok := bd.previous()
	if !ok || prev.Alive == 0 || stats.Alive > 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkExtinction,
		Time:        stats.WindowEndSec,
		Description: fmt.Sprintf("Population fell from %d to 0", prev.Alive),
	}
}

func (bd *BookmarkDetector) checkSpawnSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Spawned < surgeMin {
		return nil
	}

	spawned := make([]float64, len(history))
	for i, h := range history {
		spawned[i] = float64(h.Spawned)
	}
	avg := stat.Mean(spawned, nil)
	if avg == 0 {
		return nil
	}

	if float64(stats.Spawned) > avg*surgeFactor {
		return &Bookmark{
			Type:        BookmarkSpawnSurge,
			Time:        stats.WindowEndSec,
			Description: fmt.Sprintf("Spawned %d is %.1fx average (%.1f)", stats.Spawned, float64(stats.Spawned)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if stats.Alive == 0 || len(history) < steadyWindows {
		bd.steadyFired = false
		return nil
	}

	recent := history[len(history)-steadyWindows:]
	alive := make([]float64, len(recent))
	for i, h := range recent {
		alive[i] = float64(h.Alive)
	}
	mean, std := stat.MeanStdDev(alive, nil)
	if mean == 0 || std/mean > steadyMaxCV {
		bd.steadyFired = false
		return nil
	}

	if bd.steadyFired {
		return nil
	}
	bd.steadyFired = true
	return &Bookmark{
		Type:        BookmarkSteadyState,
		Time:        stats.WindowEndSec,
		Description: fmt.Sprintf("Alive count stable around %.0f (cv %.3f) over %d windows", mean, std/mean, steadyWindows),
	}
}
