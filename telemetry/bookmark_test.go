package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, b := range bookmarks {
		if b.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Saturation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if got := bd.Check(WindowStats{WindowEndSec: 1, Alive: 100, Spawned: 100}); hasBookmark(got, BookmarkSaturation) {
		t.Fatal("saturation without drops")
	}
	got := bd.Check(WindowStats{WindowEndSec: 2, Alive: 100, Spawned: 50, Dropped: 50, DropRate: 0.5})
	if !hasBookmark(got, BookmarkSaturation) {
		t.Fatal("expected saturation bookmark on first dropped window")
	}

	// Still saturated: reported once per run
	got = bd.Check(WindowStats{WindowEndSec: 3, Alive: 100, Spawned: 50, Dropped: 50})
	if hasBookmark(got, BookmarkSaturation) {
		t.Error("saturation should not repeat while drops continue")
	}

	bd.Check(WindowStats{WindowEndSec: 4, Alive: 90, Spawned: 40})
	got = bd.Check(WindowStats{WindowEndSec: 5, Alive: 100, Spawned: 60, Dropped: 3})
	if !hasBookmark(got, BookmarkSaturation) {
		t.Error("expected saturation again after a clean window")
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if got := bd.Check(WindowStats{WindowEndSec: 1}); hasBookmark(got, BookmarkExtinction) {
		t.Fatal("empty first window is not an extinction")
	}
	bd.Check(WindowStats{WindowEndSec: 2, Alive: 40})
	got := bd.Check(WindowStats{WindowEndSec: 3, Alive: 0, Expired: 40})
	if !hasBookmark(got, BookmarkExtinction) {
		t.Fatal("expected extinction bookmark")
	}
	for _, b := range got {
		if b.Type == BookmarkExtinction && b.Time != 3 {
			t.Errorf("bookmark time = %v, want 3", b.Time)
		}
	}
	if got := bd.Check(WindowStats{WindowEndSec: 4}); hasBookmark(got, BookmarkExtinction) {
		t.Error("extinction should not repeat while empty")
	}
}

func TestBookmarkDetector_SpawnSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndSec: float64(i), Alive: 100, Spawned: 20})
	}

	if got := bd.Check(WindowStats{WindowEndSec: 5, Alive: 100, Spawned: 35}); hasBookmark(got, BookmarkSpawnSurge) {
		t.Error("35 is below twice the average")
	}
	if got := bd.Check(WindowStats{WindowEndSec: 6, Alive: 100, Spawned: 80}); !hasBookmark(got, BookmarkSpawnSurge) {
		t.Error("expected spawn surge bookmark")
	}
}

func TestBookmarkDetector_SpawnSurgeNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{Spawned: 1})
	if got := bd.Check(WindowStats{Spawned: 100}); hasBookmark(got, BookmarkSpawnSurge) {
		t.Error("surge reported with fewer than three windows of history")
	}
}

func TestBookmarkDetector_SteadyState(t *testing.T) {
	bd := NewBookmarkDetector(10)

	alive := []int{500, 502, 498, 501}
	for i, n := range alive {
		if got := bd.Check(WindowStats{WindowEndSec: float64(i), Alive: n}); hasBookmark(got, BookmarkSteadyState) {
			t.Fatalf("steady state after %d windows", i+1)
		}
	}

	got := bd.Check(WindowStats{WindowEndSec: 4, Alive: 499})
	if !hasBookmark(got, BookmarkSteadyState) {
		t.Fatal("expected steady state after five stable windows")
	}
	if got := bd.Check(WindowStats{WindowEndSec: 5, Alive: 500}); hasBookmark(got, BookmarkSteadyState) {
		t.Error("steady state should be reported once per run")
	}
}

func TestBookmarkDetector_UnstableIsNotSteady(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i, n := range []int{100, 300, 50, 400, 200, 120} {
		if got := bd.Check(WindowStats{WindowEndSec: float64(i), Alive: n}); hasBookmark(got, BookmarkSteadyState) {
			t.Fatalf("unexpected steady state at window %d", i)
		}
	}
}

func TestBookmarkDetector_HistoryOrder(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 0; i < 7; i++ {
		bd.Check(WindowStats{WindowEndSec: float64(i)})
	}
	h := bd.getHistory()
	if len(h) != 5 {
		t.Fatalf("history length = %d, want 5", len(h))
	}
	for i, s := range h {
		if want := float64(i + 2); s.WindowEndSec != want {
			t.Errorf("history[%d] = %v, want %v", i, s.WindowEndSec, want)
		}
	}
}
