package render

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// DrawKind tells points from lines in a recorded call.
type DrawKind int

const (
	KindPoints DrawKind = iota
	KindLines
	KindQuads
)

// Call is one recorded batch.
type Call struct {
	Kind     DrawKind
	Options  DrawOptions
	Vertices []r3.Vec
	Colors   []core.Color
	Sizes    []float64
	UVs      []UV
}

// Recorder is a Canvas that keeps copies of every batch. Headless runs use
// it to count draw work; tests inspect the calls.
type Recorder struct {
	Frames   int
	Calls    []Call
	Vertices int
	open     bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Begin implements Canvas. Calls from the previous frame are discarded.
func (r *Recorder) Begin() {
	r.Calls = r.Calls[:0]
	r.open = true
}

// DrawPoints implements Canvas.
func (r *Recorder) DrawPoints(b *Buffer, opts DrawOptions) { r.record(KindPoints, b, opts) }

// DrawLines implements Canvas.
func (r *Recorder) DrawLines(b *Buffer, opts DrawOptions) { r.record(KindLines, b, opts) }

// DrawQuads implements Canvas.
func (r *Recorder) DrawQuads(b *Buffer, opts DrawOptions) { r.record(KindQuads, b, opts) }

func (r *Recorder) record(kind DrawKind, b *Buffer, opts DrawOptions) {
	r.Calls = append(r.Calls, Call{
		Kind:     kind,
		Options:  opts,
		Vertices: slices.Clone(b.Vertices),
		Colors:   slices.Clone(b.Colors),
		Sizes:    slices.Clone(b.Sizes),
		UVs:      slices.Clone(b.UVs),
	})
	r.Vertices += b.Len()
}

// End implements Canvas.
func (r *Recorder) End() {
	if r.open {
		r.Frames++
		r.open = false
	}
}
