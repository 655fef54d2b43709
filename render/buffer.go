// Package render turns particle groups into backend-neutral draw calls.
// Renderers fill a Buffer on the CPU and hand it to a Canvas; the raylib
// and terminal backends implement Canvas.
package render

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// UV is a texture coordinate in [0, 1].
type UV struct {
	U, V float64
}

// Cell is a rectangle of a texture atlas in UV space.
type Cell struct {
	Min, Max UV
}

// Buffer is a reusable vertex stream. Vertices, Colors and Sizes are
// parallel; Sizes is only filled for point batches and UVs only for quad
// batches.
type Buffer struct {
	Vertices []r3.Vec
	Colors   []core.Color
	Sizes    []float64
	UVs      []UV
}

// NewBuffer preallocates room for capacity vertices.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		Vertices: make([]r3.Vec, 0, capacity),
		Colors:   make([]core.Color, 0, capacity),
		Sizes:    make([]float64, 0, capacity),
	}
}

// Reset empties the buffer, keeping its storage.
func (b *Buffer) Reset() {
	b.Vertices = b.Vertices[:0]
	b.Colors = b.Colors[:0]
	b.Sizes = b.Sizes[:0]
	b.UVs = b.UVs[:0]
}

// Len returns the number of vertices.
func (b *Buffer) Len() int { return len(b.Vertices) }

// AddVertex appends a vertex without size.
func (b *Buffer) AddVertex(v r3.Vec, c core.Color) {
	b.Vertices = append(b.Vertices, v)
	b.Colors = append(b.Colors, c)
}

// AddPoint appends a sized point.
func (b *Buffer) AddPoint(v r3.Vec, c core.Color, size float64) {
	b.AddVertex(v, c)
	b.Sizes = append(b.Sizes, size)
}

// AddSegment appends the two ends of a line segment.
func (b *Buffer) AddSegment(from, to r3.Vec, cFrom, cTo core.Color) {
	b.AddVertex(from, cFrom)
	b.AddVertex(to, cTo)
}

// AddQuad appends the four corners of a quad in bottom-left, bottom-right,
// top-right, top-left order, mapping cell onto them.
func (b *Buffer) AddQuad(corners [4]r3.Vec, c core.Color, cell Cell) {
	for _, v := range corners {
		b.AddVertex(v, c)
	}
	b.UVs = append(b.UVs,
		UV{cell.Min.U, cell.Max.V},
		UV{cell.Max.U, cell.Max.V},
		UV{cell.Max.U, cell.Min.V},
		UV{cell.Min.U, cell.Min.V},
	)
}

func bufferOf(buffer any) *Buffer {
	b, ok := buffer.(*Buffer)
	if !ok {
		panic("render: renderer received a foreign render buffer")
	}
	return b
}
