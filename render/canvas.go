package render

import "gonum.org/v1/gonum/spatial/r3"

// BlendMode selects how a batch is composited.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAlpha
	BlendAdditive
)

func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "none"
	case BlendAlpha:
		return "alpha"
	case BlendAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// ParseBlendMode maps a config name to a mode.
func ParseBlendMode(name string) (BlendMode, bool) {
	for m := BlendNone; m <= BlendAdditive; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return BlendNone, false
}

// DrawOptions carries the per-batch state a renderer asks for.
type DrawOptions struct {
	Blend BlendMode
	Width float64 // line width in pixels
}

// Canvas is the drawing backend. Vertices are in world space; the canvas
// owns the projection. DrawLines consumes vertices in pairs and DrawQuads
// in fours.
type Canvas interface {
	Begin()
	DrawPoints(b *Buffer, opts DrawOptions)
	DrawLines(b *Buffer, opts DrawOptions)
	DrawQuads(b *Buffer, opts DrawOptions)
	End()
}

// Viewer is implemented by canvases that know their view orientation.
// Camera-facing geometry is built in the plane spanned by right and up.
type Viewer interface {
	ViewAxes() (right, up r3.Vec)
}

// viewAxes returns c's view axes, or world X and Y when c has no camera.
func viewAxes(c Canvas) (right, up r3.Vec) {
	if v, ok := c.(Viewer); ok {
		return v.ViewAxes()
	}
	return r3.Vec{X: 1}, r3.Vec{Y: 1}
}
