// Package term renders particles into a terminal through tcell.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/camera"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/render"
)

// Terminal cells are roughly twice as tall as wide; the camera works in
// half-cell rows so the picture keeps its aspect.
const rowScale = 2

const (
	glyphPoint = '•'
	glyphLarge = '●'
	glyphLine  = '·'
)

type cell struct {
	r, g, b float64
	glyph   rune
	set     bool
}

// Canvas is a render.Canvas drawing into a tcell.Screen. Draw calls
// accumulate into an internal frame; End pushes it to the screen.
type Canvas struct {
	screen tcell.Screen
	cam    *camera.Camera
	w, h   int
	frame  []cell
	text   []textLine
}

type textLine struct {
	x, y int
	s    string
	st   tcell.Style
}

// NewCanvas creates a canvas over screen, projecting through cam. The
// camera viewport is kept in sync with the screen size.
func NewCanvas(screen tcell.Screen, cam *camera.Camera) *Canvas {
	c := &Canvas{screen: screen, cam: cam}
	c.resize()
	return c
}

// Camera returns the projection camera.
func (c *Canvas) Camera() *camera.Camera { return c.cam }

func (c *Canvas) resize() {
	w, h := c.screen.Size()
	if w != c.w || h != c.h || c.frame == nil {
		c.w, c.h = w, h
		c.frame = make([]cell, w*h)
	}
	c.cam.Resize(float64(w), float64(h*rowScale))
}

// Begin implements render.Canvas.
func (c *Canvas) Begin() {
	c.resize()
	clear(c.frame)
	c.text = c.text[:0]
}

func (c *Canvas) project(v r3.Vec) (x, y int, depth float64, ok bool) {
	sx, sy, depth, ok := c.cam.WorldToScreen(v)
	if !ok {
		return 0, 0, depth, false
	}
	return int(math.Floor(sx)), int(math.Floor(sy / rowScale)), depth, true
}

func (c *Canvas) plot(x, y int, col core.Color, glyph rune, mode render.BlendMode) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	dst := &c.frame[y*c.w+x]
	a := float64(col.A) / 255
	r, g, b := float64(col.R), float64(col.G), float64(col.B)
	switch mode {
	case render.BlendAdditive:
		dst.r = math.Min(255, dst.r+r*a)
		dst.g = math.Min(255, dst.g+g*a)
		dst.b = math.Min(255, dst.b+b*a)
	case render.BlendAlpha:
		dst.r = dst.r*(1-a) + r*a
		dst.g = dst.g*(1-a) + g*a
		dst.b = dst.b*(1-a) + b*a
	default:
		dst.r, dst.g, dst.b = r, g, b
	}
	if !dst.set || glyph != glyphLine {
		dst.glyph = glyph
	}
	dst.set = true
}

// DrawPoints implements render.Canvas. Points wider than a cell use a
// heavier glyph.
func (c *Canvas) DrawPoints(b *render.Buffer, opts render.DrawOptions) {
	for i, v := range b.Vertices {
		x, y, _, ok := c.project(v)
		if !ok {
			continue
		}
		glyph := glyphPoint
		if i < len(b.Sizes) && b.Sizes[i] >= 4 {
			glyph = glyphLarge
		}
		c.plot(x, y, b.Colors[i], glyph, opts.Blend)
	}
}

// DrawLines implements render.Canvas with a DDA walk per segment.
func (c *Canvas) DrawLines(b *render.Buffer, opts render.DrawOptions) {
	for i := 0; i+1 < len(b.Vertices); i += 2 {
		x0, y0, _, ok0 := c.project(b.Vertices[i])
		x1, y1, _, ok1 := c.project(b.Vertices[i+1])
		if !ok0 || !ok1 {
			continue
		}
		c0, c1 := b.Colors[i], b.Colors[i+1]
		steps := max(abs(x1-x0), abs(y1-y0))
		if steps == 0 {
			c.plot(x0, y0, c0, glyphLine, opts.Blend)
			continue
		}
		if steps > c.w+c.h {
			continue
		}
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			x := x0 + int(math.Round(float64(x1-x0)*t))
			y := y0 + int(math.Round(float64(y1-y0)*t))
			c.plot(x, y, c0.Lerp(c1, t), glyphLine, opts.Blend)
		}
	}
}

// DrawQuads implements render.Canvas. Each quad becomes one glyph at its
// center; quads spanning more than a cell use the heavier glyph.
func (c *Canvas) DrawQuads(b *render.Buffer, opts render.DrawOptions) {
	for i := 0; i+3 < len(b.Vertices); i += 4 {
		center := r3.Scale(0.25, r3.Add(r3.Add(b.Vertices[i], b.Vertices[i+1]), r3.Add(b.Vertices[i+2], b.Vertices[i+3])))
		x, y, _, ok := c.project(center)
		if !ok {
			continue
		}
		x0, _, _, ok0 := c.project(b.Vertices[i])
		x2, _, _, ok2 := c.project(b.Vertices[i+2])
		glyph := glyphPoint
		if ok0 && ok2 && abs(x2-x0) >= 2 {
			glyph = glyphLarge
		}
		c.plot(x, y, b.Colors[i], glyph, opts.Blend)
	}
}

// ViewAxes implements render.Viewer.
func (c *Canvas) ViewAxes() (right, up r3.Vec) { return c.cam.Axes() }

// Text queues a status line drawn on top of the particles.
func (c *Canvas) Text(x, y int, s string, style tcell.Style) {
	c.text = append(c.text, textLine{x: x, y: y, s: s, st: style})
}

// End implements render.Canvas.
func (c *Canvas) End() {
	c.screen.Clear()
	for i, dst := range c.frame {
		if !dst.set {
			continue
		}
		color := tcell.NewRGBColor(int32(dst.r), int32(dst.g), int32(dst.b))
		c.screen.SetContent(i%c.w, i/c.w, dst.glyph, nil, tcell.StyleDefault.Foreground(color))
	}
	for _, l := range c.text {
		x := l.x
		for _, r := range l.s {
			c.screen.SetContent(x, l.y, r, nil, l.st)
			x++
		}
	}
	c.screen.Show()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
