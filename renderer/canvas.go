// Package renderer draws particles into a raylib window.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/camera"
	"github.com/pthm-cable/spark/render"
)

// minPointRadius keeps far particles visible.
const minPointRadius = 0.5

// Canvas is a render.Canvas drawing immediate-mode raylib shapes. The
// caller owns BeginDrawing/EndDrawing; Begin and End only track the
// batch count of a frame.
type Canvas struct {
	cam     *camera.Camera
	batches int
	atlas   rl.Texture2D
}

// NewCanvas creates a canvas projecting through cam.
func NewCanvas(cam *camera.Camera) *Canvas {
	return &Canvas{cam: cam}
}

// Camera returns the projection camera.
func (c *Canvas) Camera() *camera.Camera { return c.cam }

// ViewAxes implements render.Viewer.
func (c *Canvas) ViewAxes() (right, up r3.Vec) { return c.cam.Axes() }

// Batches returns the number of draw calls in the current frame.
func (c *Canvas) Batches() int { return c.batches }

// Begin implements render.Canvas.
func (c *Canvas) Begin() {
	c.batches = 0
	c.cam.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
}

// End implements render.Canvas.
func (c *Canvas) End() {}

func beginBlend(mode render.BlendMode) bool {
	switch mode {
	case render.BlendAdditive:
		rl.BeginBlendMode(rl.BlendAdditive)
	case render.BlendAlpha:
		rl.BeginBlendMode(rl.BlendAlpha)
	default:
		return false
	}
	return true
}

// DrawPoints implements render.Canvas. Sizes are pixel diameters at the
// camera distance and shrink with depth.
func (c *Canvas) DrawPoints(b *render.Buffer, opts render.DrawOptions) {
	c.batches++
	if beginBlend(opts.Blend) {
		defer rl.EndBlendMode()
	}
	for i, v := range b.Vertices {
		sx, sy, depth, ok := c.cam.WorldToScreen(v)
		if !ok {
			continue
		}
		size := 1.0
		if i < len(b.Sizes) {
			size = b.Sizes[i]
		}
		radius := float32(size / 2 * c.cam.Distance / depth)
		if radius < minPointRadius {
			radius = minPointRadius
		}
		rl.DrawCircleV(rl.NewVector2(float32(sx), float32(sy)), radius, b.Colors[i].Std())
	}
}

// DrawLines implements render.Canvas. Segments take the color of their
// start vertex.
func (c *Canvas) DrawLines(b *render.Buffer, opts render.DrawOptions) {
	c.batches++
	if beginBlend(opts.Blend) {
		defer rl.EndBlendMode()
	}
	width := float32(opts.Width)
	if width <= 0 {
		width = 1
	}
	for i := 0; i+1 < len(b.Vertices); i += 2 {
		x0, y0, _, ok0 := c.cam.WorldToScreen(b.Vertices[i])
		x1, y1, _, ok1 := c.cam.WorldToScreen(b.Vertices[i+1])
		if !ok0 || !ok1 {
			continue
		}
		rl.DrawLineEx(
			rl.NewVector2(float32(x0), float32(y0)),
			rl.NewVector2(float32(x1), float32(y1)),
			width,
			b.Colors[i].Std(),
		)
	}
}

// DrawQuads implements render.Canvas. Quads are textured with the atlas
// when one is loaded and drawn flat otherwise.
func (c *Canvas) DrawQuads(b *render.Buffer, opts render.DrawOptions) {
	c.batches++
	if beginBlend(opts.Blend) {
		defer rl.EndBlendMode()
	}
	textured := c.atlas.ID != 0 && len(b.UVs) == len(b.Vertices)
	if textured {
		rl.SetTexture(c.atlas.ID)
	} else {
		rl.SetTexture(rl.GetShapesTexture().ID)
	}
	defer rl.SetTexture(0)

	var xs, ys [4]float32
	rl.Begin(rl.Quads)
	for i := 0; i+3 < len(b.Vertices); i += 4 {
		visible := true
		for k := range 4 {
			sx, sy, _, ok := c.cam.WorldToScreen(b.Vertices[i+k])
			if !ok {
				visible = false
				break
			}
			xs[k], ys[k] = float32(sx), float32(sy)
		}
		if !visible {
			continue
		}

		// raylib expects the winding of DrawRectanglePro in screen space.
		order := [4]int{0, 1, 2, 3}
		if area(xs, ys) > 0 {
			order = [4]int{0, 3, 2, 1}
		}
		col := b.Colors[i].Std()
		for _, k := range order {
			rl.Color4ub(col.R, col.G, col.B, col.A)
			if textured {
				uv := b.UVs[i+k]
				rl.TexCoord2f(float32(uv.U), float32(uv.V))
			}
			rl.Vertex2f(xs[k], ys[k])
		}
	}
	rl.End()
}

// area returns twice the signed area of a screen quad.
func area(xs, ys [4]float32) float32 {
	var a float32
	for k := range 4 {
		n := (k + 1) % 4
		a += xs[k]*ys[n] - xs[n]*ys[k]
	}
	return a
}

// LoadFlareAtlas builds a 2x2 atlas of radial flares of decreasing
// softness, cell pixels square. It needs an open window.
func (c *Canvas) LoadFlareAtlas(cell int) {
	c.UnloadAtlas()
	img := rl.GenImageColor(2*cell, 2*cell, rl.Blank)
	defer rl.UnloadImage(img)
	for i, density := range []float32{0, 0.3, 0.6, 0.85} {
		flare := rl.GenImageGradientRadial(cell, cell, density, rl.White, rl.Blank)
		x, y := float32(i%2*cell), float32(i/2*cell)
		src := rl.NewRectangle(0, 0, float32(cell), float32(cell))
		rl.ImageDraw(img, flare, src, rl.NewRectangle(x, y, float32(cell), float32(cell)), rl.White)
		rl.UnloadImage(flare)
	}
	c.atlas = rl.LoadTextureFromImage(img)
}

// UnloadAtlas releases the atlas texture.
func (c *Canvas) UnloadAtlas() {
	if c.atlas.ID != 0 {
		rl.UnloadTexture(c.atlas)
		c.atlas = rl.Texture2D{}
	}
}
