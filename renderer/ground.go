package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/camera"
)

// Background renders a vertical gradient and a reference grid on a
// horizontal plane.
type Background struct {
	top, bottom color.RGBA
	grid        color.RGBA

	// Grid plane height, half extent and spacing in world units
	height, extent, spacing float64
}

// NewBackground creates a background with a grid at the given height.
func NewBackground(gridHeight float64) *Background {
	return &Background{
		top:     color.RGBA{R: 8, G: 8, B: 20, A: 255},
		bottom:  color.RGBA{R: 24, G: 16, B: 32, A: 255},
		grid:    color.RGBA{R: 90, G: 80, B: 120, A: 90},
		height:  gridHeight,
		extent:  3,
		spacing: 0.5,
	}
}

// Draw clears the screen with the gradient and draws the grid.
func (b *Background) Draw(cam *camera.Camera) {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	rl.DrawRectangleGradientV(0, 0, w, h, b.top, b.bottom)

	for x := -b.extent; x <= b.extent+1e-9; x += b.spacing {
		b.line(cam, r3.Vec{X: x, Y: b.height, Z: -b.extent}, r3.Vec{X: x, Y: b.height, Z: b.extent})
	}
	for z := -b.extent; z <= b.extent+1e-9; z += b.spacing {
		b.line(cam, r3.Vec{X: -b.extent, Y: b.height, Z: z}, r3.Vec{X: b.extent, Y: b.height, Z: z})
	}
}

func (b *Background) line(cam *camera.Camera, from, to r3.Vec) {
	x0, y0, _, ok0 := cam.WorldToScreen(from)
	x1, y1, _, ok1 := cam.WorldToScreen(to)
	if !ok0 || !ok1 {
		return
	}
	rl.DrawLineV(rl.NewVector2(float32(x0), float32(y0)), rl.NewVector2(float32(x1), float32(y1)), b.grid)
}
