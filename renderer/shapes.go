package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/camera"
)

// DrawBox projects the twelve edges of an axis-aligned box.
func DrawBox(cam *camera.Camera, lo, hi r3.Vec, color rl.Color) {
	var corners [8]r3.Vec
	for i := range corners {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		corners[i] = c
	}
	for i := range corners {
		for _, bit := range []int{1, 2, 4} {
			j := i | bit
			if j == i {
				continue
			}
			ax, ay, _, okA := cam.WorldToScreen(corners[i])
			bx, by, _, okB := cam.WorldToScreen(corners[j])
			if okA && okB {
				rl.DrawLineV(rl.Vector2{X: float32(ax), Y: float32(ay)}, rl.Vector2{X: float32(bx), Y: float32(by)}, color)
			}
		}
	}
}
