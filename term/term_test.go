package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/camera"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/render"
)

func newCanvas(t *testing.T) (*Canvas, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	cam := camera.New(80, 48, r3.Vec{}, 10)
	return NewCanvas(screen, cam), screen
}

func TestCanvasTracksScreenSize(t *testing.T) {
	c, _ := newCanvas(t)
	c.Begin()
	if c.cam.ViewportW != 80 || c.cam.ViewportH != 48 {
		t.Errorf("viewport = %vx%v, want 80x48", c.cam.ViewportW, c.cam.ViewportH)
	}
}

func TestDrawPointAtCenter(t *testing.T) {
	c, screen := newCanvas(t)
	b := render.NewBuffer(1)
	b.AddPoint(r3.Vec{}, core.Color{R: 255, A: 255}, 1)

	c.Begin()
	c.DrawPoints(b, render.DrawOptions{Blend: render.BlendAlpha})
	c.End()

	r, _, style, _ := screen.GetContent(40, 12)
	if r != glyphPoint {
		t.Fatalf("center rune = %q, want %q", r, glyphPoint)
	}
	fg, _, _ := style.Decompose()
	if want := tcell.NewRGBColor(255, 0, 0); fg != want {
		t.Errorf("foreground = %v, want %v", fg, want)
	}
}

func TestDrawPointBehindCameraSkipped(t *testing.T) {
	c, _ := newCanvas(t)
	b := render.NewBuffer(1)
	b.AddPoint(r3.Vec{Z: 50}, core.White, 1)

	c.Begin()
	c.DrawPoints(b, render.DrawOptions{})
	for i, cl := range c.frame {
		if cl.set {
			t.Fatalf("cell %d drawn for a point behind the camera", i)
		}
	}
}

func TestDrawLineCoversSpan(t *testing.T) {
	c, _ := newCanvas(t)
	b := render.NewBuffer(2)
	b.AddSegment(r3.Vec{X: -1}, r3.Vec{X: 1}, core.White, core.White)

	c.Begin()
	c.DrawLines(b, render.DrawOptions{Blend: render.BlendAdditive})
	x0, y, _, _ := c.project(r3.Vec{X: -1})
	x1, _, _, _ := c.project(r3.Vec{X: 1})
	if x1 <= x0 {
		t.Fatalf("projected span %d..%d is empty", x0, x1)
	}
	for x := x0; x <= x1; x++ {
		if !c.frame[y*c.w+x].set {
			t.Errorf("cell (%d, %d) not covered by line", x, y)
		}
	}
}

func TestAdditiveBlendSaturates(t *testing.T) {
	c, _ := newCanvas(t)
	c.Begin()
	col := core.Color{R: 200, A: 255}
	c.plot(1, 1, col, glyphPoint, render.BlendAdditive)
	c.plot(1, 1, col, glyphPoint, render.BlendAdditive)
	if got := c.frame[1*c.w+1].r; got != 255 {
		t.Errorf("red = %v, want saturated 255", got)
	}
}

func TestTextOverlay(t *testing.T) {
	c, screen := newCanvas(t)
	c.Begin()
	c.Text(2, 0, "hi", tcell.StyleDefault)
	c.End()
	for i, want := range "hi" {
		if r, _, _, _ := screen.GetContent(2+i, 0); r != want {
			t.Errorf("rune at %d = %q, want %q", 2+i, r, want)
		}
	}
}

type stubDriver struct {
	steps  int
	paused bool
}

func (d *stubDriver) Step(dt float64) bool   { d.steps++; return true }
func (d *stubDriver) Render(c render.Canvas) {}
func (d *stubDriver) Status() string         { return "stub" }
func (d *stubDriver) TogglePause()           { d.paused = !d.paused }

func TestHandleEventKeys(t *testing.T) {
	c, _ := newCanvas(t)
	d := &stubDriver{}

	if !handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), c, d) || !d.paused {
		t.Error("space did not toggle pause")
	}
	yaw := c.cam.Yaw
	handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), c, d)
	if c.cam.Yaw <= yaw {
		t.Error("right arrow did not orbit")
	}
	if handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), c, d) {
		t.Error("q did not quit")
	}
	if handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), c, d) {
		t.Error("escape did not quit")
	}
}
