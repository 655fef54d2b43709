package term

import (
	"context"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/spark/render"
)

// Driver is the simulation as seen by the terminal loop.
type Driver interface {
	Step(dt float64) bool
	Render(c render.Canvas)
	Status() string
	TogglePause()
}

// Options configures the terminal loop.
type Options struct {
	FPS       int
	MaxFrames int // 0 = unlimited
}

const orbitStep = math.Pi / 36

// Run drives d at opts.FPS until the user quits, ctx is cancelled, the
// driver reports it is finished or MaxFrames is reached. The caller owns
// screen initialization and Fini.
func Run(ctx context.Context, screen tcell.Screen, canvas *Canvas, d Driver, opts Options) {
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	frameDur := time.Second / time.Duration(fps)
	ticker := time.NewTicker(frameDur)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	last := time.Now()
	frames := 0
	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-eventChan:
			if !handleEvent(ev, canvas, d) {
				return
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			alive := d.Step(dt)

			canvas.Begin()
			d.Render(canvas)
			canvas.Text(0, 0, d.Status(), tcell.StyleDefault.Foreground(tcell.ColorWhite))
			canvas.End()

			frames++
			if !alive || (opts.MaxFrames > 0 && frames >= opts.MaxFrames) {
				return
			}
		}
	}
}

// handleEvent applies a key or resize event. It returns false on quit.
func handleEvent(ev tcell.Event, canvas *Canvas, d Driver) bool {
	cam := canvas.Camera()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			cam.Orbit(-orbitStep, 0)
		case tcell.KeyRight:
			cam.Orbit(orbitStep, 0)
		case tcell.KeyUp:
			cam.Orbit(0, orbitStep)
		case tcell.KeyDown:
			cam.Orbit(0, -orbitStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				d.TogglePause()
			case '+', '=':
				cam.ZoomBy(1.25)
			case '-':
				cam.ZoomBy(0.8)
			case 'r':
				cam.Reset()
			}
		}

	case *tcell.EventResize:
		canvas.screen.Sync()
	}
	return true
}
