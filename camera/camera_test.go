package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestNew(t *testing.T) {
	cam := New(1280, 720, r3.Vec{Y: 1}, 10)

	if eye := cam.Eye(); !approx(eye.X, 0) || !approx(eye.Y, 1) || !approx(eye.Z, 10) {
		t.Errorf("expected eye at (0, 1, 10), got %v", eye)
	}
	if cam.MinDistance != 0.5 || cam.MaxDistance != 200 {
		t.Errorf("distance bounds = [%v, %v]", cam.MinDistance, cam.MaxDistance)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, r3.Vec{}, 10)

	sx, sy, depth, ok := cam.WorldToScreen(r3.Vec{})
	if !ok || !approx(sx, 640) || !approx(sy, 360) || !approx(depth, 10) {
		t.Errorf("expected screen center at depth 10, got (%f, %f) depth %f ok %v", sx, sy, depth, ok)
	}
}

func TestWorldToScreenAxes(t *testing.T) {
	cam := New(1280, 720, r3.Vec{}, 10)
	cam.FOV = math.Pi / 2

	// +X is right, +Y is up (screen y decreases).
	sx, _, _, _ := cam.WorldToScreen(r3.Vec{X: 1})
	if !approx(sx, 676) {
		t.Errorf("+X: expected sx 676, got %f", sx)
	}
	_, sy, _, _ := cam.WorldToScreen(r3.Vec{Y: 1})
	if !approx(sy, 324) {
		t.Errorf("+Y: expected sy 324, got %f", sy)
	}
}

func TestBehindCamera(t *testing.T) {
	cam := New(1280, 720, r3.Vec{}, 10)

	if _, _, _, ok := cam.WorldToScreen(r3.Vec{Z: 20}); ok {
		t.Error("point behind the eye reported visible")
	}
	if cam.IsVisible(r3.Vec{Z: 20}, 1) {
		t.Error("point behind the eye passes culling")
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, r3.Vec{}, 10)

	testCases := []struct {
		name   string
		v      r3.Vec
		radius float64
		want   bool
	}{
		{"center", r3.Vec{}, 0, true},
		{"far right", r3.Vec{X: 100}, 0, false},
		{"far right large radius", r3.Vec{X: 100}, 100, true},
	}
	for _, tc := range testCases {
		if got := cam.IsVisible(tc.v, tc.radius); got != tc.want {
			t.Errorf("%s: IsVisible = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOrbitKeepsDistance(t *testing.T) {
	cam := New(800, 600, r3.Vec{X: 1}, 5)
	cam.Orbit(math.Pi/2, 0)

	eye := cam.Eye()
	if !approx(eye.X, 6) || !approx(eye.Z, 0) {
		t.Errorf("expected eye at (6, 0, 0) after quarter yaw, got %v", eye)
	}
	cam.Orbit(0, math.Pi)
	if cam.Pitch >= math.Pi/2 {
		t.Errorf("pitch not clamped: %f", cam.Pitch)
	}
	if d := r3.Norm(r3.Sub(cam.Eye(), cam.Target)); !approx(d, 5) {
		t.Errorf("distance drifted to %f", d)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, r3.Vec{}, 10)

	cam.ZoomBy(1000)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MinDistance, cam.Distance)
	}
	cam.ZoomBy(0.0001)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MaxDistance, cam.Distance)
	}
}

func TestPanMovesTargetWithScreen(t *testing.T) {
	cam := New(800, 600, r3.Vec{}, 10)
	before, _, _, _ := cam.WorldToScreen(r3.Vec{})

	// Dragging right moves the world right on screen.
	cam.Pan(50, 0)
	after, _, _, _ := cam.WorldToScreen(r3.Vec{})
	if !approx(after-before, 50) {
		t.Errorf("expected origin to move 50px, moved %f", after-before)
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600, r3.Vec{}, 10)
	cam.Orbit(1, 0.5)
	cam.ZoomBy(2)
	cam.Resize(1024, 768)
	cam.Reset()

	if cam.Yaw != 0 || cam.Pitch != 0 || cam.Distance != 10 {
		t.Errorf("reset left yaw %f pitch %f distance %f", cam.Yaw, cam.Pitch, cam.Distance)
	}
	if cam.ViewportW != 1024 {
		t.Errorf("reset changed viewport to %f", cam.ViewportW)
	}
}

func TestSetHome(t *testing.T) {
	cam := New(800, 600, r3.Vec{}, 10)
	cam.Yaw, cam.Pitch = 0.3, 0.2
	cam.SetHome()
	cam.Orbit(1, 0.5)
	cam.Reset()

	if cam.Yaw != 0.3 || cam.Pitch != 0.2 {
		t.Errorf("reset to yaw %f pitch %f, want 0.3 0.2", cam.Yaw, cam.Pitch)
	}
}
