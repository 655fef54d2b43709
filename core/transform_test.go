package core

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestLookAt(t *testing.T) {
	dirs := []r3.Vec{
		{X: 1},
		{Y: -1},
		{Z: 1},
		{Z: -1},
		{X: 1, Y: 1, Z: 1},
	}
	for _, d := range dirs {
		got := Rotate(LookAt(d), Forward)
		if !near(got, r3.Unit(d)) {
			t.Errorf("LookAt(%v) maps forward to %v", d, got)
		}
	}
}

func TestTransformCompose(t *testing.T) {
	parent := Transform{Position: r3.Vec{X: 1}, Orientation: AxisAngle(r3.Vec{Z: 1}, math.Pi/2)}
	local := Translation(r3.Vec{X: 1})

	world := parent.Compose(local)
	if !near(world.Position, r3.Vec{X: 1, Y: 1}) {
		t.Errorf("expected (1,1,0), got %v", world.Position)
	}
	if got := world.Apply(r3.Vec{X: 1}); !near(got, r3.Vec{X: 1, Y: 2}) {
		t.Errorf("expected (1,2,0), got %v", got)
	}
}

func TestZeroTransformActsAsIdentity(t *testing.T) {
	var zero Transform
	local := Transform{Orientation: AxisAngle(r3.Vec{Y: 1}, math.Pi)}
	if got := zero.Compose(local).ApplyDir(Forward); !near(got, r3.Vec{Z: -1}) {
		t.Errorf("expected (0,0,-1), got %v", got)
	}
}
