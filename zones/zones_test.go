package zones

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestSphereContains(t *testing.T) {
	s := NewSphere(r3.Vec{X: 1}, 2)
	tests := []struct {
		v    r3.Vec
		want bool
	}{
		{r3.Vec{X: 1}, true},
		{r3.Vec{X: 3}, true},
		{r3.Vec{X: 3.01}, false},
		{r3.Vec{X: 1, Y: -2.5}, false},
	}
	for _, tc := range tests {
		if got := s.Contains(tc.v, 0); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestSphereIntersects(t *testing.T) {
	s := NewSphere(r3.Vec{}, 1)

	hit, normal, ok := s.Intersects(r3.Vec{X: 2}, r3.Vec{}, 0)
	if !ok || !near(hit, r3.Vec{X: 1}) || !near(normal, r3.Vec{X: 1}) {
		t.Errorf("entering: got %v %v %v", hit, normal, ok)
	}

	hit, normal, ok = s.Intersects(r3.Vec{}, r3.Vec{Y: 2}, 0)
	if !ok || !near(hit, r3.Vec{Y: 1}) || !near(normal, r3.Vec{Y: -1}) {
		t.Errorf("leaving: got %v %v %v", hit, normal, ok)
	}

	if _, _, ok := s.Intersects(r3.Vec{X: 2}, r3.Vec{X: 3}, 0); ok {
		t.Error("segment outside should not intersect")
	}

	hit, _, ok = s.Intersects(r3.Vec{X: 2}, r3.Vec{}, 0.5)
	if !ok || !near(hit, r3.Vec{X: 1.5}) {
		t.Errorf("radius should push the surface out: got %v %v", hit, ok)
	}
}

func TestSphereGeneratePosition(t *testing.T) {
	s := NewSphere(r3.Vec{Y: 5}, 2)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		p := s.GeneratePosition(rng, true, 0)
		if !s.Contains(p, 0) {
			t.Fatalf("full position %v outside sphere", p)
		}
		q := s.GeneratePosition(rng, false, 0)
		if s.Distance(q) > 1e-9 {
			t.Fatalf("surface position %v off the surface by %v", q, s.Distance(q))
		}
	}
}

func TestPlaneContainsAndIntersects(t *testing.T) {
	ground := NewPlane(r3.Vec{Y: -1}, r3.Vec{})

	if !ground.Contains(r3.Vec{Y: -2}, 0) || ground.Contains(r3.Vec{Y: 0}, 0) {
		t.Error("inside should be the half-space below the plane")
	}

	hit, normal, ok := ground.Intersects(r3.Vec{Y: 1}, r3.Vec{Y: -3}, 0)
	if !ok || !near(hit, r3.Vec{Y: -1}) || !near(normal, r3.Vec{Y: 1}) {
		t.Errorf("falling through: got %v %v %v", hit, normal, ok)
	}

	hit, _, ok = ground.Intersects(r3.Vec{Y: 1}, r3.Vec{Y: -3}, 0.5)
	if !ok || !near(hit, r3.Vec{Y: -0.5}) {
		t.Errorf("radius offset: got %v %v", hit, ok)
	}

	if _, _, ok := ground.Intersects(r3.Vec{Y: 1}, r3.Vec{Y: 0}, 0); ok {
		t.Error("segment above the plane should not intersect")
	}
	if d := ground.Distance(r3.Vec{Y: 2}); d != 3 {
		t.Errorf("expected distance 3, got %v", d)
	}
}

func TestPlaneFollowsTransform(t *testing.T) {
	p := NewPlane(r3.Vec{}, r3.Vec{Y: 1})
	p.UpdateTransform(core.Transform{
		Position:    r3.Vec{Y: 2},
		Orientation: core.AxisAngle(r3.Vec{Z: 1}, math.Pi/2),
	})
	if !near(p.Normal(r3.Vec{}), r3.Vec{X: -1}) {
		t.Errorf("expected rotated normal (-1,0,0), got %v", p.Normal(r3.Vec{}))
	}
	if !near(p.Position(), r3.Vec{Y: 2}) {
		t.Errorf("expected translated origin, got %v", p.Position())
	}
}

func TestAABoxIntersects(t *testing.T) {
	b := NewAABox(r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})

	hit, normal, ok := b.Intersects(r3.Vec{X: -3}, r3.Vec{}, 0)
	if !ok || !near(hit, r3.Vec{X: -1}) || !near(normal, r3.Vec{X: -1}) {
		t.Errorf("entering from -X: got %v %v %v", hit, normal, ok)
	}

	hit, normal, ok = b.Intersects(r3.Vec{}, r3.Vec{Y: 3}, 0)
	if !ok || !near(hit, r3.Vec{Y: 1}) || !near(normal, r3.Vec{Y: -1}) {
		t.Errorf("leaving through +Y: got %v %v %v", hit, normal, ok)
	}

	if _, _, ok := b.Intersects(r3.Vec{X: -3, Y: 5}, r3.Vec{X: 3, Y: 5}, 0); ok {
		t.Error("segment above the box should miss")
	}
}

func TestAABoxGeneratePosition(t *testing.T) {
	b := NewAABox(r3.Vec{Z: 1}, r3.Vec{X: 2, Y: 4, Z: 6})
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		if p := b.GeneratePosition(rng, true, 0); !b.Contains(p, 0) {
			t.Fatalf("full position %v outside box", p)
		}
		if q := b.GeneratePosition(rng, false, 0); b.Distance(q) > 1e-9 {
			t.Fatalf("surface position %v off the faces", q)
		}
	}
}

func TestAABoxNormalAndDistance(t *testing.T) {
	b := NewAABox(r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	if n := b.Normal(r3.Vec{Z: 0.9}); !near(n, r3.Vec{Z: 1}) {
		t.Errorf("expected +Z normal, got %v", n)
	}
	if d := b.Distance(r3.Vec{X: 4, Y: 5}); math.Abs(d-5) > 1e-9 {
		t.Errorf("expected distance 5, got %v", d)
	}
	if d := b.Distance(r3.Vec{X: 0.5}); math.Abs(d-0.5) > 1e-9 {
		t.Errorf("expected inner distance 0.5, got %v", d)
	}
}

func TestZonesCloneUnshared(t *testing.T) {
	zones := []core.Zone{
		NewSphere(r3.Vec{}, 1),
		NewPlane(r3.Vec{}, r3.Vec{Y: 1}),
		NewAABox(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}),
	}
	for _, z := range zones {
		z.SetName("zone")
		z.SetShared(true)
		core.Retain(z)
		c := z.Clone()
		if c.Shared() || c.RefCount() != 0 || c.Name() != "zone" {
			t.Errorf("%s: clone should keep the name only", z.TypeName())
		}
		if c == z {
			t.Errorf("%s: clone returned the same zone", z.TypeName())
		}
	}
}
