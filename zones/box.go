package zones

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

// AABox is an axis-aligned box centered on its position. Orientation of
// the world transform is ignored.
type AABox struct {
	core.ZoneBase
	half r3.Vec
}

// NewAABox creates a box with the given full dimensions.
func NewAABox(center, dimension r3.Vec) *AABox {
	b := &AABox{ZoneBase: core.NewZoneBase(center)}
	b.SetDimension(dimension)
	return b
}

// TypeName implements core.Object.
func (b *AABox) TypeName() string { return "AABox" }

// Dimension returns the full box size.
func (b *AABox) Dimension() r3.Vec { return r3.Scale(2, b.half) }

// SetDimension changes the full box size.
func (b *AABox) SetDimension(d r3.Vec) {
	b.half = r3.Vec{X: math.Abs(d.X) / 2, Y: math.Abs(d.Y) / 2, Z: math.Abs(d.Z) / 2}
}

// Clone implements core.Zone.
func (b *AABox) Clone() core.Zone {
	c := *b
	c.Base = b.Fresh()
	return &c
}

func axis(v r3.Vec, k int) float64 {
	switch k {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func unitAxis(k int, sign float64) r3.Vec {
	switch k {
	case 0:
		return r3.Vec{X: sign}
	case 1:
		return r3.Vec{Y: sign}
	}
	return r3.Vec{Z: sign}
}

func containsHalf(rel, half r3.Vec) bool {
	return math.Abs(rel.X) <= half.X && math.Abs(rel.Y) <= half.Y && math.Abs(rel.Z) <= half.Z
}

// Contains reports whether v lies within the box.
func (b *AABox) Contains(v r3.Vec, radius float64) bool {
	return containsHalf(r3.Sub(v, b.Position()), b.half)
}

// Intersects finds where v0→v1 crosses the box surface, grown by radius
// for particles coming from outside and shrunk by radius from inside.
func (b *AABox) Intersects(v0, v1 r3.Vec, radius float64) (r3.Vec, r3.Vec, bool) {
	c := b.Position()
	rel0 := r3.Sub(v0, c)
	outside := !containsHalf(rel0, b.half)
	offset := radius
	if !outside {
		offset = -radius
	}
	half := r3.Vec{
		X: math.Max(b.half.X+offset, 0),
		Y: math.Max(b.half.Y+offset, 0),
		Z: math.Max(b.half.Z+offset, 0),
	}

	d := r3.Sub(v1, v0)
	tEnter, tExit := math.Inf(-1), math.Inf(1)
	enterAxis, exitAxis := -1, -1
	var enterSign, exitSign float64
	for k := 0; k < 3; k++ {
		o, dk, h := axis(rel0, k), axis(d, k), axis(half, k)
		if dk == 0 {
			if o < -h || o > h {
				return r3.Vec{}, r3.Vec{}, false
			}
			continue
		}
		t1 := (-h - o) / dk
		t2 := (h - o) / dk
		sn, sf := -1.0, 1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sn, sf = 1, -1
		}
		if t1 > tEnter {
			tEnter, enterAxis, enterSign = t1, k, sn
		}
		if t2 < tExit {
			tExit, exitAxis, exitSign = t2, k, sf
		}
	}
	if tEnter > tExit {
		return r3.Vec{}, r3.Vec{}, false
	}
	if outside {
		if enterAxis < 0 || tEnter < 0 || tEnter > 1 {
			return r3.Vec{}, r3.Vec{}, false
		}
		return r3.Add(v0, r3.Scale(tEnter, d)), unitAxis(enterAxis, enterSign), true
	}
	if exitAxis < 0 || tExit < 0 || tExit > 1 {
		return r3.Vec{}, r3.Vec{}, false
	}
	return r3.Add(v0, r3.Scale(tExit, d)), unitAxis(exitAxis, -exitSign), true
}

// GeneratePosition draws uniformly inside the box or on its faces, faces
// weighted by area.
func (b *AABox) GeneratePosition(rng *rand.Rand, full bool, radius float64) r3.Vec {
	h := b.half
	p := r3.Vec{
		X: core.RandomRange(rng, -h.X, h.X),
		Y: core.RandomRange(rng, -h.Y, h.Y),
		Z: core.RandomRange(rng, -h.Z, h.Z),
	}
	if !full {
		areas := [3]float64{h.Y * h.Z, h.X * h.Z, h.X * h.Y}
		total := areas[0] + areas[1] + areas[2]
		k := 0
		if total > 0 {
			pick := rng.Float64() * total
			for k < 2 && pick >= areas[k] {
				pick -= areas[k]
				k++
			}
		}
		sign := 1.0
		if rng.Intn(2) == 0 {
			sign = -1
		}
		switch k {
		case 0:
			p.X = sign * h.X
		case 1:
			p.Y = sign * h.Y
		default:
			p.Z = sign * h.Z
		}
	}
	return r3.Add(b.Position(), p)
}

// Normal returns the outward normal of the face nearest to v.
func (b *AABox) Normal(v r3.Vec) r3.Vec {
	rel := r3.Sub(v, b.Position())
	best, bestAxis := math.Inf(-1), 1
	for k := 0; k < 3; k++ {
		gap := math.Abs(axis(rel, k)) - axis(b.half, k)
		if gap > best {
			best, bestAxis = gap, k
		}
	}
	sign := 1.0
	if axis(rel, bestAxis) < 0 {
		sign = -1
	}
	return unitAxis(bestAxis, sign)
}

// Distance returns the distance from v to the box surface.
func (b *AABox) Distance(v r3.Vec) float64 {
	rel := r3.Sub(v, b.Position())
	if containsHalf(rel, b.half) {
		return math.Min(b.half.X-math.Abs(rel.X), math.Min(b.half.Y-math.Abs(rel.Y), b.half.Z-math.Abs(rel.Z)))
	}
	out := r3.Vec{
		X: math.Max(math.Abs(rel.X)-b.half.X, 0),
		Y: math.Max(math.Abs(rel.Y)-b.half.Y, 0),
		Z: math.Max(math.Abs(rel.Z)-b.half.Z, 0),
	}
	return r3.Norm(out)
}
