// Package camera provides an orbit camera projecting world space onto
// the viewport.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	near     = 0.01
	maxPitch = math.Pi/2 - 0.01
)

var worldUp = r3.Vec{Y: 1}

// Camera orbits a target point. Yaw 0 and pitch 0 look down -Z from
// +Z with +Y up.
type Camera struct {
	// Target is the orbit center in world coordinates
	Target r3.Vec

	// Orientation around the target, radians
	Yaw, Pitch float64

	// Distance from eye to target
	Distance float64

	// Vertical field of view, radians
	FOV float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Distance constraints
	MinDistance, MaxDistance float64

	home Camera
}

// New creates a camera looking at target from distance along +Z.
func New(viewportW, viewportH float64, target r3.Vec, distance float64) *Camera {
	c := &Camera{
		Target:      target,
		Distance:    distance,
		FOV:         math.Pi / 3,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: distance / 20,
		MaxDistance: distance * 20,
	}
	c.home = *c
	return c
}

// Eye returns the camera position in world coordinates.
func (c *Camera) Eye() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: cp * math.Sin(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: cp * math.Cos(c.Yaw),
	}
	return r3.Add(c.Target, r3.Scale(c.Distance, offset))
}

// basis returns the camera forward, right and up vectors.
func (c *Camera) basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Eye()))
	right = r3.Unit(r3.Cross(forward, worldUp))
	up = r3.Cross(right, forward)
	return forward, right, up
}

// Axes returns the screen-right and screen-up directions in world space.
func (c *Camera) Axes() (right, up r3.Vec) {
	_, right, up = c.basis()
	return right, up
}

// focal returns the pixels per world unit at unit depth.
func (c *Camera) focal() float64 {
	return (c.ViewportH / 2) / math.Tan(c.FOV/2)
}

// WorldToScreen projects v. Returns the screen position, the depth along
// the view axis and whether the point is in front of the camera.
func (c *Camera) WorldToScreen(v r3.Vec) (sx, sy, depth float64, ok bool) {
	forward, right, up := c.basis()
	d := r3.Sub(v, c.Eye())
	depth = r3.Dot(d, forward)
	if depth < near {
		return 0, 0, depth, false
	}
	f := c.focal() / depth
	sx = c.ViewportW/2 + r3.Dot(d, right)*f
	sy = c.ViewportH/2 - r3.Dot(d, up)*f
	return sx, sy, depth, true
}

// PixelScale returns how many pixels a world unit spans at depth.
func (c *Camera) PixelScale(depth float64) float64 {
	if depth < near {
		depth = near
	}
	return c.focal() / depth
}

// IsVisible returns true if a sphere at v with given radius could be
// visible on screen (conservative check for culling).
func (c *Camera) IsVisible(v r3.Vec, radius float64) bool {
	sx, sy, depth, ok := c.WorldToScreen(v)
	if !ok {
		return depth+radius >= near
	}
	margin := radius * c.PixelScale(depth)
	return sx >= -margin && sx <= c.ViewportW+margin && sy >= -margin && sy <= c.ViewportH+margin
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Orbit rotates the eye around the target. Pitch stays short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Pan moves the target by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	_, right, up := c.basis()
	s := 1 / c.PixelScale(c.Distance)
	c.Target = r3.Add(c.Target, r3.Add(r3.Scale(-dx*s, right), r3.Scale(dy*s, up)))
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy moves the eye closer by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// SetHome makes the current position and zoom the one Reset returns to.
func (c *Camera) SetHome() {
	c.home = *c
	c.home.home = Camera{}
}

// Reset returns the camera to its home position and zoom, keeping the
// current viewport.
func (c *Camera) Reset() {
	w, h := c.ViewportW, c.ViewportH
	home := c.home
	*c = home
	c.home = home
	c.Resize(w, h)
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
