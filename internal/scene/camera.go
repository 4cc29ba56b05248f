package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

var worldUp = r3.Vector{Y: 1}

// OrbitCamera orbits a target point. Polar angles are measured from +Y and
// azimuth around Y starting at +Z.
type OrbitCamera struct {
	Position r3.Vector
	Target   r3.Vector

	Enabled         bool
	AutoRotate      bool
	EnableZoom      bool
	EnablePan       bool
	AutoRotateSpeed float64
	MinDistance     float64
	MaxDistance     float64
	MinPolarAngle   float64
	MaxPolarAngle   float64
	PanRadius       float64
	// PanHeight bounds the target height while panning.
	PanHeight float64
	// FOV is the vertical field of view in degrees.
	FOV float64

	pendingAzimuth float64
	pendingPolar   float64
	pendingZoom    float64
	pendingPan     r3.Vector
	userRotating   bool
	rotating       bool
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// Spherical returns the camera offset from the target in spherical form.
func (c *OrbitCamera) Spherical() (radius, polar, azimuth float64) {
	off := c.Position.Sub(c.Target)
	radius = off.Norm()
	if radius == 0 {
		return 0, 0, 0
	}
	polar = math.Acos(math.Max(-1, math.Min(1, off.Y/radius)))
	azimuth = math.Atan2(off.X, off.Z)
	return radius, polar, azimuth
}

func (c *OrbitCamera) PolarAngle() float64 {
	_, p, _ := c.Spherical()
	return p
}

func (c *OrbitCamera) AzimuthalAngle() float64 {
	_, _, a := c.Spherical()
	return a
}

// AbsPolarAngle is the angle between the view direction and the galactic
// plane normal, folded into [0, pi/2].
func (c *OrbitCamera) AbsPolarAngle() float64 {
	return foldPolar(c.PolarAngle())
}

func (c *OrbitCamera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

func (c *OrbitCamera) setSpherical(radius, polar, azimuth float64) {
	s := math.Sin(polar)
	c.Position = c.Target.Add(r3.Vector{
		X: radius * s * math.Sin(azimuth),
		Y: radius * math.Cos(polar),
		Z: radius * s * math.Cos(azimuth),
	})
}

// Rotate queues a user rotation for the next Update.
func (c *OrbitCamera) Rotate(dAzimuth, dPolar float64) {
	c.pendingAzimuth += dAzimuth
	c.pendingPolar += dPolar
	c.userRotating = true
}

// Zoom queues a dolly. Factors above one move the camera away.
func (c *OrbitCamera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	if c.pendingZoom == 0 {
		c.pendingZoom = 1
	}
	c.pendingZoom *= factor
}

// Pan queues a target translation on the galactic plane.
func (c *OrbitCamera) Pan(delta r3.Vector) {
	c.pendingPan = c.pendingPan.Add(delta)
}

// StopMotion drops every queued user input.
func (c *OrbitCamera) StopMotion() {
	c.pendingAzimuth, c.pendingPolar, c.pendingZoom = 0, 0, 0
	c.pendingPan = r3.Vector{}
	c.userRotating = false
}

// IsRotating reports whether user rotation was applied by the last Update.
func (c *OrbitCamera) IsRotating() bool {
	return c.rotating
}

// Update applies queued input and auto rotation, then enforces the limits.
// A disabled camera discards queued input.
func (c *OrbitCamera) Update(dt float64) {
	c.rotating = false
	if !c.Enabled {
		c.StopMotion()
		return
	}

	radius, polar, azimuth := c.Spherical()
	if radius == 0 {
		c.StopMotion()
		return
	}

	if c.AutoRotate && !c.userRotating {
		azimuth += 2 * math.Pi / 60 * c.AutoRotateSpeed * dt
	}
	c.rotating = c.userRotating
	azimuth += c.pendingAzimuth
	polar += c.pendingPolar

	if c.EnableZoom && c.pendingZoom > 0 {
		radius *= c.pendingZoom
	}
	if c.MinDistance > 0 {
		radius = math.Max(radius, c.MinDistance)
	}
	if c.MaxDistance > 0 {
		radius = math.Min(radius, c.MaxDistance)
	}

	minPolar, maxPolar := c.MinPolarAngle, c.MaxPolarAngle
	if maxPolar <= minPolar {
		minPolar, maxPolar = 0, math.Pi
	}
	polar = math.Max(minPolar, math.Min(maxPolar, polar))
	polar = math.Max(1e-6, math.Min(math.Pi-1e-6, polar))

	if c.EnablePan && c.pendingPan.Norm2() > 0 {
		c.Target = c.clampTarget(c.Target.Add(c.pendingPan))
	}

	c.setSpherical(radius, polar, azimuth)
	c.StopMotion()
}

func (c *OrbitCamera) clampTarget(t r3.Vector) r3.Vector {
	flat := r3.Vector{X: t.X, Z: t.Z}
	if c.PanRadius > 0 && flat.Norm() > c.PanRadius {
		flat = flat.Normalize().Mul(c.PanRadius)
	}
	y := t.Y
	if c.PanHeight > 0 {
		y = math.Max(-c.PanHeight, math.Min(c.PanHeight, y))
	}
	return r3.Vector{X: flat.X, Y: y, Z: flat.Z}
}

// Ray returns the world space ray through a normalized device coordinate.
func (c *OrbitCamera) Ray(ndcX, ndcY, aspect float64) (origin, dir r3.Vector) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(worldUp)
	if right.Norm2() == 0 {
		right = r3.Vector{X: 1}
	}
	right = right.Normalize()
	up := right.Cross(forward)

	tanHalf := math.Tan(degToRad(c.FOV) / 2)
	dir = forward.
		Add(right.Mul(ndcX * tanHalf * aspect)).
		Add(up.Mul(ndcY * tanHalf)).
		Normalize()
	return c.Position, dir
}
