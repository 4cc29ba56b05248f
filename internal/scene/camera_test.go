package scene

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

func testCamera() *OrbitCamera {
	return &OrbitCamera{
		Position:      r3.Vector{Z: 100},
		Enabled:       true,
		EnableZoom:    true,
		EnablePan:     true,
		MinDistance:   40,
		MaxDistance:   250,
		MinPolarAngle: degToRad(10),
		MaxPolarAngle: degToRad(170),
		PanRadius:     160,
		PanHeight:     10,
		FOV:           45,
	}
}

func TestCameraSpherical(t *testing.T) {
	c := testCamera()
	r, polar, azimuth := c.Spherical()
	assert.InDelta(t, 100, r, 1e-9)
	assert.InDelta(t, math.Pi/2, polar, 1e-9)
	assert.InDelta(t, 0, azimuth, 1e-9)

	c.Position = r3.Vector{Y: -50}
	assert.InDelta(t, math.Pi, c.PolarAngle(), 1e-9)
	assert.InDelta(t, 0, c.AbsPolarAngle(), 1e-9)
}

func TestCameraClampsDistanceAndPolar(t *testing.T) {
	c := testCamera()
	c.Zoom(10)
	c.Update(0)
	assert.InDelta(t, 250, c.Distance(), 1e-9)

	c.Zoom(0.01)
	c.Update(0)
	assert.InDelta(t, 40, c.Distance(), 1e-9)

	c.Rotate(0, -10)
	c.Update(0)
	assert.InDelta(t, degToRad(10), c.PolarAngle(), 1e-9)
	assert.True(t, c.IsRotating())

	c.Update(0)
	assert.False(t, c.IsRotating())
}

func TestCameraZoomDisabled(t *testing.T) {
	c := testCamera()
	c.EnableZoom = false
	c.Zoom(2)
	c.Update(0)
	assert.InDelta(t, 100, c.Distance(), 1e-9)
}

func TestCameraPanIsBounded(t *testing.T) {
	c := testCamera()
	c.Pan(r3.Vector{X: 500, Y: 50})
	c.Update(0)
	assert.InDelta(t, 160, c.Target.X, 1e-9)
	assert.InDelta(t, 10, c.Target.Y, 1e-9)
	assert.InDelta(t, 100, c.Distance(), 1e-9)
}

func TestDisabledCameraDropsInput(t *testing.T) {
	c := testCamera()
	c.Enabled = false
	c.Rotate(1, 0)
	c.Zoom(2)
	c.Update(1)

	c.Enabled = true
	c.Update(0)
	assert.InDelta(t, 100, c.Distance(), 1e-9)
	assert.InDelta(t, 0, c.AzimuthalAngle(), 1e-9)
}

func TestCameraAutoRotate(t *testing.T) {
	c := testCamera()
	c.AutoRotate = true
	c.AutoRotateSpeed = 1
	c.Update(60)
	// One full turn per minute at speed 1.
	assert.InDelta(t, 0, math.Sin(c.AzimuthalAngle()), 1e-9)
	assert.False(t, c.IsRotating())
}

func TestCameraRayThroughCenter(t *testing.T) {
	c := testCamera()
	origin, dir := c.Ray(0, 0, 1.5)
	assert.Equal(t, c.Position, origin)
	assert.InDelta(t, -1, dir.Z, 1e-9)

	_, right := c.Ray(1, 0, 1)
	assert.Greater(t, right.X, 0.0)
}

func TestPlaneOpacity(t *testing.T) {
	assert.InDelta(t, 0.5, PlaneOpacity(100, 0), 1e-9)
	assert.InDelta(t, 1, PlaneOpacity(400, 0), 1e-9)
	assert.InDelta(t, 0, PlaneOpacity(20, 0), 1e-9)
	assert.InDelta(t, 0, PlaneOpacity(400, math.Pi/2), 1e-9)
	assert.InDelta(t, 0.5, PlaneOpacity(400, math.Pi/4), 1e-9)
}

func TestCenterSpriteAndStarsAlpha(t *testing.T) {
	assert.InDelta(t, 150, CenterSpriteScaleY(150, 0.1, 0), 1e-9)
	assert.InDelta(t, 15, CenterSpriteScaleY(150, 0.1, math.Pi/2), 1e-9)
	assert.InDelta(t, 1, StarsAlpha(0), 1e-9)
	assert.InDelta(t, 0.5, StarsAlpha(math.Pi/2), 1e-9)
}

func TestLookPoint(t *testing.T) {
	p := LookPoint(r3.Vector{X: 100, Y: 50}, 30)
	assert.InDelta(t, 70, p.X, 1e-9)
	assert.Zero(t, p.Y)
	assert.Equal(t, r3.Vector{}, LookPoint(r3.Vector{Y: 80}, 30))
}

func TestFocusDistanceAndPanelScale(t *testing.T) {
	assert.InDelta(t, 40, FocusDistance(Viewport{Width: 1600, Height: 900, Desktop: true}), 1e-9)
	assert.InDelta(t, 50, FocusDistance(Viewport{Width: 300, Height: 900}), 1e-9)
	assert.InDelta(t, 1.125, PanelScale(Viewport{Width: 1600, Height: 900}), 1e-9)
}

func TestViewportNDC(t *testing.T) {
	vp := Viewport{Width: 200, Height: 100}
	x, y := vp.NDC(0, 0)
	assert.Equal(t, -1.0, x)
	assert.Equal(t, 1.0, y)
	x, y = vp.NDC(100, 50)
	assert.Zero(t, x)
	assert.Zero(t, y)
}
