package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// Per-frame overview visuals. Each value is a function of the current camera
// only; nothing here carries state between frames.

const (
	GalaxyCenterScale  = 150.0
	GalaxyCenterScale2 = 150.0 * 0.8

	planeFadeDistMin = 50.0
	planeFadeDistMax = 150.0

	centerSpriteMinScale  = 0.1
	centerSprite2MinScale = 0.3

	starsMinAlpha = 0.5
)

func foldPolar(polar float64) float64 {
	if polar < math.Pi/2 {
		return polar
	}
	return math.Abs(polar - math.Pi)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// angleFactor is 1 looking straight down on the disk and 0 edge-on.
func angleFactor(absPolar float64) float64 {
	return 1 - absPolar/(math.Pi/2)
}

// PlaneOpacity fades the galaxy plane out when the camera is close to the
// target or looks at the disk edge-on.
func PlaneOpacity(camDist, absPolar float64) float64 {
	span := planeFadeDistMax - planeFadeDistMin
	distAlpha := clamp(camDist-planeFadeDistMin, 0, span) / span
	return math.Min(distAlpha, angleFactor(absPolar))
}

// CenterSpriteScaleY flattens a center glow sprite as the view tilts edge-on.
func CenterSpriteScaleY(base, minFactor, absPolar float64) float64 {
	return base * (minFactor + (1-minFactor)*angleFactor(absPolar))
}

func StarsAlpha(absPolar float64) float64 {
	return starsMinAlpha + angleFactor(absPolar)*(1-starsMinAlpha)
}

// LookPoint is the picking center: the camera position projected on the disk
// and pulled back towards the origin by offset.
func LookPoint(camera r3.Vector, offset float64) r3.Vector {
	flat := r3.Vector{X: camera.X, Z: camera.Z}
	if flat.Norm2() == 0 {
		return flat
	}
	return flat.Normalize().Mul(-offset).Add(flat)
}

// FocusDistance is the camera distance to a focused star for a viewport.
func FocusDistance(vp Viewport) float64 {
	h := vp.Height
	if !vp.Desktop && !vp.Fullscreen {
		h += 104
	}
	if vp.Width <= 0 || h <= 0 {
		return 40
	}
	aspect := vp.Width / h
	d := vp.Height / (20 * aspect)
	return clamp(d*(0.6/(vp.Width/800)), 40, 50)
}

// PanelScale sizes the star panel relative to an 800px reference.
func PanelScale(vp Viewport) float64 {
	return math.Min(vp.Width/800, vp.Height/800)
}
