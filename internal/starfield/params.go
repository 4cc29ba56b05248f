package starfield

import "math"

const (
	// DiskScale converts spiral units into scene units on both disk axes.
	DiskScale = 145.0

	NumArms = 5

	// armOnePerturbation is added to the angle of arm #1 only.
	armOnePerturbation = 0.2

	BigStarSize = 30.0
)

// DiskParams shape the spiral disk. Zero values take the defaults applied by
// Normalize, so a partially filled value is valid input.
type DiskParams struct {
	StarsCount    int     `json:"starsCount" toml:"stars_count"`
	StartAngle    float64 `json:"startAngle" toml:"start_angle"`
	EndAngle      float64 `json:"endAngle" toml:"end_angle"`
	StartOffsetXY float64 `json:"startOffsetXY" toml:"start_offset_xy"`
	EndOffsetXY   float64 `json:"endOffsetXY" toml:"end_offset_xy"`
	StartOffsetH  float64 `json:"startOffsetH" toml:"start_offset_h"`
	EndOffsetH    float64 `json:"endOffsetH" toml:"end_offset_h"`
	K             float64 `json:"k" toml:"k"`
	AlphaMin      float64 `json:"alphaMin" toml:"alpha_min"`
	AlphaMax      float64 `json:"alphaMax" toml:"alpha_max"`
	ScaleMin      float64 `json:"scaleMin" toml:"scale_min"`
	ScaleMax      float64 `json:"scaleMax" toml:"scale_max"`
}

// Normalize fills unset fields and clamps inverted ranges.
func (p DiskParams) Normalize() DiskParams {
	if p.StarsCount < 0 {
		p.StarsCount = 0
	}
	if p.EndAngle == 0 {
		p.EndAngle = math.Pi
	}
	if p.K == 0 {
		p.K = 0.3
	}
	p.AlphaMin, p.AlphaMax = normalizeAlpha(p.AlphaMin, p.AlphaMax)
	p.ScaleMin, p.ScaleMax = normalizeScale(p.ScaleMin, p.ScaleMax)
	if p.StartAngle > p.EndAngle {
		p.StartAngle = p.EndAngle
	}
	return p
}

// ShellParams describe a spherical shell of stars.
type ShellParams struct {
	StarsCount int     `json:"starsCount" toml:"stars_count"`
	MinRadius  float64 `json:"minRadius" toml:"min_radius"`
	MaxRadius  float64 `json:"maxRadius" toml:"max_radius"`
	AlphaMin   float64 `json:"alphaMin" toml:"alpha_min"`
	AlphaMax   float64 `json:"alphaMax" toml:"alpha_max"`
	ScaleMin   float64 `json:"scaleMin" toml:"scale_min"`
	ScaleMax   float64 `json:"scaleMax" toml:"scale_max"`
}

func (p ShellParams) Normalize() ShellParams {
	if p.StarsCount < 0 {
		p.StarsCount = 0
	}
	if p.MinRadius < 0 {
		p.MinRadius = 0
	}
	if p.MaxRadius < 0 {
		p.MaxRadius = 0
	}
	p.AlphaMin, p.AlphaMax = normalizeAlpha(p.AlphaMin, p.AlphaMax)
	p.ScaleMin, p.ScaleMax = normalizeScale(p.ScaleMin, p.ScaleMax)
	if p.MinRadius > p.MaxRadius {
		p.MinRadius = p.MaxRadius
	}
	return p
}

type BlinkParams struct {
	DurationMin float64 `json:"durationMin" toml:"duration_min"`
	DurationMax float64 `json:"durationMax" toml:"duration_max"`
}

func (p BlinkParams) Normalize() BlinkParams {
	if p.DurationMin <= 0 {
		p.DurationMin = 1
	}
	if p.DurationMax <= 0 {
		p.DurationMax = p.DurationMin
	}
	if p.DurationMin > p.DurationMax {
		p.DurationMin = p.DurationMax
	}
	return p
}

// FarGalaxyParams control decorative background galaxy placement.
type FarGalaxyParams struct {
	Count            int     `json:"count" toml:"count"`
	RadiusMin        float64 `json:"radiusMin" toml:"radius_min"`
	RadiusMax        float64 `json:"radiusMax" toml:"radius_max"`
	SizeMin          float64 `json:"sizeMin" toml:"size_min"`
	SizeMax          float64 `json:"sizeMax" toml:"size_max"`
	AlphaMin         float64 `json:"alphaMin" toml:"alpha_min"`
	AlphaMax         float64 `json:"alphaMax" toml:"alpha_max"`
	RotationSpeedMin float64 `json:"rotationSpeedMin" toml:"rotation_speed_min"`
	RotationSpeedMax float64 `json:"rotationSpeedMax" toml:"rotation_speed_max"`
	SpriteCount      int     `json:"spriteCount" toml:"sprite_count"`
	ShufflePasses    int     `json:"shufflePasses" toml:"shuffle_passes"`
	MaxAttempts      int     `json:"maxAttempts" toml:"max_attempts"`
}

func DefaultFarGalaxyParams() FarGalaxyParams {
	return FarGalaxyParams{
		Count:            5,
		RadiusMin:        3000,
		RadiusMax:        5000,
		SizeMin:          1000,
		SizeMax:          2000,
		AlphaMin:         0.5,
		AlphaMax:         0.6,
		RotationSpeedMin: 0.01,
		RotationSpeedMax: 0.03,
		SpriteCount:      5,
		ShufflePasses:    4,
		MaxAttempts:      1000,
	}
}

func (p FarGalaxyParams) Normalize() FarGalaxyParams {
	d := DefaultFarGalaxyParams()
	if p.Count < 0 {
		p.Count = 0
	}
	if p.SpriteCount < 2 {
		p.SpriteCount = d.SpriteCount
	}
	if p.ShufflePasses <= 0 {
		p.ShufflePasses = d.ShufflePasses
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.RadiusMin > p.RadiusMax {
		p.RadiusMin = p.RadiusMax
	}
	if p.SizeMin > p.SizeMax {
		p.SizeMin = p.SizeMax
	}
	p.AlphaMin, p.AlphaMax = normalizeAlpha(p.AlphaMin, p.AlphaMax)
	if p.RotationSpeedMin > p.RotationSpeedMax {
		p.RotationSpeedMin = p.RotationSpeedMax
	}
	return p
}

// GalaxySettings is the generator configuration persisted with a layout.
type GalaxySettings struct {
	StarsCount      int     `json:"starsCount" toml:"stars_count"`
	BlinkStarsCount int     `json:"blinkStarsCount" toml:"blink_stars_count"`
	BlinkDurMin     float64 `json:"blinkDurMin" toml:"blink_dur_min"`
	BlinkDurMax     float64 `json:"blinkDurMax" toml:"blink_dur_max"`
	StartAngle      float64 `json:"startAngle" toml:"start_angle"`
	EndAngle        float64 `json:"endAngle" toml:"end_angle"`
	StartOffsetXY   float64 `json:"startOffsetXY" toml:"start_offset_xy"`
	EndOffsetXY     float64 `json:"endOffsetXY" toml:"end_offset_xy"`
	StartOffsetH    float64 `json:"startOffsetH" toml:"start_offset_h"`
	EndOffsetH      float64 `json:"endOffsetH" toml:"end_offset_h"`
	K               float64 `json:"k" toml:"k"`
	AlphaMin        float64 `json:"alphaMin" toml:"alpha_min"`
	AlphaMax        float64 `json:"alphaMax" toml:"alpha_max"`
	ScaleMin        float64 `json:"scaleMin" toml:"scale_min"`
	ScaleMax        float64 `json:"scaleMax" toml:"scale_max"`
}

func DefaultGalaxySettings() GalaxySettings {
	return GalaxySettings{
		StarsCount:      3000,
		BlinkStarsCount: 1000,
		BlinkDurMin:     1,
		BlinkDurMax:     2,
		StartAngle:      0.7,
		EndAngle:        3.6,
		StartOffsetXY:   2.2,
		EndOffsetXY:     0.8,
		StartOffsetH:    4,
		EndOffsetH:      1,
		K:               0.3,
		AlphaMin:        1,
		AlphaMax:        1,
		ScaleMin:        1,
		ScaleMax:        1,
	}
}

func (s GalaxySettings) disk(count int) DiskParams {
	return DiskParams{
		StarsCount:    count,
		StartAngle:    s.StartAngle,
		EndAngle:      s.EndAngle,
		StartOffsetXY: s.StartOffsetXY,
		EndOffsetXY:   s.EndOffsetXY,
		StartOffsetH:  s.StartOffsetH,
		EndOffsetH:    s.EndOffsetH,
		K:             s.K,
		AlphaMin:      s.AlphaMin,
		AlphaMax:      s.AlphaMax,
		ScaleMin:      s.ScaleMin,
		ScaleMax:      s.ScaleMax,
	}
}

func (s GalaxySettings) Disk() DiskParams      { return s.disk(s.StarsCount) }
func (s GalaxySettings) BlinkDisk() DiskParams { return s.disk(s.BlinkStarsCount) }

func (s GalaxySettings) Blink() BlinkParams {
	return BlinkParams{DurationMin: s.BlinkDurMin, DurationMax: s.BlinkDurMax}
}

// CoronaShell is the blink shell shown around a focused solar system.
func (s GalaxySettings) CoronaShell() ShellParams {
	return ShellParams{
		StarsCount: 400,
		MinRadius:  180,
		MaxRadius:  200,
		AlphaMin:   s.AlphaMin,
		AlphaMax:   s.AlphaMax,
		ScaleMin:   s.ScaleMin,
		ScaleMax:   s.ScaleMax,
	}
}

// SkySettings configure the far star sky and background galaxies.
type SkySettings struct {
	StarsCount      int     `json:"starsCount" toml:"stars_count"`
	RadiusMin       float64 `json:"radiusMin" toml:"radius_min"`
	RadiusMax       float64 `json:"radiusMax" toml:"radius_max"`
	ScaleMin        float64 `json:"scaleMin" toml:"scale_min"`
	ScaleMax        float64 `json:"scaleMax" toml:"scale_max"`
	GalaxiesCount   int     `json:"galaxiesCount" toml:"galaxies_count"`
	GalaxiesSizeMin float64 `json:"galaxiesSizeMin" toml:"galaxies_size_min"`
	GalaxiesSizeMax float64 `json:"galaxiesSizeMax" toml:"galaxies_size_max"`
}

func DefaultSkySettings() SkySettings {
	return SkySettings{
		StarsCount:      500,
		RadiusMin:       30,
		RadiusMax:       1000,
		ScaleMin:        3,
		ScaleMax:        30,
		GalaxiesCount:   5,
		GalaxiesSizeMin: 1000,
		GalaxiesSizeMax: 2000,
	}
}

func (s SkySettings) Shell() ShellParams {
	return ShellParams{
		StarsCount: s.StarsCount,
		MinRadius:  s.RadiusMin,
		MaxRadius:  s.RadiusMax,
		ScaleMin:   s.ScaleMin,
		ScaleMax:   s.ScaleMax,
	}
}

func (s SkySettings) FarGalaxies() FarGalaxyParams {
	p := DefaultFarGalaxyParams()
	p.Count = s.GalaxiesCount
	p.SizeMin = s.GalaxiesSizeMin
	p.SizeMax = s.GalaxiesSizeMax
	return p
}

func normalizeAlpha(lo, hi float64) (float64, float64) {
	if lo == 0 {
		lo = 1
	}
	if hi == 0 {
		hi = 1
	}
	lo, hi = clamp01(lo), clamp01(hi)
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

func normalizeScale(lo, hi float64) (float64, float64) {
	if lo <= 0 {
		lo = 1
	}
	if hi <= 0 {
		hi = 1
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
