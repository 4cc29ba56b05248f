// Package starfield generates the procedural star datasets of the galaxy scene:
// the spiral disk, spherical blink shells and decorative background galaxies.
//
// Generation never fails. Out of range parameters are clamped.
package starfield

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"galaxy-explorer/internal/tween"
)

// Source is the uniform random source used by a Generator. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// Level thresholds in percent, rarest last.
var (
	levelThresholds = [...]float64{3000.0 / 210, 1200.0 / 210, 210.0 / 210, 21.0 / 210}
	debugThresholds = [...]float64{60, 40, 20, 10}
)

type Generator struct {
	rng         Source
	debugLevels bool
	nextID      int
}

type Option func(*Generator)

// WithDebugLevels widens the level thresholds so rare stars are common.
func WithDebugLevels(enabled bool) Option {
	return func(g *Generator) {
		g.debugLevels = enabled
	}
}

func NewGenerator(rng Source, opts ...Option) *Generator {
	g := &Generator{rng: rng}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DiskStars generates a spiral disk population. With a nil palette colors
// come from the per-level table and stars carry big star colors; blink may be
// nil for static stars. Ids restart at zero on every call.
func (g *Generator) DiskStars(params DiskParams, xScale, zScale float64, palette Palette, blink *BlinkParams) []Star {
	p := params.Normalize()
	g.nextID = 0

	stars := make([]Star, p.StarsCount)
	dAngle := p.EndAngle - p.StartAngle
	armDelta := 2 * math.Pi / NumArms

	for i := range stars {
		progress := math.Pow(g.rng.Float64(), 3)
		angle := p.StartAngle + progress*dAngle
		r := p.K * angle

		armID := g.randInt(0, NumArms-1)
		armAngle := angle + float64(armID)*armDelta
		if armID == 1 {
			armAngle += armOnePerturbation
		}

		px := r * math.Cos(armAngle)
		py := r * math.Sin(armAngle)

		offset := g.randomDirection()
		offsetXY := (p.StartOffsetXY + progress*(p.EndOffsetXY-p.StartOffsetXY)) * 0.05
		offset.X *= offsetXY * g.randRange(-1, 1)
		offset.Z *= offsetXY * g.randRange(-1, 1)
		px += offset.X
		py += offset.Z

		offsetH := (p.StartOffsetH + progress*(p.EndOffsetH-p.StartOffsetH)) * math.Pow(offset.Y, 3)

		id := g.takeID()
		level := g.level()

		var color RGB
		var bigStar *BigStarColor
		if len(palette) > 0 {
			color = palette[g.randInt(0, len(palette)-1)]
		} else {
			set := StarLevelColors[level]
			idx := 0
			if len(set.GalaxyStar) > 1 {
				idx = g.randInt(0, len(set.GalaxyStar)-1)
			}
			color = set.GalaxyStar[idx]
			if idx < len(set.BigStar) {
				c := set.BigStar[idx]
				bigStar = &c
			}
		}

		slots := planetSlotRanges[level]
		energy := energyRanges[level]
		planetSlots := g.randInt(slots.min, slots.max)
		energyValue := g.randInt(energy.min, energy.max)
		life := g.randInt(0, 100)
		race := g.randInt(0, len(Races)-1)

		stars[i] = Star{
			ID:    id,
			Pos:   Vec3{X: px * xScale, Y: offsetH, Z: py * zScale},
			Color: RGBA{R: color.R, G: color.G, B: color.B, A: g.randRange(p.AlphaMin, p.AlphaMax)},
			Scale: g.randRange(p.ScaleMin, p.ScaleMax),
			StarInfo: &StarInfo{
				Name:        fmt.Sprintf("Star %d", id),
				Description: fmt.Sprintf("Star %d description", id),
				Level:       level,
				RaceID:      race,
				PlanetSlots: planetSlots,
				Energy:      energyValue,
				Life:        life,
				BigStar:     BigStar{StarSize: BigStarSize, Color: bigStar},
			},
		}

		if blink != nil {
			stars[i].Blink = g.blink(*blink)
		}
	}

	return stars
}

// ShellStars scatters stars inside the spherical shell [MinRadius, MaxRadius].
func (g *Generator) ShellStars(params ShellParams, palette Palette, blink *BlinkParams) []Star {
	p := params.Normalize()
	if len(palette) == 0 {
		palette = FarStarColors
	}
	g.nextID = 0

	stars := make([]Star, p.StarsCount)
	for i := range stars {
		dir := r3.Vector{X: g.rng.Float64() - 0.5, Y: g.rng.Float64() - 0.5, Z: g.rng.Float64() - 0.5}.Normalize()
		pos := dir.Mul(g.randRange(p.MinRadius, p.MaxRadius))
		color := palette[g.randInt(0, len(palette)-1)]

		stars[i] = Star{
			ID:    g.takeID(),
			Pos:   FromR3(pos),
			Color: RGBA{R: color.R, G: color.G, B: color.B, A: g.randRange(p.AlphaMin, p.AlphaMax)},
			Scale: g.randRange(p.ScaleMin, p.ScaleMax),
		}
		if blink != nil {
			stars[i].Blink = g.blink(*blink)
		}
	}
	return stars
}

// FarGalaxies places decorative galaxies on one shared shell. Every placement
// retries up to MaxAttempts times to stay farther than the shell radius from
// the galaxies already placed, then accepts the last candidate.
func (g *Generator) FarGalaxies(params FarGalaxyParams) []FarGalaxy {
	p := params.Normalize()
	radius := g.randRange(p.RadiusMin, p.RadiusMax)

	ids := make([]int, p.SpriteCount-1)
	for i := range ids {
		ids[i] = i
	}
	g.shuffle(ids, p.ShufflePasses)

	galaxies := make([]FarGalaxy, 0, p.Count)
	placed := make([]r3.Vector, 0, p.Count)
	k := 0

	for i := 0; i < p.Count; i++ {
		if k >= len(ids) {
			k = 0
		}
		texture := fmt.Sprintf("galaxy_%02d", ids[k]+1)
		k++

		size := g.randRange(p.SizeMin, p.SizeMax)
		alpha := g.randRange(p.AlphaMin, p.AlphaMax)
		pos, _ := g.placeOnShell(placed, radius, p.MaxAttempts)
		placed = append(placed, pos)

		dir := g.randomCubeDirection().Mul(radius / 2)

		galaxies = append(galaxies, FarGalaxy{
			TextureName:   texture,
			Pos:           FromR3(pos),
			Size:          size,
			Alpha:         alpha,
			Dir:           FromR3(dir),
			RotationSpeed: g.randRange(p.RotationSpeedMin, p.RotationSpeedMax),
		})
	}
	return galaxies
}

// placeOnShell returns a shell position and the number of candidates drawn.
func (g *Generator) placeOnShell(placed []r3.Vector, radius float64, maxAttempts int) (r3.Vector, int) {
	var pos r3.Vector
	for attempt := 1; ; attempt++ {
		pos = g.randomCubeDirection().Mul(radius)
		free := true
		for _, other := range placed {
			if other.Distance(pos) <= radius {
				free = false
				break
			}
		}
		if free || attempt >= maxAttempts {
			return pos, attempt
		}
	}
}

func (g *Generator) level() int {
	thresholds := levelThresholds
	if g.debugLevels {
		thresholds = debugThresholds
	}
	roll := g.randRange(0, 100)
	level := 1
	for i, t := range thresholds {
		if roll <= t {
			level = i + 2
		}
	}
	return level
}

func (g *Generator) blink(p BlinkParams) *Blink {
	p = p.Normalize()
	dur := g.randRange(p.DurationMin, p.DurationMax)
	return &Blink{
		IsFade:       g.rng.Float64() > 0.5,
		Duration:     dur,
		ProgressTime: g.randRange(0, dur),
		Easing:       tween.EaseSineInOut,
	}
}

func (g *Generator) takeID() int {
	id := g.nextID
	g.nextID++
	return id
}

// randomDirection samples a unit vector uniformly on the sphere.
func (g *Generator) randomDirection() r3.Vector {
	u := (g.rng.Float64() - 0.5) * 2
	t := g.rng.Float64() * math.Pi * 2
	f := math.Sqrt(1 - u*u)
	return r3.Vector{X: f * math.Cos(t), Y: u, Z: f * math.Sin(t)}
}

func (g *Generator) randomCubeDirection() r3.Vector {
	for {
		v := r3.Vector{X: g.randRange(-10, 10), Y: g.randRange(-10, 10), Z: g.randRange(-10, 10)}
		if v.Norm() > 0 {
			return v.Normalize()
		}
	}
}

func (g *Generator) shuffle(ids []int, passes int) {
	for pass := 0; pass < passes; pass++ {
		for i := len(ids) - 1; i > 0; i-- {
			j := g.randInt(0, i)
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
}

func (g *Generator) randRange(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// randInt returns an integer in [lo, hi].
func (g *Generator) randInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return min(lo+int(math.Floor(g.rng.Float64()*float64(hi-lo+1))), hi)
}
