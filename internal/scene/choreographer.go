package scene

import (
	"github.com/golang/geo/r3"
	"github.com/tanema/gween/ease"

	"galaxy-explorer/internal/starfield"
	"galaxy-explorer/internal/tween"
)

const (
	introDuration = 3.0
	diveDuration  = 3.0

	bigStarStartScale = 20.0
	bigStarEndScale   = 100.0
	groupDiveScale    = 100.0
	smallGalaxyHidden = 0.01
	solarSystemHidden = 0.001
)

var (
	sineIn    = tween.ByName(tween.EaseSineIn)
	sineOut   = tween.ByName(tween.EaseSineOut)
	sineInOut = tween.ByName(tween.EaseSineInOut)
)

// AnimState is captured when a dive starts so the way back restores the
// overview exactly. It lives until the reverse transition finishes.
type AnimState struct {
	PlaneOpacity   float64
	CenterOpacity  [2]float64
	CenterScale    [2]r3.Vector
	CameraPosition r3.Vector
	StarPosition   r3.Vector
}

// Snapshot returns the saved pre-dive state while a star is focused.
func (c *Controller) Snapshot() (AnimState, bool) {
	if c.snapshot == nil {
		return AnimState{}, false
	}
	return *c.snapshot, true
}

type track struct {
	from, to float64
	duration float64
	delay    float64
	ease     ease.TweenFunc
	apply    func(float64)
	onStart  func()
	onDone   func()
	detached bool
}

// add schedules t in the state's tween group, or outside of it when detached
// so it may outlive the state.
func (c *Controller) add(t track) tween.Handle {
	spec := tween.Spec{
		From:       t.from,
		To:         t.to,
		Duration:   t.duration,
		Delay:      t.delay,
		Ease:       t.ease,
		OnStart:    t.onStart,
		OnUpdate:   t.apply,
		OnComplete: t.onDone,
	}
	if t.detached {
		h := c.tweens.Schedule(spec)
		c.lingering = append(c.lingering, h)
		return h
	}
	return c.stateTweens.Add(spec)
}

// addVec animates a vector property through a single scalar track.
func (c *Controller) addVec(from, to r3.Vector, t track, apply func(r3.Vector)) tween.Handle {
	t.from, t.to = 0, 1
	t.apply = func(k float64) {
		if k == 1 {
			apply(to)
			return
		}
		apply(from.Add(to.Sub(from).Mul(k)))
	}
	return c.add(t)
}

func (c *Controller) cancelLingering() {
	for _, h := range c.lingering {
		c.tweens.Cancel(h)
	}
	c.lingering = nil
}

func (c *Controller) playIntro() {
	c.addVec(introCameraStart, introCameraEnd, track{
		duration: introDuration,
		ease:     sineInOut,
		onDone:   func() { c.camera.MaxDistance = c.cfg.CamDistMax },
	}, func(v r3.Vector) { c.camera.Position = v })
}

// playDiveIn schedules every track of the flight into star.
func (c *Controller) playDiveIn(star *starfield.Star) {
	const dur = diveDuration
	starPos := star.Pos.R3()

	c.destroyTransient()
	c.snapshot = &AnimState{
		PlaneOpacity:   c.vis.planeOpacity,
		CenterOpacity:  c.vis.centerOpacity,
		CenterScale:    c.vis.centerScale,
		CameraPosition: c.camera.Position,
		StarPosition:   starPos,
	}

	// Solar system corona.
	c.r.SetPosition(c.obj.corona, starPos)
	c.r.SetVisible(c.obj.corona, false)
	c.setCoronaScale(0.1)
	c.setCoronaAlpha(0)
	c.add(track{from: 0.1, to: 1, delay: dur * 2 / 10, duration: dur, ease: sineInOut,
		apply:   c.setCoronaScale,
		onStart: func() { c.r.SetVisible(c.obj.corona, true) },
	})
	c.add(track{from: 0, to: 1, delay: dur * 6 / 10, duration: dur * 0.8, ease: sineInOut, apply: c.setCoronaAlpha})

	// Big star flare.
	c.vis.bigStarScale = r3.Vector{X: bigStarStartScale, Y: bigStarStartScale, Z: bigStarStartScale}
	c.vis.bigStarOpacity = 1
	c.obj.bigStar = c.r.CreateSprite(0, SpriteSpec{
		Name:     "bigStar",
		Texture:  "star4_512",
		Position: starPos,
		Scale:    c.vis.bigStarScale,
		Color:    starfield.RGB{R: star.Color.R, G: star.Color.G, B: star.Color.B},
		Opacity:  1,
		Additive: true,
	})
	c.addVec(c.vis.bigStarScale, r3.Vector{X: bigStarEndScale, Y: bigStarEndScale, Z: bigStarStartScale},
		track{duration: dur, ease: sineInOut}, c.setBigStarScale)
	c.add(track{from: 1, to: 0, delay: 3 * dur / 5, duration: 2 * dur / 5, ease: sineInOut, apply: c.setBigStarOpacity})

	if c.markers != nil {
		c.markers.Fade(c.stateTweens, 0, 0, dur/10)
	}

	// Overview plane and center glow.
	c.add(track{from: c.vis.planeOpacity, to: 0, duration: dur / 1.5, ease: sineIn,
		apply:  c.setPlaneOpacity,
		onDone: func() { c.r.SetVisible(c.obj.plane, false) },
	})
	for i := range c.obj.center {
		c.add(track{from: c.vis.centerOpacity[i], to: 0.2, duration: dur, ease: sineIn,
			apply: func(v float64) { c.setCenterOpacity(i, v) },
		})
		from := c.vis.centerScale[i]
		to := r3.Vector{X: GalaxyCenterScale * 0.5, Y: GalaxyCenterScale * 0.1, Z: from.Z}
		c.addVec(from, to, track{duration: dur, ease: sineIn}, func(v r3.Vector) { c.setCenterScale(i, v) })
	}

	showCenterPlane := func() { c.r.SetVisible(c.obj.centerPlane, true) }
	c.r.LookAt(c.obj.centerPlane, starPos)
	c.add(track{from: c.vis.centerPlaneOpacity, to: 1, duration: dur, ease: sineIn,
		apply: c.setCenterPlaneOpacity, onStart: showCenterPlane,
	})
	c.addVec(c.vis.centerPlaneScale,
		r3.Vector{X: GalaxyCenterScale * 1.5, Y: GalaxyCenterScale * 0.1, Z: c.vis.centerPlaneScale.Z},
		track{duration: dur, ease: sineIn, onStart: showCenterPlane}, c.setCenterPlaneScale)

	// Camera.
	c.addVec(c.camera.Target, starPos, track{duration: dur / 1.5, ease: sineOut},
		func(v r3.Vector) { c.camera.Target = v })
	away := c.camera.Position.Sub(starPos).Normalize()
	camEnd := starPos.Add(away.Mul(FocusDistance(c.viewport)))
	c.addVec(c.camera.Position, camEnd, track{duration: dur, ease: sineInOut},
		func(v r3.Vector) { c.camera.Position = v })

	// The whole galaxy grows around the star.
	c.add(track{from: 1, to: groupDiveScale, duration: dur, ease: sineIn,
		apply: func(s float64) { c.setGroupScale(s, starPos) },
	})

	for i := range c.obj.galaxies {
		g := &c.obj.galaxies[i]
		c.add(track{from: g.scale, to: smallGalaxyHidden, duration: dur / 3, ease: sineOut,
			apply:  func(v float64) { c.setSmallGalaxyScale(g, v) },
			onDone: func() { c.r.SetVisible(g.handle, false) },
		})
	}

	c.vis.solarScale = 0
	c.obj.solarSystem = c.r.CreateSolarSystem(0, SolarSystemSpec{
		Position:    starPos,
		StarSize:    starSize(star),
		GalaxyColor: star.Color,
		Color:       bigStarColor(star),
	})
	c.r.SetScale(c.obj.solarSystem, r3.Vector{})
	c.r.SetVisible(c.obj.solarSystem, false)
	c.add(track{from: 0, to: 1, delay: dur * 2 / 3, duration: dur, ease: sineOut,
		apply:   c.setSolarScale,
		onStart: func() { c.r.SetVisible(c.obj.solarSystem, true) },
	})

	c.audio.PlaySfx(SfxDiveIn)
	c.stateTweens.After(dur/2, func() {
		if snd := c.audio.Sound(SfxStarFire); snd != nil {
			snd.SetLoop(true)
			snd.SetVolume(c.audio.SfxVolume())
			snd.Play()
		}
	})
}

// playDiveOut mirrors playDiveIn back to the saved snapshot.
func (c *Controller) playDiveOut() {
	const dur = diveDuration
	snap := c.snapshot
	if snap == nil {
		c.logger.Error("Fly out without a saved dive snapshot")
		snap = &AnimState{
			PlaneOpacity:   1,
			CenterOpacity:  [2]float64{1, 1},
			CenterScale:    c.vis.centerScale,
			CameraPosition: introCameraEnd,
		}
	}
	starPos := snap.StarPosition

	c.add(track{from: c.vis.planeOpacity, to: snap.PlaneOpacity, delay: dur / 3, duration: dur * 2 / 3, ease: sineOut,
		apply:   c.setPlaneOpacity,
		onStart: func() { c.r.SetVisible(c.obj.plane, true) },
	})

	if c.markers != nil {
		c.markers.Fade(c.stateTweens, 1, dur*0.9, dur*0.1)
	}

	for i := range c.obj.center {
		c.add(track{from: c.vis.centerOpacity[i], to: snap.CenterOpacity[i], duration: dur, ease: sineOut,
			apply: func(v float64) { c.setCenterOpacity(i, v) },
		})
		c.addVec(c.vis.centerScale[i], snap.CenterScale[i], track{duration: dur, ease: sineIn},
			func(v r3.Vector) { c.setCenterScale(i, v) })
	}
	c.add(track{from: c.vis.centerPlaneOpacity, to: 0, duration: dur, ease: sineOut,
		apply:  c.setCenterPlaneOpacity,
		onDone: func() { c.r.SetVisible(c.obj.centerPlane, false) },
	})

	c.addVec(c.camera.Target, r3.Vector{}, track{duration: dur, ease: sineInOut},
		func(v r3.Vector) { c.camera.Target = v })

	c.add(track{from: c.vis.groupScale, to: 1, duration: dur, ease: sineInOut,
		apply: func(s float64) { c.setGroupScale(s, starPos) },
	})

	if c.obj.bigStar != 0 {
		c.add(track{from: c.vis.bigStarOpacity, to: 1, delay: 2 * dur / 5, duration: 3 * dur / 5, ease: sineInOut,
			apply: c.setBigStarOpacity,
		})
		c.addVec(c.vis.bigStarScale, r3.Vector{X: 2, Y: 2, Z: c.vis.bigStarScale.Z},
			track{duration: dur * 1.5, ease: sineInOut, detached: true, onDone: c.destroyBigStar},
			c.setBigStarScale)
	}

	for i := range c.obj.galaxies {
		g := &c.obj.galaxies[i]
		c.r.SetVisible(g.handle, true)
		c.add(track{from: g.scale, to: 1, delay: dur * 2 / 3, duration: dur / 3, ease: sineInOut,
			apply: func(v float64) { c.setSmallGalaxyScale(g, v) },
		})
	}

	if c.obj.solarSystem != 0 {
		c.add(track{from: c.vis.solarScale, to: solarSystemHidden, duration: dur * 2 / 3, ease: sineIn,
			apply:  c.setSolarScale,
			onDone: c.destroySolarSystem,
		})
	}

	c.add(track{from: c.vis.coronaAlpha, to: 0, duration: dur * 4 / 10, ease: sineIn,
		apply:  c.setCoronaAlpha,
		onDone: func() { c.r.SetVisible(c.obj.corona, false) },
	})

	c.addVec(c.camera.Position, snap.CameraPosition, track{duration: dur, ease: sineInOut},
		func(v r3.Vector) { c.camera.Position = v })

	c.audio.PlaySfx(SfxDiveOut)
	c.stateTweens.After(dur/3, func() {
		if snd := c.audio.Sound(SfxStarFire); snd != nil {
			snd.Stop()
		}
	})
}

// destroyTransient removes objects left over from an earlier dive.
func (c *Controller) destroyTransient() {
	c.cancelLingering()
	c.destroyBigStar()
	c.destroySolarSystem()
}

func (c *Controller) destroyBigStar() {
	if c.obj.bigStar != 0 {
		c.r.Destroy(c.obj.bigStar)
		c.obj.bigStar = 0
	}
}

func (c *Controller) destroySolarSystem() {
	if c.obj.solarSystem != 0 {
		c.r.SetVisible(c.obj.solarSystem, false)
		c.r.Destroy(c.obj.solarSystem)
		c.obj.solarSystem = 0
	}
}

func (c *Controller) setPlaneOpacity(v float64) {
	c.vis.planeOpacity = v
	c.r.SetOpacity(c.obj.plane, v)
}

func (c *Controller) setCenterOpacity(i int, v float64) {
	c.vis.centerOpacity[i] = v
	c.r.SetOpacity(c.obj.center[i], v)
}

func (c *Controller) setCenterScale(i int, v r3.Vector) {
	c.vis.centerScale[i] = v
	c.r.SetScale(c.obj.center[i], v)
}

func (c *Controller) setCenterPlaneOpacity(v float64) {
	c.vis.centerPlaneOpacity = v
	c.r.SetOpacity(c.obj.centerPlane, v)
}

func (c *Controller) setCenterPlaneScale(v r3.Vector) {
	c.vis.centerPlaneScale = v
	c.r.SetScale(c.obj.centerPlane, v)
}

// setGroupScale scales the galaxy group about the star so the star stays put.
func (c *Controller) setGroupScale(s float64, pivot r3.Vector) {
	c.vis.groupScale = s
	c.r.SetScale(c.obj.root, r3.Vector{X: s, Y: s, Z: s})
	c.r.SetPosition(c.obj.root, pivot.Add(pivot.Mul(-1).Mul(s)))
}

func (c *Controller) setCoronaScale(v float64) {
	c.vis.coronaScale = v
	c.r.SetScale(c.obj.corona, r3.Vector{X: v, Y: v, Z: v})
}

func (c *Controller) setCoronaAlpha(v float64) {
	c.vis.coronaAlpha = v
	c.r.SetUniform(c.obj.corona, "alphaFactor", v)
}

func (c *Controller) setBigStarScale(v r3.Vector) {
	c.vis.bigStarScale = v
	if c.obj.bigStar != 0 {
		c.r.SetScale(c.obj.bigStar, v)
	}
}

func (c *Controller) setBigStarOpacity(v float64) {
	c.vis.bigStarOpacity = v
	if c.obj.bigStar != 0 {
		c.r.SetOpacity(c.obj.bigStar, v)
	}
}

func (c *Controller) setSolarScale(v float64) {
	c.vis.solarScale = v
	if c.obj.solarSystem != 0 {
		c.r.SetScale(c.obj.solarSystem, r3.Vector{X: v, Y: v, Z: v})
	}
}

func (c *Controller) setSmallGalaxyScale(g *smallGalaxy, v float64) {
	g.scale = v
	c.r.SetScale(g.handle, r3.Vector{X: v, Y: v, Z: v})
}

func starSize(s *starfield.Star) float64 {
	if s.StarInfo != nil && s.StarInfo.BigStar.StarSize > 0 {
		return s.StarInfo.BigStar.StarSize
	}
	return starfield.BigStarSize
}

func bigStarColor(s *starfield.Star) *starfield.BigStarColor {
	if s.StarInfo != nil {
		return s.StarInfo.BigStar.Color
	}
	return nil
}
