package scene

import (
	"math"

	"github.com/golang/geo/r3"

	"galaxy-explorer/internal/quadtree"
	"galaxy-explorer/internal/starfield"
)

const (
	rotationMinDelta   = 0.001
	rotationSoundDelay = 0.02

	clickDistDesktop = 10.0
	clickDistTouch   = 30.0
)

var (
	introCameraStart = r3.Vector{X: -90 * 4, Y: 0, Z: 180 * 4}
	introCameraEnd   = r3.Vector{X: -90, Y: 60, Z: 180}
)

func (c *Controller) registerStates() {
	transitionDone := func() bool { return c.stateTweens.Done() }

	c.fsm.Add(StateInit, &State{
		OnEnter:     func(any) { c.enterInit() },
		OnUpdate:    c.updateInit,
		OnExit:      c.exitTransition,
		Transitions: []TickTransition{{Target: StateGalaxy, Guard: transitionDone}},
	})
	c.fsm.Add(StateGalaxy, &State{
		OnEnter:  func(any) { c.enterGalaxy() },
		OnUpdate: c.updateGalaxy,
	})
	c.fsm.Add(StateToStar, &State{
		OnEnter: func(p any) {
			star, _ := p.(*starfield.Star)
			c.enterToStar(star)
		},
		OnUpdate:    c.updateTransition,
		OnExit:      c.exitTransition,
		Transitions: []TickTransition{{Target: StateStar, Guard: transitionDone}},
	})
	c.fsm.Add(StateStar, &State{
		OnEnter:  func(any) { c.enterStar() },
		OnUpdate: c.updateStar,
	})
	c.fsm.Add(StateFromStar, &State{
		OnEnter:  func(any) { c.enterFromStar() },
		OnUpdate: c.updateTransition,
		OnExit: func() {
			c.exitTransition()
			c.snapshot = nil
			c.focus = nil
		},
		Transitions: []TickTransition{{Target: StateGalaxy, Guard: transitionDone}},
	})
}

// exitTransition cancels whatever the leaving state still has in flight.
func (c *Controller) exitTransition() {
	c.stateTweens.Cancel()
}

func (c *Controller) enterInit() {
	c.previewOpen = false
	c.camera.Enabled = false
	c.camera.Position = introCameraStart
	c.camera.Target = r3.Vector{}
	c.playIntro()
}

func (c *Controller) updateInit(dt float64) {
	c.updateOverview(dt)
}

func (c *Controller) enterGalaxy() {
	c.prevAzimuth = c.camera.AzimuthalAngle()
	c.prevPolar = c.camera.PolarAngle()
	c.camera.AutoRotate = true
	c.camera.EnableZoom = true
	c.camera.Enabled = true
	c.hoverTimer = 0
}

func (c *Controller) updateGalaxy(dt float64) {
	c.camera.Update(dt)
	c.updateOverview(dt)
	c.updateRotationSound(dt)

	if c.viewport.Desktop {
		c.hoverTimer -= dt
		if c.hoverTimer <= 0 {
			c.hoverTimer = c.cfg.HoverInterval
			if c.pointerKnown {
				c.checkHover(c.pointerNDC.X, c.pointerNDC.Y)
			}
		}
	}
}

func (c *Controller) enterToStar(star *starfield.Star) {
	if star == nil {
		c.logger.Error("Dive started without a target star")
		return
	}
	c.focus = star
	c.camera.Enabled = false
	c.hovered = 0
	c.playDiveIn(star)
}

// updateTransition keeps the background alive while a dive animates.
func (c *Controller) updateTransition(dt float64) {
	c.updateFarStars()
	c.updateSmallGalaxies(dt)
}

func (c *Controller) enterStar() {
	c.camera.AutoRotate = false
	c.camera.EnableZoom = false
	c.camera.Enabled = true
	c.prevAzimuth = c.camera.AzimuthalAngle()
	c.prevPolar = c.camera.PolarAngle()

	star := c.focus
	if star == nil || star.StarInfo == nil {
		return
	}
	info := star.StarInfo
	c.bus.Publish(StarPanel{
		StarID:      star.ID,
		Name:        info.Name,
		Description: info.Description,
		Level:       info.Level,
		Race:        raceName(info.RaceID),
		PlanetSlots: info.PlanetSlots,
		Energy:      info.Energy,
		Life:        info.Life,
		Scale:       PanelScale(c.viewport),
	})
}

func (c *Controller) updateStar(dt float64) {
	c.camera.Update(dt)
	c.updateSmallGalaxies(dt)
	c.updateRotationSound(dt)
}

func (c *Controller) enterFromStar() {
	c.camera.Enabled = false
	c.playDiveOut()
}

// updateOverview recomputes every camera dependent overview visual.
func (c *Controller) updateOverview(dt float64) {
	absPolar := c.camera.AbsPolarAngle()

	c.setPlaneOpacity(PlaneOpacity(c.camera.Distance(), absPolar))

	for i, minFactor := range [2]float64{centerSpriteMinScale, centerSprite2MinScale} {
		base := [2]float64{GalaxyCenterScale, GalaxyCenterScale2}[i]
		scale := c.vis.centerScale[i]
		scale.Y = CenterSpriteScaleY(base, minFactor, absPolar)
		c.setCenterScale(i, scale)
	}

	c.r.SetUniform(c.obj.stars, "alphaFactor", StarsAlpha(absPolar))
	c.updateFarStars()
	c.updateSmallGalaxies(dt)
	c.updateStarMarkers()
}

func (c *Controller) updateFarStars() {
	_, polar, azimuth := c.camera.Spherical()
	c.r.SetUniform(c.obj.farStars, "azimuth", azimuth)
	c.r.SetUniform(c.obj.farStars, "polar", polar)
}

func (c *Controller) updateSmallGalaxies(dt float64) {
	for i := range c.obj.galaxies {
		g := &c.obj.galaxies[i]
		g.spin += g.data.RotationSpeed * dt
		c.r.SetRotation(g.handle, r3.Vector{Z: g.spin})
	}
}

// updateRotationSound loops the rotation sound once the user has been turning
// the camera for longer than rotationSoundDelay.
func (c *Controller) updateRotationSound(dt float64) {
	_, polar, azimuth := c.camera.Spherical()
	azDelta := math.Abs(azimuth - c.prevAzimuth)
	polDelta := math.Abs(polar - c.prevPolar)
	rotating := c.camera.IsRotating() && (azDelta > rotationMinDelta || polDelta > rotationMinDelta)

	snd := c.audio.Sound(SfxCameraTurns)
	if rotating {
		if c.rotationSoundTimer < 0 && snd != nil && !snd.IsPlaying() {
			snd.SetLoop(true)
			snd.SetVolume(c.audio.SfxVolume())
			snd.Play()
		}
	} else {
		c.rotationSoundTimer = rotationSoundDelay
		if snd != nil && snd.IsPlaying() {
			snd.Stop()
		}
	}

	c.rotationSoundTimer -= dt
	c.prevAzimuth = azimuth
	c.prevPolar = polar
}

// updateStarMarkers keeps markers on the stars around the look point.
func (c *Controller) updateStarMarkers() {
	if !c.cfg.StarMarkers || c.markers == nil {
		return
	}
	look := LookPoint(c.camera.Position, c.cfg.PickOffset)
	points := c.index.PointsInCircle(quadtree.Circle{X: look.X, Y: look.Z, R: c.cfg.PickRadius})
	c.markers.Sync(points)
}

// PointerMove records the pointer in normalized device coordinates.
func (c *Controller) PointerMove(ndcX, ndcY float64) {
	c.pointerNDC = Point2D{X: ndcX, Y: ndcY}
	c.pointerKnown = true
}

// PointerDown starts a click. Pressing on empty space closes the preview
// and resumes the overview camera.
func (c *Controller) PointerDown(x, y float64) {
	c.pointerDown = Point2D{X: x, Y: y}
	nx, ny := c.viewport.NDC(x, y)
	c.checkHover(nx, ny)

	if c.previewOpen || c.hovered != 0 {
		return
	}
	c.bus.Publish(HideStarPreview{})
	if c.fsm.Current() == StateGalaxy {
		c.resumeOverviewCamera()
	}
}

// PointerUp completes a click when the pointer barely moved since PointerDown.
func (c *Controller) PointerUp(x, y float64) {
	limit := clickDistTouch
	if c.viewport.Desktop {
		limit = clickDistDesktop
	}
	if math.Hypot(x-c.pointerDown.X, y-c.pointerDown.Y) > limit {
		return
	}
	if c.fsm.Current() != StateGalaxy || c.hovered == 0 || c.previewOpen {
		return
	}

	star, ok := c.markers.Star(c.hovered)
	if !ok || star.StarInfo == nil {
		return
	}

	c.audio.PlaySfx(SfxClick)
	c.previewOpen = true
	c.camera.AutoRotate = false
	c.camera.StopMotion()
	c.camera.Enabled = false

	c.bus.Publish(StarPreview{
		StarID:      star.ID,
		Name:        star.StarInfo.Name,
		Description: star.StarInfo.Description,
		Level:       star.StarInfo.Level,
		Race:        raceName(star.StarInfo.RaceID),
		Pos2D:       c.pointerDown,
	})
}

// StarPreviewClosed is called by the UI when the preview panel is dismissed.
// The overview camera resumes even if the preview was already closed.
func (c *Controller) StarPreviewClosed() {
	c.previewOpen = false
	if c.fsm.Current() == StateGalaxy {
		c.resumeOverviewCamera()
	}
}

func (c *Controller) PreviewOpen() bool {
	return c.previewOpen
}

// Hovered returns the star under the pointer, if any.
func (c *Controller) Hovered() (*starfield.Star, bool) {
	if c.hovered == 0 || c.markers == nil {
		return nil, false
	}
	return c.markers.Star(c.hovered)
}

func (c *Controller) resumeOverviewCamera() {
	c.camera.AutoRotate = true
	c.camera.EnableZoom = true
	c.camera.Enabled = true
}

// checkHover ray casts into the scene and keeps the nearest star marker.
func (c *Controller) checkHover(ndcX, ndcY float64) {
	if c.markers == nil {
		c.hovered = 0
		return
	}
	for _, h := range c.r.Raycast(ndcX, ndcY) {
		if _, ok := c.markers.Star(h); !ok {
			continue
		}
		if h != c.hovered {
			c.hovered = h
			if !c.previewOpen {
				c.audio.PlaySfx(SfxHover)
			}
		}
		return
	}
	c.hovered = 0
}

func (c *Controller) hideHover() {
	c.hovered = 0
	if c.previewOpen {
		c.previewOpen = false
		c.bus.Publish(HideStarPreview{})
		if c.fsm.Current() == StateGalaxy {
			c.resumeOverviewCamera()
		}
	}
}

func raceName(id int) string {
	if id >= 0 && id < len(starfield.Races) {
		return starfield.Races[id]
	}
	return ""
}
