// Package scene drives the interactive galaxy: the generated star field, the
// spatial index used for picking, the camera and the state machine that moves
// between the overview and a focused star.
//
// A Controller is single threaded. Every method must be called from the
// goroutine that calls Update.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"

	"galaxy-explorer/internal/quadtree"
	"galaxy-explorer/internal/starfield"
	"galaxy-explorer/internal/tween"
)

var (
	ErrUnknownStar       = errors.New("unknown star")
	ErrMissingDependency = errors.New("missing dependency")
)

type Config struct {
	Galaxy starfield.GalaxySettings
	Sky    starfield.SkySettings

	QuadCapacity  int
	QuadBounds    float64
	PickRadius    float64
	PickOffset    float64
	MarkerPool    int
	StarMarkers   bool
	HoverInterval float64

	CamDistMin   float64
	CamDistMax   float64
	IntroMaxDist float64
	FOV          float64
	DebugLevels  bool
}

func DefaultConfig() Config {
	return Config{
		Galaxy:        starfield.DefaultGalaxySettings(),
		Sky:           starfield.DefaultSkySettings(),
		QuadCapacity:  30,
		QuadBounds:    400,
		PickRadius:    40,
		PickOffset:    30,
		MarkerPool:    400,
		StarMarkers:   true,
		HoverInterval: 0.1,
		CamDistMin:    40,
		CamDistMax:    250,
		IntroMaxDist:  500,
		FOV:           45,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.QuadCapacity <= 0 {
		c.QuadCapacity = d.QuadCapacity
	}
	if c.QuadBounds <= 0 {
		c.QuadBounds = d.QuadBounds
	}
	if c.PickRadius <= 0 {
		c.PickRadius = d.PickRadius
	}
	if c.PickOffset == 0 {
		c.PickOffset = d.PickOffset
	}
	if c.MarkerPool <= 0 {
		c.MarkerPool = d.MarkerPool
	}
	if c.HoverInterval <= 0 {
		c.HoverInterval = d.HoverInterval
	}
	if c.CamDistMin <= 0 {
		c.CamDistMin = d.CamDistMin
	}
	if c.CamDistMax <= c.CamDistMin {
		c.CamDistMax = math.Max(d.CamDistMax, c.CamDistMin)
	}
	if c.IntroMaxDist <= 0 {
		c.IntroMaxDist = d.IntroMaxDist
	}
	if c.FOV <= 0 {
		c.FOV = d.FOV
	}
	return c
}

type Deps struct {
	Renderer Renderer
	Audio    Audio
	Events   EventBus
	// Rand defaults to a randomly seeded PCG source.
	Rand   starfield.Source
	Logger *slog.Logger
}

type smallGalaxy struct {
	handle Handle
	data   starfield.FarGalaxy
	spin   float64
	scale  float64
}

type objects struct {
	root        Handle
	plane       Handle
	center      [2]Handle
	centerPlane Handle
	stars       Handle
	blinkStars  Handle
	farStars    Handle
	corona      Handle
	bigStar     Handle
	solarSystem Handle
	galaxies    []smallGalaxy
}

// visuals mirrors the renderer properties that transitions animate.
type visuals struct {
	planeOpacity       float64
	centerOpacity      [2]float64
	centerScale        [2]r3.Vector
	centerPlaneOpacity float64
	centerPlaneScale   r3.Vector
	groupScale         float64
	coronaScale        float64
	coronaAlpha        float64
	bigStarScale       r3.Vector
	bigStarOpacity     float64
	solarScale         float64
}

type Controller struct {
	cfg    Config
	r      Renderer
	audio  Audio
	bus    EventBus
	gen    *starfield.Generator
	logger *slog.Logger

	field *starfield.Field
	index *quadtree.QuadTree[*starfield.Star]

	fsm         *Machine
	tweens      *tween.Scheduler
	stateTweens *tween.Group
	lingering   []tween.Handle
	camera      *OrbitCamera
	viewport    Viewport

	obj      objects
	vis      visuals
	markers  *markerPool
	snapshot *AnimState
	focus    *starfield.Star

	hovered      Handle
	previewOpen  bool
	pointerDown  Point2D
	pointerNDC   Point2D
	pointerKnown bool
	hoverTimer   float64

	rotationSoundTimer float64
	prevAzimuth        float64
	prevPolar          float64
}

// NewController builds the scene and enters the intro state. A nil field is
// generated from cfg; a loaded field is used as is and only its transient
// populations are regenerated.
func NewController(cfg Config, deps Deps, field *starfield.Field, vp Viewport) (*Controller, error) {
	if deps.Renderer == nil || deps.Audio == nil || deps.Events == nil {
		return nil, fmt.Errorf("%w: renderer, audio and event bus are required", ErrMissingDependency)
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	cfg = cfg.withDefaults()
	c := &Controller{
		cfg:      cfg,
		r:        deps.Renderer,
		audio:    deps.Audio,
		bus:      deps.Events,
		gen:      starfield.NewGenerator(deps.Rand, starfield.WithDebugLevels(cfg.DebugLevels)),
		logger:   deps.Logger.With("component", "galaxy_controller"),
		tweens:   tween.NewScheduler(),
		viewport: vp,
	}
	c.stateTweens = tween.NewGroup(c.tweens)

	if field == nil {
		field = c.gen.Generate(cfg.Galaxy, cfg.Sky)
	} else {
		c.gen.Decorate(field, cfg.Sky)
	}
	c.field = field

	c.camera = &OrbitCamera{
		Enabled:         false,
		AutoRotate:      true,
		EnableZoom:      true,
		EnablePan:       true,
		AutoRotateSpeed: 0.05,
		MinDistance:     cfg.CamDistMin,
		MaxDistance:     cfg.IntroMaxDist,
		MinPolarAngle:   degToRad(10),
		MaxPolarAngle:   degToRad(170),
		PanRadius:       160,
		PanHeight:       10,
		FOV:             cfg.FOV,
	}

	c.buildScene()
	c.buildIndex()

	c.audio.PlaySfx(SfxInitFly)
	c.audio.PlayMusic(MusicMain)

	c.fsm = NewMachine(c.logger)
	c.registerStates()
	c.fsm.OnChange(func(from, to StateID) {
		c.bus.Publish(StateChanged{From: from.String(), To: to.String()})
	})
	if err := c.fsm.Start(StateInit, nil); err != nil {
		return nil, err
	}

	c.logger.Debug("Galaxy controller initialized",
		"stars", len(field.Stars),
		"blink_stars", len(field.BlinkStars),
		"far_galaxies", len(field.FarGalaxies),
	)
	return c, nil
}

// Update advances the scene by dt seconds: tweens first, then the active state.
func (c *Controller) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.tweens.Update(dt)
	c.fsm.Update(dt)
	c.r.SetCamera(c.camera.Position, c.camera.Target)
}

func (c *Controller) State() StateID {
	return c.fsm.Current()
}

func (c *Controller) Field() *starfield.Field {
	return c.field
}

func (c *Controller) Camera() OrbitCamera {
	return *c.camera
}

func (c *Controller) Viewport() Viewport {
	return c.viewport
}

// requestGuard rejects requests that arrive while the scene is animating.
func (c *Controller) requestGuard(want StateID) error {
	cur := c.fsm.Current()
	if cur == want {
		return nil
	}
	if cur.Transitional() {
		return fmt.Errorf("%w: %s", ErrTransitionInFlight, cur)
	}
	return fmt.Errorf("%w: current state %s, expected %s", ErrInvalidTransition, cur, want)
}

// DiveIn flies the camera into the star with the given id.
func (c *Controller) DiveIn(starID int) error {
	if err := c.requestGuard(StateGalaxy); err != nil {
		return err
	}
	star := c.starByID(starID)
	if star == nil {
		return fmt.Errorf("%w: %d", ErrUnknownStar, starID)
	}
	c.previewOpen = false
	return c.fsm.Transition(StateToStar, star)
}

// FlyOut leaves the focused star and returns to the overview.
func (c *Controller) FlyOut() error {
	if err := c.requestGuard(StateStar); err != nil {
		return err
	}
	c.previewOpen = false
	return c.fsm.Transition(StateFromStar, nil)
}

// Regenerate rebuilds every star population. Only the overview accepts it.
func (c *Controller) Regenerate() error {
	if err := c.requestGuard(StateGalaxy); err != nil {
		return err
	}
	c.hideHover()
	c.destroyField()
	c.field = c.gen.Generate(c.cfg.Galaxy, c.cfg.Sky)
	c.buildField()
	c.buildIndex()
	c.logger.Info("Galaxy regenerated", "stars", len(c.field.Stars))
	return nil
}

func (c *Controller) SetMusicVolume(v float64) {
	v = clamp(v, 0, 1)
	c.audio.SetMusicVolume(v)
	if s := c.audio.Sound(MusicMain); s != nil {
		s.SetVolume(v)
	}
}

func (c *Controller) SetSFXVolume(v float64) {
	c.audio.SetSfxVolume(clamp(v, 0, 1))
}

func (c *Controller) Resize(vp Viewport) {
	c.viewport = vp
}

// Orbit rotates the camera by user input.
func (c *Controller) Orbit(dAzimuth, dPolar float64) {
	c.camera.Rotate(dAzimuth, dPolar)
}

// Zoom dollies the camera by user input.
func (c *Controller) Zoom(factor float64) {
	c.camera.Zoom(factor)
}

// Pan moves the camera target on the galactic plane.
func (c *Controller) Pan(dx, dz float64) {
	c.camera.Pan(r3.Vector{X: dx, Z: dz})
}

// Close releases every renderer object.
func (c *Controller) Close() {
	c.stateTweens.Cancel()
	c.cancelLingering()
	c.destroyField()
	c.destroyTransient()
	for _, h := range []Handle{c.obj.plane, c.obj.center[0], c.obj.center[1], c.obj.centerPlane, c.obj.corona, c.obj.root} {
		if h != 0 {
			c.r.Destroy(h)
		}
	}
	c.obj = objects{}
}

func (c *Controller) starByID(id int) *starfield.Star {
	stars := c.field.Stars
	if id >= 0 && id < len(stars) && stars[id].ID == id {
		return &stars[id]
	}
	for i := range stars {
		if stars[i].ID == id {
			return &stars[i]
		}
	}
	return nil
}

func (c *Controller) buildScene() {
	c.obj.root = c.r.CreateGroup(0)
	c.vis.groupScale = 1

	c.obj.plane = c.r.CreateQuad(c.obj.root, QuadSpec{
		Name:    "galaxyPlane",
		Texture: "galaxy_sprite",
		Size:    r3.Vector{X: 350, Y: 350, Z: 1},
		Color:   starfield.RGB{R: 1, G: 1, B: 1},
		Opacity: 1,
		Visible: true,
	})
	c.r.SetRotation(c.obj.plane, r3.Vector{X: -math.Pi / 2, Z: -1.2})
	c.vis.planeOpacity = 1

	centerColor := starfield.RGB{R: 0xd3 / 255.0, G: 0xcc / 255.0, B: 1}
	for i, spec := range []struct {
		texture string
		scale   float64
	}{
		{"sun_01", GalaxyCenterScale},
		{"sun_romb", GalaxyCenterScale2},
	} {
		scale := r3.Vector{X: spec.scale, Y: spec.scale, Z: spec.scale}
		c.obj.center[i] = c.r.CreateSprite(c.obj.root, SpriteSpec{
			Name:     fmt.Sprintf("galaxyCenter%d", i+1),
			Texture:  spec.texture,
			Scale:    scale,
			Color:    centerColor,
			Opacity:  1,
			Additive: true,
		})
		c.vis.centerOpacity[i] = 1
		c.vis.centerScale[i] = scale
	}

	c.obj.centerPlane = c.r.CreateQuad(c.obj.root, QuadSpec{
		Name:    "galaxyCenterPlane",
		Texture: "sun_romb",
		Size:    r3.Vector{X: 1, Y: 1, Z: 1},
		Color:   centerColor,
		Opacity: 0,
	})
	c.vis.centerPlaneScale = r3.Vector{X: 1, Y: 1, Z: 1}

	c.buildField()
}

// buildField creates the renderer objects backed by the current field.
func (c *Controller) buildField() {
	f := c.field
	c.obj.stars = c.r.CreatePoints(c.obj.root, PointsSpec{Name: "galaxyStars", Texture: "star4", Stars: f.Stars, Visible: true})
	c.obj.blinkStars = c.r.CreatePoints(c.obj.root, PointsSpec{Name: "galaxyBlinkStars", Texture: "star4", Stars: f.BlinkStars, Visible: true})
	c.obj.farStars = c.r.CreatePoints(c.obj.root, PointsSpec{Name: "farStars", Texture: "star4", Stars: f.FarStars, Visible: true})

	if c.obj.corona != 0 {
		c.r.Destroy(c.obj.corona)
	}
	c.obj.corona = c.r.CreatePoints(0, PointsSpec{Name: "solarSystemBlinkStars", Texture: "star4", Stars: f.Corona})
	c.vis.coronaScale, c.vis.coronaAlpha = 0.1, 0

	c.obj.galaxies = make([]smallGalaxy, 0, len(f.FarGalaxies))
	for _, g := range f.FarGalaxies {
		h := c.r.CreateQuad(0, QuadSpec{
			Name:    "smallGalaxy",
			Texture: g.TextureName,
			Size:    r3.Vector{X: g.Size, Y: g.Size, Z: 1},
			Color:   starfield.RGB{R: 1, G: 1, B: 1},
			Opacity: g.Alpha,
			Facing:  g.Dir.R3(),
			Visible: true,
		})
		c.r.SetPosition(h, g.Pos.R3())
		c.obj.galaxies = append(c.obj.galaxies, smallGalaxy{handle: h, data: g, scale: 1})
	}

	c.markers = newMarkerPool(c.r, c.obj.root, c.cfg.MarkerPool)
}

func (c *Controller) destroyField() {
	if c.markers != nil {
		c.markers.Destroy()
		c.markers = nil
	}
	for _, h := range []Handle{c.obj.stars, c.obj.blinkStars, c.obj.farStars} {
		if h != 0 {
			c.r.Destroy(h)
		}
	}
	for _, g := range c.obj.galaxies {
		c.r.Destroy(g.handle)
	}
	c.obj.stars, c.obj.blinkStars, c.obj.farStars = 0, 0, 0
	c.obj.galaxies = nil
	if c.index != nil {
		c.index.Destroy()
		c.index = nil
	}
}

// buildIndex rebuilds the quad-tree over the disk stars on the XZ plane.
func (c *Controller) buildIndex() {
	if c.index != nil {
		c.index.Destroy()
	}
	b := c.cfg.QuadBounds
	c.index = quadtree.New[*starfield.Star](quadtree.Rect{Width: b, Height: b}, c.cfg.QuadCapacity)

	dropped := 0
	for i := range c.field.Stars {
		s := &c.field.Stars[i]
		if !c.index.Add(quadtree.Point[*starfield.Star]{X: s.Pos.X, Y: s.Pos.Z, Data: s}) {
			dropped++
		}
	}
	if dropped > 0 {
		c.logger.Warn("Stars outside spatial index bounds", "dropped", dropped, "bounds", b)
	}
}

// NearStars returns the disk stars within radius of (x, z).
func (c *Controller) NearStars(x, z, radius float64) []*starfield.Star {
	points := c.index.PointsInCircle(quadtree.Circle{X: x, Y: z, R: radius})
	out := make([]*starfield.Star, len(points))
	for i, p := range points {
		out[i] = p.Data
	}
	return out
}
