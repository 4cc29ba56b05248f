package scene

import (
	"github.com/golang/geo/r3"

	"galaxy-explorer/internal/starfield"
)

// Handle references an object owned by the Renderer. Zero is never a valid handle.
type Handle uint64

type SpriteSpec struct {
	Name        string
	Texture     string
	Position    r3.Vector
	Scale       r3.Vector
	Color       starfield.RGB
	Opacity     float64
	Additive    bool
	Interactive bool
}

type QuadSpec struct {
	Name    string
	Texture string
	Size    r3.Vector
	Color   starfield.RGB
	Opacity float64
	// Facing orients the quad towards a direction before any rotation is applied.
	Facing  r3.Vector
	Visible bool
}

// SolarSystemSpec describes the star system shown while a star is focused.
type SolarSystemSpec struct {
	Position    r3.Vector
	StarSize    float64
	GalaxyColor starfield.RGBA
	Color       *starfield.BigStarColor
}

type PointsSpec struct {
	Name    string
	Texture string
	Stars   []starfield.Star
	Visible bool
}

// Renderer is the rendering back end. Calls are fire and forget; only
// creation returns a value.
type Renderer interface {
	CreateGroup(parent Handle) Handle
	CreateSprite(parent Handle, spec SpriteSpec) Handle
	CreateQuad(parent Handle, spec QuadSpec) Handle
	CreateSolarSystem(parent Handle, spec SolarSystemSpec) Handle
	CreatePoints(parent Handle, spec PointsSpec) Handle

	SetOpacity(h Handle, v float64)
	SetScale(h Handle, v r3.Vector)
	SetPosition(h Handle, v r3.Vector)
	SetRotation(h Handle, euler r3.Vector)
	SetVisible(h Handle, visible bool)
	SetUniform(h Handle, name string, v float64)
	LookAt(h Handle, target r3.Vector)
	SetCamera(position, target r3.Vector)
	Destroy(h Handle)

	// Raycast returns the objects under a normalized device coordinate,
	// nearest first.
	Raycast(ndcX, ndcY float64) []Handle
}

// Sound is a single playable audio clip.
type Sound interface {
	Play()
	Stop()
	IsPlaying() bool
	SetLoop(loop bool)
	SetVolume(v float64)
}

type Audio interface {
	PlaySfx(id string)
	PlayMusic(id string)
	Sound(id string) Sound
	SetMusicVolume(v float64)
	SetSfxVolume(v float64)
	SfxVolume() float64
}

// EventBus receives events produced by the scene for the UI layer.
type EventBus interface {
	Publish(e Event)
}

// Viewport is the client surface the scene is presented on.
type Viewport struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Desktop    bool    `json:"desktop"`
	Fullscreen bool    `json:"fullscreen"`
}

func (v Viewport) Aspect() float64 {
	if v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// NDC converts client pixels to normalized device coordinates.
func (v Viewport) NDC(x, y float64) (float64, float64) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, 0
	}
	return x/v.Width*2 - 1, -(y/v.Height*2 - 1)
}

// Audio clip ids.
const (
	MusicMain      = "music_main"
	SfxInitFly     = "sfx_init_fly"
	SfxHover       = "sfx_hover"
	SfxClick       = "sfx_click"
	SfxDiveIn      = "sfx_dive_in"
	SfxDiveOut     = "sfx_dive_out"
	SfxStarFire    = "sfx_star_fire"
	SfxCameraTurns = "sfx_cam_rotate"
)
