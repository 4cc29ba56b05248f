package session

import (
	"encoding/json"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"galaxy-explorer/internal/scene"
)

// Envelope is the frame exchanged over the websocket in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Server to client envelope types.
const (
	TypeHello  = "hello"
	TypeRender = "render"
	TypeAudio  = "audio"
	TypeEvent  = "event"
	TypeError  = "error"
)

// Client to server envelope types.
const (
	InputPointerMove   = "pointerMove"
	InputPointerDown   = "pointerDown"
	InputPointerUp     = "pointerUp"
	InputOrbit         = "orbit"
	InputZoom          = "zoom"
	InputPan           = "pan"
	InputDiveIn        = "diveIn"
	InputFlyOut        = "flyOut"
	InputRegenerate    = "regenerate"
	InputMusicVolume   = "musicVolume"
	InputSfxVolume     = "sfxVolume"
	InputResize        = "resize"
	InputPreviewClosed = "previewClosed"
)

// Vec is the wire form of a vector.
type Vec [3]float64

func vec(v r3.Vector) Vec { return Vec{v.X, v.Y, v.Z} }

// RenderCommand mutates the client scene graph. Only the fields relevant to
// Op are set.
type RenderCommand struct {
	Op      string   `json:"op"`
	Handle  uint64   `json:"h,omitempty"`
	Parent  uint64   `json:"parent,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Spec    any      `json:"spec,omitempty"`
	Vec     *Vec     `json:"v,omitempty"`
	Target  *Vec     `json:"target,omitempty"`
	Value   *float64 `json:"value,omitempty"`
	Name    string   `json:"name,omitempty"`
	Visible *bool    `json:"visible,omitempty"`
}

// Render command ops.
const (
	OpCreate   = "create"
	OpOpacity  = "opacity"
	OpScale    = "scale"
	OpPosition = "position"
	OpRotation = "rotation"
	OpVisible  = "visible"
	OpUniform  = "uniform"
	OpLookAt   = "lookAt"
	OpCamera   = "camera"
	OpDestroy  = "destroy"
)

type AudioCommand struct {
	Op    string   `json:"op"`
	ID    string   `json:"id,omitempty"`
	Loop  *bool    `json:"loop,omitempty"`
	Value *float64 `json:"value,omitempty"`
}

// Audio command ops.
const (
	AudioPlaySfx     = "playSfx"
	AudioPlayMusic   = "playMusic"
	AudioPlay        = "play"
	AudioStop        = "stop"
	AudioLoop        = "loop"
	AudioVolume      = "volume"
	AudioMusicVolume = "musicVolume"
	AudioSfxVolume   = "sfxVolume"
)

type eventPayload struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

type errorPayload struct {
	Request string `json:"request,omitempty"`
	Message string `json:"message"`
}

type helloPayload struct {
	SessionID uuid.UUID `json:"sessionId"`
	Layout    string    `json:"layout,omitempty"`
	State     string    `json:"state"`
	Stars     int       `json:"stars"`
}

type pointerInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type orbitInput struct {
	DAzimuth float64 `json:"dAzimuth"`
	DPolar   float64 `json:"dPolar"`
}

type zoomInput struct {
	Factor float64 `json:"factor"`
}

type panInput struct {
	DX float64 `json:"dx"`
	DZ float64 `json:"dz"`
}

type diveInInput struct {
	StarID int `json:"starId"`
}

type volumeInput struct {
	Value float64 `json:"value"`
}

// CreateRequest opens a session on a saved layout, or a fresh galaxy when
// Layout is empty or cannot be loaded.
type CreateRequest struct {
	Layout   string         `json:"layout"`
	Viewport scene.Viewport `json:"viewport"`
}

// Info is the public view of a session.
type Info struct {
	ID        uuid.UUID `json:"id"`
	Layout    string    `json:"layout,omitempty"`
	State     string    `json:"state"`
	Attached  bool      `json:"attached"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}
