package scene

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/golang/geo/r3"

	"galaxy-explorer/internal/starfield"
)

type fakeObject struct {
	kind      string
	name      string
	parent    Handle
	opacity   float64
	scale     r3.Vector
	position  r3.Vector
	rotation  r3.Vector
	visible   bool
	uniforms  map[string]float64
	destroyed bool
	stars     int
}

type fakeRenderer struct {
	next    Handle
	objects map[Handle]*fakeObject
	hits    []Handle

	camPos, camTarget r3.Vector
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{objects: make(map[Handle]*fakeObject)}
}

func (f *fakeRenderer) add(o *fakeObject) Handle {
	f.next++
	if o.uniforms == nil {
		o.uniforms = make(map[string]float64)
	}
	f.objects[f.next] = o
	return f.next
}

func (f *fakeRenderer) CreateGroup(parent Handle) Handle {
	return f.add(&fakeObject{kind: "group", parent: parent, visible: true, scale: r3.Vector{X: 1, Y: 1, Z: 1}})
}

func (f *fakeRenderer) CreateSprite(parent Handle, s SpriteSpec) Handle {
	return f.add(&fakeObject{kind: "sprite", name: s.Name, parent: parent, opacity: s.Opacity, scale: s.Scale, position: s.Position, visible: true})
}

func (f *fakeRenderer) CreateQuad(parent Handle, s QuadSpec) Handle {
	return f.add(&fakeObject{kind: "quad", name: s.Name, parent: parent, opacity: s.Opacity, scale: s.Size, visible: s.Visible})
}

func (f *fakeRenderer) CreateSolarSystem(parent Handle, s SolarSystemSpec) Handle {
	return f.add(&fakeObject{kind: "solar", name: "solarSystem", parent: parent, position: s.Position, visible: true, scale: r3.Vector{X: 1, Y: 1, Z: 1}})
}

func (f *fakeRenderer) CreatePoints(parent Handle, s PointsSpec) Handle {
	return f.add(&fakeObject{kind: "points", name: s.Name, parent: parent, visible: s.Visible, stars: len(s.Stars), scale: r3.Vector{X: 1, Y: 1, Z: 1}})
}

func (f *fakeRenderer) SetOpacity(h Handle, v float64)       { f.objects[h].opacity = v }
func (f *fakeRenderer) SetScale(h Handle, v r3.Vector)       { f.objects[h].scale = v }
func (f *fakeRenderer) SetPosition(h Handle, v r3.Vector)    { f.objects[h].position = v }
func (f *fakeRenderer) SetRotation(h Handle, v r3.Vector)    { f.objects[h].rotation = v }
func (f *fakeRenderer) SetVisible(h Handle, v bool)          { f.objects[h].visible = v }
func (f *fakeRenderer) LookAt(Handle, r3.Vector)             {}
func (f *fakeRenderer) Destroy(h Handle)                     { f.objects[h].destroyed = true }
func (f *fakeRenderer) Raycast(float64, float64) []Handle    { return f.hits }
func (f *fakeRenderer) SetCamera(position, target r3.Vector) { f.camPos, f.camTarget = position, target }

func (f *fakeRenderer) SetUniform(h Handle, name string, v float64) {
	f.objects[h].uniforms[name] = v
}

// live returns the non destroyed objects with the given name.
func (f *fakeRenderer) live(name string) []Handle {
	var out []Handle
	for h, o := range f.objects {
		if o.name == name && !o.destroyed {
			out = append(out, h)
		}
	}
	return out
}

type fakeSound struct {
	playing bool
	loop    bool
	volume  float64
	plays   int
}

func (s *fakeSound) Play() {
	s.playing = true
	s.plays++
}

func (s *fakeSound) Stop()               { s.playing = false }
func (s *fakeSound) IsPlaying() bool     { return s.playing }
func (s *fakeSound) SetLoop(loop bool)   { s.loop = loop }
func (s *fakeSound) SetVolume(v float64) { s.volume = v }

type fakeAudio struct {
	sfx    []string
	music  []string
	sounds map[string]*fakeSound
	musicV float64
	sfxV   float64
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{sounds: make(map[string]*fakeSound), musicV: 1, sfxV: 1}
}

func (a *fakeAudio) PlaySfx(id string)   { a.sfx = append(a.sfx, id) }
func (a *fakeAudio) PlayMusic(id string) { a.music = append(a.music, id) }

func (a *fakeAudio) Sound(id string) Sound {
	s, ok := a.sounds[id]
	if !ok {
		s = &fakeSound{}
		a.sounds[id] = s
	}
	return s
}

func (a *fakeAudio) SetMusicVolume(v float64) { a.musicV = v }
func (a *fakeAudio) SetSfxVolume(v float64)   { a.sfxV = v }
func (a *fakeAudio) SfxVolume() float64       { return a.sfxV }

func (a *fakeAudio) played(id string) int {
	n := 0
	for _, s := range a.sfx {
		if s == id {
			n++
		}
	}
	return n
}

type fakeBus struct {
	events []Event
}

func (b *fakeBus) Publish(e Event) { b.events = append(b.events, e) }

func (b *fakeBus) named(name string) []Event {
	var out []Event
	for _, e := range b.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	c     *Controller
	r     *fakeRenderer
	audio *fakeAudio
	bus   *fakeBus
}

var testViewport = Viewport{Width: 1600, Height: 900, Desktop: true}

func testDeps(r *fakeRenderer, a *fakeAudio, b *fakeBus) Deps {
	return Deps{
		Renderer: r,
		Audio:    a,
		Events:   b,
		Rand:     rand.New(rand.NewPCG(7, 11)),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newHarness(field *starfield.Field) (*harness, error) {
	h := &harness{r: newFakeRenderer(), audio: newFakeAudio(), bus: &fakeBus{}}
	cfg := DefaultConfig()
	c, err := NewController(cfg, testDeps(h.r, h.audio, h.bus), field, testViewport)
	h.c = c
	return h, err
}

// step advances the controller by n ticks of dt seconds.
func (h *harness) step(n int, dt float64) {
	for i := 0; i < n; i++ {
		h.c.Update(dt)
	}
}

// pickableField places a star right under the picking point of the intro
// camera's final position.
func pickableField() *starfield.Field {
	look := LookPoint(introCameraEnd, DefaultConfig().PickOffset)
	return &starfield.Field{
		Galaxy: starfield.DefaultGalaxySettings(),
		Stars: []starfield.Star{
			{
				ID:    0,
				Pos:   starfield.Vec3{X: look.X, Z: look.Z},
				Color: starfield.RGBA{R: 1, G: 0.5, B: 0.2, A: 1},
				Scale: 1,
				StarInfo: &starfield.StarInfo{
					Name:        "Vega",
					Description: "A bright star",
					Level:       2,
					RaceID:      1,
					PlanetSlots: 3,
					Energy:      40,
					Life:        60,
				},
			},
			{ID: 1, Pos: starfield.Vec3{X: -look.X, Z: -look.Z}, Scale: 1},
		},
		BlinkStars: []starfield.Star{},
	}
}
