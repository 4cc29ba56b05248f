package session

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"

	"galaxy-explorer/internal/scene"
)

// Remote implements the scene collaborators for a browser client. It keeps a
// shadow of the scene graph, enough to ray cast on the server, and queues the
// commands the client must replay. A Remote belongs to one session goroutine.
type Remote struct {
	nodes map[scene.Handle]*node
	next  scene.Handle

	render []RenderCommand
	latest map[setKey]int
	audio  []AudioCommand
	events []scene.Event

	sounds      map[string]*remoteSound
	musicVolume float64
	sfxVolume   float64

	camPos, camTarget r3.Vector
	camDirty          bool
	fov               float64
	viewport          scene.Viewport
}

type node struct {
	parent      scene.Handle
	kind        string
	position    r3.Vector
	scale       r3.Vector
	opacity     float64
	visible     bool
	interactive bool
}

type setKey struct {
	op     string
	handle scene.Handle
	name   string
}

func NewRemote(vp scene.Viewport, fov float64) *Remote {
	return &Remote{
		nodes:       make(map[scene.Handle]*node),
		latest:      make(map[setKey]int),
		sounds:      make(map[string]*remoteSound),
		musicVolume: 1,
		sfxVolume:   1,
		fov:         fov,
		viewport:    vp,
	}
}

func (r *Remote) SetViewport(vp scene.Viewport) {
	r.viewport = vp
}

func (r *Remote) create(parent scene.Handle, kind string, n *node, spec any) scene.Handle {
	r.next++
	h := r.next
	n.parent = parent
	n.kind = kind
	r.nodes[h] = n
	r.render = append(r.render, RenderCommand{Op: OpCreate, Handle: uint64(h), Parent: uint64(parent), Kind: kind, Spec: spec})
	return h
}

// set queues a property change, replacing an earlier change of the same
// property that has not been flushed yet.
func (r *Remote) set(cmd RenderCommand, name string) {
	key := setKey{op: cmd.Op, handle: scene.Handle(cmd.Handle), name: name}
	if i, ok := r.latest[key]; ok {
		r.render[i] = cmd
		return
	}
	r.latest[key] = len(r.render)
	r.render = append(r.render, cmd)
}

func (r *Remote) CreateGroup(parent scene.Handle) scene.Handle {
	return r.create(parent, "group", &node{scale: r3.Vector{X: 1, Y: 1, Z: 1}, opacity: 1, visible: true}, nil)
}

func (r *Remote) CreateSprite(parent scene.Handle, spec scene.SpriteSpec) scene.Handle {
	return r.create(parent, "sprite", &node{
		position:    spec.Position,
		scale:       spec.Scale,
		opacity:     spec.Opacity,
		visible:     true,
		interactive: spec.Interactive,
	}, spec)
}

func (r *Remote) CreateQuad(parent scene.Handle, spec scene.QuadSpec) scene.Handle {
	return r.create(parent, "quad", &node{scale: r3.Vector{X: 1, Y: 1, Z: 1}, opacity: spec.Opacity, visible: spec.Visible}, spec)
}

func (r *Remote) CreateSolarSystem(parent scene.Handle, spec scene.SolarSystemSpec) scene.Handle {
	return r.create(parent, "solarSystem", &node{position: spec.Position, scale: r3.Vector{X: 1, Y: 1, Z: 1}, opacity: 1, visible: true}, spec)
}

func (r *Remote) CreatePoints(parent scene.Handle, spec scene.PointsSpec) scene.Handle {
	return r.create(parent, "points", &node{scale: r3.Vector{X: 1, Y: 1, Z: 1}, opacity: 1, visible: spec.Visible}, spec)
}

func (r *Remote) SetOpacity(h scene.Handle, v float64) {
	if n, ok := r.nodes[h]; ok {
		n.opacity = v
		r.set(RenderCommand{Op: OpOpacity, Handle: uint64(h), Value: &v}, "")
	}
}

func (r *Remote) SetScale(h scene.Handle, v r3.Vector) {
	if n, ok := r.nodes[h]; ok {
		n.scale = v
		w := vec(v)
		r.set(RenderCommand{Op: OpScale, Handle: uint64(h), Vec: &w}, "")
	}
}

func (r *Remote) SetPosition(h scene.Handle, v r3.Vector) {
	if n, ok := r.nodes[h]; ok {
		n.position = v
		w := vec(v)
		r.set(RenderCommand{Op: OpPosition, Handle: uint64(h), Vec: &w}, "")
	}
}

func (r *Remote) SetRotation(h scene.Handle, euler r3.Vector) {
	if _, ok := r.nodes[h]; ok {
		w := vec(euler)
		r.set(RenderCommand{Op: OpRotation, Handle: uint64(h), Vec: &w}, "")
	}
}

func (r *Remote) SetVisible(h scene.Handle, visible bool) {
	if n, ok := r.nodes[h]; ok {
		n.visible = visible
		r.set(RenderCommand{Op: OpVisible, Handle: uint64(h), Visible: &visible}, "")
	}
}

func (r *Remote) SetUniform(h scene.Handle, name string, v float64) {
	if _, ok := r.nodes[h]; ok {
		r.set(RenderCommand{Op: OpUniform, Handle: uint64(h), Name: name, Value: &v}, name)
	}
}

func (r *Remote) LookAt(h scene.Handle, target r3.Vector) {
	if _, ok := r.nodes[h]; ok {
		w := vec(target)
		r.set(RenderCommand{Op: OpLookAt, Handle: uint64(h), Target: &w}, "")
	}
}

func (r *Remote) SetCamera(position, target r3.Vector) {
	if position == r.camPos && target == r.camTarget {
		return
	}
	r.camPos, r.camTarget = position, target
	r.camDirty = true
}

// Destroy removes h and its descendants from the shadow graph. The client
// does the same on its side.
func (r *Remote) Destroy(h scene.Handle) {
	if _, ok := r.nodes[h]; !ok {
		return
	}
	r.removeSubtree(h)
	r.render = append(r.render, RenderCommand{Op: OpDestroy, Handle: uint64(h)})
}

func (r *Remote) removeSubtree(h scene.Handle) {
	delete(r.nodes, h)
	for child, n := range r.nodes {
		if n.parent == h {
			r.removeSubtree(child)
		}
	}
}

type worldNode struct {
	position r3.Vector
	scale    r3.Vector
	visible  bool
}

// world resolves the node transform through its ancestors. Rotations are not
// applied: pickable sprites only live under unrotated groups.
func (r *Remote) world(h scene.Handle) (worldNode, bool) {
	n, ok := r.nodes[h]
	if !ok {
		return worldNode{}, false
	}
	w := worldNode{position: n.position, scale: n.scale, visible: n.visible}
	for p := n.parent; p != 0; {
		pn, ok := r.nodes[p]
		if !ok {
			return worldNode{}, false
		}
		w.position = pn.position.Add(mulElem(w.position, pn.scale))
		w.scale = mulElem(w.scale, pn.scale)
		w.visible = w.visible && pn.visible
		p = pn.parent
	}
	return w, true
}

func mulElem(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// Raycast returns the visible interactive sprites under the point, nearest
// first. A sprite is hit when the ray passes within half its world size of
// its center.
func (r *Remote) Raycast(ndcX, ndcY float64) []scene.Handle {
	cam := scene.OrbitCamera{Position: r.camPos, Target: r.camTarget, FOV: r.fov}
	if cam.Distance() == 0 {
		return nil
	}
	origin, dir := cam.Ray(ndcX, ndcY, r.viewport.Aspect())

	type hit struct {
		h scene.Handle
		t float64
	}
	var hits []hit
	for h, n := range r.nodes {
		if !n.interactive || n.opacity <= 0 {
			continue
		}
		w, ok := r.world(h)
		if !ok || !w.visible {
			continue
		}
		rel := w.position.Sub(origin)
		t := rel.Dot(dir)
		if t <= 0 {
			continue
		}
		radius := math.Max(math.Abs(w.scale.X), math.Abs(w.scale.Y)) / 2
		if rel.Sub(dir.Mul(t)).Norm() <= radius {
			hits = append(hits, hit{h: h, t: t})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].t == hits[j].t {
			return hits[i].h < hits[j].h
		}
		return hits[i].t < hits[j].t
	})

	out := make([]scene.Handle, len(hits))
	for i, h := range hits {
		out[i] = h.h
	}
	return out
}

func (r *Remote) PlaySfx(id string) {
	r.audio = append(r.audio, AudioCommand{Op: AudioPlaySfx, ID: id})
}

func (r *Remote) PlayMusic(id string) {
	r.audio = append(r.audio, AudioCommand{Op: AudioPlayMusic, ID: id})
	r.sound(id).playing = true
}

func (r *Remote) Sound(id string) scene.Sound {
	return r.sound(id)
}

func (r *Remote) sound(id string) *remoteSound {
	s, ok := r.sounds[id]
	if !ok {
		s = &remoteSound{r: r, id: id, volume: 1}
		r.sounds[id] = s
	}
	return s
}

func (r *Remote) SetMusicVolume(v float64) {
	r.musicVolume = v
	r.audio = append(r.audio, AudioCommand{Op: AudioMusicVolume, Value: &v})
}

func (r *Remote) SetSfxVolume(v float64) {
	r.sfxVolume = v
	r.audio = append(r.audio, AudioCommand{Op: AudioSfxVolume, Value: &v})
}

func (r *Remote) SfxVolume() float64 {
	return r.sfxVolume
}

func (r *Remote) Publish(e scene.Event) {
	r.events = append(r.events, e)
}

// Outbox is everything queued since the previous Drain.
type Outbox struct {
	Render []RenderCommand
	Audio  []AudioCommand
	Events []scene.Event
}

func (o Outbox) Empty() bool {
	return len(o.Render) == 0 && len(o.Audio) == 0 && len(o.Events) == 0
}

func (r *Remote) Drain() Outbox {
	if r.camDirty {
		p, t := vec(r.camPos), vec(r.camTarget)
		r.render = append(r.render, RenderCommand{Op: OpCamera, Vec: &p, Target: &t})
		r.camDirty = false
	}
	out := Outbox{Render: r.render, Audio: r.audio, Events: r.events}
	r.render, r.audio, r.events = nil, nil, nil
	clear(r.latest)
	return out
}

// remoteSound tracks playback state locally; the client is told about every
// change.
type remoteSound struct {
	r       *Remote
	id      string
	playing bool
	loop    bool
	volume  float64
}

func (s *remoteSound) Play() {
	s.playing = true
	s.r.audio = append(s.r.audio, AudioCommand{Op: AudioPlay, ID: s.id})
}

func (s *remoteSound) Stop() {
	s.playing = false
	s.r.audio = append(s.r.audio, AudioCommand{Op: AudioStop, ID: s.id})
}

func (s *remoteSound) IsPlaying() bool {
	return s.playing
}

func (s *remoteSound) SetLoop(loop bool) {
	s.loop = loop
	s.r.audio = append(s.r.audio, AudioCommand{Op: AudioLoop, ID: s.id, Loop: &loop})
}

func (s *remoteSound) SetVolume(v float64) {
	s.volume = v
	s.r.audio = append(s.r.audio, AudioCommand{Op: AudioVolume, ID: s.id, Value: &v})
}
