package scene

import (
	"github.com/golang/geo/r3"

	"galaxy-explorer/internal/quadtree"
	"galaxy-explorer/internal/starfield"
	"galaxy-explorer/internal/tween"
)

const markerScale = 2.0

// markerPool keeps interactive sprites on the stars near the camera. Sprites
// are recycled and the pool never grows past its size.
type markerPool struct {
	r       Renderer
	parent  Handle
	size    int
	created int

	active  map[int]Handle
	owner   map[Handle]int
	free    []Handle
	opacity float64
	stars   map[int]*starfield.Star
}

func newMarkerPool(r Renderer, parent Handle, size int) *markerPool {
	return &markerPool{
		r:       r,
		parent:  parent,
		size:    size,
		active:  make(map[int]Handle),
		owner:   make(map[Handle]int),
		opacity: 1,
		stars:   make(map[int]*starfield.Star),
	}
}

// Sync shows markers for exactly the given stars, up to the pool size.
func (m *markerPool) Sync(points []quadtree.Point[*starfield.Star]) {
	wanted := make(map[int]*starfield.Star, len(points))
	for _, p := range points {
		wanted[p.Data.ID] = p.Data
	}

	for id, h := range m.active {
		if _, ok := wanted[id]; ok {
			continue
		}
		m.r.SetVisible(h, false)
		delete(m.active, id)
		delete(m.owner, h)
		delete(m.stars, id)
		m.free = append(m.free, h)
	}

	for _, p := range points {
		star := p.Data
		if _, ok := m.active[star.ID]; ok {
			continue
		}
		h, ok := m.acquire()
		if !ok {
			break
		}
		m.r.SetPosition(h, star.Pos.R3())
		m.r.SetOpacity(h, m.opacity)
		m.r.SetVisible(h, true)
		m.active[star.ID] = h
		m.owner[h] = star.ID
		m.stars[star.ID] = star
	}
}

func (m *markerPool) acquire() (Handle, bool) {
	if n := len(m.free); n > 0 {
		h := m.free[n-1]
		m.free = m.free[:n-1]
		return h, true
	}
	if m.created >= m.size {
		return 0, false
	}
	m.created++
	h := m.r.CreateSprite(m.parent, SpriteSpec{
		Name:        "starPoint",
		Texture:     "star_point",
		Scale:       r3.Vector{X: markerScale, Y: markerScale, Z: markerScale},
		Color:       starfield.RGB{R: 1, G: 1, B: 1},
		Opacity:     m.opacity,
		Additive:    true,
		Interactive: true,
	})
	return h, true
}

// Star resolves a marker handle to its star. Faded out markers resolve to nothing.
func (m *markerPool) Star(h Handle) (*starfield.Star, bool) {
	if m.opacity <= 0 {
		return nil, false
	}
	id, ok := m.owner[h]
	if !ok {
		return nil, false
	}
	return m.stars[id], true
}

func (m *markerPool) Len() int {
	return len(m.active)
}

func (m *markerPool) setOpacity(v float64) {
	m.opacity = v
	for _, h := range m.active {
		m.r.SetOpacity(h, v)
	}
}

// Fade tweens every marker's opacity as part of group g.
func (m *markerPool) Fade(g *tween.Group, to, delay, duration float64) {
	g.Add(tween.Spec{
		From:     m.opacity,
		To:       to,
		Duration: duration,
		Delay:    delay,
		Ease:     tween.ByName(tween.EaseSineInOut),
		OnUpdate: m.setOpacity,
	})
}

// Clear hides every marker and returns it to the pool.
func (m *markerPool) Clear() {
	m.Sync(nil)
}

func (m *markerPool) Destroy() {
	m.Clear()
	for _, h := range m.free {
		m.r.Destroy(h)
	}
	m.free = nil
	m.created = 0
}
