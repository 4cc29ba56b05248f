package tween

// Group tracks the tweens started by one owner so they can be awaited or
// cancelled together.
type Group struct {
	s       *Scheduler
	handles []Handle
}

func NewGroup(s *Scheduler) *Group {
	return &Group{s: s}
}

func (g *Group) Add(spec Spec) Handle {
	h := g.s.Schedule(spec)
	g.handles = append(g.handles, h)
	return h
}

func (g *Group) After(delay float64, fn func()) Handle {
	h := g.s.After(delay, fn)
	g.handles = append(g.handles, h)
	return h
}

// Done reports whether every tween in the group has completed or been cancelled.
func (g *Group) Done() bool {
	for _, h := range g.handles {
		if g.s.Active(h) {
			return false
		}
	}
	return true
}

func (g *Group) Cancel() {
	for _, h := range g.handles {
		g.s.Cancel(h)
	}
	g.handles = g.handles[:0]
}

func (g *Group) Len() int {
	return len(g.handles)
}
