// Package tween drives time-based interpolation of numeric properties.
//
// A Scheduler is advanced explicitly once per tick; nothing runs on its own
// goroutine. Tweens own no target: they report values through OnUpdate and the
// caller applies them.
package tween

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type Handle uint64

// epsilon absorbs float drift when delays and durations are summed.
const epsilon = 1e-9

// Spec describes one interpolation. Durations and delays are in seconds.
type Spec struct {
	From       float64
	To         float64
	Duration   float64
	Delay      float64
	Ease       ease.TweenFunc
	OnStart    func()
	OnUpdate   func(v float64)
	OnComplete func()
}

type entry struct {
	handle    Handle
	spec      Spec
	tw        *gween.Tween
	elapsed   float64
	started   bool
	finished  bool
	cancelled bool
}

type Scheduler struct {
	next    Handle
	entries []*entry
	index   map[Handle]*entry
}

func NewScheduler() *Scheduler {
	return &Scheduler{index: make(map[Handle]*entry)}
}

// Schedule registers a tween and returns its handle. The tween starts
// advancing on the next Update call.
func (s *Scheduler) Schedule(spec Spec) Handle {
	if spec.Ease == nil {
		spec.Ease = ease.Linear
	}
	if spec.Delay < 0 {
		spec.Delay = 0
	}

	s.next++
	e := &entry{handle: s.next, spec: spec}
	if spec.Duration > 0 {
		// gween steps in float32, see finish.
		e.tw = gween.New(float32(spec.From), float32(spec.To), float32(spec.Duration), spec.Ease)
	}
	s.entries = append(s.entries, e)
	s.index[e.handle] = e
	return e.handle
}

// After runs fn once delay seconds have elapsed.
func (s *Scheduler) After(delay float64, fn func()) Handle {
	return s.Schedule(Spec{Delay: delay, OnComplete: fn})
}

// Cancel stops a tween without firing its completion callback.
func (s *Scheduler) Cancel(h Handle) {
	if e, ok := s.index[h]; ok {
		e.cancelled = true
		delete(s.index, h)
	}
}

// Active reports whether h is still pending or running.
func (s *Scheduler) Active(h Handle) bool {
	_, ok := s.index[h]
	return ok
}

func (s *Scheduler) Len() int {
	return len(s.index)
}

// Update advances every tween by dt seconds. Tweens scheduled from callbacks
// during this call begin advancing on the following Update.
func (s *Scheduler) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}

	n := len(s.entries)
	for i := 0; i < n; i++ {
		e := s.entries[i]
		if e.cancelled || e.finished {
			continue
		}
		s.advance(e, dt)
	}

	live := s.entries[:0]
	for _, e := range s.entries {
		if !e.cancelled && !e.finished {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(s.entries); i++ {
		s.entries[i] = nil
	}
	s.entries = live
}

func (s *Scheduler) advance(e *entry, dt float64) {
	e.elapsed += dt
	if e.elapsed < e.spec.Delay-epsilon {
		return
	}

	if !e.started {
		e.started = true
		if e.spec.OnStart != nil {
			e.spec.OnStart()
		}
		if e.cancelled {
			return
		}
	}

	local := e.elapsed - e.spec.Delay
	if e.tw == nil || local >= e.spec.Duration-epsilon {
		s.finish(e)
		return
	}

	v, done := e.tw.Set(float32(local))
	if done {
		s.finish(e)
		return
	}
	if e.spec.OnUpdate != nil {
		e.spec.OnUpdate(float64(v))
	}
}

func (s *Scheduler) finish(e *entry) {
	e.finished = true
	delete(s.index, e.handle)
	// Intermediate values have float32 precision; the last update is the exact spec.To.
	if e.tw != nil && e.spec.OnUpdate != nil {
		e.spec.OnUpdate(e.spec.To)
	}
	if e.spec.OnComplete != nil {
		e.spec.OnComplete()
	}
}
