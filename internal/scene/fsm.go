package scene

import (
	"errors"
	"fmt"
	"log/slog"
)

type StateID int

const (
	StateNone StateID = iota
	StateInit
	StateGalaxy
	StateToStar
	StateStar
	StateFromStar
)

func (s StateID) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateGalaxy:
		return "galaxy"
	case StateToStar:
		return "toStar"
	case StateStar:
		return "star"
	case StateFromStar:
		return "fromStar"
	default:
		return "none"
	}
}

// Transitional states run a timed animation and accept no requests.
func (s StateID) Transitional() bool {
	return s == StateInit || s == StateToStar || s == StateFromStar
}

var (
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrTransitionInFlight = errors.New("transition in flight")
	ErrUnknownState       = errors.New("unknown state")
)

// edges is the only cycle the machine may follow.
var edges = map[StateID]StateID{
	StateInit:     StateGalaxy,
	StateGalaxy:   StateToStar,
	StateToStar:   StateStar,
	StateStar:     StateFromStar,
	StateFromStar: StateGalaxy,
}

// TickTransition fires once its guard holds after the state's update.
type TickTransition struct {
	Target StateID
	Guard  func() bool
}

type State struct {
	OnEnter     func(params any)
	OnUpdate    func(dt float64)
	OnExit      func()
	Transitions []TickTransition
}

// Machine holds exactly one active state and walks the fixed state cycle.
type Machine struct {
	states      map[StateID]*State
	current     StateID
	timeInState float64
	onChange    func(from, to StateID)
	logger      *slog.Logger
}

func NewMachine(logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		states: make(map[StateID]*State),
		logger: logger.With("component", "galaxy_fsm"),
	}
}

func (m *Machine) Add(id StateID, s *State) {
	m.states[id] = s
}

// OnChange registers a callback invoked after every transition.
func (m *Machine) OnChange(fn func(from, to StateID)) {
	m.onChange = fn
}

func (m *Machine) Current() StateID {
	return m.current
}

func (m *Machine) TimeInState() float64 {
	return m.timeInState
}

// Start enters the initial state without checking edges.
func (m *Machine) Start(id StateID, params any) error {
	if _, ok := m.states[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownState, id)
	}
	m.enter(id, params)
	return nil
}

// Transition moves to target if the cycle allows it from the current state.
func (m *Machine) Transition(target StateID, params any) error {
	if _, ok := m.states[target]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownState, target)
	}
	if next, ok := edges[m.current]; !ok || next != target {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.current, target)
	}
	m.enter(target, params)
	return nil
}

func (m *Machine) enter(id StateID, params any) {
	from := m.current
	if s, ok := m.states[from]; ok && s.OnExit != nil {
		s.OnExit()
	}

	m.current = id
	m.timeInState = 0
	m.logger.Debug("State transition", "from", from.String(), "to", id.String())

	if s := m.states[id]; s.OnEnter != nil {
		s.OnEnter(params)
	}
	if m.onChange != nil {
		m.onChange(from, id)
	}
}

// Update runs the active state's update hook then its tick transitions.
func (m *Machine) Update(dt float64) {
	s, ok := m.states[m.current]
	if !ok {
		return
	}

	m.timeInState += dt
	if s.OnUpdate != nil {
		s.OnUpdate(dt)
	}

	for _, t := range s.Transitions {
		if t.Guard == nil || t.Guard() {
			if err := m.Transition(t.Target, nil); err != nil {
				m.logger.Error("Tick transition failed", "error", err)
			}
			return
		}
	}
}
