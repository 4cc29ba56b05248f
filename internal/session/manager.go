package session

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"galaxy-explorer/internal/layout"
	"galaxy-explorer/internal/scene"
	"galaxy-explorer/internal/shared/errors"
)

type Config struct {
	TickRate    int
	MaxSessions int
	// IdleTimeout bounds how long a created session may wait for its client.
	IdleTimeout time.Duration
	// DefaultLayout is loaded when a request names no layout.
	DefaultLayout string
	Scene         scene.Config
}

var defaultViewport = scene.Viewport{Width: 1280, Height: 720, Desktop: true}

// Manager owns the hosted sessions. A session serves a single connection;
// when the client leaves the session is released.
type Manager struct {
	cfg    Config
	store  layout.StateStore
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager(cfg Config, store layout.StateStore, logger *slog.Logger) *Manager {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 5 * time.Minute
	}
	return &Manager{
		cfg:      cfg,
		store:    store,
		logger:   logger.With("component", "session_manager"),
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (m *Manager) tickInterval() time.Duration {
	return time.Second / time.Duration(m.cfg.TickRate)
}

// Create builds a scene for a new session. The layout is loaded from the
// store when named; a missing or broken layout yields a generated galaxy.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*Session, error) {
	if req.Layout == "" {
		req.Layout = m.cfg.DefaultLayout
	}
	logger := m.logger.With("operation", "create", "layout", req.Layout)

	if req.Layout != "" && !layout.ValidName(req.Layout) {
		return nil, errors.Validationf("invalid layout name %q", req.Layout)
	}

	m.mu.Lock()
	full := len(m.sessions) >= m.cfg.MaxSessions
	m.mu.Unlock()
	if full {
		return nil, errors.Unavailable("session limit reached, try again later")
	}

	vp := req.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = defaultViewport
	}

	field := layout.Resolve(ctx, m.store, req.Layout, logger)
	loaded := field != nil

	remote := NewRemote(vp, 0)
	ctrl, err := scene.NewController(m.cfg.Scene, scene.Deps{
		Renderer: remote,
		Audio:    remote,
		Events:   remote,
		Logger:   m.logger,
	}, field, vp)
	if err != nil {
		return nil, errors.WrapInternal("failed to build galaxy scene", err)
	}
	remote.fov = ctrl.Camera().FOV

	name := req.Layout
	if !loaded {
		name = ""
	}
	s := newSession(uuid.New(), name, ctrl, remote, m.tickInterval(), m.logger)

	m.mu.Lock()
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		s.release()
		return nil, errors.Unavailable("session limit reached, try again later")
	}
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logger.Info("Session created",
		"session_id", s.ID.String(),
		"layout_loaded", loaded,
		"stars", len(ctrl.Field().Stars))
	return s, nil
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.NotFoundf("session %s not found", id)
	}
	return s, nil
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) List() []Info {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.Before(infos[j].CreatedAt) })
	return infos
}

// Serve runs the session for conn and releases it afterwards.
func (m *Manager) Serve(ctx context.Context, id uuid.UUID, conn Conn) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := s.Run(ctx, conn); err != nil {
		if stderrors.Is(err, ErrAlreadyAttached) || stderrors.Is(err, ErrClosed) {
			return errors.Conflictf("session %s: %v", id, err)
		}
		m.remove(s)
		return err
	}
	m.remove(s)
	return nil
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	if cur, ok := m.sessions[s.ID]; ok && cur == s {
		delete(m.sessions, s.ID)
	}
	m.mu.Unlock()
	s.stop()
	s.release()
}

// Delete ends a session. A running session is released by its Serve call.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return errors.NotFoundf("session %s not found", id)
	}

	if !s.stop() {
		s.release()
	}
	m.logger.Info("Session deleted", "session_id", id.String())
	return nil
}

// Reap deletes sessions whose client never attached within the idle timeout.
func (m *Manager) Reap(now time.Time) int {
	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		lastSeen, attached := s.idleSince()
		if !attached && now.Sub(lastSeen) > m.cfg.IdleTimeout {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		if !s.stop() {
			s.release()
		}
	}
	if len(stale) > 0 {
		m.logger.Info("Reaped idle sessions", "count", len(stale))
	}
	return len(stale)
}

// StartReaper runs Reap periodically until ctx is done.
func (m *Manager) StartReaper(ctx context.Context) {
	interval := m.cfg.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Reap(now)
		}
	}
}

// Shutdown stops every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		if !s.stop() {
			s.release()
		}
	}
	m.logger.Info("Sessions shut down", "count", len(sessions))
}
