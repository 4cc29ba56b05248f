package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"galaxy-explorer/internal/scene"
)

const (
	writeWait    = 10 * time.Second
	inputBacklog = 256
)

// Conn is the part of *websocket.Conn a session uses.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Session hosts one galaxy scene for one client. The controller and the
// remote are only touched by the goroutine running Run.
type Session struct {
	ID        uuid.UUID
	Layout    string
	CreatedAt time.Time

	ctrl   *scene.Controller
	remote *Remote
	tick   time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	state    scene.StateID
	attached bool
	lastSeen time.Time
	cancel   context.CancelFunc
	closed   bool

	releaseOnce sync.Once
}

func newSession(id uuid.UUID, layout string, ctrl *scene.Controller, remote *Remote, tick time.Duration, logger *slog.Logger) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Layout:    layout,
		CreatedAt: now,
		ctrl:      ctrl,
		remote:    remote,
		tick:      tick,
		logger:    logger.With("session_id", id.String()),
		state:     ctrl.State(),
		lastSeen:  now,
	}
}

func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.ID,
		Layout:    s.Layout,
		State:     s.state.String(),
		Attached:  s.attached,
		CreatedAt: s.CreatedAt,
		LastSeen:  s.lastSeen,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, s.attached
}

// ErrAlreadyAttached is returned when a second client connects to a session.
var ErrAlreadyAttached = stderrors.New("session already has a client")

// ErrClosed is returned when attaching to a session that has been shut down.
var ErrClosed = stderrors.New("session closed")

func (s *Session) attach(cancel context.CancelFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.attached {
		return ErrAlreadyAttached
	}
	s.attached = true
	s.cancel = cancel
	s.lastSeen = time.Now()
	return nil
}

func (s *Session) detach() {
	s.mu.Lock()
	s.attached = false
	s.cancel = nil
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// stop ends a running Run and marks the session unusable. The caller releases
// the controller once Run has returned.
func (s *Session) stop() (running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		return true
	}
	return false
}

// release frees the renderer objects of the scene. It must not run while Run
// is active.
func (s *Session) release() {
	s.releaseOnce.Do(s.ctrl.Close)
}

// Run drives the scene for conn until the client leaves or ctx ends. Input
// is read on its own goroutine and applied between ticks.
func (s *Session) Run(ctx context.Context, conn Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := s.attach(cancel); err != nil {
		return err
	}
	defer s.detach()

	s.logger.Info("Client attached to session")

	inputs := make(chan Envelope, inputBacklog)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(inputs)
		return s.readLoop(gctx, conn, inputs)
	})

	g.Go(func() error {
		// Closing the connection unblocks the reader.
		defer func() { _ = conn.Close() }()
		return s.tickLoop(gctx, conn, inputs)
	})

	err := g.Wait()
	if isClientGone(err) || stderrors.Is(err, context.Canceled) {
		s.logger.Info("Client detached from session")
		return nil
	}
	s.logger.Warn("Session stopped with error", "error", err)
	return err
}

func isClientGone(err error) bool {
	return err == nil || websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure,
	)
}

func (s *Session) readLoop(ctx context.Context, conn Conn, inputs chan<- Envelope) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Debug("Dropping malformed client message", "error", err)
			continue
		}

		select {
		case inputs <- env:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Session) tickLoop(ctx context.Context, conn Conn, inputs <-chan Envelope) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	if err := s.write(conn, outEnvelope{Type: TypeHello, Payload: helloPayload{
		SessionID: s.ID,
		Layout:    s.Layout,
		State:     s.ctrl.State().String(),
		Stars:     len(s.ctrl.Field().Stars),
	}}); err != nil {
		return err
	}
	if err := s.flush(conn); err != nil {
		return err
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case env, ok := <-inputs:
			if !ok {
				return nil
			}
			s.touch()
			if err := s.apply(env); err != nil {
				if werr := s.write(conn, outEnvelope{Type: TypeError, Payload: errorPayload{Request: env.Type, Message: err.Error()}}); werr != nil {
					return werr
				}
			}

		case now := <-ticker.C:
			s.ctrl.Update(now.Sub(last).Seconds())
			last = now
			s.mu.Lock()
			s.state = s.ctrl.State()
			s.mu.Unlock()
			if err := s.flush(conn); err != nil {
				return err
			}
		}
	}
}

// apply feeds one client message to the controller. Rejected requests come
// back as errors for the client; the scene is left unchanged.
func (s *Session) apply(env Envelope) error {
	vp := s.ctrl.Viewport()

	switch env.Type {
	case InputPointerMove:
		var p pointerInput
		if err := decode(env, &p); err != nil {
			return err
		}
		s.ctrl.PointerMove(vp.NDC(p.X, p.Y))
	case InputPointerDown:
		var p pointerInput
		if err := decode(env, &p); err != nil {
			return err
		}
		s.ctrl.PointerDown(p.X, p.Y)
	case InputPointerUp:
		var p pointerInput
		if err := decode(env, &p); err != nil {
			return err
		}
		s.ctrl.PointerUp(p.X, p.Y)
	case InputOrbit:
		var in orbitInput
		if err := decode(env, &in); err != nil {
			return err
		}
		s.ctrl.Orbit(in.DAzimuth, in.DPolar)
	case InputZoom:
		var in zoomInput
		if err := decode(env, &in); err != nil {
			return err
		}
		s.ctrl.Zoom(in.Factor)
	case InputPan:
		var in panInput
		if err := decode(env, &in); err != nil {
			return err
		}
		s.ctrl.Pan(in.DX, in.DZ)
	case InputDiveIn:
		var in diveInInput
		if err := decode(env, &in); err != nil {
			return err
		}
		return s.ctrl.DiveIn(in.StarID)
	case InputFlyOut:
		return s.ctrl.FlyOut()
	case InputRegenerate:
		return s.ctrl.Regenerate()
	case InputMusicVolume:
		var in volumeInput
		if err := decode(env, &in); err != nil {
			return err
		}
		s.ctrl.SetMusicVolume(in.Value)
	case InputSfxVolume:
		var in volumeInput
		if err := decode(env, &in); err != nil {
			return err
		}
		s.ctrl.SetSFXVolume(in.Value)
	case InputResize:
		var next scene.Viewport
		if err := decode(env, &next); err != nil {
			return err
		}
		s.ctrl.Resize(next)
		s.remote.SetViewport(next)
	case InputPreviewClosed:
		s.ctrl.StarPreviewClosed()
	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
	return nil
}

func decode(env Envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s: payload required", env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", env.Type, err)
	}
	return nil
}

// flush sends the queued render and audio commands, then the events, so the
// client has the objects an event may refer to.
func (s *Session) flush(conn Conn) error {
	out := s.remote.Drain()
	if out.Empty() {
		return nil
	}
	if len(out.Render) > 0 {
		if err := s.write(conn, outEnvelope{Type: TypeRender, Payload: out.Render}); err != nil {
			return err
		}
	}
	if len(out.Audio) > 0 {
		if err := s.write(conn, outEnvelope{Type: TypeAudio, Payload: out.Audio}); err != nil {
			return err
		}
	}
	for _, e := range out.Events {
		if err := s.write(conn, outEnvelope{Type: TypeEvent, Payload: eventPayload{Name: e.EventName(), Data: e}}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) write(conn Conn, env outEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Type, err)
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
