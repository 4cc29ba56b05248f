package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"galaxy-explorer/internal/session"
	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/shared/response"
)

const maxCreateBytes = 1 << 16

type SessionHandler struct {
	manager  *session.Manager
	upgrader websocket.Upgrader
}

// NewSessionHandler upgrades websocket requests that pass checkOrigin. A nil
// checkOrigin accepts every origin.
func NewSessionHandler(manager *session.Manager, checkOrigin func(*http.Request) bool) *SessionHandler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &SessionHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16384,
			CheckOrigin:     checkOrigin,
		},
	}
}

type createResponse struct {
	session.Info
	SocketPath string `json:"socketPath"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_session")

	var req session.CreateRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxCreateBytes)).Decode(&req)
	if err != nil && !stderrors.Is(err, io.EOF) {
		response.Error(w, r, logger, errors.WrapValidation("invalid session request", err))
		return
	}

	s, err := h.manager.Create(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	info := s.Info()
	response.Success(w, http.StatusCreated, createResponse{
		Info:       info,
		SocketPath: "/api/sessions/" + info.ID.String() + "/ws",
	})
}

// List is mounted behind the admin middleware.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, h.manager.List())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_session")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if err := h.manager.Delete(id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.NoContent(w)
}

// Connect upgrades to a websocket and runs the session until the client leaves.
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "session_socket", "remote_addr", r.RemoteAddr)

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if _, err := h.manager.Get(id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered the client.
		logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	if err := h.manager.Serve(r.Context(), id, conn); err != nil {
		logger.Warn("Session ended with error", "session_id", id.String(), "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errors.WrapValidation("invalid session id", err)
	}
	return id, nil
}
