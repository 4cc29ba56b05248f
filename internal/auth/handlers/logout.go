package handlers

import (
	"log/slog"
	"net/http"

	"galaxy-explorer/internal/shared/cookies"
	"galaxy-explorer/internal/shared/response"
)

type LogoutHandler struct{}

func NewLogoutHandler() *LogoutHandler {
	return &LogoutHandler{}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "logout", "remote_addr", r.RemoteAddr)

	cookies.ClearAuthCookie(w)

	logger.Info("Explorer logged out")
	response.Success(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
