package handlers

import (
	"log/slog"
	"net/http"

	"galaxy-explorer/internal/explorer"
	"galaxy-explorer/internal/middleware"
	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/shared/response"
)

type ExplorersHandler struct {
	service *explorer.Service
}

func NewExplorersHandler(service *explorer.Service) *ExplorersHandler {
	return &ExplorersHandler{service: service}
}

// List is mounted behind the admin middleware.
func (h *ExplorersHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "explorers_list")

	explorers, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if explorers == nil {
		explorers = []explorer.Explorer{}
	}

	response.Success(w, http.StatusOK, explorers)
}

// Me returns the profile of the authenticated explorer.
func (h *ExplorersHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	e, err := h.service.GetByID(r.Context(), claims.ExplorerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, e)
}
