package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"

	"galaxy-explorer/internal/layout"
	"galaxy-explorer/internal/middleware"
	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/shared/response"
)

const maxDocumentBytes = 16 << 20

type LayoutHandler struct {
	service *layout.Service
}

func NewLayoutHandler(service *layout.Service) *LayoutHandler {
	return &LayoutHandler{service: service}
}

func (h *LayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_layouts")

	layouts, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if layouts == nil {
		layouts = []layout.Layout{}
	}

	response.Success(w, http.StatusOK, layouts)
}

func (h *LayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_layout", "name", r.PathValue("name"))

	doc, err := h.service.Document(r.Context(), r.PathValue("name"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, json.RawMessage(doc))
}

func (h *LayoutHandler) Save(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "save_layout", "name", r.PathValue("name"))

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("failed to read layout document", err))
		return
	}

	saved, err := h.service.SaveDocument(r.Context(), claims.ExplorerID, r.PathValue("name"), data)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, saved)
}

func (h *LayoutHandler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "generate_layout", "name", r.PathValue("name"))

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req layout.GenerateRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	saved, err := h.service.Generate(r.Context(), claims.ExplorerID, r.PathValue("name"), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, saved)
}

func (h *LayoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_layout", "name", r.PathValue("name"))

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Delete(r.Context(), claims.ExplorerID, r.PathValue("name")); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.NoContent(w)
}
