package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy-explorer/internal/auth"
	"galaxy-explorer/internal/layout"
	"galaxy-explorer/internal/middleware"
	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/starfield"
)

type fakeStorage struct {
	mu      sync.Mutex
	layouts map[string]*layout.Layout
}

func (f *fakeStorage) Save(_ context.Context, ownerID int, name string, doc []byte, starsCount int) (*layout.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.layouts[name]; ok && l.OwnerID != ownerID {
		return nil, errors.Conflictf("layout %s belongs to another explorer", name)
	}
	l := &layout.Layout{ID: len(f.layouts) + 1, Name: name, OwnerID: ownerID, StarsCount: starsCount, Document: doc}
	f.layouts[name] = l
	return l, nil
}

func (f *fakeStorage) GetByName(_ context.Context, name string) (*layout.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.layouts[name]
	if !ok {
		return nil, errors.NotFoundf("layout %s not found", name)
	}
	return l, nil
}

func (f *fakeStorage) List(context.Context) ([]layout.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []layout.Layout
	for _, l := range f.layouts {
		cp := *l
		cp.Document = nil
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeStorage) Delete(_ context.Context, ownerID int, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.layouts[name]
	if !ok || l.OwnerID != ownerID {
		return errors.NotFoundf("layout %s not found", name)
	}
	delete(f.layouts, name)
	return nil
}

func newTestHandler() *LayoutHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	galaxy := starfield.DefaultGalaxySettings()
	galaxy.StarsCount = 120
	galaxy.BlinkStarsCount = 20
	sky := starfield.DefaultSkySettings()
	sky.StarsCount = 10

	svc := layout.NewService(&fakeStorage{layouts: map[string]*layout.Layout{}},
		layout.NewCache(nil, time.Minute, logger), galaxy, sky, logger)
	return NewLayoutHandler(svc)
}

func asExplorer(r *http.Request, id int) *http.Request {
	return r.WithContext(middleware.WithClaims(r.Context(), &auth.Claims{ExplorerID: id, Username: "vega", Role: "user"}))
}

func newMux(h *LayoutHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/layouts", h.List)
	mux.HandleFunc("GET /api/layouts/{name}", h.Get)
	mux.HandleFunc("PUT /api/layouts/{name}", h.Save)
	mux.HandleFunc("POST /api/layouts/{name}/generate", h.Generate)
	mux.HandleFunc("DELETE /api/layouts/{name}", h.Delete)
	return mux
}

func TestGenerateThenFetchLayout(t *testing.T) {
	mux := newMux(newTestHandler())

	req := asExplorer(httptest.NewRequest(http.MethodPost, "/api/layouts/orion/generate", strings.NewReader(`{"seed":7}`)), 1)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var saved layout.Layout
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.Equal(t, "orion", saved.Name)
	assert.Equal(t, 1, saved.OwnerID)
	assert.Equal(t, 120, saved.StarsCount)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layouts/orion", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	field, err := layout.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, field.Stars, 120)
}

func TestSaveRejectsBadDocument(t *testing.T) {
	mux := newMux(newTestHandler())

	req := asExplorer(httptest.NewRequest(http.MethodPut, "/api/layouts/broken", strings.NewReader(`{"galaxyStarsData":`)), 1)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLayoutOwnership(t *testing.T) {
	mux := newMux(newTestHandler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, asExplorer(httptest.NewRequest(http.MethodPost, "/api/layouts/home/generate", nil), 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, asExplorer(httptest.NewRequest(http.MethodPost, "/api/layouts/home/generate", nil), 2))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, asExplorer(httptest.NewRequest(http.MethodDelete, "/api/layouts/home", nil), 2))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, asExplorer(httptest.NewRequest(http.MethodDelete, "/api/layouts/home", nil), 1))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layouts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMutationsRequireClaims(t *testing.T) {
	mux := newMux(newTestHandler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/layouts/home/generate", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetInvalidName(t *testing.T) {
	mux := newMux(newTestHandler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layouts/Not_Valid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
