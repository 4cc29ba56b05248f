package response

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy-explorer/internal/shared/errors"
)

func TestErrorResponses(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		status     int
		errType    string
		message    string
		retryAfter string
	}{
		{"not found", errors.NotFoundf("session %s not found", "x"), http.StatusNotFound, "not_found", "session x not found", ""},
		{"validation", errors.Validation("bad body"), http.StatusBadRequest, "validation", "bad body", ""},
		{"rate limited", errors.RateLimited("slow down"), http.StatusTooManyRequests, "rate_limited", "slow down", "1"},
		{"unavailable", errors.Unavailable("full"), http.StatusServiceUnavailable, "unavailable", "full", "5"},
		{"internal hides cause", errors.WrapInternal("db", stderrors.New("secret dsn")), http.StatusInternalServerError, "internal", "internal server error", ""},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, "internal", "internal server error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), logger, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.retryAfter, rec.Header().Get("Retry-After"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.errType, body.Error)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.status, body.Code)
		})
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
