package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"galaxy-explorer/internal/shared/errors"
)

// ErrorResponse represents the JSON error response sent to clients
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var statusByType = map[errors.ErrorType]int{
	errors.ErrorTypeNotFound:     http.StatusNotFound,
	errors.ErrorTypeValidation:   http.StatusBadRequest,
	errors.ErrorTypeConflict:     http.StatusConflict,
	errors.ErrorTypeUnauthorized: http.StatusUnauthorized,
	errors.ErrorTypeForbidden:    http.StatusForbidden,
	errors.ErrorTypeRateLimited:  http.StatusTooManyRequests,
	errors.ErrorTypeUnavailable:  http.StatusServiceUnavailable,
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	if code, ok := statusByType[errors.GetType(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error logs an error and sends a JSON error response to the client.
// This should be the only place where request errors are logged.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	writeError(w, r, logger, err, errors.ClientMessage(err))
}

// ErrorWithMessage is Error with a custom client message.
func ErrorWithMessage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, clientMessage string) {
	writeError(w, r, logger, err, clientMessage)
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, message string) {
	errorType := errors.GetType(err)
	statusCode := StatusCode(err)

	logError(logger, r, err, errorType, statusCode)

	switch errorType {
	case errors.ErrorTypeRateLimited:
		w.Header().Set("Retry-After", "1")
	case errors.ErrorTypeUnavailable:
		w.Header().Set("Retry-After", "5")
	}

	Success(w, statusCode, ErrorResponse{
		Error:   string(errorType),
		Message: message,
		Code:    statusCode,
	})
}

func logError(logger *slog.Logger, r *http.Request, err error, errorType errors.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch errorType {
	case errors.ErrorTypeNotFound, errors.ErrorTypeValidation:
		logCtx.Debug("Client error", "error", err)
	case errors.ErrorTypeUnauthorized, errors.ErrorTypeForbidden, errors.ErrorTypeRateLimited:
		logCtx.Warn("Request rejected", "error", err)
	case errors.ErrorTypeConflict, errors.ErrorTypeUnavailable:
		logCtx.Info("Request not served", "error", err)
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

// Success sends a JSON response with the given status.
func Success(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		// The status line is already sent; an encoding failure cannot be reported.
		_ = json.NewEncoder(w).Encode(data)
	}
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
