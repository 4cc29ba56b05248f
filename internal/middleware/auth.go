package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"galaxy-explorer/internal/auth"
	"galaxy-explorer/internal/explorer"
	"galaxy-explorer/internal/shared/cookies"
	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

// bearerToken reads the JWT from the auth cookie, falling back to an
// Authorization: Bearer header for non-browser clients.
func bearerToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(cookies.AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") && token != "" {
		return strings.TrimSpace(token), true
	}
	return "", false
}

func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
		)

		token, ok := bearerToken(r)
		if !ok {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		logger.Debug("JWT authentication successful", "explorer_id", claims.ExplorerID)
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireRole rejects authenticated explorers whose role is not role.
func RequireRole(role explorer.Role, next http.Handler) http.Handler {
	return JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With("middleware", "role", "required_role", role.String(), "path", r.URL.Path)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}
		if explorer.ParseRole(claims.Role) != role {
			response.Error(w, r, logger.With("explorer_id", claims.ExplorerID),
				errors.Forbidden(role.String()+" access required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(explorer.RoleAdmin, next)
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
