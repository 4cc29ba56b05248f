package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"galaxy-explorer/internal/auth"
	"galaxy-explorer/internal/auth/providers"
	"galaxy-explorer/internal/explorer"
	"galaxy-explorer/internal/shared/cookies"
	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/shared/response"
)

type OAuthHandler struct {
	provider        providers.OAuthProvider
	explorerService *explorer.Service
	authService     *auth.Service
	isConfigured    bool
}

func NewOAuthHandler(provider providers.OAuthProvider, explorerService *explorer.Service, authService *auth.Service, isConfigured bool) *OAuthHandler {
	return &OAuthHandler{
		provider:        provider,
		explorerService: explorerService,
		authService:     authService,
		isConfigured:    isConfigured,
	}
}

func (h *OAuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	logger := slog.With("handler", name+"_oauth_init")

	if !h.isConfigured {
		response.Error(w, r, logger, errors.Unavailable(fmt.Sprintf("%s OAuth is not properly configured", name)))
		return
	}

	redirectURI := resolveRedirectURI(r.URL.Query().Get("redirect_uri"))

	state, err := auth.GenerateOAuthState(name, r.UserAgent(), redirectURI)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to initialize OAuth flow", err))
		return
	}

	authURL := h.provider.GetAuthURL(state)
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	logger := slog.With(
		"handler", name+"_oauth_callback",
		"user_agent", r.UserAgent(),
		"ip", r.RemoteAddr,
		"has_code", code != "",
		"has_state", state != "",
	)

	// The redirect target travels inside the state; without a valid state the
	// flow is aborted toward the configured frontend.
	redirectURI := ""
	entry, stateErr := auth.ValidateOAuthState(state, name, r.UserAgent())
	if stateErr == nil {
		redirectURI = entry.RedirectURI
	}

	if errorParam != "" {
		logger.Warn("OAuth authorization denied",
			"provider", name,
			"oauth_error", errorParam,
			"error_description", r.URL.Query().Get("error_description"))
		redirectWithError(w, r, redirectURI, "oauth_denied")
		return
	}

	if code == "" {
		logger.Error("OAuth callback missing authorization code", "provider", name)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	if stateErr != nil {
		logger.Warn("OAuth state validation failed", "provider", name, "error", stateErr)
		redirectWithError(w, r, redirectURI, "invalid_state")
		return
	}
	logger.Info("OAuth state validation successful - proceeding with OAuth callback", "provider", name)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	token, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code",
			"error", err,
			"provider", name)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	logger.Debug("Fetching user information from provider API", "provider", name)
	userInfo, err := h.provider.GetUserInfo(ctx, token)
	if err != nil {
		logger.Error("Failed to get user info",
			"error", err,
			"provider", name)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	userLogger := logger.With(
		"user_email", userInfo.Email,
		"provider_user_id", userInfo.ID,
		"user_name", userInfo.Name)

	if err := userInfo.Validate(); err != nil {
		userLogger.Warn("Provider profile rejected", "provider", name, "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	userLogger.Info("Creating or finding explorer account", "provider", name)

	existingID, err := h.authService.FindExplorerByAuthProvider(ctx, name, userInfo.ID)
	if err != nil && errors.GetType(err) != errors.ErrorTypeNotFound {
		userLogger.Error("Database error checking auth provider", "error", err)
		redirectWithError(w, r, redirectURI, "database_error")
		return
	}

	var e *explorer.Explorer
	if existingID > 0 {
		userLogger.Debug("Found existing explorer via OAuth provider")
		e, err = h.explorerService.GetByID(ctx, existingID)
		if err != nil {
			userLogger.Error("Failed to get existing explorer", "error", err)
			redirectWithError(w, r, redirectURI, "database_error")
			return
		}
	} else {
		userLogger.Debug("No existing OAuth link found, finding or creating explorer by email")
		e, err = h.explorerService.FindOrCreateByOAuth(ctx, name, userInfo.Email, userInfo.Name, userInfo.Avatar())
		if err != nil {
			userLogger.Error("Failed to create explorer", "error", err)
			redirectWithError(w, r, redirectURI, "database_error")
			return
		}

		userLogger.Debug("Linking OAuth provider to explorer account")
		err = h.authService.CreateAuthProvider(ctx, e.ID, name, userInfo.ID, userInfo.Email)
		if err != nil {
			userLogger.Error("Failed to create auth provider link", "error", err)
			redirectWithError(w, r, redirectURI, "database_error")
			return
		}
	}

	explorerLogger := userLogger.With("explorer_id", e.ID)

	explorerLogger.Debug("Generating JWT token for explorer")
	jwtToken, err := auth.GenerateJWT(e.ID, e.Username, e.Email, e.Role.String())
	if err != nil {
		explorerLogger.Error("Failed to generate JWT token", "error", err)
		redirectWithError(w, r, redirectURI, "auth_error")
		return
	}

	cookies.SetAuthCookie(w, jwtToken)

	explorerLogger.Info("OAuth authentication successful",
		"provider", name,
		"explorer_username", e.Username,
		"explorer_role", e.Role)

	successURL := fmt.Sprintf("%s/auth/callback?success=true", redirectURI)
	http.Redirect(w, r, successURL, http.StatusTemporaryRedirect)
}
