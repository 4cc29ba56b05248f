package server

import (
	"log/slog"
	"net/http"

	"galaxy-explorer/internal/auth"
	authHandlers "galaxy-explorer/internal/auth/handlers"
	"galaxy-explorer/internal/explorer"
	explorerHandlers "galaxy-explorer/internal/explorer/handlers"
	"galaxy-explorer/internal/layout"
	layoutHandlers "galaxy-explorer/internal/layout/handlers"
	"galaxy-explorer/internal/middleware"
	serverHandlers "galaxy-explorer/internal/server/handlers"
	"galaxy-explorer/internal/session"
	sessionHandlers "galaxy-explorer/internal/session/handlers"
)

type Routes struct {
	db              serverHandlers.Pinger
	cache           serverHandlers.Pinger
	explorerService *explorer.Service
	authService     *auth.Service
	layoutService   *layout.Service
	sessionManager  *session.Manager
	oauthConfig     *auth.OAuthConfig
	checkOrigin     func(*http.Request) bool
	logger          *slog.Logger
}

type Dependencies struct {
	DB              serverHandlers.Pinger
	Cache           serverHandlers.Pinger
	ExplorerService *explorer.Service
	AuthService     *auth.Service
	LayoutService   *layout.Service
	SessionManager  *session.Manager
	OAuthConfig     *auth.OAuthConfig
	CheckOrigin     func(*http.Request) bool
	Logger          *slog.Logger
}

func NewRoutes(deps Dependencies) *Routes {
	return &Routes{
		db:              deps.DB,
		cache:           deps.Cache,
		explorerService: deps.ExplorerService,
		authService:     deps.AuthService,
		layoutService:   deps.LayoutService,
		sessionManager:  deps.SessionManager,
		oauthConfig:     deps.OAuthConfig,
		checkOrigin:     deps.CheckOrigin,
		logger:          deps.Logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache, r.sessionManager)
	explorersHandler := explorerHandlers.NewExplorersHandler(r.explorerService)
	layoutHandler := layoutHandlers.NewLayoutHandler(r.layoutService)
	sessionHandler := sessionHandlers.NewSessionHandler(r.sessionManager, r.checkOrigin)
	logoutHandler := authHandlers.NewLogoutHandler()

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.JWTMiddleware(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}

	// Public endpoints
	mux.Handle("GET /api/server/health", healthHandler)
	mux.HandleFunc("GET /api/layouts", layoutHandler.List)
	mux.HandleFunc("GET /api/layouts/{name}", layoutHandler.Get)
	mux.HandleFunc("POST /api/sessions", sessionHandler.Create)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.Delete)
	mux.HandleFunc("GET /api/sessions/{id}/ws", sessionHandler.Connect)

	// Protected endpoints (authenticated explorers)
	mux.Handle("GET /api/explorers/me", protected(explorersHandler.Me))
	mux.Handle("PUT /api/layouts/{name}", protected(layoutHandler.Save))
	mux.Handle("POST /api/layouts/{name}/generate", protected(layoutHandler.Generate))
	mux.Handle("DELETE /api/layouts/{name}", protected(layoutHandler.Delete))

	// Admin-only endpoints
	mux.Handle("GET /api/explorers", admin(explorersHandler.List))
	mux.Handle("GET /api/sessions", admin(sessionHandler.List))

	// OAuth endpoints
	authEndpoints := []string{"/auth/logout"}
	for _, setup := range r.oauthConfig.Providers {
		h := authHandlers.NewOAuthHandler(setup.Provider, r.explorerService, r.authService, setup.Configured)
		base := "/auth/" + setup.Provider.Name()
		mux.HandleFunc("GET "+base, h.HandleAuth)
		mux.HandleFunc("GET "+base+"/callback", h.HandleCallback)
		authEndpoints = append(authEndpoints, base)
	}
	mux.Handle("POST /auth/logout", logoutHandler)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/layouts", "/api/layouts/{name}", "/api/sessions", "/api/sessions/{id}/ws"},
		"protected_endpoints", []string{"/api/explorers/me", "/api/layouts/{name}", "/api/layouts/{name}/generate"},
		"admin_endpoints", []string{"/api/explorers", "/api/sessions"},
		"auth_endpoints", authEndpoints,
	)

	return mux
}
