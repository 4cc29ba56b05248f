package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"galaxy-explorer/internal/shared/config"
)

var corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}

type CORSMiddleware struct {
	*cors.Cors
	origins []string
}

// NewCORS allows credentialed requests from the frontend and any extra
// configured origins.
func NewCORS(cfg config.FrontendConfig) *CORSMiddleware {
	logger := slog.With("component", "cors", "operation", "setup")

	origins := append([]string{cfg.URL}, cfg.ExtraOrigins...)

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   corsMethods,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		Debug:            cfg.CORSDebug,
	})

	logger.Info("CORS middleware configured",
		"allowed_origins", origins,
		"allow_credentials", true,
		"debug_mode", cfg.CORSDebug,
	)

	return &CORSMiddleware{Cors: c, origins: origins}
}

func (c *CORSMiddleware) Middleware(h http.Handler) http.Handler {
	return c.Cors.Handler(h)
}

// CheckOrigin applies the CORS origin list to websocket upgrades. Requests
// without an Origin header come from non-browser clients and are allowed.
func (c *CORSMiddleware) CheckOrigin(r *http.Request) bool {
	if r.Header.Get("Origin") == "" {
		return true
	}
	return c.OriginAllowed(r)
}
