package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"galaxy-explorer/internal/shared/config"
)

// resolveRedirectURI accepts a client supplied redirect only when it shares
// the frontend origin; anything else falls back to the frontend URL.
func resolveRedirectURI(raw string) string {
	frontend := strings.TrimRight(config.GlobalConfig.Frontend.URL, "/")
	if raw == "" {
		return frontend
	}

	candidate, err := url.Parse(raw)
	if err != nil || candidate.Scheme == "" || candidate.Host == "" {
		return frontend
	}
	base, err := url.Parse(frontend)
	if err != nil {
		return frontend
	}
	if !strings.EqualFold(candidate.Scheme, base.Scheme) || !strings.EqualFold(candidate.Host, base.Host) {
		return frontend
	}

	return strings.TrimRight(candidate.String(), "/")
}

// redirectWithError redirects to the frontend error page
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	if redirectURI == "" {
		redirectURI = strings.TrimRight(config.GlobalConfig.Frontend.URL, "/")
	}
	errorURL := fmt.Sprintf("%s/auth/error?error=%s", redirectURI, url.QueryEscape(errorType))

	http.Redirect(w, r, errorURL, http.StatusTemporaryRedirect)
}
