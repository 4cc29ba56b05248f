package auth

import (
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"galaxy-explorer/internal/auth/providers"
	"galaxy-explorer/internal/shared/config"
)

// ProviderSetup pairs a login provider with whether its client credentials
// are present. Unconfigured providers still get routes that answer 503.
type ProviderSetup struct {
	Provider   providers.OAuthProvider
	Configured bool
}

type OAuthConfig struct {
	Providers []ProviderSetup
}

func clientConfig(c config.OAuthClientConfig, endpoint oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Endpoint:     endpoint,
	}
}

// InitOAuth builds the GitHub and Google login providers from the global config.
func InitOAuth() *OAuthConfig {
	cfg := config.GlobalConfig
	logger := slog.With("component", "oauth", "operation", "init")

	setups := []ProviderSetup{
		{
			Provider:   providers.NewGitHubProvider(clientConfig(cfg.OAuth.GitHub, github.Endpoint)),
			Configured: cfg.OAuth.GitHub.Configured(),
		},
		{
			Provider:   providers.NewGoogleProvider(clientConfig(cfg.OAuth.Google, google.Endpoint)),
			Configured: cfg.OAuth.Google.Configured(),
		},
	}

	var configured []string
	for _, s := range setups {
		if !s.Configured {
			logger.Warn("OAuth provider not configured, missing client credentials", "provider", s.Provider.Name())
			continue
		}
		configured = append(configured, s.Provider.Name())
	}

	logger.Info("OAuth configuration completed",
		"server_url", cfg.Server.URL,
		"configured_providers", configured,
	)

	return &OAuthConfig{Providers: setups}
}
