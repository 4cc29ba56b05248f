package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
)

type gitHubUser struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type gitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type GitHubProvider struct {
	config  *oauth2.Config
	apiBase string
}

// NewGitHubProvider creates a new GitHub OAuth provider
func NewGitHubProvider(config *oauth2.Config) *GitHubProvider {
	return &GitHubProvider{config: config, apiBase: "https://api.github.com"}
}

func (p *GitHubProvider) Name() string {
	return "github"
}

// GetUserInfo fetches the profile and resolves a verified email from the emails endpoint.
func (p *GitHubProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error) {
	client := p.config.Client(ctx, token)

	logger := slog.With("provider", "github", "operation", "get_user_info")
	logger.Debug("Requesting user info from GitHub API")

	var user gitHubUser
	if err := getJSON(ctx, client, p.apiBase+"/user", &user); err != nil {
		logger.Error("Failed to request user info from GitHub", "error", err)
		return nil, fmt.Errorf("failed to request user info from GitHub: %w", err)
	}

	if user.ID == 0 {
		logger.Error("GitHub user info missing user ID")
		return nil, fmt.Errorf("github user info missing user ID")
	}

	info := &OAuthUser{
		ID:        strconv.Itoa(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
	if info.Name == "" {
		info.Name = user.Login
	}

	var emails []gitHubEmail
	if err := getJSON(ctx, client, p.apiBase+"/user/emails", &emails); err != nil {
		// Callers reject unverified accounts, so a failed lookup only downgrades the result.
		logger.Warn("Failed to fetch GitHub user emails", "error", err)
	} else {
		info.Email, info.EmailVerified = pickGitHubEmail(info.Email, emails)
	}

	logger.Debug("Successfully retrieved GitHub user info",
		"user_id", info.ID,
		"has_email", info.Email != "",
		"email_verified", info.EmailVerified)

	return info, nil
}

// pickGitHubEmail keeps the profile email when it is verified, otherwise prefers
// the primary verified address, then any verified one.
func pickGitHubEmail(profileEmail string, emails []gitHubEmail) (string, bool) {
	for _, e := range emails {
		if e.Email == profileEmail && e.Verified {
			return e.Email, true
		}
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, true
		}
	}
	return profileEmail, false
}

// ExchangeCode exchanges an authorization code for tokens
func (p *GitHubProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return exchange(ctx, p.config, "github", code)
}

// GetAuthURL generates the OAuth authorization URL
func (p *GitHubProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func exchange(ctx context.Context, config *oauth2.Config, provider, code string) (*oauth2.Token, error) {
	logger := slog.With("provider", provider, "operation", "exchange_code")
	logger.Debug("Exchanging authorization code for access token")

	token, err := config.Exchange(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", "error", err)
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	logger.Debug("Successfully exchanged code for token")
	return token, nil
}
