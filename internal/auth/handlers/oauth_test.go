package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"galaxy-explorer/internal/auth"
	"galaxy-explorer/internal/auth/providers"
	"galaxy-explorer/internal/explorer"
	"galaxy-explorer/internal/shared/config"
	"galaxy-explorer/internal/shared/errors"
)

type fakeProvider struct {
	user *providers.OAuthUser
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) GetAuthURL(state string) string {
	return "https://provider.example/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "tok-" + code}, nil
}

func (p *fakeProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*providers.OAuthUser, error) {
	return p.user, nil
}

type fakeExplorers struct {
	rows []*explorer.Explorer
}

func (f *fakeExplorers) Count(ctx context.Context) (int, error) { return len(f.rows), nil }
func (f *fakeExplorers) List(ctx context.Context) ([]explorer.Explorer, error) {
	return nil, nil
}
func (f *fakeExplorers) Create(ctx context.Context, username, email, displayName string, avatarURL *string, role explorer.Role) (*explorer.Explorer, error) {
	e := &explorer.Explorer{ID: len(f.rows) + 1, Username: username, Email: email, DisplayName: displayName, Role: role}
	f.rows = append(f.rows, e)
	return e, nil
}
func (f *fakeExplorers) FindByEmail(ctx context.Context, email string) (*explorer.Explorer, error) {
	for _, e := range f.rows {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, errors.NotFoundf("no explorer")
}
func (f *fakeExplorers) GetByID(ctx context.Context, id int) (*explorer.Explorer, error) {
	for _, e := range f.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.NotFoundf("no explorer")
}
func (f *fakeExplorers) UpdateRole(ctx context.Context, id int, role explorer.Role) error { return nil }

type fakeLinks struct {
	links map[string]int
}

func (f *fakeLinks) CreateAuthProvider(ctx context.Context, explorerID int, provider, providerUserID, providerEmail string) error {
	f.links[provider+":"+providerUserID] = explorerID
	return nil
}

func (f *fakeLinks) FindExplorerByAuthProvider(ctx context.Context, provider, providerUserID string) (int, error) {
	if id, ok := f.links[provider+":"+providerUserID]; ok {
		return id, nil
	}
	return 0, errors.NotFoundf("no link")
}

func setupConfig(t *testing.T) {
	t.Helper()
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Auth:     config.AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef", TokenExpiration: time.Hour},
		Frontend: config.FrontendConfig{URL: "http://localhost:3000"},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func newTestHandler(user *providers.OAuthUser) (*OAuthHandler, *fakeExplorers, *fakeLinks) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &fakeExplorers{}
	links := &fakeLinks{links: map[string]int{}}
	h := NewOAuthHandler(&fakeProvider{user: user}, explorer.NewService(store, logger), auth.NewService(links, logger), true)
	return h, store, links
}

func TestResolveRedirectURI(t *testing.T) {
	setupConfig(t)

	assert.Equal(t, "http://localhost:3000", resolveRedirectURI(""))
	assert.Equal(t, "http://localhost:3000/galaxy", resolveRedirectURI("http://localhost:3000/galaxy/"))
	assert.Equal(t, "http://localhost:3000", resolveRedirectURI("https://evil.example/steal"))
	assert.Equal(t, "http://localhost:3000", resolveRedirectURI("/relative"))
}

func TestHandleAuthRedirectsToProvider(t *testing.T) {
	setupConfig(t)
	h, _, _ := newTestHandler(nil)

	rec := httptest.NewRecorder()
	h.HandleAuth(rec, httptest.NewRequest(http.MethodGet, "/auth/fake", nil))

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://provider.example/authorize?state="))
}

func TestHandleAuthNotConfigured(t *testing.T) {
	setupConfig(t)
	h, _, _ := newTestHandler(nil)
	h.isConfigured = false

	rec := httptest.NewRecorder()
	h.HandleAuth(rec, httptest.NewRequest(http.MethodGet, "/auth/fake", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleCallbackCreatesExplorerAndSetsCookie(t *testing.T) {
	setupConfig(t)
	h, store, links := newTestHandler(&providers.OAuthUser{ID: "u1", Email: "vega@example.com", EmailVerified: true, Name: "Vega"})

	state, err := auth.GenerateOAuthState("fake", "test-agent", "http://localhost:3000/galaxy")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/fake/callback?code=abc&state="+url.QueryEscape(state), nil)
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	h.HandleCallback(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "http://localhost:3000/galaxy/auth/callback?success=true", rec.Header().Get("Location"))
	require.Len(t, store.rows, 1)
	assert.Equal(t, 1, links.links["fake:u1"])

	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" {
			token = c.Value
		}
	}
	claims, err := auth.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.ExplorerID)
	assert.Equal(t, "user", claims.Role)
}

func TestHandleCallbackFailures(t *testing.T) {
	setupConfig(t)

	t.Run("invalid state", func(t *testing.T) {
		h, store, _ := newTestHandler(&providers.OAuthUser{ID: "u1", Email: "a@example.com", EmailVerified: true})
		rec := httptest.NewRecorder()
		h.HandleCallback(rec, httptest.NewRequest(http.MethodGet, "/cb?code=abc&state=forged", nil))

		assert.Equal(t, "http://localhost:3000/auth/error?error=invalid_state", rec.Header().Get("Location"))
		assert.Empty(t, store.rows)
	})

	t.Run("unverified email", func(t *testing.T) {
		h, store, _ := newTestHandler(&providers.OAuthUser{ID: "u1", Email: "a@example.com"})
		state, _ := auth.GenerateOAuthState("fake", "", "")
		rec := httptest.NewRecorder()
		h.HandleCallback(rec, httptest.NewRequest(http.MethodGet, "/cb?code=abc&state="+url.QueryEscape(state), nil))

		assert.Contains(t, rec.Header().Get("Location"), "error=oauth_error")
		assert.Empty(t, store.rows)
	})

	t.Run("denied", func(t *testing.T) {
		h, _, _ := newTestHandler(nil)
		rec := httptest.NewRecorder()
		h.HandleCallback(rec, httptest.NewRequest(http.MethodGet, "/cb?error=access_denied", nil))

		assert.Contains(t, rec.Header().Get("Location"), "error=oauth_denied")
	})
}
