package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const stateTTL = 10 * time.Minute

var (
	ErrStateMissing  = errors.New("state token is required")
	ErrStateUnknown  = errors.New("invalid or already used state token")
	ErrStateExpired  = errors.New("state token has expired")
	ErrStateProvider = errors.New("state token issued for another provider")
)

// StateEntry is what a login flow remembers between the redirect to the
// provider and its callback.
type StateEntry struct {
	CreatedAt   time.Time
	Provider    string
	UserAgent   string
	RedirectURI string
}

// StateManager issues single-use OAuth state tokens. Expired tokens are swept
// whenever a new one is issued.
type StateManager struct {
	now func() time.Time

	mu     sync.Mutex
	states map[string]StateEntry
}

var globalStateManager = NewStateManager()

func NewStateManager() *StateManager {
	return &StateManager{
		now:    time.Now,
		states: make(map[string]StateEntry),
	}
}

func (sm *StateManager) GenerateState(provider, userAgent, redirectURI string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	if swept := sm.sweepLocked(now); swept > 0 {
		slog.Debug("Swept expired OAuth states", "component", "state_manager", "expired", swept)
	}
	sm.states[state] = StateEntry{
		CreatedAt:   now,
		Provider:    provider,
		UserAgent:   userAgent,
		RedirectURI: redirectURI,
	}
	return state, nil
}

// ValidateState consumes state. A user agent mismatch is logged but accepted,
// since browsers may alter it across the provider round trip.
func (sm *StateManager) ValidateState(state, provider, userAgent string) (StateEntry, error) {
	if state == "" {
		return StateEntry{}, ErrStateMissing
	}

	sm.mu.Lock()
	entry, ok := sm.states[state]
	delete(sm.states, state)
	now := sm.now()
	sm.mu.Unlock()

	switch {
	case !ok:
		return StateEntry{}, ErrStateUnknown
	case now.Sub(entry.CreatedAt) > stateTTL:
		return StateEntry{}, ErrStateExpired
	case entry.Provider != provider:
		return StateEntry{}, ErrStateProvider
	}

	if entry.UserAgent != userAgent {
		slog.Warn("OAuth state user agent changed",
			"component", "state_manager",
			"provider", provider)
	}
	return entry, nil
}

func (sm *StateManager) sweepLocked(now time.Time) int {
	expired := 0
	for state, entry := range sm.states {
		if now.Sub(entry.CreatedAt) > stateTTL {
			delete(sm.states, state)
			expired++
		}
	}
	return expired
}

// ActiveStates reports how many login flows are waiting for their callback.
func (sm *StateManager) ActiveStates() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.states)
}

func GenerateOAuthState(provider, userAgent, redirectURI string) (string, error) {
	return globalStateManager.GenerateState(provider, userAgent, redirectURI)
}

func ValidateOAuthState(state, provider, userAgent string) (StateEntry, error) {
	return globalStateManager.ValidateState(state, provider, userAgent)
}
