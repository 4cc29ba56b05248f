package providers

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// ErrUnverifiedEmail is returned when a provider account has no verified email.
var ErrUnverifiedEmail = errors.New("provider account has no verified email")

// OAuthUser is a provider profile normalized for explorer sign-in.
type OAuthUser struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// Avatar returns the avatar URL, or nil when the provider has none.
func (u *OAuthUser) Avatar() *string {
	if u.AvatarURL == "" {
		return nil
	}
	avatar := u.AvatarURL
	return &avatar
}

// Validate checks that the profile can identify an explorer.
func (u *OAuthUser) Validate() error {
	if u.ID == "" {
		return errors.New("provider account has no id")
	}
	if u.Email == "" || !u.EmailVerified {
		return ErrUnverifiedEmail
	}
	return nil
}

type OAuthProvider interface {
	Name() string
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error)
}
