package provider

import (
	"context"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/auth"
)

// OAuthProvider defines the contract the external auth provider must
// implement. Implementations return identity facts only and must not
// perform user creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "discord").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// The state parameter is provided by the caller.
	AuthCodeURL(state string) string

	// ExchangeCode exchanges the authorization code for provider credentials
	// and returns a normalized identity. No auth decisions are made here.
	ExchangeCode(ctx context.Context, code string) (*auth.Identity, error)
}
