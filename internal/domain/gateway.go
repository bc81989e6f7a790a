package domain

import (
	"context"
	"encoding/json"
)

// CreateUserInput is the payload for provisioning a provider-side identity.
type CreateUserInput struct {
	ClientUserID string
	Email        string
}

// ProviderUser is the identity record returned by the provider.
type ProviderUser struct {
	UserID       string
	ClientUserID string
}

// LinkSession is the provider's link-token payload. Raw preserves the full
// response body so callers can hand it to the client untouched.
type LinkSession struct {
	LinkToken string
	Raw       json.RawMessage
}

// Gateway is the thin wrapper around the provider's REST API. No retries, no
// backoff; a non-success upstream response surfaces as an error carrying the
// provider's raw body.
type Gateway interface {
	CreateUser(ctx context.Context, input CreateUserInput) (ProviderUser, error)
	CreateLinkToken(ctx context.Context, providerUserID, provider string) (LinkSession, error)
}
