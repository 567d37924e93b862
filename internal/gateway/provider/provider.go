// Package provider abstracts the managed identity provider. The gateway
// never branches on provider error text; implementations classify every
// failure into an ErrorKind and callers decide from the enum.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// Credentials is a username/password pair submitted for authentication.
type Credentials struct {
	Username string
	Password string
}

// TokenSet is one complete set of issued tokens. A login may yield two of
// these, one per client registration.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	// ExpiresIn is the access/id token lifetime in seconds.
	ExpiresIn int
}

// ChallengeKind names the additional step the provider demands before it
// will issue tokens.
type ChallengeKind string

const (
	ChallengeNewPassword ChallengeKind = "new_password_required"
	ChallengeMFA         ChallengeKind = "mfa_required"
)

// Challenge is a pending authentication step. Session is the opaque state
// the provider expects back with the challenge response.
type Challenge struct {
	Kind    ChallengeKind
	Session string
}

// AuthOutcome is the result of an authentication call: either Tokens or a
// Challenge is set, never both.
type AuthOutcome struct {
	Tokens    *TokenSet
	Challenge *Challenge
}

// ErrorKind classifies provider failures for control flow.
type ErrorKind int

const (
	// KindUnknown is any failure the implementation could not classify.
	KindUnknown ErrorKind = iota
	// KindCredentialRejected covers wrong password, unknown user and
	// unconfirmed user alike; callers must not distinguish further.
	KindCredentialRejected
	// KindRequiresSecretHash means the client registration demands a shared
	// secret proof this client cannot supply. The caller should retry
	// through a confidential client.
	KindRequiresSecretHash
	// KindThrottled means the provider is rate limiting us.
	KindThrottled
	// KindUnavailable covers network failures and timeouts.
	KindUnavailable
	// KindConfiguration covers misconfigured pools or clients. Detail is
	// for server logs only, never end users.
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindCredentialRejected:
		return "credential_rejected"
	case KindRequiresSecretHash:
		return "requires_secret_hash"
	case KindThrottled:
		return "throttled"
	case KindUnavailable:
		return "unavailable"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification from err, KindUnknown when err is not a
// provider error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// Client is the identity provider capability the gateway consumes.
type Client interface {
	// InitiateAuth performs a username/password authentication.
	InitiateAuth(ctx context.Context, creds Credentials) (*AuthOutcome, error)

	// RespondNewPassword completes a new-password-required challenge.
	RespondNewPassword(ctx context.Context, username, newPassword, session string) (*AuthOutcome, error)

	// Refresh exchanges a refresh token for a fresh access/id pair. The
	// returned set never includes a new refresh token; the old one stays
	// valid.
	Refresh(ctx context.Context, username, refreshToken string) (*TokenSet, error)

	// GlobalSignOut invalidates all of the user's provider-side sessions.
	GlobalSignOut(ctx context.Context, accessToken string) error

	// ChangePassword changes the password of an authenticated user.
	ChangePassword(ctx context.Context, accessToken, previous, proposed string) error

	// ForgotPassword starts a password reset (provider sends a code).
	ForgotPassword(ctx context.Context, username string) error

	// ConfirmForgotPassword completes a password reset with the code.
	ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) error
}
