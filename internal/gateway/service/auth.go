package service

import (
	"context"
	"errors"
	"time"

	"github.com/coursekit/authgate/internal/gateway/domain"
	"github.com/coursekit/authgate/internal/gateway/provider"
	"github.com/coursekit/authgate/internal/gateway/store"
	"github.com/coursekit/authgate/pkg/idx"
	"github.com/coursekit/authgate/pkg/slogx"
)

var (
	// ErrInvalidCredentials is the single message every credential-class
	// rejection collapses to. Account existence, confirmation state and
	// wrong-password cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrThrottled           = errors.New("too many attempts, try again later")
	ErrProviderUnavailable = errors.New("authentication service unavailable")
	ErrConfiguration       = errors.New("authentication service misconfigured")
	ErrInvalidSession      = errors.New("invalid or expired session")
)

// LoginState is the terminal state of one authentication attempt.
type LoginState string

const (
	StateAuthenticated       LoginState = "authenticated"
	StateNewPasswordRequired LoginState = "new_password_required"
	StateMFARequired         LoginState = "mfa_required"
)

// LoginResult is the outcome of a successful (or challenged) login.
// Tokens is set when State is StateAuthenticated; Session carries the
// provider continuation token for challenge states.
type LoginResult struct {
	State   LoginState
	Tokens  *provider.TokenSet
	Session string
	Client  domain.ClientKind
}

// AuthService orchestrates authentication against two provider app clients:
// the public client first, then the confidential client when the provider
// signals the pool demands a client secret. The client secret, and the
// SECRET_HASH derived from it, live entirely behind the Confidential client.
type AuthService struct {
	Public       provider.Client
	Confidential provider.Client // nil when no confidential client is configured
	Store        store.Store     // nil disables audit recording
}

// Login authenticates the credentials, falling back from the public to the
// confidential client on secret-hash, configuration and availability
// failures. Credential rejections and throttles never trigger fallback.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	out, err := s.Public.InitiateAuth(ctx, provider.Credentials{
		Username: creds.Email,
		Password: creds.Password,
	})
	if err == nil {
		if out.Challenge == nil && s.Confidential != nil {
			// Prefer the confidential client's token set when it also
			// accepts the credentials: its audience is the one the
			// downstream API expects. On failure the public tokens stand.
			confOut, confErr := s.Confidential.InitiateAuth(ctx, provider.Credentials{
				Username: creds.Email,
				Password: creds.Password,
			})
			if confErr == nil && confOut.Challenge == nil {
				return s.finishLogin(ctx, creds.Email, confOut, domain.ClientConfidential)
			}
			if confErr != nil {
				slogx.FromContext(ctx).Warn("confidential token set unavailable",
					"reason", provider.KindOf(confErr).String())
			}
		}
		return s.finishLogin(ctx, creds.Email, out, domain.ClientPublic)
	}

	kind := provider.KindOf(err)
	if kind == provider.KindCredentialRejected || kind == provider.KindThrottled || s.Confidential == nil {
		return nil, s.rejectLogin(ctx, creds.Email, kind, err)
	}

	slogx.FromContext(ctx).Info("login falling back to confidential client",
		"reason", kind.String())

	out, err = s.Confidential.InitiateAuth(ctx, provider.Credentials{
		Username: creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return nil, s.rejectLogin(ctx, creds.Email, provider.KindOf(err), err)
	}

	s.audit(ctx, domain.AuditEvent{
		Kind:       domain.AuditLoginFallback,
		Username:   creds.Email,
		ClientKind: domain.ClientConfidential,
	})
	return s.finishLogin(ctx, creds.Email, out, domain.ClientConfidential)
}

// Credentials is the caller-supplied login input.
type Credentials struct {
	Email    string
	Password string
}

func (s *AuthService) finishLogin(ctx context.Context, email string, out *provider.AuthOutcome, client domain.ClientKind) (*LoginResult, error) {
	if out.Challenge != nil {
		s.audit(ctx, domain.AuditEvent{
			Kind:       domain.AuditLoginChallenge,
			Username:   email,
			ClientKind: client,
			Detail:     string(out.Challenge.Kind),
		})
		state := StateMFARequired
		if out.Challenge.Kind == provider.ChallengeNewPassword {
			state = StateNewPasswordRequired
		}
		return &LoginResult{State: state, Session: out.Challenge.Session, Client: client}, nil
	}

	s.audit(ctx, domain.AuditEvent{
		Kind:       domain.AuditLoginSuccess,
		Username:   email,
		ClientKind: client,
	})
	return &LoginResult{State: StateAuthenticated, Tokens: out.Tokens, Client: client}, nil
}

func (s *AuthService) rejectLogin(ctx context.Context, email string, kind provider.ErrorKind, err error) error {
	s.audit(ctx, domain.AuditEvent{
		Kind:     domain.AuditLoginRejected,
		Username: email,
		Detail:   kind.String(),
	})
	return s.mapError(ctx, kind, err)
}

// mapError collapses provider failures into the caller-facing sentinels.
// Config and unknown detail stays in the logs; callers only ever see the
// generic messages.
func (s *AuthService) mapError(ctx context.Context, kind provider.ErrorKind, err error) error {
	switch kind {
	case provider.KindCredentialRejected:
		return ErrInvalidCredentials
	case provider.KindThrottled:
		return ErrThrottled
	case provider.KindUnavailable:
		slogx.FromContext(ctx).Error("identity provider unavailable", "error", err)
		return ErrProviderUnavailable
	case provider.KindConfiguration, provider.KindRequiresSecretHash:
		// Detail stays in the log; the client never learns pool or client
		// configuration specifics.
		slogx.FromContext(ctx).Error("identity provider misconfigured", "kind", kind.String(), "error", err)
		return ErrConfiguration
	default:
		slogx.FromContext(ctx).Error("identity provider error", "kind", kind.String(), "error", err)
		return ErrProviderUnavailable
	}
}

// CompleteNewPassword answers the NEW_PASSWORD_REQUIRED challenge using the
// continuation session handed out by Login.
func (s *AuthService) CompleteNewPassword(ctx context.Context, email, newPassword, session string) (*LoginResult, error) {
	client, ck := s.challengeClient()

	out, err := client.RespondNewPassword(ctx, email, newPassword, session)
	if err != nil {
		kind := provider.KindOf(err)
		if kind == provider.KindCredentialRejected {
			// An expired or replayed session surfaces here.
			return nil, ErrInvalidSession
		}
		return nil, s.mapError(ctx, kind, err)
	}
	return s.finishLogin(ctx, email, out, ck)
}

// Refresh exchanges the refresh token for a fresh access/id pair.
func (s *AuthService) Refresh(ctx context.Context, username, refreshToken string) (*provider.TokenSet, error) {
	client, ck := s.challengeClient()

	tokens, err := client.Refresh(ctx, username, refreshToken)
	if err != nil {
		kind := provider.KindOf(err)
		if kind == provider.KindCredentialRejected {
			return nil, ErrInvalidSession
		}
		return nil, s.mapError(ctx, kind, err)
	}

	s.audit(ctx, domain.AuditEvent{
		Kind:       domain.AuditTokenRefresh,
		Username:   username,
		ClientKind: ck,
	})
	return tokens, nil
}

// Logout revokes the provider session. It never fails: the cookies are
// cleared by the caller regardless, and a dead provider must not be able to
// pin a user into a session they asked to leave.
func (s *AuthService) Logout(ctx context.Context, accessToken, subject, username string) {
	if accessToken != "" {
		if err := s.Public.GlobalSignOut(ctx, accessToken); err != nil {
			slogx.FromContext(ctx).Warn("provider sign-out failed", "error", err)
		}
	}
	s.audit(ctx, domain.AuditEvent{
		Kind:     domain.AuditLogout,
		Subject:  subject,
		Username: username,
	})
}

// ChangePassword changes the password for the authenticated session holder.
func (s *AuthService) ChangePassword(ctx context.Context, accessToken, subject, previous, proposed string) error {
	if err := s.Public.ChangePassword(ctx, accessToken, previous, proposed); err != nil {
		kind := provider.KindOf(err)
		if kind == provider.KindCredentialRejected {
			return ErrInvalidCredentials
		}
		return s.mapError(ctx, kind, err)
	}
	s.audit(ctx, domain.AuditEvent{
		Kind:    domain.AuditPasswordChange,
		Subject: subject,
	})
	return nil
}

// ResetPassword starts the provider's forgot-password flow. Unknown accounts
// report success so the endpoint cannot be used to enumerate users.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	if err := s.Public.ForgotPassword(ctx, email); err != nil {
		kind := provider.KindOf(err)
		if kind == provider.KindCredentialRejected {
			slogx.FromContext(ctx).Info("password reset for unknown account", "error", err)
			return nil
		}
		return s.mapError(ctx, kind, err)
	}
	s.audit(ctx, domain.AuditEvent{
		Kind:     domain.AuditPasswordReset,
		Username: email,
		Detail:   "requested",
	})
	return nil
}

// ConfirmResetPassword completes the forgot-password flow with the emailed
// confirmation code.
func (s *AuthService) ConfirmResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.Public.ConfirmForgotPassword(ctx, email, code, newPassword); err != nil {
		kind := provider.KindOf(err)
		if kind == provider.KindCredentialRejected {
			return ErrInvalidCredentials
		}
		return s.mapError(ctx, kind, err)
	}
	s.audit(ctx, domain.AuditEvent{
		Kind:     domain.AuditPasswordReset,
		Username: email,
		Detail:   "confirmed",
	})
	return nil
}

// AuditTrail returns the newest recorded auth events.
func (s *AuthService) AuditTrail(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if s.Store == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.Store.AuditEvents().ListRecent(ctx, limit)
}

// challengeClient picks the client that handles post-login provider calls.
// The confidential client wins when present since a pool that demanded a
// secret on login demands it on every flow.
func (s *AuthService) challengeClient() (provider.Client, domain.ClientKind) {
	if s.Confidential != nil {
		return s.Confidential, domain.ClientConfidential
	}
	return s.Public, domain.ClientPublic
}

// audit records an event, dropping it with a warning if the store is absent
// or the write fails. Audit is an observer of authentication, never a gate.
func (s *AuthService) audit(ctx context.Context, e domain.AuditEvent) {
	if s.Store == nil {
		return
	}
	e.ID = idx.New().String()
	e.CreatedAt = time.Now().UTC()
	if err := s.Store.AuditEvents().Append(ctx, e); err != nil {
		slogx.FromContext(ctx).Warn("audit event dropped", "kind", string(e.Kind), "error", err)
	}
}
