package jwtx

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrWrongIssuer   = errors.New("jwtx: issuer mismatch")
	ErrWrongTokenUse = errors.New("jwtx: token_use mismatch")
	ErrExpired       = errors.New("jwtx: token expired")
	ErrBadSignature  = errors.New("jwtx: invalid signature")
)

// Verifier validates Cognito JWTs against a configured issuer. Checks run
// cheapest first so common rejections (expired, wrong pool) never touch the
// network; the JWKS fetch only happens once a token survives the local
// checks.
type Verifier struct {
	keys   *RemoteKeySet
	issuer string
	now    func() time.Time
}

// NewVerifier builds a verifier for tokens minted by issuer, fetching public
// keys from its well-known JWKS endpoint.
func NewVerifier(issuer string, keys *RemoteKeySet) *Verifier {
	return &Verifier{keys: keys, issuer: issuer, now: time.Now}
}

// JWKSURL returns the conventional key-set URL for a Cognito-style issuer.
func JWKSURL(issuer string) string {
	return strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json"
}

// Verify validates a single token for the expected use and returns its
// claims. Every rejection carries a tagged sentinel; callers that only need
// a boolean still leave a specific reason in the error chain for logging.
func (v *Verifier) Verify(ctx context.Context, token string, use TokenUse) (*Claims, error) {
	claims, err := Decode(token)
	if err != nil {
		return nil, err
	}

	if claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: got %q", ErrWrongIssuer, claims.Issuer)
	}
	if claims.TokenUse != use {
		return nil, fmt.Errorf("%w: want %q, got %q", ErrWrongTokenUse, use, claims.TokenUse)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(v.now()) {
		return nil, ErrExpired
	}

	if err := v.verifySignature(ctx, token); err != nil {
		return nil, err
	}
	return claims, nil
}

// verifySignature checks the RS256 signature over the exact signed content,
// header segment dot payload segment.
func (v *Verifier) verifySignature(ctx context.Context, token string) error {
	header, err := DecodeHeader(token)
	if err != nil {
		return err
	}
	if header.Alg != "RS256" {
		return fmt.Errorf("%w: unexpected alg %q", ErrBadSignature, header.Alg)
	}
	if header.Kid == "" {
		return fmt.Errorf("%w: missing kid", ErrUnknownKID)
	}

	pub, err := v.keys.Key(ctx, header.Kid)
	if err != nil {
		return err
	}

	parts := strings.Split(token, ".")
	sig, err := decodeSegmentStrict(parts[2])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	digest := sha256.Sum256([]byte(parts[0] + "." + parts[1]))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return ErrBadSignature
	}
	return nil
}

// SessionClaims is the result of validating a full session: both tokens
// independently authentic. Authorization data comes from the id token only;
// the access token is never trusted for group membership.
type SessionClaims struct {
	Access *Claims
	ID     *Claims
}

// Groups returns the normalized group list from the id token.
func (s *SessionClaims) Groups() []string {
	return NormalizeGroups(s.ID.Groups)
}

// VerifySession validates the access and id tokens of a session. The session
// is authentic only if both verify; a failure on either token rejects the
// whole pair.
func (v *Verifier) VerifySession(ctx context.Context, accessToken, idToken string) (*SessionClaims, error) {
	access, err := v.Verify(ctx, accessToken, TokenUseAccess)
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}
	id, err := v.Verify(ctx, idToken, TokenUseID)
	if err != nil {
		return nil, fmt.Errorf("id token: %w", err)
	}
	return &SessionClaims{Access: access, ID: id}, nil
}
