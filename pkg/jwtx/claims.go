package jwtx

import (
	"crypto/rsa"
	"encoding/json"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenUse distinguishes an access token from an identity token. Cognito
// stamps every token it issues with a token_use claim.
type TokenUse string

const (
	TokenUseAccess TokenUse = "access"
	TokenUseID     TokenUse = "id"
)

// Claims is the decoded payload of a Cognito-issued JWT. Required fields are
// typed; everything the pool attaches beyond them (custom attributes, event
// ids) lands in Extra so nothing is silently dropped.
type Claims struct {
	Subject       string           `json:"sub"`
	Issuer        string           `json:"iss"`
	Audience      jwt.ClaimStrings `json:"aud,omitempty"`
	ClientID      string           `json:"client_id,omitempty"`
	TokenUse      TokenUse         `json:"token_use"`
	Username      string           `json:"cognito:username,omitempty"`
	Groups        []string         `json:"cognito:groups,omitempty"`
	Email         string           `json:"email,omitempty"`
	EmailVerified bool             `json:"email_verified,omitempty"`
	AuthTime      *jwt.NumericDate `json:"auth_time,omitempty"`
	IssuedAt      *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt     *jwt.NumericDate `json:"exp,omitempty"`

	// Extra holds claims outside the typed set above.
	Extra map[string]any `json:"-"`
}

// knownClaimKeys are the payload keys already represented by typed fields.
var knownClaimKeys = []string{
	"sub", "iss", "aud", "client_id", "token_use", "cognito:username",
	"cognito:groups", "email", "email_verified", "auth_time", "iat", "exp",
}

type claimsAlias Claims

func (c *Claims) UnmarshalJSON(data []byte) error {
	var a claimsAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range knownClaimKeys {
		delete(raw, k)
	}

	*c = Claims(a)
	if len(raw) > 0 {
		c.Extra = raw
	}
	return nil
}

func (c Claims) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(claimsAlias(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return data, nil
	}

	// Fold extras back into the flat claim map.
	var merged map[string]any
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// HasAudience reports whether the token was issued for the given client id.
// ID tokens carry the client id in aud, access tokens in client_id.
func (c *Claims) HasAudience(clientID string) bool {
	if clientID == "" {
		return false
	}
	if c.ClientID == clientID {
		return true
	}
	return slices.Contains(c.Audience, clientID)
}

/* jwt.Claims interface, so fixtures can be signed with golang-jwt directly */

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c *Claims) GetIssuer() (string, error)                   { return c.Issuer, nil }
func (c *Claims) GetSubject() (string, error)                  { return c.Subject, nil }
func (c *Claims) GetAudience() (jwt.ClaimStrings, error)       { return c.Audience, nil }

// Encode signs claims into a compact RS256 token under the given kid.
// Verification never needs this; it exists so tests and tooling can mint
// fixture tokens that Decode and Verify round-trip.
func Encode(c *Claims, kid string, key *rsa.PrivateKey) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
	tok.Header["kid"] = kid
	return tok.SignedString(key)
}

// NormalizeGroups lowercases and de-duplicates a group list. Group matching
// is case-insensitive everywhere, so callers can compare normalized slices.
func NormalizeGroups(groups []string) []string {
	out := make([]string, 0, len(groups))
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
