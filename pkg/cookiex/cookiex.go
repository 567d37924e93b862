// Package cookiex is the bridge between a browser-held session and server
// middleware: it writes, reads and clears the auth token cookies with
// consistent security attributes.
package cookiex

import "net/http"

// Cookie names shared with the frontend.
const (
	AccessTokenCookie  = "accessToken"
	IDTokenCookie      = "idToken"
	RefreshTokenCookie = "refreshToken"
)

const (
	// DefaultMaxAge applies to access and id cookies when the provider did
	// not report an expiry.
	DefaultMaxAge = 3600
	// RefreshMaxAge is 30 days; the refresh token is the long-lived leg of
	// the session.
	RefreshMaxAge = 30 * 24 * 3600
)

// Tokens is the cookie-held representation of a session.
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	// ExpiresIn is the access/id lifetime in seconds; 0 means DefaultMaxAge.
	ExpiresIn int
}

// Options controls attributes that vary by deployment.
type Options struct {
	// Secure should be true everywhere except local development over http.
	Secure bool
}

func newCookie(name, value string, maxAge int, opts Options) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Write sets the session cookies. Access and id share a lifetime; the
// refresh cookie, when present, gets its own longer one. All three carry the
// same security attributes.
func Write(w http.ResponseWriter, t Tokens, opts Options) {
	maxAge := t.ExpiresIn
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	http.SetCookie(w, newCookie(AccessTokenCookie, t.AccessToken, maxAge, opts))
	http.SetCookie(w, newCookie(IDTokenCookie, t.IDToken, maxAge, opts))
	if t.RefreshToken != "" {
		http.SetCookie(w, newCookie(RefreshTokenCookie, t.RefreshToken, RefreshMaxAge, opts))
	}
}

// Clear expires all three cookies unconditionally. Clearing an absent cookie
// is a no-op, so Clear is idempotent.
func Clear(w http.ResponseWriter, opts Options) {
	for _, name := range []string{AccessTokenCookie, IDTokenCookie, RefreshTokenCookie} {
		c := newCookie(name, "", -1, opts)
		http.SetCookie(w, c)
	}
}

// Read extracts the session from request cookies. A session needs both the
// access and id tokens; anything less returns nil. A refresh token alone is
// only useful to the refresh endpoint, never for request authorization.
func Read(r *http.Request) *Tokens {
	access, err := r.Cookie(AccessTokenCookie)
	if err != nil || access.Value == "" {
		return nil
	}
	id, err := r.Cookie(IDTokenCookie)
	if err != nil || id.Value == "" {
		return nil
	}

	t := &Tokens{AccessToken: access.Value, IDToken: id.Value}
	if refresh, err := r.Cookie(RefreshTokenCookie); err == nil {
		t.RefreshToken = refresh.Value
	}
	return t
}
