package httpx

import (
	"net/http"

	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/jwtx"
	"github.com/coursekit/authgate/pkg/permx"
	"github.com/coursekit/authgate/pkg/slogx"
)

// SessionMiddleware authenticates requests from session cookies. Both the
// access and the id token must validate; on any failure the cookies are
// cleared so the browser does not keep replaying a dead session. The caller
// only ever sees a generic 401; the tagged rejection reason goes to the log.
func SessionMiddleware(v *jwtx.Verifier, opts cookiex.Options) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			tokens := cookiex.Read(r)
			if tokens == nil {
				WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			sc, err := v.VerifySession(ctx, tokens.AccessToken, tokens.IDToken)
			if err != nil {
				log.Warn("session validation failed", "err", err)
				cookiex.Clear(w, opts)
				WriteError(w, http.StatusUnauthorized, "session invalid")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(ctx, sc, tokens)))
		})
	}
}

// RequirePermission gates a route on a structured permission requirement,
// evaluated against the groups SessionMiddleware extracted from the id
// token. Must run after SessionMiddleware in the chain.
func RequirePermission(req permx.Requirement) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			groups := GroupsFromContext(r.Context())
			if !req.Allows(groups) {
				WriteError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
