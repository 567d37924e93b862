package httpx

import (
	"context"

	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/jwtx"
)

type ctxKey string

const (
	ctxKeySubject ctxKey = "subject"
	ctxKeyGroups  ctxKey = "groups"
	ctxKeyClaims  ctxKey = "claims"
	ctxKeyTokens  ctxKey = "tokens"
)

// SubjectFromContext returns the authenticated subject id, if any.
func SubjectFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySubject).(string); ok {
		return v
	}
	return ""
}

// GroupsFromContext returns the authenticated user's normalized groups.
func GroupsFromContext(ctx context.Context) []string {
	if v, ok := ctx.Value(ctxKeyGroups).([]string); ok {
		return v
	}
	return nil
}

// ClaimsFromContext returns the validated session claims.
func ClaimsFromContext(ctx context.Context) *jwtx.SessionClaims {
	if v, ok := ctx.Value(ctxKeyClaims).(*jwtx.SessionClaims); ok {
		return v
	}
	return nil
}

// TokensFromContext returns the raw cookie tokens of the validated session.
// Handlers that call downstream APIs need the token string itself, not just
// its claims.
func TokensFromContext(ctx context.Context) *cookiex.Tokens {
	if v, ok := ctx.Value(ctxKeyTokens).(*cookiex.Tokens); ok {
		return v
	}
	return nil
}

func contextWithSession(ctx context.Context, sc *jwtx.SessionClaims, t *cookiex.Tokens) context.Context {
	ctx = context.WithValue(ctx, ctxKeySubject, sc.Access.Subject)
	ctx = context.WithValue(ctx, ctxKeyGroups, sc.Groups())
	ctx = context.WithValue(ctx, ctxKeyClaims, sc)
	ctx = context.WithValue(ctx, ctxKeyTokens, t)
	return ctx
}
