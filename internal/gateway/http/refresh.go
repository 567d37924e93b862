package http

import (
	"net/http"

	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/httpx"
	"github.com/coursekit/authgate/pkg/jwtx"
)

type RefreshHandler struct {
	Auth    *service.AuthService
	Cookies cookiex.Options
}

// ServeHTTP godoc
//
//	@Summary		Refresh Session Endpoint
//	@Description	Exchanges the refresh cookie for a fresh access/id token pair and rewrites
//	@Description	the session cookies. Only the refresh cookie is required: the access and id
//	@Description	cookies expire long before it and are usually gone by the time this is called.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	SuccessResponse	"Cookies rewritten"
//	@Failure		401	{object}	ErrorResponse	"No refresh token, or refresh rejected"
//	@Failure		503	{object}	ErrorResponse	"Provider unavailable"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refresh, err := r.Cookie(cookiex.RefreshTokenCookie)
	if err != nil || refresh.Value == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "no refresh token"})
		return
	}

	// The username feeds the confidential client's SECRET_HASH. The id cookie
	// is optional here and may hold an expired token, so decode only.
	var username string
	if idCookie, err := r.Cookie(cookiex.IDTokenCookie); err == nil {
		if claims, err := jwtx.Decode(idCookie.Value); err == nil {
			username = claims.Username
		}
	}

	tokens, err := h.Auth.Refresh(ctx, username, refresh.Value)
	if err != nil {
		cookiex.Clear(w, h.Cookies)
		writeServiceError(w, err)
		return
	}

	// Refresh responses omit a new refresh token unless rotation is on.
	refreshToken := tokens.RefreshToken
	if refreshToken == "" {
		refreshToken = refresh.Value
	}

	cookiex.Write(w, cookiex.Tokens{
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: refreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, h.Cookies)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
