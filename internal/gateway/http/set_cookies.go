package http

import (
	"net/http"

	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/httpx"
	"github.com/coursekit/authgate/pkg/jwtx"
	"github.com/coursekit/authgate/pkg/slogx"
)

type SetCookiesHandler struct {
	Verifier *jwtx.Verifier
	Cookies  cookiex.Options
}

type setCookiesRequest struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn,omitempty"`
}

// ServeHTTP godoc
//
//	@Summary		Set Session Cookies Endpoint
//	@Description	Persists externally obtained tokens (e.g. from a browser-side provider SDK)
//	@Description	as session cookies. Both tokens are fully validated first; the endpoint
//	@Description	refuses to store a session it would not accept back.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		setCookiesRequest	true	"Token pair"
//	@Success		200		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed request"
//	@Failure		401		{object}	ErrorResponse	"Tokens failed validation"
//	@Router			/v1/auth/set-cookies [post].
func (h *SetCookiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req setCookiesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AccessToken == "" || req.IDToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "accessToken and idToken are required"})
		return
	}

	if _, err := h.Verifier.VerifySession(ctx, req.AccessToken, req.IDToken); err != nil {
		log.Warn("rejected externally supplied tokens", "error", err)
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid tokens"})
		return
	}

	cookiex.Write(w, cookiex.Tokens{
		AccessToken:  req.AccessToken,
		IDToken:      req.IDToken,
		RefreshToken: req.RefreshToken,
		ExpiresIn:    req.ExpiresIn,
	}, h.Cookies)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
