package http

import (
	"net/http"

	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/httpx"
	"github.com/coursekit/authgate/pkg/jwtx"
)

type LogoutHandler struct {
	Auth    *service.AuthService
	Cookies cookiex.Options
}

// ServeHTTP godoc
//
//	@Summary		Logout Endpoint
//	@Description	Clears the session cookies and revokes the provider session best-effort.
//	@Description	Always reports success: a failed provider call must not keep a user signed in.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	SuccessResponse
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// No session middleware here: expired cookies must still clear.
	var accessToken, subject, username string
	if t := cookiex.Read(r); t != nil {
		accessToken = t.AccessToken
		if claims, err := jwtx.Decode(t.IDToken); err == nil {
			subject = claims.Subject
			username = claims.Username
		}
	}

	h.Auth.Logout(ctx, accessToken, subject, username)

	cookiex.Clear(w, h.Cookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
