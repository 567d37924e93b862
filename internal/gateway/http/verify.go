package http

import (
	"net/http"

	"github.com/coursekit/authgate/pkg/httpx"
)

type VerifyHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Verify Session Endpoint
//	@Description	Reports whether the cookie session is valid and who it belongs to.
//	@Description	Runs behind the session middleware, so reaching the handler means valid.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	VerifyResponse	"valid, user{sub, groups}"
//	@Failure		401	{object}	ErrorResponse	"No session or session invalid"
//	@Router			/v1/auth/verify [get].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sc := httpx.ClaimsFromContext(ctx)
	if sc == nil {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, VerifyResponse{
		Valid: true,
		User: &VerifyUser{
			Sub:      sc.ID.Subject,
			Email:    sc.ID.Email,
			Username: sc.ID.Username,
			Groups:   sc.Groups(),
		},
	})
}
