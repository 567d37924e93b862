package http

import (
	"net/http"

	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/httpx"
)

type RespondNewPasswordHandler struct {
	Auth    *service.AuthService
	Cookies cookiex.Options
}

type respondNewPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
	Session     string `json:"session"`
}

// ServeHTTP godoc
//
//	@Summary		Complete New-Password Challenge Endpoint
//	@Description	Answers the provider's new-password-required challenge with the session
//	@Description	value returned by login, establishing the cookies on success.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		respondNewPasswordRequest	true	"Email, new password and challenge session"
//	@Success		200		{object}	LoginResponse	"state=authenticated, cookies set"
//	@Failure		400		{object}	ErrorResponse	"Malformed request"
//	@Failure		401		{object}	ErrorResponse	"Session expired or replayed"
//	@Failure		409		{object}	LoginResponse	"Further challenge required"
//	@Router			/v1/auth/respond-new-password [post].
func (h *RespondNewPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req respondNewPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.NewPassword == "" || req.Session == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "email, newPassword and session are required"})
		return
	}

	result, err := h.Auth.CompleteNewPassword(ctx, req.Email, req.NewPassword, req.Session)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if result.State != service.StateAuthenticated {
		httpx.WriteJSON(w, http.StatusConflict, LoginResponse{
			State:   string(result.State),
			Session: result.Session,
		})
		return
	}

	cookiex.Write(w, cookiex.Tokens{
		AccessToken:  result.Tokens.AccessToken,
		IDToken:      result.Tokens.IDToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
	}, h.Cookies)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true, State: string(result.State)})
}
