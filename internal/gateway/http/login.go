package http

import (
	"net/http"

	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/httpx"
	"github.com/coursekit/authgate/pkg/slogx"
)

type LoginHandler struct {
	Auth    *service.AuthService
	Cookies cookiex.Options
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticates email/password credentials against the identity provider and
//	@Description	establishes the session cookies. Challenge outcomes (new password, MFA) are
//	@Description	reported with 409 and a continuation session value.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse	"state=authenticated, cookies set"
//	@Failure		400		{object}	ErrorResponse	"Malformed request"
//	@Failure		401		{object}	ErrorResponse	"Credentials rejected"
//	@Failure		409		{object}	LoginResponse	"Challenge required"
//	@Failure		503		{object}	ErrorResponse	"Provider unavailable"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "email and password are required"})
		return
	}

	result, err := h.Auth.Login(ctx, service.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
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

	log.Info("login succeeded", "client", string(result.Client))
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Success: true, State: string(result.State)})
}
