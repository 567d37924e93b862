package http

import (
	"net/http"

	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/pkg/httpx"
)

type ChangePasswordHandler struct {
	Auth *service.AuthService
}

type changePasswordRequest struct {
	PreviousPassword string `json:"previousPassword"`
	ProposedPassword string `json:"proposedPassword"`
}

// ServeHTTP godoc
//
//	@Summary		Change Password Endpoint
//	@Description	Changes the password of the authenticated session holder via the provider.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		changePasswordRequest	true	"Previous and proposed password"
//	@Success		200		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed request"
//	@Failure		401		{object}	ErrorResponse	"Previous password rejected"
//	@Router			/v1/auth/password/change [post].
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PreviousPassword == "" || req.ProposedPassword == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "previousPassword and proposedPassword are required"})
		return
	}

	tokens := httpx.TokensFromContext(ctx)
	if tokens == nil {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	err := h.Auth.ChangePassword(ctx, tokens.AccessToken, httpx.SubjectFromContext(ctx),
		req.PreviousPassword, req.ProposedPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

type ResetPasswordHandler struct {
	Auth *service.AuthService
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// ServeHTTP godoc
//
//	@Summary		Request Password Reset Endpoint
//	@Description	Starts the provider's forgot-password flow. Always reports success so the
//	@Description	endpoint cannot confirm whether an account exists.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resetPasswordRequest	true	"Account email"
//	@Success		200		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed request"
//	@Router			/v1/auth/password/reset [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "email is required"})
		return
	}

	if err := h.Auth.ResetPassword(ctx, req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

type ConfirmResetPasswordHandler struct {
	Auth *service.AuthService
}

type confirmResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// ServeHTTP godoc
//
//	@Summary		Confirm Password Reset Endpoint
//	@Description	Completes the forgot-password flow with the emailed confirmation code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		confirmResetPasswordRequest	true	"Email, code and new password"
//	@Success		200		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed request"
//	@Failure		401		{object}	ErrorResponse	"Code rejected"
//	@Router			/v1/auth/password/reset/confirm [post].
func (h *ConfirmResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req confirmResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "email, code and newPassword are required"})
		return
	}

	if err := h.Auth.ConfirmResetPassword(ctx, req.Email, req.Code, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
