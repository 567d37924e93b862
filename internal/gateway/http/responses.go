package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/pkg/httpx"
)

// ErrorResponse is the uniform failure body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// LoginResponse reports the outcome of a login attempt. Tokens are never in
// the body; they travel only as cookies.
type LoginResponse struct {
	Success bool   `json:"success"`
	State   string `json:"state"`
	Session string `json:"session,omitempty"`
}

// SuccessResponse is the body for operations with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// VerifyResponse describes the current session.
type VerifyResponse struct {
	Valid bool        `json:"valid"`
	User  *VerifyUser `json:"user,omitempty"`
}

type VerifyUser struct {
	Sub      string   `json:"sub"`
	Email    string   `json:"email,omitempty"`
	Username string   `json:"username,omitempty"`
	Groups   []string `json:"groups"`
}

// AuditResponse lists recorded authentication events.
type AuditResponse struct {
	Events []AuditEventDTO `json:"events"`
}

type AuditEventDTO struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Subject    string    `json:"subject,omitempty"`
	Username   string    `json:"username,omitempty"`
	ClientKind string    `json:"client_kind,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// HealthResponse is shared by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

// maxBodyBytes caps request bodies; every accepted body is a small JSON
// document.
const maxBodyBytes = 1 << 16

// decodeJSON reads a JSON request body into dst, rejecting unknown fields.
// On failure it writes the 400 itself and reports false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// writeServiceError maps orchestrator sentinels onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidSession):
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrThrottled):
		httpx.WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrProviderUnavailable):
		httpx.WriteJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrConfiguration):
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
