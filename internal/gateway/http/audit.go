package http

import (
	"net/http"
	"strconv"

	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/pkg/httpx"
	"github.com/coursekit/authgate/pkg/slogx"
)

type AuditHandler struct {
	Auth *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Audit Trail Endpoint
//	@Description	Lists the most recent authentication events. Requires the admin group.
//	@Tags			Admin
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum events to return (default 100, max 500)"
//	@Success		200		{object}	AuditResponse
//	@Failure		401		{object}	ErrorResponse	"No session or session invalid"
//	@Failure		403		{object}	ErrorResponse	"Insufficient permissions"
//	@Router			/v1/audit [get].
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.Auth.AuditTrail(ctx, limit)
	if err != nil {
		slogx.FromContext(ctx).Error("audit trail query failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	dtos := make([]AuditEventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, AuditEventDTO{
			ID:         e.ID,
			Kind:       string(e.Kind),
			Subject:    e.Subject,
			Username:   e.Username,
			ClientKind: string(e.ClientKind),
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt,
		})
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, AuditResponse{Events: dtos})
}
