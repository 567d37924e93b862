package http

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/coursekit/authgate/pkg/httpx"
	"github.com/coursekit/authgate/pkg/slogx"
)

type ContentHandler struct {
	// BaseURL is the downstream content API root, without trailing slash.
	BaseURL string

	// DownstreamClientID is the audience the downstream API accepts.
	DownstreamClientID string

	Client *http.Client
}

func NewContentHandler(baseURL, downstreamClientID string) *ContentHandler {
	return &ContentHandler{
		BaseURL:            baseURL,
		DownstreamClientID: downstreamClientID,
		Client:             &http.Client{Timeout: 15 * time.Second},
	}
}

// ServeHTTP godoc
//
//	@Summary		Protected Content Proxy Endpoint
//	@Description	Fetches a content item from the downstream API on behalf of the session
//	@Description	holder. The bearer token is the session's id token when its audience
//	@Description	matches the downstream client, otherwise the access token.
//	@Tags			Content
//	@Produce		json
//	@Param			contentID	path		string	true	"Content item id"
//	@Success		200			{object}	object	"Downstream response, passed through"
//	@Failure		401			{object}	ErrorResponse	"No session or session invalid"
//	@Failure		403			{object}	ErrorResponse	"Insufficient permissions"
//	@Failure		502			{object}	ErrorResponse	"Downstream unreachable"
//	@Router			/v1/content/{contentID} [get].
func (h *ContentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	sc := httpx.ClaimsFromContext(ctx)
	tokens := httpx.TokensFromContext(ctx)
	if sc == nil || tokens == nil {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	contentID := r.PathValue("contentID")
	if contentID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "content id is required"})
		return
	}

	bearer := tokens.AccessToken
	if sc.ID.HasAudience(h.DownstreamClientID) {
		bearer = tokens.IDToken
	}

	target := h.BaseURL + "/content/" + url.PathEscape(contentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		log.Error("downstream content fetch failed", "content_id", contentID, "error", err)
		httpx.WriteJSON(w, http.StatusBadGateway, ErrorResponse{Error: "content service unavailable"})
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	httpx.NoCache(w)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Warn("content proxy copy interrupted", "content_id", contentID, "error", err)
	}
}
