package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/internal/gateway/store"
	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/httpx"
	"github.com/coursekit/authgate/pkg/jwtx"
	"github.com/coursekit/authgate/pkg/permx"
	"github.com/coursekit/authgate/pkg/slogx"

	_ "github.com/coursekit/authgate/api/authgate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	cookies      cookiex.Options
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService

	DownstreamBaseURL  string
	DownstreamClientID string
}

func NewRouter(
	verifier *jwtx.Verifier,
	cookies cookiex.Options,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		cookies:      cookies,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPasswords()
	r.registerContent()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AuthGate API
//	@version		0.1.0
//	@description	Authentication gateway bridging browser cookie sessions to a Cognito-style
//	@description	identity provider. Sessions are carried as httpOnly cookies holding the
//	@description	provider's RS256 JWTs, verified locally against the issuer's JWKS.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{Auth: r.AuthService, Cookies: r.cookies}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - works without a valid session so stale cookies still clear
	logoutHandler := &LogoutHandler{Auth: r.AuthService, Cookies: r.cookies}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /verify - session-gated, lenient limit keyed by subject
	r.Mux.Handle("GET /v1/auth/verify",
		httpx.Chain(&VerifyHandler{},
			httpx.SessionMiddleware(r.verifier, r.cookies),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)

	// POST /set-cookies - externally obtained tokens, validated before storage
	setCookiesHandler := &SetCookiesHandler{Verifier: r.verifier, Cookies: r.cookies}
	r.Mux.Handle("POST /v1/auth/set-cookies",
		httpx.Chain(setCookiesHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /refresh - no session middleware, the access token is expired here
	refreshHandler := &RefreshHandler{Auth: r.AuthService, Cookies: r.cookies}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /respond-new-password - challenge continuation, strict like login
	respondHandler := &RespondNewPasswordHandler{Auth: r.AuthService, Cookies: r.cookies}
	r.Mux.Handle("POST /v1/auth/respond-new-password",
		httpx.Chain(respondHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerPasswords() {
	// POST /password/change - session-gated
	changeHandler := &ChangePasswordHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /v1/auth/password/change",
		httpx.Chain(changeHandler,
			httpx.SessionMiddleware(r.verifier, r.cookies),
			httpx.RateLimitBySubject(httpx.StrictLimit),
		),
	)

	// POST /password/reset and /reset/confirm - anonymous, strict by IP
	resetHandler := &ResetPasswordHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /v1/auth/password/reset",
		httpx.Chain(resetHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	confirmHandler := &ConfirmResetPasswordHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /v1/auth/password/reset/confirm",
		httpx.Chain(confirmHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerContent() {
	// No downstream API configured; the proxy has nowhere to forward.
	if r.DownstreamBaseURL == "" {
		return
	}

	h := NewContentHandler(r.DownstreamBaseURL, r.DownstreamClientID)

	// Session-gated; any recognised permission level may read content
	r.Mux.Handle("GET /v1/content/{contentID}",
		httpx.Chain(h,
			httpx.SessionMiddleware(r.verifier, r.cookies),
			httpx.RequirePermission(permx.RequireLevel(permx.User)),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AuditHandler{Auth: r.AuthService}

	r.Mux.Handle("GET /v1/audit",
		httpx.Chain(h,
			httpx.SessionMiddleware(r.verifier, r.cookies),
			httpx.RequirePermission(permx.RequireLevel(permx.Admin)),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
