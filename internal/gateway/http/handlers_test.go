package http

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coursekit/authgate/internal/gateway/provider"
	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/internal/gateway/store"
	"github.com/coursekit/authgate/internal/gateway/store/drivers/sqlite"
	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer       = "https://cognito-idp.ap-southeast-2.amazonaws.com/test-pool"
	testKid          = "kid-1"
	downstreamClient = "server-client-id"
)

type stubProvider struct {
	initiateFn func(creds provider.Credentials) (*provider.AuthOutcome, error)
	respondFn  func(username, newPassword, session string) (*provider.AuthOutcome, error)
	refreshFn  func(username, refreshToken string) (*provider.TokenSet, error)
}

func (s *stubProvider) InitiateAuth(_ context.Context, creds provider.Credentials) (*provider.AuthOutcome, error) {
	return s.initiateFn(creds)
}

func (s *stubProvider) RespondNewPassword(_ context.Context, username, newPassword, session string) (*provider.AuthOutcome, error) {
	return s.respondFn(username, newPassword, session)
}

func (s *stubProvider) Refresh(_ context.Context, username, refreshToken string) (*provider.TokenSet, error) {
	return s.refreshFn(username, refreshToken)
}

func (s *stubProvider) GlobalSignOut(context.Context, string) error          { return nil }
func (s *stubProvider) ChangePassword(context.Context, string, string, string) error { return nil }
func (s *stubProvider) ForgotPassword(context.Context, string) error         { return nil }
func (s *stubProvider) ConfirmForgotPassword(context.Context, string, string, string) error {
	return nil
}

// testEnv bundles a signing key, a JWKS server and a wired router.
type testEnv struct {
	key      *rsa.PrivateKey
	verifier *jwtx.Verifier
	router   *Router
}

func newTestEnv(t *testing.T, pub provider.Client, st store.Store) *testEnv {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := jwtx.JWKS{Keys: []jwtx.JWK{{
			Kty: "RSA",
			Use: "sig",
			Alg: "RS256",
			Kid: testKid,
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(doc))
	}))
	t.Cleanup(jwks.Close)

	verifier := jwtx.NewVerifier(testIssuer, jwtx.NewRemoteKeySet(jwks.URL))

	logger := slog.New(slog.DiscardHandler)

	router := NewRouter(verifier, cookiex.Options{}, "test", st, logger)
	router.AuthService = &service.AuthService{Public: pub, Store: st}
	router.DownstreamClientID = downstreamClient
	router.DownstreamBaseURL = "http://downstream.invalid"
	router.ApplyRoutes()

	return &testEnv{key: key, verifier: verifier, router: router}
}

func (e *testEnv) mintToken(t *testing.T, use jwtx.TokenUse, mutate func(*jwtx.Claims)) string {
	t.Helper()
	claims := &jwtx.Claims{
		Subject:   "user-123",
		Issuer:    testIssuer,
		TokenUse:  use,
		ClientID:  "public-client-id",
		Username:  "alex",
		Email:     "alex@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	if mutate != nil {
		mutate(claims)
	}
	token, err := jwtx.Encode(claims, testKid, e.key)
	require.NoError(t, err)
	return token
}

func (e *testEnv) sessionCookies(t *testing.T, groups ...string) []*http.Cookie {
	access := e.mintToken(t, jwtx.TokenUseAccess, nil)
	id := e.mintToken(t, jwtx.TokenUseID, func(c *jwtx.Claims) {
		c.Groups = groups
		c.Audience = jwt.ClaimStrings{downstreamClient}
		c.ClientID = ""
	})
	return []*http.Cookie{
		{Name: cookiex.AccessTokenCookie, Value: access},
		{Name: cookiex.IDTokenCookie, Value: id},
	}
}

func doRequest(router *Router, method, path string, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func setCookieByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("success sets session cookies", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{
			initiateFn: func(provider.Credentials) (*provider.AuthOutcome, error) {
				return &provider.AuthOutcome{Tokens: &provider.TokenSet{
					AccessToken: "acc", IDToken: "id", RefreshToken: "ref", ExpiresIn: 3600,
				}}, nil
			},
		}, nil)

		rec := doRequest(env.router, http.MethodPost, "/v1/auth/login",
			`{"email":"alex@example.com","password":"hunter2"}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		cookies := setCookieByName(rec)
		require.Equal(t, "acc", cookies[cookiex.AccessTokenCookie].Value)
		require.Equal(t, "id", cookies[cookiex.IDTokenCookie].Value)
		require.Equal(t, "ref", cookies[cookiex.RefreshTokenCookie].Value)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		require.Equal(t, "authenticated", resp.State)
	})

	t.Run("rejection returns the generic message without cookies", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{
			initiateFn: func(provider.Credentials) (*provider.AuthOutcome, error) {
				return nil, &provider.Error{Kind: provider.KindCredentialRejected, Op: "initiate_auth"}
			},
		}, nil)

		rec := doRequest(env.router, http.MethodPost, "/v1/auth/login",
			`{"email":"alex@example.com","password":"wrong"}`, nil)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, rec.Result().Cookies())

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "invalid email or password", resp.Error)
	})

	t.Run("challenge returns 409 with the continuation session", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{
			initiateFn: func(provider.Credentials) (*provider.AuthOutcome, error) {
				return &provider.AuthOutcome{Challenge: &provider.Challenge{
					Kind: provider.ChallengeNewPassword, Session: "sess-1",
				}}, nil
			},
		}, nil)

		rec := doRequest(env.router, http.MethodPost, "/v1/auth/login",
			`{"email":"alex@example.com","password":"temp"}`, nil)

		require.Equal(t, http.StatusConflict, rec.Code)
		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "new_password_required", resp.State)
		require.Equal(t, "sess-1", resp.Session)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		rec := doRequest(env.router, http.MethodPost, "/v1/auth/login",
			`{"email":"alex@example.com"}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVerifyEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid session reports the user", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		rec := doRequest(env.router, http.MethodGet, "/v1/auth/verify", "",
			env.sessionCookies(t, "Admin", "Content-Managers"))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp VerifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Valid)
		require.Equal(t, "user-123", resp.User.Sub)
		require.Equal(t, []string{"admin", "content-managers"}, resp.User.Groups)
	})

	t.Run("no cookies is unauthorized", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		rec := doRequest(env.router, http.MethodGet, "/v1/auth/verify", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired session is rejected and cookies cleared", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)

		expired := env.mintToken(t, jwtx.TokenUseAccess, func(c *jwtx.Claims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		})
		id := env.mintToken(t, jwtx.TokenUseID, nil)

		rec := doRequest(env.router, http.MethodGet, "/v1/auth/verify", "", []*http.Cookie{
			{Name: cookiex.AccessTokenCookie, Value: expired},
			{Name: cookiex.IDTokenCookie, Value: id},
		})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		cookies := setCookieByName(rec)
		require.Len(t, cookies, 3)
		for _, c := range cookies {
			require.Negative(t, c.MaxAge)
		}
	})
}

func TestSetCookiesEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid tokens are persisted", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		access := env.mintToken(t, jwtx.TokenUseAccess, nil)
		id := env.mintToken(t, jwtx.TokenUseID, nil)

		body, err := json.Marshal(setCookiesRequest{
			AccessToken: access, IDToken: id, ExpiresIn: 1800,
		})
		require.NoError(t, err)

		rec := doRequest(env.router, http.MethodPost, "/v1/auth/set-cookies", string(body), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := setCookieByName(rec)
		require.Equal(t, access, cookies[cookiex.AccessTokenCookie].Value)
		require.Equal(t, 1800, cookies[cookiex.AccessTokenCookie].MaxAge)
	})

	t.Run("invalid tokens are refused", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		// Token from a different issuer fails validation.
		foreign := env.mintToken(t, jwtx.TokenUseAccess, func(c *jwtx.Claims) {
			c.Issuer = "https://cognito-idp.us-east-1.amazonaws.com/other"
		})
		id := env.mintToken(t, jwtx.TokenUseID, nil)

		body, err := json.Marshal(setCookiesRequest{AccessToken: foreign, IDToken: id})
		require.NoError(t, err)

		rec := doRequest(env.router, http.MethodPost, "/v1/auth/set-cookies", string(body), nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, rec.Result().Cookies())
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{}, nil)
	rec := doRequest(env.router, http.MethodPost, "/v1/auth/logout", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := setCookieByName(rec)
	require.Len(t, cookies, 3)
	for _, c := range cookies {
		require.Negative(t, c.MaxAge)
	}

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("rotates the cookie pair", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{
			refreshFn: func(username, refreshToken string) (*provider.TokenSet, error) {
				return &provider.TokenSet{
					AccessToken: "new-acc", IDToken: "new-id", ExpiresIn: 3600,
				}, nil
			},
		}, nil)

		cookies := append(env.sessionCookies(t),
			&http.Cookie{Name: cookiex.RefreshTokenCookie, Value: "ref-1"})
		rec := doRequest(env.router, http.MethodPost, "/v1/auth/refresh", "", cookies)

		require.Equal(t, http.StatusOK, rec.Code)
		set := setCookieByName(rec)
		require.Equal(t, "new-acc", set[cookiex.AccessTokenCookie].Value)
		// The old refresh token is kept when the provider does not rotate it.
		require.Equal(t, "ref-1", set[cookiex.RefreshTokenCookie].Value)
	})

	t.Run("works with only the refresh cookie", func(t *testing.T) {
		// The access and id cookies carry a 1h max-age and are gone by the
		// time the 30-day refresh cookie is typically presented.
		var gotUsername string
		env := newTestEnv(t, &stubProvider{
			refreshFn: func(username, refreshToken string) (*provider.TokenSet, error) {
				gotUsername = username
				require.Equal(t, "ref-only", refreshToken)
				return &provider.TokenSet{
					AccessToken: "new-acc", IDToken: "new-id", ExpiresIn: 3600,
				}, nil
			},
		}, nil)

		rec := doRequest(env.router, http.MethodPost, "/v1/auth/refresh", "",
			[]*http.Cookie{{Name: cookiex.RefreshTokenCookie, Value: "ref-only"}})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, gotUsername)
		set := setCookieByName(rec)
		require.Equal(t, "new-acc", set[cookiex.AccessTokenCookie].Value)
		require.Equal(t, "new-id", set[cookiex.IDTokenCookie].Value)
		require.Equal(t, "ref-only", set[cookiex.RefreshTokenCookie].Value)
	})

	t.Run("missing refresh cookie is unauthorized", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		rec := doRequest(env.router, http.MethodPost, "/v1/auth/refresh", "",
			env.sessionCookies(t))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected refresh clears the session", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{
			refreshFn: func(string, string) (*provider.TokenSet, error) {
				return nil, &provider.Error{Kind: provider.KindCredentialRejected, Op: "refresh"}
			},
		}, nil)

		cookies := append(env.sessionCookies(t),
			&http.Cookie{Name: cookiex.RefreshTokenCookie, Value: "revoked"})
		rec := doRequest(env.router, http.MethodPost, "/v1/auth/refresh", "", cookies)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		for _, c := range rec.Result().Cookies() {
			require.Negative(t, c.MaxAge)
		}
	})
}

func TestContentEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("proxies with the id token when the audience matches", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		cookies := env.sessionCookies(t, "Viewer")

		downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			require.Equal(t, cookies[1].Value, bearer) // id token cookie
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"doc-1","title":"hello"}`))
		}))
		t.Cleanup(downstream.Close)
		env.router.DownstreamBaseURL = downstream.URL
		// Routes capture the handler at registration; re-register with the URL.
		env.router.Mux = http.NewServeMux()
		env.router.ApplyRoutes()

		rec := doRequest(env.router, http.MethodGet, "/v1/content/doc-1", "", cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"id":"doc-1","title":"hello"}`, rec.Body.String())
	})

	t.Run("requires a ranked group", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		rec := doRequest(env.router, http.MethodGet, "/v1/content/doc-1", "",
			env.sessionCookies(t)) // no groups at all
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("requires a session", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		rec := doRequest(env.router, http.MethodGet, "/v1/content/doc-1", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("absent without a configured downstream", func(t *testing.T) {
		env := newTestEnv(t, &stubProvider{}, nil)
		env.router.DownstreamBaseURL = ""
		env.router.Mux = http.NewServeMux()
		env.router.ApplyRoutes()

		rec := doRequest(env.router, http.MethodGet, "/v1/content/doc-1", "",
			env.sessionCookies(t, "Viewer"))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuditEndpoint(t *testing.T) {
	t.Parallel()

	newStoreEnv := func(t *testing.T) *testEnv {
		st, err := sqlite.NewStore(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		require.NoError(t, st.ApplyMigrations())
		return newTestEnv(t, &stubProvider{
			initiateFn: func(provider.Credentials) (*provider.AuthOutcome, error) {
				return &provider.AuthOutcome{Tokens: &provider.TokenSet{
					AccessToken: "acc", IDToken: "id", ExpiresIn: 3600,
				}}, nil
			},
		}, st)
	}

	t.Run("admin sees recorded events", func(t *testing.T) {
		env := newStoreEnv(t)

		// Produce one audit event.
		rec := doRequest(env.router, http.MethodPost, "/v1/auth/login",
			`{"email":"alex@example.com","password":"hunter2"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(env.router, http.MethodGet, "/v1/audit", "",
			env.sessionCookies(t, "Admin"))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuditResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Events)
		require.Equal(t, "login_success", resp.Events[0].Kind)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		env := newStoreEnv(t)
		rec := doRequest(env.router, http.MethodGet, "/v1/audit", "",
			env.sessionCookies(t, "Editor"))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, &stubProvider{}, nil)

	rec := doRequest(env.router, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	rec = doRequest(env.router, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
