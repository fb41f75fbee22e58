package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/backoffice/internal/authz"
	"github.com/suteetoe/backoffice/pkg/config"
	"github.com/suteetoe/backoffice/pkg/jwtutil"
)

type recorder struct {
	reasons []string
}

func (r *recorder) RecordAuthFailure(reason string) {
	r.reasons = append(r.reasons, reason)
}

func newServer(t *testing.T, failures *recorder) (*echo.Echo, *jwtutil.JWTUtil) {
	t.Helper()
	tokens := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1, Issuer: "backoffice"})
	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)

	e := echo.New()
	e.Use(RequestID())
	api := e.Group("/api", JWTAuth(tokens, failures))
	products := api.Group("/products", RequireAccess(enforcer, authz.ObjectProduct, failures))
	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, Claims(c).Username)
	}
	products.GET("", ok)
	products.POST("", ok)
	return e, tokens
}

func token(t *testing.T, tokens *jwtutil.JWTUtil, roles ...string) string {
	t.Helper()
	tok, err := tokens.GenerateToken(jwtutil.Subject{UserID: 1, Username: "admin", Roles: roles})
	require.NoError(t, err)
	return tok
}

func TestRequestIDIsKeptOrAssigned(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestJWTAuthRejectsBadCredentials(t *testing.T) {
	failures := &recorder{}
	e, _ := newServer(t, failures)
	other := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "other-key", ExpirationHours: 1, Issuer: "backoffice"})

	tests := []struct {
		name   string
		header string
		reason string
	}{
		{"missing header", "", ReasonMissingToken},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ReasonInvalidToken},
		{"garbage token", "Bearer not.a.token", ReasonInvalidToken},
		{"wrong signing key", "Bearer " + token(t, other, authz.RoleAdmin), ReasonInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures.reasons = nil
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, []string{tt.reason}, failures.reasons)
		})
	}
}

func TestRequireAccessChecksRole(t *testing.T) {
	failures := &recorder{}
	e, tokens := newServer(t, failures)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/api/products", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, tokens, authz.RoleAdmin))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, "admin", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, tokens, "CUSTOMER"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []string{ReasonForbidden}, failures.reasons)
}
