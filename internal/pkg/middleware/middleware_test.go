package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/domain"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/pkg/middleware"
	"stockdesk/internal/pkg/token"
)

func protected(t *testing.T, svc *token.Service, privileges ...string) http.HandlerFunc {
	t.Helper()
	var h http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetSessionClaimsFromContext(r.Context())
		assert.True(t, ok)
		w.Header().Set("X-Session", claims.SessionID)
		w.WriteHeader(http.StatusNoContent)
	}
	if len(privileges) > 0 {
		h = middleware.PrivilegeMiddleware(privileges...)(h)
	}
	return middleware.NewCSRFMiddleware(svc, "X-CSRF-TOKEN", logger.NewNop())(h)
}

func TestCSRFMiddleware_Success(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)
	tok, err := svc.GenerateToken("sess-9", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("X-CSRF-TOKEN", tok)
	rec := httptest.NewRecorder()

	protected(t, svc)(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "sess-9", rec.Header().Get("X-Session"))
}

func TestCSRFMiddleware_Fail_MissingOrInvalid(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)

	for _, value := range []string{"", "lixo"} {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		if value != "" {
			req.Header.Set("X-CSRF-TOKEN", value)
		}
		rec := httptest.NewRecorder()

		protected(t, svc)(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		var body domain.APIResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Message)
	}
}

func TestPrivilegeMiddleware_Fail_UserOnAdminRoute(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)
	tok, err := svc.GenerateToken("s", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/x", nil)
	req.Header.Set("X-CSRF-TOKEN", tok)
	rec := httptest.NewRecorder()

	protected(t, svc, "admin")(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	h := middleware.RequestLogger(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(middleware.RequestIDHeader))
}
