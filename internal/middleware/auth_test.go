package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func newAuthRouter(t *testing.T) (*gin.Engine, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var actor string
	r := gin.New()
	r.Use(AuthMiddleware(testSecret))
	r.GET("/whoami", func(c *gin.Context) {
		actor = ContextActorProvider{}.CurrentActorID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r, &actor
}

func serve(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, actor := newAuthRouter(t)
	token, err := IssueToken("treasurer-1", testSecret, time.Hour)
	require.NoError(t, err)

	w := serve(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "treasurer-1", *actor)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired, err := IssueToken("treasurer-1", testSecret, -time.Minute)
	require.NoError(t, err)
	wrongSecret, err := IssueToken("treasurer-1", "another-secret", time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", "Authorization header required"},
		{"wrong scheme", "Basic abc", "Authorization header format must be Bearer {token}"},
		{"expired", "Bearer " + expired, "Token has expired"},
		{"wrong secret", "Bearer " + wrongSecret, "Invalid token"},
		{"no subject", "Bearer " + noSubject, "Invalid token claims"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, actor := newAuthRouter(t)
			w := serve(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Empty(t, *actor)
		})
	}
}

func TestIssueToken_RequiresSubject(t *testing.T) {
	_, err := IssueToken("", testSecret, time.Hour)
	assert.Error(t, err)
}

func TestContextActorProvider_FallsBackToSystem(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	p := ContextActorProvider{}
	assert.False(t, p.HasCurrentActor(req.Context()))
	assert.Equal(t, portssvc.SystemActorID, p.CurrentActorID(req.Context()))

	ctx := WithUserID(req.Context(), "auditor")
	assert.True(t, p.HasCurrentActor(ctx))
	assert.Equal(t, "auditor", p.CurrentActorID(ctx))
}

func TestRateLimit_BlocksAfterQuota(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, err := NewMemoryLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RateLimit(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewMemoryLimiter_InvalidRate(t *testing.T) {
	_, err := NewMemoryLimiter("lots")
	assert.Error(t, err)
}
