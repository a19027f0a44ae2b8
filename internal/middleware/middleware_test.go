package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims middleware.AccessClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(subject string, tenants ...string) middleware.AccessClaims {
	if len(tenants) == 0 {
		tenants = []string{"t-1"}
	}
	return middleware.AccessClaims{
		Tenants: tenants,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "ledger",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// scopedRouter echoes the user and tenant resolved by the middleware chain.
func scopedRouter(opts ...jwt.ParserOption) *gin.Engine {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(discardLogger()))
	g := r.Group("/tenants/:tenant_id", middleware.AuthMiddleware(testSecret, opts...), middleware.TenantScope())
	g.GET("/whoami", func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		tenantID, _ := middleware.GetTenantIDFromContext(c)
		ctxUser, _ := middleware.UserIDFromCtx(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user": userID, "tenant": tenantID, "ctxUser": ctxUser})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	expired := validClaims("u-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: "Bearer {token}"},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, expired), wantStatus: http.StatusUnauthorized, wantBody: "Token has expired"},
		{name: "other secret", header: "Bearer " + signToken(t, "another-secret", validClaims("u-1")), wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "no subject", header: "Bearer " + signToken(t, testSecret, validClaims("")), wantStatus: http.StatusUnauthorized, wantBody: "Invalid token claims"},
		{name: "valid", header: "Bearer " + signToken(t, testSecret, validClaims("u-1")), wantStatus: http.StatusOK, wantBody: `"user":"u-1"`},
	}

	router := scopedRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tenants/t-1/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthMiddleware_Issuer(t *testing.T) {
	router := scopedRouter(jwt.WithIssuer("ledger-auth"))

	req := httptest.NewRequest(http.MethodGet, "/tenants/t-1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims("u-1")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantScope(t *testing.T) {
	router := scopedRouter()
	token := signToken(t, testSecret, validClaims("u-1", "t-1", "t-42"))

	req := httptest.NewRequest(http.MethodGet, "/tenants/t-42/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u-1","tenant":"t-42","ctxUser":"u-1"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestTenantScope_BlankTenant(t *testing.T) {
	router := scopedRouter()
	token := signToken(t, testSecret, validClaims("u-1"))

	req := httptest.NewRequest(http.MethodGet, "/tenants/%20/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantScope_RejectsOtherTenants(t *testing.T) {
	router := scopedRouter()
	tenantAToken := signToken(t, testSecret, validClaims("user-of-tenant-a", "tenant-a"))
	noTenantsClaims := validClaims("u-1")
	noTenantsClaims.Tenants = nil

	tests := []struct {
		name       string
		token      string
		tenant     string
		wantStatus int
	}{
		{name: "own tenant", token: tenantAToken, tenant: "tenant-a", wantStatus: http.StatusOK},
		{name: "other tenant", token: tenantAToken, tenant: "tenant-b", wantStatus: http.StatusForbidden},
		{name: "unknown tenant", token: tenantAToken, tenant: "anything-at-all", wantStatus: http.StatusForbidden},
		{name: "prefix of own tenant", token: tenantAToken, tenant: "tenant", wantStatus: http.StatusForbidden},
		{name: "token without tenants", token: signToken(t, testSecret, noTenantsClaims), tenant: "t-1", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tenants/"+tt.tenant+"/whoami", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"Forbidden"}`, w.Body.String())
			}
		})
	}
}

func TestTenantScope_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/tenants/:tenant_id/whoami", middleware.TenantScope(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/tenants/t-1/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(discardLogger()))
	g := r.Group("/compliance", middleware.AuthMiddleware(testSecret))
	g.GET("/rules", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.POST("/rules", middleware.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	admin := validClaims("admin-1")
	admin.Admin = true
	adminToken := signToken(t, testSecret, admin)
	userToken := signToken(t, testSecret, validClaims("u-1"))

	tests := []struct {
		name       string
		method     string
		token      string
		wantStatus int
	}{
		{name: "read as user", method: http.MethodGet, token: userToken, wantStatus: http.StatusOK},
		{name: "write as user", method: http.MethodPost, token: userToken, wantStatus: http.StatusForbidden},
		{name: "write as admin", method: http.MethodPost, token: adminToken, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/compliance/rules", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestStructuredLogging_KeepsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(discardLogger()))
	r.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, middleware.GetLoggerFromContext(c))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimit_MemoryStore(t *testing.T) {
	lim, err := middleware.NewLimiter("2-M", nil)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.RateLimit(lim))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if i == 0 {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewLimiter_InvalidRate(t *testing.T) {
	_, err := middleware.NewLimiter("lots", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rate limit")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
