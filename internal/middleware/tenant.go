package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// TenantScope reads the :tenant_id path parameter, checks it against the
// tenants granted by the access token and tags the request logger with it.
// It must run after AuthMiddleware.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.Param("tenant_id"))
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "tenant_id path parameter is required"})
			return
		}

		logger := GetLoggerFromContext(c).With(slog.String("tenant_id", tenantID))

		claims, _ := claimsFromCtx(c.Request.Context())
		if err := authorizeTenant(claims, tenantID); err != nil {
			logger.Warn("Tenant access denied", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), tenantIDKey, tenantID)
		c.Request = c.Request.WithContext(WithLogger(ctx, logger))
		c.Next()
	}
}

// authorizeTenant returns apperrors.ErrForbidden unless the claims list the tenant.
func authorizeTenant(claims *AccessClaims, tenantID string) error {
	if claims == nil {
		return fmt.Errorf("%w: no access claims for tenant %s", apperrors.ErrForbidden, tenantID)
	}
	if !slices.Contains(claims.Tenants, tenantID) {
		return fmt.Errorf("%w: user %s is not a member of tenant %s", apperrors.ErrForbidden, claims.Subject, tenantID)
	}
	return nil
}
