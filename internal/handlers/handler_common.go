package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateOnly = "2006-01-02"

// requestScope holds the tenant and caller resolved by the middleware chain.
type requestScope struct {
	TenantID string
	UserID   string
	Logger   *slog.Logger
}

// resolveScope reads the tenant and authenticated user from the context.
// It writes the error response itself and returns false when either is missing.
func resolveScope(c *gin.Context) (requestScope, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return requestScope{}, false
	}

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		logger.Error("Tenant ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id path parameter is required"})
		return requestScope{}, false
	}

	return requestScope{TenantID: tenantID, UserID: userID, Logger: logger}, true
}

// resolveCaller is resolveScope for routes outside the tenant group.
func resolveCaller(c *gin.Context) (requestScope, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return requestScope{}, false
	}

	return requestScope{UserID: userID, Logger: logger}, true
}

// respondWithError maps a service error onto an HTTP status. fallback is the
// message shown for unexpected failures.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var failed *apperrors.ValidationFailedError
	switch {
	case errors.As(err, &failed):
		logger.Warn("Validation failed", slog.Any("reasons", failed.Reasons))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "reasons": failed.Reasons})
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Invalid argument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPreconditionFailed):
		logger.Warn("Precondition failed", slog.String("error", err.Error()))
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrRemoteService):
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// parseDateParam accepts RFC3339 or YYYY-MM-DD. A bare date is widened to the
// start of the day, or to its last instant when endOfDay is set. Empty input yields nil.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, apperrors.InvalidArgument("invalid date " + raw + ", use YYYY-MM-DD or RFC3339")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// parseDateRange parses an optional start/end pair and rejects inverted ranges.
func parseDateRange(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	start, err := parseDateParam(startRaw, false)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseDateParam(endRaw, true)
	if err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, apperrors.InvalidArgument("endDate must not be before startDate")
	}
	return start, end, nil
}
