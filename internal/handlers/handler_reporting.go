package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to ledger reports
type reportingHandler struct {
	ledgerService portssvc.LedgerBalanceSvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(ls portssvc.LedgerBalanceSvc) *reportingHandler {
	return &reportingHandler{
		ledgerService: ls,
	}
}

// RegisterReportingRoutes registers routes related to ledger reports
func RegisterReportingRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerBalanceSvc) {
	h := newReportingHandler(ledgerService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Net balance per account over lines created at or before asOf. The total is reported, not asserted.
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param asOf query string false "Cutoff (YYYY-MM-DD or RFC3339); all lines when omitted"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Storage failure"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseDateParam(params.AsOf, true)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to generate trial balance report")
		return
	}

	logger := scope.Logger.With(slog.String("asOf", params.AsOf))
	logger.Info("Received request to generate trial balance report")

	trialBalance, err := h.ledgerService.GetTrialBalance(c.Request.Context(), scope.TenantID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(trialBalance)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(trialBalance, asOf))
}
