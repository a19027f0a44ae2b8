package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/catalogue"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/SscSPs/mfrs_ledger_app/internal/middleware"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// complianceHandler handles MFRS rule evaluation, disclosures and reports.
type complianceHandler struct {
	complianceService portssvc.ComplianceSvcFacade
	posthogClient     *utils.PosthogClientWrapper
}

func newComplianceHandler(cs portssvc.ComplianceSvcFacade, posthogClient *utils.PosthogClientWrapper) *complianceHandler {
	return &complianceHandler{
		complianceService: cs,
		posthogClient:     posthogClient,
	}
}

// RegisterComplianceRoutes registers compliance routes on a tenant-scoped group.
func RegisterComplianceRoutes(rg *gin.RouterGroup, complianceService portssvc.ComplianceSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := newComplianceHandler(complianceService, posthogClient)

	compliance := rg.Group("/compliance")
	{
		compliance.POST("/validate", h.validateTransaction)
		compliance.GET("/violations", h.listViolations)

		compliance.POST("/disclosures/generate", h.generateDisclosures)
		compliance.GET("/disclosures", h.listDisclosures)
		compliance.POST("/disclosures/:id/approve", h.approveDisclosure)

		compliance.GET("/report", h.getComplianceReport)
		compliance.POST("/report/snapshot", h.snapshotComplianceReport)
	}
}

// RegisterComplianceAdminRoutes registers the shared rule catalogue routes.
// Rules and disclosure requirements apply to every tenant, so they live outside
// the tenant group and changes require the admin claim.
func RegisterComplianceAdminRoutes(rg *gin.RouterGroup, complianceService portssvc.ComplianceSvcFacade) {
	h := newComplianceHandler(complianceService, nil)

	compliance := rg.Group("/compliance")
	{
		compliance.GET("/rules", h.listRules)
		compliance.GET("/disclosure-requirements", h.listDisclosureRequirements)

		admin := compliance.Group("", middleware.RequireAdmin())
		admin.POST("/rules", h.addRule)
		admin.PUT("/rules/:id", h.updateRule)
		admin.DELETE("/rules/:id", h.deactivateRule)
		admin.POST("/disclosure-requirements", h.addDisclosureRequirement)
	}
}

// resolveStandardParam maps an optional query value onto a known standard.
func resolveStandardParam(raw string) (domain.MFRSStandard, error) {
	if raw == "" {
		return "", nil
	}
	std, ok := catalogue.ResolveStandard(raw)
	if !ok {
		return "", apperrors.InvalidArgument("unknown standard " + raw)
	}
	return std, nil
}

// validateTransaction godoc
// @Summary Evaluate a transaction against the active MFRS rules
// @Description Every active rule is evaluated. Violations are stored and returned with the score they imply.
// @Tags compliance
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction body dto.ValidateTransactionRequest true "Transaction"
// @Success 200 {object} dto.ValidateTransactionResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 502 {object} map[string]string "Rule store unavailable"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/compliance/validate [post]
func (h *complianceHandler) validateTransaction(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	var req dto.ValidateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		scope.Logger.Warn("Failed to bind JSON for ValidateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	logger := scope.Logger.With(slog.String("transaction_id", req.TransactionID))

	violations, err := h.complianceService.ValidateTransaction(c.Request.Context(), req.ToComplianceTransaction(scope.TenantID))
	if err != nil {
		respondWithError(c, logger, err, "Failed to validate transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ValidateTransactionResponse{
		Violations:      violations,
		ComplianceScore: h.complianceService.CalculateComplianceScore(violations, nil),
	})
}

// listViolations godoc
// @Summary List recorded violations
// @Tags compliance
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   standard query string false "MFRS standard, e.g. MFRS 15"
// @Param   level query string false "Compliance level"
// @Param   startDate query string false "From (YYYY-MM-DD or RFC3339)"
// @Param   endDate query string false "To (YYYY-MM-DD or RFC3339)"
// @Param   limit query int false "Maximum rows"
// @Success 200 {object} dto.ViolationsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/compliance/violations [get]
func (h *complianceHandler) listViolations(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	var params dto.ViolationQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	standard, err := resolveStandardParam(params.Standard)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list violations")
		return
	}
	start, end, err := parseDateRange(params.StartDate, params.EndDate)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list violations")
		return
	}

	violations, err := h.complianceService.GetViolations(c.Request.Context(), domain.ViolationFilter{
		TenantID:        scope.TenantID,
		Standard:        standard,
		ComplianceLevel: domain.ComplianceLevel(params.Level),
		StartDate:       start,
		EndDate:         end,
		Limit:           params.Limit,
	})
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list violations")
		return
	}

	c.JSON(http.StatusOK, dto.ViolationsResponse{Violations: violations})
}

// generateDisclosures godoc
// @Summary Generate disclosures for a period
// @Description Renders every applicable mandatory disclosure requirement against the supplied financial data
// @Tags compliance
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   data body dto.GenerateDisclosuresRequest true "Financial data"
// @Success 201 {object} dto.DisclosuresResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/compliance/disclosures/generate [post]
func (h *complianceHandler) generateDisclosures(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	var req dto.GenerateDisclosuresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	logger := scope.Logger.With(slog.String("period", req.Period))

	disclosures, err := h.complianceService.GenerateDisclosures(c.Request.Context(), req.ToFinancialData(scope.TenantID))
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate disclosures")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "disclosures_generated", map[string]any{
		"tenant_id": scope.TenantID,
		"period":    req.Period,
		"count":     len(disclosures),
	})
	c.JSON(http.StatusCreated, dto.DisclosuresResponse{Disclosures: disclosures})
}

// listDisclosures godoc
// @Summary List generated disclosures
// @Tags compliance
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   standard query string false "MFRS standard"
// @Param   type query string false "note, statement or annex"
// @Param   period query string false "Financial period"
// @Param   approved query bool false "Approval state"
// @Param   startDate query string false "From (YYYY-MM-DD or RFC3339)"
// @Param   endDate query string false "To (YYYY-MM-DD or RFC3339)"
// @Param   limit query int false "Maximum rows"
// @Success 200 {object} dto.DisclosuresResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/compliance/disclosures [get]
func (h *complianceHandler) listDisclosures(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	var params dto.DisclosureQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	standard, err := resolveStandardParam(params.Standard)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list disclosures")
		return
	}
	start, end, err := parseDateRange(params.StartDate, params.EndDate)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list disclosures")
		return
	}

	disclosures, err := h.complianceService.GetDisclosures(c.Request.Context(), domain.DisclosureFilter{
		TenantID:        scope.TenantID,
		Standard:        standard,
		DisclosureType:  domain.DisclosureType(params.DisclosureType),
		FinancialPeriod: params.Period,
		IsApproved:      params.Approved,
		StartDate:       start,
		EndDate:         end,
		Limit:           params.Limit,
	})
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list disclosures")
		return
	}

	c.JSON(http.StatusOK, dto.DisclosuresResponse{Disclosures: disclosures})
}

// approveDisclosure godoc
// @Summary Approve a generated disclosure
// @Tags compliance
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Disclosure ID"
// @Success 200 {object} domain.GeneratedDisclosure
// @Failure 404 {object} map[string]string "Disclosure not found"
// @Failure 412 {object} map[string]string "Disclosure already approved"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/compliance/disclosures/{id}/approve [post]
func (h *complianceHandler) approveDisclosure(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	disclosureID := c.Param("id")
	logger := scope.Logger.With(slog.String("disclosure_id", disclosureID))

	disclosure, err := h.complianceService.ApproveDisclosure(c.Request.Context(), scope.TenantID, disclosureID, scope.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve disclosure")
		return
	}

	c.JSON(http.StatusOK, disclosure)
}

// getComplianceReport godoc
// @Summary Compute a compliance report
// @Description Aggregates violations and disclosures in the date range. Nothing is stored.
// @Tags compliance
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   startDate query string false "From (YYYY-MM-DD or RFC3339)"
// @Param   endDate query string false "To (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} domain.ComplianceReport
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/compliance/report [get]
func (h *complianceHandler) getComplianceReport(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	start, end, err := parseDateRange(params.StartDate, params.EndDate)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to build compliance report")
		return
	}

	report, err := h.complianceService.GetComplianceReport(c.Request.Context(), scope.TenantID, start, end)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to build compliance report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// snapshotComplianceReport godoc
// @Summary Store a compliance report snapshot
// @Description The latest snapshot's score becomes the entity's confidence score in ledger validation
// @Tags compliance
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   body body dto.SnapshotReportRequest true "Entity and optional date range"
// @Success 201 {object} domain.ComplianceReport
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/compliance/report/snapshot [post]
func (h *complianceHandler) snapshotComplianceReport(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	var req dto.SnapshotReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	logger := scope.Logger.With(slog.String("entity_id", req.EntityID))

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		respondWithError(c, logger, err, "Failed to store compliance report")
		return
	}

	report, err := h.complianceService.SnapshotComplianceReport(c.Request.Context(), scope.TenantID, req.EntityID, start, end)
	if err != nil {
		respondWithError(c, logger, err, "Failed to store compliance report")
		return
	}

	c.JSON(http.StatusCreated, report)
}

// listRules godoc
// @Summary List MFRS rules
// @Tags compliance-admin
// @Produce  json
// @Param   includeInactive query bool false "Include deactivated rules"
// @Success 200 {object} dto.RulesResponse
// @Security BearerAuth
// @Router /compliance/rules [get]
func (h *complianceHandler) listRules(c *gin.Context) {
	scope, ok := resolveCaller(c)
	if !ok {
		return
	}

	var params dto.ListRulesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rules, err := h.complianceService.ListRules(c.Request.Context(), params.IncludeInactive)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list rules")
		return
	}

	c.JSON(http.StatusOK, dto.RulesResponse{Rules: rules})
}

// addRule godoc
// @Summary Add an MFRS rule
// @Tags compliance-admin
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRuleRequest true "Rule"
// @Success 201 {object} domain.MFRSRule
// @Failure 400 {object} map[string]string "Invalid rule"
// @Failure 409 {object} map[string]string "Rule code already exists"
// @Failure 403 {object} map[string]string "Admin claim required"
// @Security BearerAuth
// @Router /compliance/rules [post]
func (h *complianceHandler) addRule(c *gin.Context) {
	scope, ok := resolveCaller(c)
	if !ok {
		return
	}

	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	logger := scope.Logger.With(slog.String("rule_code", req.RuleCode))

	rule, err := h.complianceService.AddRule(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add rule")
		return
	}

	logger.Info("MFRS rule added", slog.String("rule_id", rule.RuleID))
	c.JSON(http.StatusCreated, rule)
}

// updateRule godoc
// @Summary Update an MFRS rule
// @Tags compliance-admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Rule ID"
// @Param   rule body dto.UpdateRuleRequest true "Fields to change"
// @Success 200 {object} domain.MFRSRule
// @Failure 400 {object} map[string]string "Invalid rule"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 403 {object} map[string]string "Admin claim required"
// @Security BearerAuth
// @Router /compliance/rules/{id} [put]
func (h *complianceHandler) updateRule(c *gin.Context) {
	scope, ok := resolveCaller(c)
	if !ok {
		return
	}
	ruleID := c.Param("id")
	logger := scope.Logger.With(slog.String("rule_id", ruleID))

	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rule, err := h.complianceService.UpdateRule(c.Request.Context(), ruleID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update rule")
		return
	}

	c.JSON(http.StatusOK, rule)
}

// deactivateRule godoc
// @Summary Deactivate an MFRS rule
// @Tags compliance-admin
// @Param   id path string true "Rule ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 403 {object} map[string]string "Admin claim required"
// @Security BearerAuth
// @Router /compliance/rules/{id} [delete]
func (h *complianceHandler) deactivateRule(c *gin.Context) {
	scope, ok := resolveCaller(c)
	if !ok {
		return
	}
	ruleID := c.Param("id")
	logger := scope.Logger.With(slog.String("rule_id", ruleID))

	if err := h.complianceService.DeactivateRule(c.Request.Context(), ruleID); err != nil {
		respondWithError(c, logger, err, "Failed to deactivate rule")
		return
	}

	logger.Info("MFRS rule deactivated")
	c.Status(http.StatusNoContent)
}

// listDisclosureRequirements godoc
// @Summary List disclosure requirements
// @Tags compliance-admin
// @Produce  json
// @Success 200 {object} dto.DisclosureRequirementsResponse
// @Security BearerAuth
// @Router /compliance/disclosure-requirements [get]
func (h *complianceHandler) listDisclosureRequirements(c *gin.Context) {
	scope, ok := resolveCaller(c)
	if !ok {
		return
	}

	reqs, err := h.complianceService.ListDisclosureRequirements(c.Request.Context())
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list disclosure requirements")
		return
	}

	c.JSON(http.StatusOK, dto.DisclosureRequirementsResponse{Requirements: reqs})
}

// addDisclosureRequirement godoc
// @Summary Add a disclosure requirement
// @Tags compliance-admin
// @Accept  json
// @Produce  json
// @Param   requirement body dto.CreateDisclosureRequirementRequest true "Requirement"
// @Success 201 {object} domain.DisclosureRequirement
// @Failure 400 {object} map[string]string "Invalid requirement"
// @Failure 409 {object} map[string]string "Requirement code already exists"
// @Failure 403 {object} map[string]string "Admin claim required"
// @Security BearerAuth
// @Router /compliance/disclosure-requirements [post]
func (h *complianceHandler) addDisclosureRequirement(c *gin.Context) {
	scope, ok := resolveCaller(c)
	if !ok {
		return
	}

	var req dto.CreateDisclosureRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requirement, err := h.complianceService.AddDisclosureRequirement(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to add disclosure requirement")
		return
	}

	c.JSON(http.StatusCreated, requirement)
}
