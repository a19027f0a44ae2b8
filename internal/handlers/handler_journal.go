package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/SscSPs/mfrs_ledger_app/internal/middleware"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService  portssvc.JournalSvcFacade
	templateService portssvc.JournalTemplateSvc
	posthogClient   *utils.PosthogClientWrapper
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade, ts portssvc.JournalTemplateSvc, posthogClient *utils.PosthogClientWrapper) *journalHandler {
	return &journalHandler{
		journalService:  js,
		templateService: ts,
		posthogClient:   posthogClient,
	}
}

// RegisterJournalRoutes registers journal entry routes on a tenant-scoped group.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, templateService portssvc.JournalTemplateSvc, posthogClient *utils.PosthogClientWrapper) {
	h := newJournalHandler(journalService, templateService, posthogClient)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/templates", h.listTemplates)
		entries.POST("/templates/:template", h.createFromTemplate)
		entries.GET("/:id", h.getJournalEntry)
		entries.GET("/:id/audit-trail", h.getAuditTrail)
		entries.POST("/:id/lines", h.addLine)
		entries.POST("/:id/validate", h.validateJournalEntry)
		entries.POST("/:id/submit", h.submitForApproval)
		entries.POST("/:id/review", h.reviewJournalEntry)
		entries.POST("/:id/post", h.postJournalEntry)
		entries.POST("/:id/finalize", h.finalizeJournalEntry)
		entries.POST("/:id/supersede", h.supersedeJournalEntry)
	}
}

// createJournalEntry godoc
// @Summary Open a draft journal entry
// @Description Creates a draft entry with no lines. Lines are appended separately.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry header"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Missing reference or description"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	logger := scope.Logger

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), scope.TenantID, req, scope.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("journal_entry_id", entry.JournalEntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Newest entries first, paged with an opaque token
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		scope.Logger.Warn("Failed to bind query params for ListJournalEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.journalService.ListJournalEntries(c.Request.Context(), scope.TenantID, params)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(entries, nextToken))
}

// getJournalEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")
	logger := scope.Logger.With(slog.String("journal_entry_id", entryID))

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), scope.TenantID, entryID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	logger.Debug("Journal entry retrieved")
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// getAuditTrail godoc
// @Summary Audit trail of a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} dto.AuditTrailResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id}/audit-trail [get]
func (h *journalHandler) getAuditTrail(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")

	events, err := h.journalService.ListAuditTrail(c.Request.Context(), scope.TenantID, entryID)
	if err != nil {
		respondWithError(c, scope.Logger.With(slog.String("journal_entry_id", entryID)), err, "Failed to retrieve audit trail")
		return
	}

	c.JSON(http.StatusOK, dto.AuditTrailResponse{Events: events})
}

// addLine godoc
// @Summary Append a line to a journal entry
// @Description Exactly one of debitAmount and creditAmount must be positive. Posted and finalized entries are immutable.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Param   line body dto.AddLineRequest true "Line"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid line"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry modified concurrently"
// @Failure 412 {object} map[string]string "Entry is posted or finalized"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id}/lines [post]
func (h *journalHandler) addLine(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")
	logger := scope.Logger.With(slog.String("journal_entry_id", entryID))

	var req dto.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.AddLineToJournalEntry(c.Request.Context(), scope.TenantID, entryID, req, scope.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add journal line")
		return
	}

	logger.Info("Journal line added", slog.Int("line_count", len(entry.Lines)))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// validateJournalEntry godoc
// @Summary Validate a journal entry
// @Description Runs every ledger and MFRS check and reports all failures without changing the entry
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} dto.ValidationResultResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id}/validate [post]
func (h *journalHandler) validateJournalEntry(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")
	logger := scope.Logger.With(slog.String("journal_entry_id", entryID))

	result, err := h.journalService.ValidateJournalEntryByID(c.Request.Context(), scope.TenantID, entryID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to validate journal entry")
		return
	}

	logger.Info("Journal entry validated", slog.Bool("valid", result.Valid), slog.Int("confidence_score", result.ConfidenceScore))
	c.JSON(http.StatusOK, dto.ToValidationResultResponse(result))
}

// submitForApproval godoc
// @Summary Submit a draft entry for approval
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Param   body body dto.WorkflowCommentRequest false "Optional comment"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 412 {object} map[string]string "Transition not allowed"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id}/submit [post]
func (h *journalHandler) submitForApproval(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")
	logger := scope.Logger.With(slog.String("journal_entry_id", entryID))

	var req dto.WorkflowCommentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	entry, err := h.journalService.SubmitForApproval(c.Request.Context(), scope.TenantID, entryID, scope.UserID, req.Comment)
	if err != nil {
		respondWithError(c, logger, err, "Failed to submit journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reviewJournalEntry godoc
// @Summary Approve or reject a pending entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Param   review body dto.ReviewJournalEntryRequest true "Decision"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 412 {object} map[string]string "Entry is not pending approval"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id}/review [post]
func (h *journalHandler) reviewJournalEntry(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")
	logger := scope.Logger.With(slog.String("journal_entry_id", entryID))

	var req dto.ReviewJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.ReviewJournalEntry(c.Request.Context(), scope.TenantID, entryID, scope.UserID, *req.Approve, req.Comment)
	if err != nil {
		respondWithError(c, logger, err, "Failed to review journal entry")
		return
	}

	logger.Info("Journal entry reviewed", slog.Bool("approved", *req.Approve))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postJournalEntry godoc
// @Summary Post a journal entry
// @Description Validates the entry and, when every check passes, marks it posted
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry modified concurrently"
// @Failure 422 {object} map[string]interface{} "Validation failed, with reasons"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id}/post [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")
	logger := scope.Logger.With(slog.String("journal_entry_id", entryID))

	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), scope.TenantID, entryID, scope.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post journal entry")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "journal_entry_posted", map[string]any{
		"tenant_id":        scope.TenantID,
		"journal_entry_id": entry.JournalEntryID,
		"line_count":       len(entry.Lines),
	})
	logger.Info("Journal entry posted")
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// finalizeJournalEntry godoc
// @Summary Finalize a journal entry
// @Description Locks the entry. Finalized entries can only be replaced through supersede.
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 412 {object} map[string]string "Entry is already finalized"
// @Failure 422 {object} map[string]interface{} "Validation failed, with reasons"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id}/finalize [post]
func (h *journalHandler) finalizeJournalEntry(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")
	logger := scope.Logger.With(slog.String("journal_entry_id", entryID))

	entry, err := h.journalService.FinalizeJournalEntry(c.Request.Context(), scope.TenantID, entryID, scope.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to finalize journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// supersedeJournalEntry godoc
// @Summary Supersede a finalized entry
// @Description Creates an editable draft copy of a finalized entry and links the original to it
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Journal entry ID"
// @Param   body body dto.SupersedeJournalEntryRequest true "Reference of the replacement"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 412 {object} map[string]string "Entry is not finalized or already superseded"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{id}/supersede [post]
func (h *journalHandler) supersedeJournalEntry(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	entryID := c.Param("id")
	logger := scope.Logger.With(slog.String("journal_entry_id", entryID))

	var req dto.SupersedeJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	replacement, err := h.journalService.CloneAndSupersede(c.Request.Context(), scope.TenantID, entryID, req.NewReference, scope.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to supersede journal entry")
		return
	}

	logger.Info("Journal entry superseded", slog.String("replacement_id", replacement.JournalEntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(replacement))
}

// listTemplates godoc
// @Summary List journal entry templates
// @Tags journal-entries
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.TemplateNamesResponse
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/templates [get]
func (h *journalHandler) listTemplates(c *gin.Context) {
	if _, ok := resolveScope(c); !ok {
		return
	}
	c.JSON(http.StatusOK, dto.TemplateNamesResponse{Templates: h.templateService.TemplateNames()})
}

// createFromTemplate godoc
// @Summary Create a draft entry from a template
// @Description Builds a balanced two-line draft entry from a named template
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   template path string true "Template name"
// @Param   body body dto.TemplateEntryRequest true "Template inputs"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid template inputs"
// @Failure 404 {object} map[string]string "Unknown template"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/templates/{template} [post]
func (h *journalHandler) createFromTemplate(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	template := c.Param("template")
	logger := scope.Logger.With(slog.String("template", template))

	var req dto.TemplateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.templateService.CreateFromTemplate(c.Request.Context(), scope.TenantID, template, req, scope.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal entry from template")
		return
	}

	logger.Info("Journal entry created from template", slog.String("journal_entry_id", entry.JournalEntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
