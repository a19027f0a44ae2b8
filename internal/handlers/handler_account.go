package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils/accounting"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerBalanceSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerBalanceSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		ledgerService:  ls,
	}
}

// RegisterAccountRoutes registers routes related to accounts on a tenant-scoped group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerBalanceSvc) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.DELETE("/:id", h.deactivateAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the tenant's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Failure 502 {object} map[string]string "Storage failure"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	logger := scope.Logger

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", string(req.AccountType)))

	account, err := h.accountService.CreateAccount(c.Request.Context(), scope.TenantID, req, scope.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	accountID := c.Param("id")
	logger := scope.Logger.With(slog.String("account_id", accountID))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), scope.TenantID, accountID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the tenant's chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   includeInactive query bool false "Include deactivated accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}

	includeInactive := c.Query("includeInactive") == "true"
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), scope.TenantID, includeInactive)
	if err != nil {
		respondWithError(c, scope.Logger, err, "Failed to list accounts")
		return
	}

	scope.Logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account as inactive. Accounts are never hard-deleted.
// @Tags accounts
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 412 {object} map[string]string "Account already inactive"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	accountID := c.Param("id")
	logger := scope.Logger.With(slog.String("account_id", accountID))

	if err := h.accountService.DeactivateAccount(c.Request.Context(), scope.TenantID, accountID, scope.UserID); err != nil {
		respondWithError(c, logger, err, "Failed to deactivate account")
		return
	}

	logger.Info("Account deactivated successfully")
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Debits minus credits over the account's lines created at or before asOf
// @Tags accounts
// @Produce json
// @Param   tenant_id path string true "Tenant ID"
// @Param   id path string true "Account ID"
// @Param   asOf query string false "Cutoff (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid cutoff"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 403 {object} map[string]string "Tenant not granted by the token"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	scope, ok := resolveScope(c)
	if !ok {
		return
	}
	accountID := c.Param("id")
	logger := scope.Logger.With(slog.String("account_id", accountID))

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseDateParam(params.AsOf, true)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate balance")
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), scope.TenantID, accountID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate balance")
		return
	}

	balance, err := h.ledgerService.GetAccountBalance(c.Request.Context(), scope.TenantID, accountID, asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate balance")
		return
	}

	natural, err := accounting.NaturalBalance(balance, account.AccountType)
	if err != nil {
		respondWithError(c, logger, err, "Failed to calculate balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID:      accountID,
		AccountType:    account.AccountType,
		AsOf:           asOf,
		Balance:        balance,
		NaturalBalance: natural,
	})
}
