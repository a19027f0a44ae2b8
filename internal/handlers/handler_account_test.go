package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}
	created := &domain.Account{
		AccountID:   "acc-1",
		TenantID:    testTenantID,
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, testTenantID, req, suite.userID).Return(created, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/accounts"), req)

	suite.Equal(http.StatusCreated, w.Code)
	body := suite.decode(w)
	suite.Equal("acc-1", body["accountID"])
	suite.Equal("ASSET", body["accountType"])
}

func (suite *HandlerTestSuite) TestCreateAccount_BlankCodeRejectedByBinding() {
	w := suite.serve(http.MethodPost, tenantURL("/accounts"), map[string]any{
		"code":        "   ",
		"name":        "Cash",
		"accountType": "ASSET",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *HandlerTestSuite) TestCreateAccount_UnknownTypeRejected() {
	w := suite.serve(http.MethodPost, tenantURL("/accounts"), map[string]any{
		"code":        "1000",
		"name":        "Cash",
		"accountType": "CONTRA",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, testTenantID, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.serve(http.MethodPost, tenantURL("/accounts"), dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_RequiresToken() {
	w := suite.serveWithToken(http.MethodPost, tenantURL("/accounts"), dto.CreateAccountRequest{Code: "1000"}, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_RejectsTokenSignedWithOtherSecret() {
	suite.jwtSecret = "some-other-secret"
	token := suite.generateTestToken(suite.userID)

	w := suite.serveWithToken(http.MethodGet, tenantURL("/accounts"), nil, token)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestListAccounts_ForbiddenForOtherTenant() {
	w := suite.serve(http.MethodGet, "/api/v1/tenants/tenant-2/accounts", nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.JSONEq(`{"error":"Forbidden"}`, w.Body.String())
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, testTenantID, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, tenantURL("/accounts/missing"), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListAccounts_IncludeInactive() {
	accounts := []domain.Account{
		{AccountID: "a1", Code: "1000", AccountType: domain.Asset, IsActive: true},
		{AccountID: "a2", Code: "2000", AccountType: domain.Liability},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything, testTenantID, true).Return(accounts, nil).Once()

	w := suite.serve(http.MethodGet, tenantURL("/accounts?includeInactive=true"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Len(body["accounts"], 2)
}

func (suite *HandlerTestSuite) TestDeactivateAccount_AlreadyInactive() {
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, testTenantID, "a1", suite.userID).
		Return(apperrors.PreconditionFailed("account already inactive")).Once()

	w := suite.serve(http.MethodDelete, tenantURL("/accounts/a1"), nil)

	suite.Equal(http.StatusPreconditionFailed, w.Code)
}

func (suite *HandlerTestSuite) TestDeactivateAccount_Success() {
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, testTenantID, "a1", suite.userID).Return(nil).Once()

	w := suite.serve(http.MethodDelete, tenantURL("/accounts/a1"), nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccountBalance_DateOnlyCutoffCoversWholeDay() {
	account := &domain.Account{AccountID: "a2", AccountType: domain.Liability}
	suite.mockAccountService.On("GetAccountByID", mock.Anything, testTenantID, "a2").Return(account, nil).Once()

	wantCutoff := time.Date(2024, 3, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	suite.mockJournalService.On("GetAccountBalance", mock.Anything, testTenantID, "a2",
		mock.MatchedBy(func(asOf *time.Time) bool { return asOf != nil && asOf.Equal(wantCutoff) }),
	).Return(decimal.NewFromInt(-250), nil).Once()

	w := suite.serve(http.MethodGet, tenantURL("/accounts/a2/balance?asOf=2024-03-31"), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Balance.Equal(decimal.NewFromInt(-250)))
	suite.True(body.NaturalBalance.Equal(decimal.NewFromInt(250)))
}

func (suite *HandlerTestSuite) TestGetAccountBalance_InvalidCutoff() {
	w := suite.serve(http.MethodGet, tenantURL("/accounts/a1/balance?asOf=31-03-2024"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountByID")
}

func (suite *HandlerTestSuite) TestGetAccountBalance_StorageFailure() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, testTenantID, "a1").
		Return(nil, apperrors.RemoteService("find account", errors.New("connection reset"))).Once()

	w := suite.serve(http.MethodGet, tenantURL("/accounts/a1/balance"), nil)

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Equal("Failed to calculate balance", suite.decode(w)["error"])
}
