package handlers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func draftEntry(id string) *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalEntryID: id,
		TenantID:       testTenantID,
		EntryDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Reference:      "INV-001",
		Description:    "Consulting revenue",
		Status:         domain.StatusDraft,
		Version:        1,
		BaseCurrency:   "MYR",
	}
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Success() {
	suite.mockJournalService.On("CreateJournalEntry", mock.Anything, testTenantID,
		mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool { return r.Reference == "INV-001" }),
		suite.userID,
	).Return(draftEntry("je-1"), nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries"), dto.CreateJournalEntryRequest{
		Reference:   "INV-001",
		Description: "Consulting revenue",
	})

	suite.Equal(http.StatusCreated, w.Code)
	body := suite.decode(w)
	suite.Equal("je-1", body["journalEntryID"])
	suite.Equal("draft", body["status"])
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_MissingReference() {
	suite.mockJournalService.On("CreateJournalEntry", mock.Anything, testTenantID, mock.Anything, suite.userID).
		Return(nil, apperrors.InvalidArgument("reference is required")).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries"), dto.CreateJournalEntryRequest{Description: "x"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w)["error"], "reference is required")
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_UnknownTransactionType() {
	w := suite.serve(http.MethodPost, tenantURL("/journal-entries"), map[string]any{
		"reference":       "INV-001",
		"description":     "x",
		"transactionType": "barter",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListJournalEntries_ReturnsNextToken() {
	next := "opaque-token"
	suite.mockJournalService.On("ListJournalEntries", mock.Anything, testTenantID,
		mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool { return p.Limit == 5 && p.NextToken == nil }),
	).Return([]domain.JournalEntry{*draftEntry("je-1")}, &next, nil).Once()

	w := suite.serve(http.MethodGet, tenantURL("/journal-entries?limit=5"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal(next, body["nextToken"])
	suite.Len(body["entries"], 1)
}

func (suite *HandlerTestSuite) TestListJournalEntries_LimitOutOfRange() {
	w := suite.serve(http.MethodGet, tenantURL("/journal-entries?limit=1000"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAddLine_ToPostedEntry() {
	suite.mockJournalService.On("AddLineToJournalEntry", mock.Anything, testTenantID, "je-1", mock.Anything, suite.userID).
		Return(nil, apperrors.PreconditionFailed("cannot modify posted journal entry")).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/lines"), dto.AddLineRequest{
		AccountID:   "a1",
		DebitAmount: decimal.NewFromInt(100),
	})

	suite.Equal(http.StatusPreconditionFailed, w.Code)
}

func (suite *HandlerTestSuite) TestAddLine_MissingAccount() {
	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/lines"), map[string]any{"debitAmount": "100"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestValidateJournalEntry_ReportsAllErrors() {
	result := &domain.ValidationResult{
		Valid:           false,
		Errors:          []string{"journal entry is not balanced", "account a9 is inactive"},
		ConfidenceScore: 85,
	}
	suite.mockJournalService.On("ValidateJournalEntryByID", mock.Anything, testTenantID, "je-1").Return(result, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/validate"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal(false, body["valid"])
	suite.Len(body["errors"], 2)
	suite.EqualValues(85, body["confidenceScore"])
}

func (suite *HandlerTestSuite) TestPostJournalEntry_Success() {
	posted := draftEntry("je-1")
	posted.Status = domain.StatusPosted
	posted.IsPosted = true
	suite.mockJournalService.On("PostJournalEntry", mock.Anything, testTenantID, "je-1", suite.userID).Return(posted, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/post"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(true, suite.decode(w)["isPosted"])
}

func (suite *HandlerTestSuite) TestPostJournalEntry_ValidationFailedCarriesReasons() {
	suite.mockJournalService.On("PostJournalEntry", mock.Anything, testTenantID, "je-1", suite.userID).
		Return(nil, apperrors.NewValidationFailed([]string{"journal entry is not balanced"})).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/post"), nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	body := suite.decode(w)
	suite.Equal("validation failed", body["error"])
	suite.Equal([]any{"journal entry is not balanced"}, body["reasons"])
}

func (suite *HandlerTestSuite) TestPostJournalEntry_ConcurrentModification() {
	suite.mockJournalService.On("PostJournalEntry", mock.Anything, testTenantID, "je-1", suite.userID).
		Return(nil, apperrors.ErrConflict).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/post"), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestPostJournalEntry_StorageFailure() {
	suite.mockJournalService.On("PostJournalEntry", mock.Anything, testTenantID, "je-1", suite.userID).
		Return(nil, apperrors.RemoteService("update journal entry", errors.New("timeout"))).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/post"), nil)

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Equal("Failed to post journal entry", suite.decode(w)["error"])
}

func (suite *HandlerTestSuite) TestPostJournalEntry_UnexpectedError() {
	suite.mockJournalService.On("PostJournalEntry", mock.Anything, testTenantID, "je-1", suite.userID).
		Return(nil, errors.New("boom")).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/post"), nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *HandlerTestSuite) TestSubmitForApproval_WithoutBody() {
	pending := draftEntry("je-1")
	pending.Status = domain.StatusPendingApproval
	suite.mockJournalService.On("SubmitForApproval", mock.Anything, testTenantID, "je-1", suite.userID, "").Return(pending, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/submit"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("pending_approval", suite.decode(w)["status"])
}

func (suite *HandlerTestSuite) TestSubmitForApproval_WithComment() {
	suite.mockJournalService.On("SubmitForApproval", mock.Anything, testTenantID, "je-1", suite.userID, "month end").
		Return(draftEntry("je-1"), nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/submit"), dto.WorkflowCommentRequest{Comment: "month end"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestReviewJournalEntry_Reject() {
	rejected := draftEntry("je-1")
	rejected.Status = domain.StatusRejected
	suite.mockJournalService.On("ReviewJournalEntry", mock.Anything, testTenantID, "je-1", suite.userID, false, "missing invoice").
		Return(rejected, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/review"), map[string]any{
		"approve": false,
		"comment": "missing invoice",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("rejected", suite.decode(w)["status"])
}

func (suite *HandlerTestSuite) TestReviewJournalEntry_DecisionRequired() {
	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/review"), map[string]any{"comment": "ok"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestFinalizeJournalEntry_Twice() {
	suite.mockJournalService.On("FinalizeJournalEntry", mock.Anything, testTenantID, "je-1", suite.userID).
		Return(nil, apperrors.PreconditionFailed("journal entry is already finalized")).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/finalize"), nil)

	suite.Equal(http.StatusPreconditionFailed, w.Code)
}

func (suite *HandlerTestSuite) TestSupersedeJournalEntry_Success() {
	replacement := draftEntry("je-2")
	replacement.Reference = "INV-001-R1"
	suite.mockJournalService.On("CloneAndSupersede", mock.Anything, testTenantID, "je-1", "INV-001-R1", suite.userID).
		Return(replacement, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/supersede"), dto.SupersedeJournalEntryRequest{NewReference: "INV-001-R1"})

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("je-2", suite.decode(w)["journalEntryID"])
}

func (suite *HandlerTestSuite) TestSupersedeJournalEntry_BlankReference() {
	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/je-1/supersede"), map[string]any{"newReference": " "})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetAuditTrail() {
	events := []domain.AuditLog{
		{AuditLogID: "al-1", TenantID: testTenantID, EventType: "journal_entry.created", EntityID: "je-1"},
		{AuditLogID: "al-2", TenantID: testTenantID, EventType: "journal_entry.posted", EntityID: "je-1"},
	}
	suite.mockJournalService.On("ListAuditTrail", mock.Anything, testTenantID, "je-1").Return(events, nil).Once()

	w := suite.serve(http.MethodGet, tenantURL("/journal-entries/je-1/audit-trail"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Len(suite.decode(w)["events"], 2)
}

func (suite *HandlerTestSuite) TestListTemplates_NotShadowedByEntryID() {
	suite.mockTemplateService.On("TemplateNames").Return([]string{"subscription_payment", "refund"}).Once()

	w := suite.serve(http.MethodGet, tenantURL("/journal-entries/templates"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal([]any{"subscription_payment", "refund"}, suite.decode(w)["templates"])
	suite.mockJournalService.AssertNotCalled(suite.T(), "GetJournalEntry")
}

func (suite *HandlerTestSuite) TestCreateFromTemplate_UnknownTemplate() {
	suite.mockTemplateService.On("CreateFromTemplate", mock.Anything, testTenantID, "barter", mock.Anything, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodPost, tenantURL("/journal-entries/templates/barter"), dto.TemplateEntryRequest{
		DebitAccountID:  "a1",
		CreditAccountID: "a2",
		Amount:          decimal.NewFromInt(10),
	})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetTrialBalance() {
	tb := domain.TrialBalance{
		"a1": decimal.NewFromInt(100),
		"a2": decimal.NewFromInt(-100),
	}
	suite.mockJournalService.On("GetTrialBalance", mock.Anything, testTenantID, (*time.Time)(nil)).Return(tb, nil).Once()

	w := suite.serve(http.MethodGet, tenantURL("/reports/trial-balance"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal("0", body["total"])
	suite.Len(body["balances"], 2)
}

func (suite *HandlerTestSuite) TestGetTrialBalance_InvalidCutoff() {
	w := suite.serve(http.MethodGet, tenantURL("/reports/trial-balance?asOf=yesterday"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}
