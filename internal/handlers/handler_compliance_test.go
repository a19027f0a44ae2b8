package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestValidateTransaction_ReturnsViolationsAndScore() {
	violations := []domain.ValidationViolation{{
		ViolationID:     "v-1",
		RuleID:          "mfrs15-1",
		Standard:        domain.MFRS115,
		ComplianceLevel: domain.LevelHigh,
		Message:         "Revenue recognised without a contract",
		TransactionID:   "txn-1",
		Amount:          decimal.NewFromInt(5000),
	}}
	suite.mockComplianceService.On("ValidateTransaction", mock.Anything,
		mock.MatchedBy(func(txn domain.ComplianceTransaction) bool {
			return txn.TenantID == testTenantID && txn.TransactionID == "txn-1" && txn.Amount.Equal(decimal.NewFromInt(5000))
		}),
	).Return(violations, nil).Once()
	suite.mockComplianceService.On("CalculateComplianceScore", violations, []domain.GeneratedDisclosure(nil)).Return(85).Once()

	w := suite.serve(http.MethodPost, tenantURL("/compliance/validate"), dto.ValidateTransactionRequest{
		TransactionID: "txn-1",
		Type:          "revenue",
		Amount:        decimal.NewFromInt(5000),
		Accounts:      map[string]decimal.Decimal{"4000": decimal.NewFromInt(-5000)},
	})

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.EqualValues(85, body["complianceScore"])
	suite.Len(body["violations"], 1)
}

func (suite *HandlerTestSuite) TestValidateTransaction_MissingID() {
	w := suite.serve(http.MethodPost, tenantURL("/compliance/validate"), map[string]any{"amount": "10"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestValidateTransaction_RuleStoreUnavailable() {
	suite.mockComplianceService.On("ValidateTransaction", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list rules", nil)).Once()

	w := suite.serve(http.MethodPost, tenantURL("/compliance/validate"), dto.ValidateTransactionRequest{TransactionID: "txn-1"})

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *HandlerTestSuite) TestListViolations_ResolvesShortStandardAndDates() {
	suite.mockComplianceService.On("GetViolations", mock.Anything,
		mock.MatchedBy(func(f domain.ViolationFilter) bool {
			return f.TenantID == testTenantID &&
				f.Standard == domain.MFRS115 &&
				f.ComplianceLevel == domain.LevelCritical &&
				f.StartDate != nil && f.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
				f.EndDate != nil && f.EndDate.After(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)) &&
				f.Limit == 50
		}),
	).Return([]domain.ValidationViolation{}, nil).Once()

	w := suite.serve(http.MethodGet, tenantURL("/compliance/violations?standard=MFRS115&level=CRITICAL&startDate=2024-01-01&endDate=2024-01-31&limit=50"), nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestListViolations_UnknownStandard() {
	w := suite.serve(http.MethodGet, tenantURL("/compliance/violations?standard=IFRS99"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListViolations_InvertedRange() {
	w := suite.serve(http.MethodGet, tenantURL("/compliance/violations?startDate=2024-02-01&endDate=2024-01-01"), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w)["error"], "endDate must not be before startDate")
}

func (suite *HandlerTestSuite) TestGenerateDisclosures_Created() {
	disclosures := []domain.GeneratedDisclosure{{
		DisclosureID:    "d-1",
		RequirementID:   "mfrs101-1",
		Standard:        domain.MFRS101,
		Title:           "Statement of compliance",
		Content:         "The financial statements comply with MFRS.",
		DisclosureType:  domain.DisclosureNote,
		FinancialPeriod: "2024-Q1",
		TenantID:        testTenantID,
	}}
	suite.mockComplianceService.On("GenerateDisclosures", mock.Anything,
		mock.MatchedBy(func(d domain.FinancialData) bool { return d.TenantID == testTenantID && d.Period == "2024-Q1" }),
	).Return(disclosures, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/compliance/disclosures/generate"), dto.GenerateDisclosuresRequest{
		Period:   "2024-Q1",
		Currency: "MYR",
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.Len(suite.decode(w)["disclosures"], 1)
}

func (suite *HandlerTestSuite) TestGenerateDisclosures_PeriodRequired() {
	w := suite.serve(http.MethodPost, tenantURL("/compliance/disclosures/generate"), map[string]any{"currency": "MYR"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListDisclosures_ApprovedFilter() {
	suite.mockComplianceService.On("GetDisclosures", mock.Anything,
		mock.MatchedBy(func(f domain.DisclosureFilter) bool {
			return f.TenantID == testTenantID && f.IsApproved != nil && !*f.IsApproved && f.FinancialPeriod == "2024-Q1"
		}),
	).Return([]domain.GeneratedDisclosure{}, nil).Once()

	w := suite.serve(http.MethodGet, tenantURL("/compliance/disclosures?approved=false&period=2024-Q1"), nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestApproveDisclosure_AlreadyApproved() {
	suite.mockComplianceService.On("ApproveDisclosure", mock.Anything, testTenantID, "d-1", suite.userID).
		Return(nil, apperrors.PreconditionFailed("disclosure already approved")).Once()

	w := suite.serve(http.MethodPost, tenantURL("/compliance/disclosures/d-1/approve"), nil)

	suite.Equal(http.StatusPreconditionFailed, w.Code)
}

func (suite *HandlerTestSuite) TestApproveDisclosure_Success() {
	approvedBy := suite.userID
	suite.mockComplianceService.On("ApproveDisclosure", mock.Anything, testTenantID, "d-1", suite.userID).
		Return(&domain.GeneratedDisclosure{DisclosureID: "d-1", IsApproved: true, ApprovedBy: &approvedBy}, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/compliance/disclosures/d-1/approve"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal(true, body["isApproved"])
	suite.Equal(suite.userID, body["approvedBy"])
}

func (suite *HandlerTestSuite) TestGetComplianceReport() {
	report := &domain.ComplianceReport{TenantID: testTenantID, ComplianceScore: 72, TotalViolations: 3, CriticalViolations: 1}
	suite.mockComplianceService.On("GetComplianceReport", mock.Anything, testTenantID, (*time.Time)(nil), (*time.Time)(nil)).
		Return(report, nil).Once()

	w := suite.serve(http.MethodGet, tenantURL("/compliance/report"), nil)

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.EqualValues(72, body["complianceScore"])
	suite.EqualValues(1, body["criticalViolations"])
}

func (suite *HandlerTestSuite) TestSnapshotComplianceReport_EntityRequired() {
	w := suite.serve(http.MethodPost, tenantURL("/compliance/report/snapshot"), map[string]any{"startDate": "2024-01-01"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSnapshotComplianceReport_Created() {
	report := &domain.ComplianceReport{ReportID: "r-1", TenantID: testTenantID, EntityID: "entity-1", ComplianceScore: 90}
	suite.mockComplianceService.On("SnapshotComplianceReport", mock.Anything, testTenantID, "entity-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return(report, nil).Once()

	w := suite.serve(http.MethodPost, tenantURL("/compliance/report/snapshot"), map[string]any{"entityID": "entity-1"})

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("r-1", suite.decode(w)["reportID"])
}

func (suite *HandlerTestSuite) TestAddRule_UnknownLogicType() {
	w := suite.serveAsAdmin(http.MethodPost, adminURL("/rules"), map[string]any{
		"standard":        "MFRS115",
		"ruleCode":        "REV_CAP",
		"title":           "Revenue cap",
		"complianceLevel": "HIGH",
		"validationLogic": map[string]any{"type": "machine_learning"},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockComplianceService.AssertNotCalled(suite.T(), "AddRule")
}

func (suite *HandlerTestSuite) TestAddRule_Created() {
	threshold := decimal.NewFromInt(1000000)
	suite.mockComplianceService.On("AddRule", mock.Anything,
		mock.MatchedBy(func(r dto.CreateRuleRequest) bool {
			return r.RuleCode == "REV_CAP" && r.Logic.Type == "amount_threshold" && r.Logic.Threshold != nil && r.Logic.Threshold.Equal(threshold)
		}),
	).Return(&domain.MFRSRule{RuleID: "rule-1", RuleCode: "REV_CAP", IsActive: true}, nil).Once()

	w := suite.serveAsAdmin(http.MethodPost, adminURL("/rules"), map[string]any{
		"standard":        "MFRS115",
		"ruleCode":        "REV_CAP",
		"title":           "Revenue cap",
		"complianceLevel": "HIGH",
		"validationLogic": map[string]any{"type": "amount_threshold", "condition": "<=", "threshold": "1000000"},
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("rule-1", suite.decode(w)["ruleID"])
}

func (suite *HandlerTestSuite) TestAddRule_DuplicateCode() {
	suite.mockComplianceService.On("AddRule", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.serveAsAdmin(http.MethodPost, adminURL("/rules"), map[string]any{
		"standard":        "MFRS115",
		"ruleCode":        "REV_CAP",
		"title":           "Revenue cap",
		"complianceLevel": "HIGH",
		"validationLogic": map[string]any{"type": "custom_logic"},
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestRuleAdmin_RequiresAdminClaim() {
	body := map[string]any{
		"standard":        "MFRS115",
		"ruleCode":        "REV_CAP",
		"title":           "Revenue cap",
		"complianceLevel": "HIGH",
		"validationLogic": map[string]any{"type": "custom_logic"},
	}

	suite.Equal(http.StatusForbidden, suite.serve(http.MethodPost, adminURL("/rules"), body).Code)
	suite.Equal(http.StatusForbidden, suite.serve(http.MethodPut, adminURL("/rules/rule-1"), map[string]any{"title": "x"}).Code)
	suite.Equal(http.StatusForbidden, suite.serve(http.MethodDelete, adminURL("/rules/rule-1"), nil).Code)
	suite.Equal(http.StatusForbidden, suite.serve(http.MethodPost, adminURL("/disclosure-requirements"), map[string]any{"requirementCode": "X"}).Code)

	suite.mockComplianceService.AssertNotCalled(suite.T(), "AddRule", mock.Anything, mock.Anything)
	suite.mockComplianceService.AssertNotCalled(suite.T(), "UpdateRule", mock.Anything, mock.Anything, mock.Anything)
	suite.mockComplianceService.AssertNotCalled(suite.T(), "DeactivateRule", mock.Anything, mock.Anything)
	suite.mockComplianceService.AssertNotCalled(suite.T(), "AddDisclosureRequirement", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRuleAdmin_NotServedUnderTenant() {
	w := suite.serveAsAdmin(http.MethodDelete, tenantURL("/compliance/rules/rule-1"), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateRule_NotFound() {
	suite.mockComplianceService.On("UpdateRule", mock.Anything, "rule-9", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serveAsAdmin(http.MethodPut, adminURL("/rules/rule-9"), map[string]any{"title": "New title"})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeactivateRule() {
	suite.mockComplianceService.On("DeactivateRule", mock.Anything, "rule-1").Return(nil).Once()

	w := suite.serveAsAdmin(http.MethodDelete, adminURL("/rules/rule-1"), nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestListRules_IncludeInactive() {
	suite.mockComplianceService.On("ListRules", mock.Anything, true).
		Return([]domain.MFRSRule{{RuleID: "r1"}, {RuleID: "r2"}}, nil).Once()

	w := suite.serve(http.MethodGet, adminURL("/rules?includeInactive=true"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Len(suite.decode(w)["rules"], 2)
}

func (suite *HandlerTestSuite) TestAddDisclosureRequirement_InvalidType() {
	w := suite.serveAsAdmin(http.MethodPost, adminURL("/disclosure-requirements"), map[string]any{
		"standard":        "MFRS101",
		"requirementCode": "MFRS101_X",
		"title":           "X",
		"disclosureType":  "memo",
		"template":        "Period {period}",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListDisclosureRequirements() {
	suite.mockComplianceService.On("ListDisclosureRequirements", mock.Anything).
		Return([]domain.DisclosureRequirement{{RequirementID: "req-1"}}, nil).Once()

	w := suite.serve(http.MethodGet, adminURL("/disclosure-requirements"), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Len(suite.decode(w)["requirements"], 1)
}
