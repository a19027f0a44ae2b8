package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/catalogue"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/SscSPs/mfrs_ledger_app/internal/platform/metrics"
)

const defaultEntityComplianceScore = 85

// complianceService implements the ComplianceSvcFacade interface
type complianceService struct {
	BaseService
	repo         portsrepo.ComplianceRepositoryFacade
	auditLog     portsrepo.AuditLogWriter
	defaultScore int
}

// ComplianceServiceOption is a functional option for configuring the compliance service
type ComplianceServiceOption func(*complianceService)

// WithComplianceMetrics records violation and disclosure counters.
func WithComplianceMetrics(m *metrics.Metrics) ComplianceServiceOption {
	return func(s *complianceService) {
		s.Metrics = m
	}
}

// WithDefaultComplianceScore sets the score reported for entities with no report snapshot.
func WithDefaultComplianceScore(score int) ComplianceServiceOption {
	return func(s *complianceService) {
		s.defaultScore = score
	}
}

// WithComplianceAuditLog records disclosure approvals in the audit log.
func WithComplianceAuditLog(w portsrepo.AuditLogWriter) ComplianceServiceOption {
	return func(s *complianceService) {
		s.auditLog = w
	}
}

// WithComplianceClock overrides the time source.
func WithComplianceClock(now func() time.Time) ComplianceServiceOption {
	return func(s *complianceService) {
		s.now = now
	}
}

// NewComplianceService creates a new compliance service with the provided options
func NewComplianceService(repo portsrepo.ComplianceRepositoryFacade, options ...ComplianceServiceOption) portssvc.ComplianceSvcFacade {
	svc := &complianceService{
		repo:         repo,
		defaultScore: defaultEntityComplianceScore,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure complianceService implements the ComplianceSvcFacade interface
var _ portssvc.ComplianceSvcFacade = (*complianceService)(nil)

// ValidateTransaction evaluates every active rule independently. Each violation is
// stored best-effort; Persisted reports whether that write succeeded.
func (s *complianceService) ValidateTransaction(ctx context.Context, txn domain.ComplianceTransaction) ([]domain.ValidationViolation, error) {
	rules, err := s.repo.ListRules(ctx, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch active MFRS rules", slog.String("tenant_id", txn.TenantID))
		return nil, fmt.Errorf("failed to fetch active rules: %w", err)
	}

	violations := make([]domain.ValidationViolation, 0)
	for _, rule := range rules {
		result := EvaluateRule(rule, txn)
		if !result.IsViolation() {
			continue
		}

		violation := s.newViolation(rule, txn, result)
		if err := s.repo.SaveViolation(ctx, violation); err != nil {
			s.LogError(ctx, err, "Failed to store validation violation",
				slog.String("rule_id", rule.RuleID),
				slog.String("transaction_id", txn.TransactionID))
			s.Metrics.BestEffortWriteFailed("violation")
		} else {
			violation.Persisted = true
		}
		s.Metrics.ViolationRecorded(string(rule.ComplianceLevel))
		violations = append(violations, violation)
	}

	s.LogDebug(ctx, "Transaction evaluated against MFRS rules",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int("rules", len(rules)),
		slog.Int("violations", len(violations)))
	return violations, nil
}

func (s *complianceService) newViolation(rule domain.MFRSRule, txn domain.ComplianceTransaction, result domain.RuleEvaluation) domain.ValidationViolation {
	message := result.Message
	if message == "" {
		message = "Validation failed"
	}

	details := make(map[string]any, len(result.Details)+2)
	for k, v := range result.Details {
		details[k] = v
	}
	details["transaction_id"] = txn.TransactionID
	details["rule_id"] = rule.RuleID

	return domain.ValidationViolation{
		ViolationID:         uuid.NewString(),
		TenantID:            txn.TenantID,
		RuleID:              rule.RuleID,
		RuleTitle:           rule.Title,
		Standard:            rule.Standard,
		ComplianceLevel:     rule.ComplianceLevel,
		Message:             message,
		Details:             details,
		TransactionID:       txn.TransactionID,
		Amount:              txn.Amount,
		SuggestedCorrection: SuggestedCorrection(rule),
		CreatedAt:           s.Now(),
	}
}

func (s *complianceService) EntityComplianceScore(ctx context.Context, tenantID, entityID string) (int, error) {
	report, err := s.repo.FindLatestReport(ctx, tenantID, entityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.defaultScore, nil
		}
		s.LogError(ctx, err, "Failed to get latest compliance report", slog.String("entity_id", entityID))
		return 0, fmt.Errorf("failed to get compliance report: %w", err)
	}
	return report.ComplianceScore, nil
}

// GenerateDisclosures renders every mandatory requirement whose conditions hold.
// Generated disclosures start unapproved and are stored best-effort.
func (s *complianceService) GenerateDisclosures(ctx context.Context, data domain.FinancialData) ([]domain.GeneratedDisclosure, error) {
	requirements, err := s.repo.ListRequirements(ctx, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch disclosure requirements")
		return nil, fmt.Errorf("failed to fetch disclosure requirements: %w", err)
	}

	disclosures := make([]domain.GeneratedDisclosure, 0)
	for _, req := range requirements {
		if !DisclosureApplies(req, data) {
			continue
		}

		disclosure := domain.GeneratedDisclosure{
			DisclosureID:    uuid.NewString(),
			RequirementID:   req.RequirementID,
			Standard:        req.Standard,
			Title:           req.Title,
			Content:         RenderDisclosureTemplate(req.Template, data),
			DisclosureType:  req.DisclosureType,
			FinancialPeriod: data.Period,
			TenantID:        data.TenantID,
			GeneratedAt:     s.Now(),
		}
		if err := s.repo.SaveDisclosure(ctx, disclosure); err != nil {
			s.LogError(ctx, err, "Failed to store generated disclosure",
				slog.String("requirement_id", req.RequirementID))
			s.Metrics.BestEffortWriteFailed("disclosure")
		} else {
			disclosure.Persisted = true
		}
		disclosures = append(disclosures, disclosure)
	}

	s.Metrics.DisclosuresGenerated(len(disclosures))
	s.LogInfo(ctx, "Disclosures generated",
		slog.String("period", data.Period),
		slog.Int("count", len(disclosures)))
	return disclosures, nil
}

func (s *complianceService) ApproveDisclosure(ctx context.Context, tenantID, disclosureID, userID string) (*domain.GeneratedDisclosure, error) {
	disclosure, err := s.repo.FindDisclosureByID(ctx, tenantID, disclosureID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load disclosure", slog.String("disclosure_id", disclosureID))
		}
		return nil, err
	}
	if disclosure.IsApproved {
		return nil, apperrors.PreconditionFailed("disclosure is already approved")
	}

	now := s.Now()
	if err := s.repo.ApproveDisclosure(ctx, tenantID, disclosureID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to approve disclosure", slog.String("disclosure_id", disclosureID))
		return nil, fmt.Errorf("failed to approve disclosure: %w", err)
	}
	disclosure.IsApproved = true
	disclosure.ApprovedBy = &userID
	disclosure.ApprovedAt = &now

	if s.auditLog != nil {
		audit := domain.AuditLog{
			AuditLogID: uuid.NewString(),
			TenantID:   tenantID,
			EventType:  domain.AuditDisclosureApproved,
			EntityID:   disclosureID,
			UserID:     userID,
			Payload:    map[string]any{"disclosure_id": disclosureID, "user_id": userID},
			CreatedAt:  now,
		}
		if err := s.auditLog.AppendAuditLog(ctx, audit); err != nil {
			s.LogError(ctx, err, "Failed to write audit log", slog.String("event_type", audit.EventType))
			s.Metrics.BestEffortWriteFailed("audit")
		}
	}

	s.LogInfo(ctx, "Disclosure approved", slog.String("disclosure_id", disclosureID), slog.String("user_id", userID))
	return disclosure, nil
}

func (s *complianceService) GetDisclosures(ctx context.Context, filter domain.DisclosureFilter) ([]domain.GeneratedDisclosure, error) {
	if filter.TenantID == "" {
		return nil, apperrors.InvalidArgument("tenant is required")
	}
	disclosures, err := s.repo.ListDisclosures(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list disclosures")
		return nil, fmt.Errorf("failed to list disclosures: %w", err)
	}
	return disclosures, nil
}

// CalculateComplianceScore starts at 100 and subtracts the penalty of each violation, never going below 0.
// Disclosures do not affect the score.
func (s *complianceService) CalculateComplianceScore(violations []domain.ValidationViolation, _ []domain.GeneratedDisclosure) int {
	score := 100
	for _, v := range violations {
		score -= v.ComplianceLevel.Penalty()
	}
	return max(score, 0)
}

func (s *complianceService) GetViolations(ctx context.Context, filter domain.ViolationFilter) ([]domain.ValidationViolation, error) {
	if filter.TenantID == "" {
		return nil, apperrors.InvalidArgument("tenant is required")
	}
	violations, err := s.repo.ListViolations(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list violations")
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	return violations, nil
}

// GetComplianceReport aggregates the tenant's violations and disclosures in the range.
// It is recomputed on every call.
func (s *complianceService) GetComplianceReport(ctx context.Context, tenantID string, startDate, endDate *time.Time) (*domain.ComplianceReport, error) {
	violations, err := s.GetViolations(ctx, domain.ViolationFilter{TenantID: tenantID, StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	disclosures, err := s.GetDisclosures(ctx, domain.DisclosureFilter{TenantID: tenantID, StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}

	report := &domain.ComplianceReport{
		TenantID:              tenantID,
		StartDate:             startDate,
		EndDate:               endDate,
		ComplianceScore:       s.CalculateComplianceScore(violations, disclosures),
		TotalViolations:       len(violations),
		TotalDisclosures:      len(disclosures),
		ViolationsByStandard:  make(map[string]int),
		DisclosuresByStandard: make(map[string]int),
		Recommendations:       make([]string, 0),
		GeneratedAt:           s.Now(),
	}

	for _, v := range violations {
		switch v.ComplianceLevel {
		case domain.LevelCritical:
			report.CriticalViolations++
		case domain.LevelHigh:
			report.HighViolations++
		case domain.LevelMedium:
			report.MediumViolations++
		case domain.LevelLow:
			report.LowViolations++
		}
		report.ViolationsByStandard[string(v.Standard)]++
	}
	for _, d := range disclosures {
		if d.IsApproved {
			report.ApprovedDisclosures++
		} else {
			report.PendingDisclosures++
		}
		report.DisclosuresByStandard[string(d.Standard)]++
	}

	if report.TotalViolations > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Address %d compliance violations to improve compliance score.", report.TotalViolations))
	}
	if report.CriticalViolations > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Immediately address %d critical violations.", report.CriticalViolations))
	}
	if report.PendingDisclosures > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Review and approve %d pending disclosures.", report.PendingDisclosures))
	}

	return report, nil
}

// SnapshotComplianceReport computes the report and stores it for the entity.
// The latest snapshot drives EntityComplianceScore.
func (s *complianceService) SnapshotComplianceReport(ctx context.Context, tenantID, entityID string, startDate, endDate *time.Time) (*domain.ComplianceReport, error) {
	if strings.TrimSpace(entityID) == "" {
		return nil, apperrors.InvalidArgument("entity is required")
	}
	report, err := s.GetComplianceReport(ctx, tenantID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	report.ReportID = uuid.NewString()
	report.EntityID = entityID

	if err := s.repo.SaveReport(ctx, *report); err != nil {
		s.LogError(ctx, err, "Failed to store compliance report", slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to store compliance report: %w", err)
	}

	s.LogInfo(ctx, "Compliance report snapshot stored",
		slog.String("entity_id", entityID),
		slog.Int("score", report.ComplianceScore))
	return report, nil
}

func (s *complianceService) AddRule(ctx context.Context, req dto.CreateRuleRequest) (*domain.MFRSRule, error) {
	std, ok := catalogue.ResolveStandard(req.Standard)
	if !ok {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("unknown standard %q", req.Standard))
	}
	logic := req.Logic.ToDomain()
	if err := validateLogic(logic); err != nil {
		return nil, err
	}

	now := s.Now()
	effective := now
	if req.EffectiveDate != nil {
		effective = *req.EffectiveDate
	}
	params := req.Parameters
	if params == nil {
		params = map[string]any{}
	}

	rule := domain.MFRSRule{
		RuleID:          uuid.NewString(),
		Standard:        std,
		RuleCode:        strings.TrimSpace(req.RuleCode),
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		ComplianceLevel: domain.ComplianceLevel(req.ComplianceLevel),
		Logic:           logic,
		Parameters:      params,
		EffectiveDate:   effective,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save MFRS rule", slog.String("rule_code", rule.RuleCode))
		return nil, err
	}

	s.LogInfo(ctx, "MFRS rule added", slog.String("rule_id", rule.RuleID), slog.String("rule_code", rule.RuleCode))
	return &rule, nil
}

func (s *complianceService) UpdateRule(ctx context.Context, ruleID string, req dto.UpdateRuleRequest) (*domain.MFRSRule, error) {
	rule, err := s.repo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, apperrors.InvalidArgument("title cannot be blank")
		}
		rule.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.ComplianceLevel != nil {
		rule.ComplianceLevel = domain.ComplianceLevel(*req.ComplianceLevel)
	}
	if req.Logic != nil {
		logic := req.Logic.ToDomain()
		if err := validateLogic(logic); err != nil {
			return nil, err
		}
		rule.Logic = logic
	}
	if req.Parameters != nil {
		rule.Parameters = req.Parameters
	}
	if req.EffectiveDate != nil {
		rule.EffectiveDate = *req.EffectiveDate
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.UpdatedAt = s.Now()

	if err := s.repo.UpdateRule(ctx, *rule); err != nil {
		s.LogError(ctx, err, "Failed to update MFRS rule", slog.String("rule_id", ruleID))
		return nil, err
	}
	return rule, nil
}

func (s *complianceService) DeactivateRule(ctx context.Context, ruleID string) error {
	if err := s.repo.DeactivateRule(ctx, ruleID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate MFRS rule", slog.String("rule_id", ruleID))
		}
		return err
	}
	s.LogInfo(ctx, "MFRS rule deactivated", slog.String("rule_id", ruleID))
	return nil
}

func (s *complianceService) ListRules(ctx context.Context, includeInactive bool) ([]domain.MFRSRule, error) {
	return s.repo.ListRules(ctx, includeInactive)
}

func (s *complianceService) AddDisclosureRequirement(ctx context.Context, req dto.CreateDisclosureRequirementRequest) (*domain.DisclosureRequirement, error) {
	std, ok := catalogue.ResolveStandard(req.Standard)
	if !ok {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("unknown standard %q", req.Standard))
	}

	now := s.Now()
	effective := now
	if req.EffectiveDate != nil {
		effective = *req.EffectiveDate
	}
	conditions := req.RequiredConditions
	if conditions == nil {
		conditions = map[string]any{}
	}

	requirement := domain.DisclosureRequirement{
		RequirementID:      uuid.NewString(),
		Standard:           std,
		RequirementCode:    strings.TrimSpace(req.RequirementCode),
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		DisclosureType:     domain.DisclosureType(req.DisclosureType),
		Template:           req.Template,
		RequiredConditions: conditions,
		IsMandatory:        req.IsMandatory,
		EffectiveDate:      effective,
		CreatedAt:          now,
	}
	if err := s.repo.SaveRequirement(ctx, requirement); err != nil {
		s.LogError(ctx, err, "Failed to save disclosure requirement", slog.String("requirement_code", requirement.RequirementCode))
		return nil, err
	}
	return &requirement, nil
}

func (s *complianceService) ListDisclosureRequirements(ctx context.Context) ([]domain.DisclosureRequirement, error) {
	return s.repo.ListRequirements(ctx, false)
}

// SeedDefaults loads the built-in catalogue when the rule table is empty.
func (s *complianceService) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.CountRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to count rules: %w", err)
	}
	if count > 0 {
		s.LogDebug(ctx, "MFRS rules already present, skipping seed", slog.Int("rules", count))
		return nil
	}

	cat, err := catalogue.Default(s.Now())
	if err != nil {
		return err
	}
	for _, rule := range cat.Rules {
		if err := s.repo.SaveRule(ctx, rule); err != nil {
			return fmt.Errorf("failed to seed rule %s: %w", rule.RuleID, err)
		}
	}

	reqCount, err := s.repo.CountRequirements(ctx)
	if err != nil {
		return fmt.Errorf("failed to count disclosure requirements: %w", err)
	}
	if reqCount == 0 {
		for _, req := range cat.DisclosureRequirements {
			if err := s.repo.SaveRequirement(ctx, req); err != nil {
				return fmt.Errorf("failed to seed disclosure requirement %s: %w", req.RequirementID, err)
			}
		}
	}

	s.LogInfo(ctx, "Seeded default MFRS catalogue",
		slog.Int("rules", len(cat.Rules)),
		slog.Int("disclosure_requirements", len(cat.DisclosureRequirements)))
	return nil
}

// validateLogic rejects rule shapes the evaluator cannot run meaningfully.
func validateLogic(logic domain.ValidationLogic) error {
	if !logic.Type.IsValid() {
		return apperrors.InvalidArgument(fmt.Sprintf("unknown validation logic type %q", logic.Type))
	}
	if logic.Type == domain.LogicAccountBalance && strings.TrimSpace(logic.AccountCode) == "" {
		return apperrors.InvalidArgument("account_balance rules require account_code")
	}
	return nil
}
