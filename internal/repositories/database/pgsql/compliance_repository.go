package pgsql

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/mfrs_ledger_app/internal/models"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils/mapping"
)

const ruleColumns = `rule_id, standard, rule_code, title, description, compliance_level, validation_logic,
	parameters, effective_date, is_active, created_at, updated_at`

const requirementColumns = `requirement_id, standard, requirement_code, title, description, disclosure_type,
	template, required_conditions, is_mandatory, effective_date, created_at`

const violationColumns = `violation_id, tenant_id, rule_id, rule_title, standard, compliance_level, message,
	details, transaction_id, account_id, amount, suggested_correction, created_at`

const disclosureColumns = `disclosure_id, requirement_id, standard, title, content, disclosure_type,
	financial_period, tenant_id, generated_at, is_approved, approved_by, approved_at`

const reportColumns = `report_id, tenant_id, entity_id, start_date, end_date, compliance_score,
	total_violations, critical_violations, high_violations, medium_violations, low_violations,
	total_disclosures, approved_disclosures, pending_disclosures,
	violations_by_standard, disclosures_by_standard, recommendations, generated_at`

type PgxComplianceRepository struct {
	BaseRepository
}

// newPgxComplianceRepository creates a new repository for rules, disclosures and their results.
func newPgxComplianceRepository(pool *pgxpool.Pool) portsrepo.ComplianceRepositoryFacade {
	return &PgxComplianceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ComplianceRepositoryFacade = (*PgxComplianceRepository)(nil)

// whereBuilder accumulates AND-ed predicates with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *whereBuilder) limit(n int) string {
	if n <= 0 {
		return ""
	}
	w.args = append(w.args, n)
	return " LIMIT $" + strconv.Itoa(len(w.args))
}

// --- Rules ---

func scanRule(row pgx.Row) (models.MFRSRule, error) {
	var m models.MFRSRule
	err := row.Scan(
		&m.RuleID,
		&m.Standard,
		&m.RuleCode,
		&m.Title,
		&m.Description,
		&m.ComplianceLevel,
		&m.Logic,
		&m.Parameters,
		&m.EffectiveDate,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// ListRules returns rules ordered by rule code.
func (r *PgxComplianceRepository) ListRules(ctx context.Context, includeInactive bool) ([]domain.MFRSRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM mfrs_rules`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY rule_code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query MFRS rules", err)
	}
	defer rows.Close()

	rules := []domain.MFRSRule{}
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan MFRS rule row", err)
		}
		rules = append(rules, mapping.ToDomainMFRSRule(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating MFRS rule rows", err)
	}
	return rules, nil
}

func (r *PgxComplianceRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.MFRSRule, error) {
	m, err := scanRule(r.Pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM mfrs_rules WHERE rule_id = $1;`, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find MFRS rule "+ruleID, err)
	}
	rule := mapping.ToDomainMFRSRule(m)
	return &rule, nil
}

func (r *PgxComplianceRepository) CountRules(ctx context.Context) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM mfrs_rules;`).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count MFRS rules", err)
	}
	return n, nil
}

func (r *PgxComplianceRepository) SaveRule(ctx context.Context, rule domain.MFRSRule) error {
	m := mapping.ToModelMFRSRule(rule)
	query := `
		INSERT INTO mfrs_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RuleID,
		m.Standard,
		m.RuleCode,
		m.Title,
		m.Description,
		m.ComplianceLevel,
		m.Logic,
		m.Parameters,
		m.EffectiveDate,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "MFRS rule "+m.RuleCode)
	}
	return nil
}

func (r *PgxComplianceRepository) UpdateRule(ctx context.Context, rule domain.MFRSRule) error {
	m := mapping.ToModelMFRSRule(rule)
	query := `
		UPDATE mfrs_rules
		SET title = $2, description = $3, compliance_level = $4, validation_logic = $5,
		    parameters = $6, effective_date = $7, is_active = $8, updated_at = $9
		WHERE rule_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.RuleID,
		m.Title,
		m.Description,
		m.ComplianceLevel,
		m.Logic,
		m.Parameters,
		m.EffectiveDate,
		m.IsActive,
		m.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update MFRS rule "+m.RuleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxComplianceRepository) DeactivateRule(ctx context.Context, ruleID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE mfrs_rules SET is_active = FALSE, updated_at = $2 WHERE rule_id = $1;`, ruleID, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate MFRS rule "+ruleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- Disclosure requirements ---

func (r *PgxComplianceRepository) ListRequirements(ctx context.Context, mandatoryOnly bool) ([]domain.DisclosureRequirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM disclosure_requirements`
	if mandatoryOnly {
		query += ` WHERE is_mandatory = TRUE`
	}
	query += ` ORDER BY requirement_code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query disclosure requirements", err)
	}
	defer rows.Close()

	reqs := []domain.DisclosureRequirement{}
	for rows.Next() {
		var m models.DisclosureRequirement
		if err := rows.Scan(
			&m.RequirementID,
			&m.Standard,
			&m.RequirementCode,
			&m.Title,
			&m.Description,
			&m.DisclosureType,
			&m.Template,
			&m.RequiredConditions,
			&m.IsMandatory,
			&m.EffectiveDate,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan disclosure requirement row", err)
		}
		reqs = append(reqs, mapping.ToDomainDisclosureRequirement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating disclosure requirement rows", err)
	}
	return reqs, nil
}

func (r *PgxComplianceRepository) CountRequirements(ctx context.Context) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM disclosure_requirements;`).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count disclosure requirements", err)
	}
	return n, nil
}

func (r *PgxComplianceRepository) SaveRequirement(ctx context.Context, req domain.DisclosureRequirement) error {
	m := mapping.ToModelDisclosureRequirement(req)
	query := `
		INSERT INTO disclosure_requirements (` + requirementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequirementID,
		m.Standard,
		m.RequirementCode,
		m.Title,
		m.Description,
		m.DisclosureType,
		m.Template,
		m.RequiredConditions,
		m.IsMandatory,
		m.EffectiveDate,
		m.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "disclosure requirement "+m.RequirementCode)
	}
	return nil
}

// --- Violations ---

func (r *PgxComplianceRepository) SaveViolation(ctx context.Context, v domain.ValidationViolation) error {
	m := mapping.ToModelViolation(v)
	query := `
		INSERT INTO validation_violations (` + violationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ViolationID,
		m.TenantID,
		m.RuleID,
		m.RuleTitle,
		m.Standard,
		m.ComplianceLevel,
		m.Message,
		m.Details,
		m.TransactionID,
		m.AccountID,
		m.Amount,
		m.SuggestedCorrection,
		m.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "validation violation "+m.ViolationID)
	}
	return nil
}

// ListViolations returns matching violations newest first.
func (r *PgxComplianceRepository) ListViolations(ctx context.Context, filter domain.ViolationFilter) ([]domain.ValidationViolation, error) {
	w := &whereBuilder{}
	w.add("tenant_id = ?", filter.TenantID)
	if filter.Standard != "" {
		w.add("standard = ?", string(filter.Standard))
	}
	if filter.ComplianceLevel != "" {
		w.add("compliance_level = ?", string(filter.ComplianceLevel))
	}
	if filter.StartDate != nil {
		w.add("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		w.add("created_at <= ?", *filter.EndDate)
	}
	query := `SELECT ` + violationColumns + ` FROM validation_violations` + w.String() +
		` ORDER BY created_at DESC` + w.limit(filter.Limit) + `;`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query validation violations", err)
	}
	defer rows.Close()

	violations := []domain.ValidationViolation{}
	for rows.Next() {
		var m models.ValidationViolation
		if err := rows.Scan(
			&m.ViolationID,
			&m.TenantID,
			&m.RuleID,
			&m.RuleTitle,
			&m.Standard,
			&m.ComplianceLevel,
			&m.Message,
			&m.Details,
			&m.TransactionID,
			&m.AccountID,
			&m.Amount,
			&m.SuggestedCorrection,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan validation violation row", err)
		}
		violations = append(violations, mapping.ToDomainViolation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating validation violation rows", err)
	}
	return violations, nil
}

// --- Generated disclosures ---

func scanDisclosure(row pgx.Row) (models.GeneratedDisclosure, error) {
	var m models.GeneratedDisclosure
	err := row.Scan(
		&m.DisclosureID,
		&m.RequirementID,
		&m.Standard,
		&m.Title,
		&m.Content,
		&m.DisclosureType,
		&m.FinancialPeriod,
		&m.TenantID,
		&m.GeneratedAt,
		&m.IsApproved,
		&m.ApprovedBy,
		&m.ApprovedAt,
	)
	return m, err
}

func (r *PgxComplianceRepository) SaveDisclosure(ctx context.Context, d domain.GeneratedDisclosure) error {
	m := mapping.ToModelDisclosure(d)
	query := `
		INSERT INTO generated_disclosures (` + disclosureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DisclosureID,
		m.RequirementID,
		m.Standard,
		m.Title,
		m.Content,
		m.DisclosureType,
		m.FinancialPeriod,
		m.TenantID,
		m.GeneratedAt,
		m.IsApproved,
		m.ApprovedBy,
		m.ApprovedAt,
	)
	if err != nil {
		return mapWriteError(err, "generated disclosure "+m.DisclosureID)
	}
	return nil
}

func (r *PgxComplianceRepository) FindDisclosureByID(ctx context.Context, tenantID, disclosureID string) (*domain.GeneratedDisclosure, error) {
	m, err := scanDisclosure(r.Pool.QueryRow(ctx,
		`SELECT `+disclosureColumns+` FROM generated_disclosures WHERE tenant_id = $1 AND disclosure_id = $2;`,
		tenantID, disclosureID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find disclosure "+disclosureID, err)
	}
	d := mapping.ToDomainDisclosure(m)
	return &d, nil
}

// ListDisclosures returns matching disclosures newest first.
func (r *PgxComplianceRepository) ListDisclosures(ctx context.Context, filter domain.DisclosureFilter) ([]domain.GeneratedDisclosure, error) {
	w := &whereBuilder{}
	w.add("tenant_id = ?", filter.TenantID)
	if filter.Standard != "" {
		w.add("standard = ?", string(filter.Standard))
	}
	if filter.DisclosureType != "" {
		w.add("disclosure_type = ?", string(filter.DisclosureType))
	}
	if filter.FinancialPeriod != "" {
		w.add("financial_period = ?", filter.FinancialPeriod)
	}
	if filter.IsApproved != nil {
		w.add("is_approved = ?", *filter.IsApproved)
	}
	if filter.StartDate != nil {
		w.add("generated_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		w.add("generated_at <= ?", *filter.EndDate)
	}
	query := `SELECT ` + disclosureColumns + ` FROM generated_disclosures` + w.String() +
		` ORDER BY generated_at DESC` + w.limit(filter.Limit) + `;`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query generated disclosures", err)
	}
	defer rows.Close()

	disclosures := []domain.GeneratedDisclosure{}
	for rows.Next() {
		m, err := scanDisclosure(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan generated disclosure row", err)
		}
		disclosures = append(disclosures, mapping.ToDomainDisclosure(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating generated disclosure rows", err)
	}
	return disclosures, nil
}

// ApproveDisclosure stamps the approver. Approving twice is reported as a failed precondition.
func (r *PgxComplianceRepository) ApproveDisclosure(ctx context.Context, tenantID, disclosureID, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE generated_disclosures
		SET is_approved = TRUE, approved_by = $3, approved_at = $4
		WHERE tenant_id = $1 AND disclosure_id = $2 AND is_approved = FALSE;`,
		tenantID, disclosureID, userID, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve disclosure "+disclosureID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindDisclosureByID(ctx, tenantID, disclosureID); findErr != nil {
			return findErr
		}
		return apperrors.PreconditionFailed("disclosure " + disclosureID + " is already approved")
	}
	return nil
}

// --- Report snapshots ---

func (r *PgxComplianceRepository) SaveReport(ctx context.Context, report domain.ComplianceReport) error {
	m := mapping.ToModelComplianceReport(report)
	query := `
		INSERT INTO compliance_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReportID,
		m.TenantID,
		m.EntityID,
		m.StartDate,
		m.EndDate,
		m.ComplianceScore,
		m.TotalViolations,
		m.CriticalViolations,
		m.HighViolations,
		m.MediumViolations,
		m.LowViolations,
		m.TotalDisclosures,
		m.ApprovedDisclosures,
		m.PendingDisclosures,
		m.ViolationsByStandard,
		m.DisclosuresByStandard,
		m.Recommendations,
		m.GeneratedAt,
	)
	if err != nil {
		return mapWriteError(err, "compliance report "+m.ReportID)
	}
	return nil
}

func (r *PgxComplianceRepository) FindLatestReport(ctx context.Context, tenantID, entityID string) (*domain.ComplianceReport, error) {
	var m models.ComplianceReport
	err := r.Pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM compliance_reports
		WHERE tenant_id = $1 AND entity_id = $2
		ORDER BY generated_at DESC
		LIMIT 1;`, tenantID, entityID).Scan(
		&m.ReportID,
		&m.TenantID,
		&m.EntityID,
		&m.StartDate,
		&m.EndDate,
		&m.ComplianceScore,
		&m.TotalViolations,
		&m.CriticalViolations,
		&m.HighViolations,
		&m.MediumViolations,
		&m.LowViolations,
		&m.TotalDisclosures,
		&m.ApprovedDisclosures,
		&m.PendingDisclosures,
		&m.ViolationsByStandard,
		&m.DisclosuresByStandard,
		&m.Recommendations,
		&m.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest compliance report", err)
	}
	report := mapping.ToDomainComplianceReport(m)
	return &report, nil
}
