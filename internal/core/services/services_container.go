package services

import (
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/platform/config"
	"github.com/SscSPs/mfrs_ledger_app/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Compliance comes first; the journal service validates entries through it.
	container.Compliance = NewComplianceService(
		repos.ComplianceRepo,
		WithComplianceMetrics(m),
		WithDefaultComplianceScore(cfg.DefaultComplianceScore),
		WithComplianceAuditLog(repos.AuditRepo),
	)

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithAccountAuditLog(repos.AuditRepo),
	)

	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		container.Compliance,
		WithJournalMetrics(m),
		WithJournalAuditLog(repos.AuditRepo),
		WithBalanceTolerance(cfg.BalanceTolerance),
		WithMinConfidenceScore(cfg.MinConfidenceScore),
	)

	container.Templates = NewJournalTemplateService(container.Journal)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade    = (*accountService)(nil)
	_ portssvc.JournalSvcFacade    = (*journalService)(nil)
	_ portssvc.ComplianceSvcFacade = (*complianceService)(nil)
	_ portssvc.JournalTemplateSvc  = (*journalTemplateService)(nil)
)
