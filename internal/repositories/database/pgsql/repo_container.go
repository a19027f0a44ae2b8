package pgsql

import (
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    newPgxAccountRepository(dbPool),
		JournalRepo:    newPgxJournalRepository(dbPool),
		AuditRepo:      newPgxAuditRepository(dbPool),
		ComplianceRepo: newPgxComplianceRepository(dbPool),
	}
}
