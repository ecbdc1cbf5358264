package pgsql

import (
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres repository onto one pool.
func NewRepositoryProvider(pool *pgxpool.Pool, maxTxAttempts int) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:         NewTxManager(pool, maxTxAttempts),
		OrganizationRepo:  newPgxOrganizationRepository(pool),
		CashbookRepo:      newPgxCashbookRepository(pool),
		AccountRepo:       newPgxAccountRepository(pool),
		ContactRepo:       newPgxContactRepository(pool),
		EntryRepo:         newPgxEntryRepository(pool),
		VoucherRepo:       newPgxVoucherRepository(pool),
		DeleteRequestRepo: newPgxDeleteRequestRepository(pool),
		AuditRepo:         newPgxAuditRepository(pool),
		ReportRepo:        newPgxReportRepository(pool),
		NotificationRepo:  newPgxNotificationRepository(pool),
	}
}
