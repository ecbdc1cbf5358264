package services

import (
	"github.com/SscSPs/cashbook_ledger/internal/core/ports/capabilities"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/platform/config"
)

// Capabilities bundles the external collaborators handed to the services.
type Capabilities struct {
	Cache    capabilities.KeyValueCache
	Queue    capabilities.ReportQueue
	Notifier capabilities.Notifier
	Signer   capabilities.FileURLSigner
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, caps Capabilities) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit and balance are shared by every service that mutates the ledger
	container.Audit = NewAuditService(repos.AuditRepo, repos.OrganizationRepo, repos.CashbookRepo)
	container.Balance = NewBalanceService(repos.EntryRepo, caps.Cache, cfg.BalanceCacheTTL)

	ledgerOpts := []LedgerOption{WithNotifier(caps.Notifier)}
	container.Entry = NewEntryService(repos, container.Audit, container.Balance, ledgerOpts...)
	container.Transfer = NewTransferService(repos, container.Audit, container.Balance, ledgerOpts...)
	container.DeleteApproval = NewDeleteApprovalService(repos, container.Audit, container.Balance, ledgerOpts...)

	container.Cashbook = NewCashbookService(repos, container.Audit, container.Balance)
	container.Account = NewAccountService(repos, container.Audit, container.Balance)
	container.Contact = NewContactService(repos, container.Audit)
	container.Dashboard = NewDashboardService(repos)
	container.Report = NewReportService(repos, ReportDeps{
		Queue:       caps.Queue,
		Signer:      caps.Signer,
		Notifier:    caps.Notifier,
		DownloadTTL: cfg.DownloadURLTTL,
	})

	return container
}
