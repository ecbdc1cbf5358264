package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager         TransactionManager
	OrganizationRepo  OrganizationRepositoryFacade
	CashbookRepo      CashbookRepositoryFacade
	AccountRepo       AccountRepositoryFacade
	ContactRepo       ContactRepositoryFacade
	EntryRepo         EntryRepositoryFacade
	VoucherRepo       VoucherRepository
	DeleteRequestRepo DeleteRequestRepositoryFacade
	AuditRepo         AuditRepositoryFacade
	ReportRepo        ReportRepositoryFacade
	NotificationRepo  NotificationRepository
}
