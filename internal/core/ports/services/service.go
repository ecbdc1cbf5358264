package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Cashbook       CashbookSvcFacade
	Account        AccountSvcFacade
	Contact        ContactSvcFacade
	Entry          EntrySvcFacade
	Transfer       TransferSvc
	DeleteApproval DeleteApprovalSvc
	Balance        BalanceSvc
	Audit          AuditSvc
	Dashboard      DashboardSvc
	Report         ReportSvc
}
