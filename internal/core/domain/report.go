package domain

import "time"

// ReportType names what a report summarizes.
type ReportType string

const (
	ReportTypeLedger          ReportType = "LEDGER"
	ReportTypeCashflow        ReportType = "CASHFLOW"
	ReportTypeAccountBalances ReportType = "ACCOUNT_BALANCES"
	ReportTypeAuditTrail      ReportType = "AUDIT_TRAIL"
)

// ReportFormat is the file format the worker renders.
type ReportFormat string

const (
	ReportFormatPDF  ReportFormat = "PDF"
	ReportFormatCSV  ReportFormat = "CSV"
	ReportFormatXLSX ReportFormat = "XLSX"
)

// ReportStatus tracks an asynchronous report job.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "PENDING"
	ReportStatusProcessing ReportStatus = "PROCESSING"
	ReportStatusCompleted  ReportStatus = "COMPLETED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// CanTransitionTo reports whether a worker may move a report from s to next.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch s {
	case ReportStatusPending:
		return next == ReportStatusProcessing || next == ReportStatusFailed
	case ReportStatusProcessing:
		return next == ReportStatusCompleted || next == ReportStatusFailed
	case ReportStatusCompleted, ReportStatusFailed:
		return false
	}
	return false
}

// IsTerminal reports whether the report has finished either way.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusCompleted || s == ReportStatusFailed
}

// Report describes an asynchronous report generation job.
type Report struct {
	ReportID       string         `json:"reportID"`
	OrganizationID string         `json:"organizationID"`
	RequestedByID  string         `json:"requestedByID"`
	Type           ReportType     `json:"type"`
	Format         ReportFormat   `json:"format"`
	Parameters     map[string]any `json:"parameters"`
	Status         ReportStatus   `json:"status"`
	FileURL        *string        `json:"fileURL,omitempty"`
	FileKey        *string        `json:"fileKey,omitempty"`
	ExpiresAt      *time.Time     `json:"expiresAt,omitempty"`
	ErrorMessage   *string        `json:"errorMessage,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
}

// ReportJob is the message handed to the external report worker.
type ReportJob struct {
	ReportID       string         `json:"reportID"`
	OrganizationID string         `json:"organizationID"`
	Type           ReportType     `json:"type"`
	Format         ReportFormat   `json:"format"`
	Parameters     map[string]any `json:"parameters"`
}

// ReportDownload is a time-limited link to a finished report.
type ReportDownload struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
