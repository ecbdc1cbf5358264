package dto

import (
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// CreateReportRequest asks for an asynchronous report.
type CreateReportRequest struct {
	Type       domain.ReportType   `json:"type" binding:"required,oneof=LEDGER CASHFLOW ACCOUNT_BALANCES AUDIT_TRAIL"`
	Format     domain.ReportFormat `json:"format" binding:"required,oneof=PDF CSV XLSX"`
	Parameters map[string]any      `json:"parameters"`
}

// UpdateReportStatusRequest is sent by the report worker as it progresses.
type UpdateReportStatusRequest struct {
	Status       domain.ReportStatus `json:"status" binding:"required,oneof=PROCESSING COMPLETED FAILED"`
	FileURL      *string             `json:"fileURL" binding:"omitempty,url"`
	FileKey      *string             `json:"fileKey" binding:"omitempty,max=512"`
	ExpiresAt    *time.Time          `json:"expiresAt"`
	ErrorMessage *string             `json:"errorMessage" binding:"omitempty,max=2000"`
}

// ListReportsParams defines the query parameters for listing reports.
type ListReportsParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// ListReportsResponse is one page of reports.
type ListReportsResponse struct {
	Data  []domain.Report `json:"data"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
