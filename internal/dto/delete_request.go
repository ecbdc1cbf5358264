package dto

import "github.com/SscSPs/cashbook_ledger/internal/core/domain"

// RequestDeleteRequest asks an approver to delete an entry.
type RequestDeleteRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RejectDeleteRequest carries the approver's reason for keeping the entry.
type RejectDeleteRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListDeleteRequestsParams defines the query parameters for listing delete requests.
type ListDeleteRequestsParams struct {
	Status *domain.DeleteRequestStatus `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}
