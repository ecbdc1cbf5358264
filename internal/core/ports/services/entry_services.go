package services

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
)

// EntryReaderSvc defines read operations for ledger entries.
type EntryReaderSvc interface {
	GetEntry(ctx context.Context, orgID string, entryID string, userID string) (*domain.LedgerEntry, error)

	// ListEntries returns a page of entries. LedgerContext is present when the
	// listing is scoped to one account.
	ListEntries(ctx context.Context, orgID string, params dto.ListEntriesParams, userID string) (*domain.EntryPage, error)
}

// EntryWriterSvc defines write operations for ledger entries.
type EntryWriterSvc interface {
	// CreateEntry records an entry. A repeated idempotency key returns the
	// original entry without re-running any side effect.
	CreateEntry(ctx context.Context, orgID string, req dto.CreateEntryRequest, idempotencyKey *string, userID string) (*domain.LedgerEntry, error)
	UpdateEntry(ctx context.Context, orgID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.LedgerEntry, error)

	// ReverseEntry books the opposite entry and marks the original REVERSED.
	// It returns the new reversal entry.
	ReverseEntry(ctx context.Context, orgID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.LedgerEntry, error)
	ToggleReconciliation(ctx context.Context, orgID string, entryID string, userID string) (*domain.LedgerEntry, error)
}

// EntrySvcFacade combines all entry-related service interfaces.
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}

// TransferSvc books paired transfer legs.
type TransferSvc interface {
	CreateTransfer(ctx context.Context, orgID string, req dto.CreateTransferRequest, userID string) (*domain.TransferResult, error)
}

// DeleteApprovalSvc runs the two-party delete workflow.
type DeleteApprovalSvc interface {
	RequestDelete(ctx context.Context, orgID string, entryID string, req dto.RequestDeleteRequest, userID string) (*domain.DeleteRequest, error)
	ApproveDelete(ctx context.Context, orgID string, requestID string, userID string) (*domain.DeleteRequest, error)
	RejectDelete(ctx context.Context, orgID string, requestID string, req dto.RejectDeleteRequest, userID string) (*domain.DeleteRequest, error)
	ListDeleteRequests(ctx context.Context, orgID string, params dto.ListDeleteRequestsParams, userID string) ([]domain.DeleteRequest, error)
}
