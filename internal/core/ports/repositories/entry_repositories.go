package repositories

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// EntryReader defines read operations for ledger entries.
type EntryReader interface {
	FindEntryByID(ctx context.Context, orgID, entryID string) (*domain.LedgerEntry, error)

	// FindEntryByIdempotencyKey returns apperrors.ErrNotFound when no entry carries the key.
	FindEntryByIdempotencyKey(ctx context.Context, orgID, key string) (*domain.LedgerEntry, error)

	// ListEntries returns one page of entries and the total number of matches,
	// newest transaction date first.
	ListEntries(ctx context.Context, orgID string, filter domain.EntryFilter) ([]domain.LedgerEntry, int, error)

	// SumEntryTotals groups entry amounts by (account, type, status).
	SumEntryTotals(ctx context.Context, orgID string, filter domain.TotalsFilter) ([]domain.BalanceTotal, error)
}

// EntryWriter defines write operations for ledger entries. Writers are meant
// to be called inside TransactionManager.WithinTx.
type EntryWriter interface {
	// SaveEntry inserts the entry and its attachments. A clash on the
	// idempotency key or voucher number returns apperrors.ErrDuplicate.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// LockEntry reads the entry and holds a row lock until the transaction ends.
	LockEntry(ctx context.Context, orgID, entryID string) (*domain.LedgerEntry, error)

	// UpdateEntry persists the mutable columns of an entry.
	UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// EntryRepositoryFacade combines all entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// VoucherRepository hands out per-organization counter values.
type VoucherRepository interface {
	// NextVoucherValue atomically increments and returns the counter. It must
	// run inside the transaction that persists the entry using the value.
	NextVoucherValue(ctx context.Context, orgID string, seq domain.VoucherSequence) (int64, error)
}
