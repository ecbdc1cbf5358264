package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

var (
	_ portsrepo.EntryRepositoryFacade = (*Store)(nil)
	_ portsrepo.VoucherRepository     = (*Store)(nil)
)

func copyEntry(e domain.LedgerEntry) domain.LedgerEntry {
	e.Attachments = slices.Clone(e.Attachments)
	if e.Attachments == nil {
		e.Attachments = []domain.Attachment{}
	}
	return e
}

func (s *Store) SaveEntry(ctx context.Context, e domain.LedgerEntry) error {
	return s.write(ctx, func(d *state) error {
		if _, ok := d.entries[e.EntryID]; ok {
			return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, e.EntryID)
		}
		if e.IdempotencyKey != nil {
			if _, ok := d.idempotency[e.OrganizationID+"|"+*e.IdempotencyKey]; ok {
				return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
			}
		}
		voucherKey := e.OrganizationID + "|" + e.VoucherNumber
		if _, ok := d.voucherNumbers[voucherKey]; ok {
			return fmt.Errorf("%w: voucher number %s", apperrors.ErrDuplicate, e.VoucherNumber)
		}

		e = copyEntry(e)
		for i := range e.Attachments {
			e.Attachments[i].EntryID = e.EntryID
		}
		d.entries[e.EntryID] = e
		d.voucherNumbers[voucherKey] = struct{}{}
		if e.IdempotencyKey != nil {
			d.idempotency[e.OrganizationID+"|"+*e.IdempotencyKey] = e.EntryID
		}
		return nil
	})
}

func (s *Store) FindEntryByID(ctx context.Context, orgID, entryID string) (*domain.LedgerEntry, error) {
	var (
		e  domain.LedgerEntry
		ok bool
	)
	s.read(ctx, func(d *state) { e, ok = d.entries[entryID] })
	if !ok || e.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
	}
	e = copyEntry(e)
	return &e, nil
}

// LockEntry is a plain read; units of work are already serialized.
func (s *Store) LockEntry(ctx context.Context, orgID, entryID string) (*domain.LedgerEntry, error) {
	return s.FindEntryByID(ctx, orgID, entryID)
}

func (s *Store) FindEntryByIdempotencyKey(ctx context.Context, orgID, key string) (*domain.LedgerEntry, error) {
	var (
		entryID string
		ok      bool
	)
	s.read(ctx, func(d *state) { entryID, ok = d.idempotency[orgID+"|"+key] })
	if !ok {
		return nil, fmt.Errorf("%w: idempotency key", apperrors.ErrNotFound)
	}
	return s.FindEntryByID(ctx, orgID, entryID)
}

func (s *Store) UpdateEntry(ctx context.Context, e domain.LedgerEntry) error {
	return s.write(ctx, func(d *state) error {
		cur, ok := d.entries[e.EntryID]
		if !ok || cur.OrganizationID != e.OrganizationID {
			return apperrors.NewNotFoundError("ledger entry " + e.EntryID)
		}
		// Same column set as the Postgres UPDATE.
		cur.Amount = e.Amount
		cur.Description = e.Description
		cur.Reference = e.Reference
		cur.TransactionDate = e.TransactionDate
		cur.Status = e.Status
		cur.ReversedByID = e.ReversedByID
		cur.IsReconciled = e.IsReconciled
		cur.ReconciledAt = e.ReconciledAt
		cur.IsEdited = e.IsEdited
		cur.EditReason = e.EditReason
		cur.LastEditedByID = e.LastEditedByID
		cur.LastEditedAt = e.LastEditedAt
		cur.DeleteRequestedByID = e.DeleteRequestedByID
		cur.DeletedReason = e.DeletedReason
		cur.ApprovedByID = e.ApprovedByID
		cur.ApprovedAt = e.ApprovedAt
		cur.ContactID = e.ContactID
		cur.UpdatedAt = e.UpdatedAt
		d.entries[e.EntryID] = cur
		return nil
	})
}

func matchesEntry(e domain.LedgerEntry, orgID string, f domain.EntryFilter, statuses []domain.EntryStatus, needle string) bool {
	switch {
	case e.OrganizationID != orgID,
		!scopeAllows(f.Scope, e.CashbookID),
		!slices.Contains(statuses, e.Status),
		f.CashbookID != nil && e.CashbookID != *f.CashbookID,
		f.AccountID != nil && e.AccountID != *f.AccountID,
		f.ContactID != nil && (e.ContactID == nil || *e.ContactID != *f.ContactID),
		f.Type != nil && e.Type != *f.Type,
		f.Category != nil && e.Category != *f.Category,
		f.TransferGroupID != nil && (e.TransferGroupID == nil || *e.TransferGroupID != *f.TransferGroupID),
		f.StartDate != nil && e.TransactionDate.Before(*f.StartDate),
		f.EndDate != nil && e.TransactionDate.After(*f.EndDate),
		f.IsReconciled != nil && e.IsReconciled != *f.IsReconciled:
		return false
	}
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Description), needle) ||
		strings.Contains(strings.ToLower(e.Reference), needle) ||
		strings.Contains(strings.ToLower(e.VoucherNumber), needle)
}

func (s *Store) ListEntries(ctx context.Context, orgID string, f domain.EntryFilter) ([]domain.LedgerEntry, int, error) {
	statuses := f.EffectiveStatuses()
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	var matched []domain.LedgerEntry
	s.read(ctx, func(d *state) {
		for _, e := range d.entries {
			if matchesEntry(e, orgID, f, statuses, needle) {
				matched = append(matched, copyEntry(e))
			}
		}
	})
	slices.SortFunc(matched, func(a, b domain.LedgerEntry) int {
		return cmp.Or(
			b.TransactionDate.Compare(a.TransactionDate),
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(b.EntryID, a.EntryID),
		)
	})

	total := len(matched)
	start := min(f.Offset(), total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	page := matched[start:end]
	if page == nil {
		page = []domain.LedgerEntry{}
	}
	return page, total, nil
}

func (s *Store) SumEntryTotals(ctx context.Context, orgID string, f domain.TotalsFilter) ([]domain.BalanceTotal, error) {
	type groupKey struct {
		account string
		typ     domain.EntryType
		status  domain.EntryStatus
	}
	sums := map[groupKey]decimal.Decimal{}
	s.read(ctx, func(d *state) {
		for _, e := range d.entries {
			switch {
			case e.OrganizationID != orgID,
				!scopeAllows(f.Scope, e.CashbookID),
				len(f.AccountIDs) > 0 && !slices.Contains(f.AccountIDs, e.AccountID),
				f.FromDate != nil && e.TransactionDate.Before(*f.FromDate),
				f.ToDate != nil && e.TransactionDate.After(*f.ToDate):
				continue
			}
			k := groupKey{e.AccountID, e.Type, e.Status}
			sums[k] = sums[k].Add(e.Amount)
		}
	})

	totals := make([]domain.BalanceTotal, 0, len(sums))
	for k, v := range sums {
		totals = append(totals, domain.BalanceTotal{AccountID: k.account, Type: k.typ, Status: k.status, Total: v})
	}
	return totals, nil
}

func (s *Store) NextVoucherValue(ctx context.Context, orgID string, seq domain.VoucherSequence) (int64, error) {
	var next int64
	err := s.write(ctx, func(d *state) error {
		key := orgID + "|" + string(seq)
		d.sequences[key]++
		next = d.sequences[key]
		return nil
	})
	return next, err
}
