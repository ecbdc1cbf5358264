package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	idempotencyIndex  = "uq_ledger_entries_idempotency"
	voucherConstraint = "uq_ledger_entries_voucher"
)

// PgxEntryRepository persists ledger entries and their attachments.
type PgxEntryRepository struct {
	BaseRepository
}

func newPgxEntryRepository(pool *pgxpool.Pool) *PgxEntryRepository {
	return &PgxEntryRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, organization_id, cashbook_id, account_id, created_by_id, contact_id,
	entry_type, entry_category, amount, currency, description, reference, reason, transaction_date,
	status, voucher_number, idempotency_key, transfer_group_id, exchange_rate, reversal_of_id,
	reversed_by_id, is_reconciled, reconciled_at, is_edited, edit_reason, last_edited_by_id,
	last_edited_at, delete_requested_by_id, deleted_reason, approved_by_id, approved_at,
	created_at, updated_at`

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.EntryID, &e.OrganizationID, &e.CashbookID, &e.AccountID, &e.CreatedByID, &e.ContactID,
		&e.Type, &e.Category, &e.Amount, &e.Currency, &e.Description, &e.Reference, &e.Reason, &e.TransactionDate,
		&e.Status, &e.VoucherNumber, &e.IdempotencyKey, &e.TransferGroupID, &e.ExchangeRate, &e.ReversalOfID,
		&e.ReversedByID, &e.IsReconciled, &e.ReconciledAt, &e.IsEdited, &e.EditReason, &e.LastEditedByID,
		&e.LastEditedAt, &e.DeleteRequestedByID, &e.DeletedReason, &e.ApprovedByID, &e.ApprovedAt,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Attachments = []domain.Attachment{}
	return &e, nil
}

// SaveEntry inserts the entry row and its attachments in the caller's transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, e domain.LedgerEntry) error {
	q := r.conn(ctx)
	_, err := q.Exec(ctx, `INSERT INTO ledger_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33)`,
		e.EntryID, e.OrganizationID, e.CashbookID, e.AccountID, e.CreatedByID, e.ContactID,
		e.Type, e.Category, e.Amount, e.Currency, e.Description, e.Reference, e.Reason, e.TransactionDate,
		e.Status, e.VoucherNumber, e.IdempotencyKey, e.TransferGroupID, e.ExchangeRate, e.ReversalOfID,
		e.ReversedByID, e.IsReconciled, e.ReconciledAt, e.IsEdited, e.EditReason, e.LastEditedByID,
		e.LastEditedAt, e.DeleteRequestedByID, e.DeletedReason, e.ApprovedByID, e.ApprovedAt,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, idempotencyIndex):
			return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
		case isUniqueViolation(err, voucherConstraint):
			return fmt.Errorf("%w: voucher number %s", apperrors.ErrDuplicate, e.VoucherNumber)
		}
		return fmt.Errorf("save entry %s: %w", e.EntryID, err)
	}

	for _, a := range e.Attachments {
		_, err := q.Exec(ctx, `
			INSERT INTO entry_attachments (attachment_id, entry_id, file_key, file_name, content_type, size_bytes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.AttachmentID, e.EntryID, a.FileKey, a.FileName, a.ContentType, a.Size, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("save attachment %s: %w", a.AttachmentID, err)
		}
	}
	return nil
}

func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, orgID, entryID string) (*domain.LedgerEntry, error) {
	return r.findOne(ctx, `WHERE organization_id = $1 AND entry_id = $2`, "", orgID, entryID)
}

func (r *PgxEntryRepository) FindEntryByIdempotencyKey(ctx context.Context, orgID, key string) (*domain.LedgerEntry, error) {
	return r.findOne(ctx, `WHERE organization_id = $1 AND idempotency_key = $2`, "", orgID, key)
}

// LockEntry takes a row lock held until the surrounding transaction ends.
func (r *PgxEntryRepository) LockEntry(ctx context.Context, orgID, entryID string) (*domain.LedgerEntry, error) {
	return r.findOne(ctx, `WHERE organization_id = $1 AND entry_id = $2`, " FOR UPDATE", orgID, entryID)
}

func (r *PgxEntryRepository) findOne(ctx context.Context, where, suffix string, orgID, arg string) (*domain.LedgerEntry, error) {
	e, err := scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries `+where+suffix, orgID, arg))
	if err != nil {
		return nil, notFoundOr(err, "ledger entry %s", arg)
	}
	if err := r.loadAttachments(ctx, []*domain.LedgerEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PgxEntryRepository) loadAttachments(ctx context.Context, entries []*domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[string]*domain.LedgerEntry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		byID[e.EntryID] = e
		ids = append(ids, e.EntryID)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT attachment_id, entry_id, file_key, file_name, content_type, size_bytes, created_at
		FROM entry_attachments WHERE entry_id = ANY($1) ORDER BY created_at, attachment_id`, ids)
	if err != nil {
		return fmt.Errorf("load attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.AttachmentID, &a.EntryID, &a.FileKey, &a.FileName, &a.ContentType, &a.Size, &a.CreatedAt); err != nil {
			return fmt.Errorf("scan attachment: %w", err)
		}
		if e, ok := byID[a.EntryID]; ok {
			e.Attachments = append(e.Attachments, a)
		}
	}
	return rows.Err()
}

// UpdateEntry rewrites the mutable columns. Identity, account, type and voucher never change.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, e domain.LedgerEntry) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE ledger_entries SET
			amount = $3, description = $4, reference = $5, transaction_date = $6, status = $7,
			reversed_by_id = $8, is_reconciled = $9, reconciled_at = $10, is_edited = $11, edit_reason = $12,
			last_edited_by_id = $13, last_edited_at = $14, delete_requested_by_id = $15, deleted_reason = $16,
			approved_by_id = $17, approved_at = $18, contact_id = $19, updated_at = $20
		WHERE organization_id = $1 AND entry_id = $2`,
		e.OrganizationID, e.EntryID,
		e.Amount, e.Description, e.Reference, e.TransactionDate, e.Status,
		e.ReversedByID, e.IsReconciled, e.ReconciledAt, e.IsEdited, e.EditReason,
		e.LastEditedByID, e.LastEditedAt, e.DeleteRequestedByID, e.DeletedReason,
		e.ApprovedByID, e.ApprovedAt, e.ContactID, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update entry %s: %w", e.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("ledger entry " + e.EntryID)
	}
	return nil
}

// entryWhere builds the WHERE clause shared by listing and counting.
func entryWhere(orgID string, f domain.EntryFilter) (string, []any) {
	conds := []string{"organization_id = $1"}
	args := []any{orgID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if !f.Scope.All {
		add("cashbook_id = ANY($%d)", f.Scope.IDs)
	}
	if f.CashbookID != nil {
		add("cashbook_id = $%d", *f.CashbookID)
	}
	if f.AccountID != nil {
		add("account_id = $%d", *f.AccountID)
	}
	if f.ContactID != nil {
		add("contact_id = $%d", *f.ContactID)
	}
	if f.Type != nil {
		add("entry_type = $%d", string(*f.Type))
	}
	if f.Category != nil {
		add("entry_category = $%d", string(*f.Category))
	}
	statuses := f.EffectiveStatuses()
	statusStrs := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrs[i] = string(s)
	}
	add("status = ANY($%d)", statusStrs)
	if f.TransferGroupID != nil {
		add("transfer_group_id = $%d", *f.TransferGroupID)
	}
	if f.StartDate != nil {
		add("transaction_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("transaction_date <= $%d", *f.EndDate)
	}
	if f.IsReconciled != nil {
		add("is_reconciled = $%d", *f.IsReconciled)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(description ILIKE $%d OR reference ILIKE $%d OR voucher_number ILIKE $%d)", n, n, n))
	}
	return strings.Join(conds, " AND "), args
}

func (r *PgxEntryRepository) ListEntries(ctx context.Context, orgID string, filter domain.EntryFilter) ([]domain.LedgerEntry, int, error) {
	if filter.Scope.Empty() {
		return []domain.LedgerEntry{}, 0, nil
	}
	where, args := entryWhere(orgID, filter)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE %s
		ORDER BY transaction_date DESC, created_at DESC, entry_id DESC LIMIT $%d OFFSET $%d`,
		entryColumns, where, len(args)-1, len(args))
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var ptrs []*domain.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entry: %w", err)
		}
		ptrs = append(ptrs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate entries: %w", err)
	}
	rows.Close()

	if err := r.loadAttachments(ctx, ptrs); err != nil {
		return nil, 0, err
	}
	entries := make([]domain.LedgerEntry, len(ptrs))
	for i, e := range ptrs {
		entries[i] = *e
	}
	return entries, total, nil
}

// SumEntryTotals lets the database do the summing; status and sign rules are
// applied by the caller through domain.FoldBalance.
func (r *PgxEntryRepository) SumEntryTotals(ctx context.Context, orgID string, filter domain.TotalsFilter) ([]domain.BalanceTotal, error) {
	if filter.Scope.Empty() {
		return []domain.BalanceTotal{}, nil
	}
	conds := []string{"organization_id = $1"}
	args := []any{orgID}
	if len(filter.AccountIDs) > 0 {
		args = append(args, filter.AccountIDs)
		conds = append(conds, fmt.Sprintf("account_id = ANY($%d)", len(args)))
	}
	if !filter.Scope.All {
		args = append(args, filter.Scope.IDs)
		conds = append(conds, fmt.Sprintf("cashbook_id = ANY($%d)", len(args)))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		conds = append(conds, fmt.Sprintf("transaction_date >= $%d", len(args)))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		conds = append(conds, fmt.Sprintf("transaction_date <= $%d", len(args)))
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT account_id, entry_type, status, SUM(amount)
		FROM ledger_entries WHERE `+strings.Join(conds, " AND ")+`
		GROUP BY account_id, entry_type, status`, args...)
	if err != nil {
		return nil, fmt.Errorf("sum entry totals: %w", err)
	}
	defer rows.Close()

	totals := []domain.BalanceTotal{}
	for rows.Next() {
		var t domain.BalanceTotal
		if err := rows.Scan(&t.AccountID, &t.Type, &t.Status, &t.Total); err != nil {
			return nil, fmt.Errorf("scan entry total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
