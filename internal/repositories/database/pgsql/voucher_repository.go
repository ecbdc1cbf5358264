package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxVoucherRepository hands out voucher counter values from voucher_sequences.
type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool) *PgxVoucherRepository {
	return &PgxVoucherRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepository = (*PgxVoucherRepository)(nil)

// NextVoucherValue increments the counter row; concurrent callers queue on its
// row lock, so a value is never handed out twice and rollbacks only leave gaps.
func (r *PgxVoucherRepository) NextVoucherValue(ctx context.Context, orgID string, seq domain.VoucherSequence) (int64, error) {
	var next int64
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO voucher_sequences (organization_id, sequence_kind, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (organization_id, sequence_kind)
		DO UPDATE SET last_value = voucher_sequences.last_value + 1
		RETURNING last_value`, orgID, seq,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("allocate %s voucher: %w", seq, err)
	}
	return next, nil
}
