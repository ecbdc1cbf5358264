package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
)

// voucherAllocator turns counter values into voucher numbers. It must be
// called with the ctx of the transaction that saves the entry.
type voucherAllocator struct {
	repo portsrepo.VoucherRepository
}

func (v voucherAllocator) next(ctx context.Context, orgID string, seq domain.VoucherSequence) (string, error) {
	n, err := v.repo.NextVoucherValue(ctx, orgID, seq)
	if err != nil {
		return "", fmt.Errorf("allocate voucher number: %w", err)
	}
	metrics.VoucherAllocations.WithLabelValues(string(seq)).Inc()
	return domain.FormatVoucher(seq, n), nil
}
