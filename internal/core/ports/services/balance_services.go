package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSvc derives balances from the entry log. Balances are never stored.
type BalanceSvc interface {
	// ComputeBalance folds the account's counted entries, bypassing the cache.
	ComputeBalance(ctx context.Context, orgID, accountID string) (decimal.Decimal, error)

	// GetBalance is ComputeBalance behind the read-through cache.
	GetBalance(ctx context.Context, orgID, accountID string) (decimal.Decimal, error)

	// OpeningBalance rolls the current balance back over movements dated on or after asOf.
	OpeningBalance(ctx context.Context, orgID, accountID string, asOf time.Time) (decimal.Decimal, error)

	// ClosingBalance rolls the current balance back over movements dated after endDate.
	ClosingBalance(ctx context.Context, orgID, accountID string, endDate time.Time) (decimal.Decimal, error)

	// Invalidate drops cached balances. Callers invoke it synchronously after
	// every committed mutation that can change the accounts' balances.
	Invalidate(ctx context.Context, orgID string, accountIDs ...string)
}
