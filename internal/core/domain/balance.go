package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTotal is the sum of entry amounts for one (account, type, status) group.
type BalanceTotal struct {
	AccountID string
	Type      EntryType
	Status    EntryStatus
	Total     decimal.Decimal
}

// TotalsFilter selects the entries summed into BalanceTotals.
type TotalsFilter struct {
	AccountIDs []string // empty means every account in scope
	Scope      CashbookScope
	FromDate   *time.Time // transactionDate >= FromDate
	ToDate     *time.Time // transactionDate <= ToDate
}

// FoldBalance applies status and sign rules to grouped totals and rounds the result.
func FoldBalance(totals []BalanceTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		if !t.Status.CountsTowardBalance() {
			continue
		}
		sum = sum.Add(t.Total.Mul(t.Type.Sign()))
	}
	return RoundMoney(sum)
}

// FoldBalancesByAccount folds totals per account.
func FoldBalancesByAccount(totals []BalanceTotal) map[string]decimal.Decimal {
	grouped := make(map[string][]BalanceTotal)
	for _, t := range totals {
		grouped[t.AccountID] = append(grouped[t.AccountID], t)
	}
	out := make(map[string]decimal.Decimal, len(grouped))
	for accountID, group := range grouped {
		out[accountID] = FoldBalance(group)
	}
	return out
}

// FoldEntries folds individual entries the same way FoldBalance folds totals.
func FoldEntries(entries []LedgerEntry) decimal.Decimal {
	sum := decimal.Zero
	for i := range entries {
		sum = sum.Add(entries[i].SignedAmount())
	}
	return RoundMoney(sum)
}

// FlowTotals splits counted totals into inflow and outflow sums.
// Adjustments are corrections, not cash movement, and are left out of both.
func FlowTotals(totals []BalanceTotal) (inflow, outflow decimal.Decimal) {
	inflow, outflow = decimal.Zero, decimal.Zero
	for _, t := range totals {
		if !t.Status.CountsTowardBalance() {
			continue
		}
		switch t.Type {
		case EntryTypeInflow:
			inflow = inflow.Add(t.Total)
		case EntryTypeOutflow:
			outflow = outflow.Add(t.Total)
		case EntryTypeAdjustment:
		}
	}
	return RoundMoney(inflow), RoundMoney(outflow)
}
