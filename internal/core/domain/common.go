package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places balances and converted amounts are rounded to.
const MoneyScale int32 = 2

// AmountScale is the number of decimal places an entry amount is stored with.
const AmountScale int32 = 4

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// RoundMoney rounds an amount half away from zero to MoneyScale places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// FitsAmountScale reports whether d is representable without rounding at AmountScale.
func FitsAmountScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(AmountScale))
}

// CashbookScope restricts a query to the cashbooks a caller may see.
// A zero value sees nothing; use AllCashbooks for administrators.
type CashbookScope struct {
	All bool
	IDs []string
}

// AllCashbooks is the unrestricted scope given to organization owners and admins.
func AllCashbooks() CashbookScope {
	return CashbookScope{All: true}
}

// OnlyCashbooks restricts a scope to the given cashbook ids.
func OnlyCashbooks(ids ...string) CashbookScope {
	return CashbookScope{IDs: ids}
}

// Allows reports whether the scope includes the cashbook.
func (s CashbookScope) Allows(cashbookID string) bool {
	return s.All || slices.Contains(s.IDs, cashbookID)
}

// Empty reports whether the scope can match nothing.
func (s CashbookScope) Empty() bool {
	return !s.All && len(s.IDs) == 0
}
