package services

import (
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// checkEntryPolicy applies the cashbook's category flags and lock date.
func checkEntryPolicy(cb *domain.Cashbook, category domain.EntryCategory, transactionDate time.Time) error {
	if !category.Valid() {
		return apperrors.NewValidationError("unknown entry category %q", category)
	}
	if !cb.AllowsCategory(category) {
		return apperrors.NewValidationError("cashbook %s does not allow %s entries", cb.Name, category)
	}
	return checkLockDate(cb, transactionDate)
}

func checkLockDate(cb *domain.Cashbook, transactionDate time.Time) error {
	if cb.IsLocked(transactionDate) {
		return apperrors.NewValidationError("transaction date %s is before the cashbook lock date %s",
			transactionDate.Format(time.DateOnly), cb.LockDate.Format(time.DateOnly))
	}
	return nil
}

// checkAmountScale rejects amounts the ledger would have to round when storing.
func checkAmountScale(field string, amount decimal.Decimal) error {
	if !domain.FitsAmountScale(amount) {
		return apperrors.NewValidationError("%s %s has more than %d decimal places", field, amount.String(), domain.AmountScale)
	}
	return nil
}

// endOfDay widens a date-only bound to cover the whole day.
func endOfDay(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}

func ptr[T any](v T) *T { return &v }
