package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFoldBalance_OnlyCountedStatuses(t *testing.T) {
	totals := []domain.BalanceTotal{
		{Type: domain.EntryTypeInflow, Status: domain.EntryStatusActive, Total: dec("100")},
		{Type: domain.EntryTypeAdjustment, Status: domain.EntryStatusActive, Total: dec("5.005")},
		{Type: domain.EntryTypeOutflow, Status: domain.EntryStatusActive, Total: dec("40")},
		{Type: domain.EntryTypeInflow, Status: domain.EntryStatusReversed, Total: dec("1000")},
		{Type: domain.EntryTypeOutflow, Status: domain.EntryStatusDeleted, Total: dec("999")},
		{Type: domain.EntryTypeOutflow, Status: domain.EntryStatusPendingDeleteApproval, Total: dec("10")},
	}

	got := domain.FoldBalance(totals)

	assert.True(t, dec("55.01").Equal(got), "got %s", got)
}

func TestFoldEntries_MatchesFoldBalance(t *testing.T) {
	entries := []domain.LedgerEntry{
		{Type: domain.EntryTypeInflow, Status: domain.EntryStatusActive, Amount: dec("100")},
		{Type: domain.EntryTypeOutflow, Status: domain.EntryStatusActive, Amount: dec("40")},
		{Type: domain.EntryTypeInflow, Status: domain.EntryStatusReversed, Amount: dec("100")},
		{Type: domain.EntryTypeOutflow, Status: domain.EntryStatusActive, Amount: dec("100")},
	}

	assert.True(t, dec("-40").Equal(domain.FoldEntries(entries)))
}

func TestFlowTotals(t *testing.T) {
	totals := []domain.BalanceTotal{
		{Type: domain.EntryTypeInflow, Status: domain.EntryStatusActive, Total: dec("100")},
		{Type: domain.EntryTypeInflow, Status: domain.EntryStatusDeleted, Total: dec("50")},
		{Type: domain.EntryTypeOutflow, Status: domain.EntryStatusActive, Total: dec("30")},
		{Type: domain.EntryTypeAdjustment, Status: domain.EntryStatusActive, Total: dec("7")},
	}

	in, out := domain.FlowTotals(totals)

	assert.True(t, dec("100").Equal(in))
	assert.True(t, dec("30").Equal(out))
}

func TestFoldBalancesByAccount(t *testing.T) {
	totals := []domain.BalanceTotal{
		{AccountID: "a", Type: domain.EntryTypeInflow, Status: domain.EntryStatusActive, Total: dec("10")},
		{AccountID: "b", Type: domain.EntryTypeOutflow, Status: domain.EntryStatusActive, Total: dec("3")},
		{AccountID: "a", Type: domain.EntryTypeOutflow, Status: domain.EntryStatusActive, Total: dec("4")},
	}

	got := domain.FoldBalancesByAccount(totals)

	require.Len(t, got, 2)
	assert.True(t, dec("6").Equal(got["a"]))
	assert.True(t, dec("-3").Equal(got["b"]))
}

func TestEntryType_Opposite(t *testing.T) {
	tests := []struct {
		in   domain.EntryType
		want domain.EntryType
	}{
		{domain.EntryTypeInflow, domain.EntryTypeOutflow},
		{domain.EntryTypeOutflow, domain.EntryTypeInflow},
		{domain.EntryTypeAdjustment, domain.EntryTypeOutflow},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got := tt.in.Opposite()
			assert.Equal(t, tt.want, got)
			// the reversal must cancel the original exactly
			assert.True(t, tt.in.Sign().Add(got.Sign()).IsZero())
		})
	}
}

func TestEntryStatus_DeleteTransitions(t *testing.T) {
	next, err := domain.EntryStatusActive.RequestDeletion()
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusPendingDeleteApproval, next)

	approved, err := next.ResolveDeletion(domain.DeleteDecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusDeleted, approved)

	rejected, err := next.ResolveDeletion(domain.DeleteDecisionReject)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusActive, rejected)

	for _, s := range []domain.EntryStatus{domain.EntryStatusReversed, domain.EntryStatusPendingDeleteApproval, domain.EntryStatusDeleted} {
		_, err := s.RequestDeletion()
		var illegal *domain.ErrIllegalTransition
		assert.True(t, errors.As(err, &illegal), "status %s", s)
	}

	_, err = domain.EntryStatusActive.ResolveDeletion(domain.DeleteDecisionApprove)
	assert.Error(t, err)
}

func TestDeleteRequestStatus_Resolve(t *testing.T) {
	got, err := domain.DeleteRequestPending.Resolve(domain.DeleteDecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteRequestApproved, got)

	_, err = domain.DeleteRequestApproved.Resolve(domain.DeleteDecisionReject)
	var resolved *domain.ErrAlreadyResolved
	require.True(t, errors.As(err, &resolved))
	assert.Equal(t, "delete request already APPROVED", err.Error())
}

func TestCashbookPolicy(t *testing.T) {
	lock := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cb := domain.Cashbook{AllowBackdated: true, LockDate: &lock}

	assert.True(t, cb.AllowsCategory(domain.EntryCategoryNormal))
	assert.True(t, cb.AllowsCategory(domain.EntryCategoryBackdated))
	assert.False(t, cb.AllowsCategory(domain.EntryCategoryOmitted))
	assert.True(t, cb.IsLocked(lock.Add(-time.Second)))
	assert.False(t, cb.IsLocked(lock))
}

func TestFormatVoucher(t *testing.T) {
	assert.Equal(t, "R-000001", domain.FormatVoucher(domain.SequenceForEntryType(domain.EntryTypeInflow), 1))
	assert.Equal(t, "P-000042", domain.FormatVoucher(domain.SequenceForEntryType(domain.EntryTypeOutflow), 42))
	assert.Equal(t, "J-123456", domain.FormatVoucher(domain.SequenceForEntryType(domain.EntryTypeAdjustment), 123456))
	assert.Equal(t, "T-000007", domain.FormatVoucher(domain.VoucherSequenceTransfer, 7))
}

func TestReportStatusTransitions(t *testing.T) {
	assert.True(t, domain.ReportStatusPending.CanTransitionTo(domain.ReportStatusProcessing))
	assert.True(t, domain.ReportStatusProcessing.CanTransitionTo(domain.ReportStatusCompleted))
	assert.True(t, domain.ReportStatusPending.CanTransitionTo(domain.ReportStatusFailed))
	assert.False(t, domain.ReportStatusPending.CanTransitionTo(domain.ReportStatusCompleted))
	assert.False(t, domain.ReportStatusCompleted.CanTransitionTo(domain.ReportStatusFailed))
}

func TestCashbookScope(t *testing.T) {
	assert.True(t, domain.AllCashbooks().Allows("x"))
	assert.True(t, domain.OnlyCashbooks("a", "b").Allows("b"))
	assert.False(t, domain.OnlyCashbooks("a").Allows("b"))
	assert.True(t, domain.CashbookScope{}.Empty())
}
