package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRatePrecision is the number of places a derived exchange rate keeps.
const exchangeRatePrecision = 10

type transferService struct {
	ledgerCore
}

// NewTransferService creates the service booking paired transfer legs.
func NewTransferService(repos portsrepo.RepositoryProvider, audit portssvc.AuditSvc, balance portssvc.BalanceSvc, options ...LedgerOption) portssvc.TransferSvc {
	return &transferService{ledgerCore: newLedgerCore(repos, audit, balance, options...)}
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// conversion resolves the credited amount and rate of a transfer.
func conversion(from, to *domain.Account, req dto.CreateTransferRequest) (toAmount, rate decimal.Decimal, err error) {
	if from.Currency == to.Currency {
		if req.ToAmount != nil && !req.ToAmount.Equal(req.Amount) {
			return decimal.Zero, decimal.Zero, apperrors.NewValidationError("toAmount must equal amount for a same-currency transfer")
		}
		if req.ExchangeRate != nil && !req.ExchangeRate.Equal(decimal.NewFromInt(1)) {
			return decimal.Zero, decimal.Zero, apperrors.NewValidationError("exchangeRate must be 1 for a same-currency transfer")
		}
		return req.Amount, decimal.NewFromInt(1), nil
	}

	switch {
	case req.ToAmount != nil && req.ExchangeRate != nil:
		return decimal.Zero, decimal.Zero, apperrors.NewValidationError("give either toAmount or exchangeRate for a %s to %s transfer, not both", from.Currency, to.Currency)
	case req.ToAmount != nil:
		toAmount = domain.RoundMoney(*req.ToAmount)
		rate = toAmount.DivRound(req.Amount, exchangeRatePrecision)
	case req.ExchangeRate != nil:
		rate = *req.ExchangeRate
		toAmount = domain.RoundMoney(req.Amount.Mul(rate))
	default:
		return decimal.Zero, decimal.Zero, apperrors.NewValidationError("toAmount or exchangeRate is required for a %s to %s transfer", from.Currency, to.Currency)
	}
	if !toAmount.IsPositive() {
		return decimal.Zero, decimal.Zero, apperrors.NewValidationError("converted amount rounds to zero")
	}
	return toAmount, rate, nil
}

func (s *transferService) CreateTransfer(ctx context.Context, orgID string, req dto.CreateTransferRequest, userID string) (*domain.TransferResult, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, apperrors.NewValidationError("cannot transfer to the same account")
	}
	if err := checkAmountScale("amount", req.Amount); err != nil {
		return nil, err
	}
	if req.ExchangeRate != nil && !req.ExchangeRate.Equal(req.ExchangeRate.Round(exchangeRatePrecision)) {
		return nil, apperrors.NewValidationError("exchangeRate has more than %d decimal places", exchangeRatePrecision)
	}

	from, err := s.writableAccount(ctx, orgID, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.writableAccount(ctx, orgID, req.ToAccountID)
	if err != nil {
		return nil, err
	}
	for _, acc := range []*domain.Account{from, to} {
		if _, err := s.authorizeCashbook(ctx, orgID, acc.CashbookID, userID, permWrite); err != nil {
			return nil, err
		}
	}

	date := s.now()
	if req.TransactionDate != nil {
		date = *req.TransactionDate
	}
	for _, acc := range []*domain.Account{from, to} {
		cb, err := s.cashbook(ctx, orgID, acc.CashbookID)
		if err != nil {
			return nil, err
		}
		if err := checkLockDate(cb, date); err != nil {
			return nil, err
		}
	}

	toAmount, rate, err := conversion(from, to, req)
	if err != nil {
		return nil, err
	}

	var result domain.TransferResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		from, to, err := s.lockTransferAccounts(ctx, orgID, req.FromAccountID, req.ToAccountID, date)
		if err != nil {
			return err
		}
		root, err := s.vouchers.next(ctx, orgID, domain.VoucherSequenceTransfer)
		if err != nil {
			return err
		}
		groupID := uuid.NewString()
		now := s.now()
		leg := func(acc *domain.Account, typ domain.EntryType, amount decimal.Decimal, suffix string) domain.LedgerEntry {
			return domain.LedgerEntry{
				EntryID:         uuid.NewString(),
				OrganizationID:  orgID,
				CashbookID:      acc.CashbookID,
				AccountID:       acc.AccountID,
				CreatedByID:     userID,
				Type:            typ,
				Category:        domain.EntryCategoryNormal,
				Amount:          amount,
				Currency:        acc.Currency,
				Description:     req.Description,
				Reference:       req.Reference,
				TransactionDate: date,
				Status:          domain.EntryStatusActive,
				VoucherNumber:   root + suffix,
				TransferGroupID: &groupID,
				ExchangeRate:    &rate,
				Attachments:     []domain.Attachment{},
				CreatedAt:       now,
				UpdatedAt:       now,
			}
		}
		debit := leg(from, domain.EntryTypeOutflow, req.Amount, domain.VoucherSuffixDebit)
		credit := leg(to, domain.EntryTypeInflow, toAmount, domain.VoucherSuffixCredit)

		if err := s.entryRepo.SaveEntry(ctx, debit); err != nil {
			return err
		}
		if err := s.entryRepo.SaveEntry(ctx, credit); err != nil {
			return err
		}
		result = domain.TransferResult{TransferGroupID: groupID, Debit: debit, Credit: credit}
		return s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityTransfer,
			EntityID:       groupID,
			Action:         domain.AuditActionTransfer,
			NewData:        result,
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transfer",
			slog.String("from_account_id", from.AccountID), slog.String("to_account_id", to.AccountID))
		return nil, fmt.Errorf("create transfer: %w", err)
	}

	s.balance.Invalidate(ctx, orgID, from.AccountID, to.AccountID)
	metrics.EntriesCreated.WithLabelValues(string(domain.EntryTypeOutflow), string(domain.EntryCategoryNormal)).Inc()
	metrics.EntriesCreated.WithLabelValues(string(domain.EntryTypeInflow), string(domain.EntryCategoryNormal)).Inc()
	s.LogInfo(ctx, "Transfer booked",
		slog.String("transfer_group_id", result.TransferGroupID),
		slog.String("debit_voucher", result.Debit.VoucherNumber),
		slog.String("credit_voucher", result.Credit.VoucherNumber))
	return &result, nil
}

// lockTransferAccounts re-reads both legs' accounts and cashbooks under share
// locks, in id order so two opposite transfers cannot deadlock.
func (s *transferService) lockTransferAccounts(ctx context.Context, orgID, fromID, toID string, date time.Time) (from, to *domain.Account, err error) {
	locked := make(map[string]*domain.Account, 2)
	for _, id := range sortedPair(fromID, toID) {
		acc, err := s.lockWritableAccount(ctx, orgID, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = acc
	}
	seen := make(map[string]bool, 2)
	for _, id := range sortedPair(locked[fromID].CashbookID, locked[toID].CashbookID) {
		if seen[id] {
			continue
		}
		seen[id] = true
		cb, err := s.lockCashbook(ctx, orgID, id)
		if err != nil {
			return nil, nil, err
		}
		if err := checkLockDate(cb, date); err != nil {
			return nil, nil, err
		}
	}
	return locked[fromID], locked[toID], nil
}

func sortedPair(a, b string) [2]string {
	if b < a {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}
