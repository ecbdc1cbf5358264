package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
	"github.com/google/uuid"
)

const reversalPrefix = "REVERSAL: "

type entryService struct {
	ledgerCore
}

// NewEntryService creates the ledger entry service.
func NewEntryService(repos portsrepo.RepositoryProvider, audit portssvc.AuditSvc, balance portssvc.BalanceSvc, options ...LedgerOption) portssvc.EntrySvcFacade {
	return &entryService{ledgerCore: newLedgerCore(repos, audit, balance, options...)}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

func (s *entryService) GetEntry(ctx context.Context, orgID, entryID, userID string) (*domain.LedgerEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, orgID, entryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if _, err := s.authorizeCashbook(ctx, orgID, entry.CashbookID, userID, permRead); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *entryService) CreateEntry(ctx context.Context, orgID string, req dto.CreateEntryRequest, idempotencyKey *string, userID string) (*domain.LedgerEntry, error) {
	logger := s.GetLogger(ctx)
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := checkAmountScale("amount", req.Amount); err != nil {
		return nil, err
	}
	if req.Category == "" {
		req.Category = domain.EntryCategoryNormal
	}
	if idempotencyKey != nil {
		if k := strings.TrimSpace(*idempotencyKey); k != "" {
			idempotencyKey = &k
		} else {
			idempotencyKey = nil
		}
	}

	account, err := s.writableAccount(ctx, orgID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeCashbook(ctx, orgID, account.CashbookID, userID, permWrite); err != nil {
		logger.Warn("Authorization failed for CreateEntry", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}
	cb, err := s.cashbook(ctx, orgID, account.CashbookID)
	if err != nil {
		return nil, err
	}
	if err := checkEntryPolicy(cb, req.Category, req.TransactionDate); err != nil {
		return nil, err
	}
	if err := s.checkContact(ctx, orgID, req.ContactID); err != nil {
		return nil, err
	}

	var (
		entry   *domain.LedgerEntry
		created bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, created = nil, false
		if idempotencyKey != nil {
			existing, err := s.entryRepo.FindEntryByIdempotencyKey(ctx, orgID, *idempotencyKey)
			if err == nil {
				entry = existing
				return nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("look up idempotency key: %w", err)
			}
		}

		account, err := s.lockWritableAccount(ctx, orgID, req.AccountID)
		if err != nil {
			return err
		}
		cb, err := s.lockCashbook(ctx, orgID, account.CashbookID)
		if err != nil {
			return err
		}
		if err := checkEntryPolicy(cb, req.Category, req.TransactionDate); err != nil {
			return err
		}

		voucher, err := s.vouchers.next(ctx, orgID, domain.SequenceForEntryType(req.Type))
		if err != nil {
			return err
		}
		now := s.now()
		e := domain.LedgerEntry{
			EntryID:         uuid.NewString(),
			OrganizationID:  orgID,
			CashbookID:      account.CashbookID,
			AccountID:       account.AccountID,
			CreatedByID:     userID,
			ContactID:       req.ContactID,
			Type:            req.Type,
			Category:        req.Category,
			Amount:          req.Amount,
			Currency:        account.Currency,
			Description:     req.Description,
			Reference:       req.Reference,
			Reason:          req.Reason,
			TransactionDate: req.TransactionDate,
			Status:          domain.EntryStatusActive,
			VoucherNumber:   voucher,
			IdempotencyKey:  idempotencyKey,
			Attachments:     make([]domain.Attachment, 0, len(req.Attachments)),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		for _, a := range req.Attachments {
			e.Attachments = append(e.Attachments, domain.Attachment{
				AttachmentID: uuid.NewString(),
				EntryID:      e.EntryID,
				FileKey:      a.FileKey,
				FileName:     a.FileName,
				ContentType:  a.ContentType,
				Size:         a.Size,
				CreatedAt:    now,
			})
		}
		if err := s.entryRepo.SaveEntry(ctx, e); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntryID:        &e.EntryID,
			EntityType:     domain.AuditEntityEntry,
			EntityID:       e.EntryID,
			Action:         domain.AuditActionCreate,
			NewData:        e,
		}); err != nil {
			return err
		}
		entry, created = &e, true
		return nil
	})
	if err != nil {
		// A concurrent request with the same key won the insert; hand back its entry.
		if idempotencyKey != nil && errors.Is(err, apperrors.ErrDuplicate) {
			existing, findErr := s.entryRepo.FindEntryByIdempotencyKey(ctx, orgID, *idempotencyKey)
			if findErr == nil {
				metrics.IdempotentReplays.Inc()
				return existing, nil
			}
		}
		s.LogError(ctx, err, "Failed to create entry", slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("create entry: %w", err)
	}
	if !created {
		metrics.IdempotentReplays.Inc()
		s.LogDebug(ctx, "Idempotent replay of entry", slog.String("entry_id", entry.EntryID))
		return entry, nil
	}

	s.balance.Invalidate(ctx, orgID, entry.AccountID)
	metrics.EntriesCreated.WithLabelValues(string(entry.Type), string(entry.Category)).Inc()
	s.LogInfo(ctx, "Ledger entry created",
		slog.String("entry_id", entry.EntryID), slog.String("voucher", entry.VoucherNumber))

	if entry.Category != domain.EntryCategoryNormal {
		s.notify.send(ctx, s.notify.orgUsers(ctx, orgID, userID, domain.OrgRoleOwner), domain.Notification{
			OrganizationID: orgID,
			Type:           domain.NotificationNonStandardEntry,
			Title:          fmt.Sprintf("%s entry recorded", entry.Category),
			Message: fmt.Sprintf("%s %s %s on %s was recorded as %s",
				entry.VoucherNumber, entry.Amount.StringFixed(domain.MoneyScale), entry.Currency,
				entry.TransactionDate.Format("2006-01-02"), entry.Category),
			Data: map[string]any{"entryID": entry.EntryID, "cashbookID": entry.CashbookID, "createdBy": userID},
		})
	}
	return entry, nil
}

func (s *entryService) UpdateEntry(ctx context.Context, orgID, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.LedgerEntry, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.Description == nil && req.Reference == nil && req.Amount == nil && req.TransactionDate == nil {
		return nil, apperrors.NewValidationError("no editable field supplied")
	}
	if req.Amount != nil {
		if err := checkAmountScale("amount", *req.Amount); err != nil {
			return nil, err
		}
	}

	var (
		updated       domain.LedgerEntry
		amountChanged bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.lockEntryForWrite(ctx, orgID, entryID, userID)
		if err != nil {
			return err
		}
		if entry.Status != domain.EntryStatusActive {
			return apperrors.NewValidationError("entry is %s; only ACTIVE entries can be edited", entry.Status)
		}
		if req.Amount != nil && entry.TransferGroupID != nil && !req.Amount.Equal(entry.Amount) {
			return apperrors.NewValidationError("the amount of a transfer leg cannot be edited; reverse the transfer instead")
		}
		cb, err := s.lockCashbook(ctx, orgID, entry.CashbookID)
		if err != nil {
			return err
		}
		if err := checkLockDate(cb, entry.TransactionDate); err != nil {
			return err
		}
		if req.TransactionDate != nil {
			if err := checkLockDate(cb, *req.TransactionDate); err != nil {
				return err
			}
		}

		before := *entry
		after := *entry
		if req.Description != nil {
			after.Description = *req.Description
		}
		if req.Reference != nil {
			after.Reference = *req.Reference
		}
		if req.Amount != nil {
			after.Amount = *req.Amount
		}
		if req.TransactionDate != nil {
			after.TransactionDate = *req.TransactionDate
		}
		now := s.now()
		after.IsEdited = true
		after.EditReason = req.EditReason
		after.LastEditedByID = &userID
		after.LastEditedAt = &now
		after.UpdatedAt = now

		if err := s.entryRepo.UpdateEntry(ctx, after); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntryID:        &after.EntryID,
			EntityType:     domain.AuditEntityEntry,
			EntityID:       after.EntryID,
			Action:         domain.AuditActionUpdate,
			PreviousData:   before,
			NewData:        after,
		}); err != nil {
			return err
		}
		updated = after
		amountChanged = !before.Amount.Equal(after.Amount)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	if amountChanged {
		s.balance.Invalidate(ctx, orgID, updated.AccountID)
	}
	metrics.EntryMutations.WithLabelValues("update").Inc()
	return &updated, nil
}

func (s *entryService) ReverseEntry(ctx context.Context, orgID, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.LedgerEntry, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var reversal domain.LedgerEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		original, err := s.lockEntryForWrite(ctx, orgID, entryID, userID)
		if err != nil {
			return err
		}
		switch {
		case original.ReversedByID != nil || original.Status == domain.EntryStatusReversed:
			return apperrors.NewConflictError("entry %s is already reversed", original.VoucherNumber)
		case original.ReversalOfID != nil:
			return apperrors.NewConflictError("entry %s is a reversal and cannot be reversed", original.VoucherNumber)
		case !original.IsReversible():
			return apperrors.NewValidationError("entry is %s; only ACTIVE entries can be reversed", original.Status)
		}

		reversedType := original.Type.Opposite()
		voucher, err := s.vouchers.next(ctx, orgID, domain.SequenceForEntryType(reversedType))
		if err != nil {
			return err
		}
		now := s.now()
		reference := original.Reference
		if req.Reference != nil {
			reference = *req.Reference
		}
		rev := domain.LedgerEntry{
			EntryID:         uuid.NewString(),
			OrganizationID:  orgID,
			CashbookID:      original.CashbookID,
			AccountID:       original.AccountID,
			CreatedByID:     userID,
			ContactID:       original.ContactID,
			Type:            reversedType,
			Category:        domain.EntryCategoryNormal,
			Amount:          original.Amount,
			Currency:        original.Currency,
			Description:     reversalPrefix + original.Description,
			Reference:       reference,
			Reason:          &req.Reason,
			TransactionDate: now,
			Status:          domain.EntryStatusActive,
			VoucherNumber:   voucher,
			ReversalOfID:    &original.EntryID,
			Attachments:     []domain.Attachment{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		before := *original
		original.Status = domain.EntryStatusReversed
		original.ReversedByID = &rev.EntryID
		original.UpdatedAt = now

		if err := s.entryRepo.SaveEntry(ctx, rev); err != nil {
			return err
		}
		if err := s.entryRepo.UpdateEntry(ctx, *original); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntryID:        &original.EntryID,
			EntityType:     domain.AuditEntityEntry,
			EntityID:       original.EntryID,
			Action:         domain.AuditActionReverse,
			PreviousData:   before,
			NewData:        map[string]any{"original": original, "reversal": rev},
		}); err != nil {
			return err
		}
		reversal = rev
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reverse entry: %w", err)
	}

	s.balance.Invalidate(ctx, orgID, reversal.AccountID)
	metrics.EntryMutations.WithLabelValues("reverse").Inc()
	s.LogInfo(ctx, "Ledger entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	return &reversal, nil
}

func (s *entryService) ToggleReconciliation(ctx context.Context, orgID, entryID, userID string) (*domain.LedgerEntry, error) {
	var updated domain.LedgerEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.lockEntryForWrite(ctx, orgID, entryID, userID)
		if err != nil {
			return err
		}
		before := *entry
		now := s.now()
		action := domain.AuditActionReconcile
		if entry.IsReconciled {
			entry.IsReconciled = false
			entry.ReconciledAt = nil
			action = domain.AuditActionUnreconcile
		} else {
			entry.IsReconciled = true
			entry.ReconciledAt = &now
		}
		entry.UpdatedAt = now

		if err := s.entryRepo.UpdateEntry(ctx, *entry); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntryID:        &entry.EntryID,
			EntityType:     domain.AuditEntityEntry,
			EntityID:       entry.EntryID,
			Action:         action,
			PreviousData:   map[string]any{"isReconciled": before.IsReconciled, "reconciledAt": before.ReconciledAt},
			NewData:        map[string]any{"isReconciled": entry.IsReconciled, "reconciledAt": entry.ReconciledAt},
		}); err != nil {
			return err
		}
		updated = *entry
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toggle reconciliation: %w", err)
	}
	metrics.EntryMutations.WithLabelValues(strings.ToLower(string(domain.AuditActionReconcile))).Inc()
	return &updated, nil
}

func (s *entryService) ListEntries(ctx context.Context, orgID string, params dto.ListEntriesParams, userID string) (*domain.EntryPage, error) {
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	scope, err := s.Scope(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if params.CashbookID != nil {
		if _, err := s.authorizeCashbook(ctx, orgID, *params.CashbookID, userID, permRead); err != nil {
			return nil, err
		}
	}
	var account *domain.Account
	if params.AccountID != nil {
		account, err = s.accountRepo.FindAccountByID(ctx, orgID, *params.AccountID)
		if err != nil {
			return nil, fmt.Errorf("load account: %w", err)
		}
		if _, err := s.authorizeCashbook(ctx, orgID, account.CashbookID, userID, permRead); err != nil {
			return nil, err
		}
	}

	page, limit := dto.NormalizePage(params.Page, params.Limit)
	filter := domain.EntryFilter{
		Scope:           scope,
		CashbookID:      params.CashbookID,
		AccountID:       params.AccountID,
		ContactID:       params.ContactID,
		Type:            params.Type,
		Category:        params.Category,
		Statuses:        params.Statuses,
		TransferGroupID: params.TransferGroupID,
		StartDate:       params.StartDate,
		Search:          params.Search,
		IsReconciled:    params.IsReconciled,
		Page:            page,
		Limit:           limit,
	}
	if params.EndDate != nil {
		filter.EndDate = ptr(endOfDay(*params.EndDate))
	}

	entries, total, err := s.entryRepo.ListEntries(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	result := &domain.EntryPage{Data: entries, Total: total, Page: page, Limit: limit}
	if account == nil {
		return result, nil
	}

	lc := &domain.LedgerContext{
		AccountID:    account.AccountID,
		Currency:     account.Currency,
		PageMovement: domain.FoldEntries(entries),
	}
	if lc.CurrentBalance, err = s.balance.GetBalance(ctx, orgID, account.AccountID); err != nil {
		return nil, err
	}
	if filter.StartDate != nil {
		opening, err := s.balance.OpeningBalance(ctx, orgID, account.AccountID, *filter.StartDate)
		if err != nil {
			return nil, err
		}
		lc.OpeningBalance = &opening
	}
	if filter.EndDate != nil {
		closing, err := s.balance.ClosingBalance(ctx, orgID, account.AccountID, *filter.EndDate)
		if err != nil {
			return nil, err
		}
		lc.ClosingBalance = &closing
	}
	result.LedgerContext = lc
	return result, nil
}
