package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/core/ports/capabilities"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
)

// ledgerCore carries the collaborators shared by the services that write entries.
type ledgerCore struct {
	BaseService
	tx                portsrepo.TransactionManager
	entryRepo         portsrepo.EntryRepositoryFacade
	accountRepo       portsrepo.AccountReader
	contactRepo       portsrepo.ContactRepositoryFacade
	deleteRequestRepo portsrepo.DeleteRequestRepositoryFacade
	vouchers          voucherAllocator
	audit             portssvc.AuditSvc
	balance           portssvc.BalanceSvc
	notify            dispatcher
}

// LedgerOption configures the entry, transfer and delete-approval services.
type LedgerOption func(*ledgerCore)

// WithNotifier sets the best-effort notification sink.
func WithNotifier(n capabilities.Notifier) LedgerOption {
	return func(c *ledgerCore) {
		c.notify.notifier = n
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) LedgerOption {
	return func(c *ledgerCore) {
		c.now = now
		c.notify.now = now
	}
}

func newLedgerCore(repos portsrepo.RepositoryProvider, audit portssvc.AuditSvc, balance portssvc.BalanceSvc, options ...LedgerOption) ledgerCore {
	base := newBaseService(repos.OrganizationRepo, repos.CashbookRepo)
	c := ledgerCore{
		BaseService:       base,
		tx:                repos.TxManager,
		entryRepo:         repos.EntryRepo,
		accountRepo:       repos.AccountRepo,
		contactRepo:       repos.ContactRepo,
		deleteRequestRepo: repos.DeleteRequestRepo,
		vouchers:          voucherAllocator{repo: repos.VoucherRepo},
		audit:             audit,
		balance:           balance,
		notify:            dispatcher{BaseService: base},
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// writableAccount loads an account that can still receive entries.
func (c *ledgerCore) writableAccount(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	account, err := c.accountRepo.FindAccountByID(ctx, orgID, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account.IsArchived {
		return nil, apperrors.NewValidationError("account %s is archived", account.Name)
	}
	return account, nil
}

// lockWritableAccount re-reads the account under a share lock inside a unit of
// work so an archive committed after the pre-checks is still seen.
func (c *ledgerCore) lockWritableAccount(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	account, err := c.accountRepo.LockAccountShared(ctx, orgID, accountID)
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	if account.IsArchived {
		return nil, apperrors.NewValidationError("account %s is archived", account.Name)
	}
	return account, nil
}

// lockCashbook reads the cashbook's flags and lock date under a share lock.
func (c *ledgerCore) lockCashbook(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error) {
	cb, err := c.cashbookRepo.LockCashbookShared(ctx, orgID, cashbookID)
	if err != nil {
		return nil, fmt.Errorf("lock cashbook: %w", err)
	}
	return cb, nil
}

func (c *ledgerCore) cashbook(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error) {
	cb, err := c.cashbookRepo.FindCashbookByID(ctx, orgID, cashbookID)
	if err != nil {
		return nil, fmt.Errorf("load cashbook: %w", err)
	}
	return cb, nil
}

// checkContact requires an optional contact to belong to the organization.
func (c *ledgerCore) checkContact(ctx context.Context, orgID string, contactID *string) error {
	if contactID == nil {
		return nil
	}
	if _, err := c.contactRepo.FindContactByID(ctx, orgID, *contactID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("contact %s does not exist in this organization", *contactID)
		}
		return fmt.Errorf("load contact: %w", err)
	}
	return nil
}

// lockEntryForWrite locks the entry and checks the caller may modify it.
func (c *ledgerCore) lockEntryForWrite(ctx context.Context, orgID, entryID, userID string) (*domain.LedgerEntry, error) {
	entry, err := c.entryRepo.LockEntry(ctx, orgID, entryID)
	if err != nil {
		return nil, fmt.Errorf("lock entry: %w", err)
	}
	if _, err := c.authorizeCashbook(ctx, orgID, entry.CashbookID, userID, permWrite); err != nil {
		return nil, err
	}
	return entry, nil
}
