package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountService struct {
	BaseService
	tx          portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	audit       portssvc.AuditSvc
	balance     portssvc.BalanceSvc
}

// NewAccountService creates a new AccountService.
func NewAccountService(repos portsrepo.RepositoryProvider, audit portssvc.AuditSvc, balance portssvc.BalanceSvc) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(repos.OrganizationRepo, repos.CashbookRepo),
		tx:          repos.TxManager,
		accountRepo: repos.AccountRepo,
		audit:       audit,
		balance:     balance,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, orgID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}
	cb, err := s.cashbookRepo.FindCashbookByID(ctx, orgID, req.CashbookID)
	if err != nil {
		return nil, fmt.Errorf("load cashbook: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = cb.Currency
	}
	now := s.now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: orgID,
		CashbookID:     cb.CashbookID,
		Name:           strings.TrimSpace(req.Name),
		AccountType:    req.AccountType,
		Currency:       currency,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return err
		}
		return s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityAccount,
			EntityID:       account.AccountID,
			Action:         domain.AuditActionCreate,
			NewData:        account,
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("cashbook_id", cb.CashbookID))
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &account, nil
}

func (s *accountService) readable(ctx context.Context, orgID, accountID, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, orgID, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if _, err := s.authorizeCashbook(ctx, orgID, account.CashbookID, userID, permRead); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, orgID, accountID, userID string) (*domain.Account, error) {
	return s.readable(ctx, orgID, accountID, userID)
}

func (s *accountService) ListAccounts(ctx context.Context, orgID string, params dto.ListAccountsParams, userID string) ([]domain.Account, error) {
	scope, err := s.Scope(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, orgID, domain.AccountFilter{
		CashbookID:      params.CashbookID,
		Scope:           scope,
		IncludeArchived: params.IncludeArchived,
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) GetAccountBalance(ctx context.Context, orgID, accountID, userID string) (decimal.Decimal, error) {
	if _, err := s.readable(ctx, orgID, accountID, userID); err != nil {
		return decimal.Zero, err
	}
	return s.balance.GetBalance(ctx, orgID, accountID)
}

func (s *accountService) GetOpeningBalance(ctx context.Context, orgID, accountID string, asOf time.Time, userID string) (decimal.Decimal, error) {
	if _, err := s.readable(ctx, orgID, accountID, userID); err != nil {
		return decimal.Zero, err
	}
	return s.balance.OpeningBalance(ctx, orgID, accountID, asOf)
}

func (s *accountService) mutate(ctx context.Context, orgID, accountID, userID string, action domain.AuditAction, apply func(*domain.Account) error) (*domain.Account, error) {
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}
	var updated domain.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(ctx, orgID, accountID)
		if err != nil {
			return err
		}
		before := *account
		if err := apply(account); err != nil {
			return err
		}
		account.LastUpdatedAt = s.now()
		account.LastUpdatedBy = userID
		if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityAccount,
			EntityID:       account.AccountID,
			Action:         action,
			PreviousData:   before,
			NewData:        account,
		}); err != nil {
			return err
		}
		updated = *account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, orgID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	account, err := s.mutate(ctx, orgID, accountID, userID, domain.AuditActionUpdate, func(a *domain.Account) error {
		if req.Name != nil {
			a.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			a.Description = *req.Description
		}
		if req.AccountType != nil {
			a.AccountType = *req.AccountType
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

func (s *accountService) ArchiveAccount(ctx context.Context, orgID, accountID, userID string) (*domain.Account, error) {
	account, err := s.mutate(ctx, orgID, accountID, userID, domain.AuditActionArchive, func(a *domain.Account) error {
		if a.IsArchived {
			return apperrors.NewConflictError("account %s is already archived", a.Name)
		}
		a.IsArchived = true
		a.ArchivedAt = ptr(s.now())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive account: %w", err)
	}
	s.LogInfo(ctx, "Account archived", slog.String("account_id", accountID))
	return account, nil
}
