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
	"github.com/google/uuid"
)

type cashbookService struct {
	BaseService
	tx          portsrepo.TransactionManager
	cashbooks   portsrepo.CashbookRepositoryFacade
	accountRepo portsrepo.AccountReader
	audit       portssvc.AuditSvc
	balance     portssvc.BalanceSvc
}

// NewCashbookService creates a new CashbookService.
func NewCashbookService(repos portsrepo.RepositoryProvider, audit portssvc.AuditSvc, balance portssvc.BalanceSvc) portssvc.CashbookSvcFacade {
	return &cashbookService{
		BaseService: newBaseService(repos.OrganizationRepo, repos.CashbookRepo),
		tx:          repos.TxManager,
		cashbooks:   repos.CashbookRepo,
		accountRepo: repos.AccountRepo,
		audit:       audit,
		balance:     balance,
	}
}

var _ portssvc.CashbookSvcFacade = (*cashbookService)(nil)

func (s *cashbookService) CreateCashbook(ctx context.Context, orgID string, req dto.CreateCashbookRequest, userID string) (*domain.Cashbook, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}

	now := s.now()
	cb := domain.Cashbook{
		CashbookID:     uuid.NewString(),
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Currency:       req.Currency,
		AllowBackdated: req.AllowBackdated,
		AllowOmitted:   req.AllowOmitted,
		LockDate:       req.LockDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.cashbooks.SaveCashbook(ctx, cb); err != nil {
			return err
		}
		return s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityCashbook,
			EntityID:       cb.CashbookID,
			Action:         domain.AuditActionCreate,
			NewData:        cb,
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create cashbook", slog.String("name", cb.Name))
		return nil, fmt.Errorf("create cashbook: %w", err)
	}
	s.LogInfo(ctx, "Cashbook created", slog.String("cashbook_id", cb.CashbookID))
	return &cb, nil
}

func (s *cashbookService) GetCashbook(ctx context.Context, orgID, cashbookID, userID string) (*domain.Cashbook, error) {
	if _, err := s.authorizeCashbook(ctx, orgID, cashbookID, userID, permRead); err != nil {
		return nil, err
	}
	cb, err := s.cashbooks.FindCashbookByID(ctx, orgID, cashbookID)
	if err != nil {
		return nil, fmt.Errorf("get cashbook: %w", err)
	}
	return cb, nil
}

func (s *cashbookService) ListCashbooks(ctx context.Context, orgID, userID string) ([]domain.Cashbook, error) {
	scope, err := s.Scope(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.cashbooks.ListCashbooks(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list cashbooks: %w", err)
	}
	visible := make([]domain.Cashbook, 0, len(all))
	for _, cb := range all {
		if scope.Allows(cb.CashbookID) {
			visible = append(visible, cb)
		}
	}
	return visible, nil
}

func (s *cashbookService) UpdateCashbook(ctx context.Context, orgID, cashbookID string, req dto.UpdateCashbookRequest, userID string) (*domain.Cashbook, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}

	var updated domain.Cashbook
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cb, err := s.cashbooks.FindCashbookByID(ctx, orgID, cashbookID)
		if err != nil {
			return err
		}
		before := *cb
		if req.Name != nil {
			cb.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			cb.Description = *req.Description
		}
		if req.AllowBackdated != nil {
			cb.AllowBackdated = *req.AllowBackdated
		}
		if req.AllowOmitted != nil {
			cb.AllowOmitted = *req.AllowOmitted
		}
		switch {
		case req.ClearLockDate:
			cb.LockDate = nil
		case req.LockDate != nil:
			cb.LockDate = req.LockDate
		}
		cb.LastUpdatedAt = s.now()
		cb.LastUpdatedBy = userID

		if err := s.cashbooks.UpdateCashbook(ctx, *cb); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityCashbook,
			EntityID:       cb.CashbookID,
			Action:         domain.AuditActionUpdate,
			PreviousData:   before,
			NewData:        cb,
		}); err != nil {
			return err
		}
		updated = *cb
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update cashbook: %w", err)
	}
	return &updated, nil
}

// DeleteCashbook removes the cashbook and everything under it. Audit logs survive.
func (s *cashbookService) DeleteCashbook(ctx context.Context, orgID, cashbookID, userID string) error {
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return err
	}

	var accountIDs []string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		cb, err := s.cashbooks.FindCashbookByID(ctx, orgID, cashbookID)
		if err != nil {
			return err
		}
		accounts, err := s.accountRepo.ListAccounts(ctx, orgID, domain.AccountFilter{
			CashbookID:      &cashbookID,
			Scope:           domain.AllCashbooks(),
			IncludeArchived: true,
		})
		if err != nil {
			return err
		}
		accountIDs = accountIDs[:0]
		for _, a := range accounts {
			accountIDs = append(accountIDs, a.AccountID)
		}
		if err := s.cashbooks.DeleteCashbook(ctx, orgID, cashbookID); err != nil {
			return err
		}
		return s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityCashbook,
			EntityID:       cashbookID,
			Action:         domain.AuditActionDelete,
			PreviousData:   cb,
		})
	})
	if err != nil {
		return fmt.Errorf("delete cashbook: %w", err)
	}
	s.balance.Invalidate(ctx, orgID, accountIDs...)
	s.LogInfo(ctx, "Cashbook deleted", slog.String("cashbook_id", cashbookID), slog.Int("accounts", len(accountIDs)))
	return nil
}

func (s *cashbookService) ListCashbookMembers(ctx context.Context, orgID, cashbookID, userID string) ([]domain.CashbookMember, error) {
	if _, err := s.authorizeCashbook(ctx, orgID, cashbookID, userID, permRead); err != nil {
		return nil, err
	}
	if _, err := s.cashbooks.FindCashbookByID(ctx, orgID, cashbookID); err != nil {
		return nil, fmt.Errorf("get cashbook: %w", err)
	}
	members, err := s.cashbooks.ListCashbookMembers(ctx, cashbookID)
	if err != nil {
		return nil, fmt.Errorf("list cashbook members: %w", err)
	}
	return members, nil
}

func (s *cashbookService) AddCashbookMember(ctx context.Context, orgID, cashbookID string, req dto.AddCashbookMemberRequest, userID string) (*domain.CashbookMember, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}
	if _, err := s.orgRepo.FindOrgRole(ctx, orgID, req.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("user %s is not a member of the organization", req.UserID)
		}
		return nil, fmt.Errorf("resolve organization role: %w", err)
	}

	var member domain.CashbookMember
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.cashbooks.FindCashbookByID(ctx, orgID, cashbookID); err != nil {
			return err
		}
		var previous any
		now := s.now()
		m := domain.CashbookMember{
			CashbookID: cashbookID,
			UserID:     req.UserID,
			Role:       req.Role,
			AddedBy:    userID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		existing, err := s.cashbooks.FindCashbookMember(ctx, cashbookID, req.UserID)
		switch {
		case err == nil:
			previous = existing
			m.CreatedAt = existing.CreatedAt
			m.AddedBy = existing.AddedBy
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}
		if err := s.cashbooks.UpsertCashbookMember(ctx, m); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityCashbookMember,
			EntityID:       cashbookID + ":" + req.UserID,
			Action:         domain.AuditActionAddMember,
			PreviousData:   previous,
			NewData:        m,
		}); err != nil {
			return err
		}
		member = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add cashbook member: %w", err)
	}
	return &member, nil
}

func (s *cashbookService) RemoveCashbookMember(ctx context.Context, orgID, cashbookID, memberUserID, userID string) error {
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.cashbooks.FindCashbookByID(ctx, orgID, cashbookID); err != nil {
			return err
		}
		existing, err := s.cashbooks.FindCashbookMember(ctx, cashbookID, memberUserID)
		if err != nil {
			return err
		}
		if err := s.cashbooks.DeleteCashbookMember(ctx, cashbookID, memberUserID); err != nil {
			return err
		}
		return s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityCashbookMember,
			EntityID:       cashbookID + ":" + memberUserID,
			Action:         domain.AuditActionRemoveMember,
			PreviousData:   existing,
		})
	})
	if err != nil {
		return fmt.Errorf("remove cashbook member: %w", err)
	}
	return nil
}
