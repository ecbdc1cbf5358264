package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
)

// permission is what a caller needs on a cashbook.
type permission int

const (
	permRead permission = iota
	permWrite
	permApprove
)

// access describes how a caller reached a cashbook.
type access struct {
	orgRole      domain.OrgRole
	cashbookRole domain.CashbookRole // empty when the org role bypasses membership
}

// BaseService provides common functionality for all services
type BaseService struct {
	orgRepo      portsrepo.OrganizationReader
	cashbookRepo portsrepo.CashbookReader
	now          func() time.Time
}

func newBaseService(orgRepo portsrepo.OrganizationReader, cashbookRepo portsrepo.CashbookReader) BaseService {
	return BaseService{
		orgRepo:      orgRepo,
		cashbookRepo: cashbookRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// orgRole resolves the caller's organization role. Non-members are Forbidden.
func (s *BaseService) orgRole(ctx context.Context, orgID, userID string) (domain.OrgRole, error) {
	role, err := s.orgRepo.FindOrgRole(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewForbiddenError("user %s is not a member of organization %s", userID, orgID)
		}
		return "", fmt.Errorf("resolve organization role: %w", err)
	}
	return role, nil
}

// RequireOrgAdmin allows organization owners and admins only.
func (s *BaseService) RequireOrgAdmin(ctx context.Context, orgID, userID string) (domain.OrgRole, error) {
	role, err := s.orgRole(ctx, orgID, userID)
	if err != nil {
		return "", err
	}
	if !role.BypassesCashbookMembership() {
		s.LogDebug(ctx, "Organization admin role required",
			slog.String("user_id", userID), slog.String("org_id", orgID), slog.String("role", string(role)))
		return "", apperrors.NewForbiddenError("organization owner or admin role required")
	}
	return role, nil
}

// Scope returns the cashbooks the caller may read.
func (s *BaseService) Scope(ctx context.Context, orgID, userID string) (domain.CashbookScope, error) {
	role, err := s.orgRole(ctx, orgID, userID)
	if err != nil {
		return domain.CashbookScope{}, err
	}
	if role.BypassesCashbookMembership() {
		return domain.AllCashbooks(), nil
	}
	ids, err := s.cashbookRepo.ListCashbookIDsForMember(ctx, orgID, userID)
	if err != nil {
		return domain.CashbookScope{}, fmt.Errorf("list member cashbooks: %w", err)
	}
	return domain.OnlyCashbooks(ids...), nil
}

// authorizeCashbook checks the caller's org role and, unless it bypasses
// membership, their cashbook role against the needed permission.
func (s *BaseService) authorizeCashbook(ctx context.Context, orgID, cashbookID, userID string, need permission) (access, error) {
	role, err := s.orgRole(ctx, orgID, userID)
	if err != nil {
		return access{}, err
	}
	if role.BypassesCashbookMembership() {
		return access{orgRole: role}, nil
	}

	member, err := s.cashbookRepo.FindCashbookMember(ctx, cashbookID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return access{}, apperrors.NewForbiddenError("user %s is not a member of cashbook %s", userID, cashbookID)
		}
		return access{}, fmt.Errorf("resolve cashbook role: %w", err)
	}

	a := access{orgRole: role, cashbookRole: member.Role}
	switch need {
	case permRead:
	case permWrite:
		if !member.Role.CanWrite() {
			return access{}, apperrors.NewForbiddenError("cashbook role %s cannot modify entries", member.Role)
		}
	case permApprove:
		if !member.Role.CanApprove() {
			return access{}, apperrors.NewForbiddenError("cashbook role %s cannot resolve delete requests", member.Role)
		}
	}
	return a, nil
}
