package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
	"github.com/google/uuid"
)

type deleteApprovalService struct {
	ledgerCore
}

// NewDeleteApprovalService creates the two-party delete workflow.
func NewDeleteApprovalService(repos portsrepo.RepositoryProvider, audit portssvc.AuditSvc, balance portssvc.BalanceSvc, options ...LedgerOption) portssvc.DeleteApprovalSvc {
	return &deleteApprovalService{ledgerCore: newLedgerCore(repos, audit, balance, options...)}
}

var _ portssvc.DeleteApprovalSvc = (*deleteApprovalService)(nil)

// transitionError maps state machine refusals onto API errors.
func transitionError(err error) error {
	var resolved *domain.ErrAlreadyResolved
	if errors.As(err, &resolved) {
		return apperrors.NewConflictError("%s", resolved.Error())
	}
	var illegal *domain.ErrIllegalTransition
	if errors.As(err, &illegal) {
		if illegal.From == string(domain.EntryStatusPendingDeleteApproval) {
			return apperrors.NewConflictError("entry already has a pending delete request")
		}
		return apperrors.NewValidationError("%s", illegal.Error())
	}
	return err
}

func (s *deleteApprovalService) RequestDelete(ctx context.Context, orgID, entryID string, req dto.RequestDeleteRequest, userID string) (*domain.DeleteRequest, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var request domain.DeleteRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.lockEntryForWrite(ctx, orgID, entryID, userID)
		if err != nil {
			return err
		}
		next, err := entry.Status.RequestDeletion()
		if err != nil {
			return transitionError(err)
		}

		now := s.now()
		r := domain.DeleteRequest{
			RequestID:      uuid.NewString(),
			OrganizationID: orgID,
			CashbookID:     entry.CashbookID,
			EntryID:        entry.EntryID,
			RequestedByID:  userID,
			Reason:         req.Reason,
			Status:         domain.DeleteRequestPending,
			CreatedAt:      now,
		}
		if err := s.deleteRequestRepo.SaveDeleteRequest(ctx, r); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return apperrors.NewConflictError("entry already has a pending delete request")
			}
			return err
		}

		before := *entry
		entry.Status = next
		entry.DeleteRequestedByID = &userID
		entry.DeletedReason = &req.Reason
		entry.UpdatedAt = now
		if err := s.entryRepo.UpdateEntry(ctx, *entry); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntryID:        &entry.EntryID,
			EntityType:     domain.AuditEntityDeleteRequest,
			EntityID:       r.RequestID,
			Action:         domain.AuditActionRequestDelete,
			PreviousData:   before,
			NewData:        r,
		}); err != nil {
			return err
		}
		request = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("request delete: %w", err)
	}

	metrics.EntryMutations.WithLabelValues("request_delete").Inc()
	s.notify.send(ctx, s.notify.approvers(ctx, orgID, request.CashbookID, userID), domain.Notification{
		OrganizationID: orgID,
		Type:           domain.NotificationDeleteRequested,
		Title:          "Delete approval requested",
		Message:        fmt.Sprintf("A ledger entry is awaiting delete approval: %s", request.Reason),
		Data:           map[string]any{"requestID": request.RequestID, "entryID": request.EntryID, "cashbookID": request.CashbookID},
	})
	return &request, nil
}

// resolve runs an approve or reject decision. Locks are taken request first, then entry.
func (s *deleteApprovalService) resolve(ctx context.Context, orgID, requestID, userID string, decision domain.DeleteDecision, rejectionReason string) (*domain.DeleteRequest, *domain.LedgerEntry, error) {
	var (
		request domain.DeleteRequest
		entry   domain.LedgerEntry
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.deleteRequestRepo.LockDeleteRequest(ctx, orgID, requestID)
		if err != nil {
			return fmt.Errorf("lock delete request: %w", err)
		}
		acc, err := s.authorizeCashbook(ctx, orgID, r.CashbookID, userID, permApprove)
		if err != nil {
			return err
		}
		if decision == domain.DeleteDecisionApprove && r.RequestedByID == userID && acc.orgRole != domain.OrgRoleOwner {
			return apperrors.NewForbiddenError("a delete request cannot be approved by its requester")
		}
		nextRequest, err := r.Status.Resolve(decision)
		if err != nil {
			return transitionError(err)
		}

		e, err := s.entryRepo.LockEntry(ctx, orgID, r.EntryID)
		if err != nil {
			return fmt.Errorf("lock entry: %w", err)
		}
		nextEntry, err := e.Status.ResolveDeletion(decision)
		if err != nil {
			return apperrors.NewConflictError("%s", err.Error())
		}

		now := s.now()
		before := *r
		r.Status = nextRequest
		r.ResolvedAt = &now
		e.Status = nextEntry
		e.UpdatedAt = now
		action := domain.AuditActionApproveDelete
		switch decision {
		case domain.DeleteDecisionApprove:
			r.ApprovedByID = &userID
			e.ApprovedByID = &userID
			e.ApprovedAt = &now
		case domain.DeleteDecisionReject:
			r.RejectedByID = &userID
			r.RejectionReason = &rejectionReason
			e.DeleteRequestedByID = nil
			e.DeletedReason = nil
			action = domain.AuditActionRejectDelete
		}

		if err := s.deleteRequestRepo.UpdateDeleteRequest(ctx, *r); err != nil {
			return err
		}
		if err := s.entryRepo.UpdateEntry(ctx, *e); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntryID:        &e.EntryID,
			EntityType:     domain.AuditEntityDeleteRequest,
			EntityID:       r.RequestID,
			Action:         action,
			PreviousData:   before,
			NewData:        r,
		}); err != nil {
			return err
		}
		request, entry = *r, *e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &request, &entry, nil
}

func (s *deleteApprovalService) notifyRequester(ctx context.Context, request *domain.DeleteRequest, userID string) {
	s.notify.send(ctx, []string{request.RequestedByID}, domain.Notification{
		OrganizationID: request.OrganizationID,
		Type:           domain.NotificationDeleteRequestResolved,
		Title:          fmt.Sprintf("Delete request %s", request.Status),
		Message:        fmt.Sprintf("Your request to delete a ledger entry was %s", request.Status),
		Data:           map[string]any{"requestID": request.RequestID, "entryID": request.EntryID, "resolvedBy": userID},
	})
}

func (s *deleteApprovalService) ApproveDelete(ctx context.Context, orgID, requestID, userID string) (*domain.DeleteRequest, error) {
	request, entry, err := s.resolve(ctx, orgID, requestID, userID, domain.DeleteDecisionApprove, "")
	if err != nil {
		return nil, fmt.Errorf("approve delete: %w", err)
	}
	s.balance.Invalidate(ctx, orgID, entry.AccountID)
	metrics.EntryMutations.WithLabelValues("approve_delete").Inc()
	s.LogInfo(ctx, "Ledger entry deleted", slog.String("entry_id", entry.EntryID), slog.String("request_id", requestID))
	s.notifyRequester(ctx, request, userID)
	return request, nil
}

func (s *deleteApprovalService) RejectDelete(ctx context.Context, orgID, requestID string, req dto.RejectDeleteRequest, userID string) (*domain.DeleteRequest, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	request, _, err := s.resolve(ctx, orgID, requestID, userID, domain.DeleteDecisionReject, req.Reason)
	if err != nil {
		return nil, fmt.Errorf("reject delete: %w", err)
	}
	metrics.EntryMutations.WithLabelValues("reject_delete").Inc()
	s.notifyRequester(ctx, request, userID)
	return request, nil
}

func (s *deleteApprovalService) ListDeleteRequests(ctx context.Context, orgID string, params dto.ListDeleteRequestsParams, userID string) ([]domain.DeleteRequest, error) {
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	scope, err := s.Scope(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	requests, err := s.deleteRequestRepo.ListDeleteRequests(ctx, orgID, domain.DeleteRequestFilter{Scope: scope, Status: params.Status})
	if err != nil {
		return nil, fmt.Errorf("list delete requests: %w", err)
	}
	return requests, nil
}
