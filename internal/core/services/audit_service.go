package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/google/uuid"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates the audit log service.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, orgRepo portsrepo.OrganizationReader, cashbookRepo portsrepo.CashbookReader) portssvc.AuditSvc {
	return &auditService{
		BaseService: newBaseService(orgRepo, cashbookRepo),
		auditRepo:   auditRepo,
	}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode audit snapshot: %w", err)
	}
	return b, nil
}

func (s *auditService) Record(ctx context.Context, rec portssvc.AuditRecord) error {
	prev, err := snapshot(rec.PreviousData)
	if err != nil {
		return err
	}
	next, err := snapshot(rec.NewData)
	if err != nil {
		return err
	}
	log := domain.AuditLog{
		AuditLogID:     uuid.NewString(),
		OrganizationID: rec.OrganizationID,
		UserID:         rec.UserID,
		EntryID:        rec.EntryID,
		EntityType:     rec.EntityType,
		EntityID:       rec.EntityID,
		Action:         rec.Action,
		PreviousData:   prev,
		NewData:        next,
		Timestamp:      s.now(),
	}
	if err := s.auditRepo.SaveAuditLog(ctx, log); err != nil {
		return fmt.Errorf("record %s %s: %w", rec.EntityType, rec.Action, err)
	}
	return nil
}

func (s *auditService) ListAuditLogs(ctx context.Context, orgID string, params dto.ListAuditLogsParams, userID string) (*dto.ListAuditLogsResponse, error) {
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	limit = min(limit, maxAuditPageSize)

	logs, next, err := s.auditRepo.ListAuditLogs(ctx, orgID, domain.AuditFilter{
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		EntryID:    params.EntryID,
		UserID:     params.UserID,
		Action:     params.Action,
		Limit:      limit,
		NextToken:  params.NextToken,
	})
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return &dto.ListAuditLogsResponse{Data: logs, NextToken: next}, nil
}
