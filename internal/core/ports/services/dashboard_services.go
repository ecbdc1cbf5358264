package services

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
)

// DashboardSvc summarizes the ledger for a caller.
type DashboardSvc interface {
	GetDashboard(ctx context.Context, orgID string, params dto.DashboardParams, userID string) (*domain.Dashboard, error)
}
