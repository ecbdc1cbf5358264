package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/core/ports/capabilities"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
	"github.com/google/uuid"
)

// dispatcher fans notifications out after a commit. Failures are logged and counted, never returned.
type dispatcher struct {
	BaseService
	notifier capabilities.Notifier
}

func (d *dispatcher) send(ctx context.Context, recipients []string, n domain.Notification) {
	if d.notifier == nil {
		return
	}
	slices.Sort(recipients)
	for _, userID := range slices.Compact(recipients) {
		n.NotificationID = uuid.NewString()
		n.UserID = userID
		n.CreatedAt = d.now()
		if err := d.notifier.Notify(ctx, n); err != nil {
			metrics.NotificationFailures.Inc()
			d.LogError(ctx, err, "Notification dispatch failed",
				slog.String("type", string(n.Type)), slog.String("user_id", userID))
		}
	}
}

// orgUsers lists org members with any of the roles, minus the excluded user.
func (d *dispatcher) orgUsers(ctx context.Context, orgID, exclude string, roles ...domain.OrgRole) []string {
	ids, err := d.orgRepo.ListOrgUserIDsByRole(ctx, orgID, roles)
	if err != nil {
		d.LogError(ctx, err, "Failed to resolve notification recipients", slog.String("org_id", orgID))
		return nil
	}
	return slices.DeleteFunc(ids, func(id string) bool { return id == exclude })
}

// approvers lists cashbook APPROVER members plus org owners and admins, minus the excluded user.
func (d *dispatcher) approvers(ctx context.Context, orgID, cashbookID, exclude string) []string {
	ids := d.orgUsers(ctx, orgID, exclude, domain.OrgRoleOwner, domain.OrgRoleAdmin)
	members, err := d.cashbookRepo.ListCashbookMembers(ctx, cashbookID)
	if err != nil {
		d.LogError(ctx, err, "Failed to resolve cashbook approvers", slog.String("cashbook_id", cashbookID))
		return ids
	}
	for _, m := range members {
		if m.Role.CanApprove() && m.UserID != exclude {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}
