// Package notify provides Notifier implementations.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
	"github.com/google/uuid"
)

// StoreNotifier persists notifications as in-app messages for delivery
// by the notification service.
type StoreNotifier struct {
	repo portsrepo.NotificationRepository
}

// NewStoreNotifier creates a StoreNotifier.
func NewStoreNotifier(repo portsrepo.NotificationRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

// Notify stores the notification.
func (n *StoreNotifier) Notify(ctx context.Context, note domain.Notification) error {
	if note.NotificationID == "" {
		note.NotificationID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	if err := n.repo.SaveNotification(ctx, note); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Notification stored",
		slog.String("notification_id", note.NotificationID),
		slog.String("user_id", note.UserID),
		slog.String("type", string(note.Type)))
	return nil
}

// LogNotifier only logs notifications.
type LogNotifier struct{}

// Notify logs the notification.
func (LogNotifier) Notify(ctx context.Context, note domain.Notification) error {
	middleware.GetLoggerFromCtx(ctx).Info("Notification",
		slog.String("user_id", note.UserID),
		slog.String("organization_id", note.OrganizationID),
		slog.String("type", string(note.Type)),
		slog.String("title", note.Title))
	return nil
}
