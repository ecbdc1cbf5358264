package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxNotificationRepository stores in-app notifications.
type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) *PgxNotificationRepository {
	return &PgxNotificationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	var data any
	if len(n.Data) > 0 {
		b, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("encode notification data: %w", err)
		}
		data = string(b)
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO notifications (notification_id, user_id, organization_id, notification_type, title, message, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.NotificationID, n.UserID, n.OrganizationID, n.Type, n.Title, n.Message, data, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("save notification for %s: %w", n.UserID, err)
	}
	return nil
}
