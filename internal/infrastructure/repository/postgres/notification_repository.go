package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (id, user_id, rfp_id, message, type, is_read, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, n.ID, n.UserID, n.RFPID, n.Message, string(n.Type), n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, rfp_id, message, type, is_read, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var kind string
		if err := rows.Scan(&n.ID, &n.UserID, &n.RFPID, &n.Message, &kind, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = domain.NotificationType(kind)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireRowAffected(res, "notification")
}
