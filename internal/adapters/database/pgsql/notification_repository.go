package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
)

type PgxNotificationRepository struct {
	pool *pgxpool.Pool
}

// NewPgxNotificationRepository creates a new repository for in-app notifications.
func NewPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{pool: pool}
}

// SaveNotification inserts an in-app notification row.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, type, title, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query, n.NotificationID, n.UserID, n.Type, n.Title, n.Body, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification %s: %w", n.NotificationID, err)
	}
	return nil
}
