package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/middleware"
)

// Dispatcher persists in-app notification rows and logs the dispatch. Email
// and push delivery belong to the messaging platform and are reported as not
// sent here.
type Dispatcher struct {
	notifications portsrepo.NotificationRepository
}

func NewDispatcher(notifications portsrepo.NotificationRepository) portssvc.NotificationDispatcher {
	return &Dispatcher{notifications: notifications}
}

// Notify creates the in-app notification row for the user. Callers treat
// failures as non-fatal; the ledger write this hook follows is already
// committed.
func (d *Dispatcher) Notify(ctx context.Context, userID string, event domain.NotificationEvent) (domain.NotificationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	n := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Type:           event.Type,
		Title:          event.Title,
		Body:           event.Body,
		Read:           false,
		CreatedAt:      time.Now().UTC(),
	}
	if err := d.notifications.SaveNotification(ctx, n); err != nil {
		return domain.NotificationResult{}, fmt.Errorf("failed to create in-app notification for user %s: %w", userID, err)
	}

	logger.Info("Notification dispatched",
		"user_id", userID,
		"type", string(event.Type),
	)
	return domain.NotificationResult{InAppCreated: true}, nil
}
