package repository

import (
	"context"

	"github.com/alimikegami/pi-callback-service/internal/domain"
	pkgdto "github.com/alimikegami/pi-callback-service/pkg/dto"
)

type NotificationRepository interface {
	UpsertNotification(ctx context.Context, data domain.Notification) (err error)
	GetNotifications(ctx context.Context, filter pkgdto.Filter) (data []domain.Notification, err error)
	GetNotificationByTransactionID(ctx context.Context, transactionID string) (data domain.Notification, err error)
}
