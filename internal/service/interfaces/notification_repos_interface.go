package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

type NotificationLogRepositoryInterface interface {
	InsertEntry(ctx context.Context, entry *models.NotificationLogEntry) error
	FindLatestByChannelAndRef(ctx context.Context, channel, providerMessageID string) (*models.NotificationLogEntry, error)
	UpdateDeliveryStatus(ctx context.Context, id primitive.ObjectID, status, providerErrorCode string) error
}

type InAppNotificationRepositoryInterface interface {
	HasUnread(ctx context.Context, notifType string, relatedID primitive.ObjectID, recipientEmail, recipientRole string) (bool, error)
	InsertNotification(ctx context.Context, notification *models.InAppNotification) error
}

type TemplateRepositoryInterface interface {
	GetActiveTemplate(ctx context.Context, key, channel, locale string) (*models.NotificationTemplate, error)
}
