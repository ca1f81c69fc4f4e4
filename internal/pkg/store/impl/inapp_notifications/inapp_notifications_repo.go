package inapp_notifications

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	mongodb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
)

type InAppNotificationStore interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type InAppNotificationRepository struct {
	store InAppNotificationStore
}

func NewInAppNotificationsRepository(client *mongodb.MongoClient) *InAppNotificationRepository {
	collection := client.Database.Collection(consts.InAppNotificationCollection)
	return &InAppNotificationRepository{store: repository.NewMongoRepository[models.InAppNotification](collection)}
}

func NewInAppNotificationsRepositoryWithStore(store InAppNotificationStore) *InAppNotificationRepository {
	return &InAppNotificationRepository{store: store}
}

// HasUnread reports whether an unread alert already exists for the same
// condition and recipient. The sweep uses this to suppress duplicates.
func (ar *InAppNotificationRepository) HasUnread(
	ctx context.Context,
	notifType string,
	relatedID primitive.ObjectID,
	recipientEmail, recipientRole string,
) (bool, error) {
	filter := bson.M{
		"type":      notifType,
		"relatedId": relatedID,
		"status":    consts.InAppStatusUnread,
	}
	if recipientEmail != "" {
		filter["recipientEmail"] = recipientEmail
	} else {
		filter["recipientRole"] = recipientRole
	}

	count, err := ar.store.CountDocuments(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, "Error checking for existing unread notification", err,
			slog.String("type", notifType),
			slog.String("related_id", relatedID.Hex()),
		)
		return false, err
	}
	return count > 0, nil
}

func (ar *InAppNotificationRepository) InsertNotification(ctx context.Context, notification *models.InAppNotification) error {
	if _, err := ar.store.Create(ctx, notification); err != nil {
		logger.CtxError(ctx, "Error inserting in-app notification", err,
			slog.String("type", notification.Type),
		)
		return err
	}
	return nil
}
