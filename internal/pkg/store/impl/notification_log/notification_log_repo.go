package notification_log

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	mongodb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/log_messages"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
)

type NotificationLogStore interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.NotificationLogEntry, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
}

type NotificationLogRepository struct {
	store NotificationLogStore
}

func NewNotificationLogRepository(client *mongodb.MongoClient) *NotificationLogRepository {
	collection := client.Database.Collection(consts.NotificationLogCollection)
	return &NotificationLogRepository{store: repository.NewMongoRepository[models.NotificationLogEntry](collection)}
}

func NewNotificationLogRepositoryWithStore(store NotificationLogStore) *NotificationLogRepository {
	return &NotificationLogRepository{store: store}
}

func (nr *NotificationLogRepository) InsertEntry(ctx context.Context, entry *models.NotificationLogEntry) error {
	if _, err := nr.store.Create(ctx, entry); err != nil {
		logger.CtxError(ctx, log_messages.ErrorInsertingNotificationLog, err,
			slog.String("channel", entry.Channel),
			slog.String("stage", entry.Stage),
		)
		return err
	}
	return nil
}

// FindLatestByChannelAndRef locates the most recent entry whose stored
// payload references the provider message id. Best-effort correlation:
// callers treat "not found" as a silent no-op.
func (nr *NotificationLogRepository) FindLatestByChannelAndRef(
	ctx context.Context,
	channel, providerMessageID string,
) (*models.NotificationLogEntry, error) {
	filter := bson.M{
		"channel": channel,
		"$or": []bson.M{
			{"providerMessageId": providerMessageID},
			{"payload": bson.M{"$regex": providerMessageID}},
		},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	entry, err := nr.store.FindOne(ctx, filter, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxDebug(ctx, log_messages.WebhookEntryNotFound,
				slog.String("channel", channel),
				slog.String("provider_message_id", providerMessageID),
			)
		}
		return nil, err
	}
	return &entry, nil
}

func (nr *NotificationLogRepository) UpdateDeliveryStatus(
	ctx context.Context,
	id primitive.ObjectID,
	status, providerErrorCode string,
) error {
	update := bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}
	if providerErrorCode != "" {
		update["providerErrorCode"] = providerErrorCode
	}
	return nr.store.UpdateOne(ctx, bson.M{"_id": id}, update)
}
