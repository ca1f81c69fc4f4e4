package templates

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	mongodb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
)

type TemplateStore interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.NotificationTemplate, error)
}

type TemplateRepository struct {
	store TemplateStore
}

func NewTemplatesRepository(client *mongodb.MongoClient) *TemplateRepository {
	collection := client.Database.Collection(consts.NotificationTemplateCollection)
	return &TemplateRepository{store: repository.NewMongoRepository[models.NotificationTemplate](collection)}
}

func NewTemplatesRepositoryWithStore(store TemplateStore) *TemplateRepository {
	return &TemplateRepository{store: store}
}

// GetActiveTemplate resolves the active template body for a stage key,
// channel and locale. A missing template is reported to the caller so the
// dispatcher can fall back to its built-in wording.
func (tr *TemplateRepository) GetActiveTemplate(ctx context.Context, key, channel, locale string) (*models.NotificationTemplate, error) {
	filter := bson.M{
		"key":     key,
		"channel": channel,
		"locale":  locale,
		"active":  true,
	}

	template, err := tr.store.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxDebug(ctx, "No active template found",
				slog.String("key", key),
				slog.String("channel", channel),
				slog.String("locale", locale),
			)
			return nil, err
		}
		logger.CtxError(ctx, "Error fetching notification template", err, slog.String("key", key))
		return nil, err
	}
	return &template, nil
}
