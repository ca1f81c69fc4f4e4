package settings

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	mongodb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
)

// Defaults are the values materialized while the singleton settings
// document does not exist yet.
type Defaults struct {
	LateFeeAmount      float64
	Timezone           string
	DefaultCountryCode string
}

type SettingsStore interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.SystemSettings, error)
	UpsertOne(ctx context.Context, filter interface{}, update interface{}) error
}

type SettingsRepository struct {
	store    SettingsStore
	defaults Defaults
}

func NewSettingsRepository(client *mongodb.MongoClient, defaults Defaults) *SettingsRepository {
	collection := client.Database.Collection(consts.SystemSettingsCollection)
	return &SettingsRepository{
		store:    repository.NewMongoRepository[models.SystemSettings](collection),
		defaults: defaults,
	}
}

func NewSettingsRepositoryWithStore(store SettingsStore, defaults Defaults) *SettingsRepository {
	return &SettingsRepository{store: store, defaults: defaults}
}

// GetSettings returns the singleton settings document. While no document
// exists the configured defaults are returned without writing anything;
// the document is only created by the first explicit update.
func (sr *SettingsRepository) GetSettings(ctx context.Context) (models.SystemSettings, error) {
	settings, err := sr.store.FindOne(ctx, bson.M{}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.SystemSettings{
				LateFeeEnabled:     true,
				LateFeeAmount:      sr.defaults.LateFeeAmount,
				Timezone:           sr.defaults.Timezone,
				DefaultCountryCode: sr.defaults.DefaultCountryCode,
			}, nil
		}
		logger.CtxError(ctx, "Error reading system settings", err)
		return models.SystemSettings{}, err
	}
	return settings, nil
}

func (sr *SettingsRepository) UpdateSettings(ctx context.Context, settings models.SystemSettings) error {
	update := bson.M{
		"lateFeeEnabled":      settings.LateFeeEnabled,
		"lateFeeAmount":       settings.LateFeeAmount,
		"timezone":            settings.Timezone,
		"defaultCountryCode":  settings.DefaultCountryCode,
		"supportContact":      settings.SupportContact,
		"paymentInstructions": settings.PaymentInstructions,
		"updatedAt":           time.Now().UTC(),
	}
	if err := sr.store.UpsertOne(ctx, bson.M{}, update); err != nil {
		logger.CtxError(ctx, "Error updating system settings", err)
		return err
	}
	return nil
}
