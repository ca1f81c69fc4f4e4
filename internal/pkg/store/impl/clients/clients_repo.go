package clients

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	mongodb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
)

type ClientStore interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Client, error)
}

type ClientRepository struct {
	store ClientStore
}

func NewClientsRepository(client *mongodb.MongoClient) *ClientRepository {
	collection := client.Database.Collection(consts.ClientCollection)
	return &ClientRepository{store: repository.NewMongoRepository[models.Client](collection)}
}

func NewClientsRepositoryWithStore(store ClientStore) *ClientRepository {
	return &ClientRepository{store: store}
}

func (cr *ClientRepository) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	client, err := cr.store.FindOne(ctx, bson.M{"email": email}, options.FindOne())
	if err != nil {
		logger.CtxDebug(ctx, "No client record for email", slog.String("email", email))
		return nil, err
	}
	return &client, nil
}
