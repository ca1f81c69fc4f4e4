package receipts

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

type ReceiptStore interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

type ReceiptRepository struct {
	store ReceiptStore
}

func NewReceiptsRepository(client *mongodb.MongoClient) *ReceiptRepository {
	collection := client.Database.Collection(consts.ReceiptCollection)
	return &ReceiptRepository{store: repository.NewMongoRepository[models.Receipt](collection)}
}

func NewReceiptsRepositoryWithStore(store ReceiptStore) *ReceiptRepository {
	return &ReceiptRepository{store: store}
}

func (rr *ReceiptRepository) InsertReceipt(ctx context.Context, receipt *models.Receipt) error {
	if _, err := rr.store.Create(ctx, receipt); err != nil {
		logger.CtxError(ctx, "Error inserting receipt", err, slog.String("number", receipt.Number))
		return err
	}
	return nil
}

func (rr *ReceiptRepository) DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	count, err := rr.store.DeleteMany(ctx, bson.M{"loanId": loanID})
	if err != nil {
		logger.CtxError(ctx, "Error deleting receipts for loan", err, slog.String("loan_id", loanID.Hex()))
		return 0, err
	}
	return count, nil
}
