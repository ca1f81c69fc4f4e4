package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	mongodb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
)

// PaymentStore is the generic repository surface this repo depends on.
type PaymentStore interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Payment, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

type PaymentRepository struct {
	store PaymentStore
}

func NewPaymentsRepository(client *mongodb.MongoClient) *PaymentRepository {
	collection := client.Database.Collection(consts.PaymentCollection)
	return &PaymentRepository{store: repository.NewMongoRepository[models.Payment](collection)}
}

func NewPaymentsRepositoryWithStore(store PaymentStore) *PaymentRepository {
	return &PaymentRepository{store: store}
}

func (pr *PaymentRepository) InsertPayment(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	result, err := pr.store.Create(ctx, payment)
	if err != nil {
		logger.CtxError(ctx, "Error inserting payment", err)
		return primitive.NilObjectID, err
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	logger.CtxInfo(ctx, "Payment registered",
		slog.String("payment_id", id.Hex()),
		slog.String("receipt", payment.ReceiptNumber),
	)
	return id, nil
}

func (pr *PaymentRepository) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	payment, err := pr.store.FindOne(ctx, bson.M{"_id": id}, options.FindOne())
	if err != nil {
		logger.CtxWarn(ctx, "Payment not found", slog.String("payment_id", id.Hex()))
		return nil, err
	}
	return &payment, nil
}

func (pr *PaymentRepository) UpdatePayment(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	update := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		update[k] = v
	}

	if err := pr.store.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.CtxError(ctx, "Error updating payment", err, slog.String("payment_id", id.Hex()))
		return err
	}
	return nil
}

// CountPayments backs the deterministic, zero-padded receipt number.
func (pr *PaymentRepository) CountPayments(ctx context.Context) (int64, error) {
	return pr.store.CountDocuments(ctx, bson.M{})
}

func (pr *PaymentRepository) DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	count, err := pr.store.DeleteMany(ctx, bson.M{"loanId": loanID})
	if err != nil {
		logger.CtxError(ctx, "Error deleting payments for loan", err, slog.String("loan_id", loanID.Hex()))
		return 0, err
	}
	return count, nil
}
