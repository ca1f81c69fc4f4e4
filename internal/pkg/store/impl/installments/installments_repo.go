package installments

import (
	"context"
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

// InstallmentStore is the generic repository surface this repo depends on.
type InstallmentStore interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Installment, error)
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Installment, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	CreateMany(ctx context.Context, documents []interface{}) (*mongo.InsertManyResult, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

type InstallmentRepository struct {
	store InstallmentStore
}

func NewInstallmentsRepository(client *mongodb.MongoClient) *InstallmentRepository {
	collection := client.Database.Collection(consts.InstallmentCollection)
	return &InstallmentRepository{store: repository.NewMongoRepository[models.Installment](collection)}
}

func NewInstallmentsRepositoryWithStore(store InstallmentStore) *InstallmentRepository {
	return &InstallmentRepository{store: store}
}

// GetInstallmentsByLoan loads a loan's plan ordered by sequence number.
func (ir *InstallmentRepository) GetInstallmentsByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.Installment, error) {
	filter := bson.M{"loanId": loanID}
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	installments, err := ir.store.Find(ctx, filter, opts)
	if err != nil {
		logger.CtxError(ctx, "Error fetching installments for loan", err, slog.String("loan_id", loanID.Hex()))
		return nil, err
	}

	return installments, nil
}

func (ir *InstallmentRepository) GetInstallmentByID(ctx context.Context, id primitive.ObjectID) (*models.Installment, error) {
	installment, err := ir.store.FindOne(ctx, bson.M{"_id": id}, options.FindOne())
	if err != nil {
		logger.CtxWarn(ctx, "Installment not found", slog.String("installment_id", id.Hex()))
		return nil, err
	}
	return &installment, nil
}

// ApplyLateFee persists the flat late fee on one installment.
func (ir *InstallmentRepository) ApplyLateFee(ctx context.Context, id primitive.ObjectID, amount float64) error {
	update := bson.M{
		"lateFee":   amount,
		"updatedAt": time.Now().UTC(),
	}

	if err := ir.store.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.CtxError(ctx, "Error applying late fee", err, slog.String("installment_id", id.Hex()))
		return err
	}

	logger.CtxInfo(ctx, "Late fee applied",
		slog.String("installment_id", id.Hex()),
		slog.Float64("amount", amount),
	)
	return nil
}

func (ir *InstallmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}
	return ir.store.UpdateOne(ctx, bson.M{"_id": id}, update)
}

// UpdateFees writes the edited fees and the recomputed total in one update
// so the stored amount is never stale.
func (ir *InstallmentRepository) UpdateFees(ctx context.Context, id primitive.ObjectID, lateFee, adminFee, amount float64) error {
	update := bson.M{
		"lateFee":   lateFee,
		"adminFee":  adminFee,
		"amount":    amount,
		"updatedAt": time.Now().UTC(),
	}
	return ir.store.UpdateOne(ctx, bson.M{"_id": id}, update)
}

func (ir *InstallmentRepository) InsertInstallments(ctx context.Context, installments []models.Installment) error {
	docs := make([]interface{}, 0, len(installments))
	for _, installment := range installments {
		docs = append(docs, installment)
	}

	if _, err := ir.store.CreateMany(ctx, docs); err != nil {
		logger.CtxError(ctx, "Error inserting installments", err)
		return err
	}

	logger.CtxInfo(ctx, "Inserted installments", slog.Int("count", len(installments)))
	return nil
}

func (ir *InstallmentRepository) DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	count, err := ir.store.DeleteMany(ctx, bson.M{"loanId": loanID})
	if err != nil {
		logger.CtxError(ctx, "Error deleting installments for loan", err, slog.String("loan_id", loanID.Hex()))
		return 0, err
	}
	return count, nil
}
