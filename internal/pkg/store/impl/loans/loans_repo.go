package loans

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	mongodb "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
)

// LoanStore is the generic repository surface this repo depends on.
type LoanStore interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Loan, error)
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Loan, error)
}

type LoanRepository struct {
	store LoanStore
}

func NewLoansRepository(client *mongodb.MongoClient) *LoanRepository {
	collection := client.Database.Collection(consts.LoanCollection)
	return &LoanRepository{store: repository.NewMongoRepository[models.Loan](collection)}
}

func NewLoansRepositoryWithStore(store LoanStore) *LoanRepository {
	return &LoanRepository{store: store}
}

// GetActiveLoans returns every loan eligible for the delinquency sweep.
func (lr *LoanRepository) GetActiveLoans(ctx context.Context) ([]models.Loan, error) {
	filter := bson.M{"status": consts.LoanStatusActive}

	loans, err := lr.store.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, "Error fetching active loans", err)
		return nil, err
	}

	logger.CtxDebug(ctx, "Fetched active loans", slog.Int("count", len(loans)))
	return loans, nil
}

func (lr *LoanRepository) GetLoanByID(ctx context.Context, id primitive.ObjectID) (*models.Loan, error) {
	loan, err := lr.store.FindOne(ctx, bson.M{"_id": id}, options.FindOne())
	if err != nil {
		logger.CtxWarn(ctx, "Loan not found", slog.String("loan_id", id.Hex()))
		return nil, err
	}
	return &loan, nil
}
