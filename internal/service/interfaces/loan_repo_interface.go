package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

type LoanRepositoryInterface interface {
	GetActiveLoans(ctx context.Context) ([]models.Loan, error)
	GetLoanByID(ctx context.Context, id primitive.ObjectID) (*models.Loan, error)
}
