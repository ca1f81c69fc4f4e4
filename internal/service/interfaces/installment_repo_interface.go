package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

type InstallmentRepositoryInterface interface {
	GetInstallmentsByLoan(ctx context.Context, loanID primitive.ObjectID) ([]models.Installment, error)
	GetInstallmentByID(ctx context.Context, id primitive.ObjectID) (*models.Installment, error)
	ApplyLateFee(ctx context.Context, id primitive.ObjectID, amount float64) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	UpdateFees(ctx context.Context, id primitive.ObjectID, lateFee, adminFee, amount float64) error
	InsertInstallments(ctx context.Context, installments []models.Installment) error
	DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error)
}
