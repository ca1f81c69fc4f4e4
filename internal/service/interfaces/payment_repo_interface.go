package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

type PaymentRepositoryInterface interface {
	InsertPayment(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error)
	GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	CountPayments(ctx context.Context) (int64, error)
	DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error)
}

type ReceiptRepositoryInterface interface {
	InsertReceipt(ctx context.Context, receipt *models.Receipt) error
	DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error)
}
