package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

// MockLoanRepo mocks LoanRepositoryInterface
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) GetActiveLoans(ctx context.Context) ([]dbmodels.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbmodels.Loan), args.Error(1)
}

func (m *MockLoanRepo) GetLoanByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Loan), args.Error(1)
}

// MockInstallmentRepo mocks InstallmentRepositoryInterface
type MockInstallmentRepo struct {
	mock.Mock
}

func (m *MockInstallmentRepo) GetInstallmentsByLoan(ctx context.Context, loanID primitive.ObjectID) ([]dbmodels.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbmodels.Installment), args.Error(1)
}

func (m *MockInstallmentRepo) GetInstallmentByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Installment), args.Error(1)
}

func (m *MockInstallmentRepo) ApplyLateFee(ctx context.Context, id primitive.ObjectID, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockInstallmentRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockInstallmentRepo) UpdateFees(ctx context.Context, id primitive.ObjectID, lateFee, adminFee, amount float64) error {
	args := m.Called(ctx, id, lateFee, adminFee, amount)
	return args.Error(0)
}

func (m *MockInstallmentRepo) InsertInstallments(ctx context.Context, installments []dbmodels.Installment) error {
	args := m.Called(ctx, installments)
	return args.Error(0)
}

func (m *MockInstallmentRepo) DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepo mocks PaymentRepositoryInterface
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) InsertPayment(ctx context.Context, payment *dbmodels.Payment) (primitive.ObjectID, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPaymentRepo) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*dbmodels.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Payment), args.Error(1)
}

func (m *MockPaymentRepo) UpdatePayment(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockPaymentRepo) CountPayments(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepo) DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReceiptRepo mocks ReceiptRepositoryInterface
type MockReceiptRepo struct {
	mock.Mock
}

func (m *MockReceiptRepo) InsertReceipt(ctx context.Context, receipt *dbmodels.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepo) DeleteByLoan(ctx context.Context, loanID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientRepo mocks ClientRepositoryInterface
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) GetClientByEmail(ctx context.Context, email string) (*dbmodels.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Client), args.Error(1)
}

// MockInAppRepo mocks InAppNotificationRepositoryInterface
type MockInAppRepo struct {
	mock.Mock
}

func (m *MockInAppRepo) HasUnread(ctx context.Context, notifType string, relatedID primitive.ObjectID, recipientEmail, recipientRole string) (bool, error) {
	args := m.Called(ctx, notifType, relatedID, recipientEmail, recipientRole)
	return args.Bool(0), args.Error(1)
}

func (m *MockInAppRepo) InsertNotification(ctx context.Context, notification *dbmodels.InAppNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type lifecycleFixture struct {
	loans        *MockLoanRepo
	installments *MockInstallmentRepo
	payments     *MockPaymentRepo
	receipts     *MockReceiptRepo
	clients      *MockClientRepo
	inApp        *MockInAppRepo
	lifecycle    *Lifecycle
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		loans:        new(MockLoanRepo),
		installments: new(MockInstallmentRepo),
		payments:     new(MockPaymentRepo),
		receipts:     new(MockReceiptRepo),
		clients:      new(MockClientRepo),
		inApp:        new(MockInAppRepo),
	}
	f.lifecycle = NewLifecycle(
		f.loans, f.installments, f.payments, f.receipts, f.clients, f.inApp,
		NewAuthorizer(f.clients),
	)
	return f
}

var (
	adminActor   = models.Actor{Email: "root@coop.example", Role: consts.RoleAdmin}
	clientActor  = models.Actor{Email: "ana@example.com", Role: consts.RoleClient}
	advisorActor = models.Actor{Email: "carlos@coop.example", Role: consts.RoleAdvisor}
)

func activeLoan() *dbmodels.Loan {
	return &dbmodels.Loan{
		ID:           primitive.NewObjectID(),
		ClientEmail:  "ana@example.com",
		AdvisorEmail: "carlos@coop.example",
		Status:       consts.LoanStatusActive,
	}
}

func TestLifecycle_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("registers payment with zero-padded receipt", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		installment := &dbmodels.Installment{ID: primitive.NewObjectID(), LoanID: loan.ID, Sequence: 1}
		paymentID := primitive.NewObjectID()

		f.installments.On("GetInstallmentByID", ctx, installment.ID).Return(installment, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)
		f.payments.On("CountPayments", ctx).Return(int64(41), nil)
		f.payments.On("InsertPayment", ctx, mock.MatchedBy(func(p *dbmodels.Payment) bool {
			return p.ReceiptNumber == "REC-000042" &&
				p.ConfirmationStatus == consts.PaymentStatusPendingConfirmation
		})).Return(paymentID, nil)
		f.receipts.On("InsertReceipt", ctx, mock.MatchedBy(func(r *dbmodels.Receipt) bool {
			return r.Number == "REC-000042" && r.PaymentID == paymentID
		})).Return(nil)
		f.installments.On("UpdateStatus", ctx, installment.ID, consts.InstallmentStatusPendingConfirmation).Return(nil)
		f.inApp.On("InsertNotification", ctx, mock.Anything).Return(nil)

		payment, err := f.lifecycle.Create(ctx, clientActor, &models.CreatePaymentRequest{
			InstallmentID: installment.ID.Hex(),
			Amount:        795,
			PaymentDate:   "2025-03-15",
			Method:        "transfer",
		})

		require.NoError(t, err)
		assert.Equal(t, "REC-000042", payment.ReceiptNumber)
		assert.Equal(t, consts.PaymentStatusPendingConfirmation, payment.ConfirmationStatus)
		// admin alert plus advisor alert
		f.inApp.AssertNumberOfCalls(t, "InsertNotification", 2)
	})

	t.Run("inactive loan rejects new payments", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		loan.Status = consts.LoanStatusPending
		installment := &dbmodels.Installment{ID: primitive.NewObjectID(), LoanID: loan.ID}

		f.installments.On("GetInstallmentByID", ctx, installment.ID).Return(installment, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)

		_, err := f.lifecycle.Create(ctx, adminActor, &models.CreatePaymentRequest{
			InstallmentID: installment.ID.Hex(),
			Amount:        795,
			PaymentDate:   "2025-03-15",
			Method:        "cash",
		})

		require.Error(t, err)
		assert.Equal(t, 409, apperrors.HTTPStatus(err))
		f.payments.AssertNotCalled(t, "InsertPayment", mock.Anything, mock.Anything)
	})

	t.Run("client cannot pay another client's loan", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		loan.ClientEmail = "otra@example.com"
		installment := &dbmodels.Installment{ID: primitive.NewObjectID(), LoanID: loan.ID}

		f.installments.On("GetInstallmentByID", ctx, installment.ID).Return(installment, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)

		_, err := f.lifecycle.Create(ctx, clientActor, &models.CreatePaymentRequest{
			InstallmentID: installment.ID.Hex(),
			Amount:        795,
			PaymentDate:   "2025-03-15",
			Method:        "cash",
		})

		require.Error(t, err)
		assert.Equal(t, 403, apperrors.HTTPStatus(err))
		f.payments.AssertNotCalled(t, "InsertPayment", mock.Anything, mock.Anything)
	})

	t.Run("invalid installment id", func(t *testing.T) {
		f := newLifecycleFixture()

		_, err := f.lifecycle.Create(ctx, adminActor, &models.CreatePaymentRequest{
			InstallmentID: "not-an-id",
			Amount:        795,
			PaymentDate:   "2025-03-15",
			Method:        "cash",
		})

		require.Error(t, err)
		assert.Equal(t, 400, apperrors.HTTPStatus(err))
	})
}

func TestLifecycle_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("edit forces confirmed payment back into review", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		paymentID := primitive.NewObjectID()
		installmentID := primitive.NewObjectID()

		f.payments.On("GetPaymentByID", ctx, paymentID).Return(&dbmodels.Payment{
			ID:                 paymentID,
			LoanID:             loan.ID,
			InstallmentID:      installmentID,
			Amount:             795,
			ConfirmationStatus: consts.PaymentStatusConfirmed,
			RejectionReason:    "monto incorrecto",
		}, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)
		f.payments.On("UpdatePayment", ctx, paymentID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			return fields["confirmationStatus"] == consts.PaymentStatusPendingConfirmation &&
				fields["rejectionReason"] == "" &&
				fields["edited"] == true &&
				fields["amount"] == 800.0
		})).Return(nil)
		f.installments.On("UpdateStatus", ctx, installmentID, consts.InstallmentStatusPendingConfirmation).Return(nil)

		amount := 800.0
		payment, err := f.lifecycle.Edit(ctx, clientActor, paymentID, &models.EditPaymentRequest{Amount: &amount})

		require.NoError(t, err)
		assert.Equal(t, consts.PaymentStatusPendingConfirmation, payment.ConfirmationStatus)
		assert.Empty(t, payment.RejectionReason)
		assert.True(t, payment.Edited)
		assert.Equal(t, 800.0, payment.Amount)
	})

	t.Run("no-field edit still resets review state", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		paymentID := primitive.NewObjectID()
		installmentID := primitive.NewObjectID()

		f.payments.On("GetPaymentByID", ctx, paymentID).Return(&dbmodels.Payment{
			ID:                 paymentID,
			LoanID:             loan.ID,
			InstallmentID:      installmentID,
			ConfirmationStatus: consts.PaymentStatusRejected,
			RejectionReason:    "sin comprobante",
		}, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)
		f.payments.On("UpdatePayment", ctx, paymentID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			return fields["confirmationStatus"] == consts.PaymentStatusPendingConfirmation &&
				fields["rejectionReason"] == ""
		})).Return(nil)
		f.installments.On("UpdateStatus", ctx, installmentID, consts.InstallmentStatusPendingConfirmation).Return(nil)

		payment, err := f.lifecycle.Edit(ctx, adminActor, paymentID, &models.EditPaymentRequest{})

		require.NoError(t, err)
		assert.Equal(t, consts.PaymentStatusPendingConfirmation, payment.ConfirmationStatus)
		assert.Empty(t, payment.RejectionReason)
	})
}

func TestLifecycle_Review(t *testing.T) {
	ctx := context.Background()

	pendingPayment := func(loan *dbmodels.Loan) (*dbmodels.Payment, primitive.ObjectID) {
		paymentID := primitive.NewObjectID()
		return &dbmodels.Payment{
			ID:                 paymentID,
			LoanID:             loan.ID,
			InstallmentID:      primitive.NewObjectID(),
			ConfirmationStatus: consts.PaymentStatusPendingConfirmation,
		}, paymentID
	}

	t.Run("confirm settles the installment and records audit", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		payment, paymentID := pendingPayment(loan)

		f.payments.On("GetPaymentByID", ctx, paymentID).Return(payment, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)
		f.payments.On("UpdatePayment", ctx, paymentID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			return fields["confirmationStatus"] == consts.PaymentStatusConfirmed &&
				fields["reviewedBy"] == advisorActor.Email
		})).Return(nil)
		f.installments.On("UpdateStatus", ctx, payment.InstallmentID, consts.InstallmentStatusConfirmed).Return(nil)

		reviewed, err := f.lifecycle.Review(ctx, advisorActor, paymentID, &models.ReviewPaymentRequest{Action: "confirm"})

		require.NoError(t, err)
		assert.Equal(t, consts.PaymentStatusConfirmed, reviewed.ConfirmationStatus)
		assert.Equal(t, advisorActor.Email, reviewed.ReviewedBy)
		assert.WithinDuration(t, time.Now().UTC(), reviewed.ReviewedAt, time.Minute)
	})

	t.Run("reject requires a reason and reopens the installment", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		payment, paymentID := pendingPayment(loan)

		f.payments.On("GetPaymentByID", ctx, paymentID).Return(payment, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)

		_, err := f.lifecycle.Review(ctx, adminActor, paymentID, &models.ReviewPaymentRequest{Action: "reject"})
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.HTTPStatus(err))

		f.payments.On("UpdatePayment", ctx, paymentID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			return fields["confirmationStatus"] == consts.PaymentStatusRejected &&
				fields["rejectionReason"] == "monto no coincide"
		})).Return(nil)
		f.installments.On("UpdateStatus", ctx, payment.InstallmentID, consts.InstallmentStatusPending).Return(nil)

		reviewed, err := f.lifecycle.Review(ctx, adminActor, paymentID, &models.ReviewPaymentRequest{
			Action: "reject",
			Reason: "monto no coincide",
		})

		require.NoError(t, err)
		assert.Equal(t, consts.PaymentStatusRejected, reviewed.ConfirmationStatus)
		assert.Equal(t, "monto no coincide", reviewed.RejectionReason)
	})

	t.Run("client cannot review", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		payment, paymentID := pendingPayment(loan)

		f.payments.On("GetPaymentByID", ctx, paymentID).Return(payment, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)

		_, err := f.lifecycle.Review(ctx, clientActor, paymentID, &models.ReviewPaymentRequest{Action: "confirm"})

		require.Error(t, err)
		assert.Equal(t, 403, apperrors.HTTPStatus(err))
		f.payments.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already reviewed payment is a conflict", func(t *testing.T) {
		f := newLifecycleFixture()
		loan := activeLoan()
		payment, paymentID := pendingPayment(loan)
		payment.ConfirmationStatus = consts.PaymentStatusConfirmed

		f.payments.On("GetPaymentByID", ctx, paymentID).Return(payment, nil)
		f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)

		_, err := f.lifecycle.Review(ctx, adminActor, paymentID, &models.ReviewPaymentRequest{Action: "confirm"})

		require.Error(t, err)
		assert.Equal(t, 409, apperrors.HTTPStatus(err))
	})
}

func TestAuthorizer(t *testing.T) {
	ctx := context.Background()

	t.Run("admin is unrestricted", func(t *testing.T) {
		authorizer := NewAuthorizer(new(MockClientRepo))
		loan := activeLoan()
		loan.ClientEmail = "someone@else.example"

		assert.NoError(t, authorizer.Authorize(ctx, adminActor, ActionReview, loan))
	})

	t.Run("advisor assignment via client record", func(t *testing.T) {
		clients := new(MockClientRepo)
		clients.On("GetClientByEmail", ctx, "ana@example.com").Return(&dbmodels.Client{
			Email:        "ana@example.com",
			AdvisorEmail: advisorActor.Email,
		}, nil)

		loan := activeLoan()
		loan.AdvisorEmail = ""

		authorizer := NewAuthorizer(clients)
		assert.NoError(t, authorizer.Authorize(ctx, advisorActor, ActionEdit, loan))
	})

	t.Run("advisor without assignment is forbidden", func(t *testing.T) {
		clients := new(MockClientRepo)
		clients.On("GetClientByEmail", ctx, "ana@example.com").Return(&dbmodels.Client{
			Email:        "ana@example.com",
			AdvisorEmail: "otro@coop.example",
		}, nil)

		loan := activeLoan()
		loan.AdvisorEmail = ""

		authorizer := NewAuthorizer(clients)
		err := authorizer.Authorize(ctx, advisorActor, ActionEdit, loan)
		require.Error(t, err)
		assert.Equal(t, 403, apperrors.HTTPStatus(err))
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		authorizer := NewAuthorizer(new(MockClientRepo))
		err := authorizer.Authorize(ctx, models.Actor{Email: "x@y.z", Role: "superuser"}, ActionCreate, activeLoan())
		require.Error(t, err)
		assert.Equal(t, 403, apperrors.HTTPStatus(err))
	})

	t.Run("client cannot review even own loan", func(t *testing.T) {
		authorizer := NewAuthorizer(new(MockClientRepo))
		err := authorizer.Authorize(ctx, clientActor, ActionReview, activeLoan())
		require.Error(t, err)
		assert.Equal(t, 403, apperrors.HTTPStatus(err))
	})
}

func TestLifecycle_Create_ReceiptAllocationFailure(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	loan := activeLoan()
	installment := &dbmodels.Installment{ID: primitive.NewObjectID(), LoanID: loan.ID}

	f.installments.On("GetInstallmentByID", ctx, installment.ID).Return(installment, nil)
	f.loans.On("GetLoanByID", ctx, loan.ID).Return(loan, nil)
	f.payments.On("CountPayments", ctx).Return(int64(0), errors.New("mongo down"))

	_, err := f.lifecycle.Create(ctx, adminActor, &models.CreatePaymentRequest{
		InstallmentID: installment.ID.Hex(),
		Amount:        795,
		PaymentDate:   "2025-03-15",
		Method:        "cash",
	})

	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
	f.payments.AssertNotCalled(t, "InsertPayment", mock.Anything, mock.Anything)
}
