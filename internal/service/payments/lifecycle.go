package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
)

const paymentDateLayout = "2006-01-02"

// Lifecycle drives the payment confirmation state machine:
// pending_confirmation -> {confirmed, rejected}, with any edit forcing the
// payment back into review.
type Lifecycle struct {
	loans        interfaces.LoanRepositoryInterface
	installments interfaces.InstallmentRepositoryInterface
	payments     interfaces.PaymentRepositoryInterface
	receipts     interfaces.ReceiptRepositoryInterface
	clients      interfaces.ClientRepositoryInterface
	inApp        interfaces.InAppNotificationRepositoryInterface
	authorizer   *Authorizer
}

func NewLifecycle(
	loans interfaces.LoanRepositoryInterface,
	installments interfaces.InstallmentRepositoryInterface,
	payments interfaces.PaymentRepositoryInterface,
	receipts interfaces.ReceiptRepositoryInterface,
	clients interfaces.ClientRepositoryInterface,
	inApp interfaces.InAppNotificationRepositoryInterface,
	authorizer *Authorizer,
) *Lifecycle {
	return &Lifecycle{
		loans:        loans,
		installments: installments,
		payments:     payments,
		receipts:     receipts,
		clients:      clients,
		inApp:        inApp,
		authorizer:   authorizer,
	}
}

// Create registers a payment against an installment. The loan must be
// active; the referenced installment moves into the confirmation workflow
// and a zero-padded receipt number is issued from the running count.
func (l *Lifecycle) Create(ctx context.Context, actor models.Actor, req *models.CreatePaymentRequest) (*dbmodels.Payment, error) {
	installmentID, err := primitive.ObjectIDFromHex(req.InstallmentID)
	if err != nil {
		return nil, apperrors.Validation("invalid installment id")
	}

	paymentDate, err := time.ParseInLocation(paymentDateLayout, req.PaymentDate, time.UTC)
	if err != nil {
		return nil, apperrors.Validation("payment_date must be YYYY-MM-DD")
	}

	installment, err := l.installments.GetInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, apperrors.NotFound("installment not found")
	}

	loan, err := l.loans.GetLoanByID(ctx, installment.LoanID)
	if err != nil {
		return nil, apperrors.NotFound("loan not found")
	}

	if err := l.authorizer.Authorize(ctx, actor, ActionCreate, loan); err != nil {
		return nil, err
	}

	if loan.Status != consts.LoanStatusActive {
		return nil, apperrors.Conflict("loan is not active")
	}

	count, err := l.payments.CountPayments(ctx)
	if err != nil {
		return nil, apperrors.Dependency("failed to allocate receipt number", err)
	}
	receiptNumber := fmt.Sprintf(consts.ReceiptNumberFormat, count+1)

	now := time.Now().UTC()
	payment := &dbmodels.Payment{
		LoanID:             loan.ID,
		InstallmentID:      installment.ID,
		Amount:             req.Amount,
		PaymentDate:        paymentDate,
		Method:             req.Method,
		Notes:              req.Notes,
		ConfirmationStatus: consts.PaymentStatusPendingConfirmation,
		ReceiptNumber:      receiptNumber,
		CreatedAt:          now,
	}

	paymentID, err := l.payments.InsertPayment(ctx, payment)
	if err != nil {
		return nil, apperrors.Dependency("failed to register payment", err)
	}
	payment.ID = paymentID

	receipt := &dbmodels.Receipt{
		LoanID:    loan.ID,
		PaymentID: paymentID,
		Number:    receiptNumber,
		CreatedAt: now,
	}
	if err := l.receipts.InsertReceipt(ctx, receipt); err != nil {
		logger.CtxWarn(ctx, "Failed to insert receipt link",
			slog.String("payment_id", paymentID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	if err := l.installments.UpdateStatus(ctx, installment.ID, consts.InstallmentStatusPendingConfirmation); err != nil {
		logger.CtxError(ctx, "Error moving installment into review", err,
			slog.String("installment_id", installment.ID.Hex()),
		)
		return nil, apperrors.Dependency("failed to update installment status", err)
	}

	logger.CtxInfo(ctx, "Payment registered",
		slog.String("payment_id", paymentID.Hex()),
		slog.String("loan_id", loan.ID.Hex()),
		slog.String("receipt", receiptNumber),
	)

	l.notifyRegistered(ctx, loan, payment)
	return payment, nil
}

// Edit updates a payment's fields. Any edit, whatever its current state,
// forces confirmation status back to pending_confirmation and clears the
// rejection reason; an edited payment always re-enters review.
func (l *Lifecycle) Edit(ctx context.Context, actor models.Actor, paymentID primitive.ObjectID, req *models.EditPaymentRequest) (*dbmodels.Payment, error) {
	payment, err := l.payments.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, apperrors.NotFound("payment not found")
	}

	loan, err := l.loans.GetLoanByID(ctx, payment.LoanID)
	if err != nil {
		return nil, apperrors.NotFound("loan not found")
	}

	if err := l.authorizer.Authorize(ctx, actor, ActionEdit, loan); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"confirmationStatus": consts.PaymentStatusPendingConfirmation,
		"rejectionReason":    "",
		"edited":             true,
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
		payment.Amount = *req.Amount
	}
	if req.PaymentDate != nil {
		paymentDate, err := time.ParseInLocation(paymentDateLayout, *req.PaymentDate, time.UTC)
		if err != nil {
			return nil, apperrors.Validation("payment_date must be YYYY-MM-DD")
		}
		fields["paymentDate"] = paymentDate
		payment.PaymentDate = paymentDate
	}
	if req.Method != nil {
		fields["method"] = *req.Method
		payment.Method = *req.Method
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
		payment.Notes = *req.Notes
	}

	if err := l.payments.UpdatePayment(ctx, paymentID, fields); err != nil {
		return nil, apperrors.Dependency("failed to update payment", err)
	}

	// The installment re-enters review alongside its payment.
	if err := l.installments.UpdateStatus(ctx, payment.InstallmentID, consts.InstallmentStatusPendingConfirmation); err != nil {
		logger.CtxWarn(ctx, "Failed to move installment back into review",
			slog.String("installment_id", payment.InstallmentID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	payment.ConfirmationStatus = consts.PaymentStatusPendingConfirmation
	payment.RejectionReason = ""
	payment.Edited = true

	logger.CtxInfo(ctx, "Payment edited, back in review", slog.String("payment_id", paymentID.Hex()))
	return payment, nil
}

// Review confirms or rejects a payment under review. Confirmation settles
// the related installment; rejection requires a reason and reopens the
// installment. The reviewing actor and timestamp are stored for audit.
func (l *Lifecycle) Review(ctx context.Context, actor models.Actor, paymentID primitive.ObjectID, req *models.ReviewPaymentRequest) (*dbmodels.Payment, error) {
	payment, err := l.payments.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, apperrors.NotFound("payment not found")
	}

	loan, err := l.loans.GetLoanByID(ctx, payment.LoanID)
	if err != nil {
		return nil, apperrors.NotFound("loan not found")
	}

	if err := l.authorizer.Authorize(ctx, actor, ActionReview, loan); err != nil {
		return nil, err
	}

	if payment.ConfirmationStatus != consts.PaymentStatusPendingConfirmation {
		return nil, apperrors.Conflict("payment is not awaiting review")
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"reviewedBy": actor.Email,
		"reviewedAt": now,
	}

	var installmentStatus string
	switch req.Action {
	case "confirm":
		fields["confirmationStatus"] = consts.PaymentStatusConfirmed
		fields["rejectionReason"] = ""
		installmentStatus = consts.InstallmentStatusConfirmed
		payment.ConfirmationStatus = consts.PaymentStatusConfirmed
		payment.RejectionReason = ""
	case "reject":
		if req.Reason == "" {
			return nil, apperrors.Validation("a reason is required to reject a payment")
		}
		fields["confirmationStatus"] = consts.PaymentStatusRejected
		fields["rejectionReason"] = req.Reason
		installmentStatus = consts.InstallmentStatusPending
		payment.ConfirmationStatus = consts.PaymentStatusRejected
		payment.RejectionReason = req.Reason
	default:
		return nil, apperrors.Validation("action must be confirm or reject")
	}

	if err := l.payments.UpdatePayment(ctx, paymentID, fields); err != nil {
		return nil, apperrors.Dependency("failed to update payment", err)
	}

	if err := l.installments.UpdateStatus(ctx, payment.InstallmentID, installmentStatus); err != nil {
		logger.CtxError(ctx, "Error updating installment after review", err,
			slog.String("installment_id", payment.InstallmentID.Hex()),
		)
		return nil, apperrors.Dependency("failed to update installment status", err)
	}

	payment.ReviewedBy = actor.Email
	payment.ReviewedAt = now

	logger.CtxInfo(ctx, "Payment reviewed",
		slog.String("payment_id", paymentID.Hex()),
		slog.String("action", req.Action),
		slog.String("reviewed_by", actor.Email),
	)
	return payment, nil
}

// notifyRegistered raises the admin-facing alert and, when an advisor is
// assigned, the advisor-facing one. Each is tied to a unique payment id so
// no dedup is needed.
func (l *Lifecycle) notifyRegistered(ctx context.Context, loan *dbmodels.Loan, payment *dbmodels.Payment) {
	title := "Pago registrado"
	body := fmt.Sprintf("Pago %s por %.2f registrado, pendiente de confirmación.", payment.ReceiptNumber, payment.Amount)
	link := "/payments/" + payment.ID.Hex()

	advisorEmail := loan.AdvisorEmail
	if advisorEmail == "" && loan.ClientEmail != "" {
		if client, err := l.clients.GetClientByEmail(ctx, loan.ClientEmail); err == nil {
			advisorEmail = client.AdvisorEmail
		}
	}

	l.insertInApp(ctx, payment.ID, "", consts.RoleAdmin, title, body, link)
	if advisorEmail != "" {
		l.insertInApp(ctx, payment.ID, advisorEmail, "", title, body, link)
	}
}

func (l *Lifecycle) insertInApp(ctx context.Context, paymentID primitive.ObjectID, recipientEmail, recipientRole, title, body, link string) {
	notification := dbmodels.InAppNotification{
		RecipientEmail: recipientEmail,
		RecipientRole:  recipientRole,
		Title:          title,
		Body:           body,
		Type:           consts.InAppTypePaymentRegistered,
		Status:         consts.InAppStatusUnread,
		Link:           link,
		RelatedType:    consts.RelatedEntityPayment,
		RelatedID:      paymentID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := l.inApp.InsertNotification(ctx, &notification); err != nil {
		logger.CtxWarn(ctx, "Failed to insert payment notification",
			slog.String("payment_id", paymentID.Hex()),
			slog.String("error", err.Error()),
		)
	}
}
