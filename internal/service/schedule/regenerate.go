package schedule

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/log_messages"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/repository"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
)

// Service regenerates and reads amortization plans.
type Service struct {
	generator    *Generator
	loans        interfaces.LoanRepositoryInterface
	installments interfaces.InstallmentRepositoryInterface
	payments     interfaces.PaymentRepositoryInterface
	receipts     interfaces.ReceiptRepositoryInterface
	txn          repository.TxnRunner
}

func NewService(
	generator *Generator,
	loans interfaces.LoanRepositoryInterface,
	installments interfaces.InstallmentRepositoryInterface,
	payments interfaces.PaymentRepositoryInterface,
	receipts interfaces.ReceiptRepositoryInterface,
	txn repository.TxnRunner,
) *Service {
	return &Service{
		generator:    generator,
		loans:        loans,
		installments: installments,
		payments:     payments,
		receipts:     receipts,
		txn:          txn,
	}
}

// Regenerate destructively replaces a loan's installment plan. Deletes run
// in dependency order (receipts, payments, installments) and the whole
// sequence runs inside one transaction so no partial plan survives a
// failure. An optional frequency override is persisted back to the loan.
func (s *Service) Regenerate(ctx context.Context, loanID primitive.ObjectID, frequencyOverride string) ([]models.Installment, error) {
	loan, err := s.loans.GetLoanByID(ctx, loanID)
	if err != nil {
		return nil, apperrors.NotFound("loan not found")
	}

	if frequencyOverride != "" {
		if frequencyOverride != consts.FrequencyMonthly && frequencyOverride != consts.FrequencyBiweekly {
			return nil, apperrors.Validation("frequency must be monthly or biweekly")
		}
		loan.Frequency = frequencyOverride
	}

	installments, err := s.generator.Generate(loan)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	err = s.txn.Run(ctx, func(txCtx context.Context) error {
		if _, err := s.receipts.DeleteByLoan(txCtx, loanID); err != nil {
			return err
		}
		if _, err := s.payments.DeleteByLoan(txCtx, loanID); err != nil {
			return err
		}
		deleted, err := s.installments.DeleteByLoan(txCtx, loanID)
		if err != nil {
			return err
		}
		logger.CtxDebug(txCtx, "Removed prior installment plan",
			slog.String("loan_id", loanID.Hex()),
			slog.Int64("deleted", deleted),
		)
		return s.installments.InsertInstallments(txCtx, installments)
	})
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorRegeneratingSchedule, err, slog.String("loan_id", loanID.Hex()))
		return nil, apperrors.Dependency("failed to regenerate schedule", err)
	}

	logger.CtxInfo(ctx, log_messages.ScheduleRegenerated,
		slog.String("loan_id", loanID.Hex()),
		slog.Int("installments", len(installments)),
	)
	return installments, nil
}

// ScheduleEntry is one installment of the plan with its payable-today
// total recomputed from components.
type ScheduleEntry struct {
	Installment  models.Installment `json:"installment"`
	PayableToday float64            `json:"payableToday"`
}

// GetSchedule returns a loan's plan with totals recomputed through the
// fee recalculator rather than trusting the stored amount.
func (s *Service) GetSchedule(ctx context.Context, loanID primitive.ObjectID) ([]ScheduleEntry, error) {
	if _, err := s.loans.GetLoanByID(ctx, loanID); err != nil {
		return nil, apperrors.NotFound("loan not found")
	}

	installments, err := s.installments.GetInstallmentsByLoan(ctx, loanID)
	if err != nil {
		return nil, apperrors.Dependency("failed to load installments", err)
	}
	if len(installments) == 0 {
		return nil, apperrors.Conflict("loan has no schedule")
	}

	entries := make([]ScheduleEntry, 0, len(installments))
	for _, installment := range installments {
		installment.Amount = RecalculateTotal(installment.PrincipalShare, installment.InterestShare, installment.AdminFee)
		entries = append(entries, ScheduleEntry{
			Installment:  installment,
			PayableToday: PayableToday(&installment),
		})
	}
	return entries, nil
}
