package schedule

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/money"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
)

// RecalculateTotal returns the installment total from its components. The
// late fee is tracked separately and never folded into the base amount.
func RecalculateTotal(principalShare, interestShare, adminFee float64) float64 {
	return money.Sum2(principalShare, interestShare, adminFee)
}

// PayableToday is the full amount required to settle the installment now,
// accrued late fee included.
func PayableToday(installment *models.Installment) float64 {
	return money.Sum2(installment.PrincipalShare, installment.InterestShare, installment.AdminFee, installment.LateFee)
}

// FeeRecalculator applies fee edits and keeps the stored total in step
// with its components.
type FeeRecalculator struct {
	installments interfaces.InstallmentRepositoryInterface
}

func NewFeeRecalculator(installments interfaces.InstallmentRepositoryInterface) *FeeRecalculator {
	return &FeeRecalculator{installments: installments}
}

// UpdateFees edits an installment's late fee and admin fee (nil leaves a
// component unchanged), recomputing and persisting the total in the same
// write so it is never left stale.
func (fr *FeeRecalculator) UpdateFees(ctx context.Context, installmentID primitive.ObjectID, newLateFee, newAdminFee *float64) (*models.Installment, error) {
	if newLateFee != nil && *newLateFee < 0 {
		return nil, apperrors.Validation("late fee must not be negative")
	}
	if newAdminFee != nil && *newAdminFee < 0 {
		return nil, apperrors.Validation("admin fee must not be negative")
	}

	installment, err := fr.installments.GetInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, apperrors.NotFound("installment not found")
	}

	lateFee := installment.LateFee
	if newLateFee != nil {
		lateFee = *newLateFee
	}
	adminFee := installment.AdminFee
	if newAdminFee != nil {
		adminFee = *newAdminFee
	}

	lateFee = money.Round2(lateFee)
	adminFee = money.Round2(adminFee)
	amount := RecalculateTotal(installment.PrincipalShare, installment.InterestShare, adminFee)

	if err := fr.installments.UpdateFees(ctx, installmentID, lateFee, adminFee, amount); err != nil {
		logger.CtxError(ctx, "Error persisting recalculated fees", err,
			slog.String("installment_id", installmentID.Hex()),
		)
		return nil, apperrors.Dependency("failed to update installment fees", err)
	}

	installment.LateFee = lateFee
	installment.AdminFee = adminFee
	installment.Amount = amount
	return installment, nil
}
