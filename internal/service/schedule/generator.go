package schedule

import (
	"fmt"
	"time"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/money"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

// Generator produces flat (non-amortizing) installment plans. All date
// arithmetic happens in calendar terms in the cooperative's timezone so
// due dates never drift by a day across zone boundaries.
type Generator struct {
	location *time.Location
}

func NewGenerator(location *time.Location) *Generator {
	if location == nil {
		location = time.UTC
	}
	return &Generator{location: location}
}

// Generate builds the ordered installment plan for a loan. Every
// installment carries the same principal and interest share regardless of
// remaining balance; biweekly plans keep the full capital share but half
// the monthly interest.
func (g *Generator) Generate(loan *models.Loan) ([]models.Installment, error) {
	if loan.Principal <= 0 {
		return nil, fmt.Errorf("loan principal must be positive, got %v", loan.Principal)
	}
	if loan.TermCount <= 0 {
		return nil, fmt.Errorf("loan term count must be positive, got %d", loan.TermCount)
	}
	if loan.MonthlyRate < 0 {
		return nil, fmt.Errorf("loan monthly rate must not be negative, got %v", loan.MonthlyRate)
	}

	capital := money.Round2(loan.Principal / float64(loan.TermCount))
	monthlyInterest := money.Round2(loan.Principal * loan.MonthlyRate / 100)

	interest := monthlyInterest
	if loan.Frequency == consts.FrequencyBiweekly {
		interest = money.Round2(monthlyInterest / 2)
	}

	adminFee := loan.AdminFee
	if adminFee == 0 {
		adminFee = consts.DefaultAdminFee
	}
	adminFee = money.Round2(adminFee)

	start := loan.StartDate.In(g.location)
	now := time.Now().UTC()

	installments := make([]models.Installment, 0, loan.TermCount)
	for i := 1; i <= loan.TermCount; i++ {
		dueDate, err := g.dueDate(start, loan.Frequency, i)
		if err != nil {
			return nil, err
		}

		installments = append(installments, models.Installment{
			LoanID:         loan.ID,
			Sequence:       i,
			DueDate:        dueDate,
			PrincipalShare: capital,
			InterestShare:  interest,
			AdminFee:       adminFee,
			LateFee:        0,
			Amount:         money.Sum2(capital, interest, adminFee),
			Status:         consts.InstallmentStatusPending,
			CreatedAt:      now,
		})
	}

	return installments, nil
}

// dueDate computes the i-th due date as a calendar date (midnight in the
// cooperative timezone).
func (g *Generator) dueDate(start time.Time, frequency string, i int) (time.Time, error) {
	var due time.Time
	switch frequency {
	case consts.FrequencyMonthly:
		due = start.AddDate(0, i, 0)
	case consts.FrequencyBiweekly:
		due = start.AddDate(0, 0, consts.BiweeklyIntervalDays*i)
	default:
		return time.Time{}, fmt.Errorf("unknown payment frequency %q", frequency)
	}

	year, month, day := due.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, g.location), nil
}
