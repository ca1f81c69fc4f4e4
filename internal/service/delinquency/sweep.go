package delinquency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/log_messages"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/notify"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/schedule"
)

const overdueFallbackBody = "Hola {name}, su cuota de {amount} venció el {dueDate}. {instructions}"

// Notifier is the outbound side the sweep drives after a fee lands.
type Notifier interface {
	Dispatch(ctx context.Context, stage, recipient, body string) []notify.ChannelResult
}

// Renderer resolves template bodies for outbound messages.
type Renderer interface {
	Render(ctx context.Context, key, channel, locale, fallback string, values map[string]string) string
}

// Sweep reconciles every active loan against today's date and applies the
// configured late fee exactly once per newly overdue installment.
type Sweep struct {
	loans        interfaces.LoanRepositoryInterface
	installments interfaces.InstallmentRepositoryInterface
	clients      interfaces.ClientRepositoryInterface
	settings     interfaces.SettingsRepositoryInterface
	inApp        interfaces.InAppNotificationRepositoryInterface
	lock         interfaces.SweepLockInterface
	notifier     Notifier
	renderer     Renderer
	lockTTL      time.Duration
}

func NewSweep(
	loans interfaces.LoanRepositoryInterface,
	installments interfaces.InstallmentRepositoryInterface,
	clients interfaces.ClientRepositoryInterface,
	settings interfaces.SettingsRepositoryInterface,
	inApp interfaces.InAppNotificationRepositoryInterface,
	lock interfaces.SweepLockInterface,
	notifier Notifier,
	renderer Renderer,
	lockTTL time.Duration,
) *Sweep {
	return &Sweep{
		loans:        loans,
		installments: installments,
		clients:      clients,
		settings:     settings,
		inApp:        inApp,
		lock:         lock,
		notifier:     notifier,
		renderer:     renderer,
		lockTTL:      lockTTL,
	}
}

// Run executes exactly one sweep pass. Settings gate first: a disabled
// toggle or non-positive fee amount is a documented no-op, not an error.
// The advisory lock excludes concurrent passes so the read-before-write
// idempotency checks cannot race.
func (s *Sweep) Run(ctx context.Context) (*models.SweepSummary, error) {
	cfg, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, apperrors.Dependency("failed to load system settings", err)
	}

	if !cfg.LateFeeEnabled || cfg.LateFeeAmount <= 0 {
		logger.CtxInfo(ctx, log_messages.SweepDisabled,
			slog.Bool("enabled", cfg.LateFeeEnabled),
			slog.Float64("amount", cfg.LateFeeAmount),
		)
		return &models.SweepSummary{}, nil
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, apperrors.Dependency(fmt.Sprintf("invalid cooperative timezone %q", cfg.Timezone), err)
	}

	owner := uuid.NewString()
	acquired, err := s.lock.AcquireSweepLock(ctx, owner, s.lockTTL)
	if err != nil {
		return nil, apperrors.Dependency("failed to acquire sweep lock", err)
	}
	if !acquired {
		logger.CtxWarn(ctx, log_messages.SweepLockNotAcquired)
		return nil, apperrors.Conflict("a delinquency sweep is already running")
	}
	defer func() {
		if err := s.lock.ReleaseSweepLock(ctx, owner); err != nil {
			logger.CtxWarn(ctx, "Failed to release sweep lock", slog.String("error", err.Error()))
		}
	}()

	loans, err := s.loans.GetActiveLoans(ctx)
	if err != nil {
		return nil, apperrors.Dependency("failed to load active loans", err)
	}

	logger.CtxInfo(ctx, log_messages.SweepStarted, slog.Int("active_loans", len(loans)))

	summary := &models.SweepSummary{
		LoansChecked: len(loans),
		Results:      make([]models.LoanSweepResult, 0, len(loans)),
	}

	today := calendarDate(time.Now(), location)

	for i := range loans {
		loan := &loans[i]
		result := s.sweepLoan(ctx, loan, &cfg, location, today)
		if result.Outcome == consts.SweepOutcomeMoraApplied {
			summary.FeesApplied++
		}
		summary.Results = append(summary.Results, result)
	}

	logger.CtxInfo(ctx, log_messages.SweepCompleted,
		slog.Int("loans_checked", summary.LoansChecked),
		slog.Int("fees_applied", summary.FeesApplied),
	)
	return summary, nil
}

// sweepLoan handles one loan's iteration. Any failure is captured in the
// loan's own result entry and never aborts the remaining loans.
func (s *Sweep) sweepLoan(
	ctx context.Context,
	loan *dbmodels.Loan,
	cfg *dbmodels.SystemSettings,
	location *time.Location,
	today time.Time,
) models.LoanSweepResult {
	result := models.LoanSweepResult{LoanID: loan.ID.Hex()}

	installments, err := s.installments.GetInstallmentsByLoan(ctx, loan.ID)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorLoadingInstallments, err, slog.String("loan_id", loan.ID.Hex()))
		result.Outcome = consts.SweepOutcomeError
		result.Error = err.Error()
		return result
	}

	nextDue := nextDueInstallment(installments)
	if nextDue == nil {
		result.Outcome = consts.SweepOutcomeSkipped
		result.Reason = consts.SweepSkipNotOverdue
		return result
	}

	dueDate := calendarDate(nextDue.DueDate, location)
	if !dueDate.Before(today) {
		result.Outcome = consts.SweepOutcomeSkipped
		result.Reason = consts.SweepSkipNotOverdue
		return result
	}

	// Idempotency guard: a fee already on the installment means an earlier
	// pass handled it.
	if nextDue.LateFee > 0 {
		result.Outcome = consts.SweepOutcomeSkipped
		result.Reason = consts.SweepSkipAlreadyHasMora
		return result
	}

	if err := s.installments.ApplyLateFee(ctx, nextDue.ID, cfg.LateFeeAmount); err != nil {
		logger.CtxError(ctx, log_messages.ErrorApplyingLateFee, err,
			slog.String("loan_id", loan.ID.Hex()),
			slog.String("installment_id", nextDue.ID.Hex()),
		)
		result.Outcome = consts.SweepOutcomeError
		result.Error = err.Error()
		return result
	}

	logger.CtxInfo(ctx, "Late fee applied",
		slog.String("loan_id", loan.ID.Hex()),
		slog.Int("sequence", nextDue.Sequence),
		slog.Float64("amount", cfg.LateFeeAmount),
	)

	// Fee is persisted; notification failures from here on are logged but
	// never undo the financial change.
	nextDue.LateFee = cfg.LateFeeAmount
	s.notifyOverdue(ctx, loan, nextDue, cfg)

	result.Outcome = consts.SweepOutcomeMoraApplied
	return result
}

// nextDueInstallment scans from the end backward for the last settled
// entry; the candidate is the one immediately after it. Returns nil when
// every installment is settled.
func nextDueInstallment(installments []dbmodels.Installment) *dbmodels.Installment {
	lastSettled := -1
	for i := len(installments) - 1; i >= 0; i-- {
		if isSettled(installments[i].Status) {
			lastSettled = i
			break
		}
	}

	next := lastSettled + 1
	if next >= len(installments) {
		return nil
	}
	return &installments[next]
}

func isSettled(status string) bool {
	for _, settled := range consts.SettledInstallmentStatuses {
		if status == settled {
			return true
		}
	}
	return false
}

// calendarDate truncates a timestamp to its calendar date in the given
// timezone; time of day never participates in overdue comparisons.
func calendarDate(t time.Time, location *time.Location) time.Time {
	year, month, day := t.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// notifyOverdue emits the three in-app candidates (client, advisor,
// admin) plus the outbound message to the client's phone.
func (s *Sweep) notifyOverdue(
	ctx context.Context,
	loan *dbmodels.Loan,
	installment *dbmodels.Installment,
	cfg *dbmodels.SystemSettings,
) {
	link := "/loans/" + loan.ID.Hex()
	title := "Cuota vencida"
	body := fmt.Sprintf("La cuota %d del préstamo venció el %s.",
		installment.Sequence, installment.DueDate.Format("2006-01-02"))

	var client *dbmodels.Client
	if loan.ClientEmail != "" {
		found, err := s.clients.GetClientByEmail(ctx, loan.ClientEmail)
		if err == nil {
			client = found
		}
	}

	advisorEmail := loan.AdvisorEmail
	if advisorEmail == "" && client != nil {
		advisorEmail = client.AdvisorEmail
	}

	if loan.ClientEmail != "" {
		s.insertInAppIfNew(ctx, loan.ID, loan.ClientEmail, "", title, body, link)
	}
	if advisorEmail != "" {
		s.insertInAppIfNew(ctx, loan.ID, advisorEmail, "", title, body, link)
	}
	s.insertInAppIfNew(ctx, loan.ID, "", consts.RoleAdmin, title, body, link)

	s.sendOverdueMessage(ctx, loan, installment, cfg, client)
}

// insertInAppIfNew enforces the unread dedup invariant: at most one
// unread alert per condition per recipient at a time.
func (s *Sweep) insertInAppIfNew(
	ctx context.Context,
	loanID primitive.ObjectID,
	recipientEmail, recipientRole, title, body, link string,
) {
	exists, err := s.inApp.HasUnread(ctx, consts.InAppTypeOverdueAlert, loanID, recipientEmail, recipientRole)
	if err != nil {
		logger.CtxWarn(ctx, "Skipping in-app alert, dedup check failed",
			slog.String("loan_id", loanID.Hex()),
			slog.String("error", err.Error()),
		)
		return
	}
	if exists {
		logger.CtxDebug(ctx, "Unread overdue alert already present",
			slog.String("loan_id", loanID.Hex()),
			slog.String("recipient", recipientEmail+recipientRole),
		)
		return
	}

	notification := dbmodels.InAppNotification{
		RecipientEmail: recipientEmail,
		RecipientRole:  recipientRole,
		Title:          title,
		Body:           body,
		Type:           consts.InAppTypeOverdueAlert,
		Status:         consts.InAppStatusUnread,
		Link:           link,
		RelatedType:    consts.RelatedEntityLoan,
		RelatedID:      loanID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.inApp.InsertNotification(ctx, &notification); err != nil {
		logger.CtxWarn(ctx, "Failed to insert in-app alert",
			slog.String("loan_id", loanID.Hex()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Sweep) sendOverdueMessage(
	ctx context.Context,
	loan *dbmodels.Loan,
	installment *dbmodels.Installment,
	cfg *dbmodels.SystemSettings,
	client *dbmodels.Client,
) {
	if client == nil || client.Phone == "" {
		return
	}

	destination := notify.NormalizePhone(client.Phone, client.CountryCode, cfg.DefaultCountryCode)
	if destination == "" {
		return
	}

	payable := schedule.PayableToday(installment)
	values := map[string]string{
		"name":         client.FullName,
		"amount":       fmt.Sprintf("%.2f", payable),
		"dueDate":      installment.DueDate.Format("2006-01-02"),
		"instructions": cfg.PaymentInstructions,
	}

	body := s.renderer.Render(ctx, consts.StageOverdueFirstDay, consts.ChannelSMS, "es", overdueFallbackBody, values)
	s.notifier.Dispatch(ctx, consts.StageOverdueFirstDay, destination, body)
}
