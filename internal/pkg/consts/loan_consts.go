package consts

// Loan lifecycle statuses
const (
	LoanStatusPending   = "pending"
	LoanStatusActive    = "active"
	LoanStatusPaid      = "paid"
	LoanStatusDefaulted = "defaulted"
)

// Payment frequencies
const (
	FrequencyMonthly  = "monthly"
	FrequencyBiweekly = "biweekly"
)

// Installment statuses
const (
	InstallmentStatusPending             = "pending"
	InstallmentStatusPartiallyPaid       = "partially_paid"
	InstallmentStatusPaid                = "paid"
	InstallmentStatusConfirmed           = "confirmed"
	InstallmentStatusPendingConfirmation = "pending_confirmation"
	InstallmentStatusRejected            = "rejected"
)

// Payment confirmation statuses
const (
	PaymentStatusPendingConfirmation = "pending_confirmation"
	PaymentStatusConfirmed           = "confirmed"
	PaymentStatusRejected            = "rejected"
)

// SettledInstallmentStatuses are the statuses under which an installment is
// not eligible for delinquency. An installment awaiting confirmation must not
// accrue a late fee while the review is open.
var SettledInstallmentStatuses = []string{
	InstallmentStatusPaid,
	InstallmentStatusConfirmed,
	InstallmentStatusPendingConfirmation,
}

// DefaultAdminFee is the flat administrative fee added to every installment
// when the loan does not override it.
const DefaultAdminFee = 20.0

// Days between biweekly installments
const BiweeklyIntervalDays = 15

// ReceiptNumberFormat is the zero-padded receipt identifier pattern.
const ReceiptNumberFormat = "REC-%06d"
