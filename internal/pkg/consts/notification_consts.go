package consts

// Notification channels
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelInApp    = "inapp"
)

// Notification delivery statuses recorded in the ledger
const (
	DeliveryStatusSent      = "sent"
	DeliveryStatusFailed    = "failed"
	DeliveryStatusIgnored   = "ignored"
	DeliveryStatusDelivered = "delivered"
)

// Lifecycle stage keys for outbound notifications
const (
	StageOverdueFirstDay   = "overdue_first_day"
	StagePaymentRegistered = "payment_registered"
	StagePaymentConfirmed  = "payment_confirmed"
	StagePaymentRejected   = "payment_rejected"
)

// In-app notification types and read statuses
const (
	InAppTypeOverdueAlert      = "overdue_alert"
	InAppTypePaymentRegistered = "payment_registered"

	InAppStatusUnread = "unread"
	InAppStatusRead   = "read"
)

// Related entity types for in-app notifications
const (
	RelatedEntityLoan    = "loan"
	RelatedEntityPayment = "payment"
)

// Sweep outcome codes
const (
	SweepOutcomeMoraApplied = "mora_applied"
	SweepOutcomeSkipped     = "skipped"
	SweepOutcomeError       = "error"

	SweepSkipNotOverdue     = "not_overdue"
	SweepSkipAlreadyHasMora = "already_has_mora"
)

// Actor roles
const (
	RoleAdmin   = "admin"
	RoleAdvisor = "advisor"
	RoleClient  = "client"
)

const ContentType = "application/json"
