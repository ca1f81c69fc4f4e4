package consts

// Mongo collection names
const (
	LoanCollection                 = "loans"
	InstallmentCollection          = "installments"
	PaymentCollection              = "payments"
	ReceiptCollection              = "receipts"
	ClientCollection               = "clients"
	NotificationLogCollection      = "notificationLogs"
	InAppNotificationCollection    = "inAppNotifications"
	SystemSettingsCollection       = "systemSettings"
	NotificationTemplateCollection = "notificationTemplates"
)
