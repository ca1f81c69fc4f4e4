package log_messages

// Shared log message strings
const (
	FailedLoadingConfiguration = "Failed loading configuration"
	ServerStartFailure         = "Failed to start HTTP server"
	ServerExiting              = "Server exiting"
	CleanupStarted             = "Cleaning up resources..."
	CleanupCompleted           = "Resource cleanup completed"

	SweepStarted             = "Delinquency sweep started"
	SweepCompleted           = "Delinquency sweep completed"
	SweepDisabled            = "Delinquency sweep disabled by settings, nothing to do"
	SweepLockNotAcquired     = "Another delinquency sweep is already running"
	ErrorApplyingLateFee     = "Error applying late fee to installment"
	ErrorLoadingInstallments = "Error loading installments for loan"

	ErrorRegeneratingSchedule = "Error regenerating amortization schedule"
	ScheduleRegenerated       = "Amortization schedule regenerated"

	ErrorApiReturnedError   = "provider API returned an error: %s"
	ErrorUnknownFormatError = "provider API returned an unrecognized error format"

	ErrorInsertingNotificationLog = "Error inserting notification log entry"
	WebhookEntryNotFound          = "No notification log entry matched delivery webhook"
)
