package models

// CreatePaymentRequest registers a payment against an installment.
type CreatePaymentRequest struct {
	InstallmentID string  `json:"installment_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentDate   string  `json:"payment_date" binding:"required,datetime=2006-01-02"`
	Method        string  `json:"method" binding:"required"`
	Notes         string  `json:"notes"`
}

// EditPaymentRequest updates a previously registered payment. Any edit
// forces the payment back into review.
type EditPaymentRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
	PaymentDate *string  `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	Method      *string  `json:"method"`
	Notes       *string  `json:"notes"`
}

// ReviewPaymentRequest confirms or rejects a payment under review.
type ReviewPaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=confirm reject"`
	Reason string `json:"reason"`
}

// UpdateInstallmentFeesRequest edits the late or admin fee of one
// installment; the stored total is recomputed in the same write.
type UpdateInstallmentFeesRequest struct {
	LateFee  *float64 `json:"late_fee" binding:"omitempty,gte=0"`
	AdminFee *float64 `json:"admin_fee" binding:"omitempty,gte=0"`
}

// UpdateSettingsRequest partially edits the singleton system settings
// document. Omitted fields keep their current values; the first update
// materializes the document.
type UpdateSettingsRequest struct {
	LateFeeEnabled      *bool    `json:"late_fee_enabled"`
	LateFeeAmount       *float64 `json:"late_fee_amount" validate:"omitempty,gte=0"`
	Timezone            *string  `json:"timezone" validate:"omitempty,timezone"`
	DefaultCountryCode  *string  `json:"default_country_code" validate:"omitempty,numeric"`
	SupportContact      *string  `json:"support_contact"`
	PaymentInstructions *string  `json:"payment_instructions"`
}

// DeliveryWebhookRequest is the normalized shape of an inbound provider
// delivery-status callback. Provider-specific vocabularies are mapped to
// {delivered, failed, other} before ledger correlation.
type DeliveryWebhookRequest struct {
	MessageID string `json:"message_id" form:"MessageSid" binding:"required"`
	Status    string `json:"status" form:"MessageStatus" binding:"required"`
	ErrorCode string `json:"error_code" form:"ErrorCode"`
}
