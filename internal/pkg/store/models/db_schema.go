package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loan is one installment loan issued to a cooperative client.
type Loan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ClientEmail   string             `bson:"clientEmail"`
	AdvisorEmail  string             `bson:"advisorEmail,omitempty"`
	Principal     float64            `bson:"principal"`
	MonthlyRate   float64            `bson:"monthlyRate"`
	TermCount     int                `bson:"termCount"`
	StartDate     time.Time          `bson:"startDate"`
	Frequency     string             `bson:"frequency"`
	AdminFee      float64            `bson:"adminFee,omitempty"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty"`
}

// Installment is one scheduled due-date obligation within a loan's plan.
// Amount always equals principalShare + interestShare + adminFee; the late
// fee is tracked separately and only added at collection time.
type Installment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	LoanID         primitive.ObjectID `bson:"loanId"`
	Sequence       int                `bson:"sequence"`
	DueDate        time.Time          `bson:"dueDate"`
	PrincipalShare float64            `bson:"principalShare"`
	InterestShare  float64            `bson:"interestShare"`
	AdminFee       float64            `bson:"adminFee"`
	LateFee        float64            `bson:"lateFee"`
	Amount         float64            `bson:"amount"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty"`
}

// Payment is a client-submitted payment against one installment.
type Payment struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	LoanID             primitive.ObjectID `bson:"loanId"`
	InstallmentID      primitive.ObjectID `bson:"installmentId"`
	Amount             float64            `bson:"amount"`
	PaymentDate        time.Time          `bson:"paymentDate"`
	Method             string             `bson:"method"`
	Notes              string             `bson:"notes,omitempty"`
	ConfirmationStatus string             `bson:"confirmationStatus"`
	RejectionReason    string             `bson:"rejectionReason,omitempty"`
	Edited             bool               `bson:"edited"`
	ReceiptNumber      string             `bson:"receiptNumber"`
	ReviewedBy         string             `bson:"reviewedBy,omitempty"`
	ReviewedAt         time.Time          `bson:"reviewedAt,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt,omitempty"`
}

// Receipt links a confirmed payment to its printable receipt number.
type Receipt struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	LoanID    primitive.ObjectID `bson:"loanId"`
	PaymentID primitive.ObjectID `bson:"paymentId"`
	Number    string             `bson:"number"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Client is the directory record for a cooperative member.
type Client struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	FullName     string             `bson:"fullName"`
	Phone        string             `bson:"phone,omitempty"`
	CountryCode  string             `bson:"countryCode,omitempty"`
	AdvisorEmail string             `bson:"advisorEmail,omitempty"`
}

// NotificationLogEntry records one outbound message attempt per channel.
// The payload stores the fully rendered message (including the provider
// message id once known) so delivery webhooks can be correlated later.
type NotificationLogEntry struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Channel           string             `bson:"channel"`
	Stage             string             `bson:"stage"`
	Recipient         string             `bson:"recipient"`
	Payload           string             `bson:"payload"`
	Status            string             `bson:"status"`
	ProviderMessageID string             `bson:"providerMessageId,omitempty"`
	ProviderErrorCode string             `bson:"providerErrorCode,omitempty"`
	Attempts          int                `bson:"attempts"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt,omitempty"`
}

// InAppNotification is an alert surfaced inside the back office UI.
// Recipient is either a specific email or a role.
type InAppNotification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	RecipientEmail string             `bson:"recipientEmail,omitempty"`
	RecipientRole  string             `bson:"recipientRole,omitempty"`
	Title          string             `bson:"title"`
	Body           string             `bson:"body"`
	Type           string             `bson:"type"`
	Status         string             `bson:"status"`
	Link           string             `bson:"link,omitempty"`
	RelatedType    string             `bson:"relatedType,omitempty"`
	RelatedID      primitive.ObjectID `bson:"relatedId,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

// SystemSettings is the singleton configuration document, created lazily
// on first write.
type SystemSettings struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	LateFeeEnabled      bool               `bson:"lateFeeEnabled"`
	LateFeeAmount       float64            `bson:"lateFeeAmount"`
	Timezone            string             `bson:"timezone"`
	DefaultCountryCode  string             `bson:"defaultCountryCode"`
	SupportContact      string             `bson:"supportContact,omitempty"`
	PaymentInstructions string             `bson:"paymentInstructions,omitempty"`
	UpdatedAt           time.Time          `bson:"updatedAt,omitempty"`
}

// NotificationTemplate is a locale-specific message body with named
// placeholders.
type NotificationTemplate struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Key     string             `bson:"key"`
	Channel string             `bson:"channel"`
	Locale  string             `bson:"locale"`
	Text    string             `bson:"text"`
	Active  bool               `bson:"active"`
}
