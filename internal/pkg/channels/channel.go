package channels

import "context"

// SendResult is the outcome of one provider send. Ignored marks a channel
// that is configured off and accepted the message without sending it.
type SendResult struct {
	MessageID    string
	ProviderCode string
	Ignored      bool
}

// Channel is one outbound text messaging transport.
type Channel interface {
	Name() string
	SendText(ctx context.Context, recipient, body string) (*SendResult, error)
}

// TemplateSender is implemented by channels that support provider-side
// message templates in addition to free text.
type TemplateSender interface {
	SendTemplate(ctx context.Context, recipient, templateName, language string, parameters []string) (*SendResult, error)
}
