package models

// SMSSendRequest is the outbound payload for the SMS provider.
type SMSSendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SMSSendSuccess is the SMS provider's accepted response.
type SMSSendSuccess struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status,omitempty"`
}

// WhatsAppTextBody carries the plain text variant of a WhatsApp send.
type WhatsAppTextBody struct {
	Body string `json:"body"`
}

// WhatsAppTemplateComponent is one named parameter block of an approved
// template message.
type WhatsAppTemplateComponent struct {
	Type       string   `json:"type"`
	Parameters []string `json:"parameters"`
}

// WhatsAppTemplateBody identifies an approved template plus its
// substitution parameters.
type WhatsAppTemplateBody struct {
	Name       string                      `json:"name"`
	Language   string                      `json:"language"`
	Components []WhatsAppTemplateComponent `json:"components,omitempty"`
}

// WhatsAppSendRequest is the outbound payload for the WhatsApp provider.
// Exactly one of Text or Template is set depending on Type.
type WhatsAppSendRequest struct {
	To       string                `json:"to"`
	Type     string                `json:"type"`
	Text     *WhatsAppTextBody     `json:"text,omitempty"`
	Template *WhatsAppTemplateBody `json:"template,omitempty"`
}

// WhatsAppSendSuccess is the WhatsApp provider's accepted response.
type WhatsAppSendSuccess struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status,omitempty"`
}
