package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	errs "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/channels/error_handling"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/config"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/log_messages"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
)

const (
	whatsAppMessageTypeText     = "text"
	whatsAppMessageTypeTemplate = "template"
)

type WhatsAppChannel struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewWhatsAppChannel builds the WhatsApp transport. An empty API key or
// URL leaves the channel disabled: sends succeed locally and are marked
// ignored.
func NewWhatsAppChannel(cfg config.ProviderConfig) *WhatsAppChannel {
	return &WhatsAppChannel{
		url:    cfg.WhatsAppURL,
		apiKey: cfg.WhatsAppAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

func (c *WhatsAppChannel) Name() string {
	return consts.ChannelWhatsApp
}

func (c *WhatsAppChannel) enabled() bool {
	return c.url != "" && c.apiKey != ""
}

func (c *WhatsAppChannel) SendText(ctx context.Context, recipient, body string) (*SendResult, error) {
	req := models.WhatsAppSendRequest{
		To:   recipient,
		Type: whatsAppMessageTypeText,
		Text: &models.WhatsAppTextBody{Body: body},
	}
	return c.send(ctx, &req)
}

// SendTemplate sends an approved provider-side template with positional
// body parameters.
func (c *WhatsAppChannel) SendTemplate(
	ctx context.Context,
	recipient, templateName, language string,
	parameters []string,
) (*SendResult, error) {
	req := models.WhatsAppSendRequest{
		To:   recipient,
		Type: whatsAppMessageTypeTemplate,
		Template: &models.WhatsAppTemplateBody{
			Name:     templateName,
			Language: language,
			Components: []models.WhatsAppTemplateComponent{
				{Type: "body", Parameters: parameters},
			},
		},
	}
	return c.send(ctx, &req)
}

func (c *WhatsAppChannel) send(ctx context.Context, req *models.WhatsAppSendRequest) (*SendResult, error) {
	if !c.enabled() {
		logger.CtxDebug(ctx, "WhatsApp channel disabled, ignoring send")
		return &SendResult{Ignored: true}, nil
	}

	payload, err := json.Marshal(req)
	if err != nil {
		logger.CtxError(ctx, "failed to marshal WhatsApp provider request", err)
		return nil, errs.NewProviderError(consts.ChannelWhatsApp, fmt.Errorf("marshal request: %w", err))
	}

	logger.CtxInfo(ctx, "Preparing to send WhatsApp message",
		slog.String("url", c.url),
		slog.String("recipient", req.To),
		slog.String("type", req.Type),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(payload))
	if err != nil {
		logger.CtxError(ctx, "failed to build WhatsApp provider request", err)
		return nil, errs.NewProviderError(consts.ChannelWhatsApp, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", consts.ContentType)
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.CtxError(ctx, "failed to send request to WhatsApp provider", err, slog.String("url", c.url))

		// -1 marks that no HTTP response was received
		return nil, errs.NewProviderError(consts.ChannelWhatsApp, fmt.Errorf("failed to send request: %w", err), -1)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.CtxError(ctx, "failed to close WhatsApp provider response body", cerr)
		}
	}()

	logger.CtxInfo(ctx, "Received WhatsApp provider response", slog.Int("status", resp.StatusCode))

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.CtxError(ctx, "failed to read WhatsApp provider response body", err)
		return nil, errs.NewProviderError(consts.ChannelWhatsApp, fmt.Errorf("read response body: %w", err), resp.StatusCode)
	}

	return c.processResponseBody(ctx, resp.StatusCode, bodyBytes)
}

func (c *WhatsAppChannel) processResponseBody(ctx context.Context, statusCode int, bodyBytes []byte) (*SendResult, error) {
	if statusCode == http.StatusOK || statusCode == http.StatusCreated || statusCode == http.StatusAccepted {
		var respData models.WhatsAppSendSuccess
		if err := json.NewDecoder(bytes.NewBuffer(bodyBytes)).Decode(&respData); err != nil {
			logger.CtxError(ctx, "failed to decode WhatsApp provider success response", err)
			return nil, errs.NewProviderError(consts.ChannelWhatsApp, fmt.Errorf("decode success response: %w", err), statusCode)
		}
		return &SendResult{MessageID: respData.MessageID}, nil
	}

	var apiErr errs.ProviderError
	if err := json.NewDecoder(bytes.NewBuffer(bodyBytes)).Decode(&apiErr); err != nil {
		logger.CtxError(ctx, "failed to decode WhatsApp provider error response", err)
		return nil, errs.NewProviderError(consts.ChannelWhatsApp, fmt.Errorf("decode error response: %w", err), statusCode)
	}

	apiErr.Channel = consts.ChannelWhatsApp
	apiErr.StatusCode = statusCode

	var errorMsg string
	if apiErr.ErrorDetails != "" {
		errorMsg = fmt.Sprintf(log_messages.ErrorApiReturnedError, apiErr.ErrorDetails)
	} else {
		errorMsg = log_messages.ErrorUnknownFormatError
	}
	apiErr.Err = errors.New(errorMsg)

	return nil, &apiErr
}
