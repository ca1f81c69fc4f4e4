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

type SMSChannel struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewSMSChannel builds the SMS transport. An empty API key or URL leaves
// the channel disabled: sends succeed locally and are marked ignored.
func NewSMSChannel(cfg config.ProviderConfig) *SMSChannel {
	return &SMSChannel{
		url:    cfg.SMSURL,
		apiKey: cfg.SMSAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

func (c *SMSChannel) Name() string {
	return consts.ChannelSMS
}

func (c *SMSChannel) enabled() bool {
	return c.url != "" && c.apiKey != ""
}

func (c *SMSChannel) processResponseBody(ctx context.Context, statusCode int, bodyBytes []byte) (*SendResult, error) {
	if statusCode == http.StatusOK || statusCode == http.StatusCreated || statusCode == http.StatusAccepted {
		var respData models.SMSSendSuccess
		if err := json.NewDecoder(bytes.NewBuffer(bodyBytes)).Decode(&respData); err != nil {
			logger.CtxError(ctx, "failed to decode SMS provider success response", err)
			return nil, errs.NewProviderError(consts.ChannelSMS, fmt.Errorf("decode success response: %w", err), statusCode)
		}
		return &SendResult{MessageID: respData.MessageID}, nil
	}

	var apiErr errs.ProviderError
	if err := json.NewDecoder(bytes.NewBuffer(bodyBytes)).Decode(&apiErr); err != nil {
		logger.CtxError(ctx, "failed to decode SMS provider error response", err)
		return nil, errs.NewProviderError(consts.ChannelSMS, fmt.Errorf("decode error response: %w", err), statusCode)
	}

	apiErr.Channel = consts.ChannelSMS
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

func (c *SMSChannel) SendText(ctx context.Context, recipient, body string) (*SendResult, error) {
	if !c.enabled() {
		logger.CtxDebug(ctx, "SMS channel disabled, ignoring send")
		return &SendResult{Ignored: true}, nil
	}

	payload, err := json.Marshal(models.SMSSendRequest{To: recipient, Body: body})
	if err != nil {
		logger.CtxError(ctx, "failed to marshal SMS provider request", err)
		return nil, errs.NewProviderError(consts.ChannelSMS, fmt.Errorf("marshal request: %w", err))
	}

	logger.CtxInfo(ctx, "Preparing to send SMS",
		slog.String("url", c.url),
		slog.String("recipient", recipient),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(payload))
	if err != nil {
		logger.CtxError(ctx, "failed to build SMS provider request", err)
		return nil, errs.NewProviderError(consts.ChannelSMS, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", consts.ContentType)
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.CtxError(ctx, "failed to send request to SMS provider", err, slog.String("url", c.url))

		// -1 marks that no HTTP response was received
		return nil, errs.NewProviderError(consts.ChannelSMS, fmt.Errorf("failed to send request: %w", err), -1)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.CtxError(ctx, "failed to close SMS provider response body", cerr)
		}
	}()

	logger.CtxInfo(ctx, "Received SMS provider response", slog.Int("status", resp.StatusCode))

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.CtxError(ctx, "failed to read SMS provider response body", err)
		return nil, errs.NewProviderError(consts.ChannelSMS, fmt.Errorf("read response body: %w", err), resp.StatusCode)
	}

	return c.processResponseBody(ctx, resp.StatusCode, bodyBytes)
}
