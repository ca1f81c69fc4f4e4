package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/channels"
	errs "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/channels/error_handling"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/log_messages"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
)

// ChannelResult captures the outcome of one channel's send attempt.
type ChannelResult struct {
	Channel   string
	Status    string
	MessageID string
	Err       error
}

// Dispatcher fans a rendered message out across every configured channel
// and records one ledger row per attempt. Channels fail independently; a
// failure on one never blocks the others.
type Dispatcher struct {
	channels        []channels.Channel
	ledger          interfaces.NotificationLogRepositoryInterface
	dispatchTimeout time.Duration
}

func NewDispatcher(
	outbound []channels.Channel,
	ledger interfaces.NotificationLogRepositoryInterface,
	dispatchTimeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		channels:        outbound,
		ledger:          ledger,
		dispatchTimeout: dispatchTimeout,
	}
}

// Dispatch sends body to recipient on every channel, each under its own
// bounded context so a hung provider cannot stall the caller
// indefinitely. Every attempt gets a ledger entry regardless of outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, stage, recipient, body string) []ChannelResult {
	results := make([]ChannelResult, 0, len(d.channels))

	for _, channel := range d.channels {
		result := d.dispatchOne(ctx, channel, stage, recipient, body)
		results = append(results, result)
	}

	return results
}

func (d *Dispatcher) dispatchOne(
	ctx context.Context,
	channel channels.Channel,
	stage, recipient, body string,
) ChannelResult {
	sendCtx := ctx
	if d.dispatchTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.dispatchTimeout)
		defer cancel()
	}

	result := ChannelResult{Channel: channel.Name()}

	sendResult, err := channel.SendText(sendCtx, recipient, body)
	switch {
	case err != nil:
		result.Status = consts.DeliveryStatusFailed
		result.Err = err
		logger.CtxWarn(ctx, "Notification send failed",
			slog.String("channel", channel.Name()),
			slog.String("stage", stage),
			slog.String("error", err.Error()),
		)
	case sendResult.Ignored:
		result.Status = consts.DeliveryStatusIgnored
	default:
		result.Status = consts.DeliveryStatusSent
		result.MessageID = sendResult.MessageID
	}

	entry := models.NotificationLogEntry{
		Channel:           channel.Name(),
		Stage:             stage,
		Recipient:         recipient,
		Payload:           body,
		Status:            result.Status,
		ProviderMessageID: result.MessageID,
		Attempts:          1,
		CreatedAt:         time.Now().UTC(),
	}
	if result.Err != nil {
		var apiErr *errs.ProviderError
		if errors.As(result.Err, &apiErr) {
			entry.ProviderErrorCode = apiErr.ErrorCode
		}
	}

	if err := d.ledger.InsertEntry(ctx, &entry); err != nil {
		// The send already happened; the missing audit row is logged
		// but does not fail the dispatch.
		logger.CtxError(ctx, log_messages.ErrorInsertingNotificationLog, err,
			slog.String("channel", channel.Name()),
			slog.String("stage", stage),
		)
	}

	return result
}
