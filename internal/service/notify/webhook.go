package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/log_messages"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
)

// DeliveryStatusOther marks provider statuses that carry no terminal
// delivery information (queued, sending, read receipts and the like).
const DeliveryStatusOther = "other"

// NormalizeDeliveryStatus maps provider-native status vocabulary onto
// {delivered, failed, other}.
func NormalizeDeliveryStatus(providerStatus string) string {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "delivered", "read":
		return consts.DeliveryStatusDelivered
	case "failed", "undelivered", "error", "rejected":
		return consts.DeliveryStatusFailed
	default:
		return DeliveryStatusOther
	}
}

// WebhookProcessor applies asynchronous delivery callbacks to the
// notification ledger.
type WebhookProcessor struct {
	ledger interfaces.NotificationLogRepositoryInterface
}

func NewWebhookProcessor(ledger interfaces.NotificationLogRepositoryInterface) *WebhookProcessor {
	return &WebhookProcessor{ledger: ledger}
}

// ProcessDeliveryStatus correlates a provider callback to the most recent
// ledger entry referencing the provider's message id on that channel and
// upgrades its status. Correlation is best effort: an unknown message id
// and a non-terminal status are both silent no-ops.
func (p *WebhookProcessor) ProcessDeliveryStatus(
	ctx context.Context,
	channel, providerMessageID, providerStatus, providerErrorCode string,
) error {
	status := NormalizeDeliveryStatus(providerStatus)
	if status == DeliveryStatusOther {
		logger.CtxDebug(ctx, "Ignoring non-terminal delivery status",
			slog.String("channel", channel),
			slog.String("provider_status", providerStatus),
		)
		return nil
	}

	entry, err := p.ledger.FindLatestByChannelAndRef(ctx, channel, providerMessageID)
	if err != nil || entry == nil {
		logger.CtxInfo(ctx, log_messages.WebhookEntryNotFound,
			slog.String("channel", channel),
			slog.String("provider_message_id", providerMessageID),
		)
		return nil
	}

	if err := p.ledger.UpdateDeliveryStatus(ctx, entry.ID, status, providerErrorCode); err != nil {
		logger.CtxError(ctx, "Error updating delivery status from webhook", err,
			slog.String("channel", channel),
			slog.String("provider_message_id", providerMessageID),
		)
		return err
	}

	logger.CtxInfo(ctx, "Delivery status updated from webhook",
		slog.String("channel", channel),
		slog.String("status", status),
	)
	return nil
}
