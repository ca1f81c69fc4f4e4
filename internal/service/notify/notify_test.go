package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/channels"
	errs "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/channels/error_handling"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

// MockLedgerRepo mocks NotificationLogRepositoryInterface
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) InsertEntry(ctx context.Context, entry *models.NotificationLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) FindLatestByChannelAndRef(ctx context.Context, channel, providerMessageID string) (*models.NotificationLogEntry, error) {
	args := m.Called(ctx, channel, providerMessageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationLogEntry), args.Error(1)
}

func (m *MockLedgerRepo) UpdateDeliveryStatus(ctx context.Context, id primitive.ObjectID, status, providerErrorCode string) error {
	args := m.Called(ctx, id, status, providerErrorCode)
	return args.Error(0)
}

// MockTemplateRepo mocks TemplateRepositoryInterface
type MockTemplateRepo struct {
	mock.Mock
}

func (m *MockTemplateRepo) GetActiveTemplate(ctx context.Context, key, channel, locale string) (*models.NotificationTemplate, error) {
	args := m.Called(ctx, key, channel, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationTemplate), args.Error(1)
}

// stubChannel is a scripted outbound channel
type stubChannel struct {
	name   string
	result *channels.SendResult
	err    error
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) SendText(ctx context.Context, recipient, body string) (*channels.SendResult, error) {
	return s.result, s.err
}

func TestRenderTemplate(t *testing.T) {
	t.Run("substitutes named placeholders", func(t *testing.T) {
		got := RenderTemplate("Hola {name}, su cuota de {amount} vence hoy", map[string]string{
			"name":   "Ana",
			"amount": "795.00",
		})
		assert.Equal(t, "Hola Ana, su cuota de 795.00 vence hoy", got)
	})

	t.Run("leaves unknown placeholders untouched", func(t *testing.T) {
		got := RenderTemplate("Hola {name} {missing}", map[string]string{"name": "Ana"})
		assert.Equal(t, "Hola Ana {missing}", got)
	})

	t.Run("empty values returns text unchanged", func(t *testing.T) {
		assert.Equal(t, "plain", RenderTemplate("plain", nil))
	})
}

func TestRenderer_Render(t *testing.T) {
	ctx := context.Background()

	t.Run("uses active template body", func(t *testing.T) {
		mockTemplates := new(MockTemplateRepo)
		mockTemplates.On("GetActiveTemplate", ctx, "overdue_first_day", "sms", "es").
			Return(&models.NotificationTemplate{Text: "Cuota vencida: {amount}"}, nil)

		renderer := NewRenderer(mockTemplates)
		got := renderer.Render(ctx, "overdue_first_day", "sms", "es", "fallback {amount}", map[string]string{"amount": "50"})

		assert.Equal(t, "Cuota vencida: 50", got)
		mockTemplates.AssertExpectations(t)
	})

	t.Run("falls back when no template is active", func(t *testing.T) {
		mockTemplates := new(MockTemplateRepo)
		mockTemplates.On("GetActiveTemplate", ctx, "overdue_first_day", "sms", "es").
			Return(nil, mongo.ErrNoDocuments)

		renderer := NewRenderer(mockTemplates)
		got := renderer.Render(ctx, "overdue_first_day", "sms", "es", "fallback {amount}", map[string]string{"amount": "50"})

		assert.Equal(t, "fallback 50", got)
	})
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name        string
		phone       string
		clientCode  string
		defaultCode string
		want        string
	}{
		{"international passthrough", "+50688881234", "", "506", "+50688881234"},
		{"double zero prefix", "0050688881234", "", "506", "+50688881234"},
		{"local with default code", "88881234", "", "506", "+50688881234"},
		{"local with client code wins", "88881234", "507", "506", "+50788881234"},
		{"leading zero stripped", "088881234", "", "506", "+50688881234"},
		{"formatting removed", " 8888-1234 ", "", "506", "+50688881234"},
		{"client code with plus", "88881234", "+506", "", "+50688881234"},
		{"no code leaves local", "88881234", "", "", "88881234"},
		{"empty phone", "", "", "506", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.phone, tt.clientCode, tt.defaultCode))
		})
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("fan-out records one ledger row per channel", func(t *testing.T) {
		mockLedger := new(MockLedgerRepo)
		mockLedger.On("InsertEntry", mock.Anything, mock.MatchedBy(func(e *models.NotificationLogEntry) bool {
			return e.Channel == "sms" && e.Status == consts.DeliveryStatusSent && e.ProviderMessageID == "SM1"
		})).Return(nil).Once()
		mockLedger.On("InsertEntry", mock.Anything, mock.MatchedBy(func(e *models.NotificationLogEntry) bool {
			return e.Channel == "whatsapp" && e.Status == consts.DeliveryStatusIgnored
		})).Return(nil).Once()

		dispatcher := NewDispatcher([]channels.Channel{
			&stubChannel{name: "sms", result: &channels.SendResult{MessageID: "SM1"}},
			&stubChannel{name: "whatsapp", result: &channels.SendResult{Ignored: true}},
		}, mockLedger, time.Second)

		results := dispatcher.Dispatch(ctx, consts.StageOverdueFirstDay, "+50688881234", "hola")

		require.Len(t, results, 2)
		assert.Equal(t, consts.DeliveryStatusSent, results[0].Status)
		assert.Equal(t, "SM1", results[0].MessageID)
		assert.Equal(t, consts.DeliveryStatusIgnored, results[1].Status)
		mockLedger.AssertExpectations(t)
	})

	t.Run("one channel failing does not block the next", func(t *testing.T) {
		mockLedger := new(MockLedgerRepo)
		mockLedger.On("InsertEntry", mock.Anything, mock.MatchedBy(func(e *models.NotificationLogEntry) bool {
			return e.Channel == "sms" && e.Status == consts.DeliveryStatusFailed && e.ProviderErrorCode == "21211"
		})).Return(nil).Once()
		mockLedger.On("InsertEntry", mock.Anything, mock.MatchedBy(func(e *models.NotificationLogEntry) bool {
			return e.Channel == "whatsapp" && e.Status == consts.DeliveryStatusSent
		})).Return(nil).Once()

		providerErr := &errs.ProviderError{Channel: "sms", ErrorCode: "21211", Err: errors.New("invalid recipient")}
		dispatcher := NewDispatcher([]channels.Channel{
			&stubChannel{name: "sms", err: providerErr},
			&stubChannel{name: "whatsapp", result: &channels.SendResult{MessageID: "WA1"}},
		}, mockLedger, time.Second)

		results := dispatcher.Dispatch(ctx, consts.StageOverdueFirstDay, "+50688881234", "hola")

		require.Len(t, results, 2)
		assert.Equal(t, consts.DeliveryStatusFailed, results[0].Status)
		assert.Error(t, results[0].Err)
		assert.Equal(t, consts.DeliveryStatusSent, results[1].Status)
		mockLedger.AssertExpectations(t)
	})

	t.Run("ledger failure does not fail the dispatch", func(t *testing.T) {
		mockLedger := new(MockLedgerRepo)
		mockLedger.On("InsertEntry", mock.Anything, mock.Anything).Return(errors.New("mongo down"))

		dispatcher := NewDispatcher([]channels.Channel{
			&stubChannel{name: "sms", result: &channels.SendResult{MessageID: "SM1"}},
		}, mockLedger, time.Second)

		results := dispatcher.Dispatch(ctx, consts.StagePaymentRegistered, "+50688881234", "hola")

		require.Len(t, results, 1)
		assert.Equal(t, consts.DeliveryStatusSent, results[0].Status)
	})
}

func TestNormalizeDeliveryStatus(t *testing.T) {
	assert.Equal(t, consts.DeliveryStatusDelivered, NormalizeDeliveryStatus("delivered"))
	assert.Equal(t, consts.DeliveryStatusDelivered, NormalizeDeliveryStatus("Read"))
	assert.Equal(t, consts.DeliveryStatusFailed, NormalizeDeliveryStatus("undelivered"))
	assert.Equal(t, consts.DeliveryStatusFailed, NormalizeDeliveryStatus("FAILED"))
	assert.Equal(t, DeliveryStatusOther, NormalizeDeliveryStatus("queued"))
	assert.Equal(t, DeliveryStatusOther, NormalizeDeliveryStatus(""))
}

func TestWebhookProcessor_ProcessDeliveryStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("upgrades matched entry", func(t *testing.T) {
		entryID := primitive.NewObjectID()
		mockLedger := new(MockLedgerRepo)
		mockLedger.On("FindLatestByChannelAndRef", ctx, "whatsapp", "WA1").
			Return(&models.NotificationLogEntry{ID: entryID}, nil)
		mockLedger.On("UpdateDeliveryStatus", ctx, entryID, consts.DeliveryStatusDelivered, "").
			Return(nil)

		processor := NewWebhookProcessor(mockLedger)
		err := processor.ProcessDeliveryStatus(ctx, "whatsapp", "WA1", "delivered", "")

		require.NoError(t, err)
		mockLedger.AssertExpectations(t)
	})

	t.Run("unknown message id is a silent no-op", func(t *testing.T) {
		mockLedger := new(MockLedgerRepo)
		mockLedger.On("FindLatestByChannelAndRef", ctx, "sms", "missing").
			Return(nil, mongo.ErrNoDocuments)

		processor := NewWebhookProcessor(mockLedger)
		err := processor.ProcessDeliveryStatus(ctx, "sms", "missing", "failed", "30008")

		require.NoError(t, err)
		mockLedger.AssertNotCalled(t, "UpdateDeliveryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-terminal status skips correlation", func(t *testing.T) {
		mockLedger := new(MockLedgerRepo)

		processor := NewWebhookProcessor(mockLedger)
		err := processor.ProcessDeliveryStatus(ctx, "sms", "SM1", "queued", "")

		require.NoError(t, err)
		mockLedger.AssertNotCalled(t, "FindLatestByChannelAndRef", mock.Anything, mock.Anything, mock.Anything)
	})
}
