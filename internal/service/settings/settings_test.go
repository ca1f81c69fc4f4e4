package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) GetSettings(ctx context.Context) (dbmodels.SystemSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(dbmodels.SystemSettings), args.Error(1)
}

func (m *MockSettingsRepo) UpdateSettings(ctx context.Context, settings dbmodels.SystemSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func currentSettings() dbmodels.SystemSettings {
	return dbmodels.SystemSettings{
		LateFeeEnabled:     true,
		LateFeeAmount:      50,
		Timezone:           "America/Costa_Rica",
		DefaultCountryCode: "506",
	}
}

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("merges partial edit onto current document", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("GetSettings", ctx).Return(currentSettings(), nil)
		repo.On("UpdateSettings", ctx, mock.Anything).Return(nil)
		service := NewService(repo)

		updated, err := service.Update(ctx, &models.UpdateSettingsRequest{
			LateFeeAmount:  floatPtr(75.555),
			SupportContact: stringPtr("soporte@coop.test"),
		})
		require.NoError(t, err)

		assert.Equal(t, 75.56, updated.LateFeeAmount)
		assert.Equal(t, "soporte@coop.test", updated.SupportContact)
		assert.True(t, updated.LateFeeEnabled)
		assert.Equal(t, "America/Costa_Rica", updated.Timezone)

		persisted := repo.Calls[1].Arguments.Get(1).(dbmodels.SystemSettings)
		assert.Equal(t, updated, persisted)
	})

	t.Run("toggle off keeps amount", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("GetSettings", ctx).Return(currentSettings(), nil)
		repo.On("UpdateSettings", ctx, mock.Anything).Return(nil)
		service := NewService(repo)

		updated, err := service.Update(ctx, &models.UpdateSettingsRequest{
			LateFeeEnabled: boolPtr(false),
		})
		require.NoError(t, err)

		assert.False(t, updated.LateFeeEnabled)
		assert.Equal(t, 50.0, updated.LateFeeAmount)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		service := NewService(repo)

		_, err := service.Update(ctx, &models.UpdateSettingsRequest{
			LateFeeAmount: floatPtr(-10),
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpdateSettings")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		service := NewService(repo)

		_, err := service.Update(ctx, &models.UpdateSettingsRequest{
			Timezone: stringPtr("Mars/Olympus"),
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpdateSettings")
	})

	t.Run("persist failure surfaces as dependency error", func(t *testing.T) {
		repo := new(MockSettingsRepo)
		repo.On("GetSettings", ctx).Return(currentSettings(), nil)
		repo.On("UpdateSettings", ctx, mock.Anything).Return(errors.New("write failed"))
		service := NewService(repo)

		_, err := service.Update(ctx, &models.UpdateSettingsRequest{
			LateFeeEnabled: boolPtr(false),
		})
		assert.Error(t, err)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSettingsRepo)
	repo.On("GetSettings", ctx).Return(currentSettings(), nil)
	service := NewService(repo)

	cfg, err := service.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.LateFeeAmount)
}
