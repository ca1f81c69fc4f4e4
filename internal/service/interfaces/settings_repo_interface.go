package interfaces

import (
	"context"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

type SettingsRepositoryInterface interface {
	// GetSettings returns the singleton settings document, materializing
	// defaults on first read.
	GetSettings(ctx context.Context) (models.SystemSettings, error)
	UpdateSettings(ctx context.Context, settings models.SystemSettings) error
}
