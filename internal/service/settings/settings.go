package settings

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/money"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
)

var validate *validator.Validate = validator.New()

// Service owns the singleton system settings document read by the sweep
// and the notification renderer.
type Service struct {
	settings interfaces.SettingsRepositoryInterface
}

func NewService(settings interfaces.SettingsRepositoryInterface) *Service {
	return &Service{settings: settings}
}

func (s *Service) Get(ctx context.Context) (dbmodels.SystemSettings, error) {
	cfg, err := s.settings.GetSettings(ctx)
	if err != nil {
		return dbmodels.SystemSettings{}, apperrors.Dependency("failed to load system settings", err)
	}
	return cfg, nil
}

// Update merges a partial edit onto the current settings and persists the
// result. The first update materializes the document; until then reads
// serve configured defaults.
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (dbmodels.SystemSettings, error) {
	if err := validate.Struct(req); err != nil {
		return dbmodels.SystemSettings{}, apperrors.Validation(err.Error())
	}

	current, err := s.settings.GetSettings(ctx)
	if err != nil {
		return dbmodels.SystemSettings{}, apperrors.Dependency("failed to load system settings", err)
	}

	if req.LateFeeEnabled != nil {
		current.LateFeeEnabled = *req.LateFeeEnabled
	}
	if req.LateFeeAmount != nil {
		current.LateFeeAmount = money.Round2(*req.LateFeeAmount)
	}
	if req.Timezone != nil {
		current.Timezone = *req.Timezone
	}
	if req.DefaultCountryCode != nil {
		current.DefaultCountryCode = *req.DefaultCountryCode
	}
	if req.SupportContact != nil {
		current.SupportContact = *req.SupportContact
	}
	if req.PaymentInstructions != nil {
		current.PaymentInstructions = *req.PaymentInstructions
	}

	if err := s.settings.UpdateSettings(ctx, current); err != nil {
		return dbmodels.SystemSettings{}, apperrors.Dependency("failed to persist system settings", err)
	}
	return current, nil
}
