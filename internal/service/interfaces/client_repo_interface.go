package interfaces

import (
	"context"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
)

type ClientRepositoryInterface interface {
	GetClientByEmail(ctx context.Context, email string) (*models.Client, error)
}
