package upgrades

import (
	"context"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type Repository interface {
	// Create records a tier upgrade request. A client can only have one
	// outstanding request; a second one returns common.ErrDuplicate.
	Create(ctx context.Context, request *models.UpgradeRequest) error
	GetByClient(ctx context.Context, clientID string) (*models.UpgradeRequest, error)
	Delete(ctx context.Context, clientID string) error
	List(ctx context.Context) ([]models.UpgradeRequest, error)
}
