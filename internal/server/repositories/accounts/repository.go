package accounts

import (
	"context"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByClientID(ctx context.Context, clientID string) (*models.Account, error)
	UpdateTier(ctx context.Context, clientID string, tier models.Tier) error
}
