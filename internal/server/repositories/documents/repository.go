package documents

import (
	"context"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, document *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]models.Document, error)
}
