package submissions

import (
	"context"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, submission *models.Submission) error
	ListByClient(ctx context.Context, clientID string, limit int) ([]models.Submission, error)
}
