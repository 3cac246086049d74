package censorlog

import (
	"context"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type Repository interface {
	// Add records the distinct masked words of one correction event. Each
	// word appears once regardless of how often it was masked in the text.
	Add(ctx context.Context, clientID string, words []string) error
	ListByClient(ctx context.Context, clientID string, limit int) ([]models.CensorLogEntry, error)
}
