// Package blacklist stores the moderation word list. Words enter as pending
// suggestions and only approved words are ever used for masking.
package blacklist

import (
	"context"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, word string, status models.BlacklistStatus) error
	Approve(ctx context.Context, word string) error
	Remove(ctx context.Context, word string) error
	ListByStatus(ctx context.Context, status models.BlacklistStatus) ([]string, error)
}
