package lockouts

import (
	"context"
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type Repository interface {
	// Upsert sets or extends the lockout for a client.
	Upsert(ctx context.Context, clientID string, expiresAt time.Time) error
	// Get returns the lockout for a client or common.ErrorNotFound.
	Get(ctx context.Context, clientID string) (*models.Lockout, error)
	Delete(ctx context.Context, clientID string) error
	// DeleteExpired clears lockouts that ended before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
