package lockouts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, clientID string, expiresAt time.Time) error {
	query :=
		`INSERT INTO lockouts (client_id, expires_at)
		 VALUES ($1, $2)
		 ON CONFLICT (client_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
		 `

	if _, err := r.db.ExecContext(ctx, query, clientID, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, clientID string) (*models.Lockout, error) {
	query :=
		`SELECT client_id, expires_at FROM lockouts
		 WHERE client_id = $1
		 `

	lockout := &models.Lockout{}
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(&lockout.ClientID, &lockout.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return lockout, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, clientID string) error {
	query :=
		`DELETE FROM lockouts
		 WHERE client_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`DELETE FROM lockouts
		 WHERE expires_at <= $1
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
