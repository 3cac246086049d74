package censorlog

import (
	"context"
	"fmt"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, clientID string, words []string) error {
	query :=
		`INSERT INTO censor_log (client_id, word)
		 VALUES ($1, $2)
		 `

	for _, w := range words {
		if _, err := r.db.ExecContext(ctx, query, clientID, w); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}

func (r *PostgresRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]models.CensorLogEntry, error) {
	query :=
		`SELECT id, client_id, word, created_at FROM censor_log
		 WHERE client_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []models.CensorLogEntry
	for rows.Next() {
		var e models.CensorLogEntry
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Word, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}
