package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, document *models.Document) error {
	query :=
		`INSERT INTO documents (id, client_id, storage_key)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query,
		document.ID, document.ClientID, document.StorageKey)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query :=
		`SELECT id, client_id, storage_key, created_at FROM documents
		 WHERE id = $1
		 `

	document := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&document.ID, &document.ClientID, &document.StorageKey, &document.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return document, nil
}

func (r *PostgresRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]models.Document, error) {
	query :=
		`SELECT id, client_id, storage_key, created_at FROM documents
		 WHERE client_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.ClientID, &d.StorageKey, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}
