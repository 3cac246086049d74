package submissions

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

func (r *PostgresRepository) Add(ctx context.Context, submission *models.Submission) error {
	query :=
		`INSERT INTO submissions (client_id, original_text, corrected_text, has_grammar_error, tokens_charged)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		submission.ClientID, submission.OriginalText, submission.CorrectedText, submission.HasGrammarError, submission.TokensCharged).
		Scan(&submission.ID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]models.Submission, error) {
	query :=
		`SELECT id, client_id, original_text, corrected_text, has_grammar_error, tokens_charged, created_at FROM submissions
		 WHERE client_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.ClientID, &s.OriginalText, &s.CorrectedText, &s.HasGrammarError, &s.TokensCharged, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}
