package blacklist

import (
	"context"
	"fmt"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/textnorm"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, word string, status models.BlacklistStatus) error {
	// Words are stored in canonical form so lookups and masking agree on
	// what counts as the same word.
	word = textnorm.Word(word)
	if word == "" {
		return common.ErrorNotFound
	}

	query :=
		`INSERT INTO blacklist (word, status)
		 VALUES ($1, $2)
		 ON CONFLICT (word) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, word, string(status)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Approve(ctx context.Context, word string) error {
	query :=
		`UPDATE blacklist SET status = 'approved'
		 WHERE word = $1
		 `

	res, err := r.db.ExecContext(ctx, query, textnorm.Word(word))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, word string) error {
	query :=
		`DELETE FROM blacklist
		 WHERE word = $1
		 `

	res, err := r.db.ExecContext(ctx, query, textnorm.Word(word))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status models.BlacklistStatus) ([]string, error) {
	query :=
		`SELECT word FROM blacklist
		 WHERE status = $1
		 ORDER BY word
		 `

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return words, nil
}
