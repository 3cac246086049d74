package ledger

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

func (r *PostgresRepository) GetBalance(ctx context.Context, clientID string) (*models.TokenBalance, error) {
	query :=
		`SELECT available, used FROM tokens
		 WHERE client_id = $1
		 `

	balance := &models.TokenBalance{ClientID: clientID}
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(&balance.Available, &balance.Used)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return balance, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

func (r *PostgresRepository) EnsureRow(ctx context.Context, clientID string) error {
	query :=
		`INSERT INTO tokens (client_id, available, used)
		 VALUES ($1, 0, 0)
		 ON CONFLICT (client_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ApplyDelta(ctx context.Context, clientID string, deltaAvailable, deltaUsed int64) error {
	// The WHERE clause is the non-negativity guard: a debit larger than the
	// current balance matches no row and leaves the ledger unchanged.
	query :=
		`UPDATE tokens
		 SET available = available + $2, used = used + $3
		 WHERE client_id = $1 AND available + $2 >= 0
		 `

	res, err := r.db.ExecContext(ctx, query, clientID, deltaAvailable, deltaUsed)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		// The balance would go negative. Callers that gate on the user's
		// balance translate this into their insufficient-tokens condition.
		return common.ErrInvariantViolation
	}

	return nil
}
