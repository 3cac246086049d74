package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL class 23 code for a unique constraint hit.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) error {

	query :=
		`INSERT INTO accounts (client_id, password_hash, tier)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query,
		account.ClientID, account.PasswordHash, string(account.Tier))

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByClientID(ctx context.Context, clientID string) (*models.Account, error) {
	query :=
		`SELECT client_id, password_hash, tier, created_at FROM accounts
		 WHERE client_id = $1
		 `

	account := &models.Account{}
	var tier string
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(
		&account.ClientID, &account.PasswordHash, &tier, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Tier = models.Tier(tier)
	return account, nil
}

func (r *PostgresRepository) UpdateTier(ctx context.Context, clientID string, tier models.Tier) error {
	query :=
		`UPDATE accounts SET tier = $2
		 WHERE client_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, clientID, string(tier))
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
