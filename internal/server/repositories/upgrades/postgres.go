package upgrades

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

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, request *models.UpgradeRequest) error {
	query :=
		`INSERT INTO upgrade_requests (client_id, requested_tier)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		request.ClientID, string(request.RequestedTier)).Scan(&request.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByClient(ctx context.Context, clientID string) (*models.UpgradeRequest, error) {
	query :=
		`SELECT id, client_id, requested_tier, created_at FROM upgrade_requests
		 WHERE client_id = $1
		 `

	request := &models.UpgradeRequest{}
	var tier string
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(
		&request.ID, &request.ClientID, &tier, &request.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	request.RequestedTier = models.Tier(tier)
	return request, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, clientID string) error {
	query :=
		`DELETE FROM upgrade_requests
		 WHERE client_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, clientID)
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

func (r *PostgresRepository) List(ctx context.Context) ([]models.UpgradeRequest, error) {
	query :=
		`SELECT id, client_id, requested_tier, created_at FROM upgrade_requests
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var requests []models.UpgradeRequest
	for rows.Next() {
		var req models.UpgradeRequest
		var tier string
		if err := rows.Scan(&req.ID, &req.ClientID, &tier, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		req.RequestedTier = models.Tier(tier)
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return requests, nil
}
