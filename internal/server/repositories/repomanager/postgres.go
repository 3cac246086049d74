// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/migrations"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/accounts"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/blacklist"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/censorlog"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/documents"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/ledger"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/lockouts"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/submissions"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/upgrades"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Ledger(db dbx.DBTX) ledger.Repository {
	return ledger.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Blacklist(db dbx.DBTX) blacklist.Repository {
	return blacklist.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) CensorLog(db dbx.DBTX) censorlog.Repository {
	return censorlog.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Submissions(db dbx.DBTX) submissions.Repository {
	return submissions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Lockouts(db dbx.DBTX) lockouts.Repository {
	return lockouts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Upgrades(db dbx.DBTX) upgrades.Repository {
	return upgrades.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
