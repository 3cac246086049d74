package repomanager

import (
	"context"
	"database/sql"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/accounts"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/blacklist"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/censorlog"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/documents"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/ledger"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/lockouts"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/submissions"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/upgrades"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Ledger(db dbx.DBTX) ledger.Repository
	Blacklist(db dbx.DBTX) blacklist.Repository
	CensorLog(db dbx.DBTX) censorlog.Repository
	Submissions(db dbx.DBTX) submissions.Repository
	Lockouts(db dbx.DBTX) lockouts.Repository
	Upgrades(db dbx.DBTX) upgrades.Repository
	Documents(db dbx.DBTX) documents.Repository
}
