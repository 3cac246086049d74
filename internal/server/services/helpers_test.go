package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/logging"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	accountsrepo "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/accounts"
	blacklistrepo "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/blacklist"
	censorlogrepo "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/censorlog"
	documentsrepo "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/documents"
	ledgerrepo "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/ledger"
	lockoutsrepo "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/lockouts"
	submissionsrepo "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/submissions"
	upgradesrepo "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/upgrades"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeAccountsRepo struct {
	accounts  map[string]*models.Account
	createErr error
	tierSet   models.Tier
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{accounts: make(map[string]*models.Account)}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, account *models.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.accounts[account.ClientID]; ok {
		return common.ErrDuplicate
	}
	f.accounts[account.ClientID] = account
	return nil
}

func (f *fakeAccountsRepo) GetByClientID(ctx context.Context, clientID string) (*models.Account, error) {
	account, ok := f.accounts[clientID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return account, nil
}

func (f *fakeAccountsRepo) UpdateTier(ctx context.Context, clientID string, tier models.Tier) error {
	account, ok := f.accounts[clientID]
	if !ok {
		return common.ErrorNotFound
	}
	account.Tier = tier
	f.tierSet = tier
	return nil
}

type fakeLedgerRepo struct {
	available int64
	used      int64
	ensured   bool
	getErr    error
	applyErr  error
}

func (f *fakeLedgerRepo) GetBalance(ctx context.Context, clientID string) (*models.TokenBalance, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.TokenBalance{ClientID: clientID, Available: f.available, Used: f.used}, nil
}

func (f *fakeLedgerRepo) EnsureRow(ctx context.Context, clientID string) error {
	f.ensured = true
	return nil
}

func (f *fakeLedgerRepo) ApplyDelta(ctx context.Context, clientID string, deltaAvailable, deltaUsed int64) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	if f.available+deltaAvailable < 0 {
		return common.ErrInvariantViolation
	}
	f.available += deltaAvailable
	f.used += deltaUsed
	return nil
}

type fakeLockoutsRepo struct {
	lockout   *models.Lockout
	upserted  *models.Lockout
	deleted   bool
	upsertErr error
}

func (f *fakeLockoutsRepo) Upsert(ctx context.Context, clientID string, expiresAt time.Time) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = &models.Lockout{ClientID: clientID, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeLockoutsRepo) Get(ctx context.Context, clientID string) (*models.Lockout, error) {
	if f.lockout == nil {
		return nil, common.ErrorNotFound
	}
	return f.lockout, nil
}

func (f *fakeLockoutsRepo) Delete(ctx context.Context, clientID string) error {
	f.deleted = true
	f.lockout = nil
	return nil
}

func (f *fakeLockoutsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeBlacklistRepo struct {
	approved []string
	pending  []string
	listErr  error
}

func (f *fakeBlacklistRepo) Add(ctx context.Context, word string, status models.BlacklistStatus) error {
	f.pending = append(f.pending, word)
	return nil
}
func (f *fakeBlacklistRepo) Approve(ctx context.Context, word string) error { return nil }
func (f *fakeBlacklistRepo) Remove(ctx context.Context, word string) error  { return nil }
func (f *fakeBlacklistRepo) ListByStatus(ctx context.Context, status models.BlacklistStatus) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if status == models.BlacklistApproved {
		return f.approved, nil
	}
	return f.pending, nil
}

type fakeCensorLogRepo struct {
	added     [][]string
	addErr    error
	entries   []models.CensorLogEntry
	lastLimit int
	listErr   error
}

func (f *fakeCensorLogRepo) Add(ctx context.Context, clientID string, words []string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, words)
	return nil
}

func (f *fakeCensorLogRepo) ListByClient(ctx context.Context, clientID string, limit int) ([]models.CensorLogEntry, error) {
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

type fakeSubmissionsRepo struct {
	added  []*models.Submission
	addErr error
}

func (f *fakeSubmissionsRepo) Add(ctx context.Context, submission *models.Submission) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, submission)
	return nil
}

func (f *fakeSubmissionsRepo) ListByClient(ctx context.Context, clientID string, limit int) ([]models.Submission, error) {
	return nil, nil
}

type fakeUpgradesRepo struct {
	requests  map[string]*models.UpgradeRequest
	createErr error
	deleted   bool
}

func newFakeUpgradesRepo() *fakeUpgradesRepo {
	return &fakeUpgradesRepo{requests: make(map[string]*models.UpgradeRequest)}
}

func (f *fakeUpgradesRepo) Create(ctx context.Context, request *models.UpgradeRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.requests[request.ClientID]; ok {
		return common.ErrDuplicate
	}
	f.requests[request.ClientID] = request
	return nil
}

func (f *fakeUpgradesRepo) GetByClient(ctx context.Context, clientID string) (*models.UpgradeRequest, error) {
	request, ok := f.requests[clientID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return request, nil
}

func (f *fakeUpgradesRepo) Delete(ctx context.Context, clientID string) error {
	if _, ok := f.requests[clientID]; !ok {
		return common.ErrorNotFound
	}
	delete(f.requests, clientID)
	f.deleted = true
	return nil
}

func (f *fakeUpgradesRepo) List(ctx context.Context) ([]models.UpgradeRequest, error) {
	var out []models.UpgradeRequest
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

type fakeDocumentsRepo struct {
	created []*models.Document
}

func (f *fakeDocumentsRepo) Create(ctx context.Context, document *models.Document) error {
	f.created = append(f.created, document)
	return nil
}

func (f *fakeDocumentsRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	for _, d := range f.created {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeDocumentsRepo) ListByClient(ctx context.Context, clientID string, limit int) ([]models.Document, error) {
	var out []models.Document
	for _, d := range f.created {
		if d.ClientID == clientID {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	accounts    *fakeAccountsRepo
	ledger      *fakeLedgerRepo
	lockouts    *fakeLockoutsRepo
	blacklist   *fakeBlacklistRepo
	censorlog   *fakeCensorLogRepo
	submissions *fakeSubmissionsRepo
	upgrades    *fakeUpgradesRepo
	documents   *fakeDocumentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts:    newFakeAccountsRepo(),
		ledger:      &fakeLedgerRepo{},
		lockouts:    &fakeLockoutsRepo{},
		blacklist:   &fakeBlacklistRepo{},
		censorlog:   &fakeCensorLogRepo{},
		submissions: &fakeSubmissionsRepo{},
		upgrades:    newFakeUpgradesRepo(),
		documents:   &fakeDocumentsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository { return m.accounts }
func (m *fakeRepoManager) Ledger(db dbx.DBTX) ledgerrepo.Repository     { return m.ledger }
func (m *fakeRepoManager) Blacklist(db dbx.DBTX) blacklistrepo.Repository {
	return m.blacklist
}
func (m *fakeRepoManager) CensorLog(db dbx.DBTX) censorlogrepo.Repository { return m.censorlog }
func (m *fakeRepoManager) Submissions(db dbx.DBTX) submissionsrepo.Repository {
	return m.submissions
}
func (m *fakeRepoManager) Lockouts(db dbx.DBTX) lockoutsrepo.Repository   { return m.lockouts }
func (m *fakeRepoManager) Upgrades(db dbx.DBTX) upgradesrepo.Repository   { return m.upgrades }
func (m *fakeRepoManager) Documents(db dbx.DBTX) documentsrepo.Repository { return m.documents }
