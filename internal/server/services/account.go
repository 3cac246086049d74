// Package services contains server-side business logic. This file implements
// AccountService, which handles signup, login with lockout enforcement,
// tier upgrades, and token top-ups.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/logging"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/auth"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/config"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AccountService provides account-related operations:
// - Signup: create accounts with hashed passwords
// - Login: verify credentials, enforce lockouts, mint JWTs
// - Upgrade flow: request, approve, decline
// - TopUp / Balance: ledger access for the paid tier
type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                          db,
		repomanager:                 m,
		log:                         log.With("service", "account"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Signup creates a new account and its zero token balance row. A taken
// client ID yields common.ErrDuplicate. A client under an active lockout
// cannot open a new free account until the lockout expires.
func (s *AccountService) Signup(ctx context.Context, clientID, password string, tier models.Tier) (*models.Account, error) {
	if !tier.Valid() {
		tier = models.TierFree
	}

	if tier == models.TierFree {
		lockout, err := s.repomanager.Lockouts(s.db).Get(ctx, clientID)
		if err == nil && lockout.Active(time.Now()) {
			return nil, common.ErrLockedOut
		}
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{ClientID: clientID, PasswordHash: string(hash), Tier: tier}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Accounts(tx).Create(ctx, account); err != nil {
			return err
		}
		return s.repomanager.Ledger(tx).EnsureRow(ctx, clientID)
	}); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("error creating account: %v", err)
	}

	s.log.Info(ctx, "account created", "client_id", clientID, "tier", string(tier))
	return account, nil
}

// Login verifies credentials and returns a signed access token. A client
// with an active lockout gets common.ErrLockedOut; stale lockouts are
// cleared here, on the next login after expiry.
func (s *AccountService) Login(ctx context.Context, clientID, password string) (string, *models.Account, error) {
	lockRepo := s.repomanager.Lockouts(s.db)
	lockout, err := lockRepo.Get(ctx, clientID)
	if err == nil {
		if lockout.Active(time.Now()) {
			return "", nil, common.ErrLockedOut
		}
		if err := lockRepo.Delete(ctx, clientID); err != nil {
			return "", nil, common.ErrorInternal
		}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return "", nil, common.ErrorInternal
	}

	account, err := s.repomanager.Accounts(s.db).GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(account.ClientID, account.Tier, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, account, nil
}

// RequestUpgrade records a pending tier upgrade request. A second request by
// the same client is reported as common.ErrDuplicate.
func (s *AccountService) RequestUpgrade(ctx context.Context, clientID string, tier models.Tier) (*models.UpgradeRequest, error) {
	if !tier.Valid() {
		return nil, common.ErrorNotFound
	}
	request := &models.UpgradeRequest{ClientID: clientID, RequestedTier: tier}
	if err := s.repomanager.Upgrades(s.db).Create(ctx, request); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("error creating upgrade request: %v", err)
	}
	return request, nil
}

// ApproveUpgrade flips the account to the requested tier, makes sure a
// ledger row exists, and removes the request, all in one transaction.
func (s *AccountService) ApproveUpgrade(ctx context.Context, clientID string) error {
	request, err := s.repomanager.Upgrades(s.db).GetByClient(ctx, clientID)
	if err != nil {
		return err
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Accounts(tx).UpdateTier(ctx, clientID, request.RequestedTier); err != nil {
			return err
		}
		if err := s.repomanager.Ledger(tx).EnsureRow(ctx, clientID); err != nil {
			return err
		}
		return s.repomanager.Upgrades(tx).Delete(ctx, clientID)
	}); err != nil {
		return fmt.Errorf("error approving upgrade: %v", err)
	}

	s.log.Info(ctx, "upgrade approved", "client_id", clientID, "tier", string(request.RequestedTier))
	return nil
}

// TestEscalate flips a free account straight to the super tier, skipping
// the approval queue. The path exists so moderator features can be tried
// without an existing super account; paid accounts must go through the
// regular upgrade flow. Returns a fresh token carrying the new tier claim.
func (s *AccountService) TestEscalate(ctx context.Context, clientID string) (string, *models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}
	if account.Tier != models.TierFree {
		return "", nil, common.ErrInvariantViolation
	}

	if err := s.repomanager.Accounts(s.db).UpdateTier(ctx, clientID, models.TierSuper); err != nil {
		return "", nil, fmt.Errorf("error escalating account: %v", err)
	}
	account.Tier = models.TierSuper

	token, err := auth.GenerateToken(account.ClientID, account.Tier, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	s.log.Info(ctx, "test escalation to super", "client_id", clientID)
	return token, account, nil
}

// DeclineUpgrade drops the pending request without touching the account.
func (s *AccountService) DeclineUpgrade(ctx context.Context, clientID string) error {
	return s.repomanager.Upgrades(s.db).Delete(ctx, clientID)
}

// ListUpgradeRequests returns all pending upgrade requests, oldest first.
func (s *AccountService) ListUpgradeRequests(ctx context.Context) ([]models.UpgradeRequest, error) {
	return s.repomanager.Upgrades(s.db).List(ctx)
}

// TopUp credits tokens to a client's available balance.
func (s *AccountService) TopUp(ctx context.Context, clientID string, amount int64) error {
	if amount <= 0 {
		return common.ErrInvariantViolation
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ledgerRepo := s.repomanager.Ledger(tx)
		if err := ledgerRepo.EnsureRow(ctx, clientID); err != nil {
			return err
		}
		return ledgerRepo.ApplyDelta(ctx, clientID, amount, 0)
	})
}

// Balance returns the current token balance for a client.
func (s *AccountService) Balance(ctx context.Context, clientID string) (*models.TokenBalance, error) {
	return s.repomanager.Ledger(s.db).GetBalance(ctx, clientID)
}

// History returns the client's most recent submissions, newest first.
func (s *AccountService) History(ctx context.Context, clientID string, limit int) ([]models.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repomanager.Submissions(s.db).ListByClient(ctx, clientID, limit)
}
