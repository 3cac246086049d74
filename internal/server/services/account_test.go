package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/auth"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/config"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
	}
}

func TestSignup_CreatesAccountAndLedgerRow(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	account, err := s.Signup(context.Background(), "alice", "hunter2", models.TierPaid)
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if account.Tier != models.TierPaid {
		t.Fatalf("unexpected tier: %v", account.Tier)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("hunter2")) != nil {
		t.Fatal("password hash does not verify")
	}
	if !rm.ledger.ensured {
		t.Fatal("ledger row not created")
	}
}

func TestSignup_InvalidTierDefaultsToFree(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	account, err := s.Signup(context.Background(), "alice", "hunter2", models.Tier("X"))
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if account.Tier != models.TierFree {
		t.Fatalf("unexpected tier: %v", account.Tier)
	}
}

func TestSignup_DuplicateClientID(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	if _, err := s.Signup(context.Background(), "alice", "hunter2", models.TierFree); err != nil {
		t.Fatalf("first Signup error: %v", err)
	}
	_, err := s.Signup(context.Background(), "alice", "other", models.TierFree)
	if !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	cfg := testConfig()
	s := NewAccountService(db, rm, nopLogger{}, cfg)

	if _, err := s.Signup(context.Background(), "alice", "hunter2", models.TierPaid); err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	token, account, err := s.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if account.ClientID != "alice" {
		t.Fatalf("unexpected account: %+v", account)
	}

	claims, err := auth.ParseToken(token, []byte(cfg.SecretKey))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.ClientID != "alice" || claims.Tier != models.TierPaid {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	if _, err := s.Signup(context.Background(), "alice", "hunter2", models.TierFree); err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	_, _, err := s.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownClient(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	_, _, err := s.Login(context.Background(), "nobody", "hunter2")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_ActiveLockoutRejected(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.lockouts.lockout = &models.Lockout{ClientID: "alice", ExpiresAt: time.Now().Add(time.Minute)}
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	_, _, err := s.Login(context.Background(), "alice", "hunter2")
	if !errors.Is(err, common.ErrLockedOut) {
		t.Fatalf("want ErrLockedOut, got %v", err)
	}
}

func TestLogin_StaleLockoutCleared(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.lockouts.lockout = &models.Lockout{ClientID: "alice", ExpiresAt: time.Now().Add(-time.Minute)}
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	if _, err := s.Signup(context.Background(), "alice", "hunter2", models.TierFree); err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if _, _, err := s.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !rm.lockouts.deleted {
		t.Fatal("stale lockout must be cleared on login")
	}
}

func TestRequestUpgrade_Duplicate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	if _, err := s.RequestUpgrade(context.Background(), "alice", models.TierPaid); err != nil {
		t.Fatalf("RequestUpgrade error: %v", err)
	}
	_, err := s.RequestUpgrade(context.Background(), "alice", models.TierSuper)
	if !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestApproveUpgrade_UpdatesTierAndDropsRequest(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin() // signup
	mock.ExpectCommit()
	mock.ExpectBegin() // approve
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	if _, err := s.Signup(context.Background(), "alice", "hunter2", models.TierFree); err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if _, err := s.RequestUpgrade(context.Background(), "alice", models.TierPaid); err != nil {
		t.Fatalf("RequestUpgrade error: %v", err)
	}
	if err := s.ApproveUpgrade(context.Background(), "alice"); err != nil {
		t.Fatalf("ApproveUpgrade error: %v", err)
	}
	if rm.accounts.tierSet != models.TierPaid {
		t.Fatalf("tier not updated: %v", rm.accounts.tierSet)
	}
	if !rm.upgrades.deleted {
		t.Fatal("upgrade request must be removed")
	}
}

func TestApproveUpgrade_NoPendingRequest(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	err := s.ApproveUpgrade(context.Background(), "alice")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestTopUp_CreditsBalance(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	if err := s.TopUp(context.Background(), "alice", 40); err != nil {
		t.Fatalf("TopUp error: %v", err)
	}
	if rm.ledger.available != 40 || rm.ledger.used != 0 {
		t.Fatalf("unexpected balance: %+v", rm.ledger)
	}
}

func TestTopUp_NonPositiveAmountRejected(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	for _, amount := range []int64{0, -5} {
		if err := s.TopUp(context.Background(), "alice", amount); !errors.Is(err, common.ErrInvariantViolation) {
			t.Fatalf("amount %d: want ErrInvariantViolation, got %v", amount, err)
		}
	}
	if rm.ledger.available != 0 {
		t.Fatalf("balance must be untouched: %+v", rm.ledger)
	}
}

func TestSignup_LockedOutClientCannotOpenFreeAccount(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.lockouts.lockout = &models.Lockout{ClientID: "alice", ExpiresAt: time.Now().Add(time.Minute)}
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	_, err := s.Signup(context.Background(), "alice", "hunter2", models.TierFree)
	if !errors.Is(err, common.ErrLockedOut) {
		t.Fatalf("want ErrLockedOut, got %v", err)
	}
	if len(rm.accounts.accounts) != 0 {
		t.Fatalf("no account may be created: %+v", rm.accounts.accounts)
	}
}

func TestTestEscalate_FreeBecomesSuper(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.accounts.accounts["alice"] = &models.Account{ClientID: "alice", Tier: models.TierFree}
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	token, account, err := s.TestEscalate(context.Background(), "alice")
	if err != nil {
		t.Fatalf("TestEscalate error: %v", err)
	}
	if account.Tier != models.TierSuper || rm.accounts.tierSet != models.TierSuper {
		t.Fatalf("tier not flipped: %+v", account)
	}

	// the fresh token must already carry the super claim
	claims, err := auth.ParseToken(token, []byte(testConfig().SecretKey))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Tier != models.TierSuper {
		t.Fatalf("unexpected token tier: %v", claims.Tier)
	}
}

func TestTestEscalate_PaidAccountRejected(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.accounts.accounts["bob"] = &models.Account{ClientID: "bob", Tier: models.TierPaid}
	s := NewAccountService(db, rm, nopLogger{}, testConfig())

	_, _, err := s.TestEscalate(context.Background(), "bob")
	if !errors.Is(err, common.ErrInvariantViolation) {
		t.Fatalf("want ErrInvariantViolation, got %v", err)
	}
	if rm.accounts.accounts["bob"].Tier != models.TierPaid {
		t.Fatal("tier must be untouched")
	}
}
