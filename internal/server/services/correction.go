package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/guard"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/logging"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/moderation"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/oracle"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/pricing"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/repomanager"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/textdiff"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/textnorm"
	"github.com/google/uuid"
)

// Free-tier submissions above this word count trigger a lockout instead of
// a correction.
const (
	freeWordLimit   = 20
	lockoutDuration = 180 * time.Second

	// bonusThreshold / bonusTokens: submissions longer than the threshold
	// that need no correction earn a small token grant.
	bonusThreshold = 10
	bonusTokens    = 3

	// Review sessions older than this are considered abandoned and dropped
	// from the store.
	sessionTTL = 30 * time.Minute
)

// ReviewState is the position of a review session in the confirmation flow.
type ReviewState int

const (
	// StateQuoted: the price is known, the oracle has not been called.
	StateQuoted ReviewState = iota
	// StateAwaitingUserReview: corrected text and highlights are ready,
	// the user may hand-edit and confirm.
	StateAwaitingUserReview
	// StateLocked: the text is final; the only remaining action is the
	// metered download.
	StateLocked
)

// ReviewSession carries one correction through the multi-step confirmation
// flow. Sessions live in memory only while the flow is in progress. The
// mutex serializes state transitions; two racing confirmations for the same
// session must not both pass the state gate.
type ReviewSession struct {
	mu sync.Mutex

	ID            string
	ClientID      string
	Tier          models.Tier
	State         ReviewState
	OriginalText  string
	CorrectedText string
	FinalText     string
	Spans         []textdiff.Span
	MaskedWords   []string
	Price         int64
	SelfCorrect   bool
	CreatedAt     time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*ReviewSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*ReviewSession)}
}

func (s *sessionStore) put(session *ReviewSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Evict abandoned sessions while we hold the lock anyway. The flow
	// normally deletes its session on cancel or close.
	cutoff := time.Now().Add(-sessionTTL)
	for id, stale := range s.sessions {
		if stale.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
	s.sessions[session.ID] = session
}

func (s *sessionStore) get(id string) (*ReviewSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// CorrectionService orchestrates the correction flow: lockout and balance
// gates, the oracle call, moderation, alignment, and the ledger debits.
type CorrectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	oracle      oracle.Client
	log         logging.Logger
	sessions    *sessionStore
}

func NewCorrectionService(db *sql.DB, m repomanager.RepositoryManager, client oracle.Client, log logging.Logger) *CorrectionService {
	return &CorrectionService{
		db:          db,
		repomanager: m,
		oracle:      client,
		log:         log.With("service", "correction"),
		sessions:    newSessionStore(),
	}
}

// Session returns a live review session owned by the given client.
func (s *CorrectionService) Session(sessionID, clientID string) (*ReviewSession, error) {
	session, ok := s.sessions.get(sessionID)
	if !ok || session.ClientID != clientID {
		return nil, common.ErrorNotFound
	}
	return session, nil
}

// Submit opens a review session for a piece of text.
//
// Free tier: over the word limit the client is locked out for a fixed
// interval and nothing else happens; otherwise the correction runs
// immediately without charge.
//
// Paid tiers: the word-count price is quoted against the balance. An
// unaffordable submission forfeits half the remaining balance as a penalty
// and no oracle call is made. An affordable one returns a Quoted session;
// the oracle runs only on Confirm.
func (s *CorrectionService) Submit(ctx context.Context, clientID string, tier models.Tier, text string) (*ReviewSession, error) {
	if err := s.gate(ctx, clientID, tier, text); err != nil {
		return nil, err
	}

	switch tier {
	case models.TierFree, models.TierSuper:
		return s.submitImmediate(ctx, clientID, tier, text)
	}

	words := int64(pricing.WordCount(text))
	session := s.newSession(clientID, tier, text, words)
	return session, nil
}

// gate applies the admission rules shared by both correction flows: the
// lockout check, the instruction guard, the free-tier word quota, and the
// paid-tier balance check with its half-balance penalty.
func (s *CorrectionService) gate(ctx context.Context, clientID string, tier models.Tier, text string) error {
	if err := s.checkLockout(ctx, clientID); err != nil {
		return err
	}
	if guard.IsInstructionLike(text) {
		return common.ErrInstructionLike
	}

	words := int64(pricing.WordCount(text))

	switch tier {
	case models.TierFree:
		if words > freeWordLimit {
			expires := time.Now().Add(lockoutDuration)
			if err := s.repomanager.Lockouts(s.db).Upsert(ctx, clientID, expires); err != nil {
				return common.ErrorInternal
			}
			s.log.Warn(ctx, "free tier over limit, locked out", "client_id", clientID, "words", words)
			return fmt.Errorf("locked out for %s: %w", lockoutDuration, common.ErrLockedOut)
		}

	case models.TierSuper:
		// Moderator accounts are unmetered.

	default:
		balance, err := s.repomanager.Ledger(s.db).GetBalance(ctx, clientID)
		if err != nil {
			return common.ErrorInternal
		}
		if words > balance.Available {
			if err := s.applyPenalty(ctx, clientID, balance.Available); err != nil {
				return err
			}
			return fmt.Errorf("required %d, available %d: %w",
				words, balance.Available-balance.Available/2, common.ErrInsufficientTokens)
		}
	}
	return nil
}

// submitImmediate runs the correction right away for unpriced tiers: there
// is nothing to quote at price zero.
func (s *CorrectionService) submitImmediate(ctx context.Context, clientID string, tier models.Tier, text string) (*ReviewSession, error) {
	session := s.newSession(clientID, tier, text, 0)
	if err := s.correct(ctx, session); err != nil {
		s.sessions.delete(session.ID)
		return nil, err
	}
	s.logCensoredWords(ctx, clientID, session.MaskedWords)
	return session, nil
}

// Confirm executes a quoted correction: the oracle call, moderation,
// alignment, then the debit and the history row in one transaction. The
// oracle is called before any ledger state is touched, so an unavailable
// oracle leaves the ledger exactly as it was.
func (s *CorrectionService) Confirm(ctx context.Context, sessionID, clientID string) (*ReviewSession, error) {
	session, err := s.Session(sessionID, clientID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.State != StateQuoted {
		return nil, common.ErrInvariantViolation
	}

	if err := s.correct(ctx, session); err != nil {
		return nil, err
	}

	words := int64(pricing.WordCount(session.OriginalText))
	unchanged := session.CorrectedText == textnorm.Punctuation(session.OriginalText)

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ledgerRepo := s.repomanager.Ledger(tx)
		if err := ledgerRepo.ApplyDelta(ctx, clientID, -session.Price, session.Price); err != nil {
			return err
		}
		if words > bonusThreshold && unchanged {
			if err := ledgerRepo.ApplyDelta(ctx, clientID, bonusTokens, 0); err != nil {
				return err
			}
		}
		// Only quoted sessions reach this point, and only the paid flow
		// quotes, so every confirmed correction lands in the history.
		return s.repomanager.Submissions(tx).Add(ctx, &models.Submission{
			ClientID:        clientID,
			OriginalText:    session.OriginalText,
			CorrectedText:   session.CorrectedText,
			HasGrammarError: !unchanged,
			TokensCharged:   session.Price,
		})
	}); err != nil {
		session.State = StateQuoted
		// A refused debit means the balance moved since the quote.
		if errors.Is(err, common.ErrInvariantViolation) || errors.Is(err, common.ErrInsufficientTokens) {
			return nil, common.ErrInsufficientTokens
		}
		return nil, fmt.Errorf("error charging correction: %v", err)
	}

	s.logCensoredWords(ctx, clientID, session.MaskedWords)
	return session, nil
}

// Cancel abandons a session. Nothing is charged regardless of state.
func (s *CorrectionService) Cancel(sessionID, clientID string) error {
	if _, err := s.Session(sessionID, clientID); err != nil {
		return err
	}
	s.sessions.delete(sessionID)
	return nil
}

// SelfCorrect opens a session in which the oracle only points out errors and
// the client fixes the text by hand at half the edit price.
func (s *CorrectionService) SelfCorrect(ctx context.Context, clientID string, tier models.Tier, text string) (*ReviewSession, []string, error) {
	if err := s.gate(ctx, clientID, tier, text); err != nil {
		return nil, nil, err
	}

	found, err := s.oracle.Correct(ctx, text, oracle.ErrorIdentificationOnly)
	if err != nil {
		return nil, nil, common.ErrOracleUnavailable
	}

	session := s.newSession(clientID, tier, text, 0)
	session.SelfCorrect = true
	session.State = StateAwaitingUserReview
	session.CorrectedText = textnorm.Punctuation(text)

	var errorSpans []string
	for _, line := range strings.Split(found, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			errorSpans = append(errorSpans, line)
		}
	}
	return session, errorSpans, nil
}

// ConfirmEdits accepts the user's hand-edited final text. The price is the
// edit cost between the original input and the edited text (halved for
// self-correction sessions), checked against the balance before any debit.
// On success the session moves to Locked.
func (s *CorrectionService) ConfirmEdits(ctx context.Context, sessionID, clientID, editedText string) (*ReviewSession, error) {
	session, err := s.Session(sessionID, clientID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.State != StateAwaitingUserReview {
		return nil, common.ErrInvariantViolation
	}

	if editedText == "" {
		editedText = session.CorrectedText
	}

	// The edit gate is always priced against the original input, not the
	// intermediate corrected text: the user pays for the full distance
	// between what they submitted and what they lock.
	var price int64
	if session.SelfCorrect {
		price = int64(pricing.SelfCorrectCost(session.OriginalText, editedText))
	} else {
		price = int64(pricing.EditCost(session.OriginalText, editedText))
	}
	if session.Tier != models.TierPaid {
		price = 0
	}

	if price > 0 {
		balance, err := s.repomanager.Ledger(s.db).GetBalance(ctx, clientID)
		if err != nil {
			return nil, common.ErrorInternal
		}
		if price > balance.Available {
			// The pending edit stays cancellable; nothing was charged.
			return nil, fmt.Errorf("required %d, available %d: %w",
				price, balance.Available, common.ErrInsufficientTokens)
		}
	}

	// The LLM flow already wrote its history row at Confirm; only the paid
	// self-correction flow records its event here.
	recordHistory := session.Tier == models.TierPaid && session.SelfCorrect

	if price > 0 || recordHistory {
		if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if price > 0 {
				if err := s.repomanager.Ledger(tx).ApplyDelta(ctx, clientID, -price, price); err != nil {
					return err
				}
			}
			if recordHistory {
				return s.repomanager.Submissions(tx).Add(ctx, &models.Submission{
					ClientID:        clientID,
					OriginalText:    session.OriginalText,
					CorrectedText:   editedText,
					HasGrammarError: editedText != textnorm.Punctuation(session.OriginalText),
					TokensCharged:   price,
				})
			}
			return nil
		}); err != nil {
			if errors.Is(err, common.ErrInvariantViolation) || errors.Is(err, common.ErrInsufficientTokens) {
				return nil, common.ErrInsufficientTokens
			}
			return nil, fmt.Errorf("error finalizing review: %v", err)
		}
	}

	session.FinalText = editedText
	session.State = StateLocked
	return session, nil
}

// Close removes a finished session from the store.
func (s *CorrectionService) Close(sessionID string) {
	s.sessions.delete(sessionID)
}

func (s *CorrectionService) newSession(clientID string, tier models.Tier, text string, price int64) *ReviewSession {
	session := &ReviewSession{
		ID:           uuid.New().String(),
		ClientID:     clientID,
		Tier:         tier,
		State:        StateQuoted,
		OriginalText: text,
		Price:        price,
		CreatedAt:    time.Now(),
	}
	s.sessions.put(session)
	return session
}

// correct runs oracle, moderation, and alignment for a session and moves it
// to AwaitingUserReview. No ledger access happens here.
func (s *CorrectionService) correct(ctx context.Context, session *ReviewSession) error {
	original := textnorm.Punctuation(session.OriginalText)

	corrected, err := s.oracle.Correct(ctx, original, oracle.FullCorrection)
	if err != nil {
		return common.ErrOracleUnavailable
	}

	approved, err := s.repomanager.Blacklist(s.db).ListByStatus(ctx, models.BlacklistApproved)
	if err != nil {
		return common.ErrorInternal
	}

	result := moderation.NewFilter(approved).Apply(corrected)

	session.CorrectedText = result.Text
	session.MaskedWords = result.MaskedWords
	session.Spans = textdiff.Highlight(original, result.Text)
	session.State = StateAwaitingUserReview
	return nil
}

// applyPenalty forfeits half of the remaining balance, moving it from
// available to used. A zero balance forfeits nothing.
func (s *CorrectionService) applyPenalty(ctx context.Context, clientID string, available int64) error {
	penalty := available / 2
	if penalty == 0 {
		return nil
	}
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Ledger(tx).ApplyDelta(ctx, clientID, -penalty, penalty)
	}); err != nil {
		return common.ErrorInternal
	}
	s.log.Warn(ctx, "insufficient balance, penalty applied", "client_id", clientID, "penalty", penalty)
	return nil
}

func (s *CorrectionService) checkLockout(ctx context.Context, clientID string) error {
	lockRepo := s.repomanager.Lockouts(s.db)
	lockout, err := lockRepo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}
	if now := time.Now(); lockout.Active(now) {
		return fmt.Errorf("locked out for %s: %w",
			lockout.ExpiresAt.Sub(now).Round(time.Second), common.ErrLockedOut)
	}
	if err := lockRepo.Delete(ctx, clientID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// logCensoredWords records masked words once per distinct word. Logging is
// best-effort: a failure here must not fail the correction.
func (s *CorrectionService) logCensoredWords(ctx context.Context, clientID string, words []string) {
	if len(words) == 0 {
		return
	}
	if err := s.repomanager.CensorLog(s.db).Add(ctx, clientID, words); err != nil {
		s.log.Error(ctx, "censor log write failed", "client_id", clientID, "error", err)
	}
}
