package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/repomanager"
)

// ModerationService manages the blacklist lifecycle and censor-log access.
// Word suggestions are open to any account; approval and log inspection are
// reserved for the super tier by the caller.
type ModerationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewModerationService(db *sql.DB, m repomanager.RepositoryManager) *ModerationService {
	return &ModerationService{db: db, repomanager: m}
}

// SuggestWord files a word as pending. Suggesting an existing word is a
// no-op.
func (s *ModerationService) SuggestWord(ctx context.Context, word string) error {
	return s.repomanager.Blacklist(s.db).Add(ctx, word, models.BlacklistPending)
}

// ApproveWord promotes a pending word; only approved words are masked.
func (s *ModerationService) ApproveWord(ctx context.Context, word string) error {
	return s.repomanager.Blacklist(s.db).Approve(ctx, word)
}

// RejectWord removes a word from the blacklist entirely.
func (s *ModerationService) RejectWord(ctx context.Context, word string) error {
	return s.repomanager.Blacklist(s.db).Remove(ctx, word)
}

// PendingWords lists words awaiting review.
func (s *ModerationService) PendingWords(ctx context.Context) ([]string, error) {
	return s.repomanager.Blacklist(s.db).ListByStatus(ctx, models.BlacklistPending)
}

// ApprovedWords lists the active mask list.
func (s *ModerationService) ApprovedWords(ctx context.Context) ([]string, error) {
	return s.repomanager.Blacklist(s.db).ListByStatus(ctx, models.BlacklistApproved)
}

// CensorLog returns a client's recent censor events, newest first.
func (s *ModerationService) CensorLog(ctx context.Context, clientID string, limit int) ([]models.CensorLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	entries, err := s.repomanager.CensorLog(s.db).ListByClient(ctx, clientID, limit)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}
