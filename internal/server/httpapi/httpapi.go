// Package httpapi exposes the correction service over HTTP using gin.
// Handlers translate between JSON requests and the service layer; all
// business rules live in internal/server/services.
package httpapi

import (
	"context"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/services"
)

// Accounts is the slice of AccountService the handlers need.
type Accounts interface {
	Signup(ctx context.Context, clientID, password string, tier models.Tier) (*models.Account, error)
	Login(ctx context.Context, clientID, password string) (string, *models.Account, error)
	RequestUpgrade(ctx context.Context, clientID string, tier models.Tier) (*models.UpgradeRequest, error)
	TestEscalate(ctx context.Context, clientID string) (string, *models.Account, error)
	ApproveUpgrade(ctx context.Context, clientID string) error
	DeclineUpgrade(ctx context.Context, clientID string) error
	ListUpgradeRequests(ctx context.Context) ([]models.UpgradeRequest, error)
	TopUp(ctx context.Context, clientID string, amount int64) error
	Balance(ctx context.Context, clientID string) (*models.TokenBalance, error)
	History(ctx context.Context, clientID string, limit int) ([]models.Submission, error)
}

// Corrections is the slice of CorrectionService the handlers need.
type Corrections interface {
	Submit(ctx context.Context, clientID string, tier models.Tier, text string) (*services.ReviewSession, error)
	Confirm(ctx context.Context, sessionID, clientID string) (*services.ReviewSession, error)
	Cancel(sessionID, clientID string) error
	SelfCorrect(ctx context.Context, clientID string, tier models.Tier, text string) (*services.ReviewSession, []string, error)
	ConfirmEdits(ctx context.Context, sessionID, clientID, editedText string) (*services.ReviewSession, error)
	Session(sessionID, clientID string) (*services.ReviewSession, error)
	Close(sessionID string)
}

// Moderations is the slice of ModerationService the handlers need.
type Moderations interface {
	SuggestWord(ctx context.Context, word string) error
	ApproveWord(ctx context.Context, word string) error
	RejectWord(ctx context.Context, word string) error
	PendingWords(ctx context.Context) ([]string, error)
	ApprovedWords(ctx context.Context) ([]string, error)
	CensorLog(ctx context.Context, clientID string, limit int) ([]models.CensorLogEntry, error)
}

// Documents is the slice of DocumentService the handlers need.
type Documents interface {
	Export(ctx context.Context, clientID string, tier models.Tier, text string) (*models.DocumentDownload, error)
	DownloadURL(ctx context.Context, clientID, documentID string) (*models.DocumentDownload, error)
	ListDocuments(ctx context.Context, clientID string, limit int) ([]models.Document, error)
}
