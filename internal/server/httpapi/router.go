package httpapi

import (
	"net/http"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/logging"
	"github.com/gin-gonic/gin"
)

// Services bundles the service dependencies of the router.
type Services struct {
	Accounts    Accounts
	Corrections Corrections
	Moderations Moderations
	Documents   Documents
}

// NewRouter wires all handlers into a gin engine. Routes under /api require
// a valid access token except signup and login; blacklist review and the
// censor log additionally require the super tier.
func NewRouter(svc Services, secretKey []byte, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	accounts := NewAccountHandler(svc.Accounts)
	corrections := NewCorrectionHandler(svc.Corrections)
	moderations := NewModerationHandler(svc.Moderations)
	documents := NewDocumentHandler(svc.Corrections, svc.Documents)

	api := r.Group("/api")
	api.POST("/signup", accounts.Signup)
	api.POST("/login", accounts.Login)

	authed := api.Group("")
	authed.Use(Auth(secretKey))

	authed.GET("/balance", accounts.Balance)
	authed.POST("/topup", accounts.TopUp)
	authed.GET("/history", accounts.History)
	authed.POST("/upgrade", accounts.RequestUpgrade)
	authed.POST("/upgrade/test", accounts.TestEscalate)

	authed.POST("/corrections", corrections.Submit)
	authed.POST("/corrections/self", corrections.SelfCorrect)
	authed.GET("/corrections/:session_id", corrections.Session)
	authed.POST("/corrections/:session_id/confirm", corrections.Confirm)
	authed.POST("/corrections/:session_id/edits", corrections.ConfirmEdits)
	authed.POST("/corrections/:session_id/cancel", corrections.Cancel)
	authed.POST("/corrections/:session_id/export", documents.Export)

	authed.GET("/documents", documents.ListDocuments)
	authed.GET("/documents/:document_id/url", documents.DownloadURL)

	authed.POST("/blacklist", moderations.SuggestWord)

	super := authed.Group("")
	super.Use(RequireSuper())

	super.GET("/blacklist/pending", moderations.PendingWords)
	super.GET("/blacklist/approved", moderations.ApprovedWords)
	super.POST("/blacklist/:word/approve", moderations.ApproveWord)
	super.DELETE("/blacklist/:word", moderations.RejectWord)
	super.GET("/censorlog/:client_id", moderations.CensorLog)
	super.GET("/upgrades", accounts.ListUpgradeRequests)
	super.POST("/upgrades/:client_id/approve", accounts.ApproveUpgrade)
	super.POST("/upgrades/:client_id/decline", accounts.DeclineUpgrade)

	return r
}
