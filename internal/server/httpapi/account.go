package httpapi

import (
	"net/http"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/gin-gonic/gin"
)

// AccountHandler serves signup, login, balance, top-up, history and the
// upgrade flow.
type AccountHandler struct {
	accounts Accounts
}

func NewAccountHandler(accounts Accounts) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type signupRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Tier     string `json:"tier"`
}

func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "client_id and password are required")
		return
	}

	account, err := h.accounts.Signup(c.Request.Context(), req.ClientID, req.Password, models.Tier(req.Tier))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"client_id": account.ClientID,
		"tier":      string(account.Tier),
	})
}

type loginRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "client_id and password are required")
		return
	}

	token, account, err := h.accounts.Login(c.Request.Context(), req.ClientID, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"client_id":    account.ClientID,
		"tier":         string(account.Tier),
	})
}

func (h *AccountHandler) Balance(c *gin.Context) {
	balance, err := h.accounts.Balance(c.Request.Context(), clientIDOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available": balance.Available,
		"used":      balance.Used,
	})
}

type topUpRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (h *AccountHandler) TopUp(c *gin.Context) {
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount is required")
		return
	}
	if err := h.accounts.TopUp(c.Request.Context(), clientIDOf(c), req.Amount); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AccountHandler) History(c *gin.Context) {
	limit := intQuery(c, "limit")
	history, err := h.accounts.History(c.Request.Context(), clientIDOf(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]gin.H, 0, len(history))
	for _, s := range history {
		items = append(items, gin.H{
			"id":                s.ID,
			"original_text":     s.OriginalText,
			"corrected_text":    s.CorrectedText,
			"has_grammar_error": s.HasGrammarError,
			"tokens_charged":    s.TokensCharged,
			"created_at":        s.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"submissions": items})
}

type upgradeRequest struct {
	Tier string `json:"tier" binding:"required"`
}

func (h *AccountHandler) RequestUpgrade(c *gin.Context) {
	var req upgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "tier is required")
		return
	}
	request, err := h.accounts.RequestUpgrade(c.Request.Context(), clientIDOf(c), models.Tier(req.Tier))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"client_id":      request.ClientID,
		"requested_tier": string(request.RequestedTier),
	})
}

// TestEscalate turns the caller's free account into a super account and
// hands back a token with the new tier claim, so the next request already
// passes the super gate.
func (h *AccountHandler) TestEscalate(c *gin.Context) {
	token, account, err := h.accounts.TestEscalate(c.Request.Context(), clientIDOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"client_id":    account.ClientID,
		"tier":         string(account.Tier),
	})
}

func (h *AccountHandler) ListUpgradeRequests(c *gin.Context) {
	requests, err := h.accounts.ListUpgradeRequests(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	items := make([]gin.H, 0, len(requests))
	for _, r := range requests {
		items = append(items, gin.H{
			"client_id":      r.ClientID,
			"requested_tier": string(r.RequestedTier),
			"created_at":     r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

func (h *AccountHandler) ApproveUpgrade(c *gin.Context) {
	if err := h.accounts.ApproveUpgrade(c.Request.Context(), c.Param("client_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

func (h *AccountHandler) DeclineUpgrade(c *gin.Context) {
	if err := h.accounts.DeclineUpgrade(c.Request.Context(), c.Param("client_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}
