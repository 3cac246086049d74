package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ModerationHandler serves the blacklist lifecycle. Suggesting a word is
// open to any authenticated account; review and the censor log are behind
// RequireSuper in the router.
type ModerationHandler struct {
	moderations Moderations
}

func NewModerationHandler(moderations Moderations) *ModerationHandler {
	return &ModerationHandler{moderations: moderations}
}

type wordRequest struct {
	Word string `json:"word" binding:"required"`
}

func (h *ModerationHandler) SuggestWord(c *gin.Context) {
	var req wordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "word is required")
		return
	}
	if err := h.moderations.SuggestWord(c.Request.Context(), req.Word); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
}

func (h *ModerationHandler) ApproveWord(c *gin.Context) {
	if err := h.moderations.ApproveWord(c.Request.Context(), c.Param("word")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

func (h *ModerationHandler) RejectWord(c *gin.Context) {
	if err := h.moderations.RejectWord(c.Request.Context(), c.Param("word")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

func (h *ModerationHandler) PendingWords(c *gin.Context) {
	words, err := h.moderations.PendingWords(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

func (h *ModerationHandler) ApprovedWords(c *gin.Context) {
	words, err := h.moderations.ApprovedWords(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

func (h *ModerationHandler) CensorLog(c *gin.Context) {
	entries, err := h.moderations.CensorLog(c.Request.Context(), c.Param("client_id"), intQuery(c, "limit"))
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		items = append(items, gin.H{
			"word":       e.Word,
			"created_at": e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}

// intQuery parses an optional integer query parameter, returning 0 when the
// parameter is absent or malformed.
func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
