package httpapi

import (
	"net/http"
	"strconv"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/services"
	"github.com/gin-gonic/gin"
)

// CorrectionHandler drives the multi-step review flow over HTTP. The session
// ID returned by Submit or SelfCorrect identifies the flow in every later
// call.
type CorrectionHandler struct {
	corrections Corrections
}

func NewCorrectionHandler(corrections Corrections) *CorrectionHandler {
	return &CorrectionHandler{corrections: corrections}
}

type submitRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *CorrectionHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text is required")
		return
	}

	session, err := h.corrections.Submit(c.Request.Context(), clientIDOf(c), tierOf(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *CorrectionHandler) Confirm(c *gin.Context) {
	session, err := h.corrections.Confirm(c.Request.Context(), c.Param("session_id"), clientIDOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *CorrectionHandler) Cancel(c *gin.Context) {
	if err := h.corrections.Cancel(c.Param("session_id"), clientIDOf(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *CorrectionHandler) SelfCorrect(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text is required")
		return
	}

	session, found, err := h.corrections.SelfCorrect(c.Request.Context(), clientIDOf(c), tierOf(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := sessionResponse(session)
	resp["errors_found"] = found
	c.JSON(http.StatusOK, resp)
}

type confirmEditsRequest struct {
	Text string `json:"text"`
}

func (h *CorrectionHandler) ConfirmEdits(c *gin.Context) {
	var req confirmEditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	session, err := h.corrections.ConfirmEdits(c.Request.Context(), c.Param("session_id"), clientIDOf(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *CorrectionHandler) Session(c *gin.Context) {
	session, err := h.corrections.Session(c.Param("session_id"), clientIDOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func sessionResponse(session *services.ReviewSession) gin.H {
	resp := gin.H{
		"session_id": session.ID,
		"state":      stateString(session.State),
		"price":      session.Price,
	}
	if session.CorrectedText != "" {
		resp["corrected_text"] = session.CorrectedText
	}
	if session.Spans != nil {
		resp["spans"] = session.Spans
	}
	if len(session.MaskedWords) > 0 {
		resp["masked_words"] = session.MaskedWords
	}
	if session.State == services.StateLocked {
		resp["final_text"] = session.FinalText
	}
	return resp
}

func stateString(state services.ReviewState) string {
	switch state {
	case services.StateQuoted:
		return "quoted"
	case services.StateAwaitingUserReview:
		return "awaiting_review"
	case services.StateLocked:
		return "locked"
	default:
		return strconv.Itoa(int(state))
	}
}
