package httpapi

import (
	"net/http"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/services"
	"github.com/gin-gonic/gin"
)

// DocumentHandler serves the metered export flow: export a locked session's
// final text to object storage and hand out presigned download URLs.
type DocumentHandler struct {
	corrections Corrections
	documents   Documents
}

func NewDocumentHandler(corrections Corrections, documents Documents) *DocumentHandler {
	return &DocumentHandler{corrections: corrections, documents: documents}
}

// Export uploads the final text of a locked session and returns a download
// URL. The session is released once the export succeeds.
func (h *DocumentHandler) Export(c *gin.Context) {
	sessionID := c.Param("session_id")
	session, err := h.corrections.Session(sessionID, clientIDOf(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if session.State != services.StateLocked {
		badRequest(c, "session is not finalized")
		return
	}

	download, err := h.documents.Export(c.Request.Context(), clientIDOf(c), tierOf(c), session.FinalText)
	if err != nil {
		writeError(c, err)
		return
	}

	h.corrections.Close(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"document_id": download.DocumentID,
		"url":         download.URL,
		"expires_at":  download.ExpiresAt,
	})
}

func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	download, err := h.documents.DownloadURL(c.Request.Context(), clientIDOf(c), c.Param("document_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"document_id": download.DocumentID,
		"url":         download.URL,
		"expires_at":  download.ExpiresAt,
	})
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	documents, err := h.documents.ListDocuments(c.Request.Context(), clientIDOf(c), intQuery(c, "limit"))
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]gin.H, 0, len(documents))
	for _, d := range documents {
		items = append(items, gin.H{
			"document_id": d.ID,
			"created_at":  d.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"documents": items})
}
