package httpapi

import (
	"errors"
	"net/http"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/gin-gonic/gin"
)

// writeError maps service-layer sentinel errors to HTTP statuses. Anything
// unrecognized is reported as a 500 without leaking internals.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate"})
	// Lockout and balance errors carry user-facing detail (remaining
	// duration, required vs available counts) in their message.
	case errors.Is(err, common.ErrLockedOut):
		c.JSON(http.StatusLocked, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrInsufficientTokens):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrInstructionLike):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "input looks like an instruction"})
	case errors.Is(err, common.ErrInvariantViolation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request"})
	case errors.Is(err, common.ErrOracleUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "correction service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
