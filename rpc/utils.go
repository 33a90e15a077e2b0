package rpc

import (
	"errors"
	"net/http"

	"chatbot/common"
	"chatbot/log"

	"github.com/gin-gonic/gin"
)

const (
	MessageRequiredMsg = "Message is required"
	GenerationErrorMsg = "AI Error: Check server logs for details"
	SaveChatErrorMsg   = "Failed to save chat"
	HistoryErrorMsg    = "Failed to fetch chat history"
	InternalError      = "internal server error"
	NotFoundMsg        = "not found"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps err to a status code and a client-safe message. Provider
// and store details only go to the log.
func writeError(c *gin.Context, err error) {
	reqID := c.GetString(RequestIDContextName)
	var upstream *common.UpstreamGenerationError
	var persist *common.PersistenceError
	switch {
	case errors.Is(err, common.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MessageRequiredMsg})
	case errors.As(err, &upstream):
		log.Error("generation failed",
			"request_id", reqID,
			"provider", upstream.Provider,
			"status", upstream.Status,
			"detail", upstream.Detail)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: GenerationErrorMsg})
	case errors.As(err, &persist):
		log.Error("store failed", "request_id", reqID, "op", persist.Op, "error", persist.Err)
		msg := SaveChatErrorMsg
		if persist.Op == common.OpQuery {
			msg = HistoryErrorMsg
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
	default:
		log.Error("request failed", "request_id", reqID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: InternalError})
	}
}
