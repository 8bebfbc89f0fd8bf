package handler

import (
	"net/http"
	"strconv"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ListMessages pages through a room newest first, either by offset or, when
// before is given, strictly before that message.
func (h *Handler) ListMessages(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}

	var (
		messages []models.MessageView
		err      error
	)
	if raw := c.Query("before"); raw != "" {
		before, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || before <= 0 {
			respondError(c, apperrors.InvalidInput("invalid before"))
			return
		}
		messages, err = h.Chat.GetMessagesBefore(c.Request.Context(), principal(c), roomID, before, limit)
	} else {
		offset, ok := intQuery(c, "offset", 0)
		if !ok {
			return
		}
		messages, err = h.Chat.GetMessages(c.Request.Context(), principal(c), roomID, limit, offset)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) SendMessage(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req chat.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.Chat.SendMessage(c.Request.Context(), principal(c), roomID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) EditMessage(c *gin.Context) {
	messageID, ok := int64Param(c, "messageID")
	if !ok {
		return
	}
	var req chat.EditMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.Chat.EditMessage(c.Request.Context(), principal(c), messageID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	messageID, ok := int64Param(c, "messageID")
	if !ok {
		return
	}

	if err := h.Chat.DeleteMessage(c.Request.Context(), principal(c), messageID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
