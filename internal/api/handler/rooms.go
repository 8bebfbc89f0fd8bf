package handler

import (
	"net/http"

	"roomchat/backend/internal/chat"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Chat.GetRoomsForUser(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req chat.CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}

	room, err := h.Chat.CreateRoom(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *Handler) GetRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	room, err := h.Chat.GetRoom(c.Request.Context(), principal(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) AddParticipant(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req chat.AddParticipantRequest
	if !bindJSON(c, &req) {
		return
	}

	participant, err := h.Chat.AddParticipant(c.Request.Context(), principal(c), roomID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

func (h *Handler) RemoveParticipant(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	userID, ok := int64Param(c, "userID")
	if !ok {
		return
	}

	if err := h.Chat.RemoveParticipant(c.Request.Context(), principal(c), roomID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) LeaveRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	if err := h.Chat.LeaveRoom(c.Request.Context(), principal(c), roomID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	if err := h.Chat.MarkAsRead(c.Request.Context(), principal(c), roomID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	count, err := h.Chat.GetUnreadCount(c.Request.Context(), principal(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID, "unread_count": count})
}
