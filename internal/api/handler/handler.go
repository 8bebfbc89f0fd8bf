package handler

import (
	"context"
	"net/http"

	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/chathub"
	"roomchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ChatService is the chat API the handlers call into.
type ChatService interface {
	CreateRoom(ctx context.Context, p models.Principal, req chat.CreateRoomRequest) (*models.RoomView, error)
	GetRoom(ctx context.Context, p models.Principal, roomID string) (*models.RoomView, error)
	GetRoomsForUser(ctx context.Context, p models.Principal) ([]models.RoomView, error)

	AddParticipant(ctx context.Context, p models.Principal, roomID string, req chat.AddParticipantRequest) (*models.Participant, error)
	RemoveParticipant(ctx context.Context, p models.Principal, roomID string, targetUserID int64) error
	LeaveRoom(ctx context.Context, p models.Principal, roomID string) error

	SendMessage(ctx context.Context, p models.Principal, roomID string, req chat.SendMessageRequest) (*models.MessageView, error)
	GetMessages(ctx context.Context, p models.Principal, roomID string, limit, offset int) ([]models.MessageView, error)
	GetMessagesBefore(ctx context.Context, p models.Principal, roomID string, beforeMessageID int64, limit int) ([]models.MessageView, error)
	EditMessage(ctx context.Context, p models.Principal, messageID int64, req chat.EditMessageRequest) (*models.MessageView, error)
	DeleteMessage(ctx context.Context, p models.Principal, messageID int64) error

	MarkAsRead(ctx context.Context, p models.Principal, roomID string) error
	GetUnreadCount(ctx context.Context, p models.Principal, roomID string) (int64, error)
}

// UserDirectory resolves users when issuing tokens.
type UserDirectory interface {
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)
}

var _ ChatService = (*chat.Service)(nil)

// Handler holds the dependencies of the HTTP and WebSocket endpoints.
type Handler struct {
	Chat   ChatService
	Users  UserDirectory
	Hub    *chathub.ManagerService
	Tokens *TokenIssuer

	// DevTokens mounts POST /auth/token. Identity is owned by the surrounding
	// platform, so production leaves it off.
	DevTokens bool
}

func NewHandler(chatService ChatService, users UserDirectory, hub *chathub.ManagerService, tokens *TokenIssuer) *Handler {
	return &Handler{Chat: chatService, Users: users, Hub: hub, Tokens: tokens}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	if h.DevTokens {
		r.POST("/auth/token", h.IssueToken)
	}
	r.GET("/ws", h.RequireAuth(), h.ServeWebSocket)

	api := r.Group("/api", h.RequireAuth())

	rooms := api.Group("/rooms")
	rooms.GET("", h.ListRooms)
	rooms.POST("", h.CreateRoom)
	rooms.GET("/:roomID", h.GetRoom)
	rooms.GET("/:roomID/messages", h.ListMessages)
	rooms.POST("/:roomID/messages", h.SendMessage)
	rooms.POST("/:roomID/read", h.MarkAsRead)
	rooms.GET("/:roomID/unread", h.UnreadCount)
	rooms.POST("/:roomID/participants", h.AddParticipant)
	rooms.DELETE("/:roomID/participants/:userID", h.RemoveParticipant)
	rooms.POST("/:roomID/leave", h.LeaveRoom)

	messages := api.Group("/messages")
	messages.PATCH("/:messageID", h.EditMessage)
	messages.DELETE("/:messageID", h.DeleteMessage)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
