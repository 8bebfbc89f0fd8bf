package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/config"
	"roomchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// RoomStore persists conversation rooms.
type RoomStore interface {
	// CreateRoom inserts the room and its initial participants atomically.
	// A duplicate direct key yields a Conflict error.
	CreateRoom(ctx context.Context, room *models.Room, participants []models.Participant) error
	GetRoomByID(ctx context.Context, roomID string) (*models.Room, error)
	FindDirectRoom(ctx context.Context, directKey string) (*models.Room, error)
	ListRoomsForUser(ctx context.Context, userID int64) ([]models.Room, error)
	SoftDeleteRoom(ctx context.Context, roomID string, at time.Time) error
}

// ParticipantStore persists room membership and read cursors.
type ParticipantStore interface {
	GetParticipant(ctx context.Context, roomID string, userID int64) (*models.Participant, error)
	ListActiveParticipants(ctx context.Context, roomIDs []string) ([]models.Participant, error)
	// ActivateParticipant inserts the membership row or reactivates a left one.
	ActivateParticipant(ctx context.Context, roomID string, userID int64, isAdmin bool, at time.Time) (*models.Participant, error)
	DeactivateParticipant(ctx context.Context, roomID string, userID int64, status models.ParticipantStatus, at time.Time) error
	// AdvanceReadCursor moves last_read_at forward to at. It reports false when
	// the stored cursor was already at or past at.
	AdvanceReadCursor(ctx context.Context, roomID string, userID int64, at time.Time) (bool, error)
}

// MessageStore persists messages and answers the unread queries.
type MessageStore interface {
	// AppendMessage inserts msg and bumps the room's last_message_at in one
	// transaction. CreatedAt is stamped by the store.
	AppendMessage(ctx context.Context, msg *models.Message, now time.Time) error
	GetMessageByID(ctx context.Context, messageID int64) (*models.Message, error)
	ListMessages(ctx context.Context, roomID string, limit, offset int) ([]models.Message, error)
	ListMessagesBefore(ctx context.Context, roomID string, cursor *models.Message, limit int) ([]models.Message, error)
	LatestMessages(ctx context.Context, roomIDs []string) (map[string]models.Message, error)
	UpdateMessageBody(ctx context.Context, messageID int64, body string, at time.Time) error
	SoftDeleteMessage(ctx context.Context, messageID int64, at time.Time) error
	CountUnread(ctx context.Context, userID int64, roomIDs []string) (map[string]int64, error)
}

// UserDirectory resolves user ids to accounts and display fields.
type UserDirectory interface {
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	SetUserActive(ctx context.Context, userID int64, active bool) error
}

type Storage interface {
	RoomStore
	ParticipantStore
	MessageStore
	UserDirectory

	PublishMessageEvent(ctx context.Context, event models.MessageEvent) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. The gorm.DB should be opened with
// TranslateError enabled so unique violations surface as gorm.ErrDuplicatedKey.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates the chat tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Participant{},
		&models.Message{},
	)
}

// PublishMessageEvent publishes the event to the room channel in Redis Pub/Sub.
func (s *Service) PublishMessageEvent(ctx context.Context, event models.MessageEvent) error {
	if s.Redis == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.Redis.Publish(ctx, RoomChannel(event.RoomID), payload).Err()
}

// SubscribeToRoomEvents subscribes to the event channels of every room.
func (s *Service) SubscribeToRoomEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.PSubscribe(ctx, config.RoomChannelPrefix+"*")
}

func RoomChannel(roomID string) string {
	return config.RoomChannelPrefix + roomID
}

// translate maps gorm and driver errors onto the apperrors taxonomy.
func translate(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(fmt.Sprintf("%s already exists", resource), err)
	default:
		log.Printf("ERROR: storage %s failed: %v", op, err)
		return apperrors.Unavailable("store unavailable", fmt.Errorf("%s: %w", op, err))
	}
}

func utc(t time.Time) time.Time {
	return t.UTC().Truncate(config.TimestampResolution)
}
