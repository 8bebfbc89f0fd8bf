// Package chat implements the room-based chat core: room creation and
// deduplication, membership, message persistence and read tracking. All
// writes to the chat stores go through Service.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/config"
	"roomchat/backend/internal/models"
	"roomchat/backend/internal/storage"

	"github.com/go-playground/validator/v10"
)

// Service is the ChatService. It is stateless; every call runs in the scope of
// the caller's context and all state lives in the store.
type Service struct {
	Storage  storage.Storage
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a chat service on top of the given storage.
func NewService(s storage.Storage) *Service {
	return &Service{
		Storage:  s,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for read cursors and message stamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateRoomRequest is the body of a room creation call.
type CreateRoomRequest struct {
	MemberIDs []int64 `json:"member_ids" validate:"required,min=1,dive,gt=0"`
	Name      *string `json:"name"`
	// Kind is inferred from the member count when empty.
	Kind models.RoomKind `json:"kind" validate:"omitempty,oneof=direct group"`
}

type AddParticipantRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type SendMessageRequest struct {
	Body             *string            `json:"body"`
	Attachment       *string            `json:"attachment" validate:"omitempty,max=2048"`
	Kind             models.MessageKind `json:"kind" validate:"omitempty,oneof=text image file voice"`
	ReplyToMessageID *int64             `json:"reply_to_message_id" validate:"omitempty,gt=0"`
}

type EditMessageRequest struct {
	Body string `json:"body"`
}

func (s *Service) validateRequest(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.InvalidInput(fmt.Sprintf("%s failed on the '%s' rule", fe.Namespace(), fe.Tag()))
	}
	return apperrors.InvalidInput(err.Error())
}

// normalizeLimit clamps a page size to (0, MaxPageLimit].
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultPageLimit
	}
	if limit > config.MaxPageLimit {
		return config.MaxPageLimit
	}
	return limit
}

// normalizeBody trims the body; blank bodies become nil.
func normalizeBody(body *string) (*string, error) {
	if body == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*body)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > config.MaxBodyLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("message body exceeds %d characters", config.MaxBodyLength))
	}
	return &trimmed, nil
}

func normalizeName(name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > config.MaxRoomNameLen {
		return nil, apperrors.InvalidInput(fmt.Sprintf("room name exceeds %d characters", config.MaxRoomNameLen))
	}
	return &trimmed, nil
}

// authorize loads the room and the caller's membership row and applies the
// access gate. Missing or deleted rooms are NotFound; everything else that
// fails the gate is AccessDenied.
func (s *Service) authorize(ctx context.Context, roomID string, userID int64) (*models.Room, *models.Participant, error) {
	room, err := s.Storage.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	participant, err := s.Storage.GetParticipant(ctx, roomID, userID)
	if err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, nil, err
	}
	if !CanAccess(participant) {
		return nil, nil, apperrors.AccessDenied("not a participant of this room")
	}
	return room, participant, nil
}

// publish emits a message event after commit. Fan-out is best effort: a
// failure here never fails the operation that produced the event.
func (s *Service) publish(ctx context.Context, eventType models.MessageEventType, view models.MessageView) {
	ctx = context.WithoutCancel(ctx)

	participants, err := s.Storage.ListActiveParticipants(ctx, []string{view.RoomID})
	if err != nil {
		log.Printf("WARNING: skip %s event for room %s: %v", eventType, view.RoomID, err)
		return
	}

	event := models.MessageEvent{
		Type:         eventType,
		RoomID:       view.RoomID,
		Message:      view,
		RecipientIDs: memberIDs(participants),
		OccurredAt:   s.now(),
	}
	if err := s.Storage.PublishMessageEvent(ctx, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for room %s: %v", eventType, view.RoomID, err)
	}
}

func memberIDs(participants []models.Participant) []int64 {
	ids := make([]int64, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.UserID)
	}
	return ids
}
