package chat

import (
	"context"

	"roomchat/backend/internal/models"
)

// MarkAsRead moves the caller's read cursor to now, or to the room's last
// message stamp when that is ahead of the local clock. The store only ever
// moves it forward, so a delayed call cannot undo a later one.
func (s *Service) MarkAsRead(ctx context.Context, p models.Principal, roomID string) error {
	room, _, err := s.authorize(ctx, roomID, p.UserID)
	if err != nil {
		return err
	}

	at := s.now()
	if room.LastMessageAt != nil && room.LastMessageAt.After(at) {
		at = *room.LastMessageAt
	}
	_, err = s.Storage.AdvanceReadCursor(ctx, roomID, p.UserID, at)
	return err
}

// GetUnreadCount counts the messages of the room the caller has not read yet.
// It is computed from the messages on every call.
func (s *Service) GetUnreadCount(ctx context.Context, p models.Principal, roomID string) (int64, error) {
	if _, _, err := s.authorize(ctx, roomID, p.UserID); err != nil {
		return 0, err
	}
	counts, err := s.Storage.CountUnread(ctx, p.UserID, []string{roomID})
	if err != nil {
		return 0, err
	}
	return counts[roomID], nil
}
