package chat

import (
	"context"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/models"
)

// CanAccess is the access gate: a user may read and write a room iff their
// membership row exists and is active (not left, not removed).
func CanAccess(p *models.Participant) bool {
	return p != nil && p.IsActive()
}

// CanAdminister reports whether the member may add or remove participants.
func CanAdminister(p *models.Participant) bool {
	return CanAccess(p) && p.IsAdmin
}

// CheckAccess reports whether the user is currently an active participant of
// the room.
func (s *Service) CheckAccess(ctx context.Context, roomID string, userID int64) (bool, error) {
	participant, err := s.Storage.GetParticipant(ctx, roomID, userID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return CanAccess(participant), nil
}
