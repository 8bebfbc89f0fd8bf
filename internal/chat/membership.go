package chat

import (
	"context"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/models"
)

// AddParticipant adds a user to the room. Only active admins may do it. Adding
// an active member is a no-op; a member who left is reactivated on their
// existing row.
func (s *Service) AddParticipant(ctx context.Context, p models.Principal, roomID string, req AddParticipantRequest) (*models.Participant, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	room, requester, err := s.authorize(ctx, roomID, p.UserID)
	if err != nil {
		return nil, err
	}
	if !CanAdminister(requester) {
		return nil, apperrors.AccessDenied("only admins may add participants")
	}

	if room.Kind == models.RoomKindDirect && !inDirectPair(room, req.UserID) {
		return nil, apperrors.InvalidInput("cannot add participants to a direct room")
	}

	if err := s.requireActiveUsers(ctx, []int64{req.UserID}); err != nil {
		return nil, err
	}

	return s.Storage.ActivateParticipant(ctx, roomID, req.UserID, false, s.now())
}

// RemoveParticipant removes another member from the room. Only active admins
// may do it.
func (s *Service) RemoveParticipant(ctx context.Context, p models.Principal, roomID string, targetUserID int64) error {
	_, requester, err := s.authorize(ctx, roomID, p.UserID)
	if err != nil {
		return err
	}
	if !CanAdminister(requester) {
		return apperrors.AccessDenied("only admins may remove participants")
	}

	return s.Storage.DeactivateParticipant(ctx, roomID, targetUserID, models.ParticipantRemoved, s.now())
}

// LeaveRoom lets any active member leave. The membership row is kept so the
// member's messages stay attributed and a later re-add reuses it.
func (s *Service) LeaveRoom(ctx context.Context, p models.Principal, roomID string) error {
	if _, _, err := s.authorize(ctx, roomID, p.UserID); err != nil {
		return err
	}
	return s.Storage.DeactivateParticipant(ctx, roomID, p.UserID, models.ParticipantLeft, s.now())
}

func inDirectPair(room *models.Room, userID int64) bool {
	a, b, ok := room.DirectPair()
	return ok && (userID == a || userID == b)
}
