package storage

import (
	"context"
	"errors"
	"time"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetParticipant returns the membership row of the user in the room, whatever
// its status.
func (s *Service) GetParticipant(ctx context.Context, roomID string, userID int64) (*models.Participant, error) {
	var participant models.Participant
	err := s.DB.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&participant).Error
	if err != nil {
		return nil, translate("get participant", "participant", err)
	}
	return &participant, nil
}

// ListActiveParticipants returns the active rows of all given rooms in one query.
func (s *Service) ListActiveParticipants(ctx context.Context, roomIDs []string) ([]models.Participant, error) {
	var participants []models.Participant
	if len(roomIDs) == 0 {
		return participants, nil
	}
	err := s.DB.WithContext(ctx).
		Where("room_id IN ? AND status = ?", roomIDs, models.ParticipantActive).
		Order("joined_at ASC").
		Order("id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, translate("list participants", "participant", err)
	}
	return participants, nil
}

// ActivateParticipant makes the user an active member of the room. An existing
// active row is returned untouched; a left or removed row is reactivated so the
// (room, user) identity stays unique.
func (s *Service) ActivateParticipant(ctx context.Context, roomID string, userID int64, isAdmin bool, at time.Time) (*models.Participant, error) {
	var participant models.Participant

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND user_id = ?", roomID, userID).
			First(&participant).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			participant = models.Participant{
				RoomID:   roomID,
				UserID:   userID,
				IsAdmin:  isAdmin,
				Status:   models.ParticipantActive,
				JoinedAt: utc(at),
			}
			return tx.Create(&participant).Error
		}
		if err != nil {
			return err
		}

		if participant.IsActive() {
			return nil
		}

		participant.Status = models.ParticipantActive
		participant.LeftAt = nil
		participant.IsAdmin = isAdmin
		participant.JoinedAt = utc(at)
		return tx.Model(&participant).Updates(map[string]interface{}{
			"status":    participant.Status,
			"left_at":   gorm.Expr("NULL"),
			"is_admin":  participant.IsAdmin,
			"joined_at": participant.JoinedAt,
		}).Error
	})

	// Two concurrent first-time adds: the loser re-reads the winner's row.
	if apperrors.Is(translate("activate participant", "participant", err), apperrors.KindConflict) {
		return s.GetParticipant(ctx, roomID, userID)
	}
	if err != nil {
		return nil, translate("activate participant", "participant", err)
	}
	return &participant, nil
}

// DeactivateParticipant soft-deletes an active membership row.
func (s *Service) DeactivateParticipant(ctx context.Context, roomID string, userID int64, status models.ParticipantStatus, at time.Time) error {
	result := s.DB.WithContext(ctx).Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ? AND status = ?", roomID, userID, models.ParticipantActive).
		Updates(map[string]interface{}{
			"status":   status,
			"left_at":  utc(at),
			"is_admin": false,
		})
	if result.Error != nil {
		return translate("deactivate participant", "participant", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("participant")
	}
	return nil
}

// AdvanceReadCursor is a compare-and-set on last_read_at: the row is only
// written when the new value is later than the stored one.
func (s *Service) AdvanceReadCursor(ctx context.Context, roomID string, userID int64, at time.Time) (bool, error) {
	result := s.DB.WithContext(ctx).Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ? AND status = ?", roomID, userID, models.ParticipantActive).
		Where("(last_read_at IS NULL OR last_read_at < ?)", utc(at)).
		Update("last_read_at", utc(at))
	if result.Error != nil {
		return false, translate("advance read cursor", "participant", result.Error)
	}
	return result.RowsAffected > 0, nil
}
