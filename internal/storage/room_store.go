package storage

import (
	"context"
	"time"

	"roomchat/backend/internal/models"

	"gorm.io/gorm"
)

// CreateRoom inserts the room row and one participant row per member in a
// single transaction.
func (s *Service) CreateRoom(ctx context.Context, room *models.Room, participants []models.Participant) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].RoomID = room.ID
		}
		if len(participants) == 0 {
			return nil
		}
		return tx.Create(&participants).Error
	})
	return translate("create room", "room", err)
}

// GetRoomByID returns an active room. Deleted rooms are reported as not found.
func (s *Service) GetRoomByID(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).
		Where("id = ? AND status = ?", roomID, models.RoomStatusActive).
		First(&room).Error
	if err != nil {
		return nil, translate("get room "+roomID, "room", err)
	}
	return &room, nil
}

// FindDirectRoom looks up the active direct room of a normalized user pair.
func (s *Service) FindDirectRoom(ctx context.Context, directKey string) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).
		Where("direct_key = ? AND kind = ? AND status = ?", directKey, models.RoomKindDirect, models.RoomStatusActive).
		First(&room).Error
	if err != nil {
		return nil, translate("find direct room "+directKey, "room", err)
	}
	return &room, nil
}

// ListRoomsForUser returns the active rooms the user currently belongs to,
// most recent activity first and rooms without messages last.
func (s *Service) ListRoomsForUser(ctx context.Context, userID int64) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.WithContext(ctx).
		Select("rooms.*").
		Joins("JOIN participants ON participants.room_id = rooms.id AND participants.user_id = ? AND participants.status = ?",
			userID, models.ParticipantActive).
		Where("rooms.status = ?", models.RoomStatusActive).
		Order("rooms.last_message_at IS NULL").
		Order("rooms.last_message_at DESC").
		Order("rooms.created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, translate("list rooms for user", "room", err)
	}
	return rooms, nil
}

// SoftDeleteRoom marks the room deleted and releases its direct key so the
// pair can start a new conversation.
func (s *Service) SoftDeleteRoom(ctx context.Context, roomID string, at time.Time) error {
	result := s.DB.WithContext(ctx).Model(&models.Room{}).
		Where("id = ? AND status = ?", roomID, models.RoomStatusActive).
		Updates(map[string]interface{}{
			"status":     models.RoomStatusDeleted,
			"deleted_at": utc(at),
			"direct_key": gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return translate("delete room "+roomID, "room", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete room "+roomID, "room", gorm.ErrRecordNotFound)
	}
	return nil
}
