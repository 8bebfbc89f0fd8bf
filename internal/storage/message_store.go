package storage

import (
	"context"
	"time"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/config"
	"roomchat/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppendMessage stores a message and updates the room in one transaction.
//
// The room row is locked first, so sends to the same room commit one at a
// time. While holding the lock the message is stamped with
// max(now, last_message_at + 1µs): timestamps are strictly increasing in
// commit order and last_message_at always belongs to the latest committed
// message. The sender's read cursor is advanced to the new message as well.
func (s *Service) AppendMessage(ctx context.Context, msg *models.Message, now time.Time) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", msg.RoomID, models.RoomStatusActive).
			First(&room).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Participant{}).
			Where("room_id = ? AND user_id = ? AND status = ?", msg.RoomID, msg.SenderID, models.ParticipantActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active == 0 {
			return apperrors.AccessDenied("not a participant of this room")
		}

		createdAt := utc(now)
		if room.LastMessageAt != nil && !createdAt.After(*room.LastMessageAt) {
			createdAt = room.LastMessageAt.UTC().Add(config.TimestampResolution)
		}
		msg.CreatedAt = createdAt
		if msg.Status == "" {
			msg.Status = models.MessageActive
		}

		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Room{}).
			Where("id = ?", room.ID).
			Update("last_message_at", createdAt).Error; err != nil {
			return err
		}

		return tx.Model(&models.Participant{}).
			Where("room_id = ? AND user_id = ?", msg.RoomID, msg.SenderID).
			Where("(last_read_at IS NULL OR last_read_at < ?)", createdAt).
			Update("last_read_at", createdAt).Error
	})
	return translate("append message to room "+msg.RoomID, "room", err)
}

// GetMessageByID returns the message whatever its status.
func (s *Service) GetMessageByID(ctx context.Context, messageID int64) (*models.Message, error) {
	var msg models.Message
	if err := s.DB.WithContext(ctx).First(&msg, messageID).Error; err != nil {
		return nil, translate("get message", "message", err)
	}
	return &msg, nil
}

// ListMessages returns a page of non-deleted messages, newest first.
func (s *Service) ListMessages(ctx context.Context, roomID string, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, models.MessageActive).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, translate("list messages", "message", err)
	}
	return messages, nil
}

// ListMessagesBefore returns up to limit non-deleted messages strictly older
// than cursor, newest first. Ordering is (created_at, id).
func (s *Service) ListMessagesBefore(ctx context.Context, roomID string, cursor *models.Message, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, models.MessageActive).
		Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, translate("list messages before", "message", err)
	}
	return messages, nil
}

// LatestMessages returns the newest non-deleted message of each room that has one.
func (s *Service) LatestMessages(ctx context.Context, roomIDs []string) (map[string]models.Message, error) {
	latest := make(map[string]models.Message, len(roomIDs))
	if len(roomIDs) == 0 {
		return latest, nil
	}

	db := s.DB.WithContext(ctx)
	// Ids grow in commit order within a room, so the max id is the newest message.
	newest := db.Model(&models.Message{}).
		Select("MAX(id)").
		Where("room_id IN ? AND status = ?", roomIDs, models.MessageActive).
		Group("room_id")

	var messages []models.Message
	if err := db.Where("id IN (?)", newest).Find(&messages).Error; err != nil {
		return nil, translate("latest messages", "message", err)
	}
	for _, m := range messages {
		latest[m.RoomID] = m
	}
	return latest, nil
}

// UpdateMessageBody replaces the body of a non-deleted message.
func (s *Service) UpdateMessageBody(ctx context.Context, messageID int64, body string, at time.Time) error {
	result := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND status = ?", messageID, models.MessageActive).
		Updates(map[string]interface{}{
			"body":      body,
			"is_edited": true,
			"edited_at": utc(at),
		})
	if result.Error != nil {
		return translate("update message", "message", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("message")
	}
	return nil
}

func (s *Service) SoftDeleteMessage(ctx context.Context, messageID int64, at time.Time) error {
	result := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND status = ?", messageID, models.MessageActive).
		Updates(map[string]interface{}{
			"status":     models.MessageDeleted,
			"deleted_at": utc(at),
		})
	if result.Error != nil {
		return translate("delete message", "message", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("message")
	}
	return nil
}

type unreadRow struct {
	RoomID string
	Unread int64
}

// CountUnread computes the unread count of the user for each room in one
// grouped query. A message is unread when it is not deleted, was not sent by
// the user and is newer than the user's read cursor (all of them when the
// cursor is NULL). Rooms with nothing unread are absent from the map.
func (s *Service) CountUnread(ctx context.Context, userID int64, roomIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(roomIDs))
	if len(roomIDs) == 0 {
		return counts, nil
	}

	var rows []unreadRow
	err := s.DB.WithContext(ctx).
		Table("messages").
		Select("messages.room_id AS room_id, COUNT(*) AS unread").
		Joins("JOIN participants ON participants.room_id = messages.room_id AND participants.user_id = ?", userID).
		Where("messages.room_id IN ? AND messages.status = ?", roomIDs, models.MessageActive).
		Where("messages.sender_id <> ?", userID).
		Where("(participants.last_read_at IS NULL OR messages.created_at > participants.last_read_at)").
		Group("messages.room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("count unread", "message", err)
	}

	for _, row := range rows {
		counts[row.RoomID] = row.Unread
	}
	return counts, nil
}
