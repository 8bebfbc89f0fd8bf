package models

import "time"

// MessageKind is the content type of a message.
type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindImage MessageKind = "image"
	MessageKindFile  MessageKind = "file"
	MessageKindVoice MessageKind = "voice"
)

func (k MessageKind) Valid() bool {
	switch k {
	case MessageKindText, MessageKindImage, MessageKindFile, MessageKindVoice:
		return true
	}
	return false
}

type MessageStatus string

const (
	MessageActive  MessageStatus = "active"
	MessageDeleted MessageStatus = "deleted"
)

// Message is a persisted chat message. RoomID, SenderID and CreatedAt never
// change after insert; only Body (edit) and Status (soft delete) do.
type Message struct {
	// ID is auto-incremented and breaks ties between equal CreatedAt values.
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID   string `gorm:"type:varchar(36);not null;index:idx_room_created,priority:1" json:"room_id"`
	SenderID int64  `gorm:"not null;index" json:"sender_id"`
	// Body is nil for attachment-only messages.
	Body *string `gorm:"type:text" json:"body"`
	// Attachment is an opaque reference into external file storage.
	Attachment       *string       `gorm:"type:text" json:"attachment,omitempty"`
	Kind             MessageKind   `gorm:"type:varchar(16);not null" json:"kind"`
	ReplyToMessageID *int64        `gorm:"index" json:"reply_to_message_id,omitempty"`
	Status           MessageStatus `gorm:"type:varchar(16);not null;index" json:"-"`
	IsEdited         bool          `gorm:"not null" json:"is_edited"`
	EditedAt         *time.Time    `json:"edited_at,omitempty"`
	DeletedAt        *time.Time    `json:"-"`
	CreatedAt        time.Time     `gorm:"not null;index:idx_room_created,priority:2" json:"created_at"`
}

func (m *Message) IsDeleted() bool {
	return m.Status == MessageDeleted
}
