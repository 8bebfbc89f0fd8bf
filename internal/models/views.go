package models

import "time"

// MessageView is a message enriched with its sender's display fields.
type MessageView struct {
	Message
	Sender *UserSummary `json:"sender,omitempty"`
}

// RoomView is a room as seen by one of its members.
type RoomView struct {
	Room
	MemberIDs   []int64      `json:"member_ids"`
	IsAdmin     bool         `json:"is_admin"`
	LastMessage *MessageView `json:"last_message"`
	UnreadCount int64        `json:"unread_count"`
}

// MessageEventType names the fact carried by a MessageEvent.
type MessageEventType string

const (
	EventMessageCreated MessageEventType = "message.created"
	EventMessageEdited  MessageEventType = "message.edited"
	EventMessageDeleted MessageEventType = "message.deleted"
)

// MessageEvent is emitted after a message change is committed. Delivery to
// websockets or push is the receiver's concern.
type MessageEvent struct {
	Type         MessageEventType `json:"type"`
	RoomID       string           `json:"room_id"`
	Message      MessageView      `json:"message"`
	RecipientIDs []int64          `json:"recipient_ids"`
	OccurredAt   time.Time        `json:"occurred_at"`
}
