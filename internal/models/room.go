package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomKind distinguishes 1-on-1 conversations from group rooms.
type RoomKind string

const (
	RoomKindDirect RoomKind = "direct"
	RoomKindGroup  RoomKind = "group"
)

func (k RoomKind) Valid() bool {
	return k == RoomKindDirect || k == RoomKindGroup
}

// RoomStatus is the lifecycle state of a room. Rooms are never hard-deleted.
type RoomStatus string

const (
	RoomStatusActive  RoomStatus = "active"
	RoomStatusDeleted RoomStatus = "deleted"
)

// Room is a conversation container.
type Room struct {
	// ID is an opaque UUID.
	ID   string   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name *string  `gorm:"type:text" json:"name,omitempty"`
	Kind RoomKind `gorm:"type:varchar(16);not null" json:"kind"`
	// CreatorID is the user that requested the room.
	CreatorID int64 `gorm:"not null" json:"creator_id"`
	// DirectKey is "<min>:<max>" of the two user ids for active direct rooms and
	// NULL otherwise. The unique index makes direct-room creation race-free.
	DirectKey *string    `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	Status    RoomStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	// LastMessageAt is nil until the first message is committed.
	LastMessageAt *time.Time `gorm:"index" json:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// BeforeCreate assigns a UUID and the default status.
func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = RoomStatusActive
	}
	return
}

func (r *Room) IsDeleted() bool {
	return r.Status == RoomStatusDeleted
}

// DirectKeyFor returns the normalized key of an unordered user pair.
func DirectKeyFor(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// DirectPair returns the two user ids encoded in the direct key.
func (r *Room) DirectPair() (int64, int64, bool) {
	if r.DirectKey == nil {
		return 0, 0, false
	}
	var a, b int64
	if _, err := fmt.Sscanf(*r.DirectKey, "%d:%d", &a, &b); err != nil {
		return 0, 0, false
	}
	return a, b, true
}
