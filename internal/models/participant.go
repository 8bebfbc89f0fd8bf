package models

import "time"

// ParticipantStatus replaces the left/deleted flag pair of a membership row.
type ParticipantStatus string

const (
	ParticipantActive ParticipantStatus = "active"
	// ParticipantLeft is set when the user left on their own.
	ParticipantLeft ParticipantStatus = "left"
	// ParticipantRemoved is set when an admin removed the user.
	ParticipantRemoved ParticipantStatus = "removed"
)

// Participant links a user to a room. There is exactly one row per (room, user);
// leaving keeps the row and re-adding reactivates it.
type Participant struct {
	ID      uint              `gorm:"primaryKey" json:"-"`
	RoomID  string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_participant_room_user" json:"room_id"`
	UserID  int64             `gorm:"not null;uniqueIndex:idx_participant_room_user;index" json:"user_id"`
	IsAdmin bool              `gorm:"not null" json:"is_admin"`
	Status  ParticipantStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	// LastReadAt is the read cursor; nil means the user never read the room.
	// It only moves forward.
	LastReadAt *time.Time `json:"last_read_at"`
	JoinedAt   time.Time  `gorm:"not null" json:"joined_at"`
	LeftAt     *time.Time `json:"left_at,omitempty"`
	UpdatedAt  time.Time  `json:"-"`
}

func (p *Participant) IsActive() bool {
	return p.Status == ParticipantActive && p.LeftAt == nil
}
