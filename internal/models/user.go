package models

import "time"

// User is an entry of the user directory. The chat core only reads it to check
// that members exist and to attach display fields to messages.
type User struct {
	ID        int64   `gorm:"primaryKey" json:"id"`
	FirstName string  `gorm:"type:text;not null" json:"first_name"`
	LastName  string  `gorm:"type:text" json:"last_name"`
	AvatarURL *string `gorm:"type:text" json:"avatar_url,omitempty"`
	// IsActive is false for disabled or deleted accounts.
	IsActive  bool      `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// UserSummary carries the minimal display fields shown next to a message.
type UserSummary struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}

// Principal is the authenticated caller of a chat operation.
type Principal struct {
	UserID int64
}
