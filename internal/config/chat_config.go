package config

import "time"

const (
	// Pagination
	DefaultPageLimit = 50
	MaxPageLimit     = 200

	// Messages
	MaxBodyLength = 4000

	// Rooms
	MaxGroupMembers = 500
	MaxRoomNameLen  = 120

	// Timestamps are stored with microsecond precision (Postgres timestamptz).
	TimestampResolution = time.Microsecond

	// Redis channel prefix for "message sent" facts.
	RoomChannelPrefix = "chat:room:"
)
