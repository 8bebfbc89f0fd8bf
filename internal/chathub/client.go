package chathub

import "roomchat/backend/internal/models"

// Client is one live connection of a user (e.g. a WebSocket).
// A user may hold several clients at once; the hub delivers every event
// addressed to the user to all of them.
type Client interface {
	// GetUserID returns the id of the authenticated user behind the connection.
	GetUserID() int64

	// GetSendChannel returns the channel the hub writes events to.
	GetSendChannel() chan<- models.MessageEvent

	// Run starts the read and write pumps.
	Run()
	// Close releases the connection. The hub calls it exactly once.
	Close()
}
