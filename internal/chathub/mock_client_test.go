package chathub_test

import (
	"sync"

	"roomchat/backend/internal/models"
)

type MockClient struct {
	userID      int64
	RecvChannel chan models.MessageEvent

	mu     sync.Mutex
	closed int
}

func newMockClient(userID int64, buffer int) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.MessageEvent, buffer),
	}
}

func (c *MockClient) GetUserID() int64 {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- models.MessageEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

func (c *MockClient) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
