package handler_test

import (
	"context"

	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) CreateRoom(ctx context.Context, p models.Principal, req chat.CreateRoomRequest) (*models.RoomView, error) {
	args := m.Called(ctx, p, req)
	room, _ := args.Get(0).(*models.RoomView)
	return room, args.Error(1)
}

func (m *MockChatService) GetRoom(ctx context.Context, p models.Principal, roomID string) (*models.RoomView, error) {
	args := m.Called(ctx, p, roomID)
	room, _ := args.Get(0).(*models.RoomView)
	return room, args.Error(1)
}

func (m *MockChatService) GetRoomsForUser(ctx context.Context, p models.Principal) ([]models.RoomView, error) {
	args := m.Called(ctx, p)
	rooms, _ := args.Get(0).([]models.RoomView)
	return rooms, args.Error(1)
}

func (m *MockChatService) AddParticipant(ctx context.Context, p models.Principal, roomID string, req chat.AddParticipantRequest) (*models.Participant, error) {
	args := m.Called(ctx, p, roomID, req)
	participant, _ := args.Get(0).(*models.Participant)
	return participant, args.Error(1)
}

func (m *MockChatService) RemoveParticipant(ctx context.Context, p models.Principal, roomID string, targetUserID int64) error {
	args := m.Called(ctx, p, roomID, targetUserID)
	return args.Error(0)
}

func (m *MockChatService) LeaveRoom(ctx context.Context, p models.Principal, roomID string) error {
	args := m.Called(ctx, p, roomID)
	return args.Error(0)
}

func (m *MockChatService) SendMessage(ctx context.Context, p models.Principal, roomID string, req chat.SendMessageRequest) (*models.MessageView, error) {
	args := m.Called(ctx, p, roomID, req)
	msg, _ := args.Get(0).(*models.MessageView)
	return msg, args.Error(1)
}

func (m *MockChatService) GetMessages(ctx context.Context, p models.Principal, roomID string, limit, offset int) ([]models.MessageView, error) {
	args := m.Called(ctx, p, roomID, limit, offset)
	messages, _ := args.Get(0).([]models.MessageView)
	return messages, args.Error(1)
}

func (m *MockChatService) GetMessagesBefore(ctx context.Context, p models.Principal, roomID string, beforeMessageID int64, limit int) ([]models.MessageView, error) {
	args := m.Called(ctx, p, roomID, beforeMessageID, limit)
	messages, _ := args.Get(0).([]models.MessageView)
	return messages, args.Error(1)
}

func (m *MockChatService) EditMessage(ctx context.Context, p models.Principal, messageID int64, req chat.EditMessageRequest) (*models.MessageView, error) {
	args := m.Called(ctx, p, messageID, req)
	msg, _ := args.Get(0).(*models.MessageView)
	return msg, args.Error(1)
}

func (m *MockChatService) DeleteMessage(ctx context.Context, p models.Principal, messageID int64) error {
	args := m.Called(ctx, p, messageID)
	return args.Error(0)
}

func (m *MockChatService) MarkAsRead(ctx context.Context, p models.Principal, roomID string) error {
	args := m.Called(ctx, p, roomID)
	return args.Error(0)
}

func (m *MockChatService) GetUnreadCount(ctx context.Context, p models.Principal, roomID string) (int64, error) {
	args := m.Called(ctx, p, roomID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).(map[int64]models.User)
	return users, args.Error(1)
}
