package chat_test

import (
	"context"
	"time"

	"roomchat/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateRoom(ctx context.Context, room *models.Room, participants []models.Participant) error {
	args := m.Called(ctx, room, participants)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(ctx context.Context, roomID string) (*models.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) FindDirectRoom(ctx context.Context, directKey string) (*models.Room, error) {
	args := m.Called(ctx, directKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) ListRoomsForUser(ctx context.Context, userID int64) ([]models.Room, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockStorage) SoftDeleteRoom(ctx context.Context, roomID string, at time.Time) error {
	args := m.Called(ctx, roomID, at)
	return args.Error(0)
}

func (m *MockStorage) GetParticipant(ctx context.Context, roomID string, userID int64) (*models.Participant, error) {
	args := m.Called(ctx, roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockStorage) ListActiveParticipants(ctx context.Context, roomIDs []string) ([]models.Participant, error) {
	args := m.Called(ctx, roomIDs)
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *MockStorage) ActivateParticipant(ctx context.Context, roomID string, userID int64, isAdmin bool, at time.Time) (*models.Participant, error) {
	args := m.Called(ctx, roomID, userID, isAdmin, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockStorage) DeactivateParticipant(ctx context.Context, roomID string, userID int64, status models.ParticipantStatus, at time.Time) error {
	args := m.Called(ctx, roomID, userID, status, at)
	return args.Error(0)
}

func (m *MockStorage) AdvanceReadCursor(ctx context.Context, roomID string, userID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, roomID, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) AppendMessage(ctx context.Context, msg *models.Message, now time.Time) error {
	args := m.Called(ctx, msg, now)
	return args.Error(0)
}

func (m *MockStorage) GetMessageByID(ctx context.Context, messageID int64) (*models.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) ListMessages(ctx context.Context, roomID string, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, roomID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) ListMessagesBefore(ctx context.Context, roomID string, cursor *models.Message, limit int) ([]models.Message, error) {
	args := m.Called(ctx, roomID, cursor, limit)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) LatestMessages(ctx context.Context, roomIDs []string) (map[string]models.Message, error) {
	args := m.Called(ctx, roomIDs)
	return args.Get(0).(map[string]models.Message), args.Error(1)
}

func (m *MockStorage) UpdateMessageBody(ctx context.Context, messageID int64, body string, at time.Time) error {
	args := m.Called(ctx, messageID, body, at)
	return args.Error(0)
}

func (m *MockStorage) SoftDeleteMessage(ctx context.Context, messageID int64, at time.Time) error {
	args := m.Called(ctx, messageID, at)
	return args.Error(0)
}

func (m *MockStorage) CountUnread(ctx context.Context, userID int64, roomIDs []string) (map[string]int64, error) {
	args := m.Called(ctx, userID, roomIDs)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockStorage) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64]models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) SetUserActive(ctx context.Context, userID int64, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *MockStorage) PublishMessageEvent(ctx context.Context, event models.MessageEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
