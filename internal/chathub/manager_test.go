package chathub_test

import (
	"context"
	"testing"
	"time"

	"roomchat/backend/internal/chathub"
	"roomchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*chathub.ManagerService, context.CancelFunc) {
	t.Helper()
	hub := chathub.NewManagerService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func event(roomID string, recipients ...int64) models.MessageEvent {
	body := "hello"
	return models.MessageEvent{
		Type:         models.EventMessageCreated,
		RoomID:       roomID,
		Message:      models.MessageView{Message: models.Message{ID: 1, RoomID: roomID, SenderID: 1, Body: &body}},
		RecipientIDs: recipients,
		OccurredAt:   time.Now().UTC(),
	}
}

func TestManager_DeliversToRecipientsOnly(t *testing.T) {
	hub, _ := startHub(t)

	alice := newMockClient(1, 4)
	bob := newMockClient(2, 4)
	carol := newMockClient(3, 4)
	hub.RegisterCh <- alice
	hub.RegisterCh <- bob
	hub.RegisterCh <- carol

	hub.EventCh <- event("room1", 1, 2)

	for _, c := range []*MockClient{alice, bob} {
		select {
		case got := <-c.RecvChannel:
			assert.Equal(t, "room1", got.RoomID)
			assert.Equal(t, "hello", *got.Message.Body)
		case <-time.After(time.Second):
			t.Fatalf("user %d did not receive the event", c.userID)
		}
	}

	select {
	case got := <-carol.RecvChannel:
		t.Fatalf("non-recipient received %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestManager_FansOutToEveryConnectionOfUser(t *testing.T) {
	hub, _ := startHub(t)

	phone := newMockClient(7, 1)
	laptop := newMockClient(7, 1)
	hub.RegisterCh <- phone
	hub.RegisterCh <- laptop

	hub.EventCh <- event("room1", 7)

	for _, c := range []*MockClient{phone, laptop} {
		select {
		case <-c.RecvChannel:
		case <-time.After(time.Second):
			t.Fatal("connection did not receive the event")
		}
	}
}

func TestManager_UnregisterClosesOnce(t *testing.T) {
	hub, _ := startHub(t)

	client := newMockClient(1, 1)
	hub.RegisterCh <- client
	hub.Unregister(client)
	hub.Unregister(client)

	// A registration round-trip ensures the hub processed both unregisters.
	hub.RegisterCh <- newMockClient(2, 1)
	assert.Equal(t, 1, client.Closed())
}

func TestManager_DropsSlowClient(t *testing.T) {
	hub, _ := startHub(t)

	slow := newMockClient(1, 1)
	hub.RegisterCh <- slow

	hub.EventCh <- event("room1", 1)
	hub.EventCh <- event("room1", 1)

	require.Eventually(t, func() bool { return slow.Closed() == 1 }, time.Second, 10*time.Millisecond)

	// Further events are not delivered to the dropped client.
	<-slow.RecvChannel
	hub.EventCh <- event("room1", 1)
	hub.RegisterCh <- newMockClient(2, 1)
	assert.Len(t, slow.RecvChannel, 0)
}

func TestManager_StopClosesClients(t *testing.T) {
	hub, cancel := startHub(t)

	client := newMockClient(1, 1)
	hub.RegisterCh <- client
	cancel()

	require.Eventually(t, func() bool { return client.Closed() == 1 }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		hub.Unregister(client)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}
}

func TestManager_RegisterAfterStop(t *testing.T) {
	hub, cancel := startHub(t)

	sentinel := newMockClient(9, 1)
	hub.RegisterCh <- sentinel
	cancel()
	require.Eventually(t, func() bool { return sentinel.Closed() == 1 }, time.Second, 10*time.Millisecond)

	client := newMockClient(1, 1)
	registered := make(chan bool, 1)
	go func() { registered <- hub.Register(client) }()

	select {
	case ok := <-registered:
		assert.False(t, ok)
		assert.Equal(t, 1, client.Closed())
	case <-time.After(time.Second):
		t.Fatal("Register blocked after the hub stopped")
	}
}
