package chathub

import (
	"context"
	"log"

	"roomchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventSubscriber is the part of the storage layer the hub listens to.
type EventSubscriber interface {
	SubscribeToRoomEvents(ctx context.Context) *redis.PubSub
}

// ManagerService keeps the live connections of this instance and fans message
// events out to them. Events reach it through Redis Pub/Sub, so every
// instance delivers to its own connections no matter which instance
// committed the change.
type ManagerService struct {
	Clients map[int64][]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan models.MessageEvent

	Subscriber EventSubscriber

	done chan struct{}
}

func NewManagerService(sub EventSubscriber) *ManagerService {
	return &ManagerService{
		Clients:      make(map[int64][]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan models.MessageEvent, 64),
		Subscriber:   sub,
		done:         make(chan struct{}),
	}
}

// Run owns the client map. It returns when ctx is cancelled, closing every
// client still registered.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case client := <-m.RegisterCh:
			userID := client.GetUserID()
			m.Clients[userID] = append(m.Clients[userID], client)
			log.Printf("INFO: client registered for user %d (%d open)", userID, len(m.Clients[userID]))

		case client := <-m.UnregisterCh:
			m.drop(client)

		case event := <-m.EventCh:
			m.deliver(event)

		case <-ctx.Done():
			for userID, clients := range m.Clients {
				for _, client := range clients {
					client.Close()
				}
				delete(m.Clients, userID)
			}
			return
		}
	}
}

// Register hands a new client to the hub. It reports false, closing the
// client, when the hub has already stopped.
func (m *ManagerService) Register(client Client) bool {
	select {
	case m.RegisterCh <- client:
		return true
	case <-m.done:
		client.Close()
		return false
	}
}

// Unregister hands the client back to the hub. It does not block once the hub
// has stopped.
func (m *ManagerService) Unregister(client Client) {
	select {
	case m.UnregisterCh <- client:
	case <-m.done:
	}
}

func (m *ManagerService) deliver(event models.MessageEvent) {
	for _, userID := range event.RecipientIDs {
		for _, client := range m.Clients[userID] {
			select {
			case client.GetSendChannel() <- event:
			default:
				log.Printf("WARNING: dropping slow client of user %d", userID)
				m.drop(client)
			}
		}
	}
}

// drop removes the client and closes it. Unknown clients are ignored, so a
// client dropped for being slow can still unregister itself later.
func (m *ManagerService) drop(client Client) {
	userID := client.GetUserID()
	clients := m.Clients[userID]
	for i, c := range clients {
		if c != client {
			continue
		}
		clients = append(clients[:i:i], clients[i+1:]...)
		if len(clients) == 0 {
			delete(m.Clients, userID)
		} else {
			m.Clients[userID] = clients
		}
		client.Close()
		log.Printf("INFO: client unregistered for user %d", userID)
		return
	}
}
