package chathub

import (
	"context"
	"encoding/json"
	"log"

	"roomchat/backend/internal/models"
)

// StartPubSubListener subscribes to the room event channels and feeds every
// decoded event into the hub.
func (m *ManagerService) StartPubSubListener(ctx context.Context) {
	if m.Subscriber == nil {
		log.Println("WARNING: no event subscriber configured, realtime delivery disabled")
		return
	}

	go func() {
		pubsub := m.Subscriber.SubscribeToRoomEvents(ctx)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				event, err := decodeEvent(msg.Payload)
				if err != nil {
					log.Printf("WARNING: skipping undecodable event on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case m.EventCh <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func decodeEvent(payload string) (models.MessageEvent, error) {
	var event models.MessageEvent
	err := json.Unmarshal([]byte(payload), &event)
	return event, err
}
