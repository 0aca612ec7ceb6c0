package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Notifier pushes lifecycle events to the in-process hub and mirrors
// them onto per-user redis channels so other instances can pick them up.
type Notifier struct {
	Hub *Hub
	RDB *redis.Client
}

func NewNotifier(hub *Hub, rdb *redis.Client) *Notifier {
	return &Notifier{Hub: hub, RDB: rdb}
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NotifyParties sends an event to both sides of a contract.
func (n *Notifier) NotifyParties(clientID, freelancerID uuid.UUID, eventType string, data interface{}) {
	ev := Event{Type: eventType, Data: data}
	n.Hub.SendToParties(clientID, freelancerID, ev)

	if n.RDB == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error marshaling event for redis: %v", err)
		return
	}
	ctx := context.Background()
	n.RDB.Publish(ctx, "lifecycle:"+clientID.String(), payload)
	n.RDB.Publish(ctx, "lifecycle:"+freelancerID.String(), payload)
}
