package realtime

import (
	"fmt"

	"github.com/google/uuid"
)

// Event types pushed to clients.
const (
	EventNewOrderRequest = "new_order_request"
	EventNewBid          = "new_bid"
	EventCounterOffer    = "counter_offer"
	EventBidAccepted     = "bid_accepted"
	EventBidRejected     = "bid_rejected"
	EventOrderRejected   = "order_rejected"
)

type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NewEvent(eventType string, data any) Event {
	return Event{
		ID:   uuid.NewString(),
		Type: eventType,
		Data: data,
	}
}

// Publisher pushes an event to everyone joined to a topic. Delivery is
// best-effort, at most once; nothing is stored or replayed.
type Publisher interface {
	Publish(topic string, ev Event)
}

func ProviderTopic(providerID uint) string {
	return fmt.Sprintf("provider_%d", providerID)
}

func CustomerTopic(userID uint) string {
	return fmt.Sprintf("customer_%d", userID)
}
