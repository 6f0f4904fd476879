package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const channelName = "realtime:events"

type envelope struct {
	Instance string `json:"instance"`
	Topic    string `json:"topic"`
	Event    Event  `json:"event"`
}

// RedisBridge mirrors published events over redis pub/sub so sockets
// held by other instances still receive them. Events carry the
// publishing instance id so the relay can skip its own.
type RedisBridge struct {
	rdb      *redis.Client
	hub      *Hub
	instance string
}

func NewRedisBridge(url string, hub *Hub) (*RedisBridge, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisBridge{
		rdb:      rdb,
		hub:      hub,
		instance: uuid.NewString(),
	}, nil
}

func (b *RedisBridge) Publish(topic string, ev Event) {
	b.hub.Publish(topic, ev)

	payload, err := json.Marshal(envelope{
		Instance: b.instance,
		Topic:    topic,
		Event:    ev,
	})
	if err != nil {
		log.Println("realtime: marshal envelope:", err)
		return
	}

	if err := b.rdb.Publish(context.Background(), channelName, payload).Err(); err != nil {
		log.Println("realtime: redis publish:", err)
	}
}

// Run relays events published by other instances into the local hub.
// Blocks until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, channelName)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}

			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Println("realtime: bad envelope:", err)
				continue
			}
			if env.Instance == b.instance {
				continue
			}
			b.hub.Publish(env.Topic, env.Event)
		}
	}
}

func (b *RedisBridge) Close() error {
	return b.rdb.Close()
}

var _ Publisher = (*RedisBridge)(nil)
