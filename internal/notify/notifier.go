package notify

import "github.com/fieldserve/marketplace-api/internal/realtime"

// Notifier is what usecases see: asynchronous, never-failing side
// effects. Dispatcher is the production implementation; tests inject a
// synchronous fake.
type Notifier interface {
	Publish(topic string, ev realtime.Event)
	Go(name string, task func() error)
}

var _ Notifier = (*Dispatcher)(nil)
