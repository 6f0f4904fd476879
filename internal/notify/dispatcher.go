package notify

import (
	"log"

	"github.com/fieldserve/marketplace-api/internal/realtime"
)

// Dispatcher decouples notification fan-out and provider matching from
// the request that triggered them. Work runs on a single background
// worker; a full queue drops the job rather than blocking a handler.
type Dispatcher struct {
	pub   realtime.Publisher
	queue chan func()
}

func NewDispatcher(pub realtime.Publisher) *Dispatcher {
	d := &Dispatcher{
		pub:   pub,
		queue: make(chan func(), 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for job := range d.queue {
		job()
	}
}

func (d *Dispatcher) enqueue(name string, job func()) {
	select {
	case d.queue <- job:
		// enqueued
	default:
		// queue full; side effects never break the API
		log.Printf("notify: queue full, dropping %s", name)
	}
}

// Publish pushes an event to a topic asynchronously.
func (d *Dispatcher) Publish(topic string, ev realtime.Event) {
	d.enqueue(ev.Type, func() {
		d.pub.Publish(topic, ev)
	})
}

// Go runs an arbitrary side-effect task on the worker. Errors are
// logged and swallowed.
func (d *Dispatcher) Go(name string, task func() error) {
	d.enqueue(name, func() {
		if err := task(); err != nil {
			log.Printf("notify: %s: %v", name, err)
		}
	})
}
