package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldserve/marketplace-api/internal/realtime"
)

type safePublisher struct {
	mu     sync.Mutex
	topics []string
	events []realtime.Event
}

func (p *safePublisher) Publish(topic string, ev realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
}

func (p *safePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestDispatcher_PublishReachesPublisher(t *testing.T) {
	pub := &safePublisher{}
	d := NewDispatcher(pub)

	d.Publish("customer_1", realtime.NewEvent(realtime.EventNewBid, nil))

	waitFor(t, func() bool { return pub.count() == 1 })
	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, "customer_1", pub.topics[0])
	assert.Equal(t, realtime.EventNewBid, pub.events[0].Type)
}

func TestDispatcher_GoRunsTaskOffTheCallerPath(t *testing.T) {
	d := NewDispatcher(&safePublisher{})

	done := make(chan struct{})
	d.Go("side_effect", func() error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
}

func TestDispatcher_FullQueueNeverBlocksTheCaller(t *testing.T) {
	d := NewDispatcher(&safePublisher{})

	// Park the worker so the queue can fill up.
	release := make(chan struct{})
	d.Go("block", func() error {
		<-release
		return nil
	})

	returned := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			d.Publish("customer_1", realtime.NewEvent(realtime.EventNewBid, nil))
		}
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
	close(release)
}

func TestDispatcher_TaskErrorIsSwallowed(t *testing.T) {
	d := NewDispatcher(&safePublisher{})

	ran := make(chan struct{})
	d.Go("failing", func() error {
		defer close(ran)
		return assert.AnError
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}

	// The worker survives a failed task.
	done := make(chan struct{})
	d.Go("next", func() error {
		close(done)
		return nil
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after a failed task")
	}
}
