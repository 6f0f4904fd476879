package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "provider_7", ProviderTopic(7))
	assert.Equal(t, "customer_3", CustomerTopic(3))
}

func TestHub_JoinLeaveSubscribers(t *testing.T) {
	h := NewHub()
	a := &websocket.Conn{}
	b := &websocket.Conn{}

	h.Join("provider_7", a)
	h.Join("provider_7", b)
	h.Join("customer_3", a)

	assert.Equal(t, 2, h.Subscribers("provider_7"))
	assert.Equal(t, 1, h.Subscribers("customer_3"))
	assert.Equal(t, 0, h.Subscribers("provider_8"))

	h.Leave("provider_7", a)
	assert.Equal(t, 1, h.Subscribers("provider_7"))

	h.Leave("provider_7", b)
	assert.Equal(t, 0, h.Subscribers("provider_7"))

	// Leaving twice is harmless.
	h.Leave("provider_7", b)
}

// dialTestConn upgrades a loopback connection and joins it to the hub.
func dialTestConn(t *testing.T, h *Hub, topic string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Join(topic, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// Wait until the server side has joined.
	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers(topic) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, h.Subscribers(topic))

	return client
}

func TestHub_PublishDeliversToJoinedConnections(t *testing.T) {
	h := NewHub()
	client := dialTestConn(t, h, "customer_3")

	h.Publish("customer_3", NewEvent(EventNewBid, map[string]any{"bid_id": 5}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := client.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, EventNewBid, ev.Type)
	assert.NotEmpty(t, ev.ID)
}

func TestHub_PublishToOtherTopicIsSilent(t *testing.T) {
	h := NewHub()
	client := dialTestConn(t, h, "customer_3")

	h.Publish("customer_4", NewEvent(EventNewBid, nil))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err)
}

func TestHub_PublishToEmptyTopicIsNoop(t *testing.T) {
	h := NewHub()
	h.Publish("provider_7", NewEvent(EventNewOrderRequest, nil))
}

// Publishers run on several goroutines (notify worker, redis relay);
// writes to one connection must be serialized or gorilla panics.
func TestHub_ConcurrentPublishersShareOneConnection(t *testing.T) {
	h := NewHub()
	client := dialTestConn(t, h, "provider_7")

	const perPublisher = 32
	big := strings.Repeat("x", 64*1024)

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				h.Publish("provider_7", NewEvent(EventNewOrderRequest, big))
			}
		}()
	}

	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < 2*perPublisher; i++ {
		_, raw, err := client.ReadMessage()
		require.NoError(t, err)

		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, EventNewOrderRequest, ev.Type)
	}
	wg.Wait()
}

func TestHub_LeaveLastTopicDropsWriteLock(t *testing.T) {
	h := NewHub()
	conn := &websocket.Conn{}

	h.Join("provider_7", conn)
	h.Join("customer_3", conn)
	h.Leave("provider_7", conn)
	assert.Contains(t, h.writers, conn)

	h.Leave("customer_3", conn)
	assert.NotContains(t, h.writers, conn)
}
