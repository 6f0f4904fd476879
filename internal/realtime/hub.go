package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans events out to the websocket connections joined to each
// topic. A participant only receives events published after it joins.
//
// gorilla/websocket allows at most one concurrent writer per
// connection, and Publish is called from several goroutines (the
// notify worker and the redis relay), so every connection carries its
// own write lock.
type Hub struct {
	mu      sync.RWMutex
	topics  map[string]map[*websocket.Conn]bool
	writers map[*websocket.Conn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*websocket.Conn]bool),
		writers: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *Hub) Join(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.topics[topic]
	if !ok {
		conns = make(map[*websocket.Conn]bool)
		h.topics[topic] = conns
	}
	conns[conn] = true

	if _, ok := h.writers[conn]; !ok {
		h.writers[conn] = &sync.Mutex{}
	}
}

func (h *Hub) Leave(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.topics[topic]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.topics, topic)
		}
	}

	// Drop the write lock once the connection left its last topic.
	for _, conns := range h.topics {
		if conns[conn] {
			return
		}
	}
	delete(h.writers, conn)
}

func (h *Hub) Publish(topic string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("realtime: marshal event:", err)
		return
	}

	type target struct {
		conn    *websocket.Conn
		writeMu *sync.Mutex
	}

	h.mu.RLock()
	targets := make([]target, 0, len(h.topics[topic]))
	for conn := range h.topics[topic] {
		targets = append(targets, target{conn: conn, writeMu: h.writers[conn]})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		// Failed writes are dropped; the read loop tears down dead
		// connections.
		t.writeMu.Lock()
		_ = t.conn.WriteMessage(websocket.TextMessage, payload)
		t.writeMu.Unlock()
	}
}

// Subscribers reports how many connections are joined to a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

var _ Publisher = (*Hub)(nil)
