// Package events distributes provisioning lifecycle events to SSE
// subscribers with bounded replay.
package events

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Event types published by the signup pipeline.
const (
	TypeOrgCreated = "orgCreated"
	TypeFault      = "fault"
)

// Event is one provisioning lifecycle event.
type Event struct {
	ID   int64          `json:"id"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// SSE formats the event as a Server-Sent Events frame.
func (e Event) SSE() string {
	data, err := json.Marshal(e.Data)
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", e.ID, e.Type, data)
}

// Hub fans events out to subscribers and keeps a circular buffer for replay.
//
// LOCK ORDERING: h.mu protects subscribers, buffer, and the id counter.
// Subscriber channels are buffered; a subscriber that cannot keep up drops
// events rather than blocking publishers.
type Hub struct {
	mu       sync.RWMutex
	subs     map[chan Event]struct{}
	buffer   []Event
	capacity int
	nextID   int64
	closed   bool
}

// NewHub creates a hub buffering up to capacity events for replay.
func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 64
	}
	return &Hub{
		subs:     make(map[chan Event]struct{}),
		capacity: capacity,
	}
}

// Publish assigns the next event id and delivers the event to all
// subscribers. Returns an error only after Stop.
func (h *Hub) Publish(evtType string, data map[string]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("event hub is stopped")
	}

	h.nextID++
	evt := Event{ID: h.nextID, Type: evtType, Data: data}

	h.buffer = append(h.buffer, evt)
	if len(h.buffer) > h.capacity {
		h.buffer = h.buffer[len(h.buffer)-h.capacity:]
	}

	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			// Slow subscriber: drop rather than block the pipeline.
		}
	}
	return nil
}

// Subscribe registers a subscriber and replays buffered events with id
// greater than lastID onto the returned channel. The cancel function
// unregisters the subscriber and closes the channel.
func (h *Hub) Subscribe(lastID int64) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.capacity)
	for _, evt := range h.buffer {
		if evt.ID > lastID {
			ch <- evt
		}
	}

	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Stop closes all subscriber channels and rejects further publishes.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
	}
	h.subs = make(map[chan Event]struct{})
}
