// Package mq fans out record change events to live subscribers.
package mq

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MethodCreate = "create"
	MethodUpdate = "update"
	MethodDelete = "delete"
)

type Event struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityID   int    `json:"entity_id"`
}

var eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "recipes_events_dropped_total",
	Help: "Change events dropped because a subscriber was not keeping up",
})

// subscriberBuffer is how many events a subscriber may fall behind by.
const subscriberBuffer = 32

// Hub delivers every emitted event to every current subscriber. Emit never
// blocks: a subscriber with a full buffer misses the event.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Emit(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	slog.Debug("event emitted", "entity", e.EntityType, "method", e.Method, "id", e.EntityID)
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
			eventsDropped.Inc()
		}
	}
}

// Subscribers returns the number of current subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
