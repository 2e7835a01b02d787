// Package observer streams live tick records to websocket subscribers while
// a run is in progress. The hub is a TickSink: slow subscribers drop frames
// rather than back-pressuring the simulation.
package observer

import (
	"encoding/json"
	"sync"

	"bioforge.ai/internal/sim/engine"
)

const subscriberBuffer = 64

type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]chan []byte
	nextID uint64
	latest []byte
}

func NewHub() *Hub {
	return &Hub{subs: map[uint64]chan []byte{}}
}

// WriteTick broadcasts the record to every subscriber. It never blocks and
// never fails: the live stream is best-effort, durability belongs to the
// persistence sinks.
func (h *Hub) WriteTick(rec engine.TickRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = b
	for _, ch := range h.subs {
		select {
		case ch <- b:
		default:
			// Subscriber is behind; skip this frame for it.
		}
	}
	return nil
}

func (h *Hub) Subscribe() (uint64, <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	ch := make(chan []byte, subscriberBuffer)
	if h.latest != nil {
		ch <- h.latest
	}
	h.subs[id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Latest returns the most recently broadcast record, or nil before the first
// tick.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}
