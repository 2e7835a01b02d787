package observer

import (
	"encoding/json"
	"testing"
	"time"

	"bioforge.ai/internal/sim/engine"
)

func hubRecord(tick uint64) engine.TickRecord {
	return engine.TickRecord{
		Tick:                    tick,
		StageID:                 "MTHD-CULT-01",
		OrganismsJSON:           `{}`,
		MediaVolumeL:            500,
		MediaPH:                 7,
		DissolvedComponentsJSON: `[]`,
		DissolvedGasesJSON:      `[]`,
		AssetStatesJSON:         `{}`,
		EventsJSON:              `[]`,
	}
}

func recv(t *testing.T, ch <-chan []byte) engine.TickRecord {
	t.Helper()
	select {
	case payload := <-ch:
		var rec engine.TickRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			t.Fatalf("payload: %v", err)
		}
		return rec
	case <-time.After(time.Second):
		t.Fatal("no payload within 1s")
		return engine.TickRecord{}
	}
}

func TestHub_BroadcastsToSubscribers(t *testing.T) {
	h := NewHub()
	id1, ch1 := h.Subscribe()
	id2, ch2 := h.Subscribe()
	defer h.Unsubscribe(id1)
	defer h.Unsubscribe(id2)

	if err := h.WriteTick(hubRecord(1)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := recv(t, ch1).Tick; got != 1 {
		t.Fatalf("subscriber 1 got tick %d", got)
	}
	if got := recv(t, ch2).Tick; got != 1 {
		t.Fatalf("subscriber 2 got tick %d", got)
	}
}

func TestHub_LateSubscriberPrimedWithLatest(t *testing.T) {
	h := NewHub()
	if err := h.WriteTick(hubRecord(7)); err != nil {
		t.Fatalf("write: %v", err)
	}

	id, ch := h.Subscribe()
	defer h.Unsubscribe(id)
	if got := recv(t, ch).Tick; got != 7 {
		t.Fatalf("late subscriber primed with tick %d, want 7", got)
	}
	if h.Latest() == nil {
		t.Fatal("latest payload must be retained")
	}
}

func TestHub_SlowSubscriberNeverBlocksWrites(t *testing.T) {
	h := NewHub()
	id, _ := h.Subscribe()
	defer h.Unsubscribe(id)

	// Overfill the subscriber buffer without draining; writes must not stall.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			_ = h.WriteTick(hubRecord(uint64(i)))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writes blocked on a slow subscriber")
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	id, ch := h.Subscribe()
	h.Unsubscribe(id)

	if _, open := <-ch; open {
		t.Fatal("channel must close on unsubscribe")
	}
	// Further writes must not panic on the removed subscriber.
	if err := h.WriteTick(hubRecord(1)); err != nil {
		t.Fatalf("write after unsubscribe: %v", err)
	}
}
