package notify

import (
	"context"
	"sync"

	"github.com/onnwee/chat-tally/command"
)

// Event is the wire shape pushed to overlay subscribers.
type Event struct {
	Kind      string                      `json:"kind"` // "milestone" | "counters"
	Milestone *command.MilestoneEvent     `json:"milestone,omitempty"`
	Counters  *command.CounterUpdateEvent `json:"counters,omitempty"`
}

// Hub is an in-process broadcast sink for SSE subscribers (overlays).
// Subscribers get a buffered channel; a subscriber that cannot keep up
// has events dropped rather than blocking dispatch.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{} // broadcasterID -> subscribers
}

const subscriberBuffer = 16

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

func (h *Hub) Name() string { return "sse" }

// Subscribe registers a listener for one broadcaster's events. The
// returned cancel function must be called when the listener goes away.
func (h *Hub) Subscribe(broadcasterID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	if h.subs[broadcasterID] == nil {
		h.subs[broadcasterID] = make(map[chan Event]struct{})
	}
	h.subs[broadcasterID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[broadcasterID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, broadcasterID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) publish(broadcasterID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[broadcasterID] {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; drop the event for it.
		}
	}
}

func (h *Hub) Milestone(ctx context.Context, ev command.MilestoneEvent) error {
	h.publish(ev.BroadcasterID, Event{Kind: "milestone", Milestone: &ev})
	return nil
}

func (h *Hub) CounterUpdate(ctx context.Context, ev command.CounterUpdateEvent) error {
	h.publish(ev.BroadcasterID, Event{Kind: "counters", Counters: &ev})
	return nil
}
