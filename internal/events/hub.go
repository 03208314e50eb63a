// Package events is the per-session notification channel. Events carry only
// what changed, never the changed data: subscribers recompute the active
// story, active users and current votes from source rows on every event.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventType identifies what kind of change occurred in a session
type EventType string

const (
	EventMemberJoined    EventType = "member_joined"
	EventMemberLeft      EventType = "member_left"
	EventMemberKicked    EventType = "member_kicked"
	EventStoryAdded      EventType = "story_added"
	EventStoryChanged    EventType = "story_changed"
	EventVoteCast        EventType = "vote_cast"
	EventVotesReset      EventType = "votes_reset"
	EventSettingsChanged EventType = "settings_changed"
	EventSessionEnded    EventType = "session_ended"
)

// Event is one change notification for a session
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId"`
	StoryID   string    `json:"storyId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	At        time.Time `json:"at"`
}

// subscriber buffer size; slow subscribers drop events and reconcile on the
// next one they do receive
const subscriberBuffer = 16

// Hub fans session events out to that session's subscribers
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[chan Event]struct{}
	logger *zap.Logger
}

// NewHub creates a new event hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Hub{
		topics: make(map[string]map[chan Event]struct{}),
		logger: logger,
	}
}

// Publish delivers an event to every subscriber of the session. Delivery is
// best-effort: a subscriber with a full buffer misses the event.
func (h *Hub) Publish(event Event) {
	if event.SessionID == "" {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.topics[event.SessionID] {
		select {
		case ch <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				zap.String("session_id", event.SessionID),
				zap.String("type", string(event.Type)))
		}
	}
}

// Subscribe registers a subscriber for one session's events. The returned
// cancel func must be called to release the subscription.
func (h *Hub) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.topics[sessionID] == nil {
		h.topics[sessionID] = make(map[chan Event]struct{})
	}
	h.topics[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.topics[sessionID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.topics, sessionID)
			}
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Subscribers returns the number of subscribers for a session
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[sessionID])
}
