package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSessionSubscribers(t *testing.T) {
	hub := NewHub(nil)

	ch, cancel := hub.Subscribe("session-1")
	defer cancel()

	otherCh, otherCancel := hub.Subscribe("session-2")
	defer otherCancel()

	hub.Publish(Event{Type: EventVoteCast, SessionID: "session-1", StoryID: "story-1"})

	select {
	case event := <-ch:
		assert.Equal(t, EventVoteCast, event.Type)
		assert.Equal(t, "story-1", event.StoryID)
	case <-time.After(time.Second):
		t.Fatal("expected event on session-1 subscriber")
	}

	select {
	case <-otherCh:
		t.Fatal("session-2 subscriber must not receive session-1 events")
	default:
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub(nil)

	_, cancel := hub.Subscribe("session-1")
	require.Equal(t, 1, hub.Subscribers("session-1"))

	cancel()
	assert.Equal(t, 0, hub.Subscribers("session-1"))

	// publishing to a session with no subscribers is a no-op
	hub.Publish(Event{Type: EventStoryChanged, SessionID: "session-1"})
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(nil)

	ch, cancel := hub.Subscribe("session-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+5; i++ {
			hub.Publish(Event{Type: EventVoteCast, SessionID: "session-1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish must not block on a full subscriber")
	}

	assert.Len(t, ch, subscriberBuffer)
}
