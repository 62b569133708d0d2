package realtime

import (
	"encoding/json"
	"testing"
)

func testSession() *Session {
	return &Session{send: make(chan []byte, 8)}
}

func received(t *testing.T, s *Session) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case payload := <-s.send:
			var e Event
			if err := json.Unmarshal(payload, &e); err != nil {
				t.Fatalf("bad payload %q: %v", payload, err)
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestPublishFansOutToJoinedSessionsOnly(t *testing.T) {
	hub := NewHub()
	inWard3a := testSession()
	inWard3b := testSession()
	inWard4 := testSession()

	hub.Join(WardTopic(3), inWard3a)
	hub.Join(WardTopic(3), inWard3b)
	hub.Join(WardTopic(4), inWard4)

	hub.Publish(WardTopic(3), EventNewProblem, map[string]interface{}{"title": "pothole"})

	for _, s := range []*Session{inWard3a, inWard3b} {
		events := received(t, s)
		if len(events) != 1 || events[0].Event != EventNewProblem {
			t.Fatalf("ward-3 session expected one new-problem event, got %v", events)
		}
	}
	if events := received(t, inWard4); len(events) != 0 {
		t.Fatalf("ward-4 session must receive nothing, got %v", events)
	}
}

func TestSessionMayJoinMultipleTopics(t *testing.T) {
	hub := NewHub()
	s := testSession()
	hub.Join(WardTopic(1), s)
	hub.Join(WardTopic(2), s)

	hub.Publish(WardTopic(1), EventProblemUpdated, nil)
	hub.Publish(WardTopic(2), EventProblemUpdated, nil)

	if events := received(t, s); len(events) != 2 {
		t.Fatalf("expected 2 events, got %v", events)
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	s := testSession()
	hub.Join(WardTopic(3), s)
	hub.Leave(WardTopic(3), s)

	hub.Publish(WardTopic(3), EventNewProblem, nil)

	if events := received(t, s); len(events) != 0 {
		t.Fatalf("left session must receive nothing, got %v", events)
	}
}

func TestRemoveClearsEveryMembership(t *testing.T) {
	hub := NewHub()
	s := testSession()
	other := testSession()
	hub.Join(WardTopic(1), s)
	hub.Join(WardTopic(2), s)
	hub.Join(WardTopic(1), other)

	hub.Remove(s)

	hub.Publish(WardTopic(1), EventNewProblem, nil)
	hub.Publish(WardTopic(2), EventNewProblem, nil)

	if events := received(t, s); len(events) != 0 {
		t.Fatalf("removed session must receive nothing, got %v", events)
	}
	if events := received(t, other); len(events) != 1 {
		t.Fatalf("remaining session must still receive events, got %v", events)
	}
}

func TestPublishDropsWhenSessionBufferFull(t *testing.T) {
	hub := NewHub()
	s := &Session{send: make(chan []byte)} // no buffer, no reader
	hub.Join(WardTopic(3), s)

	// Must return instead of blocking: the slow session's copy is dropped.
	hub.Publish(WardTopic(3), EventNewProblem, nil)
}

func TestNoReplayForLateJoiners(t *testing.T) {
	hub := NewHub()
	late := testSession()

	hub.Publish(WardTopic(3), EventNewProblem, nil)
	hub.Join(WardTopic(3), late)

	if events := received(t, late); len(events) != 0 {
		t.Fatalf("late joiner must not see earlier events, got %v", events)
	}
}
