package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Server-emitted events.
const (
	EventNewProblem      = "new-problem"
	EventProblemUpdated  = "problem-updated"
	EventStatusBroadcast = "problem-status-update"
)

// Client-emitted control events.
const (
	eventJoinWard  = "join-ward"
	eventLeaveWard = "leave-ward"
)

// WardTopic names the notification topic for one ward.
func WardTopic(wardNumber int) string {
	return fmt.Sprintf("ward-%d", wardNumber)
}

// Event is the envelope every message on the wire uses.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Bus is the notification side-channel handlers publish into after a
// successful store mutation. Delivery is fire-and-forget, at-most-once: no
// ack, no retry, no replay for sessions that join later.
type Bus interface {
	Publish(topic, event string, data interface{})
}

// Hub tracks topic membership and fans published events out to joined
// sessions. A session's memberships are mutated only by its own join/leave
// messages and by its disconnect.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Session]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*Session]struct{})}
}

func (h *Hub) Join(topic string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.topics[topic]
	if !ok {
		members = make(map[*Session]struct{})
		h.topics[topic] = members
	}
	members[s] = struct{}{}
}

func (h *Hub) Leave(topic string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(topic, s)
}

// Remove drops the session from every topic it had joined. Called on
// disconnect, the only cancellation signal a session has.
func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic := range h.topics {
		h.leaveLocked(topic, s)
	}
}

func (h *Hub) leaveLocked(topic string, s *Session) {
	members, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.topics, topic)
	}
}

// Publish fans the event out to every session currently joined to the topic.
// A session whose send buffer is full has the message dropped rather than
// blocking the publisher; sessions joined only to other topics see nothing.
func (h *Hub) Publish(topic, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		log.Printf("realtime: dropping %s event for %s: %v", event, topic, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.topics[topic] {
		select {
		case s.send <- payload:
		default:
		}
	}
}
