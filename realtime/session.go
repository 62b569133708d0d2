package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBuffer     = 64
)

// Session is one connected realtime client. It may join any number of ward
// topics; joining happens only through its own join-ward messages.
type Session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewSession(hub *Hub, conn *websocket.Conn) *Session {
	return &Session{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// inbound is what clients send: a control event plus the ward it targets.
type inbound struct {
	Event string          `json:"event"`
	Ward  int             `json:"ward"`
	Data  json.RawMessage `json:"data"`
}

// Run pumps the connection until it drops, then detaches the session from
// every topic.
func (s *Session) Run() {
	go s.writePump()
	s.readPump()
}

func (s *Session) readPump() {
	defer func() {
		s.hub.Remove(s)
		close(s.send)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: session read error: %v", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Ward < 1 || msg.Ward > 50 {
			continue
		}

		switch msg.Event {
		case eventJoinWard:
			s.hub.Join(WardTopic(msg.Ward), s)
		case eventLeaveWard:
			s.hub.Leave(WardTopic(msg.Ward), s)
		case EventStatusBroadcast:
			// Echoed verbatim to the ward topic: no authorization, no
			// validation, nothing persisted. An ephemeral client-to-client
			// hint, kept with the trust boundary it implies.
			s.hub.Publish(WardTopic(msg.Ward), EventStatusBroadcast, msg.Data)
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
