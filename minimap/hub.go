// Package minimap streams occupied-cell updates to minimap clients over
// websockets.
package minimap

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/service/i"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer      = 64               // Buffered events per subscriber.
	writeWait       = 5 * time.Second  // Deadline for one websocket write.
	defaultPongWait = 60 * time.Second // Time allowed between pongs.
)

// Kind names a minimap event.
type Kind string

const (
	KindLevel Kind = "level" // A level started; Layout holds the grid.
	KindCell  Kind = "cell"  // The camera occupies Row, Col.
	KindEnd   Kind = "end"   // The session is over.
)

// Event is one message on the feed.
type Event struct {
	Kind   Kind     `json:"kind"`
	Level  int      `json:"level"`
	Row    int      `json:"row"`
	Col    int      `json:"col"`
	Layout []string `json:"layout,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type subscriber struct {
	conn     *websocket.Conn
	send     chan Event
	pongWait time.Duration
}

// Hub fans events out to the websocket subscribers of each player. Late
// subscribers are replayed the current level and last occupied cell.
type Hub struct {
	subs     map[uuid.UUID]map[*subscriber]struct{} // Subscribers by player.
	replay   map[uuid.UUID][]Event                  // Level, last cell and end events by player.
	logger   i.Logger
	pongWait time.Duration // Pings go out every 9/10 of it.
	sync.Mutex
}

// NewHub creates an empty hub.
func NewHub(logger i.Logger) *Hub {
	return &Hub{
		subs:     make(map[uuid.UUID]map[*subscriber]struct{}),
		replay:   make(map[uuid.UUID][]Event),
		logger:   logger,
		pongWait: defaultPongWait,
	}
}

// Publish records ev for replay and sends it to every subscriber of the player.
func (h *Hub) Publish(playerID uuid.UUID, ev Event) {
	h.Lock()
	defer h.Unlock()

	h.remember(playerID, ev)
	for sub := range h.subs[playerID] {
		select {
		case sub.send <- ev:
		default:
			h.logger.Warning(fmt.Sprintf("minimap subscriber of %s is slow, dropping %s event", playerID, ev.Kind))
		}
	}
}

func (h *Hub) remember(playerID uuid.UUID, ev Event) {
	switch ev.Kind {
	case KindLevel:
		h.replay[playerID] = []Event{ev}
	case KindCell:
		kept := h.replay[playerID][:0:0]
		for _, old := range h.replay[playerID] {
			if old.Kind == KindLevel {
				kept = append(kept, old)
			}
		}
		h.replay[playerID] = append(kept, ev)
	case KindEnd:
		h.replay[playerID] = append(h.replay[playerID], ev)
	}
}

// Forget disconnects the player's subscribers and drops its replay state.
func (h *Hub) Forget(playerID uuid.UUID) {
	h.Lock()
	defer h.Unlock()

	for sub := range h.subs[playerID] {
		close(sub.send)
	}
	delete(h.subs, playerID)
	delete(h.replay, playerID)
}

// Subscribers returns the number of open subscriptions for the player.
func (h *Hub) Subscribers(playerID uuid.UUID) int {
	h.Lock()
	defer h.Unlock()
	return len(h.subs[playerID])
}

// Serve upgrades the request and streams the player's events until the
// client disconnects or the player is forgotten.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, playerID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warning(fmt.Sprintf("upgrading minimap connection: %s", err))
		return
	}

	sub := &subscriber{conn: conn, send: make(chan Event, sendBuffer), pongWait: h.pongWait}
	h.add(playerID, sub)

	go sub.writePump()
	sub.readPump()
	h.remove(playerID, sub)
}

func (h *Hub) add(playerID uuid.UUID, sub *subscriber) {
	h.Lock()
	defer h.Unlock()

	if h.subs[playerID] == nil {
		h.subs[playerID] = make(map[*subscriber]struct{})
	}
	h.subs[playerID][sub] = struct{}{}
	for _, ev := range h.replay[playerID] {
		sub.send <- ev
	}
}

func (h *Hub) remove(playerID uuid.UUID, sub *subscriber) {
	h.Lock()
	defer h.Unlock()

	if _, ok := h.subs[playerID][sub]; !ok {
		return
	}
	close(sub.send)
	delete(h.subs[playerID], sub)
	if len(h.subs[playerID]) == 0 {
		delete(h.subs, playerID)
	}
}

// readPump discards client messages; it returns once the connection fails.
func (s *subscriber) readPump() {
	_ = s.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends events and keeps listen-only clients alive with pings.
func (s *subscriber) writePump() {
	ticker := time.NewTicker(s.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-s.send:
			if !ok {
				_ = s.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
