package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/render"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBufSize    = 256
)

// Event types pushed to browser clients.
const (
	EventTypeAppend = "append"
	EventTypeRemove = "remove"
	EventTypeClear  = "clear"
	EventTypeNotice = "notice"
)

// Event is the wire shape of one relay push.
type Event struct {
	Type string       `json:"type"`
	Unit *render.Unit `json:"unit,omitempty"`
	ID   string       `json:"id,omitempty"`
	Text string       `json:"text,omitempty"`
}

// Relay is the rendering surface of the gateway: it implements the
// render sink and the notifier, fanning units and notices out to every
// connected browser. A freshly connected client gets the current
// rendered set replayed in order, so the browser never re-subscribes
// the stream itself.
type Relay struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
	units   []render.Unit
}

func NewRelay() *Relay {
	return &Relay{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// Append records and broadcasts one render unit, placeholders
// included.
func (r *Relay) Append(u render.Unit) {
	r.mu.Lock()
	r.units = append(r.units, u)
	r.mu.Unlock()

	r.broadcast(Event{Type: EventTypeAppend, Unit: &u})
}

// RemovePlaceholder drops a pending upload placeholder from the
// rendered set.
func (r *Relay) RemovePlaceholder(id string) {
	r.mu.Lock()
	kept := r.units[:0]
	for _, u := range r.units {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	r.units = kept
	r.mu.Unlock()

	r.broadcast(Event{Type: EventTypeRemove, ID: id})
}

// Clear empties the rendered set on every client.
func (r *Relay) Clear() {
	r.mu.Lock()
	r.units = nil
	r.mu.Unlock()

	r.broadcast(Event{Type: EventTypeClear})
}

// Info implements the notifier: one uniform info modal on every
// client.
func (r *Relay) Info(message string) {
	r.broadcast(Event{Type: EventTypeNotice, Text: message})
}

func (r *Relay) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("relay: failed to marshal event: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		select {
		case c.send <- data:
		default:
			// Slow client; drop it rather than block the feed.
			close(c.send)
			delete(r.clients, id)
		}
	}
}

// ServeHTTP upgrades the connection and replays the current rendered
// set before live events start flowing.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("relay: upgrade failed: %v", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}

	r.mu.Lock()
replay:
	for _, u := range r.units {
		unit := u
		data, err := json.Marshal(Event{Type: EventTypeAppend, Unit: &unit})
		if err != nil {
			continue
		}
		select {
		case c.send <- data:
		default:
			log.Printf("relay: replay overflow for client %s", c.id)
			break replay
		}
	}
	r.clients[c.id] = c
	r.mu.Unlock()

	go c.writePump()
	go c.readPump(r)
}

func (r *Relay) drop(c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.id]; ok {
		close(c.send)
		delete(r.clients, c.id)
	}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// readPump discards client frames; the browser mutates through the
// HTTP API, not the socket. It exists to service pongs and close
// frames.
func (c *client) readPump(r *Relay) {
	defer func() {
		r.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
