// Package chat implements the websocket chat room: a single hub that
// registers connections and fans messages out to every participant.
package chat

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// Message is the wire format exchanged with chat clients.
type Message struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// client couples a connection with its outbound queue. Writes go
// through the send channel so only the write pump touches the socket.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

type broadcast struct {
	payload []byte
	exclude *client
}

// Hub owns the set of connected clients. All membership changes and
// fan-out happen on the Run goroutine, so no client map locking is
// needed anywhere else.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcasts chan broadcast
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcasts: make(chan broadcast, 16),
	}
}

// Run processes registrations and broadcasts until the process exits.
// Start it once from main.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
		case b := <-h.broadcasts:
			for c := range h.clients {
				if c == b.exclude {
					continue
				}
				select {
				case c.send <- b.payload:
				default:
					// Slow consumer; drop it rather than stall the room.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(m Message) {
	h.broadcastExcluding(m, nil)
}

func (h *Hub) broadcastExcluding(m Message, exclude *client) {
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	h.broadcasts <- broadcast{payload: payload, exclude: exclude}
}

// Join attaches a connection to the hub, announces the participant,
// and pumps messages until the connection drops. It blocks for the
// lifetime of the connection, so call it from the HTTP handler
// goroutine after the upgrade.
func (h *Hub) Join(conn *websocket.Conn, username string) {
	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.register <- c
	h.broadcastExcluding(Message{Sender: "system", Message: username + " joined the chat"}, c)

	go c.writePump()
	c.readPump(h, username)
}

// readPump relays inbound frames to the room and echoes them back to
// the sender labeled "You", matching the room's reference behavior.
func (c *client) readPump(h *Hub, username string) {
	defer func() {
		h.unregister <- c
		h.broadcastExcluding(Message{Sender: "system", Message: username + " left the chat"}, c)
		_ = c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		text := string(data)
		h.broadcastExcluding(Message{Sender: username, Message: text}, c)
		if echoed, err := json.Marshal(Message{Sender: "You", Message: text}); err == nil {
			select {
			case c.send <- echoed:
			default:
			}
		}
	}
}

// writePump drains the send queue onto the socket.
func (c *client) writePump() {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
