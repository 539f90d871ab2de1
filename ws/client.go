package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is the live transport binding for one identity. identity stays
// empty until the connection's first event authenticates it.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	connID   string // for log correlation before the identity is known
	identity string
	username string

	// closed is only touched on the hub goroutine; once set, pushes are
	// refused and the send channel is closed.
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		connID: uuid.NewString(),
	}
}

// push marshals and queues an outbound event, reporting whether the payload
// was accepted. A full buffer or closed handle means the event is dropped;
// delivery here is strictly best-effort.
func (c *Client) push(v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("Client %s marshal error: %v", c.connID, err)
		return false
	}
	return c.pushRaw(b)
}

func (c *Client) pushRaw(b []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// closeSend refuses further pushes and closes the send channel. writePump
// drains whatever is already queued, emits a close frame, and tears the
// connection down, so frames pushed before closeSend still reach the peer.
// Must only be called from the hub goroutine.
func (c *Client) closeSend() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(300 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(300 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Client %s read error: %v", c.connID, err)
			}
			break
		}

		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			log.Printf("Client %s unmarshal error: %v", c.connID, err)
			continue
		}

		c.hub.inbound <- envelope{client: c, event: evt, raw: raw}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(240 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				log.Printf("Client %s next writer error: %v", c.connID, err)
				return
			}
			if _, err := w.Write(msg); err != nil {
				log.Printf("Client %s write error: %v", c.connID, err)
				return
			}
			if err := w.Close(); err != nil {
				log.Printf("Client %s writer close error: %v", c.connID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Client %s ping error: %v", c.connID, err)
				return
			}
		}
	}
}
