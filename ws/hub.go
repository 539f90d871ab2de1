package ws

import (
	"log"
	"net/http"
	"sync"

	"chathub-backend/repository"

	"github.com/gorilla/websocket"
)

// SessionValidator is the external credential-store contract the hub calls
// exactly once per connection, as the first event.
type SessionValidator interface {
	ValidateSession(token string) (identity, username string, err error)
}

type envelope struct {
	client *Client
	event  Event
	raw    []byte
}

// Hub is the connection registry and the single choke point for all shared
// state. One goroutine consumes inbound and unregister through Run, so every
// mutation of the friend graph, room registry, and connection table is
// serialized and each connection's events are handled in arrival order.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Client // identity -> live connection

	inbound    chan envelope
	unregister chan *Client

	friends repository.FriendRepository
	rooms   repository.RoomRepository
	auth    SessionValidator
}

func NewHub(friends repository.FriendRepository, rooms repository.RoomRepository, auth SessionValidator) *Hub {
	return &Hub{
		conns:      make(map[string]*Client),
		inbound:    make(chan envelope, 256),
		unregister: make(chan *Client),
		friends:    friends,
		rooms:      rooms,
		auth:       auth,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.unregister:
			h.unbind(c)
		case env := <-h.inbound:
			h.dispatch(env)
		}
	}
}

// IsOnline reports whether an identity has a live connection. Used both for
// presence display and to decide whether a push is possible at all; nothing
// is ever queued for offline identities.
func (h *Hub) IsOnline(identity string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[identity]
	return ok
}

func (h *Hub) online(identity string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[identity]
}

// bind registers the authenticated connection, replacing any prior one for
// the same identity (last-writer-wins; no multi-device fan-out). The
// displaced connection gets its queued frames flushed before the close and
// its later unbind is a no-op.
func (h *Hub) bind(c *Client) {
	h.mu.Lock()
	old := h.conns[c.identity]
	h.conns[c.identity] = c
	total := len(h.conns)
	h.mu.Unlock()

	if old != nil && old != c {
		log.Printf("Replacing connection for %s (old conn %s)", c.identity, old.connID)
		old.closeSend()
	}
	log.Printf("User %s (%s) connected. Online: %d", c.username, c.identity, total)
}

// unbind is the disconnect cleanup path: room memberships first, then the
// registry entry, then presence fan-out to friends. A connection that was
// displaced by a newer bind for the same identity skips cleanup entirely.
// Every arm ends with closeSend so writePump always gets released.
func (h *Hub) unbind(c *Client) {
	defer c.closeSend()

	if c.identity == "" {
		return // never authenticated
	}

	h.mu.Lock()
	if h.conns[c.identity] != c {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c.identity)
	h.mu.Unlock()

	affected := h.rooms.LeaveAll(c.identity)
	for _, key := range affected {
		h.notifyRoomMembers(key)
	}

	for _, friend := range h.friends.FriendsOf(c.identity) {
		h.sendFriendsList(friend)
	}

	log.Printf("User %s disconnected", c.identity)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS: allow all for demo
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and starts its pumps. Authentication
// happens on the first event, not at upgrade time.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	c := newClient(h, conn)
	log.Printf("New WebSocket connection %s from %s", c.connID, r.RemoteAddr)

	go c.writePump()
	go c.readPump()
}
