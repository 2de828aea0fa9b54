package Socket

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Conn is the subset of a websocket connection the hub needs. Tests
// substitute a fake.
type Conn interface {
	WriteJSON(v interface{}) error
}

// Client is one live connection owned by a user. writeMu serializes
// pushes from concurrent request handlers onto the single socket.
type Client struct {
	ID      string
	UserID  uint
	Conn    Conn
	writeMu sync.Mutex
}

// Hub is the in-process presence registry: user -> most recent connection,
// plus per-channel rooms for channel message delivery. State is
// process-lifetime only; clients re-register on reconnect. All methods are
// safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]*Client
	rooms   map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]*Client),
		rooms:   make(map[uint]map[*Client]struct{}),
	}
}

// Register associates a user with a live connection, replacing any prior
// one. Last registration wins: an earlier tab stops receiving pushes.
func (h *Hub) Register(userID uint, conn Conn) *Client {
	client := &Client{ID: uuid.NewString(), UserID: userID, Conn: conn}
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok {
		h.removeFromRoomsLocked(old)
	}
	h.clients[userID] = client
	return client
}

// Unregister drops the client from the registry and every room. A stale
// client that was already replaced by a newer registration only leaves
// the rooms.
func (h *Hub) Unregister(client *Client) {
	if client == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[client.UserID]; ok && current == client {
		delete(h.clients, client.UserID)
	}
	h.removeFromRoomsLocked(client)
}

func (h *Hub) removeFromRoomsLocked(client *Client) {
	for id, room := range h.rooms {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, id)
		}
	}
}

// Lookup returns the user's current connection, if any.
func (h *Hub) Lookup(userID uint) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[userID]
	return client, ok
}

func (h *Hub) Online(userID uint) bool {
	_, ok := h.Lookup(userID)
	return ok
}

// EmitToUser pushes an event to the user's connection if present. Absent
// or failed connections are skipped silently; pushes are best-effort.
func (h *Hub) EmitToUser(userID uint, event string, data interface{}) bool {
	client, ok := h.Lookup(userID)
	if !ok {
		return false
	}
	h.send(client, event, data)
	return true
}

// Broadcast delivers an event to every connected client.
func (h *Hub) Broadcast(event string, data interface{}) {
	for _, client := range h.snapshot() {
		h.send(client, event, data)
	}
}

// BroadcastExcept delivers to every connected client but one, used for
// "everyone else should refresh" signals.
func (h *Hub) BroadcastExcept(userID uint, event string, data interface{}) {
	for _, client := range h.snapshot() {
		if client.UserID == userID {
			continue
		}
		h.send(client, event, data)
	}
}

// JoinChannel adds a live client to a channel room.
func (h *Hub) JoinChannel(client *Client, channelID uint) {
	if client == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[channelID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[channelID] = room
	}
	room[client] = struct{}{}
}

// JoinUserToChannel joins the user's current connection, if any, to a
// channel room. Used when a member is added server-side so they start
// receiving live channel traffic without a reconnect.
func (h *Hub) JoinUserToChannel(userID, channelID uint) {
	client, ok := h.Lookup(userID)
	if !ok {
		return
	}
	h.JoinChannel(client, channelID)
}

// EmitToChannel pushes to every client that joined the channel room. A
// member whose session never joined misses live traffic until rejoin;
// history remains available through the read path.
func (h *Hub) EmitToChannel(channelID uint, event string, data interface{}) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[channelID]))
	for client := range h.rooms[channelID] {
		members = append(members, client)
	}
	h.mu.RUnlock()
	for _, client := range members {
		h.send(client, event, data)
	}
}

// CloseChannel drops the room after a channel is deleted.
func (h *Hub) CloseChannel(channelID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, channelID)
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		out = append(out, client)
	}
	return out
}

func (h *Hub) send(client *Client, event string, data interface{}) {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()
	if err := client.Conn.WriteJSON(Frame{Event: event, Data: data}); err != nil {
		log.Printf("socket: write to user %d failed: %v", client.UserID, err)
	}
}
