package Socket

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler owns the websocket endpoint and translates client frames into
// hub operations.
type Handler struct {
	Hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{Hub: hub}
}

// Upgrade gates the endpoint to real websocket upgrade requests.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Serve runs the per-connection read loop. The connection is anonymous
// until the client sends a register frame; join frames before that are
// dropped.
func (h *Handler) Serve(conn *websocket.Conn) {
	var client *Client
	defer func() {
		h.Hub.Unregister(client)
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			log.Printf("socket: bad frame: %v", err)
			continue
		}

		switch frame.Event {
		case EventRegister:
			userID, ok := parseID(frame.Data)
			if !ok {
				continue
			}
			client = h.Hub.Register(userID, conn)
		case EventJoinChannel:
			if client == nil {
				continue
			}
			if channelID, ok := parseID(frame.Data); ok {
				h.Hub.JoinChannel(client, channelID)
			}
		case EventJoinChannels:
			if client == nil {
				continue
			}
			var ids []json.RawMessage
			if err := json.Unmarshal(frame.Data, &ids); err != nil {
				continue
			}
			for _, raw := range ids {
				if channelID, ok := parseID(raw); ok {
					h.Hub.JoinChannel(client, channelID)
				}
			}
		}
	}
}

// parseID accepts both numeric and string ids, since older clients send
// numbers as JSON strings.
func parseID(raw json.RawMessage) (uint, bool) {
	var n uint
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseUint(s, 10, 32); err == nil {
			return uint(parsed), true
		}
	}
	return 0, false
}
