// Package chat bridges the WebSocket hub and the chat service. Each
// authenticated connection sits in a per-user room, so delivery to a user
// reaches every device they have open.
package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/auth"
	"github.com/shashiranjanraj/influex/pkg/logger"
	"github.com/shashiranjanraj/influex/pkg/metrics"
	"github.com/shashiranjanraj/influex/pkg/middleware"
	"github.com/shashiranjanraj/influex/pkg/response"
	"github.com/shashiranjanraj/influex/pkg/ws"
)

var wsConnections = metrics.NewGauge("influex", "ws_connections",
	"Currently open chat WebSocket connections.", nil)

// Frame is the wire format in both directions.
type Frame struct {
	Type    string          `json:"type"`
	To      uint            `json:"to,omitempty"`
	Content string          `json:"content,omitempty"`
	TempID  string          `json:"temp_id,omitempty"`
	Success bool            `json:"success,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message *models.Message `json:"message,omitempty"`
}

// Gateway owns the hub and the client-to-user association.
type Gateway struct {
	hub *ws.Hub
	svc *services.ChatService

	mu  sync.Mutex
	ids map[*ws.Client]uint
}

func NewGateway(svc *services.ChatService) *Gateway {
	g := &Gateway{
		hub: ws.NewHub(),
		svc: svc,
		ids: make(map[*ws.Client]uint),
	}
	g.hub.OnMessage = g.onMessage
	g.hub.OnDisconnect = g.onDisconnect
	return g
}

// Run starts the hub loop. Call in a goroutine at boot.
func (g *Gateway) Run() { g.hub.Run() }

// Handler authenticates the handshake and upgrades the connection. The
// token travels in the Authorization header or the token query parameter;
// the same validation path as the REST guard applies, so a token accepted
// here is accepted there too.
func (g *Gateway) Handler(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		response.Unauthorized(w)
		return
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	client, err := ws.Upgrade(w, r, g.hub)
	if err != nil {
		return // upgrade already wrote the error
	}

	g.mu.Lock()
	g.ids[client] = claims.UserID
	g.mu.Unlock()

	g.hub.Join(client, roomFor(claims.UserID))
	wsConnections.WithLabelValues().Inc()
}

func (g *Gateway) onMessage(_ *ws.Hub, msg ws.Message) {
	userID, ok := g.userFor(msg.Client)
	if !ok {
		return
	}

	var frame Frame
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		g.reply(msg.Client, Frame{Type: "ack", Success: false, Error: "malformed frame"})
		return
	}

	switch frame.Type {
	case "join":
		// Clients may only sit in their own room. Rejoining it is a
		// no-op; kept for clients that reconnect and replay their
		// handshake sequence.
		if frame.To != 0 && frame.To != userID {
			g.reply(msg.Client, Frame{Type: "ack", TempID: frame.TempID, Success: false,
				Error: "cannot join another user's room"})
			return
		}
		g.hub.Join(msg.Client, roomFor(userID))
		g.reply(msg.Client, Frame{Type: "ack", TempID: frame.TempID, Success: true})

	case "send_message":
		g.handleSend(msg.Client, userID, frame)

	default:
		g.reply(msg.Client, Frame{Type: "ack", TempID: frame.TempID, Success: false,
			Error: fmt.Sprintf("unknown frame type %q", frame.Type)})
	}
}

func (g *Gateway) handleSend(c *ws.Client, from uint, frame Frame) {
	saved, err := g.svc.Send(from, frame.To, frame.Content)
	if err != nil {
		g.reply(c, Frame{Type: "ack", TempID: frame.TempID, Success: false, Error: err.Error()})
		return
	}

	// The row is committed before anyone hears about it.
	g.reply(c, Frame{Type: "ack", TempID: frame.TempID, Success: true, Message: &saved})
	g.Deliver(saved)
}

// Deliver fans a stored message out to both participants' rooms. Also used
// by the REST send endpoint so HTTP-sent messages reach open sockets.
func (g *Gateway) Deliver(msg models.Message) {
	data, err := json.Marshal(Frame{Type: "new_message", Message: &msg})
	if err != nil {
		logger.Error("chat: marshal frame", "error", err)
		return
	}
	g.hub.EmitToRoom(roomFor(msg.ToUserID), data)
	if msg.FromUserID != msg.ToUserID {
		g.hub.EmitToRoom(roomFor(msg.FromUserID), data)
	}
}

func (g *Gateway) reply(c *ws.Client, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		logger.Error("chat: marshal frame", "error", err)
		return
	}
	c.Send(data)
}

func (g *Gateway) userFor(c *ws.Client) (uint, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.ids[c]
	return id, ok
}

func (g *Gateway) onDisconnect(_ *ws.Hub, c *ws.Client) {
	g.mu.Lock()
	delete(g.ids, c)
	g.mu.Unlock()
	wsConnections.WithLabelValues().Dec()
}

func roomFor(userID uint) string {
	return fmt.Sprintf("user-%d", userID)
}
