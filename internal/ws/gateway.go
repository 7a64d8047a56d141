package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"pokeduel/internal/metrics"
)

// Coordinator is the inbound side of the session layer the gateway
// translates connection events into.
type Coordinator interface {
	OnConnect(conn int64, uuid string)
	OnDisconnect(conn int64)
	OnNameEnter(conn int64, name string) error
	OnReady(conn int64) error
	OnLeaveRoom(conn int64) error
	OnGameCommand(conn int64, action, stat string) error
}

// Gateway owns every live connection, assigns connection handles, and
// carries pushes from the coordinator back out. It is the only component
// touching raw websocket framing.
type Gateway struct {
	mu      sync.RWMutex
	clients map[int64]*Client
	nextID  int64
	coord   Coordinator
	log     *slog.Logger
}

func NewGateway(coord Coordinator, log *slog.Logger) *Gateway {
	return &Gateway{
		clients: make(map[int64]*Client),
		coord:   coord,
		log:     log,
	}
}

// HandleConn adopts an upgraded connection: starts its pumps and announces
// it to the coordinator under a fresh handle.
func (g *Gateway) HandleConn(conn *websocket.Conn, uuid string) {
	g.mu.Lock()
	g.nextID++
	c := newClient(g.nextID, conn, g)
	g.clients[c.ID] = c
	g.mu.Unlock()

	metrics.ConnectionsTotal.Inc()
	g.log.Info("connection accepted", "conn", c.ID, "uuid", uuid)

	go c.writePump()
	g.coord.OnConnect(c.ID, uuid)
	go c.readPump()
}

// Push serializes an outbound message for one connection. Slow consumers
// are dropped rather than blocking the session layer.
func (g *Gateway) Push(conn int64, kind string, payload any) {
	data, err := json.Marshal(outMessage{Type: kind, Payload: payload})
	if err != nil {
		g.log.Error("push marshal failed", "kind", kind, "err", err)
		return
	}

	g.mu.RLock()
	c, ok := g.clients[conn]
	g.mu.RUnlock()
	if !ok {
		g.log.Warn("push to unknown connection", "conn", conn, "kind", kind)
		return
	}

	select {
	case c.send <- data:
	default:
		g.log.Warn("send buffer full, dropping", "conn", conn, "kind", kind)
	}
}

// ClientCount reports live connections, for health endpoints.
func (g *Gateway) ClientCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}

// dispatch decodes one inbound frame and hands it to the coordinator.
// Errors returned by the coordinator are programming faults, not protocol
// errors; they are logged here at the fault boundary.
func (g *Gateway) dispatch(c *Client, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		g.log.Warn("bad frame", "conn", c.ID, "err", err)
		return
	}

	var err error
	switch msg.Type {
	case MsgNameEnter:
		var name string
		if jsonErr := json.Unmarshal(msg.Payload, &name); jsonErr != nil {
			g.log.Warn("bad nameEnter payload", "conn", c.ID, "err", jsonErr)
			return
		}
		err = g.coord.OnNameEnter(c.ID, name)

	case MsgReady:
		err = g.coord.OnReady(c.ID)

	case MsgLeaveRoom:
		err = g.coord.OnLeaveRoom(c.ID)

	case MsgGameCommand:
		var cmd GameCommandPayload
		if jsonErr := json.Unmarshal(msg.Payload, &cmd); jsonErr != nil {
			g.log.Warn("bad gameCommand payload", "conn", c.ID, "err", jsonErr)
			return
		}
		err = g.coord.OnGameCommand(c.ID, cmd.ActionType, cmd.Payload)

	default:
		g.log.Warn("unknown message type", "conn", c.ID, "type", msg.Type)
	}

	if err != nil {
		g.log.Error("unhandled fault in session layer", "conn", c.ID, "type", msg.Type, "err", err)
	}
}

// drop tears a connection down after its read pump exits.
func (g *Gateway) drop(c *Client) {
	g.mu.Lock()
	if _, ok := g.clients[c.ID]; ok {
		delete(g.clients, c.ID)
		close(c.send)
	}
	g.mu.Unlock()

	g.coord.OnDisconnect(c.ID)
	_ = c.conn.Close()
	g.log.Info("connection closed", "conn", c.ID)
}
