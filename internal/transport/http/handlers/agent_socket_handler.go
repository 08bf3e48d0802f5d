package handlers

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/swarmhive/orchestrator/internal/core/services"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

// wsConn adapts a fiber websocket connection to ports.AgentConn. Gorilla
// conns allow one concurrent writer, so writes are serialized here.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// AgentSocketHandler owns the worker-facing websocket endpoint. Identity
// travels as connection headers, captured into locals before the upgrade.
type AgentSocketHandler struct {
	coordinator *services.Coordinator
	logger      *logger.Logger
}

func NewAgentSocketHandler(coordinator *services.Coordinator, logger *logger.Logger) *AgentSocketHandler {
	return &AgentSocketHandler{coordinator: coordinator, logger: logger}
}

func (h *AgentSocketHandler) Handle(c *websocket.Conn) {
	declaredType, _ := c.Locals("agent_type").(string)
	declaredID, _ := c.Locals("agent_id").(string)

	conn := &wsConn{conn: c}
	agent, err := h.coordinator.Accept(conn, domain.AgentType(declaredType), declaredID)
	if err != nil {
		// The transport stays open but nothing this connection sends is
		// ever routed.
		h.logger.Warnw("agent_socket_unregistered", "type", declaredType, "id", declaredID, "error", err)
		h.drain(c)
		return
	}
	defer h.coordinator.Disconnect(agent)

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		var env domain.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// Malformed envelope: drop the message, keep the connection.
			h.logger.Warnw("agent_message_parse_failed", "type", agent.Type, "id", agent.ID, "error", err)
			continue
		}
		h.coordinator.HandleMessage(agent, env)
	}
}

func (h *AgentSocketHandler) drain(c *websocket.Conn) {
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
