package handlers

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/core/services"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

// DashboardSocketHandler streams telemetry to dashboard clients: a snapshot
// of agents and metrics on connect, recent activities, then live events.
type DashboardSocketHandler struct {
	orchestrator ports.OrchestratorService
	registry     *services.Registry
	coordinator  *services.Coordinator
	telemetry    *services.Telemetry
	logger       *logger.Logger
}

func NewDashboardSocketHandler(
	orchestrator ports.OrchestratorService,
	registry *services.Registry,
	coordinator *services.Coordinator,
	telemetry *services.Telemetry,
	logger *logger.Logger,
) *DashboardSocketHandler {
	return &DashboardSocketHandler{
		orchestrator: orchestrator,
		registry:     registry,
		coordinator:  coordinator,
		telemetry:    telemetry,
		logger:       logger,
	}
}

func (h *DashboardSocketHandler) Handle(c *websocket.Conn) {
	conn := &wsConn{conn: c}

	initial := map[string]any{
		"type": "initial_state",
		"data": map[string]any{
			"agents":    h.registry.GetAll(),
			"connected": h.coordinator.ConnectedAgents(),
			"metrics":   h.orchestrator.Metrics(),
			"timestamp": time.Now().UnixMilli(),
		},
	}
	if err := conn.WriteJSON(initial); err != nil {
		h.logger.Warnw("dashboard_initial_state_failed", "error", err)
		c.Close()
		return
	}
	if err := conn.WriteJSON(map[string]any{
		"type": "activities",
		"data": h.telemetry.Recent(20),
	}); err != nil {
		c.Close()
		return
	}

	h.telemetry.Attach(conn)
	defer h.telemetry.Detach(conn)

	h.logger.Infow("dashboard_client_connected")

	// Inbound frames are ignored; the loop only detects disconnect.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			h.logger.Infow("dashboard_client_disconnected")
			return
		}
	}
}
