package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/core/services"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/transport/http/dto"
)

// SwarmHandler exposes the read-only diagnostic surface: registered agent
// types, live connections, aggregate metrics, and recent activities.
type SwarmHandler struct {
	orchestrator ports.OrchestratorService
	registry     *services.Registry
	coordinator  *services.Coordinator
	telemetry    *services.Telemetry
	archive      ports.ActivityRepository
}

// NewSwarmHandler builds the handler. archive may be nil; activities then
// come from the in-memory ring only.
func NewSwarmHandler(
	orchestrator ports.OrchestratorService,
	registry *services.Registry,
	coordinator *services.Coordinator,
	telemetry *services.Telemetry,
	archive ports.ActivityRepository,
) *SwarmHandler {
	return &SwarmHandler{
		orchestrator: orchestrator,
		registry:     registry,
		coordinator:  coordinator,
		telemetry:    telemetry,
		archive:      archive,
	}
}

func (h *SwarmHandler) GetAgents(c *fiber.Ctx) error {
	return c.JSON(dto.AgentsResponse{
		Registered: h.registry.GetAll(),
		Connected:  h.coordinator.ConnectedAgents(),
	})
}

func (h *SwarmHandler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(h.orchestrator.Metrics())
}

func (h *SwarmHandler) GetActivities(c *fiber.Ctx) error {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid limit"})
		}
		limit = parsed
	}

	agentType := domain.AgentType(c.Query("agent_type"))
	if agentType != "" && !domain.KnownAgentType(agentType) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unknown agent type"})
	}

	if h.archive != nil {
		var (
			activities []domain.Activity
			err        error
		)
		if agentType != "" {
			activities, err = h.archive.GetByAgentType(c.Context(), agentType, limit)
		} else {
			activities, err = h.archive.GetAll(c.Context(), limit)
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to load activities"})
		}
		return c.JSON(activities)
	}

	recent := h.telemetry.Recent(limit)
	if agentType == "" {
		return c.JSON(recent)
	}
	filtered := make([]domain.Activity, 0, len(recent))
	for _, a := range recent {
		if a.AgentType == agentType {
			filtered = append(filtered, a)
		}
	}
	return c.JSON(filtered)
}
