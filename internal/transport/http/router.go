package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/swarmhive/orchestrator/internal/config"
	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/core/services"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
	"github.com/swarmhive/orchestrator/internal/transport/http/handlers"
	httpmw "github.com/swarmhive/orchestrator/internal/transport/http/middleware"
)

type RouterConfig struct {
	Logger       *logger.Logger
	Config       *config.Config
	Orchestrator ports.OrchestratorService
	Registry     *services.Registry
	Coordinator  *services.Coordinator
	Telemetry    *services.Telemetry
	Activities   ports.ActivityRepository
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	taskHandler := handlers.NewTaskHandler(cfg.Orchestrator, cfg.Logger)
	swarmHandler := handlers.NewSwarmHandler(cfg.Orchestrator, cfg.Registry, cfg.Coordinator, cfg.Telemetry, cfg.Activities)
	agentSocketHandler := handlers.NewAgentSocketHandler(cfg.Coordinator, cfg.Logger)
	dashboardSocketHandler := handlers.NewDashboardSocketHandler(
		cfg.Orchestrator, cfg.Registry, cfg.Coordinator, cfg.Telemetry, cfg.Logger)

	// Worker identity arrives as headers on the upgrade request; fiber locals
	// carry it across into the websocket handler.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("agent_type", c.Get("X-Agent-Type"))
			c.Locals("agent_id", c.Get("X-Agent-Id"))
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws/agent", websocket.New(agentSocketHandler.Handle))
	app.Get("/ws/dashboard", websocket.New(dashboardSocketHandler.Handle))

	// API v1 routes
	api := app.Group("/api/v1")

	tasks := api.Group("/tasks", httpmw.AdminAuth(cfg.Config))
	tasks.Post("/", taskHandler.SubmitTask)
	tasks.Get("/:id", taskHandler.GetTaskStatus)

	api.Get("/agents", swarmHandler.GetAgents)
	api.Get("/metrics", swarmHandler.GetMetrics)
	api.Get("/activities", swarmHandler.GetActivities)
}
