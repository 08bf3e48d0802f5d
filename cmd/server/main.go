package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/swarmhive/orchestrator/internal/config"
	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/core/services"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/advisor"
	"github.com/swarmhive/orchestrator/internal/infrastructure/colosseum"
	"github.com/swarmhive/orchestrator/internal/infrastructure/db"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
	transporthttp "github.com/swarmhive/orchestrator/internal/transport/http"
	"gorm.io/gorm"
)

func main() {
	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "../config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	var database *gorm.DB
	var activityRepo ports.ActivityRepository
	if cfg.Database.Enabled {
		database, err = db.NewPostgresConnection(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		log.Info("database connection established")

		if err := db.RunMigrations(database); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		log.Info("database migrations completed")

		activityRepo = db.NewActivityRepository(database, log)
	}

	registry := services.NewRegistry(log.Named("registry"))
	registry.RegisterDefaults()

	telemetry := services.NewTelemetry(services.TelemetryConfig{
		MaxActivities: cfg.Telemetry.MaxActivities,
		Repository:    activityRepo,
		Logger:        log.Named("telemetry"),
	})

	coordinator := services.NewCoordinator(services.CoordinatorConfig{
		Selector:  services.NewRoundRobinSelector(),
		Telemetry: telemetry,
		Logger:    log.Named("coordinator"),
	})

	orchestrator := services.NewOrchestrator(services.OrchestratorConfig{
		Name:           cfg.Name,
		Store:          services.NewTaskStore(log.Named("tasks")),
		Coordinator:    coordinator,
		Registry:       registry,
		Dispatcher:     services.NewDispatcher(registry),
		Advisor:        buildAdvisor(cfg, log),
		Telemetry:      telemetry,
		AdvisorTimeout: cfg.Advisor.Timeout,
		Logger:         log.Named("orchestrator"),
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		ErrorHandler:          globalErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	allowedOrigins := "http://localhost:3000"
	if len(cfg.Auth.AllowedOrigins) > 0 {
		allowedOrigins = strings.Join(cfg.Auth.AllowedOrigins, ",")
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Token, X-Agent-Type, X-Agent-Id",
		AllowMethods: "GET, POST, HEAD, PUT, DELETE, PATCH",
	}))

	app.Use(func(c *fiber.Ctx) error {
		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		ctx := context.WithValue(c.Context(), "request_id", reqID)
		c.SetUserContext(ctx)
		return c.Next()
	})

	if cfg.Server.EnableRequestLogging {
		app.Use(func(c *fiber.Ctx) error {
			start := time.Now()
			err := c.Next()
			log.Infow("http_access",
				"method", c.Method(),
				"path", c.Path(),
				"status", c.Response().StatusCode(),
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.IP(),
				"request_id", c.Context().Value("request_id"),
			)
			return err
		})
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	transporthttp.SetupRoutes(app, transporthttp.RouterConfig{
		Logger:       log,
		Config:       cfg,
		Orchestrator: orchestrator,
		Registry:     registry,
		Coordinator:  coordinator,
		Telemetry:    telemetry,
		Activities:   activityRepo,
	})

	if activityRepo != nil {
		go runActivityCleanup(activityRepo, cfg.Telemetry.Retention, log.Named("cleanup"))
	}

	if cfg.Colosseum.AnnounceOnStart && cfg.Colosseum.APIKey != "" {
		go announceSwarm(cfg, log)
	}

	go func() {
		addr := cfg.Server.Address()
		log.Infof("server started on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	gracefulShutdown(app, coordinator, database, log)
}

// buildAdvisor returns the configured LLM provider; nil means every
// planning call falls back to defaults.
func buildAdvisor(cfg *config.Config, log *logger.Logger) ports.Advisor {
	if cfg.Advisor.APIKey == "" {
		log.Warn("no advisor api key configured, using fallback planning")
		return nil
	}

	switch cfg.Advisor.Provider {
	case "anthropic":
		log.Infow("advisor_configured", "provider", "anthropic", "model", cfg.Advisor.Model)
		return advisor.NewAnthropic(advisor.AnthropicConfig{
			APIKey: cfg.Advisor.APIKey,
			Model:  cfg.Advisor.Model,
		})
	case "openai", "":
		log.Infow("advisor_configured", "provider", "openai", "model", cfg.Advisor.Model)
		return advisor.NewOpenAI(advisor.OpenAIConfig{
			APIKey:  cfg.Advisor.APIKey,
			BaseURL: cfg.Advisor.BaseURL,
			Model:   cfg.Advisor.Model,
		})
	default:
		log.Warnf("unknown advisor provider %q, using fallback planning", cfg.Advisor.Provider)
		return nil
	}
}

// runActivityCleanup prunes archived activities older than the configured
// retention window. Runs for the lifetime of the process.
func runActivityCleanup(repo ports.ActivityRepository, retention time.Duration, log *logger.Logger) {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}

	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := repo.CleanupOld(ctx, retention); err != nil {
			log.Warnf("activity cleanup failed: %v", err)
		}
		cancel()
	}
}

func announceSwarm(cfg *config.Config, log *logger.Logger) {
	time.Sleep(2 * time.Second)

	client := colosseum.NewClient(colosseum.ClientConfig{
		APIKey:  cfg.Colosseum.APIKey,
		BaseURL: cfg.Colosseum.BaseURL,
		Logger:  log.Named("colosseum"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	name := cfg.Name
	if name == "" {
		name = "swarm orchestrator"
	}
	_, err := client.CreateForumPost(ctx, colosseum.ForumPost{
		Title: fmt.Sprintf("%s is online", name),
		Body:  "Swarm coordination server started and accepting agent connections.",
		Tags:  []string{"progress"},
	})
	if err != nil {
		log.Warnf("failed to announce on forum: %v", err)
		return
	}
	log.Info("swarm announced on contest forum")
}

func globalErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code == fiber.StatusRequestTimeout || code == fiber.StatusNotFound {
			log.Warnw("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"error", err.Error(),
				"request_id", c.Context().Value("request_id"),
			)
		} else {
			log.Errorw("request error",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"error", err.Error(),
				"request_id", c.Context().Value("request_id"),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func gracefulShutdown(app *fiber.App, coordinator *services.Coordinator, database *gorm.DB, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("shutting down server...")

	// Best-effort notice so agents stop waiting on this endpoint and start
	// their reconnect loops immediately.
	coordinator.Broadcast(domain.Envelope{
		Type:   domain.MessageAgentStatus,
		Status: "shutting-down",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	if database != nil {
		if err := db.Close(database); err != nil {
			log.Errorf("failed to close database connection: %v", err)
		}
	}

	log.Info("server exited gracefully")
}
