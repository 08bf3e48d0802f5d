package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/core/services"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
	"github.com/swarmhive/orchestrator/internal/transport/http/dto"
)

type TaskHandler struct {
	orchestrator ports.OrchestratorService
	logger       *logger.Logger
}

func NewTaskHandler(orchestrator ports.OrchestratorService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{orchestrator: orchestrator, logger: logger}
}

func (h *TaskHandler) SubmitTask(c *fiber.Ctx) error {
	var req dto.SubmitTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("submit_task_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.logger.Warnw("submit_task_validation_failed", "errors", errs)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Validation failed", Details: errs})
	}

	taskID, err := h.orchestrator.SubmitTask(c.Context(), req.ToSpec())
	if err != nil {
		h.logger.Errorw("submit_task_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	h.logger.Infow("submit_task_ok", "task_id", taskID)
	return c.Status(fiber.StatusCreated).JSON(dto.SubmitTaskResponse{TaskID: taskID})
}

func (h *TaskHandler) GetTaskStatus(c *fiber.Ctx) error {
	taskID := c.Params("id")

	status, err := h.orchestrator.TaskStatus(taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Task not found"})
		}
		h.logger.Errorw("get_task_status_failed", "task_id", taskID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(status)
}
