package ports

import (
	"context"

	"github.com/swarmhive/orchestrator/internal/domain"
)

// Advisor is the external intelligence service consulted when a task is
// submitted (analyze), when all required agents have responded (coordinate),
// and when a task is finalized (evaluate). Every call site bounds it with a
// timeout and substitutes a documented fallback on error.
type Advisor interface {
	AnalyzeTask(ctx context.Context, spec domain.TaskSpec) (domain.TaskAnalysis, error)
	CoordinateAgents(ctx context.Context, responses map[domain.AgentType]any) (domain.Coordination, error)
	EvaluateResults(ctx context.Context, task *domain.Task, result *domain.TaskResult) (domain.Evaluation, error)
}

// AgentConn is one live worker transport. Implementations must be safe for
// concurrent writers.
type AgentConn interface {
	WriteJSON(v any) error
	Close() error
}

// ResponseHandler receives TASK_COMPLETE payloads routed by the coordinator.
type ResponseHandler interface {
	HandleAgentResponse(agentType domain.AgentType, taskID string, result any)
}

// TelemetrySink receives fire-and-forget activity events for display.
type TelemetrySink interface {
	LogActivity(agentType domain.AgentType, action string, details map[string]any)
}

// OrchestratorService is the task-facing facade consumed by transport
// handlers and the CLI.
type OrchestratorService interface {
	SubmitTask(ctx context.Context, spec domain.TaskSpec) (string, error)
	TaskStatus(taskID string) (*domain.TaskStatus, error)
	Metrics() domain.SwarmMetrics
}
