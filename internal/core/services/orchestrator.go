package services

import (
	"context"
	"sync"
	"time"

	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

const defaultAdvisorTimeout = 15 * time.Second

// Orchestrator is the coordination facade: it accepts task submissions,
// consults the advisor, drives the coordinator and task store, and finalizes
// completed tasks. Advisor failures never block a task; every call site has
// a documented fallback.
type Orchestrator struct {
	name        string
	store       *TaskStore
	coordinator *Coordinator
	registry    *Registry
	dispatcher  *Dispatcher
	advisor     ports.Advisor
	sink        ports.TelemetrySink
	timeout     time.Duration
	log         *logger.Logger

	mu        sync.Mutex
	active    map[string]struct{}
	completed []domain.CompletedTask
}

type OrchestratorConfig struct {
	Name           string
	Store          *TaskStore
	Coordinator    *Coordinator
	Registry       *Registry
	Dispatcher     *Dispatcher
	Advisor        ports.Advisor
	Telemetry      ports.TelemetrySink
	AdvisorTimeout time.Duration
	Logger         *logger.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	timeout := cfg.AdvisorTimeout
	if timeout <= 0 {
		timeout = defaultAdvisorTimeout
	}
	o := &Orchestrator{
		name:        cfg.Name,
		store:       cfg.Store,
		coordinator: cfg.Coordinator,
		registry:    cfg.Registry,
		dispatcher:  cfg.Dispatcher,
		advisor:     cfg.Advisor,
		sink:        cfg.Telemetry,
		timeout:     timeout,
		log:         cfg.Logger,
		active:      make(map[string]struct{}),
	}
	if cfg.Coordinator != nil {
		cfg.Coordinator.SetHandler(o)
	}
	return o
}

// SubmitTask consults the advisor, creates the task with its fixed
// required-agent set, and fans assignments out to connected workers.
// Returns the new task id even when some sub-assignments are skipped.
func (o *Orchestrator) SubmitTask(ctx context.Context, spec domain.TaskSpec) (string, error) {
	if spec.Description == "" {
		return "", ErrTaskInvalidInput
	}

	analysis := o.analyze(ctx, spec)
	required := o.dispatcher.RequiredAgents(spec, analysis.Agents)

	taskID := o.store.Create(spec, analysis, required)

	o.mu.Lock()
	o.active[taskID] = struct{}{}
	o.mu.Unlock()

	o.log.Infow("task_submitted",
		"task_id", taskID,
		"priority", analysis.Priority,
		"required_agents", required,
		"reasoning", analysis.Reasoning,
	)
	o.logActivity(domain.AgentTypeMonitoring, "task_submitted", map[string]any{
		"task_id":         taskID,
		"required_agents": required,
	})

	task, err := o.store.Get(taskID)
	if err != nil {
		return "", err
	}
	if skipped := o.coordinator.DelegateTask(taskID, task, required); len(skipped) > 0 {
		// Skipped sub-assignments are not retried.
		o.log.Warnw("task_partially_delegated", "task_id", taskID, "skipped", skipped)
	}

	return taskID, nil
}

// HandleAgentResponse records one agent's result and finalizes the task once
// every required agent has responded. Responses for unknown tasks or
// non-required agent types are dropped.
func (o *Orchestrator) HandleAgentResponse(agentType domain.AgentType, taskID string, result any) {
	o.log.Infow("agent_response", "task_id", taskID, "agent_type", agentType)

	status, err := o.store.UpdateProgress(taskID, agentType, result)
	if err != nil {
		o.log.Warnw("agent_response_dropped", "task_id", taskID, "agent_type", agentType, "error", err)
		return
	}
	o.logActivity(agentType, "task_response", map[string]any{"task_id": taskID})

	if !status.Complete {
		return
	}

	// Claim finalization exactly once; late duplicate responses after
	// completion land here with the task already out of the active set.
	o.mu.Lock()
	_, isActive := o.active[taskID]
	if isActive {
		delete(o.active, taskID)
	}
	o.mu.Unlock()
	if !isActive {
		return
	}

	coordination := o.coordinate(status.Progress)
	final := &domain.FinalResult{
		TaskResult:   *status.Result,
		Coordination: coordination,
		Confidence:   coordination.Confidence,
	}
	o.completeTask(taskID, final)
}

func (o *Orchestrator) completeTask(taskID string, result *domain.FinalResult) {
	task, err := o.store.Get(taskID)
	if err != nil {
		o.log.Errorw("complete_task_lookup_failed", "task_id", taskID, "error", err)
		return
	}

	evaluation := o.evaluate(task, &result.TaskResult)

	record := domain.CompletedTask{
		TaskID:      taskID,
		Task:        task,
		Result:      result,
		Evaluation:  evaluation,
		CompletedAt: time.Now(),
	}

	o.mu.Lock()
	o.completed = append(o.completed, record)
	o.mu.Unlock()

	o.log.Infow("task_completed",
		"task_id", taskID,
		"success", evaluation.Success,
		"score", evaluation.Score,
		"confidence", result.Confidence,
	)
	o.logActivity(domain.AgentTypeMonitoring, "task_completed", map[string]any{
		"task_id": taskID,
		"success": evaluation.Success,
		"score":   evaluation.Score,
	})
}

func (o *Orchestrator) TaskStatus(taskID string) (*domain.TaskStatus, error) {
	return o.store.Status(taskID)
}

func (o *Orchestrator) Metrics() domain.SwarmMetrics {
	o.mu.Lock()
	activeCount := len(o.active)
	completedCount := len(o.completed)
	successful := 0
	for _, c := range o.completed {
		if c.Evaluation.Success {
			successful++
		}
	}
	o.mu.Unlock()

	rate := 0.0
	if completedCount > 0 {
		rate = float64(successful) / float64(completedCount) * 100
	}

	return domain.SwarmMetrics{
		ActiveTasks:      activeCount,
		CompletedTasks:   completedCount,
		RegisteredAgents: o.registry.Count(),
		ConnectedAgents:  o.coordinator.Count(),
		SuccessRate:      rate,
	}
}

// CompletedTasks returns a copy of the retained completion records.
func (o *Orchestrator) CompletedTasks() []domain.CompletedTask {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.CompletedTask(nil), o.completed...)
}

// analyze consults the advisor, bounded by the configured timeout. Fallback:
// a default agent set, medium priority, a 10s duration estimate.
func (o *Orchestrator) analyze(ctx context.Context, spec domain.TaskSpec) domain.TaskAnalysis {
	if o.advisor == nil {
		return fallbackAnalysis("advisor not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	analysis, err := o.advisor.AnalyzeTask(ctx, spec)
	if err != nil {
		o.log.Warnw("advisor_analyze_failed", "error", err)
		return fallbackAnalysis("advisor failure: " + err.Error())
	}
	return analysis
}

func (o *Orchestrator) coordinate(responses map[domain.AgentType]any) domain.Coordination {
	if o.advisor == nil {
		return fallbackCoordination("advisor not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	coordination, err := o.advisor.CoordinateAgents(ctx, responses)
	if err != nil {
		o.log.Warnw("advisor_coordinate_failed", "error", err)
		return fallbackCoordination("advisor failure: " + err.Error())
	}
	return coordination
}

func (o *Orchestrator) evaluate(task *domain.Task, result *domain.TaskResult) domain.Evaluation {
	if o.advisor == nil {
		return fallbackEvaluation("advisor not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	evaluation, err := o.advisor.EvaluateResults(ctx, task, result)
	if err != nil {
		o.log.Warnw("advisor_evaluate_failed", "error", err)
		return fallbackEvaluation("advisor failure: " + err.Error())
	}
	return evaluation
}

func fallbackAnalysis(reason string) domain.TaskAnalysis {
	return domain.TaskAnalysis{
		Agents: []domain.AgentType{
			domain.AgentTypeDataGathering,
			domain.AgentTypeAnalysis,
			domain.AgentTypeMonitoring,
		},
		Priority:          domain.TaskPriorityMedium,
		EstimatedDuration: 10 * time.Second,
		Reasoning:         reason,
	}
}

func fallbackCoordination(reason string) domain.Coordination {
	return domain.Coordination{
		Action:     "proceed with caution",
		Confidence: 0.5,
		Reasoning:  reason,
		NextSteps:  []string{"retry analysis"},
	}
}

func fallbackEvaluation(reason string) domain.Evaluation {
	return domain.Evaluation{
		Success:  false,
		Score:    0,
		Feedback: reason,
	}
}

func (o *Orchestrator) logActivity(agentType domain.AgentType, action string, details map[string]any) {
	if o.sink != nil {
		o.sink.LogActivity(agentType, action, details)
	}
}
