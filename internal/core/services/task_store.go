package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

// TaskStore owns task records and their lifecycle. It is a pure state
// machine: no I/O, all mutation serialized behind one lock so concurrent
// agent responses for the same task never race on the progress map or the
// completion check. Tasks are never deleted.
type TaskStore struct {
	tasks   map[string]*domain.Task
	counter int
	mu      sync.RWMutex
	log     *logger.Logger
}

func NewTaskStore(log *logger.Logger) *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*domain.Task),
		log:   log,
	}
}

// Create allocates the next sequential id and stores a new pending task.
// The required-agent set is resolved by the caller at dispatch time and is
// fixed for the task's lifetime.
func (s *TaskStore) Create(spec domain.TaskSpec, analysis domain.TaskAnalysis, required []domain.AgentType) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	id := fmt.Sprintf("task-%d", s.counter)
	now := time.Now()

	s.tasks[id] = &domain.Task{
		ID:                id,
		Description:       spec.Description,
		Type:              spec.Type,
		RequiresData:      spec.RequiresData,
		RequiresAnalysis:  spec.RequiresAnalysis,
		RequiresExecution: spec.RequiresExecution,
		RequiredAgents:    append([]domain.AgentType(nil), required...),
		Priority:          analysis.Priority,
		EstimatedDuration: analysis.EstimatedDuration,
		Status:            domain.TaskStatePending,
		Progress:          make(map[domain.AgentType]any),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	return id
}

// UpdateProgress records one agent's response. Writing the same agent type
// twice overwrites; a type outside the task's required set is dropped so it
// can never influence completion. Returns the post-update snapshot.
func (s *TaskStore) UpdateProgress(taskID string, agentType domain.AgentType, response any) (*domain.TaskStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, ErrTaskNotFound
	}

	if !required(task, agentType) {
		if s.log != nil {
			s.log.Warnw("task_progress_unrequired_agent", "task_id", taskID, "agent_type", agentType)
		}
		return nil, ErrAgentNotRequired
	}

	task.Progress[agentType] = response
	task.UpdatedAt = time.Now()

	// One-way transition: the instant the progress keys cover the required
	// set, the task completes and never reverts.
	if task.Status != domain.TaskStateComplete && covered(task) {
		task.Status = domain.TaskStateComplete
		completedAt := time.Now()
		task.CompletedAt = &completedAt
	}

	return snapshot(task), nil
}

// Status returns a point-in-time snapshot of the task, with the compiled
// result once complete.
func (s *TaskStore) Status(taskID string) (*domain.TaskStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, ErrTaskNotFound
	}
	return snapshot(task), nil
}

// Get returns a copy of the stored task.
func (s *TaskStore) Get(taskID string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, ErrTaskNotFound
	}
	cp := *task
	cp.RequiredAgents = append([]domain.AgentType(nil), task.RequiredAgents...)
	cp.Progress = copyProgress(task.Progress)
	return &cp, nil
}

func (s *TaskStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}

func required(task *domain.Task, agentType domain.AgentType) bool {
	for _, t := range task.RequiredAgents {
		if t == agentType {
			return true
		}
	}
	return false
}

func covered(task *domain.Task) bool {
	for _, t := range task.RequiredAgents {
		if _, ok := task.Progress[t]; !ok {
			return false
		}
	}
	return true
}

func snapshot(task *domain.Task) *domain.TaskStatus {
	st := &domain.TaskStatus{
		TaskID:   task.ID,
		Status:   task.Status,
		Progress: copyProgress(task.Progress),
		Complete: task.Status == domain.TaskStateComplete,
	}
	if st.Complete {
		st.Result = compileResult(task)
	}
	return st
}

func copyProgress(progress map[domain.AgentType]any) map[domain.AgentType]any {
	cp := make(map[domain.AgentType]any, len(progress))
	for k, v := range progress {
		cp[k] = v
	}
	return cp
}

// compileResult projects the fixed per-agent fields out of the progress map.
// Only defined for complete tasks.
func compileResult(task *domain.Task) *domain.TaskResult {
	if task.Status != domain.TaskStateComplete || task.CompletedAt == nil {
		return nil
	}
	return &domain.TaskResult{
		Success:    true,
		Data:       field(task.Progress[domain.AgentTypeDataGathering], "data"),
		Insights:   field(task.Progress[domain.AgentTypeAnalysis], "insights"),
		Execution:  field(task.Progress[domain.AgentTypeExecution], "result"),
		Metrics:    field(task.Progress[domain.AgentTypeMonitoring], "metrics"),
		DurationMS: task.CompletedAt.Sub(task.CreatedAt).Milliseconds(),
	}
}

func field(payload any, key string) any {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}
