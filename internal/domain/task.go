package domain

import "time"

type TaskState string

const (
	TaskStatePending  TaskState = "pending"
	TaskStateComplete TaskState = "complete"
)

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// TaskSpec is what a caller submits. The capability flags drive the derived
// required-agent set when the advisor has no recommendation.
type TaskSpec struct {
	Description       string `json:"description"`
	Type              string `json:"type,omitempty"`
	RequiresData      bool   `json:"requires_data"`
	RequiresAnalysis  bool   `json:"requires_analysis"`
	RequiresExecution bool   `json:"requires_execution"`
}

// Task is the unit of coordinated work. RequiredAgents is resolved once at
// creation and fixed for the task's lifetime; Progress only ever holds keys
// from that set. Status moves pending -> complete exactly once.
type Task struct {
	ID                string            `json:"id"`
	Description       string            `json:"description"`
	Type              string            `json:"type,omitempty"`
	RequiresData      bool              `json:"requires_data"`
	RequiresAnalysis  bool              `json:"requires_analysis"`
	RequiresExecution bool              `json:"requires_execution"`
	RequiredAgents    []AgentType       `json:"required_agents"`
	Priority          TaskPriority      `json:"priority,omitempty"`
	EstimatedDuration time.Duration     `json:"estimated_duration,omitempty"`
	Status            TaskState         `json:"status"`
	Progress          map[AgentType]any `json:"progress"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
}

// TaskStatus is a point-in-time snapshot returned to callers. Result is nil
// until the task is complete.
type TaskStatus struct {
	TaskID   string            `json:"task_id"`
	Status   TaskState         `json:"status"`
	Progress map[AgentType]any `json:"progress"`
	Complete bool              `json:"complete"`
	Result   *TaskResult       `json:"result,omitempty"`
}

// TaskResult projects the fixed per-agent fields out of a completed task's
// progress map. DurationMS is completedAt - createdAt in milliseconds.
type TaskResult struct {
	Success    bool  `json:"success"`
	Data       any   `json:"data,omitempty"`
	Insights   any   `json:"insights,omitempty"`
	Execution  any   `json:"execution,omitempty"`
	Metrics    any   `json:"metrics,omitempty"`
	DurationMS int64 `json:"duration_ms"`
}

// CompletedTask is the retained record appended once a task is finalized.
type CompletedTask struct {
	TaskID      string       `json:"task_id"`
	Task        *Task        `json:"task"`
	Result      *FinalResult `json:"result"`
	Evaluation  Evaluation   `json:"evaluation"`
	CompletedAt time.Time    `json:"completed_at"`
}

// FinalResult is the compiled task result plus the advisor's reconciliation.
type FinalResult struct {
	TaskResult
	Coordination Coordination `json:"coordination"`
	Confidence   float64      `json:"confidence"`
}
