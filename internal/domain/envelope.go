package domain

import "time"

// MessageType tags the envelopes exchanged with worker connections. The set
// is closed; the coordinator switches exhaustively and drops anything else.
type MessageType string

const (
	MessageTaskAssignment MessageType = "TASK_ASSIGNMENT"
	MessageTaskComplete   MessageType = "TASK_COMPLETE"
	MessageTaskProgress   MessageType = "TASK_PROGRESS"
	MessageAgentStatus    MessageType = "AGENT_STATUS"
)

// Envelope is the wire unit for both directions of an agent connection.
// Which fields are populated depends on Type.
type Envelope struct {
	Type MessageType `json:"type"`

	// TASK_ASSIGNMENT / TASK_COMPLETE
	TaskID string `json:"taskId,omitempty"`

	// TASK_ASSIGNMENT (orchestrator -> agent)
	Task       *TaskAssignment `json:"task,omitempty"`
	AssignedAt *time.Time      `json:"assignedAt,omitempty"`

	// TASK_COMPLETE (agent -> orchestrator); opaque agent-specific payload
	Result any `json:"result,omitempty"`

	// TASK_PROGRESS
	Progress int `json:"progress,omitempty"`

	// AGENT_STATUS
	Status       string   `json:"status,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// TaskAssignment is the task payload pushed to a worker.
type TaskAssignment struct {
	Description       string `json:"description"`
	Type              string `json:"type,omitempty"`
	RequiresData      bool   `json:"requires_data"`
	RequiresAnalysis  bool   `json:"requires_analysis"`
	RequiresExecution bool   `json:"requires_execution"`
}

// AssignmentFor builds the wire payload for a task.
func AssignmentFor(t *Task) *TaskAssignment {
	return &TaskAssignment{
		Description:       t.Description,
		Type:              t.Type,
		RequiresData:      t.RequiresData,
		RequiresAnalysis:  t.RequiresAnalysis,
		RequiresExecution: t.RequiresExecution,
	}
}
