package domain

import "time"

// TaskAnalysis is the advisor's answer to "which agents does this task need".
type TaskAnalysis struct {
	Agents            []AgentType   `json:"agents"`
	Priority          TaskPriority  `json:"priority"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	Reasoning         string        `json:"reasoning"`
}

// Coordination is the advisor's reconciliation of the per-agent responses of
// a completed task. Confidence is in [0,1].
type Coordination struct {
	Action     string   `json:"action"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	NextSteps  []string `json:"next_steps,omitempty"`
}

// Evaluation scores a finished task. Score is in [0,100].
type Evaluation struct {
	Success      bool     `json:"success"`
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Improvements []string `json:"improvements,omitempty"`
}
