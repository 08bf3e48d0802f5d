package domain

import "time"

// AgentType identifies one of the specialized worker categories. The set is
// closed: connections declaring anything else are never registered.
type AgentType string

const (
	AgentTypeDataGathering AgentType = "data-gathering"
	AgentTypeAnalysis      AgentType = "analysis"
	AgentTypeExecution     AgentType = "execution"
	AgentTypeMonitoring    AgentType = "monitoring"
)

// KnownAgentType reports whether t is one of the four canonical types.
func KnownAgentType(t AgentType) bool {
	switch t {
	case AgentTypeDataGathering, AgentTypeAnalysis, AgentTypeExecution, AgentTypeMonitoring:
		return true
	}
	return false
}

// AgentDescriptor is the static catalog entry for an agent type. Immutable
// after startup registration.
type AgentDescriptor struct {
	Type         AgentType `json:"type"`
	Role         string    `json:"role"`
	Capabilities []string  `json:"capabilities"`
	Description  string    `json:"description"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ConnectedAgent is the diagnostic view of one live worker connection.
type ConnectedAgent struct {
	Type           AgentType `json:"type"`
	ID             string    `json:"id"`
	ConnectedAt    time.Time `json:"connected_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
	TasksCompleted int       `json:"tasks_completed"`
}
