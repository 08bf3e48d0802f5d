package services

import "github.com/swarmhive/orchestrator/internal/domain"

// Dispatcher resolves which agent types a task requires. A non-empty advisor
// recommendation always wins; otherwise the set is derived from the task's
// capability flags. The monitoring type is always present in the derived set.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// RequiredAgents computes the required agent-type set for a task.
// Recommended types unknown to the registry are filtered out; if nothing
// survives the filter the derived set is used instead.
func (d *Dispatcher) RequiredAgents(spec domain.TaskSpec, recommended []domain.AgentType) []domain.AgentType {
	if len(recommended) > 0 {
		agents := make([]domain.AgentType, 0, len(recommended))
		for _, t := range recommended {
			if _, ok := d.registry.Get(t); ok && !contains(agents, t) {
				agents = append(agents, t)
			}
		}
		if len(agents) > 0 {
			return agents
		}
	}
	return d.deriveFromFlags(spec)
}

func (d *Dispatcher) deriveFromFlags(spec domain.TaskSpec) []domain.AgentType {
	var agents []domain.AgentType
	if spec.RequiresData {
		agents = append(agents, domain.AgentTypeDataGathering)
	}
	if spec.RequiresAnalysis {
		agents = append(agents, domain.AgentTypeAnalysis)
	}
	if spec.RequiresExecution {
		agents = append(agents, domain.AgentTypeExecution)
	}
	// Monitoring always tracks.
	agents = append(agents, domain.AgentTypeMonitoring)
	return agents
}

func contains(agents []domain.AgentType, t domain.AgentType) bool {
	for _, a := range agents {
		if a == t {
			return true
		}
	}
	return false
}
