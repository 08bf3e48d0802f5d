package domain

// SwarmMetrics is the aggregate view exposed for dashboards and diagnostics.
// SuccessRate is a percentage in [0,100], 0 while no task has completed.
type SwarmMetrics struct {
	ActiveTasks      int     `json:"active_tasks"`
	CompletedTasks   int     `json:"completed_tasks"`
	RegisteredAgents int     `json:"registered_agents"`
	ConnectedAgents  int     `json:"connected_agents"`
	SuccessRate      float64 `json:"success_rate"`
}
