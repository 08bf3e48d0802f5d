package dto

import "github.com/swarmhive/orchestrator/internal/domain"

type SubmitTaskRequest struct {
	Description       string `json:"description" validate:"required"`
	Type              string `json:"type,omitempty"`
	RequiresData      bool   `json:"requires_data"`
	RequiresAnalysis  bool   `json:"requires_analysis"`
	RequiresExecution bool   `json:"requires_execution"`
}

func (r *SubmitTaskRequest) Validate() []string {
	var errors []string
	if r.Description == "" {
		errors = append(errors, "description is required")
	}
	return errors
}

func (r *SubmitTaskRequest) ToSpec() domain.TaskSpec {
	return domain.TaskSpec{
		Description:       r.Description,
		Type:              r.Type,
		RequiresData:      r.RequiresData,
		RequiresAnalysis:  r.RequiresAnalysis,
		RequiresExecution: r.RequiresExecution,
	}
}

type SubmitTaskResponse struct {
	TaskID string `json:"task_id"`
}

type AgentsResponse struct {
	Registered []domain.AgentDescriptor                     `json:"registered"`
	Connected  map[domain.AgentType][]domain.ConnectedAgent `json:"connected"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
