package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

func newTestDispatcher() *Dispatcher {
	registry := NewRegistry(logger.Nop())
	registry.RegisterDefaults()
	return NewDispatcher(registry)
}

func TestDispatcher_RecommendationTakesPrecedence(t *testing.T) {
	d := newTestDispatcher()

	// Flags would derive a different set; the recommendation wins as-is,
	// even without monitoring.
	spec := domain.TaskSpec{Description: "x", RequiresData: true, RequiresExecution: true}
	got := d.RequiredAgents(spec, []domain.AgentType{domain.AgentTypeAnalysis})
	assert.Equal(t, []domain.AgentType{domain.AgentTypeAnalysis}, got)
}

func TestDispatcher_RecommendationFiltersUnknownTypes(t *testing.T) {
	d := newTestDispatcher()

	got := d.RequiredAgents(domain.TaskSpec{Description: "x"}, []domain.AgentType{
		"quantum-agent",
		domain.AgentTypeMonitoring,
		domain.AgentTypeMonitoring, // duplicate collapses
	})
	assert.Equal(t, []domain.AgentType{domain.AgentTypeMonitoring}, got)
}

func TestDispatcher_AllUnknownRecommendationFallsBackToFlags(t *testing.T) {
	d := newTestDispatcher()

	spec := domain.TaskSpec{Description: "x", RequiresAnalysis: true}
	got := d.RequiredAgents(spec, []domain.AgentType{"quantum-agent"})
	assert.Equal(t, []domain.AgentType{domain.AgentTypeAnalysis, domain.AgentTypeMonitoring}, got)
}

func TestDispatcher_DeriveFromFlags(t *testing.T) {
	d := newTestDispatcher()

	tests := []struct {
		name string
		spec domain.TaskSpec
		want []domain.AgentType
	}{
		{
			name: "no flags still monitors",
			spec: domain.TaskSpec{Description: "x"},
			want: []domain.AgentType{domain.AgentTypeMonitoring},
		},
		{
			name: "data only",
			spec: domain.TaskSpec{Description: "x", RequiresData: true},
			want: []domain.AgentType{domain.AgentTypeDataGathering, domain.AgentTypeMonitoring},
		},
		{
			name: "all flags",
			spec: domain.TaskSpec{Description: "x", RequiresData: true, RequiresAnalysis: true, RequiresExecution: true},
			want: []domain.AgentType{
				domain.AgentTypeDataGathering,
				domain.AgentTypeAnalysis,
				domain.AgentTypeExecution,
				domain.AgentTypeMonitoring,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.RequiredAgents(tt.spec, nil))
		})
	}
}
