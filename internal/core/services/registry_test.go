package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

func TestRegistry_RegisterDefaults(t *testing.T) {
	r := NewRegistry(logger.Nop())
	r.RegisterDefaults()

	assert.Equal(t, 4, r.Count())
	for _, at := range []domain.AgentType{
		domain.AgentTypeDataGathering,
		domain.AgentTypeAnalysis,
		domain.AgentTypeExecution,
		domain.AgentTypeMonitoring,
	} {
		desc, ok := r.Get(at)
		require.True(t, ok, "missing %s", at)
		assert.Equal(t, at, desc.Type)
		assert.NotEmpty(t, desc.Role)
		assert.NotEmpty(t, desc.Capabilities)
		assert.False(t, desc.RegisteredAt.IsZero())
	}
}

func TestRegistry_ReRegisterOverwrites(t *testing.T) {
	r := NewRegistry(logger.Nop())
	r.RegisterDefaults()

	r.Register(domain.AgentTypeAnalysis, domain.AgentDescriptor{
		Role:         "Custom Analyst",
		Capabilities: []string{"forecasting"},
	})

	assert.Equal(t, 4, r.Count())
	desc, ok := r.Get(domain.AgentTypeAnalysis)
	require.True(t, ok)
	assert.Equal(t, "Custom Analyst", desc.Role)
	assert.True(t, r.HasCapability(domain.AgentTypeAnalysis, "forecasting"))
	assert.False(t, r.HasCapability(domain.AgentTypeAnalysis, "pattern-recognition"))
}

func TestRegistry_UnknownTypeLookups(t *testing.T) {
	r := NewRegistry(logger.Nop())
	r.RegisterDefaults()

	_, ok := r.Get("quantum-agent")
	assert.False(t, ok)
	assert.False(t, r.HasCapability("quantum-agent", "anything"))
}
