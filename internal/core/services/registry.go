package services

import (
	"sync"
	"time"

	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

// Registry is the static catalog of agent-type descriptors. Registration
// happens once at startup; afterwards it is a read-mostly capability lookup
// table consulted by the dispatcher and exposed for diagnostics.
type Registry struct {
	types map[domain.AgentType]domain.AgentDescriptor
	mu    sync.RWMutex
	log   *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		types: make(map[domain.AgentType]domain.AgentDescriptor),
		log:   log,
	}
}

// RegisterDefaults seeds the four canonical agent types.
func (r *Registry) RegisterDefaults() {
	r.Register(domain.AgentTypeDataGathering, domain.AgentDescriptor{
		Role:         "Data Gathering Agent",
		Capabilities: []string{"data-gathering", "web-scraping", "api-calls", "on-chain-analysis"},
		Description:  "Discovers and gathers data from multiple sources",
	})
	r.Register(domain.AgentTypeAnalysis, domain.AgentDescriptor{
		Role:         "Analysis Agent",
		Capabilities: []string{"pattern-recognition", "trend-analysis", "risk-assessment", "insights"},
		Description:  "Processes raw data into actionable insights",
	})
	r.Register(domain.AgentTypeExecution, domain.AgentDescriptor{
		Role:         "Execution Agent",
		Capabilities: []string{"dex-trading", "swap-routing", "arbitrage", "risk-management"},
		Description:  "Executes trades through the configured trade provider",
	})
	r.Register(domain.AgentTypeMonitoring, domain.AgentDescriptor{
		Role:         "Monitoring Agent",
		Capabilities: []string{"performance-tracking", "anomaly-detection", "reporting", "feedback"},
		Description:  "Tracks swarm activities and provides feedback",
	})
}

func (r *Registry) Register(t domain.AgentType, desc domain.AgentDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	desc.Type = t
	desc.RegisteredAt = time.Now()
	r.types[t] = desc
	if r.log != nil {
		r.log.Infow("registry_type_registered", "type", t, "role", desc.Role)
	}
}

func (r *Registry) Get(t domain.AgentType) (domain.AgentDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.types[t]
	return desc, ok
}

func (r *Registry) GetAll() []domain.AgentDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.AgentDescriptor, 0, len(r.types))
	for _, desc := range r.types {
		all = append(all, desc)
	}
	return all
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.types)
}

func (r *Registry) HasCapability(t domain.AgentType, capability string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.types[t]
	if !ok {
		return false
	}
	for _, c := range desc.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
