package services

import (
	"sync"

	"github.com/swarmhive/orchestrator/internal/domain"
)

// AgentSelector picks one connection among the ready candidates of a type.
// Candidates are never empty and all share the same agent type.
type AgentSelector interface {
	Select(agentType domain.AgentType, candidates []*AgentConnection) *AgentConnection
}

// FirstAvailableSelector returns the first ready candidate. Fine at small
// scale; swap in RoundRobinSelector when instances of a type should share
// load.
type FirstAvailableSelector struct{}

func (FirstAvailableSelector) Select(_ domain.AgentType, candidates []*AgentConnection) *AgentConnection {
	return candidates[0]
}

// RoundRobinSelector rotates through the candidates of each type.
type RoundRobinSelector struct {
	next map[domain.AgentType]int
	mu   sync.Mutex
}

func NewRoundRobinSelector() *RoundRobinSelector {
	return &RoundRobinSelector{next: make(map[domain.AgentType]int)}
}

func (s *RoundRobinSelector) Select(agentType domain.AgentType, candidates []*AgentConnection) *AgentConnection {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.next[agentType] % len(candidates)
	s.next[agentType] = i + 1
	return candidates[i]
}
