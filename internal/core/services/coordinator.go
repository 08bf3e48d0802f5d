package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

// AgentConnection is one live worker session. Owned exclusively by the
// Coordinator and destroyed on disconnect. Identity key is (type, id).
type AgentConnection struct {
	Type        domain.AgentType
	ID          string
	ConnectedAt time.Time

	conn ports.AgentConn

	mu             sync.Mutex
	lastSeenAt     time.Time
	tasksCompleted int
	closed         bool
}

func (a *AgentConnection) key() string {
	return fmt.Sprintf("%s:%s", a.Type, a.ID)
}

func (a *AgentConnection) touch() {
	a.mu.Lock()
	a.lastSeenAt = time.Now()
	a.mu.Unlock()
}

func (a *AgentConnection) ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.closed
}

func (a *AgentConnection) view() domain.ConnectedAgent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return domain.ConnectedAgent{
		Type:           a.Type,
		ID:             a.ID,
		ConnectedAt:    a.ConnectedAt,
		LastSeenAt:     a.lastSeenAt,
		TasksCompleted: a.tasksCompleted,
	}
}

// Coordinator owns the registry of live worker connections and the message
// routing protocol between them and the orchestrator. Per-connection
// failures stay local: nothing in here terminates the coordinator or
// touches other connections.
type Coordinator struct {
	agents   map[string]*AgentConnection
	mu       sync.RWMutex
	handler  ports.ResponseHandler
	selector AgentSelector
	sink     ports.TelemetrySink
	log      *logger.Logger
}

type CoordinatorConfig struct {
	Handler   ports.ResponseHandler
	Selector  AgentSelector
	Telemetry ports.TelemetrySink
	Logger    *logger.Logger
}

func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	selector := cfg.Selector
	if selector == nil {
		selector = FirstAvailableSelector{}
	}
	return &Coordinator{
		agents:   make(map[string]*AgentConnection),
		handler:  cfg.Handler,
		selector: selector,
		sink:     cfg.Telemetry,
		log:      cfg.Logger,
	}
}

// SetHandler wires the response handler after construction. The orchestrator
// and coordinator reference each other; the handler side is attached last.
func (c *Coordinator) SetHandler(h ports.ResponseHandler) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// Accept registers a worker connection under its declared (type, id) key.
// A connection missing either identity value, or declaring a type outside
// the closed set, is never registered: the transport stays open but nothing
// it sends is routed. A second connection with the same key replaces the
// previous one for routing.
func (c *Coordinator) Accept(conn ports.AgentConn, declaredType domain.AgentType, declaredID string) (*AgentConnection, error) {
	if declaredType == "" || declaredID == "" {
		c.log.Warnw("agent_connection_rejected", "reason", "missing identity headers")
		return nil, ErrConnectionRejected
	}
	if !domain.KnownAgentType(declaredType) {
		c.log.Warnw("agent_connection_rejected", "reason", "unknown agent type", "type", declaredType)
		return nil, ErrConnectionRejected
	}

	now := time.Now()
	agent := &AgentConnection{
		Type:        declaredType,
		ID:          declaredID,
		ConnectedAt: now,
		lastSeenAt:  now,
		conn:        conn,
	}

	c.mu.Lock()
	c.agents[agent.key()] = agent
	c.mu.Unlock()

	c.log.Infow("agent_connected", "type", declaredType, "id", declaredID)
	c.logActivity(declaredType, "agent_connected", map[string]any{"id": declaredID})
	return agent, nil
}

// Disconnect removes the (type, id) entry. Tasks still waiting on this type
// get no further updates unless the agent reconnects and a fresh assignment
// is delivered; there is no session resumption.
func (c *Coordinator) Disconnect(agent *AgentConnection) {
	if agent == nil {
		return
	}
	agent.mu.Lock()
	agent.closed = true
	agent.mu.Unlock()

	c.mu.Lock()
	// A reconnect may already have replaced this entry.
	if current, ok := c.agents[agent.key()]; ok && current == agent {
		delete(c.agents, agent.key())
	}
	c.mu.Unlock()

	c.log.Infow("agent_disconnected", "type", agent.Type, "id", agent.ID)
	c.logActivity(agent.Type, "agent_disconnected", map[string]any{"id": agent.ID})
}

// HandleMessage routes one inbound envelope from a registered connection.
// Malformed or unknown messages are dropped; the connection stays open.
func (c *Coordinator) HandleMessage(agent *AgentConnection, env domain.Envelope) {
	agent.touch()

	switch env.Type {
	case domain.MessageTaskComplete:
		if env.TaskID == "" || env.Result == nil {
			c.log.Warnw("task_complete_missing_fields", "type", agent.Type, "id", agent.ID)
			return
		}
		agent.mu.Lock()
		agent.tasksCompleted++
		agent.mu.Unlock()

		c.mu.RLock()
		handler := c.handler
		c.mu.RUnlock()
		if handler != nil {
			handler.HandleAgentResponse(agent.Type, env.TaskID, env.Result)
		}

	case domain.MessageTaskProgress:
		// Observability only; no task state changes.
		c.log.Infow("task_progress", "type", agent.Type, "id", agent.ID, "progress", env.Progress)
		c.logActivity(agent.Type, "task_progress", map[string]any{"progress": env.Progress})

	case domain.MessageAgentStatus:
		c.log.Infow("agent_status", "type", agent.Type, "id", agent.ID, "status", env.Status, "capabilities", env.Capabilities)

	case domain.MessageTaskAssignment:
		// Orchestrator-to-agent only; an agent echoing it back is a protocol bug.
		c.log.Warnw("unexpected_assignment_from_agent", "type", agent.Type, "id", agent.ID)

	default:
		c.log.Warnw("unknown_message_type", "type", agent.Type, "id", agent.ID, "message_type", env.Type)
	}
}

// DelegateTask pushes a TASK_ASSIGNMENT to one ready connection per required
// type. A type with no ready connection is skipped and never retried; the
// task can only complete if that agent type connects later and the task is
// re-delegated. Returns the skipped types.
func (c *Coordinator) DelegateTask(taskID string, task *domain.Task, requiredTypes []domain.AgentType) []domain.AgentType {
	var skipped []domain.AgentType
	assignedAt := time.Now()

	for _, agentType := range requiredTypes {
		agent := c.pick(agentType)
		if agent == nil {
			c.log.Warnw("delegate_no_agent_available", "task_id", taskID, "agent_type", agentType)
			c.logActivity(agentType, "assignment_skipped", map[string]any{"task_id": taskID})
			skipped = append(skipped, agentType)
			continue
		}

		env := domain.Envelope{
			Type:       domain.MessageTaskAssignment,
			TaskID:     taskID,
			Task:       domain.AssignmentFor(task),
			AssignedAt: &assignedAt,
		}
		if err := agent.conn.WriteJSON(env); err != nil {
			c.log.Errorw("delegate_send_failed", "task_id", taskID, "agent_type", agentType, "agent_id", agent.ID, "error", err)
			skipped = append(skipped, agentType)
			continue
		}

		c.log.Infow("task_assigned", "task_id", taskID, "agent_type", agentType, "agent_id", agent.ID)
		c.logActivity(agentType, "task_assigned", map[string]any{"task_id": taskID, "agent_id": agent.ID})
	}

	return skipped
}

func (c *Coordinator) pick(agentType domain.AgentType) *AgentConnection {
	c.mu.RLock()
	var candidates []*AgentConnection
	keys := make([]string, 0, len(c.agents))
	for k := range c.agents {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		agent := c.agents[k]
		if agent.Type == agentType && agent.ready() {
			candidates = append(candidates, agent)
		}
	}
	c.mu.RUnlock()

	if len(candidates) == 0 {
		return nil
	}
	return c.selector.Select(agentType, candidates)
}

// Broadcast sends best-effort to every registered connection. No acks.
func (c *Coordinator) Broadcast(v any) {
	c.mu.RLock()
	agents := make([]*AgentConnection, 0, len(c.agents))
	for _, agent := range c.agents {
		agents = append(agents, agent)
	}
	c.mu.RUnlock()

	for _, agent := range agents {
		if !agent.ready() {
			continue
		}
		if err := agent.conn.WriteJSON(v); err != nil {
			c.log.Warnw("broadcast_send_failed", "type", agent.Type, "id", agent.ID, "error", err)
		}
	}
}

// ConnectedAgents returns the live connections grouped by type.
func (c *Coordinator) ConnectedAgents() map[domain.AgentType][]domain.ConnectedAgent {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[domain.AgentType][]domain.ConnectedAgent)
	for _, agent := range c.agents {
		out[agent.Type] = append(out[agent.Type], agent.view())
	}
	return out
}

func (c *Coordinator) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.agents)
}

func (c *Coordinator) logActivity(agentType domain.AgentType, action string, details map[string]any) {
	if c.sink != nil {
		c.sink.LogActivity(agentType, action, details)
	}
}
