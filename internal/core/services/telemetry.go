package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

const defaultMaxActivities = 100

// Telemetry keeps a bounded ring of recent activity events, streams them to
// attached dashboard connections, and optionally archives them through an
// ActivityRepository. LogActivity is fire-and-forget: callers never consume
// a return value and a slow subscriber or archive never stalls task flow.
type Telemetry struct {
	activities  []domain.Activity
	max         int
	subscribers map[ports.AgentConn]struct{}
	repo        ports.ActivityRepository
	mu          sync.Mutex
	log         *logger.Logger
}

type TelemetryConfig struct {
	MaxActivities int
	Repository    ports.ActivityRepository
	Logger        *logger.Logger
}

func NewTelemetry(cfg TelemetryConfig) *Telemetry {
	max := cfg.MaxActivities
	if max <= 0 {
		max = defaultMaxActivities
	}
	return &Telemetry{
		max:         max,
		subscribers: make(map[ports.AgentConn]struct{}),
		repo:        cfg.Repository,
		log:         cfg.Logger,
	}
}

func (t *Telemetry) LogActivity(agentType domain.AgentType, action string, details map[string]any) {
	activity := domain.Activity{
		UID:       uuid.New().String(),
		CreatedAt: time.Now(),
		AgentType: agentType,
		Action:    action,
		Details:   domain.JSONB(details),
	}

	t.mu.Lock()
	t.activities = append(t.activities, activity)
	if len(t.activities) > t.max {
		t.activities = t.activities[len(t.activities)-t.max:]
	}
	subs := make([]ports.AgentConn, 0, len(t.subscribers))
	for conn := range t.subscribers {
		subs = append(subs, conn)
	}
	t.mu.Unlock()

	if t.log != nil {
		t.log.Infow("activity", "agent_type", agentType, "action", action)
	}

	for _, conn := range subs {
		if err := conn.WriteJSON(map[string]any{"type": "activity", "data": activity}); err != nil {
			t.Detach(conn)
		}
	}

	if t.repo != nil {
		go t.archive(activity)
	}
}

func (t *Telemetry) archive(activity domain.Activity) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.repo.Create(ctx, &activity); err != nil && t.log != nil {
		t.log.Warnw("activity_archive_failed", "action", activity.Action, "error", err)
	}
}

// Attach subscribes a dashboard connection to the live activity stream.
func (t *Telemetry) Attach(conn ports.AgentConn) {
	t.mu.Lock()
	t.subscribers[conn] = struct{}{}
	t.mu.Unlock()
}

func (t *Telemetry) Detach(conn ports.AgentConn) {
	t.mu.Lock()
	delete(t.subscribers, conn)
	t.mu.Unlock()
}

// Recent returns up to limit activities, oldest first.
func (t *Telemetry) Recent(limit int) []domain.Activity {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limit <= 0 || limit > len(t.activities) {
		limit = len(t.activities)
	}
	out := make([]domain.Activity, limit)
	copy(out, t.activities[len(t.activities)-limit:])
	return out
}

func (t *Telemetry) SubscriberCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subscribers)
}
