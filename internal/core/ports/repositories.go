package ports

import (
	"context"
	"time"

	"github.com/swarmhive/orchestrator/internal/domain"
)

// ActivityRepository archives telemetry events. Task and agent state is
// deliberately memory-only; only the activity timeline is durable.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetAll(ctx context.Context, limit int) ([]domain.Activity, error)
	GetByAgentType(ctx context.Context, agentType domain.AgentType, limit int) ([]domain.Activity, error)
	CleanupOld(ctx context.Context, olderThan time.Duration) error
}
