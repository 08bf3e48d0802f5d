package worker

import (
	"context"
	"time"

	"github.com/swarmhive/orchestrator/internal/domain"
)

// DataGatherer collects raw inputs for a task. Sources are simulated; a
// deployment plugs real collectors in behind the same payload shape.
type DataGatherer struct {
	Sources []string
}

func NewDataGatherer() *DataGatherer {
	return &DataGatherer{
		Sources: []string{"market-feed", "chain-state", "order-books"},
	}
}

func (g *DataGatherer) Type() domain.AgentType { return domain.AgentTypeDataGathering }

func (g *DataGatherer) Capabilities() []string {
	return []string{"web-scraping", "api-integration", "data-collection"}
}

func (g *DataGatherer) Execute(ctx context.Context, taskID string, task *domain.TaskAssignment) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(200 * time.Millisecond):
	}

	records := make([]map[string]any, 0, len(g.Sources))
	for _, src := range g.Sources {
		records = append(records, map[string]any{
			"source":    src,
			"query":     task.Description,
			"fetchedAt": time.Now().UTC().Format(time.RFC3339),
		})
	}

	return map[string]any{
		"data": map[string]any{
			"sources": g.Sources,
			"records": records,
			"count":   len(records),
		},
	}, nil
}
