package worker

import (
	"context"
	"strings"
	"time"

	"github.com/swarmhive/orchestrator/internal/domain"
)

// Analyzer derives insights from a task description. The heuristics here
// stand in for a real model pipeline.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Type() domain.AgentType { return domain.AgentTypeAnalysis }

func (a *Analyzer) Capabilities() []string {
	return []string{"pattern-recognition", "statistical-analysis", "trend-detection"}
}

func (a *Analyzer) Execute(ctx context.Context, taskID string, task *domain.TaskAssignment) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(300 * time.Millisecond):
	}

	desc := strings.ToLower(task.Description)
	confidence := 0.7
	trend := "neutral"
	switch {
	case strings.Contains(desc, "arbitrage") || strings.Contains(desc, "opportunity"):
		trend = "favorable"
		confidence = 0.82
	case strings.Contains(desc, "risk") || strings.Contains(desc, "alert"):
		trend = "cautious"
		confidence = 0.64
	}

	return map[string]any{
		"insights": map[string]any{
			"summary":    "analysis of: " + task.Description,
			"trend":      trend,
			"confidence": confidence,
		},
		"recommendation": "proceed",
	}, nil
}
