package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmhive/orchestrator/internal/domain"
)

func TestDecodeAnalysis(t *testing.T) {
	analysis, err := decodeAnalysis(`{
		"agents": ["data-gathering", "Analysis", " monitoring "],
		"priority": "high",
		"estimatedDuration": 5000,
		"reasoning": "needs fresh data"
	}`)
	require.NoError(t, err)

	assert.Equal(t, []domain.AgentType{
		domain.AgentTypeDataGathering,
		domain.AgentTypeAnalysis,
		domain.AgentTypeMonitoring,
	}, analysis.Agents)
	assert.Equal(t, domain.TaskPriorityHigh, analysis.Priority)
	assert.Equal(t, 5*time.Second, analysis.EstimatedDuration)
	assert.Equal(t, "needs fresh data", analysis.Reasoning)
}

func TestDecodeAnalysis_DropsUnknownAgents(t *testing.T) {
	analysis, err := decodeAnalysis(`{"agents": ["quantum", "analysis"], "priority": "??"}`)
	require.NoError(t, err)

	assert.Equal(t, []domain.AgentType{domain.AgentTypeAnalysis}, analysis.Agents)
	assert.Equal(t, domain.TaskPriorityMedium, analysis.Priority)
}

func TestDecodeJSONReply_StripsFencesAndProse(t *testing.T) {
	reply := "Sure! Here is the plan:\n```json\n{\"action\": \"proceed\", \"confidence\": 0.8}\n```\nLet me know."

	coordination, err := decodeCoordination(reply)
	require.NoError(t, err)
	assert.Equal(t, "proceed", coordination.Action)
	assert.Equal(t, 0.8, coordination.Confidence)
}

func TestDecodeJSONReply_NoObject(t *testing.T) {
	_, err := decodeCoordination("I cannot help with that.")
	assert.Error(t, err)
}

func TestDecodeJSONReply_MalformedJSON(t *testing.T) {
	_, err := decodeEvaluation(`{"success": true, "score": }`)
	assert.Error(t, err)
}

func TestDecodeCoordination_ClampsConfidence(t *testing.T) {
	coordination, err := decodeCoordination(`{"action": "a", "confidence": 3.5}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, coordination.Confidence)

	coordination, err = decodeCoordination(`{"action": "a", "confidence": -2}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, coordination.Confidence)
}

func TestDecodeEvaluation_ClampsScore(t *testing.T) {
	evaluation, err := decodeEvaluation(`{"success": true, "score": 250, "feedback": "f"}`)
	require.NoError(t, err)
	assert.Equal(t, 100.0, evaluation.Score)
	assert.True(t, evaluation.Success)
}

func TestParseDurationMS(t *testing.T) {
	tests := []struct {
		in   any
		want time.Duration
	}{
		{float64(1500), 1500 * time.Millisecond},
		{"2000", 2 * time.Second},
		{"2000ms", 2 * time.Second},
		{" 500 ms", 500 * time.Millisecond},
		{"soon", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDurationMS(tt.in), "input %v", tt.in)
	}
}

func TestAnalyzeTask_PassesTaskToCompletion(t *testing.T) {
	var gotSystem, gotUser string
	complete := func(ctx context.Context, system, user string) (string, error) {
		gotSystem = system
		gotUser = user
		return `{"agents": ["monitoring"], "priority": "low"}`, nil
	}

	analysis, err := analyzeTask(context.Background(), complete, domain.TaskSpec{
		Description: "watch the pool",
	})
	require.NoError(t, err)

	assert.Contains(t, gotSystem, "agent swarm orchestrator")
	assert.Contains(t, gotUser, "watch the pool")
	assert.Contains(t, gotUser, "general", "empty type defaults to general")
	assert.Equal(t, []domain.AgentType{domain.AgentTypeMonitoring}, analysis.Agents)
	assert.Equal(t, domain.TaskPriorityLow, analysis.Priority)
}

func TestCoordinateAgents_EncodesResponses(t *testing.T) {
	var gotUser string
	complete := func(ctx context.Context, system, user string) (string, error) {
		gotUser = user
		return `{"action": "hold", "confidence": 0.6, "nextSteps": ["wait"]}`, nil
	}

	coordination, err := coordinateAgents(context.Background(), complete, map[domain.AgentType]any{
		domain.AgentTypeAnalysis: map[string]any{"insights": "volatile"},
	})
	require.NoError(t, err)

	assert.Contains(t, gotUser, "volatile")
	assert.Equal(t, "hold", coordination.Action)
	assert.Equal(t, []string{"wait"}, coordination.NextSteps)
}
