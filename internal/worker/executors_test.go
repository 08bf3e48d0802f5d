package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
	"github.com/swarmhive/orchestrator/internal/infrastructure/trading"
)

func payloadField(t *testing.T, result any, key string) any {
	t.Helper()
	m, ok := result.(map[string]any)
	require.True(t, ok, "payload is not a map")
	require.Contains(t, m, key)
	return m[key]
}

func TestDataGatherer(t *testing.T) {
	g := NewDataGatherer()
	assert.Equal(t, domain.AgentTypeDataGathering, g.Type())

	result, err := g.Execute(context.Background(), "task-1", &domain.TaskAssignment{Description: "find pools"})
	require.NoError(t, err)

	data, ok := payloadField(t, result, "data").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, len(g.Sources), data["count"])
}

func TestAnalyzer(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, domain.AgentTypeAnalysis, a.Type())

	result, err := a.Execute(context.Background(), "task-1", &domain.TaskAssignment{
		Description: "find an arbitrage opportunity",
	})
	require.NoError(t, err)

	insights, ok := payloadField(t, result, "insights").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "favorable", insights["trend"])
}

func TestTradeExecutor_DryRunWithoutProvider(t *testing.T) {
	e := NewTradeExecutor(nil)
	assert.Equal(t, domain.AgentTypeExecution, e.Type())

	result, err := e.Execute(context.Background(), "task-1", &domain.TaskAssignment{Description: "swap"})
	require.NoError(t, err)

	res, ok := payloadField(t, result, "result").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, res["executed"])
	assert.Equal(t, true, res["dryRun"])
}

func TestTradeExecutor_ReportsArbitrage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		out := "200000000"
		if q.Get("inputMint") != mintSOL {
			out = "110000000"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"inputMint":  q.Get("inputMint"),
			"inAmount":   q.Get("amount"),
			"outputMint": q.Get("outputMint"),
			"outAmount":  out,
		})
	}))
	defer srv.Close()

	jupiter := trading.NewJupiterClient(trading.JupiterConfig{BaseURL: srv.URL, Logger: logger.Nop()})
	e := NewTradeExecutor(jupiter)

	result, err := e.Execute(context.Background(), "task-1", &domain.TaskAssignment{Description: "scan"})
	require.NoError(t, err)

	res, ok := payloadField(t, result, "result").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, res["executed"])
	assert.Equal(t, true, res["profitable"])
}

func TestMonitor(t *testing.T) {
	m := NewMonitor()
	assert.Equal(t, domain.AgentTypeMonitoring, m.Type())

	result, err := m.Execute(context.Background(), "task-7", &domain.TaskAssignment{Description: "watch"})
	require.NoError(t, err)

	metrics, ok := payloadField(t, result, "metrics").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "task-7", metrics["taskId"])
	assert.Equal(t, int64(1), metrics["tasksObserved"])

	_, err = m.Execute(context.Background(), "task-8", &domain.TaskAssignment{Description: "watch"})
	require.NoError(t, err)
}

func TestExecutorsCancelable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, e := range []Executor{NewDataGatherer(), NewAnalyzer(), NewMonitor()} {
		_, err := e.Execute(ctx, "task-1", &domain.TaskAssignment{Description: "x"})
		assert.ErrorIs(t, err, context.Canceled)
	}
}
