package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

func newTestStore() *TaskStore {
	return NewTaskStore(logger.Nop())
}

func TestTaskStore_SequentialIDs(t *testing.T) {
	store := newTestStore()
	spec := domain.TaskSpec{Description: "first"}

	for i := 1; i <= 3; i++ {
		id := store.Create(spec, domain.TaskAnalysis{}, []domain.AgentType{domain.AgentTypeMonitoring})
		assert.Equal(t, fmt.Sprintf("task-%d", i), id)
	}
	assert.Equal(t, 3, store.Count())
}

func TestTaskStore_CompletesOnlyWhenRequiredSetCovered(t *testing.T) {
	store := newTestStore()
	required := []domain.AgentType{
		domain.AgentTypeDataGathering,
		domain.AgentTypeAnalysis,
		domain.AgentTypeMonitoring,
	}
	id := store.Create(domain.TaskSpec{Description: "survey"}, domain.TaskAnalysis{}, required)

	status, err := store.UpdateProgress(id, domain.AgentTypeDataGathering, map[string]any{"data": "d"})
	require.NoError(t, err)
	assert.False(t, status.Complete)
	assert.Nil(t, status.Result)

	status, err = store.UpdateProgress(id, domain.AgentTypeAnalysis, map[string]any{"insights": "i"})
	require.NoError(t, err)
	assert.False(t, status.Complete)

	status, err = store.UpdateProgress(id, domain.AgentTypeMonitoring, map[string]any{"metrics": "m"})
	require.NoError(t, err)
	assert.True(t, status.Complete)
	require.NotNil(t, status.Result)
	assert.True(t, status.Result.Success)
}

func TestTaskStore_ResultProjection(t *testing.T) {
	store := newTestStore()
	required := []domain.AgentType{
		domain.AgentTypeDataGathering,
		domain.AgentTypeAnalysis,
		domain.AgentTypeMonitoring,
	}
	id := store.Create(domain.TaskSpec{Description: "survey"}, domain.TaskAnalysis{}, required)

	_, err := store.UpdateProgress(id, domain.AgentTypeDataGathering, map[string]any{"data": "X"})
	require.NoError(t, err)
	_, err = store.UpdateProgress(id, domain.AgentTypeAnalysis, map[string]any{"insights": "Y"})
	require.NoError(t, err)
	status, err := store.UpdateProgress(id, domain.AgentTypeMonitoring, map[string]any{"metrics": "Z"})
	require.NoError(t, err)

	require.NotNil(t, status.Result)
	assert.Equal(t, "X", status.Result.Data)
	assert.Equal(t, "Y", status.Result.Insights)
	assert.Equal(t, "Z", status.Result.Metrics)
	assert.Nil(t, status.Result.Execution)
	assert.GreaterOrEqual(t, status.Result.DurationMS, int64(0))
}

func TestTaskStore_ResultProjectionNonMapPayload(t *testing.T) {
	store := newTestStore()
	id := store.Create(domain.TaskSpec{Description: "scan"}, domain.TaskAnalysis{},
		[]domain.AgentType{domain.AgentTypeMonitoring})

	status, err := store.UpdateProgress(id, domain.AgentTypeMonitoring, "plain string payload")
	require.NoError(t, err)
	require.True(t, status.Complete)
	assert.Nil(t, status.Result.Metrics)
}

func TestTaskStore_RejectsUnrequiredAgentType(t *testing.T) {
	store := newTestStore()
	id := store.Create(domain.TaskSpec{Description: "watch"}, domain.TaskAnalysis{},
		[]domain.AgentType{domain.AgentTypeMonitoring})

	_, err := store.UpdateProgress(id, domain.AgentTypeExecution, map[string]any{"result": "r"})
	assert.True(t, errors.Is(err, ErrAgentNotRequired))

	// The dropped response must not count toward completion.
	status, err := store.Status(id)
	require.NoError(t, err)
	assert.False(t, status.Complete)
	assert.Empty(t, status.Progress)
}

func TestTaskStore_DuplicateResponseOverwrites(t *testing.T) {
	store := newTestStore()
	id := store.Create(domain.TaskSpec{Description: "watch"}, domain.TaskAnalysis{},
		[]domain.AgentType{domain.AgentTypeDataGathering, domain.AgentTypeMonitoring})

	_, err := store.UpdateProgress(id, domain.AgentTypeDataGathering, map[string]any{"data": "first"})
	require.NoError(t, err)
	_, err = store.UpdateProgress(id, domain.AgentTypeDataGathering, map[string]any{"data": "second"})
	require.NoError(t, err)

	status, err := store.Status(id)
	require.NoError(t, err)
	payload, ok := status.Progress[domain.AgentTypeDataGathering].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "second", payload["data"])
	assert.False(t, status.Complete)
}

func TestTaskStore_CompletionIsOneWay(t *testing.T) {
	store := newTestStore()
	id := store.Create(domain.TaskSpec{Description: "watch"}, domain.TaskAnalysis{},
		[]domain.AgentType{domain.AgentTypeMonitoring})

	status, err := store.UpdateProgress(id, domain.AgentTypeMonitoring, map[string]any{"metrics": "m1"})
	require.NoError(t, err)
	require.True(t, status.Complete)
	firstResult := status.Result
	require.NotNil(t, firstResult)

	// A late duplicate overwrites the payload but never reopens the task.
	status, err = store.UpdateProgress(id, domain.AgentTypeMonitoring, map[string]any{"metrics": "m2"})
	require.NoError(t, err)
	assert.True(t, status.Complete)
	assert.Equal(t, "m2", status.Result.Metrics)
}

func TestTaskStore_UnknownTask(t *testing.T) {
	store := newTestStore()

	_, err := store.UpdateProgress("task-99", domain.AgentTypeMonitoring, nil)
	assert.True(t, errors.Is(err, ErrTaskNotFound))

	_, err = store.Status("task-99")
	assert.True(t, errors.Is(err, ErrTaskNotFound))
}

func TestTaskStore_ConcurrentUpdatesTwoTasks(t *testing.T) {
	store := newTestStore()
	required := []domain.AgentType{
		domain.AgentTypeDataGathering,
		domain.AgentTypeAnalysis,
		domain.AgentTypeExecution,
		domain.AgentTypeMonitoring,
	}
	a := store.Create(domain.TaskSpec{Description: "a"}, domain.TaskAnalysis{}, required)
	b := store.Create(domain.TaskSpec{Description: "b"}, domain.TaskAnalysis{}, required)

	var wg sync.WaitGroup
	for _, id := range []string{a, b} {
		for _, agentType := range required {
			wg.Add(1)
			go func(id string, at domain.AgentType) {
				defer wg.Done()
				_, err := store.UpdateProgress(id, at, map[string]any{"payload": string(at)})
				if err != nil {
					t.Errorf("update %s/%s: %v", id, at, err)
				}
			}(id, agentType)
		}
	}
	wg.Wait()

	for _, id := range []string{a, b} {
		status, err := store.Status(id)
		require.NoError(t, err)
		assert.True(t, status.Complete, "task %s should be complete", id)
		assert.Len(t, status.Progress, len(required))
	}
}
