package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

func TestTelemetry_RingIsBounded(t *testing.T) {
	tel := NewTelemetry(TelemetryConfig{MaxActivities: 5, Logger: logger.Nop()})

	for i := 0; i < 12; i++ {
		tel.LogActivity(domain.AgentTypeMonitoring, fmt.Sprintf("event-%d", i), nil)
	}

	recent := tel.Recent(0)
	assert.Len(t, recent, 5)
	assert.Equal(t, "event-7", recent[0].Action)
	assert.Equal(t, "event-11", recent[4].Action)
}

func TestTelemetry_RecentLimit(t *testing.T) {
	tel := NewTelemetry(TelemetryConfig{Logger: logger.Nop()})

	for i := 0; i < 4; i++ {
		tel.LogActivity(domain.AgentTypeAnalysis, fmt.Sprintf("event-%d", i), map[string]any{"i": i})
	}

	recent := tel.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, "event-2", recent[0].Action)
	assert.Equal(t, "event-3", recent[1].Action)

	assert.Len(t, tel.Recent(100), 4)
}

func TestTelemetry_SubscribersReceiveActivities(t *testing.T) {
	tel := NewTelemetry(TelemetryConfig{Logger: logger.Nop()})

	conn := &fakeConn{}
	tel.Attach(conn)
	assert.Equal(t, 1, tel.SubscriberCount())

	tel.LogActivity(domain.AgentTypeExecution, "trade_executed", map[string]any{"pair": "SOL/USDC"})
	assert.Len(t, conn.written, 1)

	tel.Detach(conn)
	tel.LogActivity(domain.AgentTypeExecution, "trade_executed", nil)
	assert.Len(t, conn.written, 1)
}

func TestTelemetry_FailingSubscriberDetached(t *testing.T) {
	tel := NewTelemetry(TelemetryConfig{Logger: logger.Nop()})

	broken := &fakeConn{writeErr: errors.New("gone")}
	healthy := &fakeConn{}
	tel.Attach(broken)
	tel.Attach(healthy)

	tel.LogActivity(domain.AgentTypeMonitoring, "heartbeat", nil)

	assert.Equal(t, 1, tel.SubscriberCount())
	assert.Len(t, healthy.written, 1)
}
