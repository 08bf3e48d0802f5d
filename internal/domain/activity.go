package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONB: invalid type")
	}
	return json.Unmarshal(bytes, j)
}

// Activity is one telemetry event emitted by the orchestrator or on behalf of
// an agent. Held in a bounded in-memory ring and optionally archived.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UID       string    `gorm:"size:36;uniqueIndex" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`

	AgentType AgentType `gorm:"size:32;index" json:"agent_type"`
	Action    string    `gorm:"size:128;not null;index" json:"action"`
	Details   JSONB     `gorm:"type:jsonb" json:"details,omitempty"`
}
