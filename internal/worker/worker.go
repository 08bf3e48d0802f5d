// Package worker implements the agent side of the swarm protocol: a
// reconnecting websocket client that declares its identity via headers,
// advertises readiness, executes assigned tasks, and reports results.
package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

// Executor is one specialized task handler. Execute returns the opaque
// result payload sent back in TASK_COMPLETE.
type Executor interface {
	Type() domain.AgentType
	Capabilities() []string
	Execute(ctx context.Context, taskID string, task *domain.TaskAssignment) (any, error)
}

type Worker struct {
	id            string
	executor      Executor
	url           string
	reconnectWait time.Duration
	log           *logger.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

type Config struct {
	ID              string
	Executor        Executor
	OrchestratorURL string
	ReconnectWait   time.Duration
	Logger          *logger.Logger
}

func New(cfg Config) *Worker {
	id := cfg.ID
	if id == "" {
		id = string(cfg.Executor.Type()) + "-" + uuid.New().String()[:8]
	}
	url := cfg.OrchestratorURL
	if url == "" {
		url = "ws://localhost:3000/ws/agent"
	}
	wait := cfg.ReconnectWait
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &Worker{
		id:            id,
		executor:      cfg.Executor,
		url:           url,
		reconnectWait: wait,
		log:           cfg.Logger,
	}
}

// Run connects and serves assignments until ctx is canceled, reconnecting
// with a fixed wait after any connection loss. Assignments missed while
// disconnected are not replayed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := w.runOnce(ctx); err != nil {
			w.log.Warnw("worker_connection_lost", "type", w.executor.Type(), "id", w.id, "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.reconnectWait):
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) error {
	header := http.Header{}
	header.Set("X-Agent-Type", string(w.executor.Type()))
	header.Set("X-Agent-Id", w.id)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, w.url, header)
	if err != nil {
		return err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()
	defer func() {
		conn.Close()
		w.mu.Lock()
		w.conn = nil
		w.mu.Unlock()
	}()

	w.log.Infow("worker_connected", "type", w.executor.Type(), "id", w.id, "url", w.url)
	w.sendStatus()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env domain.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			w.log.Warnw("worker_message_parse_failed", "error", err)
			continue
		}

		switch env.Type {
		case domain.MessageTaskAssignment:
			if env.TaskID == "" || env.Task == nil {
				w.log.Warnw("worker_assignment_missing_fields")
				continue
			}
			go w.execute(ctx, env.TaskID, env.Task)
		case domain.MessageAgentStatus:
			w.log.Infow("worker_server_status", "status", env.Status)
		default:
			w.log.Warnw("worker_unknown_message", "message_type", env.Type)
		}
	}
}

func (w *Worker) execute(ctx context.Context, taskID string, task *domain.TaskAssignment) {
	w.log.Infow("worker_task_started", "type", w.executor.Type(), "task_id", taskID)
	w.send(domain.Envelope{Type: domain.MessageTaskProgress, Progress: 50})

	result, err := w.executor.Execute(ctx, taskID, task)
	if err != nil {
		w.log.Errorw("worker_task_failed", "type", w.executor.Type(), "task_id", taskID, "error", err)
		result = map[string]any{"error": err.Error()}
	}

	w.send(domain.Envelope{
		Type:   domain.MessageTaskComplete,
		TaskID: taskID,
		Result: result,
	})
	w.log.Infow("worker_task_complete", "type", w.executor.Type(), "task_id", taskID)
}

func (w *Worker) sendStatus() {
	w.send(domain.Envelope{
		Type:         domain.MessageAgentStatus,
		Status:       "ready",
		Capabilities: w.executor.Capabilities(),
	})
}

func (w *Worker) send(env domain.Envelope) {
	w.mu.Lock()
	conn := w.conn
	if conn == nil {
		w.mu.Unlock()
		return
	}
	err := conn.WriteJSON(env)
	w.mu.Unlock()
	if err != nil {
		w.log.Warnw("worker_send_failed", "type", w.executor.Type(), "error", err)
	}
}
