// Package advisor implements the external intelligence service consulted by
// the orchestrator: required-agent recommendation at submission time,
// response reconciliation once all agents have answered, and result scoring
// at finalization. Two providers are available, selected by configuration:
// an OpenAI-compatible Chat Completions backend (also covers OpenRouter-style
// gateways) and the Anthropic Messages API.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/swarmhive/orchestrator/internal/domain"
)

const analyzeSystemPrompt = `You are the AI brain of an agent swarm orchestrator. Analyze tasks and determine which specialized agents are needed.

Available agents:
- data-gathering: Gathers data from multiple sources (web, APIs, on-chain)
- analysis: Processes data into insights (patterns, trends, risks)
- execution: Executes trades through the configured trade provider
- monitoring: Tracks performance and provides feedback

Respond with JSON: {
  "agents": ["agent1", "agent2"],
  "priority": "high|medium|low",
  "estimatedDuration": "time in ms",
  "reasoning": "why these agents"
}`

const coordinateSystemPrompt = `You are coordinating multiple AI agents. Synthesize their responses into a coherent action plan.

Respond with JSON: {
  "action": "what to do next",
  "confidence": 0-1,
  "reasoning": "why",
  "nextSteps": ["step1", "step2"]
}`

const evaluateSystemPrompt = `Evaluate agent swarm performance and provide feedback.

Respond with JSON: {
  "success": true|false,
  "score": 0-100,
  "feedback": "what went well/wrong",
  "improvements": ["suggestion1", "suggestion2"]
}`

// completionFn produces one assistant reply for a system+user prompt pair.
// Each provider supplies its own.
type completionFn func(ctx context.Context, system, user string) (string, error)

func analyzeTask(ctx context.Context, complete completionFn, spec domain.TaskSpec) (domain.TaskAnalysis, error) {
	taskType := spec.Type
	if taskType == "" {
		taskType = "general"
	}
	user := fmt.Sprintf("Task: %s\nType: %s", spec.Description, taskType)

	reply, err := complete(ctx, analyzeSystemPrompt, user)
	if err != nil {
		return domain.TaskAnalysis{}, err
	}
	return decodeAnalysis(reply)
}

func coordinateAgents(ctx context.Context, complete completionFn, responses map[domain.AgentType]any) (domain.Coordination, error) {
	encoded, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		return domain.Coordination{}, fmt.Errorf("encode agent responses: %w", err)
	}
	user := fmt.Sprintf("Agent responses:\n%s\n\nWhat should we do?", encoded)

	reply, err := complete(ctx, coordinateSystemPrompt, user)
	if err != nil {
		return domain.Coordination{}, err
	}
	return decodeCoordination(reply)
}

func evaluateResults(ctx context.Context, complete completionFn, task *domain.Task, result *domain.TaskResult) (domain.Evaluation, error) {
	encodedResult, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("encode result: %w", err)
	}
	user := fmt.Sprintf("Task: %s\nResult:\n%s", task.Description, encodedResult)

	reply, err := complete(ctx, evaluateSystemPrompt, user)
	if err != nil {
		return domain.Evaluation{}, err
	}
	return decodeEvaluation(reply)
}

type analysisReply struct {
	Agents            []string `json:"agents"`
	Priority          string   `json:"priority"`
	EstimatedDuration any      `json:"estimatedDuration"`
	Reasoning         string   `json:"reasoning"`
}

func decodeAnalysis(reply string) (domain.TaskAnalysis, error) {
	var parsed analysisReply
	if err := decodeJSONReply(reply, &parsed); err != nil {
		return domain.TaskAnalysis{}, err
	}

	agents := make([]domain.AgentType, 0, len(parsed.Agents))
	for _, a := range parsed.Agents {
		t := domain.AgentType(strings.TrimSpace(strings.ToLower(a)))
		if domain.KnownAgentType(t) {
			agents = append(agents, t)
		}
	}

	return domain.TaskAnalysis{
		Agents:            agents,
		Priority:          parsePriority(parsed.Priority),
		EstimatedDuration: parseDurationMS(parsed.EstimatedDuration),
		Reasoning:         parsed.Reasoning,
	}, nil
}

func decodeCoordination(reply string) (domain.Coordination, error) {
	var parsed struct {
		Action     string   `json:"action"`
		Confidence float64  `json:"confidence"`
		Reasoning  string   `json:"reasoning"`
		NextSteps  []string `json:"nextSteps"`
	}
	if err := decodeJSONReply(reply, &parsed); err != nil {
		return domain.Coordination{}, err
	}

	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}

	return domain.Coordination{
		Action:     parsed.Action,
		Confidence: parsed.Confidence,
		Reasoning:  parsed.Reasoning,
		NextSteps:  parsed.NextSteps,
	}, nil
}

func decodeEvaluation(reply string) (domain.Evaluation, error) {
	var parsed struct {
		Success      bool     `json:"success"`
		Score        float64  `json:"score"`
		Feedback     string   `json:"feedback"`
		Improvements []string `json:"improvements"`
	}
	if err := decodeJSONReply(reply, &parsed); err != nil {
		return domain.Evaluation{}, err
	}

	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 100 {
		parsed.Score = 100
	}

	return domain.Evaluation{
		Success:      parsed.Success,
		Score:        parsed.Score,
		Feedback:     parsed.Feedback,
		Improvements: parsed.Improvements,
	}, nil
}

// decodeJSONReply parses a model reply leniently: code fences are stripped
// and any prose around the outermost JSON object is ignored.
func decodeJSONReply(reply string, v any) error {
	text := strings.TrimSpace(reply)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("advisor reply has no JSON object: %q", truncate(text, 120))
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("decode advisor reply: %w", err)
	}
	return nil
}

func parsePriority(s string) domain.TaskPriority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return domain.TaskPriorityHigh
	case "low":
		return domain.TaskPriorityLow
	default:
		return domain.TaskPriorityMedium
	}
}

// parseDurationMS accepts the estimate either as a JSON number of
// milliseconds or as a numeric string, which models emit interchangeably.
func parseDurationMS(v any) time.Duration {
	switch n := v.(type) {
	case float64:
		return time.Duration(n) * time.Millisecond
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(n), "ms")
		if ms, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
