package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/domain"
)

// Anthropic backs the advisor with the Anthropic Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.ModelClaude3_5Sonnet20241022
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

var _ ports.Advisor = (*Anthropic)(nil)

func (a *Anthropic) AnalyzeTask(ctx context.Context, spec domain.TaskSpec) (domain.TaskAnalysis, error) {
	return analyzeTask(ctx, a.complete, spec)
}

func (a *Anthropic) CoordinateAgents(ctx context.Context, responses map[domain.AgentType]any) (domain.Coordination, error) {
	return coordinateAgents(ctx, a.complete, responses)
}

func (a *Anthropic) EvaluateResults(ctx context.Context, task *domain.Task, result *domain.TaskResult) (domain.Evaluation, error) {
	return evaluateResults(ctx, a.complete, task, result)
}

func (a *Anthropic) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty reply")
	}
	return sb.String(), nil
}
