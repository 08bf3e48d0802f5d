package advisor

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/domain"
)

// OpenAI talks to any Chat Completions compatible backend. Pointing BaseURL
// at an OpenRouter-style gateway selects arbitrary hosted models.
type OpenAI struct {
	client openai.Client
	model  string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}

	return &OpenAI{client: openai.NewClient(opts...), model: model}
}

var _ ports.Advisor = (*OpenAI)(nil)

func (a *OpenAI) AnalyzeTask(ctx context.Context, spec domain.TaskSpec) (domain.TaskAnalysis, error) {
	return analyzeTask(ctx, a.complete, spec)
}

func (a *OpenAI) CoordinateAgents(ctx context.Context, responses map[domain.AgentType]any) (domain.Coordination, error) {
	return coordinateAgents(ctx, a.complete, responses)
}

func (a *OpenAI) EvaluateResults(ctx context.Context, task *domain.Task, result *domain.TaskResult) (domain.Evaluation, error) {
	return evaluateResults(ctx, a.complete, task, result)
}

func (a *OpenAI) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
