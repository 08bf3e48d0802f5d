package worker

import (
	"context"
	"time"

	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/trading"
)

// Well-known Solana mints used when a task does not name a pair.
const (
	mintSOL  = "So11111111111111111111111111111111111111112"
	mintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	defaultProbeAmount = 100_000_000 // 0.1 SOL in lamports
)

// TradeExecutor carries out the execution leg of a task. When a Jupiter
// client is configured it probes a round-trip arbitrage; otherwise it
// reports a dry run.
type TradeExecutor struct {
	jupiter *trading.JupiterClient
}

func NewTradeExecutor(jupiter *trading.JupiterClient) *TradeExecutor {
	return &TradeExecutor{jupiter: jupiter}
}

func (e *TradeExecutor) Type() domain.AgentType { return domain.AgentTypeExecution }

func (e *TradeExecutor) Capabilities() []string {
	return []string{"transaction-execution", "swap-routing", "arbitrage-probing"}
}

func (e *TradeExecutor) Execute(ctx context.Context, taskID string, task *domain.TaskAssignment) (any, error) {
	if e.jupiter == nil {
		return map[string]any{
			"result": map[string]any{
				"executed": false,
				"dryRun":   true,
				"action":   task.Description,
			},
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	arb := e.jupiter.FindArbitrage(ctx, mintSOL, mintUSDC, defaultProbeAmount)
	if arb.Err != "" {
		return map[string]any{
			"result": map[string]any{
				"executed": false,
				"error":    arb.Err,
			},
		}, nil
	}

	return map[string]any{
		"result": map[string]any{
			"executed":   true,
			"pair":       "SOL/USDC",
			"profitable": arb.Profitable,
			"profit":     arb.Profit,
			"profitPct":  arb.ProfitPct,
		},
	}, nil
}
