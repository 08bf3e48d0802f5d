// Package trading wraps the Jupiter aggregator quote API. It is the trade
// execution provider consulted by execution workers; the coordination core
// never talks to it directly.
package trading

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

const (
	defaultBaseURL     = "https://quote-api.jup.ag/v6"
	defaultSlippageBps = 50
)

type Quote struct {
	InputMint            string  `json:"inputMint"`
	InAmount             string  `json:"inAmount"`
	OutputMint           string  `json:"outputMint"`
	OutAmount            string  `json:"outAmount"`
	OtherAmountThreshold string  `json:"otherAmountThreshold"`
	SwapMode             string  `json:"swapMode"`
	SlippageBps          int     `json:"slippageBps"`
	PriceImpactPct       float64 `json:"priceImpactPct,string"`
}

type Arbitrage struct {
	Profitable bool    `json:"profitable"`
	Profit     int64   `json:"profit,omitempty"`
	ProfitPct  float64 `json:"profit_pct,omitempty"`
	QuoteAB    *Quote  `json:"quote_ab,omitempty"`
	QuoteBA    *Quote  `json:"quote_ba,omitempty"`
	Err        string  `json:"error,omitempty"`
}

type JupiterClient struct {
	baseURL     string
	slippageBps int
	httpClient  *http.Client
	log         *logger.Logger
}

type JupiterConfig struct {
	BaseURL     string
	SlippageBps int
	Timeout     time.Duration
	Logger      *logger.Logger
}

func NewJupiterClient(cfg JupiterConfig) *JupiterClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	slippage := cfg.SlippageBps
	if slippage <= 0 {
		slippage = defaultSlippageBps
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &JupiterClient{
		baseURL:     baseURL,
		slippageBps: slippage,
		httpClient:  &http.Client{Timeout: timeout},
		log:         cfg.Logger,
	}
}

// GetQuote fetches a swap quote for amount of inputMint into outputMint.
func (c *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount int64) (*Quote, error) {
	query := url.Values{}
	query.Set("inputMint", inputMint)
	query.Set("outputMint", outputMint)
	query.Set("amount", strconv.FormatInt(amount, 10))
	query.Set("slippageBps", strconv.Itoa(c.slippageBps))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter api error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var quote Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}

	if c.log != nil {
		c.log.Infow("jupiter_quote",
			"input_mint", inputMint,
			"output_mint", outputMint,
			"in_amount", quote.InAmount,
			"out_amount", quote.OutAmount,
		)
	}
	return &quote, nil
}

// FindArbitrage round-trips amount through tokenA -> tokenB -> tokenA and
// reports whether the cycle ends above the starting amount.
func (c *JupiterClient) FindArbitrage(ctx context.Context, tokenA, tokenB string, amount int64) *Arbitrage {
	quoteAB, err := c.GetQuote(ctx, tokenA, tokenB, amount)
	if err != nil {
		return &Arbitrage{Profitable: false, Err: err.Error()}
	}

	outAB, err := strconv.ParseInt(quoteAB.OutAmount, 10, 64)
	if err != nil {
		return &Arbitrage{Profitable: false, Err: fmt.Sprintf("bad out amount %q", quoteAB.OutAmount)}
	}

	quoteBA, err := c.GetQuote(ctx, tokenB, tokenA, outAB)
	if err != nil {
		return &Arbitrage{Profitable: false, Err: err.Error()}
	}

	outBA, err := strconv.ParseInt(quoteBA.OutAmount, 10, 64)
	if err != nil {
		return &Arbitrage{Profitable: false, Err: fmt.Sprintf("bad out amount %q", quoteBA.OutAmount)}
	}

	profit := outBA - amount
	return &Arbitrage{
		Profitable: profit > 0,
		Profit:     profit,
		ProfitPct:  float64(profit) / float64(amount) * 100,
		QuoteAB:    quoteAB,
		QuoteBA:    quoteBA,
	}
}
