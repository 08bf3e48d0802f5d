package trading

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

const (
	mintA = "So11111111111111111111111111111111111111112"
	mintB = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// quoteServer answers /quote with a fixed output per input mint.
func quoteServer(t *testing.T, outAmounts map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		out, ok := outAmounts[q.Get("inputMint")]
		if !ok {
			http.Error(w, "unknown mint", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"inputMint":      q.Get("inputMint"),
			"inAmount":       q.Get("amount"),
			"outputMint":     q.Get("outputMint"),
			"outAmount":      out,
			"swapMode":       "ExactIn",
			"slippageBps":    50,
			"priceImpactPct": "0.01",
		})
	}))
}

func newTestClient(baseURL string) *JupiterClient {
	return NewJupiterClient(JupiterConfig{BaseURL: baseURL, Logger: logger.Nop()})
}

func TestGetQuote(t *testing.T) {
	srv := quoteServer(t, map[string]string{mintA: "15000"})
	defer srv.Close()

	quote, err := newTestClient(srv.URL).GetQuote(context.Background(), mintA, mintB, 100)
	require.NoError(t, err)
	assert.Equal(t, mintA, quote.InputMint)
	assert.Equal(t, "100", quote.InAmount)
	assert.Equal(t, "15000", quote.OutAmount)
	assert.Equal(t, 0.01, quote.PriceImpactPct)
}

func TestGetQuote_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetQuote(context.Background(), mintA, mintB, 100)
	assert.Error(t, err)
}

func TestFindArbitrage_Profitable(t *testing.T) {
	// 1000 A -> 2000 B -> 1100 A
	srv := quoteServer(t, map[string]string{mintA: "2000", mintB: "1100"})
	defer srv.Close()

	arb := newTestClient(srv.URL).FindArbitrage(context.Background(), mintA, mintB, 1000)
	require.Empty(t, arb.Err)
	assert.True(t, arb.Profitable)
	assert.Equal(t, int64(100), arb.Profit)
	assert.InDelta(t, 10.0, arb.ProfitPct, 0.001)
	require.NotNil(t, arb.QuoteAB)
	assert.Equal(t, "2000", arb.QuoteAB.OutAmount)
}

func TestFindArbitrage_Unprofitable(t *testing.T) {
	srv := quoteServer(t, map[string]string{mintA: "2000", mintB: "990"})
	defer srv.Close()

	arb := newTestClient(srv.URL).FindArbitrage(context.Background(), mintA, mintB, 1000)
	require.Empty(t, arb.Err)
	assert.False(t, arb.Profitable)
	assert.Equal(t, int64(-10), arb.Profit)
}

func TestFindArbitrage_QuoteFailure(t *testing.T) {
	srv := quoteServer(t, map[string]string{mintA: "2000"})
	defer srv.Close()

	// Second leg uses mintB as input, which the server rejects.
	arb := newTestClient(srv.URL).FindArbitrage(context.Background(), mintA, mintB, 1000)
	assert.False(t, arb.Profitable)
	assert.NotEmpty(t, arb.Err)
}
