package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swarmhive/orchestrator/internal/config"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
	"github.com/swarmhive/orchestrator/internal/infrastructure/trading"
	"github.com/swarmhive/orchestrator/internal/worker"
)

func main() {
	var (
		kind      = flag.String("type", "", "agent type: data-gathering, analysis, execution, monitoring")
		id        = flag.String("id", "", "agent id (generated when empty)")
		serverURL = flag.String("server", "ws://localhost:3000/ws/agent", "orchestrator websocket url")
		reconnect = flag.Duration("reconnect", 5*time.Second, "wait between reconnect attempts")
	)
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "info", Encoding: "console"})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	executor, err := buildExecutor(*kind, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	w := worker.New(worker.Config{
		ID:              *id,
		Executor:        executor,
		OrchestratorURL: *serverURL,
		ReconnectWait:   *reconnect,
		Logger:          log.Named("worker"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down agent...")
		cancel()
	}()

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("agent stopped: %v", err)
	}
	log.Info("agent exited gracefully")
}

func buildExecutor(kind string, log *logger.Logger) (worker.Executor, error) {
	switch kind {
	case "data-gathering":
		return worker.NewDataGatherer(), nil
	case "analysis":
		return worker.NewAnalyzer(), nil
	case "execution":
		tc := tradingSettings()
		jupiter := trading.NewJupiterClient(trading.JupiterConfig{
			BaseURL:     tc.BaseURL,
			SlippageBps: tc.SlippageBps,
			Logger:      log.Named("jupiter"),
		})
		return worker.NewTradeExecutor(jupiter), nil
	case "monitoring":
		return worker.NewMonitor(), nil
	default:
		return nil, fmt.Errorf("unknown agent type %q", kind)
	}
}

// tradingSettings reads the trading section from the orchestrator config
// file when one is available. Without a config file the base URL still
// respects SWARM_TRADING_BASE_URL and the Jupiter client defaults apply.
func tradingSettings() config.TradingConfig {
	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "../config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.TradingConfig{BaseURL: os.Getenv("SWARM_TRADING_BASE_URL")}
	}
	return cfg.Trading
}
