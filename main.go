package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/dnldd/marketpulse/fetch"
	"github.com/dnldd/marketpulse/service"
	"github.com/dnldd/marketpulse/shared"
	zlog "github.com/rs/zerolog/log"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	start, end, err := cfg.DateRange()
	if err != nil {
		log.Printf("resolving date range: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fetcher shared.MarketFetcher
	switch {
	case cfg.HistoricDataDir != "":
		historicLogger := zlog.With().Str("component", "historicdata").Logger()
		fetcher, err = fetch.NewHistoricData(&fetch.HistoricDataConfig{
			Dir:    cfg.HistoricDataDir,
			Logger: &historicLogger,
		})
		if err != nil {
			log.Printf("creating historic data source: %v", err)
			return
		}
	default:
		fetcher = fetch.NewFMPClient(&fetch.FMPConfig{APIKey: cfg.FMPAPIKey})
	}

	analyzerCfg := service.AnalyzerConfig{
		Tickers:   cfg.Tickers,
		Start:     start,
		End:       end,
		OutputDir: cfg.OutputDir,
		Fetcher:   fetcher,
		Schedule:  time.Duration(cfg.WatchMinutes) * time.Minute,
		Cancel:    cancel,
	}
	analyzer, err := service.NewAnalyzer(&analyzerCfg)
	if err != nil {
		log.Printf("creating analyzer service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	analyzer.Run(ctx)
}
