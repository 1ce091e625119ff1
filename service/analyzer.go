package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/marketpulse/chart"
	"github.com/dnldd/marketpulse/fetch"
	"github.com/dnldd/marketpulse/metrics"
	"github.com/dnldd/marketpulse/report"
	"github.com/dnldd/marketpulse/shared"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// AnalyzerConfig represents the configuration for the analyzer service.
type AnalyzerConfig struct {
	// Tickers represents the analyzed tickers, in presentation order.
	Tickers []string
	// Start is the start of the analysis period.
	Start time.Time
	// End is the end of the analysis period.
	End time.Time
	// OutputDir is the directory chart artifacts are written to.
	OutputDir string
	// Fetcher represents the market data source.
	Fetcher shared.MarketFetcher
	// Out is the destination for the console summary, defaults to stdout.
	Out io.Writer
	// Schedule re-runs the analysis at the provided interval when set,
	// otherwise the service performs a single run.
	Schedule time.Duration
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *AnalyzerConfig) Validate() error {
	var errs error

	if len(cfg.Tickers) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no tickers provided for analyzer service"))
	}
	if cfg.Start.IsZero() {
		errs = errors.Join(errs, fmt.Errorf("analysis start date cannot be zero"))
	}
	if !cfg.End.IsZero() && cfg.End.Before(cfg.Start) {
		errs = errors.Join(errs, fmt.Errorf("analysis start date cannot be after the end date"))
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("market fetcher cannot be nil"))
	}
	if cfg.OutputDir == "" {
		errs = errors.Join(errs, fmt.Errorf("output directory cannot be an empty string"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Analyzer represents the market analysis service.
type Analyzer struct {
	cfg          *AnalyzerConfig
	fetchManager *fetch.Manager
	reporter     *report.Reporter
	renderer     *chart.Renderer
	logger       *zerolog.Logger
}

// NewAnalyzer initializes a new analyzer service.
func NewAnalyzer(cfg *AnalyzerConfig) (*Analyzer, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	logger := log.With().Str("service", "analyzer").Logger()

	fetchMgrLogger := logger.With().Str("component", "fetchmanager").Logger()
	fetchMgr, err := fetch.NewManager(&fetch.ManagerConfig{
		Fetcher: cfg.Fetcher,
		Logger:  &fetchMgrLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating fetch manager: %w", err)
	}

	rendererLogger := logger.With().Str("component", "chartrenderer").Logger()
	renderer, err := chart.NewRenderer(&chart.RendererConfig{
		OutputDir: cfg.OutputDir,
		Logger:    &rendererLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chart renderer: %w", err)
	}

	reporter := report.NewReporter(&report.ReporterConfig{
		Start: cfg.Start,
		End:   cfg.End,
	})

	return &Analyzer{
		cfg:          cfg,
		fetchManager: fetchMgr,
		reporter:     reporter,
		renderer:     renderer,
		logger:       &logger,
	}, nil
}

// skipReason condenses a per-ticker failure into a summary line reason.
func skipReason(err error) string {
	switch {
	case errors.Is(err, shared.ErrNoData):
		return "no market data"
	case errors.Is(err, shared.ErrInsufficientData):
		return "insufficient market data"
	default:
		return "fetch error"
	}
}

// runOnce performs one full fetch, compute, report and chart pass. A run
// with no usable tickers is terminal and produces no partial output.
func (a *Analyzer) runOnce(ctx context.Context) error {
	runID := uuid.NewString()
	logger := a.logger.With().Str("run", runID).Logger()
	logger.Info().Msgf("analyzing %d tickers from %s to %s", len(a.cfg.Tickers),
		a.cfg.Start.Format(shared.DateLayout), a.cfg.End.Format(shared.DateLayout))

	outcomes, err := a.fetchManager.FetchAll(ctx, a.cfg.Tickers, a.cfg.Start, a.cfg.End)
	if err != nil {
		return fmt.Errorf("fetching market data: %w", err)
	}

	results := make([]*metrics.TickerMetrics, 0, len(outcomes))
	skipped := make([]report.Skipped, 0)
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			skipped = append(skipped, report.Skipped{Ticker: outcome.Ticker, Reason: skipReason(outcome.Err)})
			continue
		}

		tm, err := metrics.Compute(outcome.Series)
		if err != nil {
			if !errors.Is(err, shared.ErrInsufficientData) {
				return fmt.Errorf("computing metrics for %s: %w", outcome.Ticker, err)
			}

			logger.Warn().Err(err).Msgf("excluding %s", outcome.Ticker)
			skipped = append(skipped, report.Skipped{Ticker: outcome.Ticker, Reason: skipReason(err)})
			continue
		}

		if tm.Summary.Volatility < 0 {
			logger.Error().Msgf("unexpected summary state for %s: %s", tm.Ticker, spew.Sdump(tm.Summary))
			skipped = append(skipped, report.Skipped{Ticker: outcome.Ticker, Reason: "invalid metrics"})
			continue
		}

		results = append(results, tm)
	}

	if len(results) == 0 {
		return fmt.Errorf("no usable market data for any of the %d requested tickers", len(a.cfg.Tickers))
	}

	err = a.reporter.Write(a.cfg.Out, results, skipped)
	if err != nil {
		return fmt.Errorf("writing summary report: %w", err)
	}

	err = a.renderer.RenderAll(results)
	if err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}

	logger.Info().Msgf("analysis complete, %d tickers summarized, %d skipped", len(results), len(skipped))

	return nil
}

// Run manages the lifecycle of the analyzer service. Without a schedule the
// service performs a single analysis pass and cancels its context;
// otherwise it re-runs the analysis on the schedule until cancelled.
func (a *Analyzer) Run(ctx context.Context) {
	defer a.cfg.Cancel()

	if a.cfg.Schedule == 0 {
		err := a.runOnce(ctx)
		if err != nil {
			a.logger.Error().Err(err).Msg("analysis run failed")
		}

		return
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		a.logger.Error().Err(err).Msg("creating job scheduler")
		return
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(a.cfg.Schedule),
		gocron.NewTask(func() {
			err := a.runOnce(ctx)
			if err != nil {
				a.logger.Error().Err(err).Msg("scheduled analysis run failed")
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		a.logger.Error().Err(err).Msg("scheduling analysis job")
		return
	}

	scheduler.Start()
	<-ctx.Done()

	err = scheduler.Shutdown()
	if err != nil {
		a.logger.Error().Err(err).Msg("shutting down job scheduler")
	}
}
