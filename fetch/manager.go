package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/marketpulse/shared"
	"github.com/rs/zerolog"
)

// Outcome represents the result of fetching one ticker's price history.
// A failed fetch carries its error here rather than aborting the run.
type Outcome struct {
	// Ticker is the requested ticker symbol.
	Ticker string
	// Series is the fetched price series, nil when Err is set.
	Series *shared.PriceSeries
	// Err is the per-ticker fetch error, nil on success.
	Err error
}

// ManagerConfig represents the configuration for the fetch manager.
type ManagerConfig struct {
	// Fetcher represents the market data source.
	Fetcher shared.MarketFetcher
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Manager represents the market data fetch manager.
type Manager struct {
	cfg *ManagerConfig
}

// NewManager initializes the fetch manager.
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("market fetcher cannot be nil")
	}

	return &Manager{
		cfg: cfg,
	}, nil
}

// fetchTicker fetches and parses the price series for a single ticker.
func (m *Manager) fetchTicker(ctx context.Context, ticker string, start time.Time, end time.Time) (*shared.PriceSeries, error) {
	data, err := m.cfg.Fetcher.FetchDailyHistorical(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching daily history for %s: %w", ticker, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, shared.ErrNoData)
	}

	candles, err := shared.ParseCandlesticks(data, ticker)
	if err != nil {
		return nil, fmt.Errorf("parsing candlesticks for %s: %w", ticker, err)
	}

	series, err := shared.NewPriceSeries(ticker, candles)
	if err != nil {
		return nil, fmt.Errorf("building price series for %s: %w", ticker, err)
	}

	return series, nil
}

// FetchAll fetches the price history for each of the provided tickers over
// the provided date range, returning one outcome per ticker in request
// order. A failure for one ticker does not abort the remaining fetches.
func (m *Manager) FetchAll(ctx context.Context, tickers []string, start time.Time, end time.Time) ([]Outcome, error) {
	var errs error
	if len(tickers) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no tickers provided"))
	}
	if start.IsZero() {
		errs = errors.Join(errs, fmt.Errorf("start date cannot be zero"))
	}
	if !end.IsZero() && end.Before(start) {
		errs = errors.Join(errs, fmt.Errorf("invalid date range: start %s is after end %s",
			start.Format(shared.DateLayout), end.Format(shared.DateLayout)))
	}
	if errs != nil {
		return nil, errs
	}

	outcomes := make([]Outcome, 0, len(tickers))
	for _, ticker := range tickers {
		series, err := m.fetchTicker(ctx, ticker, start, end)
		if err != nil {
			m.cfg.Logger.Error().Err(err).Msgf("fetching %s", ticker)
			outcomes = append(outcomes, Outcome{Ticker: ticker, Err: err})
			continue
		}

		m.cfg.Logger.Info().Msgf("fetched %s (%d days)", ticker, series.Len())
		outcomes = append(outcomes, Outcome{Ticker: ticker, Series: series})
	}

	return outcomes, nil
}
