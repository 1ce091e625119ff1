package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dnldd/marketpulse/shared"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// HistoricDataConfig represents the historic data source configuration.
type HistoricDataConfig struct {
	// Dir is the directory holding per-ticker historic market data files.
	Dir string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// HistoricData represents a file backed historic market data source.
//
// Each tracked ticker is expected to have a <TICKER>.json file in the
// configured directory containing an array of daily candle rows.
type HistoricData struct {
	cfg *HistoricDataConfig
}

// Ensure the historic data source implements the MarketFetcher interface.
var _ shared.MarketFetcher = (*HistoricData)(nil)

// NewHistoricData initializes a new historic data source.
func NewHistoricData(cfg *HistoricDataConfig) (*HistoricData, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("locating historic data directory '%s': %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("historic data path '%s' is not a directory", cfg.Dir)
	}

	return &HistoricData{
		cfg: cfg,
	}, nil
}

// FetchDailyHistorical loads daily historical market data for the provided
// ticker from its backing file, restricted to the provided date range.
func (h *HistoricData) FetchDailyHistorical(ctx context.Context, ticker string, start time.Time, end time.Time) ([]gjson.Result, error) {
	path := filepath.Join(h.cfg.Dir, ticker+".json")
	readb, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading historic data from file with path '%s': %w", path, err)
	}

	rows := gjson.ParseBytes(readb).Array()

	// Date strings in the daily layout order lexicographically, so the
	// range filter compares them directly.
	from := start.Format(shared.DateLayout)
	to := end.Format(shared.DateLayout)

	filtered := make([]gjson.Result, 0, len(rows))
	for idx := range rows {
		date := rows[idx].Get("date").String()
		if date < from {
			continue
		}
		if !end.IsZero() && date > to {
			continue
		}

		filtered = append(filtered, rows[idx])
	}

	h.cfg.Logger.Debug().Msgf("loaded %d of %d historic rows for %s", len(filtered), len(rows), ticker)

	return filtered, nil
}
