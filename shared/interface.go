package shared

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
)

// MarketFetcher defines the requirements for fetching daily market data.
type MarketFetcher interface {
	// FetchDailyHistorical fetches daily historical market data for the
	// provided ticker over the provided date range.
	FetchDailyHistorical(ctx context.Context, ticker string, start time.Time, end time.Time) ([]gjson.Result, error)
}
