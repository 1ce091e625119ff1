package shared

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrNoData indicates a provider returned no candles for a ticker.
	ErrNoData = errors.New("no market data")
	// ErrInsufficientData indicates a series is too short for a computation.
	ErrInsufficientData = errors.New("insufficient market data")
)

// PriceSeries represents the daily price history for a single ticker,
// ordered by date ascending with unique dates.
type PriceSeries struct {
	Ticker  string
	Candles []Candlestick
}

// NewPriceSeries initializes a price series from the provided candles,
// normalizing them to ascending date order and dropping duplicate dates.
func NewPriceSeries(ticker string, candles []Candlestick) (*PriceSeries, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker cannot be an empty string")
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}

	sorted := make([]Candlestick, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	// Keep the first candle seen for a duplicated date.
	unique := sorted[:1]
	for idx := 1; idx < len(sorted); idx++ {
		if sorted[idx].Date.Equal(unique[len(unique)-1].Date) {
			continue
		}
		unique = append(unique, sorted[idx])
	}

	return &PriceSeries{
		Ticker:  ticker,
		Candles: unique,
	}, nil
}

// Len returns the number of candles in the series.
func (s *PriceSeries) Len() int {
	return len(s.Candles)
}

// Closes returns the close prices of the series in date order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for idx := range s.Candles {
		closes[idx] = s.Candles[idx].Close
	}

	return closes
}

// Volumes returns the traded volumes of the series in date order.
func (s *PriceSeries) Volumes() []float64 {
	volumes := make([]float64, len(s.Candles))
	for idx := range s.Candles {
		volumes[idx] = s.Candles[idx].Volume
	}

	return volumes
}

// Dates returns the candle dates of the series in ascending order.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Candles))
	for idx := range s.Candles {
		dates[idx] = s.Candles[idx].Date
	}

	return dates
}
