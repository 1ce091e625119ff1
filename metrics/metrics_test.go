package metrics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dnldd/marketpulse/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/peterldowns/testy/assert"
)

// seriesFromCloses builds a daily price series from the provided closes,
// one candle per weekday-agnostic calendar day.
func seriesFromCloses(t *testing.T, ticker string, closes []float64) *shared.PriceSeries {
	t.Helper()

	start, err := time.Parse(shared.DateLayout, "2025-01-02")
	assert.NoError(t, err)

	candles := make([]shared.Candlestick, 0, len(closes))
	for idx := range closes {
		candles = append(candles, shared.Candlestick{
			Open:   closes[idx],
			High:   closes[idx],
			Low:    closes[idx],
			Close:  closes[idx],
			Volume: 1000,
			Date:   start.AddDate(0, 0, idx),
			Ticker: ticker,
		})
	}

	series, err := shared.NewPriceSeries(ticker, candles)
	assert.NoError(t, err)

	return series
}

func TestReturns(t *testing.T) {
	series := seriesFromCloses(t, "AAPL", []float64{100, 110, 99})

	// Ensure the return series is one element shorter than the price
	// series and matches the consecutive-close formula.
	returns := Returns(series)
	assert.Equal(t, len(returns), 2)

	values := []float64{returns[0].Value, returns[1].Value}
	assert.True(t, cmp.Equal(values, []float64{10, -10}, cmpopts.EquateApprox(0, 1e-9)))

	// Returns are dated to the later close of each pair.
	assert.Equal(t, returns[0].Date, series.Candles[1].Date)

	// Ensure short series yield no returns.
	assert.Equal(t, len(Returns(seriesFromCloses(t, "AAPL", []float64{100}))), 0)
}

func TestSummary(t *testing.T) {
	series := seriesFromCloses(t, "AAPL", []float64{100, 110, 99})

	summary, err := NewSummary(series)
	assert.NoError(t, err)
	assert.Equal(t, summary.Ticker, "AAPL")

	// total return = (99 - 100) / 100 * 100 = -1%.
	assert.True(t, cmp.Equal(summary.TotalReturn, -1.0, cmpopts.EquateApprox(0, 1e-9)))
	assert.True(t, cmp.Equal(summary.BestDay, 10.0, cmpopts.EquateApprox(0, 1e-9)))
	assert.True(t, cmp.Equal(summary.WorstDay, -10.0, cmpopts.EquateApprox(0, 1e-9)))
	assert.Equal(t, summary.StartPrice, float64(100))
	assert.Equal(t, summary.CurrentPrice, float64(99))
	assert.True(t, summary.Volatility >= 0)

	// Ensure compounding the return series reproduces the direct total
	// return within floating point tolerance.
	compounded := 1.0
	for _, ret := range Returns(series) {
		compounded *= 1 + ret.Value/100
	}
	assert.True(t, cmp.Equal((compounded-1)*100, summary.TotalReturn, cmpopts.EquateApprox(0, 1e-9)))
}

func TestSummarySingleReturn(t *testing.T) {
	series := seriesFromCloses(t, "AAPL", []float64{100, 110})

	// Ensure a two-candle series reports zero volatility rather than a
	// NaN sample deviation, while the other metrics remain defined.
	summary, err := NewSummary(series)
	assert.NoError(t, err)
	assert.Equal(t, summary.Volatility, 0.0)
	assert.True(t, !math.IsNaN(summary.Volatility))
	assert.True(t, cmp.Equal(summary.TotalReturn, 10.0, cmpopts.EquateApprox(0, 1e-9)))
	assert.True(t, cmp.Equal(summary.AvgDailyReturn, 10.0, cmpopts.EquateApprox(0, 1e-9)))
}

func TestSummaryInsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
	}{
		{
			name:   "single candle",
			closes: []float64{100},
		},
	}

	for _, test := range tests {
		series := seriesFromCloses(t, "AAPL", test.closes)
		_, err := NewSummary(series)
		if !errors.Is(err, shared.ErrInsufficientData) {
			t.Errorf("%s: expected insufficient data error, got %v", test.name, err)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	series := seriesFromCloses(t, "AAPL", []float64{1, 2, 3, 4, 5, 6})

	ma, err := NewMovingAverage(series, 3)
	assert.NoError(t, err)
	assert.Equal(t, ma.Window, 3)

	// Ensure the first window-1 dates carry no value and each value is the
	// mean of exactly window trailing closes.
	assert.Equal(t, len(ma.Values), 4)
	assert.Equal(t, len(ma.Dates), 4)
	assert.Equal(t, ma.Dates[0], series.Candles[2].Date)
	assert.True(t, cmp.Equal(ma.Values, []float64{2, 3, 4, 5}, cmpopts.EquateApprox(0, 1e-9)))

	// Ensure too-short series are flagged.
	_, err = NewMovingAverage(series, 7)
	assert.True(t, errors.Is(err, shared.ErrInsufficientData))

	// Ensure invalid windows are rejected.
	_, err = NewMovingAverage(series, 0)
	assert.Error(t, err)
}

func TestCompute(t *testing.T) {
	closes := make([]float64, 60)
	for idx := range closes {
		closes[idx] = 100 + float64(idx)
	}
	series := seriesFromCloses(t, "AAPL", closes)

	// Ensure a series long enough for the short window carries MA50 but
	// omits MA200 without failing the computation.
	tm, err := Compute(series)
	assert.NoError(t, err)
	assert.Equal(t, tm.Ticker, "AAPL")
	assert.Equal(t, len(tm.Returns), 59)
	assert.True(t, tm.MA50 != nil)
	assert.True(t, tm.MA200 == nil)
	assert.True(t, tm.Summary != nil)

	// Ensure a one-candle series is flagged as insufficient.
	_, err = Compute(seriesFromCloses(t, "AAPL", []float64{100}))
	assert.True(t, errors.Is(err, shared.ErrInsufficientData))
}
