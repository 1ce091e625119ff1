package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/dnldd/marketpulse/shared"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// ShortWindow is the short moving average window in trading days.
	ShortWindow = 50
	// LongWindow is the long moving average window in trading days.
	LongWindow = 200
)

// Return represents a single day-over-day percentage return.
type Return struct {
	Date  time.Time
	Value float64
}

// Returns derives the day-over-day percentage returns of the provided
// series. The result has one entry per candle with a predecessor, dated to
// the later close; a series shorter than two candles yields no returns.
func Returns(series *shared.PriceSeries) []Return {
	if series.Len() < 2 {
		return nil
	}

	returns := make([]Return, 0, series.Len()-1)
	for idx := 1; idx < series.Len(); idx++ {
		prev := series.Candles[idx-1].Close
		curr := series.Candles[idx].Close
		returns = append(returns, Return{
			Date:  series.Candles[idx].Date,
			Value: (curr - prev) / prev * 100,
		})
	}

	return returns
}

// MovingAverage represents a trailing arithmetic mean of close prices.
// Values[i] is the mean of the window ending at Dates[i]; the first
// window-1 dates of the underlying series carry no value.
type MovingAverage struct {
	Window int
	Dates  []time.Time
	Values []float64
}

// NewMovingAverage computes the trailing moving average of the provided
// series' closes for the provided window.
func NewMovingAverage(series *shared.PriceSeries, window int) (*MovingAverage, error) {
	if window < 1 {
		return nil, fmt.Errorf("moving average window must be positive, got %d", window)
	}
	if series.Len() < window {
		return nil, fmt.Errorf("%s: %d-day moving average needs %d candles, have %d: %w",
			series.Ticker, window, window, series.Len(), shared.ErrInsufficientData)
	}

	sma := trend.NewSmaWithPeriod[float64](window)
	values := helper.ChanToSlice(sma.Compute(helper.SliceToChan(series.Closes())))

	return &MovingAverage{
		Window: window,
		Dates:  series.Dates()[window-1:],
		Values: values,
	}, nil
}

// Summary represents the descriptive statistics for one ticker, derived
// once from its fully fetched price series and immutable thereafter.
type Summary struct {
	// Ticker is the ticker symbol the summary describes.
	Ticker string
	// TotalReturn is the percentage change between the first and last close.
	TotalReturn float64
	// AvgDailyReturn is the arithmetic mean of the daily returns.
	AvgDailyReturn float64
	// Volatility is the sample standard deviation of the daily returns,
	// in percentage points. A two-candle series has a single return and
	// no defined deviation, reported as zero rather than NaN.
	Volatility float64
	// BestDay is the largest single-day return.
	BestDay float64
	// WorstDay is the smallest single-day return.
	WorstDay float64
	// StartPrice is the first close of the analysis period.
	StartPrice float64
	// CurrentPrice is the last close of the analysis period.
	CurrentPrice float64
}

// NewSummary derives the summary statistics for the provided series. A
// series shorter than two candles has no defined returns and yields
// ErrInsufficientData.
func NewSummary(series *shared.PriceSeries) (*Summary, error) {
	if series.Len() < 2 {
		return nil, fmt.Errorf("%s: summary needs at least 2 candles, have %d: %w",
			series.Ticker, series.Len(), shared.ErrInsufficientData)
	}

	returns := Returns(series)
	values := make([]float64, len(returns))
	for idx := range returns {
		values[idx] = returns[idx].Value
	}

	first := series.Candles[0].Close
	last := series.Candles[series.Len()-1].Close

	// The sample deviation of a single return is undefined, report zero.
	var volatility float64
	if len(values) > 1 {
		volatility = stat.StdDev(values, nil)
	}

	return &Summary{
		Ticker:         series.Ticker,
		TotalReturn:    (last - first) / first * 100,
		AvgDailyReturn: stat.Mean(values, nil),
		Volatility:     volatility,
		BestDay:        floats.Max(values),
		WorstDay:       floats.Min(values),
		StartPrice:     first,
		CurrentPrice:   last,
	}, nil
}

// TickerMetrics bundles a ticker's price series with all of its derived
// series and summary statistics.
type TickerMetrics struct {
	Ticker  string
	Series  *shared.PriceSeries
	Returns []Return
	// MA50 and MA200 are nil when the series is shorter than their window.
	MA50    *MovingAverage
	MA200   *MovingAverage
	Summary *Summary
}

// Compute derives the full metrics set for the provided series. Moving
// averages the series is too short for are omitted rather than failing the
// computation.
func Compute(series *shared.PriceSeries) (*TickerMetrics, error) {
	summary, err := NewSummary(series)
	if err != nil {
		return nil, err
	}

	tm := &TickerMetrics{
		Ticker:  series.Ticker,
		Series:  series,
		Returns: Returns(series),
		Summary: summary,
	}

	ma50, err := NewMovingAverage(series, ShortWindow)
	switch {
	case err == nil:
		tm.MA50 = ma50
	case !errors.Is(err, shared.ErrInsufficientData):
		return nil, err
	}

	ma200, err := NewMovingAverage(series, LongWindow)
	switch {
	case err == nil:
		tm.MA200 = ma200
	case !errors.Is(err, shared.ErrInsufficientData):
		return nil, err
	}

	return tm, nil
}
