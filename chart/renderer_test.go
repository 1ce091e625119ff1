package chart

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dnldd/marketpulse/metrics"
	"github.com/dnldd/marketpulse/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

// testMetrics builds metrics for a synthetic series of the provided length.
func testMetrics(t *testing.T, ticker string, days int) *metrics.TickerMetrics {
	t.Helper()

	start, err := time.Parse(shared.DateLayout, "2024-01-02")
	assert.NoError(t, err)

	candles := make([]shared.Candlestick, 0, days)
	for idx := 0; idx < days; idx++ {
		price := 100 + 10*math.Sin(float64(idx)/7)
		candles = append(candles, shared.Candlestick{
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1e6 + float64(idx)*1e4,
			Date:   start.AddDate(0, 0, idx),
			Ticker: ticker,
		})
	}

	series, err := shared.NewPriceSeries(ticker, candles)
	assert.NoError(t, err)

	tm, err := metrics.Compute(series)
	assert.NoError(t, err)

	return tm
}

func TestRenderAll(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewRenderer(&RendererConfig{
		OutputDir: dir,
		Logger:    &log.Logger,
	})
	assert.NoError(t, err)

	results := []*metrics.TickerMetrics{
		testMetrics(t, "AAPL", 260),
		testMetrics(t, "TSLA", 260),
	}

	// Ensure all six artifacts are rendered.
	err = renderer.RenderAll(results)
	assert.NoError(t, err)

	files := []string{
		IndividualPricesFile,
		ComparisonFile,
		TradingVolumeFile,
		MovingAveragesFile,
		ReturnsDistributionFile,
		RiskReturnFile,
	}
	for _, name := range files {
		info, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
		assert.True(t, info.Size() > 0)
	}
}

func TestRenderAllShortSeries(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewRenderer(&RendererConfig{
		OutputDir: dir,
		Logger:    &log.Logger,
	})
	assert.NoError(t, err)

	// A series too short for any moving average window.
	results := []*metrics.TickerMetrics{testMetrics(t, "AAPL", 20)}

	// Ensure rendering degrades gracefully, omitting the moving average
	// chart rather than failing the run.
	err = renderer.RenderAll(results)
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, MovingAveragesFile))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, ComparisonFile))
	assert.NoError(t, err)
}

func TestRenderAllEmpty(t *testing.T) {
	renderer, err := NewRenderer(&RendererConfig{
		OutputDir: t.TempDir(),
		Logger:    &log.Logger,
	})
	assert.NoError(t, err)

	// Ensure rendering with no results is an error.
	assert.Error(t, renderer.RenderAll(nil))
}
