// Package chart renders the analysis chart artifacts as static png images.
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dnldd/marketpulse/metrics"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	// File names of the rendered artifacts.
	IndividualPricesFile    = "1_individual_prices.png"
	ComparisonFile          = "2_comparison_normalized.png"
	TradingVolumeFile       = "3_trading_volume.png"
	MovingAveragesFile      = "4_moving_averages.png"
	ReturnsDistributionFile = "5_returns_distribution.png"
	RiskReturnFile          = "6_risk_return.png"

	// gridColumns is the number of columns in tiled chart grids.
	gridColumns = 3
	// histogramBins is the number of bins in return distribution histograms.
	histogramBins = 50
	// maMaxTickers is the number of tickers shown on the moving average chart.
	maMaxTickers = 3

	// dateTickFormat is the x axis tick format for date axes.
	dateTickFormat = "2006-01"
)

// RendererConfig represents the configuration for the chart renderer.
type RendererConfig struct {
	// OutputDir is the directory the chart images are written to.
	OutputDir string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Renderer renders the six analysis chart artifacts. Each artifact is
// independent, a ticker lacking the data a chart needs is omitted from that
// chart rather than failing the run.
type Renderer struct {
	cfg *RendererConfig
}

// NewRenderer initializes a new chart renderer, creating the output
// directory if needed.
func NewRenderer(cfg *RendererConfig) (*Renderer, error) {
	err := os.MkdirAll(cfg.OutputDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("creating chart output directory '%s': %w", cfg.OutputDir, err)
	}

	return &Renderer{
		cfg: cfg,
	}, nil
}

// timeXYs converts parallel date and value slices into plottable points.
func timeXYs(dates []time.Time, values []float64) plotter.XYs {
	xys := make(plotter.XYs, len(values))
	for idx := range values {
		xys[idx].X = float64(dates[idx].Unix())
		xys[idx].Y = values[idx]
	}

	return xys
}

// newDatePlot creates a plot with a date formatted x axis.
func newDatePlot(title string, xLabel string, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: dateTickFormat}
	p.Add(plotter.NewGrid())

	return p
}

// writeTiled draws the provided plot grid onto a single png canvas.
func (r *Renderer) writeTiled(plots [][]*plot.Plot, name string, tileWidth vg.Length, tileHeight vg.Length) error {
	rows := len(plots)
	cols := 0
	for idx := range plots {
		if len(plots[idx]) > cols {
			cols = len(plots[idx])
		}
	}

	img := vgimg.New(tileWidth*vg.Length(cols), tileHeight*vg.Length(rows))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	path := filepath.Join(r.cfg.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file '%s': %w", path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(f)
	if err != nil {
		return fmt.Errorf("writing chart file '%s': %w", path, err)
	}

	r.cfg.Logger.Info().Msgf("rendered %s", name)

	return nil
}

// writeSingle saves a single plot as a png artifact.
func (r *Renderer) writeSingle(p *plot.Plot, name string, width vg.Length, height vg.Length) error {
	path := filepath.Join(r.cfg.OutputDir, name)
	err := p.Save(width, height, path)
	if err != nil {
		return fmt.Errorf("saving chart file '%s': %w", path, err)
	}

	r.cfg.Logger.Info().Msgf("rendered %s", name)

	return nil
}

// grid arranges one plot per result into rows of gridColumns.
func grid(plots []*plot.Plot) [][]*plot.Plot {
	rows := (len(plots) + gridColumns - 1) / gridColumns
	tiled := make([][]*plot.Plot, rows)
	for idx := range tiled {
		row := make([]*plot.Plot, gridColumns)
		for col := 0; col < gridColumns; col++ {
			flat := idx*gridColumns + col
			if flat < len(plots) {
				row[col] = plots[flat]
			}
		}
		tiled[idx] = row
	}

	return tiled
}

// renderIndividualPrices renders a tiled grid of per ticker close price
// lines.
func (r *Renderer) renderIndividualPrices(results []*metrics.TickerMetrics) error {
	plots := make([]*plot.Plot, 0, len(results))
	for idx, result := range results {
		p := newDatePlot(result.Ticker+" Price", "Date", "Price ($)")

		line, err := plotter.NewLine(timeXYs(result.Series.Dates(), result.Series.Closes()))
		if err != nil {
			return fmt.Errorf("building price line for %s: %w", result.Ticker, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(idx)

		p.Add(line)
		p.Legend.Add(result.Ticker, line)
		plots = append(plots, p)
	}

	return r.writeTiled(grid(plots), IndividualPricesFile, 5*vg.Inch, 3.5*vg.Inch)
}

// renderComparison renders all tickers on one plot with closes normalized
// to 100 at the first date.
func (r *Renderer) renderComparison(results []*metrics.TickerMetrics) error {
	p := newDatePlot("Performance Comparison (Normalized to 100)", "Date", "Normalized Price (Start = 100)")

	for idx, result := range results {
		closes := result.Series.Closes()
		first := closes[0]
		normalized := make([]float64, len(closes))
		for k := range closes {
			normalized[k] = closes[k] / first * 100
		}

		line, err := plotter.NewLine(timeXYs(result.Series.Dates(), normalized))
		if err != nil {
			return fmt.Errorf("building comparison line for %s: %w", result.Ticker, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(idx)

		p.Add(line)
		p.Legend.Add(result.Ticker, line)
	}

	return r.writeSingle(p, ComparisonFile, 12*vg.Inch, 7*vg.Inch)
}

// renderVolume renders each ticker's traded volume, one row per ticker.
func (r *Renderer) renderVolume(results []*metrics.TickerMetrics) error {
	rows := make([][]*plot.Plot, 0, len(results))
	for idx, result := range results {
		p := newDatePlot(result.Ticker+" Trading Volume", "Date", "Volume")

		line, err := plotter.NewLine(timeXYs(result.Series.Dates(), result.Series.Volumes()))
		if err != nil {
			return fmt.Errorf("building volume line for %s: %w", result.Ticker, err)
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = plotutil.Color(idx)
		line.FillColor = plotutil.Color(idx)

		p.Add(line)
		rows = append(rows, []*plot.Plot{p})
	}

	return r.writeTiled(rows, TradingVolumeFile, 12*vg.Inch, 2.5*vg.Inch)
}

// renderMovingAverages renders close, 50 day and 200 day moving averages
// for the first tickers carrying a short moving average. Tickers too short
// for the windows are omitted.
func (r *Renderer) renderMovingAverages(results []*metrics.TickerMetrics) error {
	plots := make([]*plot.Plot, 0, maMaxTickers)
	for _, result := range results {
		if result.MA50 == nil {
			r.cfg.Logger.Warn().Msgf("omitting %s from moving average chart, series too short", result.Ticker)
			continue
		}
		if len(plots) == maMaxTickers {
			break
		}

		p := newDatePlot(result.Ticker, "Date", "Price ($)")

		closeLine, err := plotter.NewLine(timeXYs(result.Series.Dates(), result.Series.Closes()))
		if err != nil {
			return fmt.Errorf("building close line for %s: %w", result.Ticker, err)
		}
		closeLine.LineStyle.Width = vg.Points(1.5)
		closeLine.LineStyle.Color = plotutil.Color(0)
		p.Add(closeLine)
		p.Legend.Add("Close", closeLine)

		averages := []*metrics.MovingAverage{result.MA50, result.MA200}
		for idx, ma := range averages {
			if ma == nil {
				continue
			}

			maLine, err := plotter.NewLine(timeXYs(ma.Dates, ma.Values))
			if err != nil {
				return fmt.Errorf("building %d-day average line for %s: %w", ma.Window, result.Ticker, err)
			}
			maLine.LineStyle.Width = vg.Points(1)
			maLine.LineStyle.Color = plotutil.Color(idx + 1)
			maLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(maLine)
			p.Legend.Add(fmt.Sprintf("%d-day MA", ma.Window), maLine)
		}

		plots = append(plots, p)
	}

	if len(plots) == 0 {
		r.cfg.Logger.Warn().Msg("no tickers with enough data for the moving average chart, skipping it")
		return nil
	}

	return r.writeTiled([][]*plot.Plot{plots}, MovingAveragesFile, 5*vg.Inch, 4*vg.Inch)
}

// histogramPeak returns the highest bin count a histogram of the provided
// values would have, used to size the mean marker line.
func histogramPeak(values []float64, bins int) float64 {
	min := floats.Min(values)
	max := floats.Max(values)
	if min == max {
		return float64(len(values))
	}

	counts := make([]float64, bins)
	width := (max - min) / float64(bins)
	for _, value := range values {
		idx := int((value - min) / width)
		if idx == bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	return floats.Max(counts)
}

// renderReturnsDistribution renders a histogram of daily returns per
// ticker with a marker at the mean.
func (r *Renderer) renderReturnsDistribution(results []*metrics.TickerMetrics) error {
	plots := make([]*plot.Plot, 0, len(results))
	for _, result := range results {
		values := make([]float64, len(result.Returns))
		for idx := range result.Returns {
			values[idx] = result.Returns[idx].Value
		}

		p := plot.New()
		p.Title.Text = result.Ticker + " Daily Returns"
		p.X.Label.Text = "Daily Return (%)"
		p.Y.Label.Text = "Frequency"
		p.Add(plotter.NewGrid())

		hist, err := plotter.NewHist(plotter.Values(values), histogramBins)
		if err != nil {
			return fmt.Errorf("building return histogram for %s: %w", result.Ticker, err)
		}
		p.Add(hist)

		mean := result.Summary.AvgDailyReturn
		marker, err := plotter.NewLine(plotter.XYs{
			{X: mean, Y: 0},
			{X: mean, Y: histogramPeak(values, histogramBins)},
		})
		if err != nil {
			return fmt.Errorf("building mean marker for %s: %w", result.Ticker, err)
		}
		marker.LineStyle.Width = vg.Points(1.5)
		marker.LineStyle.Color = plotutil.Color(1)
		marker.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("Mean: %.2f%%", mean), marker)

		plots = append(plots, p)
	}

	return r.writeTiled(grid(plots), ReturnsDistributionFile, 5*vg.Inch, 3.5*vg.Inch)
}

// renderRiskReturn renders the volatility versus total return scatter with
// ticker labels and zero axes.
func (r *Renderer) renderRiskReturn(results []*metrics.TickerMetrics) error {
	p := plot.New()
	p.Title.Text = "Risk vs Return"
	p.X.Label.Text = "Risk (Volatility - Daily Std Dev %)"
	p.Y.Label.Text = "Return (%)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, 0, len(results))
	labels := make([]string, 0, len(results))
	for _, result := range results {
		xys = append(xys, plotter.XY{X: result.Summary.Volatility, Y: result.Summary.TotalReturn})
		labels = append(labels, result.Ticker)
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("building risk-return scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(6)
	scatter.GlyphStyle.Color = plotutil.Color(0)
	p.Add(scatter)

	tickerLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return fmt.Errorf("building risk-return labels: %w", err)
	}
	p.Add(tickerLabels)

	// Anchor the axes at zero so quadrant membership is readable.
	p.X.Min = 0
	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	if p.Y.Max < 0 {
		p.Y.Max = 0
	}

	return r.writeSingle(p, RiskReturnFile, 10*vg.Inch, 7*vg.Inch)
}

// RenderAll renders all six chart artifacts for the provided results. Each
// chart renders independently, failures are joined and reported together.
func (r *Renderer) RenderAll(results []*metrics.TickerMetrics) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to chart")
	}

	renderers := []func([]*metrics.TickerMetrics) error{
		r.renderIndividualPrices,
		r.renderComparison,
		r.renderVolume,
		r.renderMovingAverages,
		r.renderReturnsDistribution,
		r.renderRiskReturn,
	}

	var errs error
	for _, render := range renderers {
		err := render(results)
		if err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}
