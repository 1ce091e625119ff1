// Package report renders the console summary of an analysis run.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dnldd/marketpulse/metrics"
	"github.com/dnldd/marketpulse/shared"
	"github.com/dustin/go-humanize"
)

const divider = "=================================================="

// Skipped represents a ticker excluded from the summary and the reason why.
type Skipped struct {
	// Ticker is the excluded ticker symbol.
	Ticker string
	// Reason describes why the ticker was excluded.
	Reason string
}

// ReporterConfig represents the configuration for the reporter.
type ReporterConfig struct {
	// Start is the start of the analysis period.
	Start time.Time
	// End is the end of the analysis period.
	End time.Time
}

// Reporter represents the console summary reporter.
type Reporter struct {
	cfg *ReporterConfig
}

// NewReporter initializes a new reporter.
func NewReporter(cfg *ReporterConfig) *Reporter {
	return &Reporter{
		cfg: cfg,
	}
}

// price formats a price with thousands separators and two decimals.
func price(value float64) string {
	return "$" + humanize.CommafWithDigits(value, 2)
}

// Write renders the analysis summary for the provided results to the
// provided writer. Results are expected in first-seen ticker order; ties in
// the rankings resolve to the earlier ticker. The reporter has no side
// effects beyond writing the text.
func (r *Reporter) Write(w io.Writer, results []*metrics.TickerMetrics, skipped []Skipped) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	tickers := make([]string, 0, len(results))
	summaries := make([]*metrics.Summary, 0, len(results))
	for _, result := range results {
		tickers = append(tickers, result.Ticker)
		summaries = append(summaries, result.Summary)
	}

	rankings, err := metrics.Rank(summaries)
	if err != nil {
		return fmt.Errorf("ranking summaries: %w", err)
	}

	var b strings.Builder
	b.WriteString(divider + "\n")
	b.WriteString("MARKET ANALYSIS SUMMARY\n")
	b.WriteString(divider + "\n\n")

	fmt.Fprintf(&b, "Period:  %s to %s\n", r.cfg.Start.Format(shared.DateLayout),
		r.cfg.End.Format(shared.DateLayout))
	fmt.Fprintf(&b, "Tickers: %s\n", strings.Join(tickers, ", "))

	for _, summary := range summaries {
		fmt.Fprintf(&b, "\n%s:\n", summary.Ticker)
		fmt.Fprintf(&b, "  Total Return:     %8.2f%%\n", summary.TotalReturn)
		fmt.Fprintf(&b, "  Volatility:       %8.2f%%\n", summary.Volatility)
		fmt.Fprintf(&b, "  Avg Daily Return: %8.2f%%\n", summary.AvgDailyReturn)
		fmt.Fprintf(&b, "  Best Day:         %8.2f%%\n", summary.BestDay)
		fmt.Fprintf(&b, "  Worst Day:        %8.2f%%\n", summary.WorstDay)
		fmt.Fprintf(&b, "  Start Price:      %s\n", price(summary.StartPrice))
		fmt.Fprintf(&b, "  Current Price:    %s\n", price(summary.CurrentPrice))
	}

	if len(skipped) > 0 {
		b.WriteString("\n")
		for _, skip := range skipped {
			fmt.Fprintf(&b, "%s: skipped (%s)\n", skip.Ticker, skip.Reason)
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Best Performer:  %s (%+.2f%%)\n", rankings.Best.Ticker, rankings.Best.TotalReturn)
	fmt.Fprintf(&b, "Worst Performer: %s (%+.2f%%)\n", rankings.Worst.Ticker, rankings.Worst.TotalReturn)
	fmt.Fprintf(&b, "Most Volatile:   %s (%.2f%% daily volatility)\n",
		rankings.MostVolatile.Ticker, rankings.MostVolatile.Volatility)

	_, err = io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}
