package metrics

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestRank(t *testing.T) {
	aapl := &Summary{Ticker: "AAPL", TotalReturn: 12, Volatility: 1.5}
	tsla := &Summary{Ticker: "TSLA", TotalReturn: -4, Volatility: 3.2}
	msft := &Summary{Ticker: "MSFT", TotalReturn: 7, Volatility: 1.1}

	// Ensure rankings are derived from the summary values.
	rankings, err := Rank([]*Summary{aapl, tsla, msft})
	assert.NoError(t, err)
	assert.Equal(t, rankings.Best.Ticker, "AAPL")
	assert.Equal(t, rankings.Worst.Ticker, "TSLA")
	assert.Equal(t, rankings.MostVolatile.Ticker, "TSLA")

	// Ensure the ranking is a pure function of the summary values,
	// unchanged by reordering the input.
	reordered, err := Rank([]*Summary{msft, aapl, tsla})
	assert.NoError(t, err)
	assert.Equal(t, reordered.Best.Ticker, rankings.Best.Ticker)
	assert.Equal(t, reordered.Worst.Ticker, rankings.Worst.Ticker)
	assert.Equal(t, reordered.MostVolatile.Ticker, rankings.MostVolatile.Ticker)

	// Ensure empty input is rejected.
	_, err = Rank(nil)
	assert.Error(t, err)
}

func TestRankTies(t *testing.T) {
	first := &Summary{Ticker: "AAPL", TotalReturn: 5, Volatility: 2}
	second := &Summary{Ticker: "TSLA", TotalReturn: 5, Volatility: 2}

	// Ensure ties resolve to the first summary provided.
	rankings, err := Rank([]*Summary{first, second})
	assert.NoError(t, err)
	assert.Equal(t, rankings.Best.Ticker, "AAPL")
	assert.Equal(t, rankings.Worst.Ticker, "AAPL")
	assert.Equal(t, rankings.MostVolatile.Ticker, "AAPL")
}
