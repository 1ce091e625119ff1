package metrics

import "fmt"

// Rankings represents the cross-ticker performance ranking.
type Rankings struct {
	// Best is the summary with the highest total return.
	Best *Summary
	// Worst is the summary with the lowest total return.
	Worst *Summary
	// MostVolatile is the summary with the highest volatility.
	MostVolatile *Summary
}

// Rank derives the performance rankings from the provided summaries. Ties
// resolve to the earliest summary provided, so callers should pass
// summaries in first-seen ticker order.
func Rank(summaries []*Summary) (*Rankings, error) {
	if len(summaries) == 0 {
		return nil, fmt.Errorf("no summaries provided for ranking")
	}

	rankings := &Rankings{
		Best:         summaries[0],
		Worst:        summaries[0],
		MostVolatile: summaries[0],
	}

	for _, summary := range summaries[1:] {
		if summary.TotalReturn > rankings.Best.TotalReturn {
			rankings.Best = summary
		}
		if summary.TotalReturn < rankings.Worst.TotalReturn {
			rankings.Worst = summary
		}
		if summary.Volatility > rankings.MostVolatile.Volatility {
			rankings.MostVolatile = summary
		}
	}

	return rankings, nil
}
