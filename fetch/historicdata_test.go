package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/dnldd/marketpulse/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

func TestHistoricData(t *testing.T) {
	// Ensure a missing directory fails initialization.
	_, err := NewHistoricData(&HistoricDataConfig{
		Dir:    "testdata/missing",
		Logger: &log.Logger,
	})
	assert.Error(t, err)

	hd, err := NewHistoricData(&HistoricDataConfig{
		Dir:    "testdata",
		Logger: &log.Logger,
	})
	assert.NoError(t, err)

	start, err := time.Parse(shared.DateLayout, "2025-01-06")
	assert.NoError(t, err)
	end, err := time.Parse(shared.DateLayout, "2025-01-09")
	assert.NoError(t, err)

	// Ensure rows are restricted to the requested date range.
	rows, err := hd.FetchDailyHistorical(context.Background(), "AAPL", start, end)
	assert.NoError(t, err)
	assert.Equal(t, len(rows), 4)

	// Ensure a zero end date leaves the range open ended.
	rows, err = hd.FetchDailyHistorical(context.Background(), "AAPL", start, time.Time{})
	assert.NoError(t, err)
	assert.Equal(t, len(rows), 5)

	// Ensure a ticker without a backing file fails.
	_, err = hd.FetchDailyHistorical(context.Background(), "MSFT", start, end)
	assert.Error(t, err)
}
