package shared

import (
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/tidwall/gjson"
)

func TestParseCandlesticks(t *testing.T) {
	ticker := "AAPL"
	data := `[{"open":10,"close":12,"high":15,"low":8,"volume":5,"date":"2025-02-04"},
	{"open":0,"close":0,"high":0,"low":0,"volume":0,"date":"2025-02-05"},
	{"open":12,"close":11,"high":13,"low":10,"volume":7,"date":"2025-02-06"}]`
	gjd := gjson.Parse(data).Array()

	// Ensure candlesticks data can be parsed, skipping all-zero rows.
	candles, err := ParseCandlesticks(gjd, ticker)
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 2)
	assert.Equal(t, candles[0].Open, float64(10))
	assert.Equal(t, candles[0].Close, float64(12))
	assert.Equal(t, candles[0].High, float64(15))
	assert.Equal(t, candles[0].Low, float64(8))
	assert.Equal(t, candles[0].Volume, float64(5))
	assert.Equal(t, candles[0].Ticker, ticker)
	assert.Equal(t, candles[0].Date.Year(), 2025)
	assert.Equal(t, candles[0].Date.Month(), 2)
	assert.Equal(t, candles[0].Date.Day(), 4)
	assert.Equal(t, candles[1].Date.Day(), 6)

	// Ensure a malformed date fails the parse.
	bad := gjson.Parse(`[{"open":1,"close":2,"high":3,"low":1,"volume":4,"date":"02/04/2025"}]`).Array()
	_, err = ParseCandlesticks(bad, ticker)
	assert.Error(t, err)
}
