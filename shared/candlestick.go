package shared

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DateLayout is the format layout for parsing daily candle dates.
	DateLayout = "2006-01-02"
)

// Candlestick represents a unit daily candlestick for a ticker.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata.
	Ticker string
}

// ParseCandlesticks parses candlesticks from the provided json rows.
//
// Rows with all-zero price fields are skipped, providers emit these for
// holidays and halted sessions.
func ParseCandlesticks(data []gjson.Result, ticker string) ([]Candlestick, error) {
	candles := make([]Candlestick, 0, len(data))

	for idx := range data {
		var candle Candlestick

		candle.Open = data[idx].Get("open").Float()
		candle.Low = data[idx].Get("low").Float()
		candle.High = data[idx].Get("high").Float()
		candle.Close = data[idx].Get("close").Float()
		candle.Volume = data[idx].Get("volume").Float()

		if candle.Open == 0 && candle.High == 0 && candle.Low == 0 && candle.Close == 0 {
			continue
		}

		candle.Ticker = ticker

		dt, err := time.Parse(DateLayout, data[idx].Get("date").String())
		if err != nil {
			return nil, fmt.Errorf("parsing candlestick date: %w", err)
		}

		candle.Date = dt
		candles = append(candles, candle)
	}

	return candles, nil
}
