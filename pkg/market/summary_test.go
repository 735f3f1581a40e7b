package market

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrs(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

func TestSummarize_ShortSeries(t *testing.T) {
	got := Summarize("aapl", "6mo", ptrs(10, 11, 12), nil)

	want := strings.Join([]string{
		"Ticker: AAPL",
		"Latest close: 12.00",
		"20-day moving average: N/A",
		"50-day moving average: N/A",
		"6mo price range: 10.00 - 12.00",
		"Annualized volatility: 10.20%",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestSummarize_MovingAverages(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = float64(100 + i)
	}

	got := Summarize("MSFT", "6mo", ptrs(values...), nil)

	assert.Contains(t, got, "Latest close: 159.00")
	assert.Contains(t, got, "20-day moving average: 149.50")
	assert.Contains(t, got, "50-day moving average: 134.50")
	assert.Contains(t, got, "6mo price range: 100.00 - 159.00")
	assert.Contains(t, got, "Annualized volatility: 1.70%")
}

func TestSummarize_SkipsMissingCloses(t *testing.T) {
	closes := ptrs(10, 12)
	closes = append([]*float64{nil}, closes...)

	got := Summarize("SPY", "1mo", closes, nil)

	assert.Contains(t, got, "Latest close: 12.00")
	assert.Contains(t, got, "Annualized volatility: N/A")
}

func TestSummarize_Failures(t *testing.T) {
	assert.Equal(t, "No market data available for TSLA.", Summarize("TSLA", "6mo", nil, nil))
	assert.Equal(t, "No market data available for TSLA.", Summarize("TSLA", "6mo", nil, ErrNoData))
	assert.Equal(t, "No valid close prices for TSLA.", Summarize("TSLA", "6mo", []*float64{nil, nil}, nil))
	assert.Equal(t, "Error fetching data for TSLA: boom", Summarize("TSLA", "6mo", nil, errors.New("boom")))
}
