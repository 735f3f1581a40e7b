package market

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const tradingDaysPerYear = 252

// Summarize renders the textual snapshot for already-fetched closes.
// It never fails: fetch errors and empty series become descriptive sentences.
func Summarize(ticker, period string, closes []*float64, fetchErr error) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	if fetchErr != nil {
		if errors.Is(fetchErr, ErrNoData) {
			return fmt.Sprintf("No market data available for %s.", ticker)
		}
		return fmt.Sprintf("Error fetching data for %s: %v", ticker, fetchErr)
	}
	if len(closes) == 0 {
		return fmt.Sprintf("No market data available for %s.", ticker)
	}

	series := make([]float64, 0, len(closes))
	for _, c := range closes {
		if c != nil && !math.IsNaN(*c) {
			series = append(series, *c)
		}
	}
	if len(series) == 0 {
		return fmt.Sprintf("No valid close prices for %s.", ticker)
	}

	low, high := series[0], series[0]
	for _, v := range series[1:] {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}

	lines := []string{
		fmt.Sprintf("Ticker: %s", ticker),
		fmt.Sprintf("Latest close: %.2f", series[len(series)-1]),
		fmt.Sprintf("20-day moving average: %s", formatOptional(trailingMean(series, 20))),
		fmt.Sprintf("50-day moving average: %s", formatOptional(trailingMean(series, 50))),
		fmt.Sprintf("%s price range: %.2f - %.2f", period, low, high),
		fmt.Sprintf("Annualized volatility: %s", formatVolatility(annualizedVolatility(series))),
	}
	return strings.Join(lines, "\n")
}

// trailingMean is NaN when the window is longer than the series.
func trailingMean(series []float64, window int) float64 {
	if window <= 0 || len(series) < window {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range series[len(series)-window:] {
		sum += v
	}
	return sum / float64(window)
}

// annualizedVolatility is the sample standard deviation of simple daily returns scaled by sqrt(252).
func annualizedVolatility(series []float64) float64 {
	returns := make([]float64, 0, len(series))
	for i := 1; i < len(series); i++ {
		if series[i-1] == 0 {
			continue
		}
		returns = append(returns, series[i]/series[i-1]-1)
	}
	if len(returns) < 2 {
		return math.NaN()
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

func formatOptional(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatVolatility(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}
