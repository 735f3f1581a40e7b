package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// ErrNoData means the provider answered but had no rows for the symbol.
var ErrNoData = errors.New("no market data")

// --- Yahoo Finance v8 chart response ---

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ClosesFetcher returns daily closing prices for a symbol, oldest first.
// Missing closes are reported as nil so the caller can tell "no rows" from "no valid rows".
type ClosesFetcher interface {
	DailyCloses(ctx context.Context, symbol, period string) ([]*float64, error)
}

type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

type YahooOption func(*YahooClient)

func WithBaseURL(u string) YahooOption {
	return func(c *YahooClient) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) YahooOption {
	return func(c *YahooClient) { c.httpClient = h }
}

func NewYahooClient(opts ...YahooOption) *YahooClient {
	c := &YahooClient{
		baseURL:    defaultChartBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		userAgent:  "Mozilla/5.0 (compatible; soros-rag-be/1.0)",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *YahooClient) DailyCloses(ctx context.Context, symbol, period string) ([]*float64, error) {
	endpoint := fmt.Sprintf("%s/%s?range=%s&interval=1d",
		c.baseURL, url.PathEscape(toYahooSymbol(symbol)), url.QueryEscape(period))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("yahoo chart returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	if parsed.Chart.Error != nil {
		if parsed.Chart.Error.Code == "Not Found" {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("yahoo chart error: %s", parsed.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart returned status %d", resp.StatusCode)
	}

	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}
	closes := parsed.Chart.Result[0].Indicators.Quote[0].Close
	if len(closes) == 0 {
		return nil, ErrNoData
	}
	return closes, nil
}

// Yahoo spells share classes with a dash (BRK-B).
func toYahooSymbol(symbol string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(symbol)), ".", "-")
}
