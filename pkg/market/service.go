package market

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"soros-rag-be/internal/pkg/logger"
)

// SnapshotProvider is what the prompt composer consumes. Implementations never fail;
// problems are described in the returned text.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, ticker, period string) string
}

const defaultFetchTimeout = 20 * time.Second

type Service struct {
	fetcher      ClosesFetcher
	cache        SnapshotCache
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	logger       logger.ILogger
}

type ServiceOption func(*Service)

func WithCache(c SnapshotCache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.cache = c
			s.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds a shared fetch. It runs detached from any single caller.
func WithFetchTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func NewService(fetcher ClosesFetcher, log logger.ILogger, opts ...ServiceOption) *Service {
	s := &Service{
		fetcher:      fetcher,
		cache:        noopCache{},
		fetchTimeout: defaultFetchTimeout,
		logger:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a summary for ticker over period. Concurrent calls for the same key share one fetch,
// and only summaries built from real data are cached. A caller whose ctx ends early gets an error
// sentence without cutting the shared fetch short for the others.
func (s *Service) Snapshot(ctx context.Context, ticker, period string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	key := ticker + "|" + period

	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		closes, err := s.fetcher.DailyCloses(fetchCtx, ticker, period)
		summary := Summarize(ticker, period, closes, err)
		if err != nil {
			s.logger.Warn("MARKET", "Snapshot fetch failed", map[string]interface{}{
				"ticker": ticker,
				"period": period,
				"error":  err.Error(),
			})
			return summary, nil
		}
		if strings.HasPrefix(summary, "Ticker: ") {
			s.cache.Set(fetchCtx, key, summary, s.ttl)
		}
		return summary, nil
	})

	select {
	case res := <-ch:
		return res.Val.(string)
	case <-ctx.Done():
		return Summarize(ticker, period, nil, ctx.Err())
	}
}
