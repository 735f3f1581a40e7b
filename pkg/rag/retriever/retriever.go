package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"soros-rag-be/internal/entity"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/internal/repository/contract"
	"soros-rag-be/pkg/embedding"
)

// ErrRetrieverInit wraps every failure to populate the index at construction time.
var ErrRetrieverInit = errors.New("retriever initialization failed")

const defaultBuildConcurrency = 4

// Retriever answers top-k similarity queries over a static corpus.
// The index is built at most once per populated store; queries run concurrently under a read lock.
type Retriever struct {
	entries     []entity.CorpusEntry
	byId        map[int]int
	embedder    embedding.EmbeddingProvider
	index       contract.CorpusIndexRepository
	logger      logger.ILogger
	concurrency int

	mu    sync.RWMutex
	built atomic.Bool
}

type Option func(*Retriever)

func WithBuildConcurrency(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New wires a retriever and makes sure the index is populated.
func New(
	ctx context.Context,
	entries []entity.CorpusEntry,
	embedder embedding.EmbeddingProvider,
	index contract.CorpusIndexRepository,
	log logger.ILogger,
	opts ...Option,
) (*Retriever, error) {
	r := &Retriever{
		entries:     entries,
		byId:        make(map[int]int, len(entries)),
		embedder:    embedder,
		index:       index,
		logger:      log,
		concurrency: defaultBuildConcurrency,
	}
	for i, e := range entries {
		r.byId[e.Id] = i
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieverInit, err)
	}
	return r, nil
}

// EnsureIndex builds the index if the store is empty. A populated store is trusted as-is.
func (r *Retriever) EnsureIndex(ctx context.Context) error {
	if r.built.Load() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built.Load() {
		return nil
	}

	count, err := r.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("count index: %w", err)
	}
	if count > 0 {
		r.logger.Info("RETRIEVER", "Index already populated, skipping build", map[string]interface{}{
			"indexed": count,
			"corpus":  len(r.entries),
		})
		r.built.Store(true)
		return nil
	}

	if err := r.build(ctx); err != nil {
		return err
	}
	r.built.Store(true)
	return nil
}

// Rebuild clears the store and indexes the corpus again. Queries block until it finishes.
func (r *Retriever) Rebuild(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.index.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	r.built.Store(false)

	if err := r.build(ctx); err != nil {
		return 0, err
	}
	r.built.Store(true)
	return len(r.entries), nil
}

// build must be called with mu held.
func (r *Retriever) build(ctx context.Context) error {
	start := time.Now()
	docs := make([]entity.IndexedDocument, len(r.entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, e := range r.entries {
		g.Go(func() error {
			res, err := r.embedder.Generate(gctx, e.Document(), embedding.TaskRetrievalDocument)
			if err != nil {
				return fmt.Errorf("embed row %d: %w", e.Id, err)
			}
			docs[i] = entity.IndexedDocument{
				Id:        e.Id,
				Label:     e.Label,
				Document:  e.Document(),
				Embedding: res.Embedding.Values,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := r.index.InsertBulk(ctx, docs); err != nil {
		return fmt.Errorf("insert index rows: %w", err)
	}

	r.logger.Info("RETRIEVER", "Corpus index built", map[string]interface{}{
		"rows":        len(docs),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// Retrieve returns at most min(k, corpus size) results, best first.
// It never fails: a blank query, an embedding error, a search error or an empty store
// all fall back to the first k corpus rows in load order with a zero score.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []entity.RetrievalResult {
	if k <= 0 || len(r.entries) == 0 {
		return []entity.RetrievalResult{}
	}
	if strings.TrimSpace(query) == "" {
		return r.fallback(k)
	}

	res, err := r.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		r.logger.Warn("RETRIEVER", "Query embedding failed, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return r.fallback(k)
	}

	r.mu.RLock()
	rows, err := r.index.SearchSimilar(ctx, res.Embedding.Values, k)
	r.mu.RUnlock()
	if err != nil {
		r.logger.Warn("RETRIEVER", "Index search failed, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return r.fallback(k)
	}
	if len(rows) == 0 {
		return r.fallback(k)
	}

	results := make([]entity.RetrievalResult, 0, len(rows))
	for _, row := range rows {
		pos, ok := r.byId[row.Id]
		if !ok {
			r.logger.Warn("RETRIEVER", "Index returned unknown row id", map[string]interface{}{"id": row.Id})
			continue
		}
		results = append(results, entity.RetrievalResult{
			Entry: r.entries[pos],
			Score: row.Similarity,
		})
	}
	return results
}

func (r *Retriever) fallback(k int) []entity.RetrievalResult {
	n := min(k, len(r.entries))
	results := make([]entity.RetrievalResult, n)
	for i := 0; i < n; i++ {
		results[i] = entity.RetrievalResult{Entry: r.entries[i]}
	}
	return results
}

// Size is the number of corpus rows the retriever serves.
func (r *Retriever) Size() int {
	return len(r.entries)
}
