package contract

import (
	"context"

	"soros-rag-be/internal/entity"
)

// CorpusIndexRepository is the persisted nearest-neighbour index over corpus rows.
// SearchSimilar orders by similarity descending, then id ascending.
// InsertBulk skips ids that are already present.
type CorpusIndexRepository interface {
	Count(ctx context.Context) (int64, error)
	InsertBulk(ctx context.Context, docs []entity.IndexedDocument) error
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]entity.ScoredRow, error)
	Clear(ctx context.Context) error
	Close() error
}
