package memory

import (
	"context"
	"testing"

	"soros-rag-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusIndexRepository_SearchOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewCorpusIndexRepository()

	require.NoError(t, repo.InsertBulk(ctx, []entity.IndexedDocument{
		{Id: 2, Embedding: []float32{1, 0}},
		{Id: 0, Embedding: []float32{0, 1}},
		{Id: 1, Embedding: []float32{1, 0}},
	}))

	rows, err := repo.SearchSimilar(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Id)
	assert.Equal(t, 2, rows[1].Id)
	assert.InDelta(t, 1.0, rows[0].Similarity, 1e-9)
}

func TestCorpusIndexRepository_InsertIgnoresExistingIds(t *testing.T) {
	ctx := context.Background()
	repo := NewCorpusIndexRepository()

	docs := []entity.IndexedDocument{{Id: 0, Document: "a"}, {Id: 1, Document: "b"}}
	require.NoError(t, repo.InsertBulk(ctx, docs))
	require.NoError(t, repo.InsertBulk(ctx, docs))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.Clear(ctx))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCorpusIndexRepository_ZeroLimit(t *testing.T) {
	repo := NewCorpusIndexRepository()
	require.NoError(t, repo.InsertBulk(context.Background(), []entity.IndexedDocument{{Id: 0, Embedding: []float32{1}}}))

	rows, err := repo.SearchSimilar(context.Background(), []float32{1}, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
