package implementation

import (
	"context"
	"os"
	"testing"

	"soros-rag-be/internal/entity"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocs() []entity.IndexedDocument {
	return []entity.IndexedDocument{
		{Id: 0, Label: "risk", Document: "Q: a\nA: b", Embedding: []float32{0, 1, 0}},
		{Id: 1, Label: "macro", Document: "Q: c\nA: d", Embedding: []float32{1, 0, 0}},
		{Id: 2, Label: "macro", Document: "Q: e\nA: f", Embedding: []float32{1, 0, 0}},
	}
}

func TestSQLiteRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewCorpusIndexSQLiteRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.InsertBulk(ctx, sampleDocs()))
	require.NoError(t, repo.Close())

	reopened, err := NewCorpusIndexSQLiteRepository(dir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, reopened.InsertBulk(ctx, sampleDocs()))
	count, err = reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSQLiteRepository_SearchSimilar(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCorpusIndexSQLiteRepository(t.TempDir())
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.InsertBulk(ctx, sampleDocs()))

	rows, err := repo.SearchSimilar(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{1, 2, 0}, []int{rows[0].Id, rows[1].Id, rows[2].Id})
	assert.InDelta(t, 1.0, rows[0].Similarity, 1e-6)
	assert.InDelta(t, 0.0, rows[2].Similarity, 1e-6)

	again, err := repo.SearchSimilar(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestSQLiteRepository_Clear(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCorpusIndexSQLiteRepository(t.TempDir())
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.InsertBulk(ctx, sampleDocs()))
	require.NoError(t, repo.Clear(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set, skipping pgvector test")
	}
	ctx := context.Background()

	db, err := database.NewGormDBFromDSN(dsn, logger.NewNopLogger())
	require.NoError(t, err)

	repo, err := NewCorpusIndexRepository(ctx, db)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Clear(ctx))

	require.NoError(t, repo.InsertBulk(ctx, sampleDocs()))
	require.NoError(t, repo.InsertBulk(ctx, sampleDocs()))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	rows, err := repo.SearchSimilar(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Id)
	assert.Equal(t, 2, rows[1].Id)

	require.NoError(t, repo.Clear(ctx))
}
