package memory

import (
	"context"
	"sort"
	"sync"

	"soros-rag-be/internal/entity"
	"soros-rag-be/pkg/embedding"
)

// CorpusIndexRepository is a process-local index. It does not survive restarts.
type CorpusIndexRepository struct {
	mu   sync.RWMutex
	docs map[int]entity.IndexedDocument
}

func NewCorpusIndexRepository() *CorpusIndexRepository {
	return &CorpusIndexRepository{
		docs: make(map[int]entity.IndexedDocument),
	}
}

func (r *CorpusIndexRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}

func (r *CorpusIndexRepository) InsertBulk(_ context.Context, docs []entity.IndexedDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range docs {
		if _, exists := r.docs[d.Id]; exists {
			continue
		}
		r.docs[d.Id] = d
	}
	return nil
}

func (r *CorpusIndexRepository) SearchSimilar(_ context.Context, query []float32, limit int) ([]entity.ScoredRow, error) {
	if limit <= 0 {
		return []entity.ScoredRow{}, nil
	}

	r.mu.RLock()
	scored := make([]entity.ScoredRow, 0, len(r.docs))
	for id, d := range r.docs {
		scored = append(scored, entity.ScoredRow{Id: id, Similarity: embedding.CosineSimilarity(query, d.Embedding)})
	}
	r.mu.RUnlock()

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Id < scored[j].Id
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *CorpusIndexRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = make(map[int]entity.IndexedDocument)
	return nil
}

func (r *CorpusIndexRepository) Close() error {
	return nil
}
