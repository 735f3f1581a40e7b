package implementation

import (
	"context"
	"fmt"

	"soros-rag-be/internal/entity"
	"soros-rag-be/internal/mapper"
	"soros-rag-be/internal/model"
	"soros-rag-be/internal/repository/contract"
	"soros-rag-be/pkg/database"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CorpusIndexRepositoryImpl stores the index in Postgres with the pgvector extension.
type CorpusIndexRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CorpusEmbeddingMapper
}

// MigrateCorpusIndex enables pgvector and creates or updates the corpus_embeddings table. It is idempotent.
func MigrateCorpusIndex(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&model.CorpusEmbedding{}); err != nil {
		return fmt.Errorf("migrate corpus_embeddings: %w", err)
	}
	return nil
}

func NewCorpusIndexRepository(ctx context.Context, db *gorm.DB) (contract.CorpusIndexRepository, error) {
	if err := MigrateCorpusIndex(ctx, db); err != nil {
		return nil, err
	}

	return &CorpusIndexRepositoryImpl{
		db:     db,
		mapper: mapper.NewCorpusEmbeddingMapper(),
	}, nil
}

func (r *CorpusIndexRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CorpusEmbedding{}).Count(&count).Error
	return count, err
}

func (r *CorpusIndexRepositoryImpl) InsertBulk(ctx context.Context, docs []entity.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}
	models := r.mapper.ToModels(docs)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(models, 100).Error
}

func (r *CorpusIndexRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]entity.ScoredRow, error) {
	if limit <= 0 {
		return []entity.ScoredRow{}, nil
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	type result struct {
		Id         int
		Similarity float64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&model.CorpusEmbedding{}).
		Select("id, 1 - (embedding_value <=> ?) AS similarity", pgvector.NewVector(embedding)).
		Order("similarity DESC").
		Order("id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rows := make([]entity.ScoredRow, len(results))
	for i, res := range results {
		rows[i] = entity.ScoredRow{Id: res.Id, Similarity: res.Similarity}
	}
	return rows, nil
}

func (r *CorpusIndexRepositoryImpl) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.CorpusEmbedding{}).Error
}

func (r *CorpusIndexRepositoryImpl) Close() error {
	return database.Close(r.db)
}
