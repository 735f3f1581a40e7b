package mapper

import (
	"soros-rag-be/internal/entity"
	"soros-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type CorpusEmbeddingMapper struct{}

func NewCorpusEmbeddingMapper() *CorpusEmbeddingMapper {
	return &CorpusEmbeddingMapper{}
}

func (m *CorpusEmbeddingMapper) ToModel(d entity.IndexedDocument) *model.CorpusEmbedding {
	return &model.CorpusEmbedding{
		Id:             d.Id,
		Label:          d.Label,
		Document:       d.Document,
		EmbeddingValue: pgvector.NewVector(d.Embedding),
		Metadata: datatypes.JSONMap{
			"row_index": d.Id,
			"label":     d.Label,
		},
	}
}

func (m *CorpusEmbeddingMapper) ToModels(docs []entity.IndexedDocument) []*model.CorpusEmbedding {
	models := make([]*model.CorpusEmbedding, len(docs))
	for i, d := range docs {
		models[i] = m.ToModel(d)
	}
	return models
}
