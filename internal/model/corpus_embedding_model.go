package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// CorpusEmbedding is one indexed Q&A row. Id is the corpus row id, not a generated key.
type CorpusEmbedding struct {
	Id             int             `gorm:"primaryKey;autoIncrement:false"`
	Label          string          `gorm:"type:text"`
	Document       string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector"`
	Metadata       datatypes.JSONMap
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (CorpusEmbedding) TableName() string {
	return "corpus_embeddings"
}
