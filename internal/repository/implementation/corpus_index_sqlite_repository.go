package implementation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"soros-rag-be/internal/entity"
	"soros-rag-be/internal/repository/contract"
	"soros-rag-be/pkg/embedding"

	_ "github.com/mattn/go-sqlite3"
)

// CorpusIndexSQLiteRepository keeps the index in a single SQLite file and scores by brute force.
// The corpus is a few hundred rows, so a full scan per query is fine.
type CorpusIndexSQLiteRepository struct {
	mu sync.RWMutex
	db *sql.DB
}

func NewCorpusIndexSQLiteRepository(dataPath string) (contract.CorpusIndexRepository, error) {
	if dataPath == "" {
		dataPath = "./data/index"
	}
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataPath, "corpus_index.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS corpus_embeddings (
		id INTEGER PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		document TEXT NOT NULL,
		embedding BLOB NOT NULL,
		metadata TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &CorpusIndexSQLiteRepository{db: db}, nil
}

func (r *CorpusIndexSQLiteRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM corpus_embeddings").Scan(&count)
	return count, err
}

func (r *CorpusIndexSQLiteRepository) InsertBulk(ctx context.Context, docs []entity.IndexedDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO corpus_embeddings (id, label, document, embedding, metadata)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		embeddingJSON, err := json.Marshal(d.Embedding)
		if err != nil {
			return fmt.Errorf("encoding embedding: %w", err)
		}
		metadataJSON, err := json.Marshal(map[string]interface{}{"row_index": d.Id, "label": d.Label})
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, d.Id, d.Label, d.Document, embeddingJSON, string(metadataJSON)); err != nil {
			return fmt.Errorf("inserting row %d: %w", d.Id, err)
		}
	}

	return tx.Commit()
}

func (r *CorpusIndexSQLiteRepository) SearchSimilar(ctx context.Context, query []float32, limit int) ([]entity.ScoredRow, error) {
	if limit <= 0 {
		return []entity.ScoredRow{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, "SELECT id, embedding FROM corpus_embeddings")
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var scored []entity.ScoredRow
	for rows.Next() {
		var (
			id            int
			embeddingJSON []byte
			vec           []float32
		)
		if err := rows.Scan(&id, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal(embeddingJSON, &vec); err != nil {
			continue // corrupted row
		}
		scored = append(scored, entity.ScoredRow{Id: id, Similarity: embedding.CosineSimilarity(query, vec)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return topRows(scored, limit), nil
}

func (r *CorpusIndexSQLiteRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, "DELETE FROM corpus_embeddings")
	return err
}

func (r *CorpusIndexSQLiteRepository) Close() error {
	return r.db.Close()
}

// topRows sorts by similarity descending with ascending id as tie-break and truncates to limit.
func topRows(rows []entity.ScoredRow, limit int) []entity.ScoredRow {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Similarity != rows[j].Similarity {
			return rows[i].Similarity > rows[j].Similarity
		}
		return rows[i].Id < rows[j].Id
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = []entity.ScoredRow{}
	}
	return rows
}
