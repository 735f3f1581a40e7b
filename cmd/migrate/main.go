package main

import (
	"context"
	"log"

	"soros-rag-be/internal/config"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/internal/repository/implementation"
	"soros-rag-be/pkg/database"
)

// Prepares the Postgres vector index ahead of the first server start.
func main() {
	cfg := config.Load()

	if cfg.Index.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	db, err := database.NewGormDBFromDSN(cfg.Index.Connection, sysLogger)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Migrating corpus_embeddings (pgvector)...")
	if err := implementation.MigrateCorpusIndex(context.Background(), db); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}

	var count int64
	if err := db.Table("corpus_embeddings").Count(&count).Error; err != nil {
		log.Fatalf("Error: failed to count rows: %v", err)
	}
	log.Printf("✅ Migration complete. corpus_embeddings holds %d rows", count)
}
