package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
)

// migrate creates the documents table and its vector index. The embedding
// column is dimensioned so the HNSW index can be built; all records must use
// the same embedding model for search to be meaningful.
func (p *postgresStore) migrate(ctx context.Context) error {
	statements := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				text TEXT NOT NULL,
				embedding vector(%d) NOT NULL,
				filename TEXT NOT NULL,
				chunk_id INT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, pq.QuoteIdentifier(p.options.Table), p.options.Dimensions),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s USING hnsw (embedding vector_cosine_ops)",
			pq.QuoteIdentifier(p.options.IndexName),
			pq.QuoteIdentifier(p.options.Table),
		),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s (filename)",
			pq.QuoteIdentifier(p.options.IndexName+"_filename"),
			pq.QuoteIdentifier(p.options.Table),
		),
	}

	for _, stmt := range statements {
		if _, err := p.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
