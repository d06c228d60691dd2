package embedder

import "context"

// Embedder turns text into a fixed-length vector. Documents and queries are
// embedded with distinct task hints: asymmetric models produce different
// vectors for indexing and searching, and mixing the two silently degrades
// retrieval quality.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
