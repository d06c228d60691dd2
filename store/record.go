package store

// Record is one page of extracted text plus its embedding and provenance.
// ChunkID is the zero-based page index within the source document and is
// unique only per filename. ID is assigned by the store and empty until
// persisted.
type Record struct {
	ID        string
	Text      string
	Embedding []float32
	Filename  string
	ChunkID   int
}
