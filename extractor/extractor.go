package extractor

// Page is one page of extractable text. Index is the zero-based page index in
// the source document; pages that yield no text are skipped, so indexes may
// have gaps.
type Page struct {
	Text  string
	Index int
}

type Extractor interface {
	Extract(data []byte, filename string) ([]Page, error)
}
