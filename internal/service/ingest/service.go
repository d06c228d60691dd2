// Package ingest turns one uploaded document into stored, searchable records.
package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"docuchat/embedder"
	"docuchat/extractor"
	"docuchat/internal/apperr"
	"docuchat/store"
)

const defaultWorkers = 4

type Service struct {
	extractor extractor.Extractor
	embedder  embedder.Embedder
	store     store.Store
	workers   int
}

// ValidateFilename rejects anything without a recognized document extension.
// Callers run this before reading the file payload.
func ValidateFilename(filename string) error {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		slog.Warn("invalid file type uploaded", "filename", filename)
		return apperr.Newf(apperr.KindInvalidFileType, "file '%s' is not a PDF", filename)
	}
	return nil
}

// Ingest runs the full pipeline for one upload: validate, extract, embed each
// retained page, persist everything in one batch. Nothing is stored until the
// final step, so any failure aborts cleanly. Returns the count the store
// reports as persisted.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte) (int, error) {
	if err := ValidateFilename(filename); err != nil {
		return 0, err
	}

	pages, err := s.extractor.Extract(data, filename)
	if err != nil {
		return 0, err
	}

	// Per-page embedding calls are independent; a bounded pool cuts
	// wall-clock latency. Records land at their page's slot so the batch
	// keeps original page order.
	records := make([]store.Record, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, page := range pages {
		g.Go(func() error {
			vec, err := s.embedder.EmbedDocument(gctx, page.Text)
			if err != nil {
				return err
			}

			records[i] = store.Record{
				Text:      page.Text,
				Embedding: vec,
				Filename:  filename,
				ChunkID:   page.Index,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	stored, err := s.store.InsertMany(ctx, records)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "ingestion complete",
		"filename", filename,
		"pages_extracted", len(pages),
		"documents_stored", stored,
	)

	return stored, nil
}

func New(ex extractor.Extractor, em embedder.Embedder, st store.Store, workers int) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Service{
		extractor: ex,
		embedder:  em,
		store:     st,
		workers:   workers,
	}
}
