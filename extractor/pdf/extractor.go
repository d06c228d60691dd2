package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"docuchat/extractor"
	"docuchat/internal/apperr"
)

type pdfExtractor struct {
	options extractor.Options
}

func (e *pdfExtractor) Extract(data []byte, filename string) (pages []extractor.Page, err error) {
	// The underlying parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = apperr.Wrap(apperr.KindDocumentProcessing, "failed to process PDF file", fmt.Errorf("parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDocumentProcessing, "failed to process PDF file", err)
	}

	total := reader.NumPage()
	numPages := total
	if numPages > e.options.MaxPages {
		numPages = e.options.MaxPages
	}

	slog.Info("processing PDF", "filename", filename, "total_pages", total, "processing_pages", numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindDocumentProcessing, "failed to process PDF file", err)
		}

		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}

		pages = append(pages, extractor.Page{Text: text, Index: i - 1})
	}

	if len(pages) == 0 {
		slog.Warn("no extractable text in PDF", "filename", filename)
		return nil, apperr.Newf(apperr.KindEmptyDocument, "PDF '%s' contains no extractable text", filename)
	}

	return pages, nil
}

func NewExtractor(opts ...extractor.Option) extractor.Extractor {
	options := extractor.NewOptions(opts...)

	return &pdfExtractor{
		options: options,
	}
}
