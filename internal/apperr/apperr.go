// Package apperr defines the closed set of failure kinds the pipeline can
// produce. Every failure is classified exactly once at the point of detection
// and propagated unchanged; the transport layer maps kinds to status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidFileType
	KindDocumentProcessing
	KindEmptyDocument
	KindEmbedding
	KindVectorSearch
	KindChatGeneration
	KindStoreUnavailable
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFileType:
		return "invalid_file_type"
	case KindDocumentProcessing:
		return "document_processing"
	case KindEmptyDocument:
		return "empty_document"
	case KindEmbedding:
		return "embedding"
	case KindVectorSearch:
		return "vector_search"
	case KindChatGeneration:
		return "chat_generation"
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error tags a failure with a kind and a human-readable detail. The wrapped
// cause is preserved for logging but never shown to clients.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, detail string) error {
	return &Error{Kind: kind, Detail: detail}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, detail string, cause error) error {
	return &Error{Kind: kind, Detail: detail, cause: cause}
}

// KindOf returns the kind carried by err, or KindInternal when err was never
// classified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Detail returns the client-safe detail string for err. Unclassified errors
// get a generic message so internal diagnostics do not leak.
func Detail(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Detail
	}
	return "an unexpected error occurred"
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
