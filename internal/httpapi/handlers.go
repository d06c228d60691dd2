package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"docuchat/internal/apperr"
	"docuchat/internal/service/chat"
	"docuchat/internal/service/ingest"
)

type chatRequest struct {
	Question string             `json:"question"`
	History  []chat.HistoryItem `json:"history"`
}

type ingestResponse struct {
	Message      string `json:"message"`
	ChunksStored int    `json:"chunks_stored"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "awake"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "a file upload is required")
		return
	}
	defer file.Close()

	// Bad extensions are rejected before the payload is read.
	if err := ingest.ValidateFilename(header.Filename); err != nil {
		writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	stored, err := s.ingest.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{Message: "Success", ChunksStored: stored})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(req.Question)) == 0 {
		writeDetail(w, http.StatusBadRequest, "question is required")
		return
	}

	events, err := s.chat.Stream(r.Context(), req.Question, req.History)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeEventStream(w, events)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	deleted, err := s.store.DeleteByFilename(r.Context(), filename)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidFileType, apperr.KindDocumentProcessing, apperr.KindEmptyDocument:
		return http.StatusBadRequest
	case apperr.KindEmbedding, apperr.KindVectorSearch, apperr.KindChatGeneration:
		return http.StatusBadGateway
	case apperr.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a classified failure to its status class. Unclassified
// failures are logged in full and surfaced as a generic internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		slog.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
	} else {
		slog.WarnContext(r.Context(), "request failed", "path", r.URL.Path, "kind", kind.String(), "error", err)
	}

	writeDetail(w, statusOf(kind), apperr.Detail(err))
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
