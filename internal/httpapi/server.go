// Package httpapi is the transport boundary: it decodes requests, drives the
// ingestion and chat services, and maps failure kinds to status codes.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"docuchat/internal/service/chat"
	"docuchat/store"
)

// Ingestor is the slice of the ingestion pipeline the transport needs.
type Ingestor interface {
	Ingest(ctx context.Context, filename string, data []byte) (int, error)
}

// Chatter is the slice of the chat orchestrator the transport needs.
type Chatter interface {
	Stream(ctx context.Context, question string, history []chat.HistoryItem) (<-chan chat.Event, error)
}

type Server struct {
	router  *mux.Router
	ingest  Ingestor
	chat    Chatter
	store   store.Store
	apiKey  string
	maxBody int64
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func New(ingestor Ingestor, chatter Chatter, st store.Store, apiKey string, maxBody int64) *Server {
	if maxBody <= 0 {
		maxBody = 32 << 20
	}

	s := &Server{
		router:  mux.NewRouter(),
		ingest:  ingestor,
		chat:    chatter,
		store:   st,
		apiKey:  apiKey,
		maxBody: maxBody,
	}

	s.router.Use(corsMiddleware, logMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/ingest", s.handleIngest).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	api.HandleFunc("/documents/count", s.handleCount).Methods(http.MethodGet)
	api.HandleFunc("/documents/{filename}", s.handleDelete).Methods(http.MethodDelete)

	return s
}
