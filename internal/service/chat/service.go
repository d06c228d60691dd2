// Package chat turns a question plus conversation history into a streamed,
// context-grounded answer with provenance.
package chat

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"docuchat/embedder"
	"docuchat/generator"
	"docuchat/internal/apperr"
	"docuchat/store"
)

const systemPrompt = `You are Breaking B.A.D. (Bot Answering Dialogue).

Your primary source of truth is the provided 'Context'.
- If the answer is in the context, use it to provide accurate, helpful responses.
- If the context doesn't contain the answer, you may answer using your general knowledge,
  but maintain your persona and clarify if needed that the info isn't from the documents.
- Always be helpful and keep your persona consistent.
- Be concise but thorough in your responses.`

const noContextPlaceholder = "No relevant context found in the documents."

type Service struct {
	embedder    embedder.Embedder
	store       store.Store
	generator   generator.Generator
	searchLimit int
}

// Stream answers a question against the ingested documents. Retrieval runs
// before any event is produced, so embedding and search failures surface as
// a plain error with no partial stream. On success the returned channel
// yields the sources event first, then reasoning and answer fragments as the
// model produces them; a generation failure mid-stream ends the channel with
// a terminal error event.
func (s *Service) Stream(ctx context.Context, question string, history []HistoryItem) (<-chan Event, error) {
	vec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Search(ctx, vec, s.searchLimit)
	if err != nil {
		return nil, err
	}

	contextText, sources := buildContext(records)
	turns := buildTurns(question, history)
	system := systemPrompt + "\n\nContext:\n" + contextText

	slog.DebugContext(ctx, "retrieved context", "result_count", len(records), "sources", sources)

	events := make(chan Event)
	go s.produce(ctx, events, sources, system, turns)

	return events, nil
}

func (s *Service) produce(ctx context.Context, events chan<- Event, sources []string, system string, turns []generator.Turn) {
	defer close(events)

	// Provenance goes out before generation begins so the caller can render
	// it while the answer is still streaming.
	if !send(ctx, events, Event{Type: EventSources, Sources: sources}) {
		return
	}

	stream, err := s.generator.Stream(ctx, system, turns)
	if err != nil {
		slog.ErrorContext(ctx, "chat generation failed", "error", err)
		send(ctx, events, Event{Type: EventError, Text: apperr.Detail(err)})
		return
	}
	defer stream.Close()

	for {
		frag, err := stream.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "chat generation failed mid-stream", "error", err)
			send(ctx, events, Event{Type: EventError, Text: apperr.Detail(err)})
			return
		}

		ev := Event{Type: EventAnswer, Text: frag.Text}
		if frag.Thought {
			ev.Type = EventReasoning
		}

		if !send(ctx, events, ev) {
			return
		}
	}
}

// send delivers ev unless the caller has gone away, in which case remaining
// model output is discarded rather than buffered.
func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// buildContext joins retrieved chunk texts in store order and collects the
// distinct source filenames in first-seen order. Empty retrieval is valid
// input to generation: it yields the placeholder text and no sources.
func buildContext(records []store.Record) (string, []string) {
	if len(records) == 0 {
		return noContextPlaceholder, []string{}
	}

	var texts []string
	sources := []string{}
	seen := make(map[string]bool)

	for _, rec := range records {
		texts = append(texts, rec.Text)
		if !seen[rec.Filename] {
			seen[rec.Filename] = true
			sources = append(sources, rec.Filename)
		}
	}

	return strings.Join(texts, "\n\n"), sources
}

func buildTurns(question string, history []HistoryItem) []generator.Turn {
	var turns []generator.Turn

	for _, item := range history {
		turn := generator.Turn{Role: item.Role}
		for _, part := range item.Parts {
			turn.Parts = append(turn.Parts, part.Text)
		}
		turns = append(turns, turn)
	}

	return append(turns, generator.Turn{
		Role:  generator.RoleUser,
		Parts: []string{question},
	})
}

func New(em embedder.Embedder, st store.Store, gen generator.Generator, searchLimit int) *Service {
	if searchLimit <= 0 {
		searchLimit = 5
	}

	return &Service{
		embedder:    em,
		store:       st,
		generator:   gen,
		searchLimit: searchLimit,
	}
}
