package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"docuchat/generator"
	"docuchat/internal/apperr"
	"docuchat/store"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return f.EmbedQuery(ctx, text)
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

type fakeStore struct {
	records []store.Record
	err     error
	limit   int
}

func (f *fakeStore) InsertMany(ctx context.Context, records []store.Record) (int, error) {
	return 0, nil
}

func (f *fakeStore) Search(ctx context.Context, vector []float32, limit int) ([]store.Record, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.records), nil
}

func (f *fakeStore) DeleteByFilename(ctx context.Context, filename string) (int, error) {
	return 0, nil
}

// scriptedStream yields fragments in order, then finErr (io.EOF for a clean
// end).
type scriptedStream struct {
	fragments []generator.Fragment
	finErr    error
	pos       int
}

func (s *scriptedStream) Next() (generator.Fragment, error) {
	if s.pos >= len(s.fragments) {
		return generator.Fragment{}, s.finErr
	}
	frag := s.fragments[s.pos]
	s.pos++
	return frag, nil
}

func (s *scriptedStream) Close() error { return nil }

type fakeGenerator struct {
	stream *scriptedStream
	err    error

	gotSystem string
	gotTurns  []generator.Turn
}

func (f *fakeGenerator) Stream(ctx context.Context, system string, turns []generator.Turn) (generator.Stream, error) {
	f.gotSystem = system
	f.gotTurns = turns
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestStreamSourcesFirst(t *testing.T) {
	var st = &fakeStore{
		records: []store.Record{
			{Text: "chunk a", Filename: "a.pdf", ChunkID: 0},
			{Text: "chunk b", Filename: "b.pdf", ChunkID: 1},
			{Text: "chunk c", Filename: "a.pdf", ChunkID: 3},
		},
	}
	var gen = &fakeGenerator{
		stream: &scriptedStream{
			fragments: []generator.Fragment{{Text: "hello"}, {Text: " world"}},
			finErr:    io.EOF,
		},
	}
	var svc = New(&fakeEmbedder{}, st, gen, 5)

	events, err := svc.Stream(context.Background(), "what is in the docs?", nil)
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	var got = collect(t, events)

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}

	if got[0].Type != EventSources {
		t.Fatal("first event is not the sources event")
	}

	// Duplicate filenames collapse, first-seen order.
	if len(got[0].Sources) != 2 || got[0].Sources[0] != "a.pdf" || got[0].Sources[1] != "b.pdf" {
		t.Errorf("sources = %v, want [a.pdf b.pdf]", got[0].Sources)
	}

	if got[1].Type != EventAnswer || got[1].Text != "hello" {
		t.Errorf("unexpected second event: %+v", got[1])
	}
	if got[2].Type != EventAnswer || got[2].Text != " world" {
		t.Errorf("unexpected third event: %+v", got[2])
	}

	if st.limit != 5 {
		t.Errorf("search limit = %d, want 5", st.limit)
	}

	// Retrieved texts joined by paragraph break, in store order.
	if !strings.Contains(gen.gotSystem, "chunk a\n\nchunk b\n\nchunk c") {
		t.Error("system instruction does not carry the context in store order")
	}
}

func TestStreamEmptyRetrieval(t *testing.T) {
	var gen = &fakeGenerator{
		stream: &scriptedStream{
			fragments: []generator.Fragment{{Text: "I don't know."}},
			finErr:    io.EOF,
		},
	}
	var svc = New(&fakeEmbedder{}, &fakeStore{}, gen, 5)

	var history = []HistoryItem{
		{Role: "user", Parts: []HistoryPart{{Text: "hi"}}},
		{Role: "model", Parts: []HistoryPart{{Text: "hello"}}},
	}

	events, err := svc.Stream(context.Background(), "what is X", history)
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	var got = collect(t, events)

	if len(got) < 2 {
		t.Fatalf("got %d events, want sources plus at least one answer", len(got))
	}

	if got[0].Type != EventSources || got[0].Sources == nil || len(got[0].Sources) != 0 {
		t.Errorf("expected an empty (non-nil) source set, got %+v", got[0])
	}

	for _, ev := range got[1:] {
		if ev.Type == EventReasoning {
			t.Error("unexpected reasoning event")
		}
		if ev.Type != EventAnswer {
			t.Errorf("unexpected event type %v", ev.Type)
		}
	}

	// Generation proceeds with the placeholder context rather than failing.
	if !strings.Contains(gen.gotSystem, noContextPlaceholder) {
		t.Error("system instruction does not carry the placeholder context")
	}

	// History replayed in order, question appended as the newest user turn.
	if len(gen.gotTurns) != 3 {
		t.Fatalf("generator got %d turns, want 3", len(gen.gotTurns))
	}
	if gen.gotTurns[0].Role != "user" || gen.gotTurns[0].Parts[0] != "hi" {
		t.Errorf("unexpected first turn: %+v", gen.gotTurns[0])
	}
	if gen.gotTurns[1].Role != "model" || gen.gotTurns[1].Parts[0] != "hello" {
		t.Errorf("unexpected second turn: %+v", gen.gotTurns[1])
	}
	if gen.gotTurns[2].Role != generator.RoleUser || gen.gotTurns[2].Parts[0] != "what is X" {
		t.Errorf("unexpected final turn: %+v", gen.gotTurns[2])
	}
}

func TestStreamReasoningEvents(t *testing.T) {
	var gen = &fakeGenerator{
		stream: &scriptedStream{
			fragments: []generator.Fragment{
				{Thought: true, Text: "thinking about it"},
				{Text: "the answer"},
			},
			finErr: io.EOF,
		},
	}
	var svc = New(&fakeEmbedder{}, &fakeStore{}, gen, 5)

	events, err := svc.Stream(context.Background(), "question", nil)
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	var got = collect(t, events)

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[1].Type != EventReasoning || got[1].Text != "thinking about it" {
		t.Errorf("unexpected reasoning event: %+v", got[1])
	}
	if got[2].Type != EventAnswer {
		t.Errorf("unexpected final event: %+v", got[2])
	}
}

func TestStreamFailsBeforeAnyEvent(t *testing.T) {
	var tests = []struct {
		name string
		em   *fakeEmbedder
		st   *fakeStore
		want apperr.Kind
	}{
		{
			name: "embedding failure",
			em:   &fakeEmbedder{err: apperr.Wrap(apperr.KindEmbedding, "failed to generate embedding", errors.New("quota"))},
			st:   &fakeStore{},
			want: apperr.KindEmbedding,
		},
		{
			name: "search failure",
			em:   &fakeEmbedder{},
			st:   &fakeStore{err: apperr.Wrap(apperr.KindVectorSearch, "vector search failed", errors.New("bad index"))},
			want: apperr.KindVectorSearch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc = New(tt.em, tt.st, &fakeGenerator{}, 5)

			events, err := svc.Stream(context.Background(), "question", nil)
			if events != nil {
				t.Error("expected no event channel on pre-stream failure")
			}
			if !apperr.Is(err, tt.want) {
				t.Errorf("expected kind %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStreamMidStreamFailure(t *testing.T) {
	var gen = &fakeGenerator{
		stream: &scriptedStream{
			fragments: []generator.Fragment{{Text: "partial"}},
			finErr:    apperr.Wrap(apperr.KindChatGeneration, "failed to generate response", errors.New("connection reset")),
		},
	}
	var svc = New(&fakeEmbedder{}, &fakeStore{}, gen, 5)

	events, err := svc.Stream(context.Background(), "question", nil)
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	var got = collect(t, events)

	if len(got) != 3 {
		t.Fatalf("got %d events, want sources, answer, error", len(got))
	}

	if got[1].Type != EventAnswer || got[1].Text != "partial" {
		t.Errorf("already-emitted output was not preserved: %+v", got[1])
	}

	last := got[len(got)-1]
	if last.Type != EventError {
		t.Fatalf("stream did not end with an error event: %+v", last)
	}
	if last.Text != "failed to generate response" {
		t.Errorf("error event leaked or lost detail: %q", last.Text)
	}
}

func TestStreamStopsWhenCallerGone(t *testing.T) {
	var fragments []generator.Fragment
	for i := 0; i < 100; i++ {
		fragments = append(fragments, generator.Fragment{Text: "chunk"})
	}
	var gen = &fakeGenerator{stream: &scriptedStream{fragments: fragments, finErr: io.EOF}}
	var svc = New(&fakeEmbedder{}, &fakeStore{}, gen, 5)

	ctx, cancel := context.WithCancel(context.Background())

	events, err := svc.Stream(ctx, "question", nil)
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}

	<-events // sources
	cancel()

	// The producer must notice the cancellation and close the channel
	// instead of buffering the rest of the model output.
	for range events {
	}
}
