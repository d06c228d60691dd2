package google

import (
	"context"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	genaiopt "google.golang.org/api/option"

	"docuchat/generator"
	"docuchat/internal/apperr"
)

type googleGenerator struct {
	options generator.Options
	client  *genai.Client
}

func (g *googleGenerator) Stream(ctx context.Context, system string, turns []generator.Turn) (generator.Stream, error) {
	model := g.client.GenerativeModel(g.options.Model)

	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	// Everything before the final turn is replayed as history; the final
	// turn is the message that drives generation.
	history, message := splitTurns(turns)

	cs := model.StartChat()
	cs.History = history

	iter := cs.SendMessageStream(ctx, genai.Text(message))

	return &googleStream{iter: iter}, nil
}

func splitTurns(turns []generator.Turn) ([]*genai.Content, string) {
	if len(turns) == 0 {
		return nil, ""
	}

	var history []*genai.Content
	for _, turn := range turns[:len(turns)-1] {
		content := &genai.Content{Role: turn.Role}
		for _, part := range turn.Parts {
			content.Parts = append(content.Parts, genai.Text(part))
		}
		history = append(history, content)
	}

	return history, strings.Join(turns[len(turns)-1].Parts, "\n")
}

type googleStream struct {
	iter *genai.GenerateContentResponseIterator
	buf  []generator.Fragment
}

func (s *googleStream) Next() (generator.Fragment, error) {
	for len(s.buf) == 0 {
		rsp, err := s.iter.Next()
		if err == iterator.Done {
			return generator.Fragment{}, io.EOF
		}
		if err != nil {
			return generator.Fragment{}, apperr.Wrap(apperr.KindChatGeneration, "failed to generate response", err)
		}

		if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil {
			continue
		}

		// This SDK does not expose thought parts, so every fragment is
		// answer text.
		for _, part := range rsp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok && len(text) > 0 {
				s.buf = append(s.buf, generator.Fragment{Text: string(text)})
			}
		}
	}

	frag := s.buf[0]
	s.buf = s.buf[1:]

	return frag, nil
}

func (s *googleStream) Close() error {
	return nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &googleGenerator{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		panic(err)
	}

	g.client = client

	return g
}
