package anthropic

import (
	"context"
	"io"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"docuchat/generator"
	"docuchat/internal/apperr"
)

type anthropicGenerator struct {
	options generator.Options
	client  *anthropic.Client
}

func (g *anthropicGenerator) Stream(ctx context.Context, system string, turns []generator.Turn) (generator.Stream, error) {
	var messages []anthropic.MessageParam
	for _, turn := range turns {
		text := strings.Join(turn.Parts, "\n")
		if turn.Role == generator.RoleModel {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
		} else {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.options.Model),
		MaxTokens: int64(g.options.MaxTokens),
		Messages:  messages,
	}

	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{
			{Text: system},
		}
	}

	// Thinking deltas become reasoning fragments when a budget is set.
	if g.options.ThinkingBudget > 0 {
		params.Thinking = anthropic.ThinkingConfigParamOfEnabled(int64(g.options.ThinkingBudget))
	}

	stream := g.client.Messages.NewStreaming(ctx, params)

	return &anthropicStream{stream: stream}, nil
}

type anthropicStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

func (s *anthropicStream) Next() (generator.Fragment, error) {
	for s.stream.Next() {
		event := s.stream.Current()

		deltaEvent, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}

		switch delta := deltaEvent.Delta.AsAny().(type) {
		case anthropic.TextDelta:
			if len(delta.Text) > 0 {
				return generator.Fragment{Text: delta.Text}, nil
			}
		case anthropic.ThinkingDelta:
			if len(delta.Thinking) > 0 {
				return generator.Fragment{Thought: true, Text: delta.Thinking}, nil
			}
		}
	}

	if err := s.stream.Err(); err != nil {
		return generator.Fragment{}, apperr.Wrap(apperr.KindChatGeneration, "failed to generate response", err)
	}

	return generator.Fragment{}, io.EOF
}

func (s *anthropicStream) Close() error {
	return s.stream.Close()
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &anthropicGenerator{
		options: options,
	}

	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(options.ApiKey),
	)

	g.client = &client

	return g
}
