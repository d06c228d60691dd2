package openai

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"docuchat/generator"
	"docuchat/internal/apperr"
)

type openAIGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *openAIGenerator) Stream(ctx context.Context, system string, turns []generator.Turn) (generator.Stream, error) {
	var messages []openai.ChatCompletionMessage

	if len(system) > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, turn := range turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == generator.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: strings.Join(turn.Parts, "\n"),
		})
	}

	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    g.options.Model,
		Messages: messages,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindChatGeneration, "failed to generate response", err)
	}

	return &openAIStream{stream: stream}, nil
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Next() (generator.Fragment, error) {
	for {
		rsp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return generator.Fragment{}, io.EOF
		}
		if err != nil {
			return generator.Fragment{}, apperr.Wrap(apperr.KindChatGeneration, "failed to generate response", err)
		}

		if len(rsp.Choices) == 0 || len(rsp.Choices[0].Delta.Content) == 0 {
			continue
		}

		return generator.Fragment{Text: rsp.Choices[0].Delta.Content}, nil
	}
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &openAIGenerator{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	g.client = client

	return g
}
