package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"docuchat/embedder"
	"docuchat/internal/apperr"
)

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
}

// OpenAI embedding models are symmetric, so documents and queries go through
// the same request.
func (e *openAIEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text)
}

func (e *openAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text)
}

func (e *openAIEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.options.Model),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEmbedding, "failed to generate embedding", err)
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, apperr.Wrap(apperr.KindEmbedding, "failed to generate embedding", errors.New("no response from OpenAI"))
	}

	return rsp.Data[0].Embedding, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &openAIEmbedder{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	e.client = client

	return e
}
