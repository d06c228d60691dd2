package google

import (
	"context"
	"errors"

	"github.com/google/generative-ai-go/genai"
	genaiopt "google.golang.org/api/option"

	"docuchat/embedder"
	"docuchat/internal/apperr"
)

type googleEmbedder struct {
	options embedder.Options
	client  *genai.Client
}

func (e *googleEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, genai.TaskTypeRetrievalDocument)
}

func (e *googleEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, genai.TaskTypeRetrievalQuery)
}

func (e *googleEmbedder) embed(ctx context.Context, text string, taskType genai.TaskType) ([]float32, error) {
	model := e.client.EmbeddingModel(e.options.Model)
	model.TaskType = taskType

	rsp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEmbedding, "failed to generate embedding", err)
	}

	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, apperr.Wrap(apperr.KindEmbedding, "failed to generate embedding", errors.New("no response from Google"))
	}

	return rsp.Embedding.Values, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &googleEmbedder{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		panic(err)
	}

	e.client = client

	return e
}
