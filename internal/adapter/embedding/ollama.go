package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultOllamaURL = "http://localhost:11434/v1"

// OllamaEmbedder runs sentence embeddings on a local Ollama host through its
// OpenAI-compatible endpoint.
type OllamaEmbedder struct {
	embedder  embeddings.Embedder
	model     string
	dimension int
}

func NewOllamaEmbedder(model, baseURL string, batchSize int) (*OllamaEmbedder, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if batchSize <= 0 {
		batchSize = maxBatch
	}

	// Local hosts ignore the token but the client refuses an empty one.
	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken("ollama"),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(batchSize),
		embeddings.WithStripNewLines(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &OllamaEmbedder{
		embedder:  embedder,
		model:     model,
		dimension: dimensionFor(model),
	}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ollama embedding failed: %w", err)
	}
	return vectors, nil
}

func (e *OllamaEmbedder) Dimension() int {
	return e.dimension
}

func (e *OllamaEmbedder) ModelName() string {
	return e.model
}
