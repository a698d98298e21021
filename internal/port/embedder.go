package port

import "context"

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// EmbedderSource hands out the embedder used for a search.
// Implementations may load the model lazily and cache it.
type EmbedderSource interface {
	Embedder(ctx context.Context) (Embedder, error)
}
