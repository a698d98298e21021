package retriever

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"galaxy/internal/domain"
	"galaxy/internal/port"
)

// DefaultPrefixChars is how much of each file gets embedded.
const DefaultPrefixChars = 1000

// DefaultBatchSize is the number of prefixes embedded per model call.
const DefaultBatchSize = 64

// SemanticRanker picks the candidate whose content prefix is closest to the query
// in embedding space.
type SemanticRanker struct {
	embedder    port.Embedder
	prefixChars int
	batchSize   int
	logger      *zap.Logger
}

var _ port.Ranker = (*SemanticRanker)(nil)

func NewSemanticRanker(
	embedder port.Embedder,
	prefixChars int,
	batchSize int,
	logger *zap.Logger,
) *SemanticRanker {
	if prefixChars <= 0 {
		prefixChars = DefaultPrefixChars
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemanticRanker{
		embedder:    embedder,
		prefixChars: prefixChars,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// Rank embeds the query and the prefix of every candidate and returns the best match.
func (r *SemanticRanker) Rank(
	ctx context.Context,
	query string,
	candidates []domain.Candidate,
	progress port.ProgressFunc,
) (domain.QueryResult, error) {
	if len(candidates) == 0 {
		return domain.QueryResult{}, domain.ErrNoCandidates
	}
	if r.embedder == nil {
		return domain.QueryResult{}, fmt.Errorf("%w: no embedder configured", domain.ErrModel)
	}

	queryVecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVecs) != 1 || len(queryVecs[0]) == 0 {
		return domain.QueryResult{}, fmt.Errorf("%w: query embedding is empty", domain.ErrEmbeddingMismatch)
	}
	queryVec := queryVecs[0]

	prefixes := make([]string, len(candidates))
	for i, c := range candidates {
		prefixes[i] = Truncate(c.Content, r.prefixChars)
	}

	vectors, err := r.embedAll(ctx, prefixes, progress)
	if err != nil {
		return domain.QueryResult{}, err
	}

	for i, v := range vectors {
		if len(v) != len(queryVec) {
			return domain.QueryResult{}, fmt.Errorf("%w: candidate %d has dimension %d, query has %d",
				domain.ErrEmbeddingMismatch, i, len(v), len(queryVec))
		}
	}

	best, score := BestMatch(queryVec, vectors)

	r.logger.Debug("ranked candidates",
		zap.Int("candidates", len(candidates)),
		zap.String("best", candidates[best].Path),
		zap.Float64("score", score),
	)

	return domain.QueryResult{
		Path:  candidates[best].Path,
		Score: score,
	}, nil
}

func (r *SemanticRanker) embedAll(ctx context.Context, texts []string, progress port.ProgressFunc) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += r.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := i + r.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := r.embedder.Embed(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed candidates: %w", err)
		}
		if len(batch) != end-i {
			return nil, fmt.Errorf("%w: expected %d vectors, got %d", domain.ErrEmbeddingMismatch, end-i, len(batch))
		}
		vectors = append(vectors, batch...)

		if progress != nil {
			progress(len(vectors), len(texts))
		}
	}

	return vectors, nil
}

// Truncate returns the first n characters of s, counting Unicode code points.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
