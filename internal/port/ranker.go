package port

import (
	"context"

	"galaxy/internal/domain"
)

// ProgressFunc receives the number of embedded texts so far and the total.
type ProgressFunc func(done, total int)

// Ranker selects the candidate most similar to the query.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []domain.Candidate, progress ProgressFunc) (domain.QueryResult, error)
}
