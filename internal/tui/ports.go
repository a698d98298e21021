package tui

import (
	"context"

	"galaxy/internal/domain"
	"galaxy/internal/usecase"
)

// Searcher runs one search. Implemented by usecase.SearchUseCase.
type Searcher interface {
	Search(ctx context.Context, req usecase.Request, progress usecase.ProgressCallback) (domain.Outcome, error)
}

var _ Searcher = (*usecase.SearchUseCase)(nil)
