package cli

import (
	"context"

	"galaxy/config"
	"galaxy/internal/adapter/embedding"
	"galaxy/internal/adapter/fs"
	"galaxy/internal/logger"
	"galaxy/internal/usecase"
)

// newSearchUseCase wires the collector and the lazily loaded embedder
// with the logger carried by ctx.
func newSearchUseCase(ctx context.Context, cfg *config.Config) *usecase.SearchUseCase {
	log := logger.FromContext(ctx)
	return usecase.NewSearchUseCase(
		fs.NewWalker(log),
		embedding.NewLoader(cfg.Embedding, log),
		cfg.Search.PrefixChars,
		cfg.Embedding.BatchSize,
		log,
	)
}
