package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"galaxy/internal/adapter/retriever"
	"galaxy/internal/domain"
	"galaxy/internal/metrics"
	"galaxy/internal/port"
)

// Stage identifies what a running search is doing.
type Stage int

const (
	StageCollecting Stage = iota
	StageLoadingModel
	StageEmbedding
)

func (s Stage) String() string {
	switch s {
	case StageCollecting:
		return "collecting"
	case StageLoadingModel:
		return "loading model"
	case StageEmbedding:
		return "embedding"
	default:
		return "unknown"
	}
}

// Progress is reported while a search runs. Done and Total are only set for StageEmbedding.
type Progress struct {
	Stage Stage
	Done  int
	Total int
}

// ProgressCallback receives search progress. It may be nil.
type ProgressCallback func(Progress)

// Request holds the inputs of one search.
type Request struct {
	Root    string
	Pattern string
	Query   string
}

// SearchUseCase runs collect then rank for one request.
type SearchUseCase struct {
	collector   port.Collector
	embedders   port.EmbedderSource
	prefixChars int
	batchSize   int
	logger      *zap.Logger
}

// NewSearchUseCase creates a new search use case.
func NewSearchUseCase(
	collector port.Collector,
	embedders port.EmbedderSource,
	prefixChars int,
	batchSize int,
	logger *zap.Logger,
) *SearchUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchUseCase{
		collector:   collector,
		embedders:   embedders,
		prefixChars: prefixChars,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// NormalizePattern turns a bare extension such as "md" into "*.md".
// Patterns already starting with "*." are returned unchanged.
func NormalizePattern(pattern string) string {
	if strings.HasPrefix(pattern, "*.") {
		return pattern
	}
	return "*." + pattern
}

// ValidateRoot checks that root names an existing directory.
func ValidateRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: no directory given", domain.ErrInvalidDirectory)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidDirectory, root)
	}
	return nil
}

// Search finds the file under req.Root most similar to req.Query.
// An Outcome without a Result means nothing matched the pattern.
func (u *SearchUseCase) Search(ctx context.Context, req Request, progress ProgressCallback) (domain.Outcome, error) {
	log := u.logger.With(zap.String("search_id", uuid.NewString()))
	pattern := NormalizePattern(req.Pattern)
	outcome := domain.Outcome{Pattern: pattern}

	report := func(p Progress) {
		if progress != nil {
			progress(p)
		}
	}

	if err := ValidateRoot(req.Root); err != nil {
		metrics.SearchesTotal.WithLabelValues("invalid_dir").Inc()
		log.Warn("rejected search root", zap.String("root", req.Root), zap.Error(err))
		return outcome, err
	}

	log.Info("search started",
		zap.String("root", req.Root),
		zap.String("pattern", pattern),
		zap.Int("query_len", len(req.Query)),
	)

	report(Progress{Stage: StageCollecting})
	collection, err := u.collector.Collect(ctx, req.Root, pattern)
	if err != nil {
		return outcome, u.fail(log, "collect", err)
	}

	outcome.Scanned = len(collection.Candidates)
	outcome.Skipped = collection.Skipped
	metrics.FilesScannedTotal.Add(float64(outcome.Scanned))
	metrics.FilesSkippedTotal.Add(float64(outcome.Skipped))

	if len(collection.Candidates) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		log.Info("no files matched", zap.Int("skipped", outcome.Skipped))
		return outcome, nil
	}

	report(Progress{Stage: StageLoadingModel})
	embedder, err := u.embedders.Embedder(ctx)
	if err != nil {
		return outcome, u.fail(log, "load model", err)
	}

	ranker := retriever.NewSemanticRanker(embedder, u.prefixChars, u.batchSize, log)

	report(Progress{Stage: StageEmbedding, Done: 0, Total: len(collection.Candidates)})
	result, err := ranker.Rank(ctx, req.Query, collection.Candidates, func(done, total int) {
		report(Progress{Stage: StageEmbedding, Done: done, Total: total})
	})
	if err != nil {
		if !errors.Is(err, domain.ErrModel) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", domain.ErrModel, err)
		}
		return outcome, u.fail(log, "rank", err)
	}

	outcome.Result = &result
	metrics.SearchesTotal.WithLabelValues("found").Inc()
	log.Info("search finished",
		zap.String("path", result.Path),
		zap.Float64("score", result.Score),
		zap.Int("scanned", outcome.Scanned),
		zap.Int("skipped", outcome.Skipped),
	)

	return outcome, nil
}

func (u *SearchUseCase) fail(log *zap.Logger, step string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		metrics.SearchesTotal.WithLabelValues("cancelled").Inc()
		log.Info("search cancelled", zap.String("step", step))
		return err
	}
	metrics.SearchesTotal.WithLabelValues("error").Inc()
	log.Error("search failed", zap.String("step", step), zap.Error(err))
	return fmt.Errorf("%s: %w", step, err)
}
