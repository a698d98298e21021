package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"galaxy/internal/metrics"
	"galaxy/internal/port"
)

// InstrumentedEmbedder wraps an Embedder with logging and Prometheus metrics.
type InstrumentedEmbedder struct {
	inner    port.Embedder
	provider string
	logger   *zap.Logger
}

func NewInstrumentedEmbedder(inner port.Embedder, provider string, logger *zap.Logger) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		logger:   logger,
	}
}

func (p *InstrumentedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	model := p.inner.ModelName()
	start := time.Now()

	vectors, err := p.inner.Embed(ctx, texts)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(p.provider, model, "error").Inc()
		p.logger.Error("embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", model),
			zap.Int("texts", len(texts)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("embed: %w", err)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(p.provider, model, "success").Inc()
	metrics.EmbeddingTextsTotal.WithLabelValues(p.provider, model).Add(float64(len(texts)))
	metrics.EmbeddingRequestDuration.WithLabelValues(p.provider, model).Observe(duration.Seconds())

	p.logger.Debug("embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", model),
		zap.Int("texts", len(texts)),
		zap.Duration("duration", duration),
	)

	return vectors, nil
}

func (p *InstrumentedEmbedder) Dimension() int {
	return p.inner.Dimension()
}

func (p *InstrumentedEmbedder) ModelName() string {
	return p.inner.ModelName()
}
