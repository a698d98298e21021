package embedding

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"galaxy/config"
	"galaxy/internal/domain"
	"galaxy/internal/port"
)

// New builds the embedder named by cfg.Provider.
func New(cfg config.EmbeddingConfig) (port.Embedder, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg.Model, cfg.BaseURL, cfg.BatchSize)
	case "openai":
		return NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL)
	case "deepseek":
		return NewDeepSeekEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL)
	case "jina":
		return NewJinaEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL)
	case "mock":
		return NewMockEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// Factory builds an embedder from configuration.
type Factory func(cfg config.EmbeddingConfig) (port.Embedder, error)

// Loader builds the configured embedder on first use and keeps it for the
// lifetime of the process. Failed loads are not cached.
type Loader struct {
	mu       sync.Mutex
	cfg      config.EmbeddingConfig
	factory  Factory
	embedder port.Embedder
	logger   *zap.Logger
}

func NewLoader(cfg config.EmbeddingConfig, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		cfg:     cfg,
		factory: New,
		logger:  logger,
	}
}

// WithFactory replaces the embedder constructor, mostly for tests.
func (l *Loader) WithFactory(f Factory) *Loader {
	l.factory = f
	return l
}

// Embedder returns the cached embedder, building it if needed.
func (l *Loader) Embedder(ctx context.Context) (port.Embedder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.embedder != nil {
		return l.embedder, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info("loading embedding model",
		zap.String("provider", l.cfg.Provider),
		zap.String("model", l.cfg.Model),
	)

	inner, err := l.factory(l.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModel, err)
	}

	l.embedder = NewInstrumentedEmbedder(inner, l.cfg.Provider, l.logger)
	return l.embedder, nil
}

// Loaded reports whether the model has been built.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.embedder != nil
}
