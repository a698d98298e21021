package port

import (
	"context"

	"galaxy/internal/domain"
)

// Collector gathers the text files under a root whose base name matches a glob pattern.
type Collector interface {
	Collect(ctx context.Context, root, pattern string) (domain.Collection, error)
}

type FileReader interface {
	ReadFile(path string) (string, error)
}
