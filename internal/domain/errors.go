package domain

import "errors"

var (
	// ErrInvalidDirectory is returned when the search root is missing or not a directory.
	ErrInvalidDirectory = errors.New("invalid directory")

	// ErrBadPattern is returned for a malformed glob pattern.
	ErrBadPattern = errors.New("malformed file pattern")

	// ErrNoCandidates is returned when ranking is attempted on an empty candidate list.
	ErrNoCandidates = errors.New("no candidates to rank")

	// ErrModel wraps failures to load or call the embedding model.
	ErrModel = errors.New("embedding model failure")

	// ErrEmbeddingMismatch is returned when the model returns the wrong number or size of vectors.
	ErrEmbeddingMismatch = errors.New("embedding result mismatch")

	// ErrClipboard wraps clipboard write failures.
	ErrClipboard = errors.New("clipboard unavailable")
)
