package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"galaxy/internal/domain"
	"galaxy/internal/port"
)

// Walker collects text files whose base name matches a glob pattern.
type Walker struct {
	reader port.FileReader
	logger *zap.Logger
}

func NewWalker(logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		reader: osReader{},
		logger: logger,
	}
}

// WithReader replaces the file reader, mostly for tests.
func (w *Walker) WithReader(r port.FileReader) *Walker {
	w.reader = r
	return w
}

// Collect walks root recursively and returns every matching file that decodes as UTF-8.
// Files that cannot be read are skipped and only counted. Symlinked files are
// read through their target; symlinked directories are not descended into.
func (w *Walker) Collect(ctx context.Context, root, pattern string) (domain.Collection, error) {
	var result domain.Collection

	glob := Glob(pattern)
	if !doublestar.ValidatePattern(glob) {
		return result, fmt.Errorf("%w: %q", domain.ErrBadPattern, pattern)
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			// Unreadable entries are absorbed like unreadable files.
			w.logger.Debug("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		if !matchBase(glob, info.Name()) {
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				result.Skipped++
				w.logger.Debug("skipping broken symlink", zap.String("path", path), zap.Error(err))
				return nil
			}
			if !target.Mode().IsRegular() {
				return nil
			}
		} else if !info.Mode().IsRegular() {
			return nil
		}

		content, err := w.reader.ReadFile(path)
		if err != nil {
			result.Skipped++
			w.logger.Debug("skipping file", zap.String("path", path), zap.Error(err))
			return nil
		}

		result.Candidates = append(result.Candidates, domain.Candidate{
			Path:    path,
			Content: content,
		})
		return nil
	})
	if err != nil {
		return domain.Collection{}, err
	}

	return result, nil
}

// Glob converts a shell-style pattern into doublestar syntax. Braces and
// backslashes are literal, and a '[' without a closing ']' is literal too,
// so every input yields a valid pattern.
func Glob(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '{', '}', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			writeClass(&b, pattern[i+1:end])
			i = end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// classEnd returns the index of the ']' closing the class opened at start, or -1.
// A ']' right after '[' or '[!' belongs to the class.
func classEnd(pattern string, start int) int {
	j := start + 1
	if j < len(pattern) && pattern[j] == '!' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	for j < len(pattern) && pattern[j] != ']' {
		j++
	}
	if j >= len(pattern) {
		return -1
	}
	return j
}

func writeClass(b *strings.Builder, body string) {
	b.WriteByte('[')
	if strings.HasPrefix(body, "!") {
		b.WriteByte('!')
		body = body[1:]
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '\\', ']', '{', '}', '[':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte(']')
}

func matchBase(pattern, name string) bool {
	matched, err := doublestar.Match(pattern, name)
	return err == nil && matched
}

type osReader struct{}

func (osReader) ReadFile(path string) (string, error) {
	return ReadFile(path)
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ReadFile reads a file, rejects content that is not valid UTF-8 and
// normalises CRLF and CR line endings to LF.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8", path)
	}
	return newlines.Replace(string(data)), nil
}
