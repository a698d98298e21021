package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galaxy/internal/domain"
)

func writeFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func paths(c domain.Collection) []string {
	out := make([]string, 0, len(c.Candidates))
	for _, cand := range c.Candidates {
		out = append(out, cand.Path)
	}
	sort.Strings(out)
	return out
}

func TestCollect_MatchesBaseNameRecursively(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", []byte("alpha"))
	b := writeFile(t, root, "sub/deeper/b.txt", []byte("beta"))
	writeFile(t, root, "sub/c.md", []byte("gamma"))
	writeFile(t, root, "sub/txt", []byte("no extension"))
	// A directory whose name matches must never be returned.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.txt"), 0755))

	got, err := NewWalker(nil).Collect(context.Background(), root, "*.txt")
	require.NoError(t, err)

	assert.Equal(t, []string{a, b}, paths(got))
	assert.Zero(t, got.Skipped)
}

func TestCollect_ReadsContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.md", []byte("héllo wörld"))

	got, err := NewWalker(nil).Collect(context.Background(), root, "*.md")
	require.NoError(t, err)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, "héllo wörld", got.Candidates[0].Content)
}

func TestCollect_CaseSensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "upper.TXT", []byte("x"))
	lower := writeFile(t, root, "lower.txt", []byte("y"))

	got, err := NewWalker(nil).Collect(context.Background(), root, "*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{lower}, paths(got))
}

func TestCollect_SkipsNonUTF8(t *testing.T) {
	root := t.TempDir()
	good1 := writeFile(t, root, "one.txt", []byte("first"))
	good2 := writeFile(t, root, "two.txt", []byte("second"))
	writeFile(t, root, "bad.txt", []byte{0xff, 0xfe, 0x00, 0xc3})

	got, err := NewWalker(nil).Collect(context.Background(), root, "*.txt")
	require.NoError(t, err)

	assert.Equal(t, []string{good1, good2}, paths(got))
	assert.Equal(t, 1, got.Skipped)
}

type failingReader struct {
	fail string
}

func (r failingReader) ReadFile(path string) (string, error) {
	if filepath.Base(path) == r.fail {
		return "", errors.New("permission denied")
	}
	return ReadFile(path)
}

func TestCollect_ReadErrorDoesNotAbortScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("a"))
	writeFile(t, root, "locked.txt", []byte("b"))
	c := writeFile(t, root, "z/c.txt", []byte("c"))

	w := NewWalker(nil).WithReader(failingReader{fail: "locked.txt"})
	got, err := w.Collect(context.Background(), root, "*.txt")
	require.NoError(t, err)

	assert.Len(t, got.Candidates, 2)
	assert.Contains(t, paths(got), c)
	assert.Equal(t, 1, got.Skipped)
}

func TestCollect_EmptyDirectory(t *testing.T) {
	got, err := NewWalker(nil).Collect(context.Background(), t.TempDir(), "*.txt")
	require.NoError(t, err)
	assert.Empty(t, got.Candidates)
	assert.Zero(t, got.Skipped)
}

func TestCollect_WildcardForms(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a1.log", []byte("x"))
	writeFile(t, root, "a22.log", []byte("x"))
	writeFile(t, root, "b1.log", []byte("x"))

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{"star", "*.log", 3},
		{"question mark", "a?.log", 1},
		{"character class", "[ab]1.log", 2},
		{"no match", "*.txt", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewWalker(nil).Collect(context.Background(), root, tc.pattern)
			require.NoError(t, err)
			assert.Len(t, got.Candidates, tc.want)
		})
	}
}

func TestCollect_ShellPatternLiterals(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("x"))
	writeFile(t, root, "b.md", []byte("x"))
	braces := writeFile(t, root, "c.{txt,md}", []byte("x"))
	bracket := writeFile(t, root, "d.[x", []byte("x"))
	open := writeFile(t, root, "[unclosed", []byte("x"))

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"braces are literal", "*.{txt,md}", []string{braces}},
		{"unclosed bracket is literal", "*.[x", []string{bracket}},
		{"bare unclosed bracket", "[unclosed", []string{open}},
		{"negated class", "[!ab].*", []string{braces, bracket}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewWalker(nil).Collect(context.Background(), root, tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, paths(got))
		})
	}
}

func TestGlob(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"*.txt", "*.txt"},
		{"*.{txt,md}", `*.\{txt,md\}`},
		{"*.[x", `*.\[x`},
		{"[ab]1.log", "[ab]1.log"},
		{"[!a]*", "[!a]*"},
		{"[]]x", `[\]]x`},
		{"[!]]x", `[!\]]x`},
		{`a\b`, `a\\b`},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Glob(tc.in))
		})
	}
}

func TestCollect_FollowsSymlinkedFiles(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	target := writeFile(t, base, "other/real.txt", []byte("apple pie"))
	plain := writeFile(t, root, "plain.txt", []byte("plain"))
	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(base, "missing.txt"), filepath.Join(root, "broken.txt")))
	require.NoError(t, os.Symlink(filepath.Join(base, "other"), filepath.Join(root, "dir.txt")))

	got, err := NewWalker(nil).Collect(context.Background(), root, "*.txt")
	require.NoError(t, err)

	assert.Equal(t, []string{link, plain}, paths(got))
	assert.Equal(t, 1, got.Skipped, "broken link counts as skipped")
	for _, c := range got.Candidates {
		if c.Path == link {
			assert.Equal(t, "apple pie", c.Content)
		}
	}
}

func TestCollect_DoesNotDescendSymlinkedDirs(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(root, 0755))
	writeFile(t, base, "outside/secret.txt", []byte("x"))
	if err := os.Symlink(filepath.Join(base, "outside"), filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := NewWalker(nil).Collect(context.Background(), root, "*.txt")
	require.NoError(t, err)
	assert.Empty(t, got.Candidates)
	assert.Zero(t, got.Skipped)
}

func TestReadFile_NormalisesLineEndings(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "dos.txt", []byte("one\r\ntwo\rthree\n"))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", got)
}

func TestCollect_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWalker(nil).Collect(ctx, root, "*.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
