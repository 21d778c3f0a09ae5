package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFingerprintStability(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	writeFile(t, path, "export const a = 1\n")

	fp1, ok := FingerprintOf(path)
	require.True(t, ok)
	fp2, ok := FingerprintOf(path)
	require.True(t, ok)
	assert.Equal(t, fp1, fp2)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	writeFile(t, path, "export const a = 1\n")

	fp1, ok := FingerprintOf(path)
	require.True(t, ok)

	// Different byte length guarantees a new fingerprint even when mtime
	// resolution is coarse.
	writeFile(t, path, "export const a = 12345\n")
	fp2, ok := FingerprintOf(path)
	require.True(t, ok)
	assert.NotEqual(t, fp1, fp2)
}

func TestFingerprintMissingFile(t *testing.T) {
	_, ok := FingerprintOf(filepath.Join(t.TempDir(), "nope.ts"))
	assert.False(t, ok)
}

func TestExistsIsSticky(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	writeFile(t, path, "x")

	c := NewAnalysis()
	assert.True(t, c.Exists(path))

	require.NoError(t, os.Remove(path))
	assert.True(t, c.Exists(path), "existence answers are pinned for the session")

	missing := filepath.Join(dir, "b.ts")
	assert.False(t, c.Exists(missing))
	writeFile(t, missing, "x")
	assert.False(t, c.Exists(missing), "negative answers are pinned too")
}

func TestDependencyEntryValidity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	writeFile(t, path, "import './b'\n")

	c := NewAnalysis()
	assert.False(t, c.IsValid(path), "no entry yet")

	fp, ok := FingerprintOf(path)
	require.True(t, ok)
	edges := []ImportEdge{{RawSpecifier: "./b", Resolved: filepath.Join(dir, "b.ts"), Line: 1}}
	c.StoreImports(path, fp, edges)

	assert.True(t, c.IsValid(path))
	got, ok := c.CachedImports(path)
	require.True(t, ok)
	assert.Equal(t, edges, got)

	// Rewriting with a different size invalidates the entry.
	writeFile(t, path, "import './b'\nimport './c'\n")
	assert.False(t, c.IsValid(path))
	_, ok = c.CachedImports(path)
	assert.False(t, ok)
}

func TestDependencyEntryInvalidWhenFileUnreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	writeFile(t, path, "x")

	c := NewAnalysis()
	fp, ok := FingerprintOf(path)
	require.True(t, ok)
	c.StoreImports(path, fp, nil)
	require.True(t, c.IsValid(path))

	require.NoError(t, os.Remove(path))
	assert.False(t, c.IsValid(path))
}

func TestPatternMemoization(t *testing.T) {
	c := NewAnalysis()
	g1, err := c.Pattern("node_modules")
	require.NoError(t, err)
	g2, err := c.Pattern("node_modules")
	require.NoError(t, err)
	assert.True(t, g1 == g2, "compiled matcher should be memoized")

	_, err = c.Pattern("[")
	assert.Error(t, err)
}

func TestMarkReported(t *testing.T) {
	c := NewAnalysis()
	sig := "a.ts -> b.ts -> a.ts"
	assert.True(t, c.MarkReported(sig))
	assert.False(t, c.MarkReported(sig))
}

func TestClearLeavesCacheUsable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	writeFile(t, path, "x")

	c := NewAnalysis()
	c.Exists(path)
	fp, _ := FingerprintOf(path)
	c.StoreImports(path, fp, nil)
	c.MarkReported("sig")
	_, err := c.Pattern("*.ts")
	require.NoError(t, err)

	c.Clear()

	assert.False(t, c.IsValid(path))
	assert.True(t, c.MarkReported("sig"), "reported set starts over after Clear")

	// A deleted file is re-probed after Clear since the sticky map is gone.
	require.NoError(t, os.Remove(path))
	time.Sleep(time.Millisecond)
	assert.False(t, c.Exists(path))
}
