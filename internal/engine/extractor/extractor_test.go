package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclescan/internal/engine/cache"
	"cyclescan/internal/engine/parser"
	"cyclescan/internal/engine/resolver"
)

type fixture struct {
	root  string
	cache *cache.Analysis
	ex    *Extractor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	c := cache.NewAnalysis()
	r := resolver.New(resolver.Options{
		WorkspaceRoot: root,
		SourceRoot:    "src",
		AliasPrefixes: []string{"@/", "~/"},
		Extensions:    []string{".ts", ".tsx", ".js"},
		BarrelNames:   []string{"index.ts"},
	}, c)
	return &fixture{root: root, cache: c, ex: New(parser.NewParser(), r, c)}
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportsOfResolvesAndDropsExternal(t *testing.T) {
	f := newFixture(t)
	b := f.write(t, "src/b.ts", "export const b = 1\n")
	a := f.write(t, "src/a.ts", `import { b } from "./b";
import React from "react";
`)

	edges := f.ex.ImportsOf(a)
	require.Len(t, edges, 1, "the bare specifier must be dropped")
	assert.Equal(t, "./b", edges[0].RawSpecifier)
	assert.Equal(t, b, edges[0].Resolved)
	assert.Equal(t, 1, edges[0].Line)
	assert.False(t, edges[0].Dynamic)
}

func TestImportsOfMemoizesSameSlice(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/b.ts", "export {}\n")
	a := f.write(t, "src/a.ts", `import "./b";`)

	first := f.ex.ImportsOf(a)
	second := f.ex.ImportsOf(a)
	require.Len(t, first, 1)
	assert.True(t, &first[0] == &second[0], "cache hit must return the same backing collection")
}

func TestImportsOfRecomputesAfterChange(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/b.ts", "export {}\n")
	f.write(t, "src/c.ts", "export {}\n")
	a := f.write(t, "src/a.ts", `import "./b";`)

	first := f.ex.ImportsOf(a)
	require.Len(t, first, 1)

	f.write(t, "src/a.ts", "import \"./b\";\nimport \"./c\";\n")
	second := f.ex.ImportsOf(a)
	require.Len(t, second, 2)
	assert.Equal(t, "./c", second[1].RawSpecifier)
}

func TestImportsOfUnreadableFile(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(f.root, "src", "ghost.ts")
	assert.Empty(t, f.ex.ImportsOf(missing))

	dir := filepath.Join(f.root, "src")
	assert.Empty(t, f.ex.ImportsOf(dir), "a directory reads as dependency-free")
}

func TestImportsOfDynamicFlagged(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/lazy.ts", "export {}\n")
	a := f.write(t, "src/a.ts", "const p = import(\"./lazy\");\n")

	edges := f.ex.ImportsOf(a)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Dynamic)
}

func TestHasOnlyTypeImports(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "src/a.ts", `import type { B } from "./b";`)
	b := f.write(t, "src/b.ts", `import type { C } from "./c";`)
	c := f.write(t, "src/c.ts", `import type { A } from "./a";`)

	assert.True(t, f.ex.HasOnlyTypeImports([]string{a, b, c, a}))
	assert.True(t, f.ex.HasOnlyTypeImports(nil), "empty list is vacuously true")
	assert.True(t, f.ex.HasOnlyTypeImports([]string{a}))
}

func TestHasOnlyTypeImportsRuntimeEdge(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "src/a.ts", `import type { B } from "./b";`)
	b := f.write(t, "src/b.ts", `import { C } from "./c";`)
	c := f.write(t, "src/c.ts", `import type { A } from "./a";`)

	assert.False(t, f.ex.HasOnlyTypeImports([]string{a, b, c, a}))
}

func TestHasOnlyTypeImportsMissingEdge(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "src/a.ts", "export {}\n")
	b := f.write(t, "src/b.ts", "export {}\n")

	assert.False(t, f.ex.HasOnlyTypeImports([]string{a, b}), "an unrecorded pair counts as a runtime edge")
}

func TestHasOnlyTypeImportsMixedEdgesSamePair(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "src/a.ts", "import type { B } from \"./b\";\nimport { b } from \"./b\";\n")
	b := f.write(t, "src/b.ts", `import type { A } from "./a";`)

	assert.False(t, f.ex.HasOnlyTypeImports([]string{a, b, a}),
		"a runtime edge beside a type-only edge keeps the pair runtime")
}
