package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclescan/internal/core/errors"
)

func TestScanImportsStatic(t *testing.T) {
	src := []byte(`import { a } from "./a";
import * as b from '../b';
import "./side-effect";
const x = 1;
`)
	p := NewParser()
	decls, err := p.ScanImports("m.ts", src)
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.Equal(t, Declaration{Specifier: "./a", Line: 1}, decls[0])
	assert.Equal(t, Declaration{Specifier: "../b", Line: 2}, decls[1])
	assert.Equal(t, Declaration{Specifier: "./side-effect", Line: 3}, decls[2])
}

func TestScanImportsExportFrom(t *testing.T) {
	src := []byte(`export { a } from "./a";
export * from "./b";
export const local = 1;
`)
	p := NewParser()
	decls, err := p.ScanImports("m.ts", src)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "./a", decls[0].Specifier)
	assert.Equal(t, "./b", decls[1].Specifier)
	assert.Equal(t, 2, decls[1].Line)
}

func TestScanImportsDynamic(t *testing.T) {
	src := []byte(`async function load() {
  const mod = await import("./lazy");
  return mod;
}
`)
	p := NewParser()
	decls, err := p.ScanImports("m.ts", src)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "./lazy", decls[0].Specifier)
	assert.True(t, decls[0].Dynamic)
	assert.Equal(t, 2, decls[0].Line)
}

func TestScanImportsDynamicNonLiteral(t *testing.T) {
	src := []byte("const m = import(name);\nconst n = import(`./${name}`);\n")
	p := NewParser()
	decls, err := p.ScanImports("m.js", src)
	require.NoError(t, err)
	assert.Empty(t, decls, "non-literal dynamic specifiers cannot be resolved statically")
}

func TestScanImportsTypeOnly(t *testing.T) {
	src := []byte(`import type { A } from "./a";
import { type B, c } from "./b";
export type { D } from "./d";
`)
	p := NewParser()
	decls, err := p.ScanImports("m.ts", src)
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.True(t, decls[0].TypeOnly, "statement-level import type")
	assert.False(t, decls[1].TypeOnly, "inline type specifier keeps a runtime binding")
	assert.True(t, decls[2].TypeOnly, "statement-level export type")
}

func TestScanImportsJSX(t *testing.T) {
	src := []byte(`import { Button } from "./button";

export function App() {
  return <Button label="ok" />;
}
`)
	p := NewParser()
	decls, err := p.ScanImports("app.tsx", src)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "./button", decls[0].Specifier)
}

func TestScanImportsToleratesBrokenSyntax(t *testing.T) {
	src := []byte(`import { a } from "./a";
function broken( {
`)
	p := NewParser()
	decls, err := p.ScanImports("m.js", src)
	require.NoError(t, err)
	require.NotEmpty(t, decls)
	assert.Equal(t, "./a", decls[0].Specifier)
}

func TestScanImportsUnsupportedExtension(t *testing.T) {
	p := NewParser()
	_, err := p.ScanImports("m.py", []byte("import os\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestLanguageForPath(t *testing.T) {
	p := NewParser()
	cases := map[string]string{
		"a.js":  "javascript",
		"a.mjs": "javascript",
		"a.cjs": "javascript",
		"a.jsx": "javascript",
		"a.ts":  "typescript",
		"a.mts": "typescript",
		"a.TSX": "tsx",
		"a.go":  "",
	}
	for path, want := range cases {
		assert.Equal(t, want, p.LanguageForPath(path), path)
	}
}
