// Package parser extracts module references from JavaScript and TypeScript
// sources using tree-sitter. Only import declarations are inspected; the
// rest of the AST is walked but never interpreted, so any syntactically
// valid source is tolerated.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"cyclescan/internal/core/errors"
)

// Declaration is one raw module reference found in a source file, before
// resolution. Dynamic marks the call-style import("...") form; TypeOnly
// marks statement-level "import type" / "export type" re-exports.
type Declaration struct {
	Specifier string
	Line      int
	Dynamic   bool
	TypeOnly  bool
}

type Parser struct {
	languages  map[string]*sitter.Language
	extensions map[string]string
}

func NewParser() *Parser {
	p := &Parser{
		languages: map[string]*sitter.Language{
			"javascript": sitter.NewLanguage(tree_sitter_javascript.Language()),
			"typescript": sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			"tsx":        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		},
		extensions: map[string]string{
			".js":  "javascript",
			".jsx": "javascript",
			".mjs": "javascript",
			".cjs": "javascript",
			".ts":  "typescript",
			".mts": "typescript",
			".cts": "typescript",
			".tsx": "tsx",
		},
	}
	return p
}

func (p *Parser) LanguageForPath(path string) string {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.LanguageForPath(path) != ""
}

func (p *Parser) SupportedExtensions() []string {
	out := make([]string, 0, len(p.extensions))
	for ext := range p.extensions {
		out = append(out, ext)
	}
	return out
}

// ScanImports parses content and returns every module reference in source
// order.
func (p *Parser) ScanImports(path string, content []byte) ([]Declaration, error) {
	lang := p.LanguageForPath(path)
	if lang == "" {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.languages[lang])

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed")
	}
	defer tree.Close()

	var decls []Declaration
	walkDeclarations(tree.RootNode(), content, &decls)
	return decls, nil
}

func walkDeclarations(node *sitter.Node, source []byte, decls *[]Declaration) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "import_statement":
		// import ... from "m" | import "m" | import type ... from "m"
		if spec := sourceSpecifier(node, source); spec != "" {
			*decls = append(*decls, Declaration{
				Specifier: spec,
				Line:      int(node.StartPosition().Row) + 1,
				TypeOnly:  hasTypeKeyword(node),
			})
		}
		return

	case "export_statement":
		// Only re-exports carry a source: export ... from "m".
		if spec := sourceSpecifier(node, source); spec != "" {
			*decls = append(*decls, Declaration{
				Specifier: spec,
				Line:      int(node.StartPosition().Row) + 1,
				TypeOnly:  hasTypeKeyword(node),
			})
			return
		}

	case "call_expression":
		// import("m") — the deferred, conditional binding form.
		if fn := node.ChildByFieldName("function"); fn != nil && fn.Kind() == "import" {
			if spec := callSpecifier(node, source); spec != "" {
				*decls = append(*decls, Declaration{
					Specifier: spec,
					Line:      int(node.StartPosition().Row) + 1,
					Dynamic:   true,
				})
			}
			return
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkDeclarations(node.Child(i), source, decls)
	}
}

// sourceSpecifier returns the unquoted "source" field of an import or
// export statement, or "" when the statement has none.
func sourceSpecifier(node *sitter.Node, source []byte) string {
	src := node.ChildByFieldName("source")
	if src == nil {
		return ""
	}
	return trimQuoted(nodeText(src, source))
}

// callSpecifier returns the first string argument of a call expression.
// Non-literal arguments (identifiers, template substitutions) yield "";
// such references cannot be resolved statically.
func callSpecifier(node *sitter.Node, source []byte) string {
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		if arg == nil {
			continue
		}
		if arg.Kind() == "string" {
			text := trimQuoted(nodeText(arg, source))
			if strings.Contains(text, "${") {
				return ""
			}
			return text
		}
	}
	return ""
}

// hasTypeKeyword reports a statement-level "type" keyword, as in
// "import type { X } from ..." or "export type { X } from ...". Inline
// "import { type X }" forms live deeper in the tree and do not make the
// whole statement type-only.
func hasTypeKeyword(node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch != nil && ch.Kind() == "type" {
			return true
		}
	}
	return false
}

func trimQuoted(value string) string {
	value = strings.TrimSpace(value)
	return strings.Trim(value, "\"'`")
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start >= end || end > uint(len(source)) {
		return ""
	}
	return strings.TrimSpace(string(source[start:end]))
}
