// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build tree_sitter

// Package treesitterhl implements pkg/highlight.Highlighter over
// smacker/go-tree-sitter grammars. It is the alternate backend,
// selected with the `tree_sitter` build tag and mutually exclusive
// with pkg/highlight/chromahl (spec §4.2).
package treesitterhl

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"

	ndghighlight "github.com/feel-co/ndg/pkg/highlight"
)

// highlightClasses maps a tree-sitter node type to the CSS class emitted for
// its span. Node types not present here are rendered with no span.
var highlightClasses = map[string]string{
	"comment":              "c",
	"identifier":           "n",
	"field_identifier":     "n",
	"type_identifier":      "nt",
	"interpreted_string_literal": "s",
	"string":               "s",
	"raw_string_literal":   "s",
	"char_literal":         "s",
	"int_literal":          "m",
	"float_literal":        "m",
	"integer":              "m",
	"number":               "m",
	"true":                 "kc",
	"false":                "kc",
	"nil":                  "kc",
	"none":                 "kc",
	"func":                 "k",
	"function":             "k",
	"def":                  "k",
	"class":                "k",
	"struct":               "k",
	"interface":            "k",
	"import":               "kn",
	"package":              "kn",
	"return":                "k",
	"if":                   "k",
	"else":                 "k",
	"for":                  "k",
	"while":                "k",
	"var":                  "k",
	"const":                "k",
	"let":                  "k",
}

// languages maps a normalized language name to a smacker grammar.
// There is no per-language keyword set: tree-sitter grammars expose
// keywords as anonymous leaves whose "type" equals the literal text, so
// highlightClasses above covers the common ones via that literal text.
var languages = map[string]*sitter.Language{
	"go":         golang.GetLanguage(),
	"golang":     golang.GetLanguage(),
	"python":     python.GetLanguage(),
	"py":         python.GetLanguage(),
	"rust":       rust.GetLanguage(),
	"rs":         rust.GetLanguage(),
	"javascript": javascript.GetLanguage(),
	"js":         javascript.GetLanguage(),
	"typescript": typescript.GetLanguage(),
	"ts":         typescript.GetLanguage(),
	"bash":       bash.GetLanguage(),
	"sh":         bash.GetLanguage(),
	"shell":      bash.GetLanguage(),
	"yaml":       yaml.GetLanguage(),
	"yml":        yaml.GetLanguage(),
}

var extensions = map[string]string{
	"go":   "go",
	"py":   "python",
	"rs":   "rust",
	"js":   "javascript",
	"mjs":  "javascript",
	"ts":   "typescript",
	"sh":   "bash",
	"bash": "bash",
	"yaml": "yaml",
	"yml":  "yaml",
}

// Backend is a highlight.Highlighter backed by tree-sitter grammars.
// Parsers are created lazily and cached per language, since
// sitter.Parser is not safe for concurrent reuse.
type Backend struct {
	mu      sync.Mutex
	parsers map[string]*sitter.Parser
}

// New creates a tree-sitter-backed Backend.
func New() *Backend {
	return &Backend{parsers: map[string]*sitter.Parser{}}
}

// Name implements highlight.Highlighter.
func (b *Backend) Name() string { return "tree-sitter" }

// SupportedLanguages implements highlight.Highlighter.
func (b *Backend) SupportedLanguages() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableThemes implements highlight.Highlighter. The tree-sitter
// backend emits bare CSS classes and relies on an external stylesheet,
// so it exposes a single nominal theme.
func (b *Backend) AvailableThemes() []string {
	return []string{"default"}
}

// Supports implements highlight.Highlighter.
func (b *Backend) Supports(language string) bool {
	if language == "" {
		return true
	}
	_, ok := languages[strings.ToLower(language)]
	return ok
}

// HasTheme implements highlight.Highlighter.
func (b *Backend) HasTheme(theme string) bool {
	return theme == "" || theme == "default"
}

// Highlight implements highlight.Highlighter.
func (b *Backend) Highlight(code, language, _ string) (string, error) {
	lang, ok := languages[strings.ToLower(language)]
	if !ok {
		return "", &ndghighlight.Error{Kind: ndghighlight.UnsupportedLanguage, Language: language}
	}

	parser := b.parserFor(strings.ToLower(language), lang)
	source := []byte(code)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return "", fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	var out strings.Builder
	out.WriteString(`<pre class="highlight"><code>`)
	renderNode(&out, tree.RootNode(), source, 0)
	out.WriteString("</code></pre>")
	return out.String(), nil
}

// LanguageFromExtension implements highlight.Highlighter.
func (b *Backend) LanguageFromExtension(ext string) (string, bool) {
	lang, ok := extensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return lang, ok
}

func (b *Backend) parserFor(name string, lang *sitter.Language) *sitter.Parser {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.parsers[name]; ok {
		return p
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	b.parsers[name] = p
	return p
}

// renderNode walks the tree emitting HTML for leaf tokens. Only leaves
// are rendered directly; the byte ranges between consecutive leaves
// (whitespace, punctuation the grammar elides) are copied verbatim so
// output always round-trips the original source.
func renderNode(out *strings.Builder, node *sitter.Node, source []byte, cursor uint32) uint32 {
	if int(node.ChildCount()) == 0 {
		start := node.StartByte()
		if start > cursor {
			out.WriteString(html.EscapeString(string(source[cursor:start])))
		}
		text := node.Content(source)
		if class, ok := highlightClasses[node.Type()]; ok {
			out.WriteString(`<span class="` + class + `">`)
			out.WriteString(html.EscapeString(text))
			out.WriteString("</span>")
		} else {
			out.WriteString(html.EscapeString(text))
		}
		return node.EndByte()
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		cursor = renderNode(out, node.Child(i), source, cursor)
	}
	return cursor
}

var _ ndghighlight.Highlighter = (*Backend)(nil)
