// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build !tree_sitter

// Package chromahl implements pkg/highlight.Highlighter over
// alecthomas/chroma/v2's regex-based lexers. It is the default
// backend, mutually exclusive at build time with
// pkg/highlight/treesitterhl (spec §4.2).
package chromahl

import (
	"bytes"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/feel-co/ndg/pkg/highlight"
)

// Backend is a highlight.Highlighter backed by chroma.
type Backend struct {
	formatter *chromahtml.Formatter
}

// New creates a chroma-backed Backend.
func New() *Backend {
	return &Backend{formatter: chromahtml.New(chromahtml.WithClasses(true))}
}

// Name implements highlight.Highlighter.
func (b *Backend) Name() string { return "chroma" }

// SupportedLanguages implements highlight.Highlighter.
func (b *Backend) SupportedLanguages() []string {
	return lexers.Names(false)
}

// AvailableThemes implements highlight.Highlighter.
func (b *Backend) AvailableThemes() []string {
	return styles.Names()
}

// Supports implements highlight.Highlighter.
func (b *Backend) Supports(language string) bool {
	if language == "" {
		return true
	}
	return lexers.Get(language) != nil
}

// HasTheme implements highlight.Highlighter.
func (b *Backend) HasTheme(theme string) bool {
	return styles.Get(theme) != styles.Fallback || theme == styles.Fallback.Name
}

// Highlight implements highlight.Highlighter.
func (b *Backend) Highlight(code, language, theme string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := b.formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LanguageFromExtension implements highlight.Highlighter.
func (b *Backend) LanguageFromExtension(ext string) (string, bool) {
	lexer := lexers.Match("file." + strings.TrimPrefix(ext, "."))
	if lexer == nil {
		return "", false
	}
	cfg := lexer.Config()
	if cfg == nil || cfg.Name == "" {
		return "", false
	}
	return cfg.Name, true
}

var _ highlight.Highlighter = (*Backend)(nil)
