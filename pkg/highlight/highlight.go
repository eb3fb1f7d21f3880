// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package highlight defines the backend-agnostic syntax-highlighting
// contract (spec §4.2): a polymorphic Highlighter capability set, and
// a SyntaxManager that composes one Highlighter with alias resolution
// and plain-text fallback. Exactly one concrete Highlighter
// implementation is compiled into a given binary - see
// pkg/highlight/chromahl (default) and pkg/highlight/treesitterhl
// (build tag `tree_sitter`).
package highlight

import "fmt"

// ErrorKind classifies a highlighting failure.
type ErrorKind int

// Highlight failure kinds.
const (
	// NoBackendAvailable means no Highlighter implementation was
	// compiled in - a startup error.
	NoBackendAvailable ErrorKind = iota
	// MutuallyExclusive means more than one Highlighter implementation
	// was compiled in - a build-time/startup error.
	MutuallyExclusive
	// UnsupportedLanguage means the requested language has no lexer and
	// FallbackToPlain is not set.
	UnsupportedLanguage
	// HighlightingFailed means the backend itself returned an error
	// while highlighting; callers must fall back to escaped plain text
	// and must never abort the surrounding render.
	HighlightingFailed
)

// Error is returned by SyntaxManager operations.
type Error struct {
	Kind     ErrorKind
	Language string
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case NoBackendAvailable:
		return "highlight: no backend available"
	case MutuallyExclusive:
		return "highlight: mutually exclusive backends compiled in"
	case UnsupportedLanguage:
		return fmt.Sprintf("highlight: unsupported language %q", e.Language)
	default:
		return fmt.Sprintf("highlight: highlighting failed for %q: %v", e.Language, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Highlighter is the capability set a syntax-highlighting backend
// must implement.
type Highlighter interface {
	// Name identifies the backend (e.g. "chroma", "tree-sitter").
	Name() string
	// SupportedLanguages lists every language name/alias the backend
	// recognizes.
	SupportedLanguages() []string
	// AvailableThemes lists every theme name the backend recognizes.
	AvailableThemes() []string
	// Supports reports whether language is recognized.
	Supports(language string) bool
	// HasTheme reports whether theme is recognized.
	HasTheme(theme string) bool
	// Highlight renders code in language using theme (the empty string
	// selects the backend's default theme) and returns HTML.
	Highlight(code, language, theme string) (string, error)
	// LanguageFromExtension maps a file extension (without the leading
	// dot) to a language name, if known.
	LanguageFromExtension(ext string) (string, bool)
}

// Config configures a SyntaxManager.
type Config struct {
	DefaultTheme    string
	LanguageAliases map[string]string
	FallbackToPlain bool
}

// SyntaxManager composes one Highlighter with alias resolution and a
// plain-text fallback policy.
type SyntaxManager struct {
	backend Highlighter
	config  Config
}

// NewSyntaxManager creates a SyntaxManager over backend.
func NewSyntaxManager(backend Highlighter, config Config) *SyntaxManager {
	return &SyntaxManager{backend: backend, config: config}
}

// HighlightCode resolves a language alias, tries the backend, and on
// UnsupportedLanguage retries with "text" then "plain" when
// FallbackToPlain is set.
func (m *SyntaxManager) HighlightCode(code, language, theme string) (string, error) {
	if theme == "" {
		theme = m.config.DefaultTheme
	}
	resolved := language
	if alias, ok := m.config.LanguageAliases[language]; ok {
		resolved = alias
	}
	if m.backend.Supports(resolved) {
		html, err := m.backend.Highlight(code, resolved, theme)
		if err != nil {
			return "", &Error{Kind: HighlightingFailed, Language: resolved, Err: err}
		}
		return html, nil
	}
	if !m.config.FallbackToPlain {
		return "", &Error{Kind: UnsupportedLanguage, Language: language}
	}
	for _, fallback := range []string{"text", "plain"} {
		if m.backend.Supports(fallback) {
			html, err := m.backend.Highlight(code, fallback, theme)
			if err != nil {
				return "", &Error{Kind: HighlightingFailed, Language: fallback, Err: err}
			}
			return html, nil
		}
	}
	return "", &Error{Kind: UnsupportedLanguage, Language: language}
}

// Backend returns the composed Highlighter, mainly for introspection
// (available languages/themes) by callers building UI surfaces.
func (m *SyntaxManager) Backend() Highlighter { return m.backend }
