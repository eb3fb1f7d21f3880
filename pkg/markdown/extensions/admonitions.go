// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"regexp"
	"strings"
)

var admonitionOpenRe = regexp.MustCompile(`^:::\s*\{\.([A-Za-z0-9_-]+)(?:\s+#([A-Za-z0-9_.-]+))?\}\s*$`)
var admonitionCloseRe = regexp.MustCompile(`^:::\s*$`)

// admonitionTitles maps a known admonition kind to its rendered title,
// per spec §4.5. "figure" is a known kind with no special rendering
// beyond its title; no caption extraction or <figure> markup is
// produced for it.
var admonitionTitles = map[string]string{
	"note":      "Note",
	"warning":   "Warning",
	"tip":       "Tip",
	"info":      "Info",
	"important": "Important",
	"caution":   "Caution",
	"danger":    "Danger",
	"example":   "Example",
	"figure":    "Figure",
}

// admonitionStack tracks nested `::: {.kind}` / `:::` blocks while
// scanning source line-by-line. Each opener is pushed regardless of
// whether its kind is known, so a run of closers pops exactly as many
// levels as openers were seen (spec §4.5: "nesting by depth count on
// `:::` openers").
type admonitionStack struct {
	depth int
}

func newAdmonitionStack() *admonitionStack {
	return &admonitionStack{}
}

// tryOpen reports whether line opens an admonition and, if so, the
// HTML to emit in its place. The emitted `<div>` is followed by a
// blank line so goldmark treats it as an HTML block whose body is
// still parsed as Markdown (the same trick pandoc-style fenced-div
// emulations rely on).
func (s *admonitionStack) tryOpen(line string) (bool, string) {
	m := admonitionOpenRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return false, ""
	}
	s.depth++
	kind, id := m[1], m[2]
	title, known := admonitionTitles[kind]
	if !known {
		title = capitalize(kind)
	}
	var b strings.Builder
	b.WriteString(`<div class="admonition ` + kind + `"`)
	if id != "" {
		b.WriteString(` id="` + id + `"`)
	}
	b.WriteString(">\n\n")
	b.WriteString(`<p class="admonition-title">` + title + "</p>\n")
	return true, b.String()
}

// tryClose reports whether line closes the innermost open admonition.
func (s *admonitionStack) tryClose(line string) bool {
	if s.depth == 0 || !admonitionCloseRe.MatchString(strings.TrimSpace(line)) {
		return false
	}
	s.depth--
	return true
}

func (s *admonitionStack) closeMarkup() string {
	return "\n</div>\n"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
