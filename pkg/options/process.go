// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/markdown/extensions"
	"github.com/feel-co/ndg/pkg/slug"
)

// DescriptionRenderer renders one option's Markdown description to
// HTML through the shared extension pipeline. md is expected to be
// configured with pkg/markdown/parser.New's parser options and
// pkg/markdown/renderer.New's renderer (the caller wires these
// together; this package only drives the pre/post-process passes
// around the Convert call).
type DescriptionRenderer struct {
	validSet map[string]struct{}
	urls     api.ManpageURLMap
	md       goldmark.Markdown
}

// NewDescriptionRenderer builds a renderer wired to md (produced by
// pkg/markdown/renderer.New, wrapped in a goldmark.Markdown via
// goldmark.WithRenderer) and the catalog's valid-options set.
func NewDescriptionRenderer(md goldmark.Markdown, validSet map[string]struct{}, urls api.ManpageURLMap) *DescriptionRenderer {
	return &DescriptionRenderer{md: md, validSet: validSet, urls: urls}
}

// Render implements spec §4.8 step 2: HTML-pre-escape `<`/`>` outside
// code spans and fenced blocks, run the extension pre-parse pass, then
// parse and render.
func (d *DescriptionRenderer) Render(description string) (string, error) {
	escaped := escapeAngleBracketsOutsideCode(description)
	preprocessed := extensions.Preprocess([]byte(escaped), d.validSet, d.urls)
	var buf bytes.Buffer
	if err := d.md.Convert(preprocessed, &buf); err != nil {
		return "", fmt.Errorf("rendering option description: %w", err)
	}
	return string(extensions.Postprocess(buf.Bytes())), nil
}

// escapeAngleBracketsOutsideCode escapes `<` and `>` on lines outside
// fenced code blocks and outside inline code spans, matching the
// option catalog's frequent use of raw `<name>` placeholders in prose.
func escapeAngleBracketsOutsideCode(s string) string {
	lines := strings.Split(s, "\n")
	fence := &slug.BlockFenceTracker{}
	for i, line := range lines {
		wasInCode := fence.InCodeBlock()
		fence.Feed(line)
		if wasInCode || fence.InCodeBlock() {
			continue
		}
		lines[i] = escapeOutsideBackticks(line)
	}
	return strings.Join(lines, "\n")
}

func escapeOutsideBackticks(line string) string {
	var b strings.Builder
	inSpan := false
	for _, r := range line {
		if r == '`' {
			inSpan = !inSpan
			b.WriteRune(r)
			continue
		}
		if !inSpan && (r == '<' || r == '>') {
			b.WriteString(html.EscapeString(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// extractValue unwraps the catalog's special JSON shapes
// ({_type: "literalExpression"|"literalDocBook"|"literalMD", text})
// and stringifies scalars, per spec §4.8 step 2.
func extractValue(raw json.RawMessage) (text string, isLiteralExpression bool, ok bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		var typeName string
		if t, ok := obj["_type"]; ok {
			_ = json.Unmarshal(t, &typeName)
		}
		switch typeName {
		case "literalExpression", "literalDocBook", "literalMD":
			var content string
			if t, ok := obj["text"]; ok {
				_ = json.Unmarshal(t, &content)
			}
			return content, typeName == "literalExpression", true
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, false, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return trimFloat(f), false, true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return "true", false, true
		}
		return "false", false, true
	}
	return "", false, false
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// formatLocation implements format_location: absolute paths become
// file:// URLs, relative paths are rendered as <nixpkgs/…> with a
// GitHub blob URL built from revision ("local" maps to the master
// branch), and object declarations read name/url directly.
func formatLocation(raw json.RawMessage, revision string) (display, url string) {
	var path string
	if err := json.Unmarshal(raw, &path); err == nil {
		if strings.HasPrefix(path, "/") {
			url = "file://" + path
			if strings.Contains(path, "nixops") && strings.Contains(path, "/nix/") {
				idx := strings.Index(path, "/nix/")
				return "<nixops" + path[idx:] + ">", url
			}
			return path, url
		}
		branch := revision
		if branch == "local" {
			branch = "master"
		}
		return "<nixpkgs/" + path + ">", "https://github.com/NixOS/nixpkgs/blob/" + branch + "/" + path
	}

	var obj struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Name != "" {
			display = html.EscapeString(obj.Name)
		}
		url = obj.URL
	}
	return display, url
}

func visibleInternal(r RawOption) bool {
	if r.Internal {
		return true
	}
	if r.Visible != nil && !*r.Visible {
		return true
	}
	return false
}

// priority implements the three-tier sort key of spec §4.8 step 5.
func priority(name string) int {
	switch {
	case strings.HasPrefix(name, "enable"):
		return 0
	case strings.HasPrefix(name, "package"):
		return 1
	default:
		return 2
	}
}

// SortedNames returns every catalog key ordered by (priority, name).
func (c Catalog) SortedNames() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := priority(names[i]), priority(names[j])
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}

// Process runs the full options pipeline and returns one api.Option
// per catalog entry, in priority-sorted order.
func Process(catalog Catalog, revision string, descriptions *DescriptionRenderer) ([]api.Option, error) {
	names := catalog.SortedNames()
	out := make([]api.Option, 0, len(names))
	for _, name := range names {
		raw := catalog[name]
		opt := api.Option{
			Name:           name,
			Type:           raw.Type,
			DescriptionRaw: raw.Description,
			Internal:       visibleInternal(raw),
			ReadOnly:       raw.ReadOnly,
		}

		descHTML, err := descriptions.Render(raw.Description)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", name, err)
		}
		opt.DescriptionHTML = descHTML

		if text, isLiteral, ok := extractValue(firstNonEmpty(raw.Default, raw.DefaultText)); ok {
			if isLiteral {
				text = "`" + text + "`"
			}
			opt.Default = text
		}
		if text, isLiteral, ok := extractValue(firstNonEmpty(raw.Example, raw.ExampleText)); ok {
			if isLiteral {
				text = "`" + text + "`"
			}
			opt.Example = text
		}

		if len(raw.Declarations) > 0 {
			opt.DeclaredIn, opt.DeclaredInURL = formatLocation(raw.Declarations[0], revision)
		}
		if opt.DeclaredIn == "" {
			if len(raw.Loc) > 0 {
				opt.DeclaredIn = strings.Join(raw.Loc, ".")
			} else {
				opt.DeclaredIn = "configuration.nix"
			}
		}

		out = append(out, opt)
	}
	return out, nil
}

func firstNonEmpty(a, b json.RawMessage) json.RawMessage {
	if len(a) > 0 && string(a) != "null" {
		return a
	}
	return b
}

// Slug returns the anchor slug for an option name (spec §4.8 step 7,
// §6 "option anchor syntax"): "." replaced with "-".
func Slug(name string) string {
	return strings.ReplaceAll(name, ".", "-")
}
