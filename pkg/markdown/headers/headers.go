// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package headers implements the header & title extractor (C7): a
// single AST walk producing the ordered list of api.Header records and
// the document title.
package headers

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/slug"
)

// Extract walks doc and returns every heading in document order, each
// carrying its level, flattened text, and id (the explicit `{#id}`
// attribute if present, else a slugification of its text). Headings
// are only ever encountered as genuine ast.Heading nodes, so headings
// written inside fenced code blocks - which goldmark parses as opaque
// leaf text - are never extracted (spec §4.7).
func Extract(doc ast.Node, source []byte) []api.Header {
	var out []api.Header
	slugger := slug.NewUniqueSlugger()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		heading := n.(*ast.Heading)
		text := FlattenText(heading, source)
		id := headingID(heading, text, slugger)
		out = append(out, api.Header{Text: text, Level: heading.Level, ID: id})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// Title returns the text of the first level-1 heading in doc, or the
// empty string if there is none.
func Title(doc ast.Node, source []byte) string {
	for _, h := range Extract(doc, source) {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

func headingID(heading *ast.Heading, text string, slugger *slug.UniqueSlugger) string {
	if id, ok := heading.AttributeString("id"); ok {
		if b, ok := id.([]byte); ok {
			return string(b)
		}
		if s, ok := id.(string); ok {
			return s
		}
	}
	return slugger.Slug(text)
}

// FlattenText concatenates the visible text of an inline subtree,
// descending into emphasis/strong/link/etc. wrappers but rendering
// code spans as their literal text.
func FlattenText(n ast.Node, source []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.CodeSpan:
			for c := v.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					b.Write(t.Segment.Value(source))
				}
			}
		default:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				walk(c)
			}
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c)
	}
	return b.String()
}
