// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var strayAnchorRe = regexp.MustCompile(`\[\]\{#[A-Za-z0-9_-]+\}`)

var emptyLinkPrefixes = []string{"sec-", "ssec-", "opt-"}

// humanizeFragment implements spec §4.5's empty-link humanization: it
// strips a leading sec-/ssec-/opt- prefix from a "#id" fragment, splits
// on "-", title-cases each segment, and joins with spaces. For an
// "opt-…" id it additionally returns the dotted option name and the
// rewritten href, per the backwards-compatible "opt-" convention
// (spec §9).
func humanizeFragment(fragment string) (text, href string) {
	id := strings.TrimPrefix(fragment, "#")
	isOpt := false
	for _, prefix := range emptyLinkPrefixes {
		if strings.HasPrefix(id, prefix) {
			id = strings.TrimPrefix(id, prefix)
			isOpt = prefix == "opt-"
			break
		}
	}
	segments := strings.Split(id, "-")
	if isOpt {
		return strings.Join(segments, "."), "options.html#" + strings.TrimPrefix(fragment, "#")
	}
	titled := make([]string, len(segments))
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		titled[i] = strings.ToUpper(seg[:1]) + seg[1:]
	}
	return strings.Join(titled, " "), fragment
}

// Postprocess runs the final HTML-level pass (spec §4.5): collapsing
// duplicate <p> wrappers, stripping any `[]{#…}` token that survived
// pre-parse rewriting, and applying empty-link humanization. It treats
// <code> and <pre> subtrees as opaque, copying their tokens verbatim.
func Postprocess(htmlContent []byte) []byte {
	tokens := tokenize(htmlContent)
	tokens = collapseDuplicateParagraphs(tokens)
	tokens = humanizeEmptyLinks(tokens)
	tokens = stripStrayAnchors(tokens)
	return []byte(render(tokens))
}

type tok struct {
	html.Token
	opaque bool
}

func tokenize(content []byte) []tok {
	z := html.NewTokenizer(strings.NewReader(string(content)))
	var out []tok
	opaqueDepth := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		t := z.Token()
		if t.DataAtom == atom.Code || t.DataAtom == atom.Pre {
			switch tt {
			case html.StartTagToken:
				opaqueDepth++
			case html.EndTagToken:
				if opaqueDepth > 0 {
					opaqueDepth--
				}
			}
		}
		out = append(out, tok{Token: t, opaque: opaqueDepth > 0})
	}
	return out
}

func render(tokens []tok) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
	}
	return b.String()
}

// collapseDuplicateParagraphs removes a <p> start tag that immediately
// follows another <p> start tag with nothing but whitespace text
// between them (and the symmetric case for end tags), which the
// admonition and role rewrite passes can introduce at block
// boundaries.
func collapseDuplicateParagraphs(tokens []tok) []tok {
	var out []tok
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !t.opaque && t.Type == html.StartTagToken && t.DataAtom == atom.P {
			if prev := lastNonWhitespace(out); prev != nil && !prev.opaque &&
				prev.Type == html.StartTagToken && prev.DataAtom == atom.P {
				continue
			}
		}
		if !t.opaque && t.Type == html.EndTagToken && t.DataAtom == atom.P {
			if next := firstNonWhitespace(tokens[i+1:]); next != nil && !next.opaque &&
				next.Type == html.EndTagToken && next.DataAtom == atom.P {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func lastNonWhitespace(tokens []tok) *tok {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Type == html.TextToken && strings.TrimSpace(tokens[i].Data) == "" {
			continue
		}
		return &tokens[i]
	}
	return nil
}

func firstNonWhitespace(tokens []tok) *tok {
	for i := range tokens {
		if tokens[i].Type == html.TextToken && strings.TrimSpace(tokens[i].Data) == "" {
			continue
		}
		return &tokens[i]
	}
	return nil
}

// humanizeEmptyLinks finds `<a href="#...">...</a>` with no text
// content and rewrites it per humanizeFragment.
func humanizeEmptyLinks(tokens []tok) []tok {
	var out []tok
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.opaque || t.Type != html.StartTagToken || t.DataAtom != atom.A {
			out = append(out, t)
			continue
		}
		href, hasHref := attr(t.Token, "href")
		if !hasHref || !strings.HasPrefix(href, "#") {
			out = append(out, t)
			continue
		}
		// Look ahead: is this link empty (start tag directly followed,
		// modulo whitespace text, by its own end tag)?
		j := i + 1
		for j < len(tokens) && tokens[j].Type == html.TextToken && strings.TrimSpace(tokens[j].Data) == "" {
			j++
		}
		if j >= len(tokens) || tokens[j].Type != html.EndTagToken || tokens[j].DataAtom != atom.A {
			out = append(out, t)
			continue
		}
		text, newHref := humanizeFragment(href)
		newTok := t
		newTok.Attr = replaceAttr(t.Attr, "href", newHref)
		out = append(out, newTok)
		out = append(out, tok{Token: html.Token{Type: html.TextToken, Data: text}})
		out = append(out, tokens[j])
		i = j
	}
	return out
}

// stripStrayAnchors removes any literal `[]{#id}` text that survived
// the pre-parse pass (e.g. because it appeared inside an HTML block
// goldmark didn't hand to the preprocessor).
func stripStrayAnchors(tokens []tok) []tok {
	for i, t := range tokens {
		if t.opaque || t.Type != html.TextToken {
			continue
		}
		tokens[i].Data = strayAnchorRe.ReplaceAllString(t.Data, "")
	}
	return tokens
}

func attr(t html.Token, key string) (string, bool) {
	for _, a := range t.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func replaceAttr(attrs []html.Attribute, key, value string) []html.Attribute {
	out := make([]html.Attribute, len(attrs))
	copy(out, attrs)
	for i := range out {
		if out[i].Key == key {
			out[i].Val = value
			return out
		}
	}
	return append(out, html.Attribute{Key: key, Val: value})
}
