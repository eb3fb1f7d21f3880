// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package parser wraps goldmark to produce the CommonMark AST the rest
// of the pipeline transforms and renders. It is error-tolerant by
// construction (goldmark never fails to parse - malformed constructs
// degrade to literal text) and applies the configured hard-tab policy
// before handing source to goldmark.
package parser

import (
	"strings"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	klog "k8s.io/klog/v2"
)

// New builds a goldmark.Markdown configured with GFM extensions
// (tables, strikethrough, task lists, autolinks; footnotes are not
// enabled) and
// frontmatter support. GFM is always enabled; callers that want a
// plain-CommonMark mode can wrap a differently configured instance -
// this pipeline always documents GFM-flavored sources. WithAttribute
// enables the trailing `{#id}` heading-attribute syntax the extension
// layer relies on for explicit anchors (spec §4.5).
func New() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, meta.Meta),
		goldmark.WithParserOptions(
			gmparser.WithAutoHeadingID(),
			gmparser.WithAttribute(),
		),
	)
}

// Result bundles the parsed AST with the (possibly tab-normalized)
// source bytes the AST's byte ranges refer to.
type Result struct {
	Document ast.Node
	Source   []byte
}

// Parse normalizes hard tabs in source per tabStyle, then parses the
// result with md. path is used only for warning messages.
func Parse(md goldmark.Markdown, source []byte, tabStyle api.TabStyle, path string) Result {
	normalized := applyTabStyle(source, tabStyle, path)
	reader := text.NewReader(normalized)
	ctx := gmparser.NewContext()
	doc := md.Parser().Parse(reader, gmparser.WithContext(ctx))
	return Result{Document: doc, Source: normalized}
}

// applyTabStyle implements spec §4.3: "none" keeps tabs unmodified;
// "warn" keeps tabs but logs once per occurrence line, except that
// tabs inside fenced code blocks are always preserved under "warn";
// "normalize" replaces every tab with two spaces, including inside
// fenced code blocks.
func applyTabStyle(source []byte, tabStyle api.TabStyle, path string) []byte {
	if tabStyle == api.TabStyleNone {
		return source
	}
	lines := strings.Split(string(source), "\n")
	inFence := false
	var fenceChar byte
	var fenceLen int
	for i, line := range lines {
		ch, n := fenceLead(line)
		if n >= 3 {
			if !inFence {
				inFence, fenceChar, fenceLen = true, ch, n
			} else if ch == fenceChar && n >= fenceLen {
				inFence = false
			}
		}
		if !strings.Contains(line, "\t") {
			continue
		}
		switch tabStyle {
		case api.TabStyleWarn:
			if !inFence {
				klog.Warningf("%s:%d: hard tab found", path, i+1)
			}
		case api.TabStyleNormalize:
			lines[i] = strings.ReplaceAll(line, "\t", "  ")
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

func fenceLead(line string) (byte, int) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return 0, 0
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return 0, 0
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	return ch, n
}
