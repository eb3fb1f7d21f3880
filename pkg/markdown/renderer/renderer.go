// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package renderer implements the HTML renderer (C6): goldmark's
// standard HTML output, overridden for fenced/indented code blocks so
// they route through the pkg/highlight syntax manager instead of
// goldmark's default (unhighlighted) <pre><code> escaping.
package renderer

import (
	"fmt"
	"html"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	klog "k8s.io/klog/v2"

	ndghighlight "github.com/feel-co/ndg/pkg/highlight"
)

// CodeBlockRenderer is a goldmark renderer.NodeRenderer that renders
// CodeBlock and FencedCodeBlock nodes through a syntax manager. It is
// meant to be composed with goldmark's default HTML renderer via
// goldmark.WithRenderer, registered at a higher priority so it
// shadows the built-in code-block renderers (spec §4.6).
type CodeBlockRenderer struct {
	Manager *ndghighlight.SyntaxManager
	Theme   string
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *CodeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *CodeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	r.renderLines(w, source, node, "")
	return ast.WalkSkipChildren, nil
}

func (r *CodeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	var language string
	if lang := n.Language(source); lang != nil {
		language = string(lang)
	}
	r.renderLines(w, source, node, language)
	return ast.WalkSkipChildren, nil
}

func (r *CodeBlockRenderer) renderLines(w util.BufWriter, source []byte, node ast.Node, language string) {
	var code []byte
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code = append(code, line.Value(source)...)
	}

	if r.Manager == nil || language == "" {
		fmt.Fprintf(w, "<pre><code>%s</code></pre>\n", html.EscapeString(string(code)))
		return
	}

	highlighted, err := r.Manager.HighlightCode(string(code), language, r.Theme)
	if err != nil {
		klog.Warningf("highlighting failed for language %q: %v", language, err)
		fmt.Fprintf(w, "<pre><code class=\"language-%s\">%s</code></pre>\n",
			html.EscapeString(language), html.EscapeString(string(code)))
		return
	}
	_, _ = w.WriteString(highlighted)
	_, _ = w.WriteString("\n")
}

// New builds the goldmark HTML renderer used throughout the pipeline:
// goldmark's default renderer with CodeBlockRenderer registered at
// higher priority, permissive of the raw HTML our extension layer
// emits (admonition divs, role spans, inline anchors).
func New(manager *ndghighlight.SyntaxManager, theme string) renderer.Renderer {
	htmlRenderer := goldmarkhtml.NewRenderer(
		goldmarkhtml.WithUnsafe(),
		goldmarkhtml.WithXHTML(),
	)
	return renderer.NewRenderer(
		renderer.WithNodeRenderers(
			util.Prioritized(htmlRenderer, 1000),
			util.Prioritized(&CodeBlockRenderer{Manager: manager, Theme: theme}, 100),
		),
	)
}
