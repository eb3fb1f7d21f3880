// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package reactor orchestrates the three build phases described in
// spec §5 (include discovery, rendering, indexing/options) over
// pkg/jobs worker pools, wiring together every other package in this
// module. Grounded on the teacher's pkg/reactor (reactor.go/build.go):
// one Reactor struct holding several job queues plus a shared
// WaitGroup, a Build method that starts queues, enqueues work,
// waits, stops, and aggregates every queue's errors into one
// *multierror.Error.
package reactor

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	meta "github.com/yuin/goldmark-meta"
	gmparser "github.com/yuin/goldmark/parser"

	"github.com/feel-co/ndg/pkg/highlight"
	ndgrenderer "github.com/feel-co/ndg/pkg/markdown/renderer"
)

// newMarkdown builds the goldmark.Markdown instance shared read-only
// across every render worker (spec §5's shared-resource policy):
// pkg/markdown/parser.New's extension/parser-option set, paired with
// pkg/markdown/renderer.New's syntax-manager-backed renderer instead
// of goldmark's default, mirroring the wiring pkg/options's tests and
// pkg/markdown/renderer's tests already use for the same combination.
func newMarkdown(manager *highlight.SyntaxManager, theme string) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, meta.Meta),
		goldmark.WithParserOptions(
			gmparser.WithAutoHeadingID(),
			gmparser.WithAttribute(),
		),
		goldmark.WithRenderer(ndgrenderer.New(manager, theme)),
	)
}
