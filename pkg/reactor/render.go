// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"
	klog "k8s.io/klog/v2"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/markdown/extensions"
	"github.com/feel-co/ndg/pkg/markdown/headers"
	ndgparser "github.com/feel-co/ndg/pkg/markdown/parser"
	"github.com/feel-co/ndg/pkg/search"
)

// renderTask is one Phase B unit of work: render a single root file
// (one not absorbed into another document's inclusion map) to HTML
// (spec §5 Phase B). rel is the path relative to the input directory,
// used both for the output path and for the asset-prefix computation
// of spec §6.
type renderTask struct {
	path string
	rel  string
}

// renderWork implements spec §4.3-§4.7 end to end for one root file,
// then applies the custom_output duplication and search-document
// accumulation described in spec §4.4/§5. Render, page and
// custom-output failures are logged and skipped; only a failure to
// write the primary page is returned, and the queue collects it
// without stopping the other files.
func (r *Reactor) renderWork(ctx context.Context, t *renderTask) error {
	r.mu.Lock()
	exp, ok := r.expansions[t.path]
	r.mu.Unlock()
	if !ok {
		klog.Warningf("no expanded source recorded for %s, skipping", t.path)
		return nil
	}

	result, doc, source := r.renderOne(exp.source, t.path)

	outRel := htmlOutputPath(t.rel)
	page, err := r.Page.RenderPage(r.pageContext(t.rel, result))
	if err != nil {
		klog.Warningf("rendering page for %s: %v", t.path, err)
		return nil
	}
	if err := r.Writer.Write(outRel, []byte(page)); err != nil {
		return fmt.Errorf("writing %s: %w", outRel, err)
	}

	// Output-path override (spec §4.4): the host's rendered HTML is
	// also written at every direct child's custom_output path.
	for _, inc := range exp.included {
		if inc.CustomOutput == "" {
			continue
		}
		if err := r.Writer.Write(inc.CustomOutput, []byte(page)); err != nil {
			klog.Warningf("writing custom output %s for %s: %v", inc.CustomOutput, t.path, err)
		}
	}

	if r.Config.Search.Enable && doc != nil {
		sdoc := search.BuildDocument(search.DocumentInput{
			RelPath: t.rel,
			Doc:     doc,
			Source:  source,
		}, r.Config.Search.MaxHeadingLevel)
		r.mu.Lock()
		r.searchDocs = append(r.searchDocs, sdoc)
		r.mu.Unlock()
	}

	return nil
}

// renderOne runs one expanded source through the full pipeline of
// spec §4.3-§4.7: role/admonition preprocessing, CommonMark parsing,
// HTML rendering through the syntax-aware renderer, and HTML
// post-processing. A panic anywhere in parse/render is recovered and
// mapped to the critical-error placeholder of spec §7, so one
// malformed document degrades gracefully instead of losing the batch.
func (r *Reactor) renderOne(source []byte, path string) (result api.RenderResult, doc ast.Node, normalized []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			klog.Errorf("panic rendering %s: %v", path, rec)
			result = api.RenderResult{HTML: `<div class="error">Critical error processing markdown content</div>`}
			doc = nil
		}
	}()

	pre := extensions.Preprocess(source, r.validOptions, r.URLs)
	parsed := ndgparser.Parse(r.md, pre, r.Config.TabStyle, path)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, parsed.Source, parsed.Document); err != nil {
		klog.Warningf("rendering %s: %v", path, err)
		return api.RenderResult{HTML: `<div class="error">Critical error processing markdown content</div>`}, nil, nil
	}

	htmlContent := extensions.Postprocess(buf.Bytes())

	hs := headers.Extract(parsed.Document, parsed.Source)
	title := headers.Title(parsed.Document, parsed.Source)

	included := r.includedFor(path)
	paths := make([]string, len(included))
	for i, inc := range included {
		paths[i] = inc.Path
	}

	return api.RenderResult{
		HTML:          string(htmlContent),
		Headers:       hs,
		Title:         title,
		IncludedFiles: paths,
	}, parsed.Document, parsed.Source
}

func (r *Reactor) includedFor(path string) []api.IncludedFile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expansions[path].included
}

// pageContext assembles the default page context spec §6 describes,
// applying the asset-prefix formula so generated pages work when
// nested at any depth under the output directory.
func (r *Reactor) pageContext(rel string, result api.RenderResult) PageContext {
	prefix := assetPrefix(rel)
	return PageContext{
		Title:          result.Title,
		SiteTitle:      r.Config.Title,
		Content:        safeHTML(result.HTML),
		StylesheetPath: prefix + "assets/style.css",
		MainJSPath:     prefix + "assets/main.js",
		SearchJSPath:   prefix + "assets/search.js",
		IndexPath:      prefix + "index.html",
		OptionsPath:    prefix + "options.html",
		SearchPath:     prefix + "assets/search-data.json",
		HasOptions:     r.Config.ModuleOptions != "",
		GenerateSearch: r.Config.Search.Enable,
	}
}

func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

func htmlOutputPath(rel string) string {
	ext := filepath.Ext(rel)
	return strings.TrimSuffix(filepath2slash(rel), ext) + ".html"
}
