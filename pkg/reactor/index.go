// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	klog "k8s.io/klog/v2"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/nixdoc"
	"github.com/feel-co/ndg/pkg/options"
	"github.com/feel-co/ndg/pkg/search"
)

// indexTask is one Phase C unit of work: either the module-options
// catalog (spec §4.8) or the nixdoc library reference (spec §3's
// supplemented nixdoc input harvesting), each independent of the
// other and safe to run concurrently (spec §5 Phase C).
type indexTask struct {
	kind string // "options" or "nixdoc"
}

const (
	indexKindOptions = "options"
	indexKindNixdoc  = "nixdoc"
)

func (r *Reactor) indexWork(ctx context.Context, t *indexTask) error {
	switch t.kind {
	case indexKindOptions:
		return r.buildOptions()
	case indexKindNixdoc:
		return r.buildNixdoc()
	default:
		return fmt.Errorf("unknown index task kind %q", t.kind)
	}
}

// buildOptions implements spec §4.8's options-processing pipeline:
// process the catalog passed to New, render every description through the shared
// markdown pipeline, emit options.html, and (when search is enabled)
// one search document per option.
func (r *Reactor) buildOptions() error {
	if r.Catalog == nil {
		return nil
	}

	descriptions := options.NewDescriptionRenderer(r.md, r.validOptions, r.URLs)
	opts, err := options.Process(r.Catalog, r.Config.Revision, descriptions)
	if err != nil {
		klog.Warningf("processing options catalog: %v", err)
		return nil
	}

	names := r.Catalog.SortedNames()
	toc := options.BuildTOC(names, r.Config.OptionsTocDepth)

	var body strings.Builder
	for _, opt := range opts {
		body.WriteString(options.RenderBlock(opt))
	}

	page, err := r.Page.RenderPage(PageContext{
		Title:       "Options",
		SiteTitle:   r.Config.Title,
		Content:     safeHTML(body.String()),
		TOC:         safeHTML(renderOptionsTOC(toc)),
		HasOptions:  true,
		OptionsPath: "options.html",
	})
	if err != nil {
		return fmt.Errorf("rendering options page: %w", err)
	}
	if err := r.Writer.Write("options.html", []byte(page)); err != nil {
		return fmt.Errorf("writing options.html: %w", err)
	}

	if r.Config.Search.Enable {
		var docs []api.SearchDocument
		for _, opt := range opts {
			slug := options.Slug(opt.Name)
			source := []byte(opt.DescriptionRaw)
			doc := r.md.Parser().Parse(text.NewReader(source), gmparser.WithContext(gmparser.NewContext()))
			docs = append(docs, search.BuildOptionDocument(opt.Name, doc, source, slug))
		}
		r.mu.Lock()
		r.optionDocs = append(r.optionDocs, docs...)
		r.mu.Unlock()
	}

	return nil
}

// buildNixdoc implements spec §3's supplemented nixdoc-input
// harvesting: extract every configured input's nixdoc comments and
// render them into lib.html.
func (r *Reactor) buildNixdoc() error {
	if len(r.Config.NixdocInputs) == 0 {
		return nil
	}

	entries, err := nixdoc.ExtractAll(r.Config.NixdocInputs)
	if err != nil {
		klog.Warningf("extracting nixdoc entries: %v", err)
		return nil
	}

	html, err := nixdoc.GenerateLibraryHTML(entries, r.Config.Revision, r.renderSnippet)
	if err != nil {
		klog.Warningf("generating library reference: %v", err)
		return nil
	}

	page, err := r.Page.RenderPage(PageContext{
		Title:     "Library Functions",
		SiteTitle: r.Config.Title,
		Content:   safeHTML(html),
	})
	if err != nil {
		return fmt.Errorf("rendering lib.html: %w", err)
	}
	return r.Writer.Write("lib.html", []byte(page))
}

// renderOptionsTOC renders the options table of contents (spec §4.8
// step 6) as a nested unordered list, one <li> per category, with
// grouped categories expanding to their member options.
func renderOptionsTOC(entries []options.TOCEntry) string {
	var b strings.Builder
	b.WriteString("<ul class=\"options-toc\">")
	for _, e := range entries {
		if e.Option != "" {
			b.WriteString(fmt.Sprintf(`<li><a href="#option-%s">%s</a></li>`, options.Slug(e.Option), e.Option))
			continue
		}
		b.WriteString(fmt.Sprintf(`<li>%s<ul>`, e.Category))
		for _, opt := range e.Options {
			b.WriteString(fmt.Sprintf(`<li><a href="#option-%s">%s</a></li>`, options.Slug(opt), opt))
		}
		b.WriteString("</ul></li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// renderSnippet runs a short markdown fragment (a nixdoc doc comment)
// through the shared render pipeline, used by nixdoc.RenderFunc.
func (r *Reactor) renderSnippet(markdown string) (string, error) {
	result, _, _ := r.renderOne([]byte(markdown), "<nixdoc>")
	return result.HTML, nil
}

// writeSearchIndex assembles the final search-data.json document
// (spec §6's search-data schema) from every accumulated file and
// option document and writes it to assets/search-data.json.
func (r *Reactor) writeSearchIndex() error {
	if !r.Config.Search.Enable {
		return nil
	}
	r.mu.Lock()
	files := r.searchDocs
	opts := r.optionDocs
	r.mu.Unlock()

	built := search.Build(files, opts)
	data, err := json.Marshal(built)
	if err != nil {
		return fmt.Errorf("marshalling search index: %w", err)
	}
	return r.Writer.Write("assets/search-data.json", data)
}
