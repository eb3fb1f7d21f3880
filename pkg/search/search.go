// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package search implements the hierarchical search index builder
// (C9): per-document and per-option search documents, written as a
// single deterministic JSON array.
package search

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/markdown/headers"
)

var nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize implements spec §4.9's anchor token rule:
// `text.to_lower().split_on_non_alphanumeric().filter(non_empty)`.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := nonAlphanumericRe.Split(lower, -1)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// DocumentInput is one searchable file's already-expanded AST plus its
// site-relative output path.
type DocumentInput struct {
	RelPath string
	Doc     ast.Node
	Source  []byte
}

// BuildDocument constructs one api.SearchDocument for a rendered
// source file (spec §4.9 steps 2-5). maxHeadingLevel bounds which
// headings become anchors; 0 yields no anchors.
func BuildDocument(in DocumentInput, maxHeadingLevel int) api.SearchDocument {
	title := headers.Title(in.Doc, in.Source)
	if title == "" {
		title = fileStem(in.RelPath)
	}

	var anchors []api.SearchAnchor
	for _, h := range headers.Extract(in.Doc, in.Source) {
		if h.Level > maxHeadingLevel {
			continue
		}
		anchors = append(anchors, api.SearchAnchor{
			Text:   h.Text,
			ID:     h.ID,
			Level:  h.Level,
			Tokens: Tokenize(h.Text),
		})
	}
	if anchors == nil {
		anchors = []api.SearchAnchor{}
	}

	return api.SearchDocument{
		Title:   title,
		Content: headers.StripMarkdown(in.Doc, in.Source),
		Path:    htmlPath(in.RelPath),
		Anchors: anchors,
	}
}

// BuildOptionDocument constructs the search document for one catalog
// option (spec §4.9 "Per option"): no anchors, content is the
// description's plain-text projection.
func BuildOptionDocument(name string, descriptionDoc ast.Node, descriptionSource []byte, slug string) api.SearchDocument {
	return api.SearchDocument{
		Title:   "Option: " + name,
		Content: headers.StripMarkdown(descriptionDoc, descriptionSource),
		Path:    "options.html#option-" + slug,
		Anchors: []api.SearchAnchor{},
	}
}

// Build assembles the final array: files sorted by path, then options
// in their given order, assigning sequential string ids starting at
// "0" (spec §4.9 "Output").
func Build(files []api.SearchDocument, options []api.SearchDocument) []api.SearchDocument {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	out := make([]api.SearchDocument, 0, len(files)+len(options))
	id := 0
	for _, doc := range files {
		doc.ID = strconv.Itoa(id)
		out = append(out, doc)
		id++
	}
	for _, doc := range options {
		doc.ID = strconv.Itoa(id)
		out = append(out, doc)
		id++
	}
	return out
}

func fileStem(relPath string) string {
	base := path.Base(filepathToSlash(relPath))
	return strings.TrimSuffix(base, path.Ext(base))
}

// htmlPath rewrites a relative input path's extension to ".html",
// always using POSIX separators regardless of host OS (spec §4.9
// step 5).
func htmlPath(relPath string) string {
	p := filepathToSlash(relPath)
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext) + ".html"
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
