// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reactor

import (
	"bytes"
	"html/template"
	"path"
	"strings"
)

// PageContext is the context record spec §6 describes for the core's
// only dependency on a templating engine: render(template_name, context).
// Field names follow the spec's "default page context" list verbatim.
type PageContext struct {
	Title          string
	SiteTitle      string
	FooterText     string
	Content        template.HTML
	TOC            template.HTML
	DocNav         template.HTML
	CustomScripts  template.HTML
	StylesheetPath string
	MainJSPath     string
	SearchJSPath   string
	IndexPath      string
	OptionsPath    string
	SearchPath     string
	MetaTagsHTML   template.HTML
	OpenGraphHTML  template.HTML
	HasOptions     bool
	GenerateSearch bool
}

// PageRenderer is the abstract render(template_name, context) -> string
// collaborator of spec §6. Template file I/O, theming, and asset
// copying are explicitly out of core scope (spec §1's Non-goals); the
// core only needs something satisfying this interface to turn a
// RenderResult into a complete page. defaultPageRenderer below is a
// minimal built-in stand-in, not a themeable template system.
type PageRenderer interface {
	RenderPage(ctx PageContext) (string, error)
}

var defaultPageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.SiteTitle}}</title>
{{if .StylesheetPath}}<link rel="stylesheet" href="{{.StylesheetPath}}">{{end}}
{{.MetaTagsHTML}}
{{.OpenGraphHTML}}
</head>
<body>
<nav class="doc-nav">{{.DocNav}}</nav>
<main>
<h1>{{.Title}}</h1>
{{.TOC}}
{{.Content}}
</main>
<footer>{{.FooterText}}</footer>
{{if .MainJSPath}}<script src="{{.MainJSPath}}"></script>{{end}}
{{if .GenerateSearch}}<script src="{{.SearchJSPath}}"></script>{{end}}
{{.CustomScripts}}
</body>
</html>
`))

// defaultPageRenderer renders defaultPageTemplate; it is what New
// wires in when the caller supplies no PageRenderer of its own.
type defaultPageRenderer struct{}

func (defaultPageRenderer) RenderPage(ctx PageContext) (string, error) {
	var buf bytes.Buffer
	if err := defaultPageTemplate.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// pageDepth returns the nesting depth d of relPath used by spec §6's
// asset-path formula: a root-level page has d=1, one directory down
// has d=2, and so on.
func pageDepth(relPath string) int {
	dir := path.Dir(filepath2slash(relPath))
	if dir == "." || dir == "" {
		return 1
	}
	return len(strings.Split(dir, "/")) + 1
}

// assetPrefix implements spec §6's `prefix = "../".repeat(max(0, d - 1))`
// for a page nested at depth d.
func assetPrefix(relPath string) string {
	n := pageDepth(relPath) - 1
	if n < 0 {
		n = 0
	}
	return strings.Repeat("../", n)
}

func filepath2slash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
