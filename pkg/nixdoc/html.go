// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package nixdoc

import (
	"fmt"
	"html"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/feel-co/ndg/pkg/api"
)

// RenderFunc renders one Markdown fragment to HTML through the shared
// extension pipeline (pkg/options.DescriptionRenderer.Render has this
// shape; the caller wires it so this package stays independent of
// pkg/options).
type RenderFunc func(markdown string) (string, error)

// GenerateLibraryHTML renders the full `lib.html` body: one
// `<section class="lib-entry">` per harvested binding followed by its
// rendered doc comment, mirroring libdoc.rs's generate_lib_entries_html
// (simplified: this implementation's NixDocEntry carries a flat doc
// string rather than nixdoc-crate-parsed sections, since no Go
// equivalent of the `nixdoc` crate's structured comment grammar is
// available in this corpus - the doc body is rendered as one Markdown
// block through the same extension pipeline as everything else).
func GenerateLibraryHTML(entries []api.NixDocEntry, revision string, render RenderFunc) (string, error) {
	var b strings.Builder
	for _, entry := range entries {
		attrPath := strings.Join(entry.AttrPath, ".")
		id := html.EscapeString(strings.ReplaceAll(attrPath, ".", "-"))
		attrPathEscaped := html.EscapeString(attrPath)

		fmt.Fprintf(&b, `<section class="lib-entry" id="%s">`, id)
		fmt.Fprintf(&b, `<h3 class="lib-entry-name"><a class="lib-entry-anchor" href="#%s">%s</a></h3>`, id, attrPathEscaped)

		if doc := stripDocDelimiters(entry.Doc); doc != "" {
			rendered, err := render(doc)
			if err != nil {
				return "", fmt.Errorf("rendering nixdoc entry %s: %w", attrPath, err)
			}
			b.WriteString(`<div class="lib-entry-description">` + rendered + "</div>")
		}

		file, line := splitLocation(entry.Location)
		display, url := formatLibLocation(file, line, revision)
		if url != "" {
			fmt.Fprintf(&b, `<div class="lib-entry-declared">Declared in: <code><a href="%s" target="_blank">%s</a></code></div>`,
				html.EscapeString(url), html.EscapeString(display))
		} else {
			fmt.Fprintf(&b, `<div class="lib-entry-declared">Declared in: <code>%s</code></div>`, html.EscapeString(display))
		}

		b.WriteString("</section>")
	}
	return b.String(), nil
}

// GenerateLibraryTOC renders the `lib.html` table of contents, one
// list item per entry (libdoc.rs's generate_lib_toc_html).
func GenerateLibraryTOC(entries []api.NixDocEntry) string {
	var b strings.Builder
	for _, entry := range entries {
		attrPath := strings.Join(entry.AttrPath, ".")
		id := html.EscapeString(strings.ReplaceAll(attrPath, ".", "-"))
		fmt.Fprintf(&b, `<li><a href="#%s">%s</a></li>`, id, html.EscapeString(attrPath))
	}
	return b.String()
}

// stripDocDelimiters removes the `/** ... */` wrapper and the common
// leading indentation nixdoc-style comments use, leaving plain
// Markdown suitable for the shared renderer.
func stripDocDelimiters(raw string) string {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "/**")
	content = strings.TrimSuffix(content, "*/")

	lines := strings.Split(content, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent > 0 {
		for i, line := range lines {
			if len(line) >= minIndent {
				lines[i] = line[minIndent:]
			} else {
				lines[i] = strings.TrimLeft(line, " \t")
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// splitLocation parses an api.NixDocEntry.Location string ("file:line")
// back into its parts.
func splitLocation(loc string) (file string, line int) {
	idx := strings.LastIndex(loc, ":")
	if idx < 0 {
		return loc, 0
	}
	file = loc[:idx]
	line, _ = strconv.Atoi(loc[idx+1:])
	return file, line
}

// formatLibLocation mirrors process.go's formatLocation for nixdoc
// entries: absolute paths are shown as-is, relative paths link to the
// nixpkgs GitHub tree at revision (or "master" for "local"), with a
// line anchor when a line number was captured.
func formatLibLocation(file string, line int, revision string) (display, url string) {
	if file == "" {
		return "", ""
	}
	if filepath.IsAbs(file) {
		return file, ""
	}

	branch := revision
	if branch == "" || branch == "local" {
		branch = "master"
	}
	url = "https://github.com/NixOS/nixpkgs/blob/" + branch + "/" + file
	if line > 0 {
		url += fmt.Sprintf("#L%d", line)
	}
	display = "<nixpkgs/" + file + ">"
	return display, url
}
