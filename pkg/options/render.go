// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package options

import (
	"html"
	"strings"

	"github.com/feel-co/ndg/pkg/api"
)

// RenderBlock emits the `<div class="option" id="option-<slug>">…</div>`
// markup for one processed option (spec §4.8 step 7): name anchor,
// metadata badges, type, description, default, example, and
// declaration link.
func RenderBlock(opt api.Option) string {
	var b strings.Builder
	b.WriteString(`<div class="option" id="option-` + Slug(opt.Name) + `">`)
	b.WriteString(`<h3 class="option-name">` + html.EscapeString(opt.Name) + "</h3>")

	if opt.Internal {
		b.WriteString(`<span class="option-badge option-internal">internal</span>`)
	}
	if opt.ReadOnly {
		b.WriteString(`<span class="option-badge option-readonly">read-only</span>`)
	}
	if opt.Type != "" {
		b.WriteString(`<div class="option-type"><span class="option-label">Type:</span> ` + html.EscapeString(opt.Type) + "</div>")
	}

	b.WriteString(`<div class="option-description">` + opt.DescriptionHTML + "</div>")

	if opt.Default != "" {
		b.WriteString(`<div class="option-default"><span class="option-label">Default:</span> ` + opt.Default + "</div>")
	}
	if opt.Example != "" {
		b.WriteString(`<div class="option-example"><span class="option-label">Example:</span> ` + opt.Example + "</div>")
	}
	if opt.DeclaredIn != "" {
		b.WriteString(`<div class="option-declared-in"><span class="option-label">Declared in:</span> `)
		if opt.DeclaredInURL != "" {
			b.WriteString(`<a href="` + html.EscapeString(opt.DeclaredInURL) + `">` + opt.DeclaredIn + "</a>")
		} else {
			b.WriteString(opt.DeclaredIn)
		}
		b.WriteString("</div>")
	}

	b.WriteString("</div>")
	return b.String()
}
