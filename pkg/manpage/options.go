// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package manpage

import (
	"fmt"
	"strings"
	"time"

	"github.com/feel-co/ndg/pkg/api"
)

// GenerateOptionsManpage mirrors the options processor (C8) but emits
// text sections instead of HTML (spec §4.10): one `.PP`/`.RS 4`/`.RE`
// block per visible option, skipping internal options entirely and
// noting read-only status in italics. opts is expected already sorted
// and processed by pkg/options.Process.
func GenerateOptionsManpage(opts []api.Option, title, manual string, section int, header, footer string, now time.Time) (string, error) {
	var out strings.Builder
	out.WriteString(".\\\" Generated by ndg\n")
	fmt.Fprintf(&out, ".TH \"%s\" \"%d\" \"%s\" \"\" \"%s\"\n",
		manEscape(title), section, now.Format("2006-01-02"), manEscape(manual))

	out.WriteString(".SH NAME\n")
	out.WriteString(manEscape(title) + "\n")
	out.WriteString(".SH DESCRIPTION\n")
	if header != "" {
		out.WriteString(renderInline(header) + "\n")
	} else {
		out.WriteString("Available configuration options\n")
	}

	out.WriteString(".SH OPTIONS\n")
	for _, opt := range opts {
		if opt.Internal {
			continue
		}
		writeOptionSection(&out, opt)
	}

	if footer != "" {
		out.WriteString(".SH NOTES\n")
		out.WriteString(renderInline(footer) + "\n")
	}

	out.WriteString(".SH SEE ALSO\n")

	return fixFormatting(out.String()), nil
}

func writeOptionSection(out *strings.Builder, opt api.Option) {
	out.WriteString(".PP\n")
	fmt.Fprintf(out, "\\fB%s\\fR\n", manEscape(opt.Name))
	out.WriteString(".RS 4\n")

	if opt.DescriptionRaw != "" {
		out.WriteString(renderInline(opt.DescriptionRaw) + "\n")
	}

	out.WriteString(".sp\n")
	fmt.Fprintf(out, "\\fIType:\\fR %s\n", manEscape(opt.Type))

	if opt.Default != "" {
		out.WriteString(".sp\n")
		fmt.Fprintf(out, "\\fIDefault:\\fR %s\n", renderInline(opt.Default))
	}

	if opt.Example != "" {
		out.WriteString(".sp\n")
		out.WriteString("\\fIExample:\\fR\n")
		out.WriteString(".sp\n.RS 4\n.nf\n")
		out.WriteString(renderInline(opt.Example) + "\n")
		out.WriteString(".fi\n.RE\n")
	}

	if opt.DeclaredIn != "" {
		out.WriteString(".sp\n")
		out.WriteString("\\fIDeclared by:\\fP\n")
		out.WriteString(".RS 4\n")
		if opt.DeclaredInURL != "" {
			fmt.Fprintf(out, "\\fB<%s> (%s)\\fP\n", manEscape(opt.DeclaredIn), manEscape(opt.DeclaredInURL))
		} else {
			fmt.Fprintf(out, "\\fB<%s>\\fP\n", manEscape(opt.DeclaredIn))
		}
		out.WriteString(".RE\n")
	}

	if opt.ReadOnly {
		out.WriteString(".sp\n")
		out.WriteString("\\fINote: This option is read-only.\\fP\n")
	}

	out.WriteString(".RE\n")
}

// renderInline runs a short inline Markdown snippet (a default value,
// an example, a header/footer note) through the same troff renderer a
// full document uses, trimming the single paragraph wrapper it
// produces. Falls back to a plain escape if parsing somehow fails.
func renderInline(markdown string) string {
	body, err := renderBody(markdown)
	if err != nil {
		return manEscape(markdown)
	}
	return strings.TrimSpace(body)
}
