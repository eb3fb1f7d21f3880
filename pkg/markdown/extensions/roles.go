// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package extensions

import (
	"html"
	"regexp"
	"strings"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/feel-co/ndg/pkg/slug"
)

var roleSpanRe = regexp.MustCompile("\\{(command|env|file|option|var|manpage)\\}`([^`\n]*)`")

var manpageEntryRe = regexp.MustCompile(`^([^(]+)\(([0-9A-Za-z]+)\)$`)

var optionNameShapeRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_-]*)+$`)

var promptRe = regexp.MustCompile(`^\s*\$\s+(.+)$`)
var nixReplRe = regexp.MustCompile(`^nix-repl>\s*(.*)$`)
var bareSpanRe = regexp.MustCompile("`([^`\n]*)`")

// optionSlug mirrors spec §4.5: replace "." with "-", preserving the
// original angle brackets used for templated option-name segments.
func optionSlug(name string) string {
	return strings.ReplaceAll(name, ".", "-")
}

// renderOptionLink builds the `{option}` role's anchor markup. Display
// text is HTML-escaped, so templated segments like `<name>` appear as
// `&lt;name&gt;` in the markup and as angle brackets in the browser;
// the href slug keeps the raw `<`/`>`.
func renderOptionLink(name string) string {
	display := html.EscapeString(name)
	return `<a class="option-reference" href="options.html#option-` + optionSlug(name) +
		`"><code class="nixos-option">` + display + `</code></a>`
}

// rewriteRoles applies the six role kinds (spec §4.5) to one line of
// raw Markdown. It keeps no fence state of its own: every role span in
// line is rewritten.
func rewriteRoles(line string, urls api.ManpageURLMap) string {
	return roleSpanRe.ReplaceAllStringFunc(line, func(m string) string {
		sub := roleSpanRe.FindStringSubmatch(m)
		kind, content := sub[1], sub[2]
		switch kind {
		case "command":
			return `<code class="command">` + html.EscapeString(content) + `</code>`
		case "env":
			return `<code class="env-var">` + html.EscapeString(content) + `</code>`
		case "file":
			return `<code class="file-path">` + html.EscapeString(content) + `</code>`
		case "var":
			return `<code class="nix-var">` + html.EscapeString(content) + `</code>`
		case "option":
			return renderOptionLink(content)
		case "manpage":
			return renderManpageRole(content, urls)
		default:
			return m
		}
	})
}

func renderManpageRole(content string, urls api.ManpageURLMap) string {
	name, section := content, ""
	if sub := manpageEntryRe.FindStringSubmatch(content); sub != nil {
		name, section = sub[1], sub[2]
	}
	url, ok := urls.Lookup(name, section)
	if !ok && name == "conf" {
		url, ok = urls.Lookup("nix.conf", section)
	}
	if !ok {
		return `<span class="manpage-reference">` + html.EscapeString(content) + `</span>`
	}
	return `<a class="manpage-reference" href="` + html.EscapeString(url) + `">` + html.EscapeString(content) + `</a>`
}

// rewriteBareSpans handles the two remaining code-span transforms that
// are not tied to an explicit role tag: prompt rewriting and the bare
// option-name heuristic (spec §4.5). Spans already consumed by
// rewriteRoles (now raw HTML) are not re-matched since they no longer
// contain backticks.
func rewriteBareSpans(line string, validOptions map[string]struct{}) string {
	return bareSpanRe.ReplaceAllStringFunc(line, func(m string) string {
		sub := bareSpanRe.FindStringSubmatch(m)
		content := sub[1]

		if strings.HasPrefix(content, "\\$") || strings.HasPrefix(content, "$$") || strings.Contains(content, "nix-repl>>") {
			return m
		}
		if promptMatch := promptRe.FindStringSubmatch(content); promptMatch != nil {
			return `<code class="terminal"><span class="prompt">$</span> ` + html.EscapeString(promptMatch[1]) + `</code>`
		}
		if replMatch := nixReplRe.FindStringSubmatch(content); replMatch != nil {
			return `<code class="nix-repl"><span class="prompt">nix-repl&gt;</span> ` + html.EscapeString(replMatch[1]) + `</code>`
		}
		if optionNameShapeRe.MatchString(content) && !strings.ContainsAny(content, "<>/$ ") {
			if _, ok := validOptions[content]; ok {
				return renderOptionLink(content)
			}
		}
		return m
	})
}

var inlineAnchorRe = regexp.MustCompile(`\[\]\{#([A-Za-z0-9_-]+)\}`)

// rewriteInlineAnchors replaces the bare `[]{#id}` token with its
// rendered span, wherever it appears outside a fenced code block.
func rewriteInlineAnchors(line string) string {
	return inlineAnchorRe.ReplaceAllString(line, `<span id="$1" class="nixos-anchor"></span>`)
}

// Preprocess runs the pre-parse textual rewrite pass over the full
// source: admonition div-wrapping, role rewriting, bare-span
// transforms, and inline anchors, skipping any line inside a fenced
// code block. validOptions is the set built by the options processor
// (§4.8 step 1); urls is the manpage URL map (may be nil).
func Preprocess(source []byte, validOptions map[string]struct{}, urls api.ManpageURLMap) []byte {
	lines := strings.Split(string(source), "\n")
	fence := &slug.BlockFenceTracker{}
	stack := newAdmonitionStack()

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		wasInCode := fence.InCodeBlock()
		fence.Feed(line)
		if wasInCode || fence.InCodeBlock() {
			out = append(out, line)
			continue
		}
		if opened, rewritten := stack.tryOpen(line); opened {
			out = append(out, rewritten)
			continue
		}
		if stack.tryClose(line) {
			out = append(out, stack.closeMarkup())
			continue
		}
		line = rewriteRoles(line, urls)
		line = rewriteBareSpans(line, validOptions)
		line = rewriteInlineAnchors(line)
		out = append(out, line)
	}
	return []byte(strings.Join(out, "\n"))
}
