// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package manpage

import (
	"regexp"
	"strings"
)

var (
	rolePatternRe        = regexp.MustCompile("\\{([a-z]+)\\}`([^`]+)`")
	admonitionStartRe    = regexp.MustCompile(`^:::\s*\{\.([a-zA-Z]+)(?:\s+#([a-zA-Z0-9_-]+))?\}(.*)$`)
	admonitionEndRe      = regexp.MustCompile(`^(.*?):::$`)
	commandPromptRe      = regexp.MustCompile("`\\s*\\$\\s+([^`]+)`")
	replPromptRe         = regexp.MustCompile("`nix-repl>\\s*([^`]+)`")
	headingAnchorRe      = regexp.MustCompile(`^(?:(#+)?\s*)?(.+?)(?:\s+\{#([a-zA-Z0-9_-]+)\})\s*$`)
	inlineAnchorRe       = regexp.MustCompile(`\[\]\{#([a-zA-Z0-9_-]+)\}`)
	listItemWithAnchorRe = regexp.MustCompile(`^(\s*[-*+]|\s*\d+\.)\s+\[\]\{#([a-zA-Z0-9_-]+)\}(.*)$`)
	autoEmptyLinkRe      = regexp.MustCompile(`\[\]\((#[a-zA-Z0-9_-]+)\)`)
	autoSectionLinkRe    = regexp.MustCompile(`\[([^\]]+)\]\((#[a-zA-Z0-9_-]+)\)`)
)

// preprocess rewrites role markup, prompts and admonitions into either
// troff escapes or sentinel paragraph text ahead of CommonMark parsing,
// mirroring the HTML extension layer's pre-parse half (spec §4.5) but
// targeting troff instead of HTML.
func preprocess(content string) string {
	var result strings.Builder
	inAdmonition := false
	var admonitionContent strings.Builder
	admonitionType := ""

	for _, line := range strings.Split(content, "\n") {
		if caps := headingAnchorRe.FindStringSubmatch(line); caps != nil {
			levelSigns, text := caps[1], caps[2]
			if levelSigns == "" {
				levelSigns = "##"
			}
			result.WriteString(levelSigns + " " + text + "\n")
			continue
		}

		if caps := listItemWithAnchorRe.FindStringSubmatch(line); caps != nil {
			marker, content := caps[1], caps[3]
			result.WriteString(marker + " " + content + "\n")
			continue
		}

		if caps := admonitionStartRe.FindStringSubmatch(line); caps != nil {
			inAdmonition = true
			admonitionType = caps[1]
			admonitionContent.Reset()

			contentPart := caps[3]
			if endCaps := admonitionEndRe.FindStringSubmatch(contentPart); endCaps != nil {
				content := strings.TrimSpace(endCaps[1])
				result.WriteString(".ADMONITION_START " + admonitionType + " " + content + "\n")
				result.WriteString(".ADMONITION_END\n")
				inAdmonition = false
				continue
			}

			if strings.TrimSpace(contentPart) != "" {
				admonitionContent.WriteString(contentPart)
				admonitionContent.WriteString("\n")
			}
			continue
		}

		if inAdmonition {
			if endCaps := admonitionEndRe.FindStringSubmatch(line); endCaps != nil {
				before := strings.TrimSpace(endCaps[1])
				if before != "" {
					admonitionContent.WriteString(before)
					admonitionContent.WriteString("\n")
				}
				result.WriteString(".ADMONITION_START " + admonitionType + " " + strings.TrimSpace(admonitionContent.String()) + "\n")
				result.WriteString(".ADMONITION_END\n")
				inAdmonition = false
				continue
			}
			admonitionContent.WriteString(line)
			admonitionContent.WriteString("\n")
			continue
		}

		processed := rolePatternRe.ReplaceAllStringFunc(line, func(m string) string {
			caps := rolePatternRe.FindStringSubmatch(m)
			return renderRoleEscape(caps[1], caps[2])
		})
		processed = commandPromptRe.ReplaceAllString(processed, "$ "+sentinelBold+"$1"+sentinelPop)
		processed = replPromptRe.ReplaceAllString(processed, "nix-repl> "+sentinelBold+"$1"+sentinelPop)
		processed = inlineAnchorRe.ReplaceAllString(processed, "")
		processed = autoEmptyLinkRe.ReplaceAllString(processed, "[$1]")
		processed = autoSectionLinkRe.ReplaceAllString(processed, "$1 [$2]")

		result.WriteString(processed)
		result.WriteString("\n")
	}

	return result.String()
}

// renderRoleEscape maps one `{kind}`content`` role span directly to its
// troff font-change escape (spec §4.5's role table, with HTML anchors
// replaced by `\fB`/`\fI`).
func renderRoleEscape(kind, content string) string {
	switch kind {
	case "command", "option":
		return sentinelBold + content + sentinelPop
	case "env", "file", "var":
		return sentinelItalic + content + sentinelPop
	case "manpage":
		if idx := strings.LastIndex(content, "("); idx >= 0 && strings.HasSuffix(content, ")") {
			page := strings.TrimSpace(content[:idx])
			section := strings.TrimSuffix(content[idx+1:], ")")
			return sentinelBold + page + sentinelPop + "(" + section + ")"
		}
		return sentinelBold + content + sentinelPop
	default:
		return sentinelItalic + content + sentinelPop
	}
}
