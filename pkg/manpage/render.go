// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package manpage

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark/ast"

	"github.com/feel-co/ndg/pkg/api"
	ndgparser "github.com/feel-co/ndg/pkg/markdown/parser"
)

type listFrame struct {
	width     int
	ordered   bool
	nextIdx   int
	firstSeen bool
}

// state mirrors the original renderer's per-document scratch space:
// font/parbreak stacks so nested inline spans restore the enclosing
// font, and an admonition side-buffer since admonition bodies are
// flattened into a single escaped blob rather than walked in place.
type state struct {
	out               strings.Builder
	doParbreakStack   []bool
	fontStack         []string
	listStack         []*listFrame
	inAdmonition      bool
	admonitionContent strings.Builder
	admonitionKind    string
}

func newState() *state {
	return &state{
		doParbreakStack: []bool{false},
		fontStack:       []string{"R"},
	}
}

func (s *state) enterBlock() {
	s.doParbreakStack = append(s.doParbreakStack, false)
}

func (s *state) leaveBlock() {
	s.doParbreakStack = s.doParbreakStack[:len(s.doParbreakStack)-1]
	if n := len(s.doParbreakStack); n > 0 {
		s.doParbreakStack[n-1] = true
	}
}

func (s *state) maybeParbreak() string {
	result := ""
	if n := len(s.doParbreakStack); n > 0 && s.doParbreakStack[n-1] {
		result = ".sp"
	}
	if n := len(s.doParbreakStack); n > 0 {
		s.doParbreakStack[n-1] = true
	}
	return result
}

func (s *state) pushFont(font string) string {
	s.fontStack = append(s.fontStack, font)
	return `\f` + font
}

func (s *state) popFont() string {
	s.fontStack = s.fontStack[:len(s.fontStack)-1]
	prev := "P"
	if n := len(s.fontStack); n > 0 {
		prev = s.fontStack[n-1]
	}
	return `\f` + prev
}

func (s *state) startListItem() string {
	if len(s.listStack) == 0 {
		return ""
	}
	l := s.listStack[len(s.listStack)-1]
	var out strings.Builder
	if l.firstSeen {
		out.WriteString(".sp\n")
	}
	l.firstSeen = true

	marker := `\[u2022]`
	if l.ordered {
		marker = fmt.Sprintf("%d.", l.nextIdx)
		l.nextIdx++
	}
	fmt.Fprintf(&out, ".IP \"%s\" %d\n", marker, l.width)
	return out.String()
}

// formatAdmonition renders the flattened content of one admonition
// block as `.sp / .RS 4 / \fBKind\fP ... / .RE` (spec §4.10).
func formatAdmonition(kind, content string) string {
	title := admonitionTitle(kind)
	var b strings.Builder
	b.WriteString(".sp\n.RS 4\n")
	fmt.Fprintf(&b, `\fB%s:\fP `, title)

	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[0] != "" {
		b.WriteString(lines[0])
		b.WriteByte('\n')
		for _, line := range lines[1:] {
			b.WriteString(strings.TrimSpace(line))
			b.WriteByte('\n')
		}
	}
	b.WriteString(".RE\n")
	return b.String()
}

func admonitionTitle(kind string) string {
	switch strings.ToLower(kind) {
	case "note":
		return "Note"
	case "warning":
		return "Warning"
	case "tip":
		return "Tip"
	case "info":
		return "Info"
	case "important":
		return "Important"
	case "caution":
		return "Caution"
	case "danger":
		return "Danger"
	case "figure":
		return "Figure"
	case "example":
		return "Example"
	default:
		if kind == "" {
			return ""
		}
		return strings.ToUpper(kind[:1]) + kind[1:]
	}
}

// RenderDocument converts one Markdown document to a complete troff
// man page: `.TH` header followed by the body (spec §4.10).
func RenderDocument(markdown, title string, section int, manual string, now time.Time) (string, error) {
	body, err := renderBody(markdown)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(".\\\" Generated by ndg\n")
	fmt.Fprintf(&out, ".TH \"%s\" \"%d\" \"%s\" \"\" \"%s\"\n",
		manEscape(title), section, now.Format("2006-01-02"), manEscape(manual))
	out.WriteString(body)

	return fixFormatting(out.String()), nil
}

// renderBody walks one preprocessed-and-parsed document and returns
// its troff body, without the `.TH` page header. Used both for full
// documents and for option descriptions (spec §4.10's "mirrors §4.8").
func renderBody(markdown string) (string, error) {
	pre := preprocess(markdown)
	md := ndgparser.New()
	result := ndgparser.Parse(md, []byte(pre), api.TabStyleNone, "")

	s := newState()
	err := ast.Walk(result.Document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return walkNode(s, n, entering, result.Source)
	})
	if err != nil {
		return "", err
	}
	return resolveSentinels(s.out.String()), nil
}

func walkNode(s *state, n ast.Node, entering bool, source []byte) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			macro := ".SS"
			if node.Level == 1 {
				macro = ".SH"
			}
			if len(s.doParbreakStack) > 0 {
				s.doParbreakStack[0] = false
			}
			fmt.Fprintf(&s.out, "%s \"", macro)
		} else {
			s.out.WriteString("\"\n")
		}

	case *ast.Paragraph:
		if entering {
			if s.inAdmonition {
				s.admonitionContent.WriteByte('\n')
			} else {
				s.out.WriteString(s.maybeParbreak() + "\n")
			}
		} else if !s.inAdmonition {
			s.out.WriteByte('\n')
		}

	case *ast.List:
		if entering {
			width := 4
			start := node.Start
			ordered := node.IsOrdered()
			nextIdx := start
			if nextIdx <= 0 {
				nextIdx = 1
			}
			s.listStack = append(s.listStack, &listFrame{width: width, ordered: ordered, nextIdx: nextIdx})
			s.out.WriteString(s.maybeParbreak() + "\n.RS\n")
		} else {
			s.listStack = s.listStack[:len(s.listStack)-1]
			s.out.WriteString(".RE\n")
		}

	case *ast.ListItem:
		if entering {
			s.enterBlock()
			s.out.WriteString(s.startListItem())
		} else {
			s.leaveBlock()
			s.out.WriteByte('\n')
		}

	case *ast.CodeBlock, *ast.FencedCodeBlock:
		if entering {
			s.out.WriteString(".sp\n.RS 4\n.nf\n")
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				s.out.Write(line.Value(source))
			}
			s.out.WriteString(".fi\n.RE\n")
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		font := "I"
		if node.Level >= 2 {
			font = "B"
		}
		if entering {
			if s.inAdmonition {
				if font == "I" {
					s.admonitionContent.WriteString(`\fI`)
				} else {
					s.admonitionContent.WriteString(`\fB`)
				}
			} else {
				s.out.WriteString(s.pushFont(font))
			}
		} else {
			if s.inAdmonition {
				s.admonitionContent.WriteString(`\fP`)
			} else {
				s.out.WriteString(s.popFont())
			}
		}

	case *ast.CodeSpan:
		if entering {
			text := flattenCodeSpan(node, source)
			escaped := manEscape(text)
			if s.inAdmonition {
				s.admonitionContent.WriteString(`\fB` + escaped + `\fP`)
			} else {
				s.out.WriteString(`\fB` + escaped + `\fP`)
			}
			return ast.WalkSkipChildren, nil
		}

	case *ast.Text:
		if entering {
			literal := string(node.Segment.Value(source))
			writeText(s, literal)
			if node.HardLineBreak() {
				if s.inAdmonition {
					s.admonitionContent.WriteByte('\n')
				} else {
					s.out.WriteString(".br\n")
				}
			} else if node.SoftLineBreak() {
				if s.inAdmonition {
					s.admonitionContent.WriteByte(' ')
				} else {
					s.out.WriteByte(' ')
				}
			}
		}

	default:
		// Links, autolinks, images, raw HTML, tables and other nodes
		// fall through to a plain child-descent: links carry no
		// distinguishable troff typography, and tables are rare enough
		// in this corpus's documentation that a generic pass-through is
		// preferable to a half-finished `.TS` renderer.
	}

	return ast.WalkContinue, nil
}

func writeText(s *state, literal string) {
	if strings.HasPrefix(literal, ".ADMONITION_START ") {
		parts := strings.SplitN(literal, " ", 3)
		if len(parts) >= 3 {
			s.inAdmonition = true
			s.admonitionContent.Reset()
			s.admonitionKind = parts[1]
			s.admonitionContent.WriteString(parts[2])
		}
		return
	}
	if literal == ".ADMONITION_END" {
		s.out.WriteString(formatAdmonition(s.admonitionKind, s.admonitionContent.String()))
		s.inAdmonition = false
		return
	}

	if s.inAdmonition {
		s.admonitionContent.WriteString(manEscape(literal))
		return
	}
	if strings.HasPrefix(literal, ".") {
		s.out.WriteString(escapeLeadingDot(literal))
	} else {
		s.out.WriteString(manEscape(literal))
	}
}

func flattenCodeSpan(n *ast.CodeSpan, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}
