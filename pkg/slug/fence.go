// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package slug

import "strings"

// BlockFenceTracker is a pure finite-state machine that tracks whether
// a line-oriented scan is currently inside a fenced code block. It
// consumes one line at a time; InCodeBlock toggles when the leading
// non-whitespace of a line is a run of at least three backticks or
// tildes. Closing a fence requires the same fence character and at
// least as many characters as the opener.
type BlockFenceTracker struct {
	inCodeBlock bool
	fenceChar   byte
	fenceLen    int
}

// InCodeBlock reports whether the tracker is currently inside a fence.
func (t *BlockFenceTracker) InCodeBlock() bool {
	return t.inCodeBlock
}

// Feed consumes one line and updates the tracker's state.
func (t *BlockFenceTracker) Feed(line string) {
	ch, n := fenceLead(line)
	if n < 3 {
		return
	}
	if !t.inCodeBlock {
		t.inCodeBlock = true
		t.fenceChar = ch
		t.fenceLen = n
		return
	}
	if ch == t.fenceChar && n >= t.fenceLen {
		t.inCodeBlock = false
		t.fenceChar = 0
		t.fenceLen = 0
	}
}

// fenceLead returns the fence character and run length of the leading
// non-whitespace of line, if it is a run of backticks or tildes.
func fenceLead(line string) (byte, int) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return 0, 0
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return 0, 0
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	return ch, n
}

// InlineFenceTracker additionally models single-backtick toggling for
// inline code spans within a line, resetting on every newline (i.e.
// every call to Feed starts a fresh line).
type InlineFenceTracker struct {
	block      BlockFenceTracker
	inInline   bool
}

// Feed processes one line, updating both the block and inline state.
// The inline flag is reset at the start of every call, so an inline
// code span never carries over to the next line; InInlineCode reports
// whether this line ended inside an unterminated span.
func (t *InlineFenceTracker) Feed(line string) {
	t.inInline = false
	if t.block.InCodeBlock() {
		t.block.Feed(line)
		return
	}
	t.block.Feed(line)
	if t.block.InCodeBlock() {
		// the fence line itself just opened a block; nothing further.
		return
	}
	for i := 0; i < len(line); i++ {
		if line[i] == '`' {
			t.inInline = !t.inInline
		}
	}
}

// InCodeBlock reports block-fence state.
func (t *InlineFenceTracker) InCodeBlock() bool { return t.block.InCodeBlock() }

// InInlineCode reports whether the line ended inside an (unterminated,
// within-line) inline code span.
func (t *InlineFenceTracker) InInlineCode() bool { return t.inInline }
