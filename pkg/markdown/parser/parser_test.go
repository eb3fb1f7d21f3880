// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"testing"

	"github.com/feel-co/ndg/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestApplyTabStyleNone(t *testing.T) {
	src := "a\tb\n"
	got := applyTabStyle([]byte(src), api.TabStyleNone, "f.md")
	assert.Equal(t, src, string(got))
}

func TestApplyTabStyleNormalize(t *testing.T) {
	src := "a\tb\n```\nc\td\n```\n"
	got := applyTabStyle([]byte(src), api.TabStyleNormalize, "f.md")
	assert.Equal(t, "a  b\n```\nc  d\n```\n", string(got))
}

func TestApplyTabStyleNormalizeIdempotent(t *testing.T) {
	src := "a\tb\n"
	once := applyTabStyle([]byte(src), api.TabStyleNormalize, "f.md")
	twice := applyTabStyle(once, api.TabStyleNormalize, "f.md")
	assert.Equal(t, once, twice)
}

func TestApplyTabStyleWarnPreservesFencedTabs(t *testing.T) {
	src := "a\tb\n```\nc\td\n```\n"
	got := applyTabStyle([]byte(src), api.TabStyleWarn, "f.md")
	assert.Equal(t, src, string(got))
}

func TestParseNeverPanics(t *testing.T) {
	md := New()
	inputs := []string{"", "# \x00\x01", "```", "[[[", string([]byte{0xff, 0xfe})}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			Parse(md, []byte(in), api.TabStyleNone, "f.md")
		})
	}
}
