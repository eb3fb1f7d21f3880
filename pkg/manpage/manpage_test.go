// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package manpage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feel-co/ndg/pkg/api"
)

var fixedNow = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

func TestManEscape(t *testing.T) {
	assert.Equal(t, `a\-b\&.c`, manEscape(`a-b.c`))
}

func TestEscapeLeadingDot(t *testing.T) {
	assert.Equal(t, `\&.foo`, escapeLeadingDot(".foo"))
	assert.Equal(t, "bar", escapeLeadingDot("bar"))
}

func TestRenderDocumentHeader(t *testing.T) {
	out, err := RenderDocument("# Title\n\nHello world.\n", "mytool", 1, "User Commands", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, `.TH "mytool" "1" "2026-01-02" "" "User Commands"`)
	assert.Contains(t, out, ".SH \"")
	assert.Contains(t, out, `Hello world\&.`)
}

func TestRenderDocumentBulletList(t *testing.T) {
	out, err := RenderDocument("- one\n- two\n", "t", 1, "m", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, `.IP "\[u2022]" 4`)
}

func TestRenderDocumentOrderedList(t *testing.T) {
	out, err := RenderDocument("1. one\n2. two\n", "t", 1, "m", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, `.IP "1." 4`)
	assert.Contains(t, out, `.IP "2." 4`)
}

func TestRenderDocumentRoleMapping(t *testing.T) {
	out, err := RenderDocument("Run {command}`rebuild switch`.\n", "t", 1, "m", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, `\fBrebuild switch\fP`)
}

func TestRenderDocumentAdmonition(t *testing.T) {
	out, err := RenderDocument(":::{.note}\nThis is important.\n:::\n", "t", 1, "m", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, `\fBNote:\fP`)
	assert.Contains(t, out, ".RS 4")
	assert.Contains(t, out, "This is important.")
}

func TestRenderDocumentLeadingDotEscaped(t *testing.T) {
	out, err := RenderDocument("A sentence.\n\n.oddline that looks like a macro\n", "t", 1, "m", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, `\&.oddline`)
}

func TestGenerateOptionsManpageSkipsInternal(t *testing.T) {
	opts := []api.Option{
		{Name: "services.nginx.enable", Type: "boolean", DescriptionRaw: "Whether to enable nginx.", Default: "`false`"},
		{Name: "services.nginx.package", Type: "package", Internal: true},
	}
	out, err := GenerateOptionsManpage(opts, "Module Options", "Module Options", 5, "", "", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, `services\&.nginx\&.enable`)
	assert.NotContains(t, out, `package`)
	assert.Contains(t, out, `\fIType:\fP boolean`)
}

func TestGenerateOptionsManpageReadOnlyNote(t *testing.T) {
	opts := []api.Option{
		{Name: "system.version", Type: "string", ReadOnly: true},
	}
	out, err := GenerateOptionsManpage(opts, "Module Options", "Module Options", 5, "", "", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, "This option is read-only.")
}
