// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package renderer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	ndghighlight "github.com/feel-co/ndg/pkg/highlight"
)

type fakeBackend struct{}

func (fakeBackend) Name() string                 { return "fake" }
func (fakeBackend) SupportedLanguages() []string { return []string{"go"} }
func (fakeBackend) AvailableThemes() []string     { return []string{"default"} }
func (fakeBackend) Supports(language string) bool { return language == "go" }
func (fakeBackend) HasTheme(string) bool          { return true }
func (fakeBackend) Highlight(code, _, _ string) (string, error) {
	return "<pre class=\"hl\"><code>" + code + "</code></pre>", nil
}
func (fakeBackend) LanguageFromExtension(ext string) (string, bool) {
	if ext == "go" {
		return "go", true
	}
	return "", false
}

func TestCodeBlockRoutesThroughSyntaxManager(t *testing.T) {
	mgr := ndghighlight.NewSyntaxManager(fakeBackend{}, ndghighlight.Config{FallbackToPlain: true})
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRenderer(New(mgr, "")),
	)
	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte("```go\nfmt.Println(1)\n```\n"), &buf))
	assert.Contains(t, buf.String(), `<pre class="hl">`)
	assert.Contains(t, buf.String(), "fmt.Println(1)")
}

func TestPlainParagraphStillRenders(t *testing.T) {
	mgr := ndghighlight.NewSyntaxManager(fakeBackend{}, ndghighlight.Config{FallbackToPlain: true})
	md := goldmark.New(goldmark.WithRenderer(New(mgr, "")))
	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte("hello world\n"), &buf))
	assert.Contains(t, buf.String(), "<p>hello world</p>")
}
